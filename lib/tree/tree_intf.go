package tree

import (
	"errors"
	"fmt"
	"io"
	"iter"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

var (
	ErrInvalidOperation = errors.New("[rbtree] invalid operation")
	ErrEmptyTree        = fmt.Errorf("%w: empty rbtree", ErrInvalidOperation)
	ErrInvalidIterator  = fmt.Errorf("%w: iterator is stale or belongs to another rbtree", ErrInvalidOperation)
	ErrKeyNotFound      = errors.New("[rbtree] key not found")
	// ErrInvariantViolation is only reported by Validate. The mutations
	// panic on it instead, it means the tree is broken.
	ErrInvariantViolation = errors.New("[rbtree] invariant violation")
)

// RBNode is a detached snapshot of an entry.
type RBNode[K any, V any] interface {
	Key() K
	Val() V
}

type RBTree[K any, V any] interface {
	Len() int64

	// Insert is a no-op and returns false if the key is present.
	Insert(key K, val V) bool
	// InsertKey inserts the key with the zero value.
	InsertKey(key K) bool
	// Put inserts the key or overwrites the value of the present one.
	Put(key K, val V) (replaced bool)

	Find(key K) RBIterator[K, V]
	Get(key K) (V, bool)
	Contains(key K) bool
	Min() (RBIterator[K, V], error)
	Max() (RBIterator[K, V], error)

	// Erase removes the entry at it. The end position is ignored.
	// Every iterator referencing the touched nodes is invalidated.
	Erase(it RBIterator[K, V]) (bool, error)
	Remove(key K) (RBNode[K, V], error)
	RemoveMin() (RBNode[K, V], error)
	RemoveMax() (RBNode[K, V], error)

	Begin() RBIterator[K, V]
	End() RBIterator[K, V]
	All() iter.Seq2[K, V]
	Backward() iter.Seq2[K, V]
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Keys() []K

	Clone() RBTree[K, V]
	Release()

	Validate() error
	Dump(w io.Writer) error
	String() string
}
