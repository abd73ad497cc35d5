package tree

import (
	"iter"
)

// RBIterator is a position in a tree: a node handle plus the tree.
// The zero handle is the end position, it is unequal to every element.
//
// Any Erase touching the referenced node invalidates the iterator.
// A recycled node is detected and reported as ErrInvalidIterator, but a node
// which got its key overwritten by a two-children erase is not.
type RBIterator[K any, V any] struct {
	tree *rbTree[K, V]
	ref  rbRef
	gen  uint32
}

func (tree *rbTree[K, V]) iterAt(ref rbRef) RBIterator[K, V] {
	return RBIterator[K, V]{
		tree: tree,
		ref:  ref,
		gen:  tree.node(ref).gen,
	}
}

func (tree *rbTree[K, V]) Begin() RBIterator[K, V] {
	return tree.iterAt(tree.minimum(tree.root))
}

func (tree *rbTree[K, V]) End() RBIterator[K, V] {
	return tree.iterAt(nilRef)
}

// Valid reports whether it references a live element.
func (it RBIterator[K, V]) Valid() bool {
	return it.tree != nil && it.tree.arena.isLive(it.ref, it.gen)
}

func (it RBIterator[K, V]) IsEnd() bool {
	return it.ref == nilRef
}

// Key returns the zero value if it is not valid.
func (it RBIterator[K, V]) Key() K {
	if !it.Valid() {
		var zero K
		return zero
	}
	return it.tree.node(it.ref).key
}

// Val returns the zero value if it is not valid.
func (it RBIterator[K, V]) Val() V {
	if !it.Valid() {
		var zero V
		return zero
	}
	return it.tree.node(it.ref).val
}

// Color of the end position is black, like any nil leaf.
func (it RBIterator[K, V]) Color() RBColor {
	if !it.Valid() {
		return Black
	}
	return it.tree.node(it.ref).color
}

// SetVal changes the value in place. Keys are immutable.
func (it RBIterator[K, V]) SetVal(val V) error {
	if !it.Valid() {
		return ErrInvalidIterator
	}
	it.tree.node(it.ref).val = val
	return nil
}

// Next advances in ascending order. The last element advances to end,
// end stays at end.
func (it RBIterator[K, V]) Next() RBIterator[K, V] {
	if it.tree == nil || it.ref == nilRef {
		return it
	}
	if !it.Valid() {
		return it.tree.End()
	}
	return it.tree.iterAt(it.tree.succ(it.ref))
}

// Prev retreats in ascending order. End retreats to the last element,
// the first element retreats to end.
func (it RBIterator[K, V]) Prev() RBIterator[K, V] {
	if it.tree == nil {
		return it
	}
	if it.ref == nilRef {
		return it.tree.iterAt(it.tree.maximum(it.tree.root))
	}
	if !it.Valid() {
		return it.tree.End()
	}
	return it.tree.iterAt(it.tree.pred(it.ref))
}

func (it RBIterator[K, V]) Equal(other RBIterator[K, V]) bool {
	return it.tree == other.tree && it.ref == other.ref && it.gen == other.gen
}

// Less orders positions by key, end is after every element.
func (it RBIterator[K, V]) Less(other RBIterator[K, V]) bool {
	if !it.Valid() {
		return false
	}
	if !other.Valid() {
		return true
	}
	return it.tree.keyCompare(it.Key(), other.Key()) < 0
}

// All yields the entries in order. The tree must not be mutated while ranging.
func (tree *rbTree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for ref := tree.minimum(tree.root); ref != nilRef; ref = tree.succ(ref) {
			node := tree.node(ref)
			if !yield(node.key, node.val) {
				return
			}
		}
	}
}

func (tree *rbTree[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for ref := tree.maximum(tree.root); ref != nilRef; ref = tree.pred(ref) {
			node := tree.node(ref)
			if !yield(node.key, node.val) {
				return
			}
		}
	}
}

// Inorder traversal to implement the DFS.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	size := tree.count
	aux := tree.root
	if size <= 0 || aux == nilRef {
		return
	}

	stack := make([]rbRef, 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nilRef; aux = tree.node(aux).left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		node := tree.node(stack[size-1])
		right := node.right
		if !action(idx, node.color, node.key, node.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = right; aux != nilRef; aux = tree.node(aux).left {
			stack = append(stack, aux)
		}
	}
}

func (tree *rbTree[K, V]) Keys() []K {
	keys := make([]K, 0, tree.count)
	for key := range tree.All() {
		keys = append(keys, key)
	}
	return keys
}
