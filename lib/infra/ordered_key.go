package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// Comparator defines a strict total order over K.
// Assume i is the new key.
//  1. i == j, return 0
//  2. i > j, return 1, turn to right part.
//  3. i < j, return -1, turn to left part.
type Comparator[K any] func(i, j K) int64

// OrderedKeyCmp is the natural ascending order.
// NaN is treated as less than every other float and equal to itself,
// otherwise the order would not be total.
func OrderedKeyCmp[K OrderedKey](i, j K) int64 {
	iNaN, jNaN := i != i, j != j
	switch {
	case iNaN && jNaN:
		return 0
	case iNaN:
		return -1
	case jNaN:
		return 1
	case i < j:
		return -1
	case i > j:
		return 1
	}
	return 0
}

// Reverse inverts the order of cmp.
func Reverse[K any](cmp Comparator[K]) Comparator[K] {
	return func(i, j K) int64 {
		return cmp(j, i)
	}
}
