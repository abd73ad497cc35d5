package tree

import (
	"math"
)

// rbRef addresses a node slot in the arena.
type rbRef uint32

// Slot 0 is never allocated, it is the nil leaf (black, no links).
const nilRef rbRef = 0

type rbNode[K any, V any] struct {
	key    K
	val    V
	parent rbRef
	left   rbRef
	right  rbRef
	gen    uint32 // bumped on recycle, stale iterators carry the old one
	color  RBColor
	live   bool
}

// rbArena is the growable node table of a single tree.
// Freed slots are reused in LIFO order.
type rbArena[K any, V any] struct {
	nodes    []rbNode[K, V]
	recycled []rbRef
}

func newRBArena[K any, V any](capacity int) *rbArena[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &rbArena[K, V]{
		nodes:    make([]rbNode[K, V], 1, capacity+1),
		recycled: make([]rbRef, 0, 8),
	}
}

// allocate returns a red, unlinked node.
// Any *rbNode obtained before the call may be dangling after it.
func (arena *rbArena[K, V]) allocate(key K, val V) rbRef {
	if l := len(arena.recycled); l > 0 {
		ref := arena.recycled[l-1]
		arena.recycled = arena.recycled[:l-1]
		node := &arena.nodes[ref]
		node.key, node.val = key, val
		node.color, node.live = Red, true
		return ref
	}
	if uint64(len(arena.nodes)) > math.MaxUint32 {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] arena handles exhausted")
	}
	arena.nodes = append(arena.nodes, rbNode[K, V]{
		key:   key,
		val:   val,
		color: Red,
		live:  true,
	})
	return rbRef(len(arena.nodes) - 1)
}

func (arena *rbArena[K, V]) recycle(ref rbRef) {
	if ref == nilRef {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] recycle the nil leaf")
	}
	node := &arena.nodes[ref]
	*node = rbNode[K, V]{gen: node.gen + 1}
	arena.recycled = append(arena.recycled, ref)
}

func (arena *rbArena[K, V]) isLive(ref rbRef, gen uint32) bool {
	if ref == nilRef || int(ref) >= len(arena.nodes) {
		return false
	}
	node := &arena.nodes[ref]
	return node.live && node.gen == gen
}

func (arena *rbArena[K, V]) liveLen() int {
	return len(arena.nodes) - 1 - len(arena.recycled)
}

// reset recycles every live slot, so iterators to them go stale.
func (arena *rbArena[K, V]) reset() {
	for i := len(arena.nodes) - 1; i > 0; i-- {
		if arena.nodes[i].live {
			arena.recycle(rbRef(i))
		}
	}
}

func (arena *rbArena[K, V]) clone() *rbArena[K, V] {
	nodes := make([]rbNode[K, V], len(arena.nodes), cap(arena.nodes))
	copy(nodes, arena.nodes)
	recycled := make([]rbRef, len(arena.recycled), cap(arena.recycled))
	copy(recycled, arena.recycled)
	return &rbArena[K, V]{
		nodes:    nodes,
		recycled: recycled,
	}
}
