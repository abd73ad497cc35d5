package tree

var _ RBNode[int, int] = (*rbEntry[int, int])(nil)

type rbEntry[K any, V any] struct {
	key K
	val V
}

func (e *rbEntry[K, V]) Key() K {
	return e.key
}

func (e *rbEntry[K, V]) Val() V {
	return e.val
}

// Relationships are resolved from the parent links on demand.
// Nothing but parent, left and right is stored.

func (tree *rbTree[K, V]) node(ref rbRef) *rbNode[K, V] {
	return &tree.arena.nodes[ref]
}

func (tree *rbTree[K, V]) isRed(ref rbRef) bool {
	return ref != nilRef && tree.arena.nodes[ref].color == Red
}

// The nil leaf is black.
func (tree *rbTree[K, V]) isBlack(ref rbRef) bool {
	return !tree.isRed(ref)
}

func (tree *rbTree[K, V]) parentOf(ref rbRef) rbRef {
	return tree.arena.nodes[ref].parent
}

func (tree *rbTree[K, V]) direction(ref rbRef) RBDirection {
	if ref == nilRef {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}
	p := tree.node(ref).parent
	if p == nilRef {
		return Root
	}
	if tree.node(p).left == ref {
		return Left
	}
	return Right
}

func (tree *rbTree[K, V]) childOf(ref rbRef, dir RBDirection) rbRef {
	switch dir {
	case Left:
		return tree.node(ref).left
	case Right:
		return tree.node(ref).right
	default:
	}
	// impossible run to here
	panic( /* debug assertion */ "[rbtree] child direction must be left or right")
}

func (tree *rbTree[K, V]) sibling(ref rbRef) rbRef {
	switch dir := tree.direction(ref); dir {
	case Left:
		return tree.node(tree.parentOf(ref)).right
	case Right:
		return tree.node(tree.parentOf(ref)).left
	default:
	}
	return nilRef
}

func (tree *rbTree[K, V]) grandpa(ref rbRef) rbRef {
	return tree.parentOf(tree.parentOf(ref))
}

func (tree *rbTree[K, V]) uncle(ref rbRef) rbRef {
	p := tree.parentOf(ref)
	if p == nilRef {
		return nilRef
	}
	return tree.sibling(p)
}

// replaceChild links newChild where oldChild was under p.
// A nil p means oldChild was the root.
func (tree *rbTree[K, V]) replaceChild(p, oldChild, newChild rbRef) {
	switch {
	case p == nilRef:
		tree.root = newChild
	case tree.node(p).left == oldChild:
		tree.node(p).left = newChild
	case tree.node(p).right == oldChild:
		tree.node(p).right = newChild
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] replace a child which is not linked to its parent")
	}
	if newChild != nilRef {
		tree.node(newChild).parent = p
	}
}

func (tree *rbTree[K, V]) minimum(ref rbRef) rbRef {
	if ref == nilRef {
		return nilRef
	}
	for tree.node(ref).left != nilRef {
		ref = tree.node(ref).left
	}
	return ref
}

func (tree *rbTree[K, V]) maximum(ref rbRef) rbRef {
	if ref == nilRef {
		return nilRef
	}
	for tree.node(ref).right != nilRef {
		ref = tree.node(ref).right
	}
	return ref
}

// The pred node of the current node is its previous node in sorted order.
func (tree *rbTree[K, V]) pred(x rbRef) rbRef {
	if x == nilRef {
		return nilRef
	}
	if l := tree.node(x).left; l != nilRef {
		return tree.maximum(l)
	}
	// Backtrack to the first ancestor reached from its right side.
	aux := tree.parentOf(x)
	for aux != nilRef && x == tree.node(aux).left {
		x, aux = aux, tree.parentOf(aux)
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (tree *rbTree[K, V]) succ(x rbRef) rbRef {
	if x == nilRef {
		return nilRef
	}
	if r := tree.node(x).right; r != nilRef {
		return tree.minimum(r)
	}
	aux := tree.parentOf(x)
	for aux != nilRef && x == tree.node(aux).right {
		x, aux = aux, tree.parentOf(aux)
	}
	return aux
}
