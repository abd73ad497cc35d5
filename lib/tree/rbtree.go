package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xrbt/lib/infra"
	"github.com/benz9527/xrbt/lib/xlog"
)

var _ RBTree[int, int] = (*rbTree[int, int])(nil)

// rbTree is not safe for concurrent use.
type rbTree[K any, V any] struct {
	arena          *rbArena[K, V]
	cmp            infra.Comparator[K]
	logger         xlog.XLogger
	root           rbRef
	count          int64
	capacity       int
	isDesc         bool
	isRmBorrowSucc bool
	isDebugCheck   bool
}

func (tree *rbTree[K, V]) keyCompare(k1, k2 K) int64 {
	return tree.cmp(k1, k2)
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.count
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   and X must be black.
// The longest path nodes' number is 2 * shortest path nodes' number.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, V]) leftRotate(x rbRef) {
	if x == nilRef || tree.node(x).right == nilRef {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, dir := tree.parentOf(x), tree.direction(x)
	xn := tree.node(x)
	y := xn.right
	yn := tree.node(y)

	xn.right = yn.left
	if yn.left != nilRef {
		tree.node(yn.left).parent = x
	}
	yn.left, xn.parent = x, y

	switch dir {
	case Root:
		tree.root = y
	case Left:
		tree.node(p).left = y
	case Right:
		tree.node(p).right = y
	default:
	}
	yn.parent = p
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[K, V]) rightRotate(x rbRef) {
	if x == nilRef || tree.node(x).left == nilRef {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, dir := tree.parentOf(x), tree.direction(x)
	xn := tree.node(x)
	y := xn.left
	yn := tree.node(y)

	xn.left = yn.right
	if yn.right != nilRef {
		tree.node(yn.right).parent = x
	}
	yn.right, xn.parent = x, y

	switch dir {
	case Root:
		tree.root = y
	case Left:
		tree.node(p).left = y
	case Right:
		tree.node(p).right = y
	default:
	}
	yn.parent = p
}

// rotate moves x down to the dir side.
func (tree *rbTree[K, V]) rotate(x rbRef, dir RBDirection) {
	switch dir {
	case Left:
		tree.leftRotate(x)
	case Right:
		tree.rightRotate(x)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] rotate without direction")
	}
}

func (tree *rbTree[K, V]) search(key K) rbRef {
	for aux := tree.root; aux != nilRef; {
		res := tree.keyCompare(key, tree.node(aux).key)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = tree.node(aux).right
		} else {
			aux = tree.node(aux).left
		}
	}
	return nilRef
}

// i1: Empty rbtree, insert directly, but root node is painted to black.
// i2: The key is found on the search path, nothing changes.
func (tree *rbTree[K, V]) insert(key K, val V) (rbRef, bool) {
	if /* i1 */ tree.root == nilRef {
		z := tree.arena.allocate(key, val)
		tree.node(z).color = Black
		tree.root = z
		tree.count++
		return z, true
	}

	var (
		x, y = tree.root, nilRef
		res  int64
	)
	for x != nilRef {
		y = x
		res = tree.keyCompare(key, tree.node(x).key)
		if /* i2 */ res == 0 {
			return x, false
		} else /* less */ if res < 0 {
			x = tree.node(x).left
		} else /* greater */ {
			x = tree.node(x).right
		}
	}

	// The arena may grow here, no node pointers are held across it.
	z := tree.arena.allocate(key, val)
	tree.node(z).parent = y
	if res < 0 {
		tree.node(y).left = z
	} else {
		tree.node(y).right = z
	}

	tree.count++
	tree.insertRebalance(z)
	return z, true
}

func (tree *rbTree[K, V]) Insert(key K, val V) bool {
	_, ok := tree.insert(key, val)
	if ok {
		tree.debugCheck("insert")
	}
	return ok
}

func (tree *rbTree[K, V]) InsertKey(key K) bool {
	var val V
	return tree.Insert(key, val)
}

func (tree *rbTree[K, V]) Put(key K, val V) (replaced bool) {
	ref, ok := tree.insert(key, val)
	if !ok {
		tree.node(ref).val = val
		return true
	}
	tree.debugCheck("put")
	return false
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: Current node X's parent P is black or X is root, hold p3 and p4.

im2: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Recursive to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im3: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation still red-violation. Here must enter im4 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im4: Handle im3 scenario, current node is the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]

Finally, the root is repainted into black.
*/
func (tree *rbTree[K, V]) insertRebalance(x rbRef) {
	for {
		p := tree.parentOf(x)
		if /* im1 */ p == nilRef || tree.isBlack(p) {
			break
		}

		g := tree.parentOf(p)
		if g == nilRef {
			// Red root, fixed by the final repaint.
			break
		}
		if tree.isRed(g) {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] insert violate, red parent has a red grandpa")
		}

		if u := tree.uncle(x); /* im2 */ tree.isRed(u) {
			tree.node(p).color = Black
			tree.node(u).color = Black
			tree.node(g).color = Red
			x = g
			continue
		}

		if /* im3 */ dir := tree.direction(x); dir != tree.direction(p) {
			tree.rotate(p, -dir)
			x, p = p, x
		}

		/* im4 */
		tree.rotate(g, -tree.direction(p))
		tree.node(p).color = Black
		tree.node(g).color = Red
		break
	}
	tree.node(tree.root).color = Black
}

/*
r1: Current node X has left and right node.
Find node X's pred or succ to replace it to be removed.
Swap the key and value only.
Both of pred and succ have at most one child.

Find pred:

	  |                    |
	  X                    L
	 / \                  / \
	L  ..   swap(X, L)   X  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                S  ..

Find succ:

	  |                    |
	  X                    S
	 / \                  / \
	L  ..   swap(X, S)   L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                X  ..

r2: Current node X is red, it must be a leaf (see conclusion), remove directly.

r3: Current node X is black with a child C. C must be red
(see conclusion). Replace X by C and repaint C into black.

r4: Current node X is a black leaf. Removing it is a black-violation.
X stays linked as the double-black placeholder while rebalancing,
then it is unlinked.
*/
func (tree *rbTree[K, V]) removeNode(z rbRef) *rbEntry[K, V] {
	zn := tree.node(z)
	res := &rbEntry[K, V]{
		key: zn.key,
		val: zn.val,
	}

	y := z
	if /* r1 */ zn.left != nilRef && zn.right != nilRef {
		if tree.isRmBorrowSucc {
			y = tree.minimum(zn.right)
		} else {
			y = tree.maximum(zn.left)
		}
		yn := tree.node(y)
		zn.key, zn.val = yn.key, yn.val
	}

	yn := tree.node(y)
	child := yn.left
	if child == nilRef {
		child = yn.right
	}

	switch {
	case child != nilRef:
		if yn.color == Red {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate, red node with a single child")
		}
		/* r3 */
		tree.replaceChild(yn.parent, y, child)
		if tree.isRed(child) {
			tree.node(child).color = Black
		} else {
			tree.removeRebalance(child)
		}
	case yn.parent == nilRef:
		tree.root = nilRef
	default:
		if /* r4 */ yn.color == Black {
			tree.removeRebalance(y)
		}
		/* r2, r4 */
		tree.replaceChild(tree.parentOf(y), y, nilRef)
	}

	tree.arena.recycle(y)
	tree.count--
	return res
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

X is the double-black node.
Sc is the sibling's child at the same direction as X (the near nephew).
Sd is the sibling's child at the opposite direction (the far nephew).

rm1: X is root, the black deficit is discharged.

rm2: Current node X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. (Otherwise, red-violation)
Rotate P to X's side and swap P and S's color. X gets a black sibling.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm3: The sibling S, nephew node Sc and Sd are black.
Paint S into red to fix X's side locally.
(1) P is red, repaint P into black, done.
(2) P is black, P becomes the double-black node. Recursive to handle P.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: The sibling S is black, the near nephew Sc is red.
Rotate S away from X, repaint Sc into black and S into red.
Sc becomes the sibling with a red far nephew. Enter rm5 to fix.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> {Sd}                   \                  \
	                              {Sd}               {Sd}

rm5: The sibling S is black, the far nephew Sd is red.
Rotate P to X's side, S takes P's color, P and Sd are painted into black.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 {Sc} <Sd>          [X] {Sc}           [X] {Sc}
*/
func (tree *rbTree[K, V]) removeRebalance(x rbRef) {
	for {
		p := tree.parentOf(x)
		if /* rm1 */ p == nilRef {
			return
		}

		dir := tree.direction(x)
		s := tree.sibling(x)
		if /* rm2 */ tree.isRed(s) {
			tree.rotate(p, dir)
			tree.node(s).color = Black
			tree.node(p).color = Red
			s = tree.sibling(x)
		}
		if s == nilRef {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate, double-black node without sibling")
		}

		sc, sd := tree.childOf(s, dir), tree.childOf(s, -dir)
		if /* rm3 */ tree.isBlack(sc) && tree.isBlack(sd) {
			tree.node(s).color = Red
			if tree.isRed(p) {
				tree.node(p).color = Black
				return
			}
			x = p
			continue
		}

		if /* rm4 */ tree.isRed(sc) {
			tree.rotate(s, -dir)
			tree.node(sc).color = Black
			tree.node(s).color = Red
			s = tree.sibling(x)
			sd = tree.childOf(s, -dir)
		}

		/* rm5 */
		tree.rotate(p, dir)
		tree.node(s).color = tree.node(p).color
		tree.node(p).color = Black
		tree.node(sd).color = Black
		return
	}
}

func (tree *rbTree[K, V]) Erase(it RBIterator[K, V]) (bool, error) {
	if tree.count <= 0 {
		return false, ErrEmptyTree
	}
	if it.tree != tree {
		return false, ErrInvalidIterator
	}
	if it.ref == nilRef {
		tree.logger.Debug("[rbtree] erase the end position, ignored", zap.Int64("len", tree.count))
		return false, nil
	}
	if !tree.arena.isLive(it.ref, it.gen) {
		return false, ErrInvalidIterator
	}
	tree.removeNode(it.ref)
	tree.debugCheck("erase")
	return true, nil
}

func (tree *rbTree[K, V]) Remove(key K) (RBNode[K, V], error) {
	if tree.count <= 0 {
		return nil, ErrEmptyTree
	}
	z := tree.search(key)
	if z == nilRef {
		return nil, ErrKeyNotFound
	}
	res := tree.removeNode(z)
	tree.debugCheck("remove")
	return res, nil
}

func (tree *rbTree[K, V]) RemoveMin() (RBNode[K, V], error) {
	if tree.count <= 0 {
		return nil, ErrEmptyTree
	}
	res := tree.removeNode(tree.minimum(tree.root))
	tree.debugCheck("remove min")
	return res, nil
}

func (tree *rbTree[K, V]) RemoveMax() (RBNode[K, V], error) {
	if tree.count <= 0 {
		return nil, ErrEmptyTree
	}
	res := tree.removeNode(tree.maximum(tree.root))
	tree.debugCheck("remove max")
	return res, nil
}

func (tree *rbTree[K, V]) Find(key K) RBIterator[K, V] {
	return tree.iterAt(tree.search(key))
}

func (tree *rbTree[K, V]) Get(key K) (V, bool) {
	if ref := tree.search(key); ref != nilRef {
		return tree.node(ref).val, true
	}
	var zero V
	return zero, false
}

func (tree *rbTree[K, V]) Contains(key K) bool {
	return tree.search(key) != nilRef
}

func (tree *rbTree[K, V]) Min() (RBIterator[K, V], error) {
	if tree.count <= 0 {
		return tree.End(), ErrEmptyTree
	}
	return tree.iterAt(tree.minimum(tree.root)), nil
}

func (tree *rbTree[K, V]) Max() (RBIterator[K, V], error) {
	if tree.count <= 0 {
		return tree.End(), ErrEmptyTree
	}
	return tree.iterAt(tree.maximum(tree.root)), nil
}

// Clone copies the arena, values are copied shallowly.
func (tree *rbTree[K, V]) Clone() RBTree[K, V] {
	return &rbTree[K, V]{
		arena:          tree.arena.clone(),
		cmp:            tree.cmp,
		logger:         tree.logger,
		root:           tree.root,
		count:          tree.count,
		capacity:       tree.capacity,
		isDesc:         tree.isDesc,
		isRmBorrowSucc: tree.isRmBorrowSucc,
		isDebugCheck:   tree.isDebugCheck,
	}
}

func (tree *rbTree[K, V]) Release() {
	tree.arena.reset()
	tree.root = nilRef
	tree.count = 0
}

// debugCheck is the development safety net enabled by WithRBTreeDebugCheck.
func (tree *rbTree[K, V]) debugCheck(op string) {
	if !tree.isDebugCheck {
		return
	}
	if err := tree.Validate(); err != nil {
		err = infra.WrapErrorStackWithMessage(err, "[rbtree] "+op+" broke the invariants")
		tree.logger.ErrorStack(err, "[rbtree] invariant violation",
			zap.String("op", op),
			zap.Int64("len", tree.count),
		)
		panic(err)
	}
}

type RBTreeOpt[K any, V any] func(*rbTree[K, V])

func WithRBTreeDesc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

func WithRBTreeRemoveBorrowSucc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isRmBorrowSucc = true
	}
}

func WithRBTreeLogger[K any, V any](logger xlog.XLogger) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if logger != nil {
			tree.logger = logger
		}
	}
}

// WithRBTreeDebugCheck validates the whole tree after every mutation.
// O(n) per mutation, for tests and debugging only.
func WithRBTreeDebugCheck[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDebugCheck = true
	}
}

func WithRBTreeCapacity[K any, V any](capacity int) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.capacity = capacity
	}
}

// NewRBTree orders the keys naturally.
func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return NewRBTreeFunc[K, V](infra.OrderedKeyCmp[K], opts...)
}

func NewRBTreeFunc[K any, V any](cmp infra.Comparator[K], opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return newRBTree[K, V](cmp, opts...)
}

func newRBTree[K any, V any](cmp infra.Comparator[K], opts ...RBTreeOpt[K, V]) *rbTree[K, V] {
	if cmp == nil {
		panic("[rbtree] nil comparator")
	}
	tree := &rbTree[K, V]{
		cmp:            cmp,
		root:           nilRef,
		count:          0,
		isDesc:         false,
		isRmBorrowSucc: false,
	}

	for _, o := range opts {
		o(tree)
	}
	if tree.isDesc {
		tree.cmp = infra.Reverse(tree.cmp)
	}
	if tree.logger == nil {
		tree.logger = xlog.NewNopXLogger()
	}
	tree.arena = newRBArena[K, V](tree.capacity)
	return tree
}
