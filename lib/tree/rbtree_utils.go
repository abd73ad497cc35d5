package tree

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"
)

// rbtree rule validation utilities.
// All traversals keep explicit stacks and are bounded by the arena size,
// a corrupted tree (even a cyclic one) is reported instead of hanging.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvariantViolation}, args...)...)
}

// Inorder traversal to load all nodes.
func (tree *rbTree[K, V]) inorder() ([]rbRef, error) {
	limit := len(tree.arena.nodes)
	refs := make([]rbRef, 0, tree.arena.liveLen())
	stack := make([]rbRef, 0, 64)
	defer func() {
		clear(stack)
	}()

	for aux := tree.root; aux != nilRef; aux = tree.node(aux).left {
		if len(stack) >= limit {
			return refs, violation("rbtree cycle detected")
		}
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if refs = append(refs, aux); len(refs) >= limit {
			return refs, violation("rbtree cycle detected")
		}
		for aux = tree.node(aux).right; aux != nilRef; aux = tree.node(aux).left {
			if len(stack) >= limit {
				return refs, violation("rbtree cycle detected")
			}
			stack = append(stack, aux)
		}
	}
	return refs, nil
}

func (tree *rbTree[K, V]) rootViolationValidate() error {
	if tree.root == nilRef {
		return nil
	}
	if tree.isRed(tree.root) {
		return violation("rbtree red root")
	}
	if p := tree.parentOf(tree.root); p != nilRef {
		return violation("rbtree root has parent %d", p)
	}
	return nil
}

func (tree *rbTree[K, V]) redViolationValidate(refs []rbRef) error {
	for _, ref := range refs {
		node := tree.node(ref)
		if node.color == Red && (tree.isRed(node.left) || tree.isRed(node.right)) {
			return violation("rbtree red violation at key %v", node.key)
		}
	}
	return nil
}

// Order, links and size.
func (tree *rbTree[K, V]) orderViolationValidate(refs []rbRef) error {
	var merr error
	for i, ref := range refs {
		node := tree.node(ref)
		if !node.live {
			merr = multierr.Append(merr, violation("rbtree recycled node %d is linked", ref))
		}
		if node.left != nilRef && tree.parentOf(node.left) != ref {
			merr = multierr.Append(merr, violation("rbtree broken parent link under key %v", node.key))
		}
		if node.right != nilRef && tree.parentOf(node.right) != ref {
			merr = multierr.Append(merr, violation("rbtree broken parent link under key %v", node.key))
		}
		if i > 0 {
			if prev := tree.node(refs[i-1]); tree.keyCompare(prev.key, node.key) >= 0 {
				merr = multierr.Append(merr, violation("rbtree order violation, key %v before key %v", prev.key, node.key))
			}
		}
	}
	if int64(len(refs)) != tree.count {
		merr = multierr.Append(merr, violation("rbtree len %d, but %d nodes reachable", tree.count, len(refs)))
	}
	if live := tree.arena.liveLen(); live != len(refs) {
		merr = multierr.Append(merr, violation("rbtree %d nodes allocated, but %d nodes reachable", live, len(refs)))
	}
	return merr
}

func (tree *rbTree[K, V]) blackDepthTo(target, to rbRef) int {
	depth := 0
	for aux := target; aux != to; aux = tree.parentOf(aux) {
		if tree.isBlack(aux) {
			depth++
		}
	}
	return depth
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each node owning a nil leaf must have the same black depth to root.
*/
func (tree *rbTree[K, V]) blackViolationValidate(refs []rbRef) error {
	blackDepth := -1
	for _, ref := range refs {
		node := tree.node(ref)
		if /* not a nil leaves owner */ node.left != nilRef && node.right != nilRef {
			continue
		}
		depth := tree.blackDepthTo(ref, nilRef)
		if blackDepth < 0 {
			blackDepth = depth
		} else if depth != blackDepth {
			return violation("rbtree black violation at key %v, black depth %d, expected %d", node.key, depth, blackDepth)
		}
	}
	return nil
}

// Validate checks every invariant, all violations found are combined.
func (tree *rbTree[K, V]) Validate() error {
	refs, err := tree.inorder()
	if err != nil {
		return multierr.Combine(err, tree.rootViolationValidate())
	}
	if err = tree.orderViolationValidate(refs); err != nil {
		// Parent walks are not safe on broken links.
		return multierr.Combine(err, tree.rootViolationValidate(), tree.redViolationValidate(refs))
	}
	return multierr.Combine(
		tree.rootViolationValidate(),
		tree.redViolationValidate(refs),
		tree.blackViolationValidate(refs),
	)
}

func (tree *rbTree[K, V]) height() int {
	type frame struct {
		ref   rbRef
		depth int
	}
	if tree.root == nilRef {
		return 0
	}
	h := 0
	stack := []frame{{tree.root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		h = max(h, f.depth)
		node := tree.node(f.ref)
		if node.left != nilRef {
			stack = append(stack, frame{node.left, f.depth + 1})
		}
		if node.right != nilRef {
			stack = append(stack, frame{node.right, f.depth + 1})
		}
	}
	return h
}

const dumpIndent = 6

// Dump renders the tree sideways, the right subtree on top.
// '-' marks the root, '/' a right child and '\' a left child.
//
//	      /3(r)
//
//	-2(b)
//
//	      \1(r)
//	----------------------
//
// Debugging only, the format is not stable.
func (tree *rbTree[K, V]) Dump(w io.Writer) error {
	type frame struct {
		ref   rbRef
		depth int
	}

	builder := strings.Builder{}
	stack := make([]frame, 0, 64)
	pushRightSpine := func(ref rbRef, depth int) {
		for ; ref != nilRef; ref, depth = tree.node(ref).right, depth+1 {
			stack = append(stack, frame{ref, depth})
		}
	}

	pushRightSpine(tree.root, 0)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := tree.node(f.ref)

		_, _ = builder.WriteString("\n")
		_, _ = builder.WriteString(strings.Repeat(" ", f.depth*dumpIndent))
		switch tree.direction(f.ref) {
		case Root:
			_, _ = builder.WriteString("-")
		case Right:
			_, _ = builder.WriteString("/")
		case Left:
			_, _ = builder.WriteString("\\")
		}
		_, _ = fmt.Fprintf(&builder, "%v", node.key)
		if node.color == Red {
			_, _ = builder.WriteString("(r)\n")
		} else {
			_, _ = builder.WriteString("(b)\n")
		}

		pushRightSpine(node.left, f.depth+1)
	}
	_, _ = builder.WriteString("----------------------\n")

	_, err := io.WriteString(w, builder.String())
	return err
}

func (tree *rbTree[K, V]) String() string {
	builder := strings.Builder{}
	_ = tree.Dump(&builder)
	return builder.String()
}
