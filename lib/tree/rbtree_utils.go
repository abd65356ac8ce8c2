package tree

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/alloc"
)

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

var (
	ErrRedViolation   = errors.New("rbtree red violation")
	ErrBlackViolation = errors.New("rbtree black violation")
	ErrRootViolation  = errors.New("rbtree root violation")
	ErrOrderViolation = errors.New("rbtree order violation")
	ErrLinkViolation  = errors.New("rbtree link violation")
	ErrCacheViolation = errors.New("rbtree cache violation")
)

func asRBTree[K any, V any](tree RBTree[K, V]) (*rbTree[K, V], error) {
	t, ok := tree.(*rbTree[K, V])
	if !ok || t == nil {
		return nil, ErrForeignTree
	}
	return t, nil
}

type depthFrame struct {
	h          alloc.Handle
	blackDepth int
}

// DFS traversal, calls visit with every node and its black depth.
func (tree *rbTree[K, V]) preorder(visit func(h alloc.Handle, n *Node[K, V], blackDepth int) error) error {
	if tree.root == alloc.NilHandle {
		return nil
	}
	stack := make([]depthFrame, 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, depthFrame{h: tree.root})
	for size := len(stack); size > 0; size = len(stack) {
		f := stack[size-1]
		stack = stack[:size-1]
		n := tree.node(f.h)
		if n == nil {
			return fmt.Errorf("%w: released node %d is reachable", ErrLinkViolation, f.h)
		}
		if n.isBlack() {
			f.blackDepth++
		}
		if err := visit(f.h, n, f.blackDepth); err != nil {
			return err
		}
		if n.right != alloc.NilHandle {
			stack = append(stack, depthFrame{h: n.right, blackDepth: f.blackDepth})
		}
		if n.left != alloc.NilHandle {
			stack = append(stack, depthFrame{h: n.left, blackDepth: f.blackDepth})
		}
	}
	return nil
}

// RedViolationValidate checks no red node has a red child.
func RedViolationValidate[K any, V any](tree RBTree[K, V]) error {
	t, err := asRBTree[K, V](tree)
	if err != nil {
		return err
	}
	return t.preorder(func(h alloc.Handle, n *Node[K, V], _ int) error {
		if n.isRed() && (t.end.isRed(n.left) || t.end.isRed(n.right)) {
			return fmt.Errorf("%w: red node %d has a red child", ErrRedViolation, h)
		}
		return nil
	})
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

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[K any, V any](tree RBTree[K, V]) error {
	t, err := asRBTree[K, V](tree)
	if err != nil {
		return err
	}
	blackHeight := -1
	return t.preorder(func(h alloc.Handle, n *Node[K, V], blackDepth int) error {
		if n.left != alloc.NilHandle && n.right != alloc.NilHandle {
			return nil
		}
		if blackHeight < 0 {
			blackHeight = blackDepth
		} else if blackHeight != blackDepth {
			return fmt.Errorf("%w: node %d black depth %d, expected %d", ErrBlackViolation, h, blackDepth, blackHeight)
		}
		return nil
	})
}

func rootValidate[K any, V any](t *rbTree[K, V]) error {
	if t.root == alloc.NilHandle {
		return nil
	}
	rn := t.node(t.root)
	if rn == nil {
		return fmt.Errorf("%w: released root %d", ErrRootViolation, t.root)
	}
	var merr error
	if rn.isRed() {
		merr = multierr.Append(merr, fmt.Errorf("%w: red root %d", ErrRootViolation, t.root))
	}
	if rn.parent != alloc.NilHandle {
		merr = multierr.Append(merr, fmt.Errorf("%w: root %d has parent %d", ErrRootViolation, t.root, rn.parent))
	}
	return merr
}

func linkValidate[K any, V any](t *rbTree[K, V]) error {
	return t.preorder(func(h alloc.Handle, n *Node[K, V], _ int) error {
		for _, c := range [2]alloc.Handle{n.left, n.right} {
			if c == alloc.NilHandle {
				continue
			}
			if cn := t.node(c); cn == nil || cn.parent != h {
				return fmt.Errorf("%w: child %d of node %d has a wrong parent", ErrLinkViolation, c, h)
			}
		}
		return nil
	})
}

// orderValidate walks by succ and checks the keys are strictly
// increasing, the size and the min and max caches.
func orderValidate[K any, V any](t *rbTree[K, V]) error {
	if t.root == alloc.NilHandle {
		if t.count != 0 || t.min != alloc.NilHandle || t.end.max != alloc.NilHandle {
			return fmt.Errorf("%w: empty tree with size %d, min %d, max %d", ErrCacheViolation, t.count, t.min, t.end.max)
		}
		return nil
	}

	var merr error
	if low := t.end.minimum(t.root); low != t.min {
		merr = multierr.Append(merr, fmt.Errorf("%w: min %d, expected %d", ErrCacheViolation, t.min, low))
	}
	if high := t.end.maximum(t.root); high != t.end.max {
		merr = multierr.Append(merr, fmt.Errorf("%w: max %d, expected %d", ErrCacheViolation, t.end.max, high))
	}

	count := int64(0)
	prev := alloc.NilHandle
	for h := t.end.minimum(t.root); h != alloc.NilHandle; h = t.end.succ(h) {
		if prev != alloc.NilHandle && t.cmp(t.node(prev).key, t.node(h).key) >= 0 {
			merr = multierr.Append(merr, fmt.Errorf("%w: node %d is not less than node %d", ErrOrderViolation, prev, h))
			break
		}
		prev = h
		count++
	}
	if count != t.count {
		merr = multierr.Append(merr, fmt.Errorf("%w: size %d, in-order count %d", ErrCacheViolation, t.count, count))
	}
	return merr
}

// Validate checks all the rbtree properties, the links and the
// caches. All violations are returned.
func Validate[K any, V any](tree RBTree[K, V]) error {
	t, err := asRBTree[K, V](tree)
	if err != nil {
		return err
	}
	if err = linkValidate(t); err != nil {
		// The traversals below rely on the links.
		return err
	}
	return multierr.Combine(
		rootValidate(t),
		RedViolationValidate(tree),
		BlackViolationValidate(tree),
		orderValidate(t),
	)
}
