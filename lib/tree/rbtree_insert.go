package tree

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/alloc"
	"github.com/benz9527/xtree/lib/infra"
)

type insertPosition struct {
	parent alloc.Handle
	found  alloc.Handle
	dir    RBDirection
}

// locate finds the node equal to key or the empty slot to attach
// a new node. The keys beyond the cached min or max attach to them
// directly.
func (tree *rbTree[K, V]) locate(key K) (pos insertPosition) {
	if tree.root == alloc.NilHandle {
		pos.dir = Root
		return pos
	}
	if tree.cmp(key, tree.node(tree.min).key) < 0 {
		pos.parent, pos.dir = tree.min, Left
		return pos
	}
	if tree.cmp(key, tree.node(tree.end.max).key) > 0 {
		pos.parent, pos.dir = tree.end.max, Right
		return pos
	}

	for x := tree.root; x != alloc.NilHandle; {
		pos.parent = x
		xn := tree.node(x)
		res := tree.cmp(key, xn.key)
		if /* equal */ res == 0 {
			pos.found = x
			return pos
		} else /* less */ if res < 0 {
			pos.dir, x = Left, xn.left
		} else /* greater */ {
			pos.dir, x = Right, xn.right
		}
	}
	return pos
}

// safeCompare runs fn and turns a comparator panic into an error.
// All the comparator calls happen before the first link mutation.
func (tree *rbTree[K, V]) safeCompare(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = infra.WrapErrorStackWithMessage(ErrComparatorPanic, fmt.Sprintf("[rbtree] %v", r))
		}
	}()
	fn()
	return nil
}

func (tree *rbTree[K, V]) Insert(key K, val V) (Iterator[K, V], bool, error) {
	return tree.insert(key, val, false)
}

func (tree *rbTree[K, V]) InsertOrAssign(key K, val V) (Iterator[K, V], bool, error) {
	return tree.insert(key, val, true)
}

func (tree *rbTree[K, V]) insert(key K, val V, assign bool) (Iterator[K, V], bool, error) {
	var pos insertPosition
	if err := tree.safeCompare(func() { pos = tree.locate(key) }); err != nil {
		tree.logger.ErrorStack(err, "[rbtree] insert")
		return tree.End(), false, err
	}

	if pos.found != alloc.NilHandle {
		if assign {
			tree.node(pos.found).val = val
		}
		return tree.iter(pos.found), false, nil
	}

	z, err := tree.newNode(key, val)
	if err != nil {
		tree.logger.ErrorStack(err, "[rbtree] insert", zap.Int64("size", tree.count))
		return tree.End(), false, err
	}
	tree.link(z, pos)
	tree.insertRebalance(z)
	return tree.iter(z), true, nil
}

// link attaches the red leaf z and refreshes the min and max caches.
func (tree *rbTree[K, V]) link(z alloc.Handle, pos insertPosition) {
	tree.node(z).parent = pos.parent
	switch pos.dir {
	case Root:
		tree.root = z
	case Left:
		tree.node(pos.parent).left = z
	case Right:
		tree.node(pos.parent).right = z
	default:
	}
	tree.count++

	if tree.min == alloc.NilHandle || (pos.parent == tree.min && pos.dir == Left) {
		tree.min = z
	}
	if tree.end.max == alloc.NilHandle || (pos.parent == tree.end.max && pos.dir == Right) {
		tree.end.max = z
	}
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

InsertRedUncle: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Move to grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

InsertInnerGrandchild: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation it is still red-violation, enter InsertOuterGrandchild.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

InsertOuterGrandchild: Current node is the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[K, V]) insertCase(x alloc.Handle) FixupCase {
	end := tree.end
	p := end.parent(x)
	if p == alloc.NilHandle || end.isBlack(p) {
		return FixupDone
	}
	if end.parent(p) == alloc.NilHandle {
		// Red root, repainted by the terminal action.
		return FixupDone
	}
	if end.isRed(end.uncle(x)) {
		return InsertRedUncle
	}
	if end.direction(x) != end.direction(p) {
		return InsertInnerGrandchild
	}
	return InsertOuterGrandchild
}

func (tree *rbTree[K, V]) insertRebalance(x alloc.Handle) {
	end := tree.end
	for state := tree.insertCase(x); state != FixupDone; {
		tree.observeFixup(state)
		switch state {
		case InsertRedUncle:
			p := end.parent(x)
			g := end.parent(p)
			tree.node(p).turnBlack()
			tree.node(end.uncle(x)).turnBlack()
			tree.node(g).turnRed()
			x = g
			state = tree.insertCase(x)
		case InsertInnerGrandchild:
			p := end.parent(x)
			// Left child of a right child rotates to right.
			tree.rotate(p, -end.direction(x))
			x = p
			state = InsertOuterGrandchild
		case InsertOuterGrandchild:
			p := end.parent(x)
			g := end.parent(p)
			tree.node(p).turnBlack()
			tree.node(g).turnRed()
			tree.rotate(g, -end.direction(x))
			state = FixupDone
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] unknown insert fixup case " + state.String())
		}
	}
	tree.node(tree.root).turnBlack()
}
