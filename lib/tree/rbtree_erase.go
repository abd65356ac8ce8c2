package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/alloc"
	"github.com/benz9527/xtree/lib/infra"
)

func (tree *rbTree[K, V]) checkIterator(it Iterator[K, V]) error {
	if it.end != tree.end {
		return infra.WrapErrorStackWithMessage(ErrInvalidIterator, "[rbtree] iterator of another tree")
	}
	if it.IsEnd() {
		return infra.WrapErrorStackWithMessage(ErrInvalidIterator, "[rbtree] end iterator")
	}
	if tree.node(it.node) == nil {
		return infra.WrapErrorStackWithMessage(ErrInvalidIterator, "[rbtree] released node")
	}
	return nil
}

func (tree *rbTree[K, V]) Erase(it Iterator[K, V]) (Iterator[K, V], error) {
	if err := tree.checkIterator(it); err != nil {
		tree.logger.Warn("[rbtree] erase invalid iterator", zap.Error(err))
		return tree.End(), err
	}
	next := it.Next()
	tree.eraseNode(it.node)
	return next, nil
}

func (tree *rbTree[K, V]) EraseKey(key K) (bool, error) {
	var z alloc.Handle
	if err := tree.safeCompare(func() { z = tree.search(key) }); err != nil {
		tree.logger.ErrorStack(err, "[rbtree] erase key")
		return false, err
	}
	if z == alloc.NilHandle {
		return false, nil
	}
	tree.eraseNode(z)
	return true, nil
}

// EraseRange erases [first, last). The last has to be reachable
// from first by Next.
func (tree *rbTree[K, V]) EraseRange(first, last Iterator[K, V]) (Iterator[K, V], error) {
	if last.end != tree.end {
		tree.logger.Warn("[rbtree] erase range with foreign last iterator")
		return tree.End(), infra.WrapErrorStackWithMessage(ErrInvalidIterator, "[rbtree] iterator of another tree")
	}
	var err error
	for !first.Equal(last) {
		if first, err = tree.Erase(first); err != nil {
			return first, err
		}
	}
	return last, nil
}

/*
A node X with two children borrows the position of its succ S (or
pred if configured) by swapNodes. Afterward, X has at most one child.

The removed node X is spliced out by its child C (or NIL).
If X is red, nothing to fix.
If X is black and C is red, repaint C into black.
If X is black and C is black (or NIL), the black height of the
path through C decreases. (black-violation), enter the erase fixup.
*/
func (tree *rbTree[K, V]) eraseNode(z alloc.Handle) {
	zn := tree.node(z)
	if zn.left != alloc.NilHandle && zn.right != alloc.NilHandle {
		var y alloc.Handle
		if tree.isRmBorrowPred {
			y = tree.end.maximum(zn.left)
		} else {
			y = tree.end.minimum(zn.right)
		}
		tree.swapNodes(z, y)
	}

	wasMin, wasMax := z == tree.min, z == tree.end.max
	child := zn.left
	if child == alloc.NilHandle {
		child = zn.right
	}
	parent := zn.parent
	tree.replaceParentLink(z, child)

	if zn.isBlack() {
		if cn := tree.node(child); cn.isRed() {
			cn.turnBlack()
		} else {
			tree.eraseRebalance(child, parent)
		}
	}

	tree.count--
	if tree.count <= 0 || tree.root == alloc.NilHandle {
		tree.root, tree.min, tree.end.max, tree.count = alloc.NilHandle, alloc.NilHandle, alloc.NilHandle, 0
	} else {
		if wasMin {
			tree.min = tree.end.minimum(tree.root)
		}
		if wasMax {
			tree.end.max = tree.end.maximum(tree.root)
		}
	}
	tree.freeNode(z)
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node.
Sd is the opposite direction to X and it X's sibling's child node.

EraseRedSibling: Current node X's sibling S is red, so the parent P,
nephew node Sc and Sd must be black. (Otherwise, red-violation)
Rotate P towards X, repaint S into black, P into red.
Reclassify with the new sibling Sc.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [D]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

EraseRedParent: Current node X's parent P is red, the sibling S,
nephew node Sc and Sd is black.
Repaint S into red and P into black. Done.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

EraseBlackFamily: All of current node X's parent P, the sibling S,
nephew node Sc and Sd are black.
Paint the S into red to satisfy p4 locally. Then move to P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

EraseCloseNephew: Current node X's sibling S is black, nephew node
Sc is red and Sd is black. Ignore X's parent P's color.
Rotate S away from X, repaint S into red, Sc into black.
Enter EraseDistantNephew.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

EraseDistantNephew: Current node X's sibling S is black, nephew node
Sd is red. Ignore X's parent P's color.
Rotate P towards X, S takes P's color, repaint P and Sd into black.
Done.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K, V]) eraseCase(x, parent alloc.Handle) FixupCase {
	end := tree.end
	if parent == alloc.NilHandle || end.isRed(x) {
		return FixupDone
	}
	s := end.sibling(x, parent)
	sn := tree.node(s)
	if sn == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] erase fixup without sibling")
	}
	if sn.isRed() {
		return EraseRedSibling
	}
	sc, sd := tree.nephews(x, parent)
	if end.isBlack(sc) && end.isBlack(sd) {
		if end.isRed(parent) {
			return EraseRedParent
		}
		return EraseBlackFamily
	}
	if end.isRed(sd) {
		return EraseDistantNephew
	}
	return EraseCloseNephew
}

// towards returns the direction of x under parent. A NIL x is
// on the side of the missing child.
func (tree *rbTree[K, V]) towards(x, parent alloc.Handle) RBDirection {
	if tree.node(parent).left == x {
		return Left
	}
	return Right
}

func (tree *rbTree[K, V]) nephews(x, parent alloc.Handle) (sc, sd alloc.Handle) {
	sn := tree.node(tree.end.sibling(x, parent))
	if tree.towards(x, parent) == Left {
		return sn.left, sn.right
	}
	return sn.right, sn.left
}

func (tree *rbTree[K, V]) eraseRebalance(x, parent alloc.Handle) {
	end := tree.end
	for state := tree.eraseCase(x, parent); state != FixupDone; {
		tree.observeFixup(state)
		dir := tree.towards(x, parent)
		s := end.sibling(x, parent)
		switch state {
		case EraseRedSibling:
			tree.node(s).turnBlack()
			tree.node(parent).turnRed()
			tree.rotate(parent, dir)
			state = tree.eraseCase(x, parent)
		case EraseRedParent:
			tree.node(s).turnRed()
			tree.node(parent).turnBlack()
			state = FixupDone
		case EraseBlackFamily:
			tree.node(s).turnRed()
			x, parent = parent, end.parent(parent)
			state = tree.eraseCase(x, parent)
		case EraseCloseNephew:
			sc, _ := tree.nephews(x, parent)
			tree.node(sc).turnBlack()
			tree.node(s).turnRed()
			tree.rotate(s, -dir)
			state = EraseDistantNephew
		case EraseDistantNephew:
			_, sd := tree.nephews(x, parent)
			pn := tree.node(parent)
			tree.node(s).color = pn.color
			pn.turnBlack()
			tree.node(sd).turnBlack()
			tree.rotate(parent, dir)
			state = FixupDone
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] unknown erase fixup case " + state.String())
		}
	}
	if xn := tree.node(x); xn != nil {
		xn.turnBlack()
	}
}
