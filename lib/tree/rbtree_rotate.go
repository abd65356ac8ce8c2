package tree

import (
	"github.com/benz9527/xtree/lib/alloc"
)

// replaceParentLink makes the parent of old (or the root) point to
// the replacement. The links of old stay untouched.
func (tree *rbTree[K, V]) replaceParentLink(old, replacement alloc.Handle) {
	p := tree.node(old).parent
	if rn := tree.node(replacement); rn != nil {
		rn.parent = p
	}
	if p == alloc.NilHandle {
		tree.root = replacement
		return
	}
	if pn := tree.node(p); pn.left == old {
		pn.left = replacement
	} else {
		pn.right = replacement
	}
}

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, V]) leftRotate(x alloc.Handle) {
	xn := tree.node(x)
	if xn == nil || xn.right == alloc.NilHandle {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	y := xn.right
	yn := tree.node(y)
	xn.right = yn.left
	if yn.left != alloc.NilHandle {
		tree.node(yn.left).parent = x
	}
	tree.replaceParentLink(x, y)
	yn.left, xn.parent = x, y
	tree.observeRotate(Left)
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[K, V]) rightRotate(x alloc.Handle) {
	xn := tree.node(x)
	if xn == nil || xn.left == alloc.NilHandle {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	y := xn.left
	yn := tree.node(y)
	xn.left = yn.right
	if yn.right != alloc.NilHandle {
		tree.node(yn.right).parent = x
	}
	tree.replaceParentLink(x, y)
	yn.right, xn.parent = x, y
	tree.observeRotate(Right)
}

// rotate turns x towards dir.
func (tree *rbTree[K, V]) rotate(x alloc.Handle, dir RBDirection) {
	switch dir {
	case Left:
		tree.leftRotate(x)
	case Right:
		tree.rightRotate(x)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown rotate direction")
	}
}

/*
swapNodes exchanges the positions and the colors of x and y, the
payloads stay in their nodes. The handles held by iterators keep
addressing the same key and value.

	  |                    |
	  X                    S
	 / \                  / \
	L  ..   swap(X, S)   L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                X  ..
*/
func (tree *rbTree[K, V]) swapNodes(x, y alloc.Handle) {
	xn, yn := tree.node(x), tree.node(y)
	xp, xl, xr, xc := xn.parent, xn.left, xn.right, xn.color
	yp, yl, yr, yc := yn.parent, yn.left, yn.right, yn.color
	xIsLeft := xp != alloc.NilHandle && tree.node(xp).left == x
	yIsLeft := yp != alloc.NilHandle && tree.node(yp).left == y

	mapping := func(h alloc.Handle) alloc.Handle {
		switch h {
		case x:
			return y
		case y:
			return x
		default:
		}
		return h
	}

	switch {
	case xp == alloc.NilHandle:
		tree.root = y
	case xp == y:
	case xIsLeft:
		tree.node(xp).left = y
	default:
		tree.node(xp).right = y
	}
	switch {
	case yp == alloc.NilHandle:
		tree.root = x
	case yp == x:
	case yIsLeft:
		tree.node(yp).left = x
	default:
		tree.node(yp).right = x
	}

	xn.parent, xn.left, xn.right, xn.color = mapping(yp), mapping(yl), mapping(yr), yc
	yn.parent, yn.left, yn.right, yn.color = mapping(xp), mapping(xl), mapping(xr), xc
	tree.fixLink(x)
	tree.fixLink(y)
}

func (tree *rbTree[K, V]) fixLink(h alloc.Handle) {
	n := tree.node(h)
	if n.left != alloc.NilHandle {
		tree.node(n.left).parent = h
	}
	if n.right != alloc.NilHandle {
		tree.node(n.right).parent = h
	}
}
