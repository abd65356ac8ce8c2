package tree

import (
	"github.com/benz9527/xtree/lib/alloc"
)

// Node is the storage unit of the tree. The links are handles of
// the same allocator. Parent is only a lookup relation, a node is
// owned by the tree storage and released by the tree only.
type Node[K any, V any] struct {
	parent alloc.Handle
	left   alloc.Handle
	right  alloc.Handle
	key    K
	val    V
	color  RBColor
}

func (node *Node[K, V]) Key() K {
	return node.key
}

func (node *Node[K, V]) Val() V {
	return node.val
}

func (node *Node[K, V]) Color() RBColor {
	return node.color
}

func (node *Node[K, V]) turnRed() {
	node.color = Red
}

func (node *Node[K, V]) turnBlack() {
	node.color = Black
}

func (node *Node[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

// Nil node is a black leaf.
func (node *Node[K, V]) isBlack() bool {
	return node == nil || node.color == Black
}

// rbEnd is the one past the max position. It is shared by the
// tree and all its iterators, so the iterators are able to step
// without a reference to the tree.
type rbEnd[K any, V any] struct {
	nodes alloc.Allocator[Node[K, V]]
	max   alloc.Handle
}

func (end *rbEnd[K, V]) node(h alloc.Handle) *Node[K, V] {
	if h == alloc.NilHandle {
		return nil
	}
	return end.nodes.Deref(h)
}

func (end *rbEnd[K, V]) isRed(h alloc.Handle) bool {
	return end.node(h).isRed()
}

func (end *rbEnd[K, V]) isBlack(h alloc.Handle) bool {
	return end.node(h).isBlack()
}

func (end *rbEnd[K, V]) parent(h alloc.Handle) alloc.Handle {
	if n := end.node(h); n != nil {
		return n.parent
	}
	return alloc.NilHandle
}

func (end *rbEnd[K, V]) direction(h alloc.Handle) RBDirection {
	p := end.parent(h)
	if p == alloc.NilHandle {
		return Root
	}
	if end.node(p).left == h {
		return Left
	}
	return Right
}

func (end *rbEnd[K, V]) sibling(h, parent alloc.Handle) alloc.Handle {
	pn := end.node(parent)
	if pn == nil {
		return alloc.NilHandle
	}
	if pn.left == h {
		return pn.right
	}
	return pn.left
}

func (end *rbEnd[K, V]) uncle(h alloc.Handle) alloc.Handle {
	p := end.parent(h)
	return end.sibling(p, end.parent(p))
}

func (end *rbEnd[K, V]) minimum(h alloc.Handle) alloc.Handle {
	if h == alloc.NilHandle {
		return h
	}
	for n := end.node(h); n.left != alloc.NilHandle; n = end.node(h) {
		h = n.left
	}
	return h
}

func (end *rbEnd[K, V]) maximum(h alloc.Handle) alloc.Handle {
	if h == alloc.NilHandle {
		return h
	}
	for n := end.node(h); n.right != alloc.NilHandle; n = end.node(h) {
		h = n.right
	}
	return h
}

// The succ node of the current node is its next node in sorted order.
func (end *rbEnd[K, V]) succ(h alloc.Handle) alloc.Handle {
	n := end.node(h)
	if n == nil {
		return alloc.NilHandle
	}
	if n.right != alloc.NilHandle {
		return end.minimum(n.right)
	}
	// Backtrack to father node that is the x's succ.
	p := n.parent
	for p != alloc.NilHandle && end.node(p).right == h {
		h = p
		p = end.node(p).parent
	}
	return p
}

// The pred node of the current node is its previous node in sorted order.
func (end *rbEnd[K, V]) pred(h alloc.Handle) alloc.Handle {
	n := end.node(h)
	if n == nil {
		return alloc.NilHandle
	}
	if n.left != alloc.NilHandle {
		return end.maximum(n.left)
	}
	p := n.parent
	for p != alloc.NilHandle && end.node(p).left == h {
		h = p
		p = end.node(p).parent
	}
	return p
}
