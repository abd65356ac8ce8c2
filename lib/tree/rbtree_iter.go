package tree

import (
	"github.com/benz9527/xtree/lib/alloc"
)

// Iterator is a bidirectional cursor. The nil node handle is the
// end position. Copies are independent cursors.
//
// Erasing a node invalidates only the iterators positioned on it.
// Dereferencing an end iterator panics with ErrIteratorAtEnd and a
// released node panics with ErrInvalidIterator.
type Iterator[K any, V any] struct {
	end  *rbEnd[K, V]
	node alloc.Handle
}

func (it Iterator[K, V]) deref() *Node[K, V] {
	if it.IsEnd() {
		panic(ErrIteratorAtEnd)
	}
	n := it.end.node(it.node)
	if n == nil {
		panic(ErrInvalidIterator)
	}
	return n
}

func (it Iterator[K, V]) Key() K {
	return it.deref().key
}

func (it Iterator[K, V]) Val() V {
	return it.deref().val
}

// SetVal replaces the value in place. Keys are immutable.
func (it Iterator[K, V]) SetVal(val V) {
	it.deref().val = val
}

func (it Iterator[K, V]) Color() RBColor {
	return it.deref().color
}

func (it Iterator[K, V]) IsEnd() bool {
	return it.end == nil || it.node == alloc.NilHandle
}

// Valid reports whether the iterator addresses a live node.
func (it Iterator[K, V]) Valid() bool {
	return !it.IsEnd() && it.end.node(it.node) != nil
}

// Next of the max node is the end. Next of the end is the end.
func (it Iterator[K, V]) Next() Iterator[K, V] {
	if it.IsEnd() {
		return it
	}
	return Iterator[K, V]{end: it.end, node: it.end.succ(it.node)}
}

// Prev of the end is the max node. Prev of the min node is the end.
func (it Iterator[K, V]) Prev() Iterator[K, V] {
	if it.end == nil {
		return it
	}
	if it.node == alloc.NilHandle {
		return Iterator[K, V]{end: it.end, node: it.end.max}
	}
	return Iterator[K, V]{end: it.end, node: it.end.pred(it.node)}
}

// Equal compares the node identity, not the key.
func (it Iterator[K, V]) Equal(other Iterator[K, V]) bool {
	return it.end == other.end && it.node == other.node
}
