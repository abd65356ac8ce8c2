package tree

import (
	"github.com/benz9527/xtree/lib/alloc"
)

func (tree *rbTree[K, V]) search(key K) alloc.Handle {
	for x := tree.root; x != alloc.NilHandle; {
		xn := tree.node(x)
		res := tree.cmp(key, xn.key)
		if res == 0 {
			return x
		} else if res > 0 {
			x = xn.right
		} else {
			x = xn.left
		}
	}
	return alloc.NilHandle
}

// lowerBound remembers the last node not less than key on the way
// down, it is the fallback once the left descent is exhausted.
func (tree *rbTree[K, V]) lowerBound(key K) alloc.Handle {
	res := alloc.NilHandle
	for x := tree.root; x != alloc.NilHandle; {
		xn := tree.node(x)
		if tree.cmp(xn.key, key) < 0 {
			x = xn.right
		} else {
			res, x = x, xn.left
		}
	}
	return res
}

// Find returns the end iterator if the key is absent.
func (tree *rbTree[K, V]) Find(key K) Iterator[K, V] {
	return tree.iter(tree.search(key))
}

func (tree *rbTree[K, V]) Count(key K) int64 {
	if tree.search(key) == alloc.NilHandle {
		return 0
	}
	return 1
}

func (tree *rbTree[K, V]) Contains(key K) bool {
	return tree.search(key) != alloc.NilHandle
}

// LowerBound is the first node not less than key.
func (tree *rbTree[K, V]) LowerBound(key K) Iterator[K, V] {
	return tree.iter(tree.lowerBound(key))
}

// UpperBound is the first node greater than key.
func (tree *rbTree[K, V]) UpperBound(key K) Iterator[K, V] {
	h := tree.lowerBound(key)
	if h != alloc.NilHandle && tree.cmp(tree.node(h).key, key) == 0 {
		h = tree.end.succ(h)
	}
	return tree.iter(h)
}

// EqualRange returns [LowerBound, UpperBound). The pair is equal
// if the key is absent.
func (tree *rbTree[K, V]) EqualRange(key K) (Iterator[K, V], Iterator[K, V]) {
	return tree.LowerBound(key), tree.UpperBound(key)
}
