package tree

// Compare is the lexicographic comparison of the in-order keys by
// the comparator of tree. A shorter prefix is less. Values are
// ignored.
func (tree *rbTree[K, V]) Compare(other RBTree[K, V]) int {
	l, r := tree.Begin(), other.Begin()
	for ; !l.IsEnd() && !r.IsEnd(); l, r = l.Next(), r.Next() {
		if res := tree.cmp(l.Key(), r.Key()); res < 0 {
			return -1
		} else if res > 0 {
			return 1
		}
	}
	switch {
	case l.IsEnd() && r.IsEnd():
		return 0
	case l.IsEnd():
		return -1
	default:
	}
	return 1
}

// Equal compares the sizes and then the keys. Values are ignored.
func (tree *rbTree[K, V]) Equal(other RBTree[K, V]) bool {
	return tree.Len() == other.Len() && tree.Compare(other) == 0
}

func (tree *rbTree[K, V]) NotEqual(other RBTree[K, V]) bool {
	return !tree.Equal(other)
}

func (tree *rbTree[K, V]) Less(other RBTree[K, V]) bool {
	return tree.Compare(other) < 0
}

func (tree *rbTree[K, V]) LessEqual(other RBTree[K, V]) bool {
	return tree.Compare(other) <= 0
}

func (tree *rbTree[K, V]) Greater(other RBTree[K, V]) bool {
	return tree.Compare(other) > 0
}

func (tree *rbTree[K, V]) GreaterEqual(other RBTree[K, V]) bool {
	return tree.Compare(other) >= 0
}
