package kv

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

// ErrSetOrderMismatch is returned by the set algebra if the other set
// is not sorted by the comparator of the receiver.
var ErrSetOrderMismatch = errors.New("[kv] ordered set comparator mismatch")

// OrderedSet is a sorted set backed by the rbtree.
// Not thread safe.
type OrderedSet[K any] struct {
	tree tree.RBTree[K, struct{}]
}

func NewOrderedSet[K infra.OrderedKey](items ...K) (*OrderedSet[K], error) {
	s := &OrderedSet[K]{tree: tree.NewRBTree[K, struct{}]()}
	return s, s.AddAll(items...)
}

func NewOrderedSetFunc[K any](cmp infra.Comparator[K], items ...K) (*OrderedSet[K], error) {
	s := &OrderedSet[K]{tree: tree.NewRBTreeFunc[K, struct{}](cmp)}
	return s, s.AddAll(items...)
}

func (s *OrderedSet[K]) empty() *OrderedSet[K] {
	return &OrderedSet[K]{tree: tree.NewRBTreeFunc[K, struct{}](s.tree.Comparator())}
}

func (s *OrderedSet[K]) Len() int64 {
	return s.tree.Len()
}

// Add returns false if the item exists.
func (s *OrderedSet[K]) Add(item K) (bool, error) {
	_, ok, err := s.tree.Insert(item, struct{}{})
	return ok, err
}

func (s *OrderedSet[K]) AddAll(items ...K) error {
	for _, item := range items {
		if _, err := s.Add(item); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderedSet[K]) Remove(item K) (bool, error) {
	return s.tree.EraseKey(item)
}

func (s *OrderedSet[K]) Contains(item K) bool {
	return s.tree.Contains(item)
}

func (s *OrderedSet[K]) Items() []K {
	items := make([]K, 0, s.tree.Len())
	for it := s.tree.Begin(); !it.IsEnd(); it = it.Next() {
		items = append(items, it.Key())
	}
	return items
}

func (s *OrderedSet[K]) Equal(other *OrderedSet[K]) bool {
	return other != nil && s.tree.Equal(other.tree)
}

// Less is the lexicographic order of the items.
func (s *OrderedSet[K]) Less(other *OrderedSet[K]) bool {
	return s.tree.Less(other.tree)
}

// merge walks both sets in order by the comparator of s. The emit
// flags select the items only in s, only in other and in both.
// The walk fails with ErrSetOrderMismatch once other turns out not
// to be ascending under that comparator.
func (s *OrderedSet[K]) merge(other *OrderedSet[K], onlyLeft, onlyRight, both bool) (*OrderedSet[K], error) {
	res := s.empty()
	cmp := s.tree.Comparator()
	add := func(item K, emit bool) error {
		if !emit {
			return nil
		}
		_, err := res.Add(item)
		return err
	}

	l, r := s.tree.Begin(), other.tree.Begin()
	nextR := func() error {
		prev := r.Key()
		r = r.Next()
		if !r.IsEnd() && cmp(prev, r.Key()) >= 0 {
			return infra.WrapErrorStackWithMessage(ErrSetOrderMismatch, "[kv] set merge")
		}
		return nil
	}
	for !l.IsEnd() || !r.IsEnd() {
		var c int64
		switch {
		case r.IsEnd():
			c = -1
		case l.IsEnd():
			c = 1
		default:
			c = cmp(l.Key(), r.Key())
		}

		var err error
		if c < 0 {
			err = add(l.Key(), onlyLeft)
			l = l.Next()
		} else if c > 0 {
			if err = add(r.Key(), onlyRight); err == nil {
				err = nextR()
			}
		} else {
			if err = add(l.Key(), both); err == nil {
				l = l.Next()
				err = nextR()
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *OrderedSet[K]) Union(other *OrderedSet[K]) (*OrderedSet[K], error) {
	return s.merge(other, true, true, true)
}

func (s *OrderedSet[K]) Intersection(other *OrderedSet[K]) (*OrderedSet[K], error) {
	return s.merge(other, false, false, true)
}

func (s *OrderedSet[K]) Difference(other *OrderedSet[K]) (*OrderedSet[K], error) {
	return s.merge(other, true, false, false)
}
