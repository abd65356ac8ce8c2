package kv

import (
	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

// OrderedMap is a sorted map backed by the rbtree.
// Not thread safe.
type OrderedMap[K any, V any] struct {
	tree tree.RBTree[K, V]
}

func NewOrderedMap[K infra.OrderedKey, V any](opts ...tree.RBTreeOpt[K, V]) *OrderedMap[K, V] {
	return &OrderedMap[K, V]{tree: tree.NewRBTree[K, V](opts...)}
}

func NewOrderedMapFunc[K any, V any](cmp infra.Comparator[K], opts ...tree.RBTreeOpt[K, V]) *OrderedMap[K, V] {
	return &OrderedMap[K, V]{tree: tree.NewRBTreeFunc[K, V](cmp, opts...)}
}

func (m *OrderedMap[K, V]) Tree() tree.RBTree[K, V] {
	return m.tree
}

func (m *OrderedMap[K, V]) Len() int64 {
	return m.tree.Len()
}

func (m *OrderedMap[K, V]) Get(key K) (val V, ok bool) {
	if it := m.tree.Find(key); !it.IsEnd() {
		return it.Val(), true
	}
	return val, false
}

// Put inserts or overwrites.
func (m *OrderedMap[K, V]) Put(key K, val V) error {
	_, _, err := m.tree.InsertOrAssign(key, val)
	return err
}

// PutIfAbsent returns false if the key exists.
func (m *OrderedMap[K, V]) PutIfAbsent(key K, val V) (bool, error) {
	_, ok, err := m.tree.Insert(key, val)
	return ok, err
}

func (m *OrderedMap[K, V]) Delete(key K) (val V, ok bool, err error) {
	it := m.tree.Find(key)
	if it.IsEnd() {
		return val, false, nil
	}
	val = it.Val()
	if _, err = m.tree.Erase(it); err != nil {
		return val, false, err
	}
	return val, true, nil
}

func entryOf[K any, V any](it tree.Iterator[K, V]) (key K, val V, ok bool) {
	if it.IsEnd() {
		return key, val, false
	}
	return it.Key(), it.Val(), true
}

func (m *OrderedMap[K, V]) First() (K, V, bool) {
	return entryOf(m.tree.Begin())
}

func (m *OrderedMap[K, V]) Last() (K, V, bool) {
	return entryOf(m.tree.RBegin())
}

// PollFirst removes and returns the min entry.
func (m *OrderedMap[K, V]) PollFirst() (key K, val V, ok bool) {
	key, val, err := m.tree.RemoveMin()
	return key, val, err == nil
}

// Ceiling is the least entry not less than key.
func (m *OrderedMap[K, V]) Ceiling(key K) (K, V, bool) {
	return entryOf(m.tree.LowerBound(key))
}

// Higher is the least entry greater than key.
func (m *OrderedMap[K, V]) Higher(key K) (K, V, bool) {
	return entryOf(m.tree.UpperBound(key))
}

// Floor is the greatest entry not greater than key.
func (m *OrderedMap[K, V]) Floor(key K) (K, V, bool) {
	it := m.tree.UpperBound(key)
	if it.Equal(m.tree.Begin()) {
		return entryOf(m.tree.End())
	}
	return entryOf(it.Prev())
}

// Lower is the greatest entry less than key.
func (m *OrderedMap[K, V]) Lower(key K) (K, V, bool) {
	it := m.tree.LowerBound(key)
	if it.Equal(m.tree.Begin()) {
		return entryOf(m.tree.End())
	}
	return entryOf(it.Prev())
}

// Range visits the entries in order until fn returns false.
func (m *OrderedMap[K, V]) Range(fn func(key K, val V) bool) {
	m.tree.Foreach(func(_ int64, _ tree.RBColor, key K, val V) bool {
		return fn(key, val)
	})
}

// RangeBetween visits the entries in [from, to). Nothing is visited
// if from is not less than to.
func (m *OrderedMap[K, V]) RangeBetween(from, to K, fn func(key K, val V) bool) {
	if m.tree.Comparator()(from, to) >= 0 {
		return
	}
	last := m.tree.LowerBound(to)
	for it := m.tree.LowerBound(from); !it.IsEnd() && !it.Equal(last); it = it.Next() {
		if !fn(it.Key(), it.Val()) {
			return
		}
	}
}

// DeleteBetween removes the entries in [from, to) and returns the
// number removed.
func (m *OrderedMap[K, V]) DeleteBetween(from, to K) (int64, error) {
	if m.tree.Comparator()(from, to) >= 0 {
		return 0, nil
	}
	size := m.tree.Len()
	_, err := m.tree.EraseRange(m.tree.LowerBound(from), m.tree.LowerBound(to))
	return size - m.tree.Len(), err
}

func (m *OrderedMap[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, m.tree.Len())
	m.Range(func(key K, val V) bool {
		entries = append(entries, Entry[K, V]{Key: key, Val: val})
		return true
	})
	return entries
}

func (m *OrderedMap[K, V]) Keys() []K {
	return lo.Map(m.Entries(), func(e Entry[K, V], _ int) K {
		return e.Key
	})
}

func (m *OrderedMap[K, V]) Values() []V {
	return lo.Map(m.Entries(), func(e Entry[K, V], _ int) V {
		return e.Val
	})
}

func (m *OrderedMap[K, V]) Clear() {
	m.tree.Clear()
}

func (m *OrderedMap[K, V]) Clone() (*OrderedMap[K, V], error) {
	dup, err := m.tree.Clone()
	if err != nil {
		return nil, err
	}
	return &OrderedMap[K, V]{tree: dup}, nil
}

// Equal compares the keys by the comparator and the values by eq.
func (m *OrderedMap[K, V]) Equal(other *OrderedMap[K, V], eq func(v1, v2 V) bool) bool {
	if other == nil || !m.tree.Equal(other.tree) {
		return false
	}
	for l, r := m.tree.Begin(), other.tree.Begin(); !l.IsEnd(); l, r = l.Next(), r.Next() {
		if !eq(l.Val(), r.Val()) {
			return false
		}
	}
	return true
}
