package tree

import (
	randv2 "math/rand/v2"
	"sort"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/alloc"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

type checkData struct {
	color RBColor
	key   uint64
}

func requireInorder(t *testing.T, tree RBTree[uint64, uint64], expected []checkData) {
	require.Equal(t, int64(len(expected)), tree.Len())
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, expected[idx].color, color)
		require.Equal(t, expected[idx].key, key)
		return true
	})
	require.NoError(t, Validate(tree))
}

func keysOf[K any, V any](tree RBTree[K, V]) []K {
	keys := make([]K, 0, tree.Len())
	for it := tree.Begin(); !it.IsEnd(); it = it.Next() {
		keys = append(keys, it.Key())
	}
	return keys
}

func reverseKeysOf[K any, V any](tree RBTree[K, V]) []K {
	keys := make([]K, 0, tree.Len())
	for it := tree.RBegin(); !it.Equal(tree.REnd()); it = it.Prev() {
		keys = append(keys, it.Key())
	}
	return keys
}

func treeOf(keys ...int) RBTree[int, int] {
	tree := NewRBTree[int, int]()
	for _, k := range keys {
		if _, _, err := tree.Insert(k, k*10); err != nil {
			panic(err)
		}
	}
	return tree
}

func TestRBColorAndDirectionString(t *testing.T) {
	require.Equal(t, "Black", Black.String())
	require.Equal(t, "Red", Red.String())
	require.Equal(t, "RBColor(7)", RBColor(7).String())
	require.Equal(t, "Left", Left.String())
	require.Equal(t, "Root", Root.String())
	require.Equal(t, "Right", Right.String())
	require.Equal(t, "RBDirection(-5)", RBDirection(-5).String())
	require.Equal(t, "EraseCloseNephew", EraseCloseNephew.String())
	require.Equal(t, "FixupCase(99)", FixupCase(99).String())
}

func TestRbtreeLeftAndRightRotate_Pred(t *testing.T) {
	trace := &fixupTrace{}
	tree := NewRBTree[uint64, uint64](
		WithRBTreeRemoveBorrowPred[uint64, uint64](),
		WithRBTreeFixupObserver[uint64, uint64](trace),
	)

	_, ok, err := tree.Insert(52, 1)
	require.NoError(t, err)
	require.True(t, ok)
	requireInorder(t, tree, []checkData{{Black, 52}})

	_, _, _ = tree.Insert(47, 1)
	requireInorder(t, tree, []checkData{{Red, 47}, {Black, 52}})

	_, _, _ = tree.Insert(3, 1)
	requireInorder(t, tree, []checkData{{Red, 3}, {Black, 47}, {Red, 52}})

	_, _, _ = tree.Insert(35, 1)
	requireInorder(t, tree, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}})

	_, _, _ = tree.Insert(24, 1)
	requireInorder(t, tree, []checkData{{Red, 3}, {Black, 24}, {Red, 35}, {Black, 47}, {Black, 52}})

	require.Equal(t, []FixupCase{
		InsertOuterGrandchild,
		InsertRedUncle,
		InsertInnerGrandchild,
		InsertOuterGrandchild,
	}, trace.cases)
	require.Equal(t, []RBDirection{Right, Right, Left}, trace.rotations)
	trace.reset()

	// remove

	ok, err = tree.EraseKey(24)
	require.NoError(t, err)
	require.True(t, ok)
	requireInorder(t, tree, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}})

	ok, err = tree.EraseKey(47)
	require.NoError(t, err)
	require.True(t, ok)
	requireInorder(t, tree, []checkData{{Black, 3}, {Black, 35}, {Black, 52}})
	require.Empty(t, trace.cases)

	ok, err = tree.EraseKey(52)
	require.NoError(t, err)
	require.True(t, ok)
	requireInorder(t, tree, []checkData{{Red, 3}, {Black, 35}})
	require.Equal(t, []FixupCase{EraseBlackFamily}, trace.cases)

	ok, err = tree.EraseKey(3)
	require.NoError(t, err)
	require.True(t, ok)
	requireInorder(t, tree, []checkData{{Black, 35}})

	ok, err = tree.EraseKey(35)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(0), tree.Len())
	require.True(t, tree.Empty())
	require.True(t, tree.Begin().Equal(tree.End()))

	ok, err = tree.EraseKey(35)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRbtree_RemoveMin(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	for _, k := range []uint64{52, 47, 3, 35, 24} {
		_, _, err := tree.Insert(k, k+1)
		require.NoError(t, err)
	}
	requireInorder(t, tree, []checkData{{Red, 3}, {Black, 24}, {Red, 35}, {Black, 47}, {Black, 52}})

	// remove min

	key, val, err := tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(3), key)
	require.Equal(t, uint64(4), val)
	requireInorder(t, tree, []checkData{{Black, 24}, {Red, 35}, {Black, 47}, {Black, 52}})

	key, _, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(24), key)
	requireInorder(t, tree, []checkData{{Black, 35}, {Black, 47}, {Black, 52}})

	key, _, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(35), key)
	requireInorder(t, tree, []checkData{{Black, 47}, {Red, 52}})

	key, _, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(47), key)
	requireInorder(t, tree, []checkData{{Black, 52}})

	key, _, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(52), key)
	require.Equal(t, int64(0), tree.Len())

	_, _, err = tree.RemoveMin()
	require.ErrorIs(t, err, ErrTreeEmpty)
}

func rbtreeRandomInsertAndRemoveSequentialNumberRunCore(t *testing.T, rmByPred bool) {
	total := uint64(1000)
	insertTotal := uint64(float64(total) * 0.8)
	removeTotal := uint64(float64(total) * 0.2)

	opts := make([]RBTreeOpt[uint64, uint64], 0, 1)
	if rmByPred {
		opts = append(opts, WithRBTreeRemoveBorrowPred[uint64, uint64]())
	}
	tree := NewRBTree[uint64, uint64](opts...)

	for i := uint64(0); i < insertTotal; i++ {
		_, _, err := tree.Insert(i, 1)
		require.NoError(t, err)
		require.NoError(t, Validate(tree))
	}
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})

	for i := insertTotal; i < removeTotal+insertTotal; i++ {
		_, _, err := tree.Insert(i, 1)
		require.NoError(t, err)
		require.NoError(t, Validate(tree))
	}

	for i := insertTotal; i < removeTotal+insertTotal; i++ {
		require.Equal(t, i, tree.Find(i).Key())
		ok, err := tree.EraseKey(i)
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, tree.Find(i).IsEnd())
		require.Equal(t, int64(0), tree.Count(i))
		require.NoError(t, Validate(tree))
	}
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})
	require.Equal(t, int64(insertTotal), tree.Len())
}

func TestRbtreeRandomInsertAndRemove_SequentialNumber(t *testing.T) {
	type testcase struct {
		name     string
		rmByPred bool
	}
	testcases := []testcase{
		{
			name: "rm by succ",
		},
		{
			name:     "rm by pred",
			rmByPred: true,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rbtreeRandomInsertAndRemoveSequentialNumberRunCore(tt, tc.rmByPred)
		})
	}
}

func TestRBTreeRandomInsertAndRemove_SequentialNumber_Clear(t *testing.T) {
	insertTotal := uint64(100_000)
	arena, err := alloc.NewArena[Node[uint64, uint64]](alloc.WithArenaChunkSize(4096))
	require.NoError(t, err)
	tree := NewRBTree[uint64, uint64](WithRBTreeAllocator(func() alloc.Allocator[Node[uint64, uint64]] {
		return arena
	}))

	rand := uint64(randv2.Uint32() % 1_000)
	for i := uint64(0); i < insertTotal; i++ {
		_, _, err = tree.Insert(i, 1)
		require.NoError(t, err)
		if i%10_000 == rand {
			require.NoError(t, Validate(tree))
		}
	}
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})
	require.Equal(t, int64(insertTotal), arena.Len())
	tree.Clear()
	require.Equal(t, int64(0), tree.Len())
	require.Equal(t, int64(0), arena.Len())
	require.True(t, tree.Begin().IsEnd())
	require.NoError(t, Validate(tree))
}

func TestRbtreeRandomInsertAndRemove_ReverseSequentialNumber(t *testing.T) {
	total := int64(10000)
	insertTotal := int64(float64(total) * 0.8)
	removeTotal := int64(float64(total) * 0.2)

	tree := NewRBTree[int64, uint64](WithRBTreeDesc[int64, uint64]())

	rand := int64(randv2.Uint32() % 1_000)
	for i := insertTotal - 1; i >= 0; i-- {
		_, _, err := tree.Insert(i, 1)
		require.NoError(t, err)
		if i%1000 == rand {
			require.NoError(t, Validate(tree))
		}
	}
	tree.Foreach(func(idx int64, color RBColor, key int64, val uint64) bool {
		require.Equal(t, insertTotal-1-idx, key)
		return true
	})

	for i := removeTotal + insertTotal - 1; i >= insertTotal; i-- {
		_, _, err := tree.Insert(i, 1)
		require.NoError(t, err)
	}
	tree.Foreach(func(idx int64, color RBColor, key int64, val uint64) bool {
		require.Equal(t, removeTotal+insertTotal-1-idx, key)
		return true
	})

	for i := insertTotal; i < removeTotal+insertTotal; i++ {
		ok, err := tree.EraseKey(i)
		require.NoError(t, err)
		require.True(t, ok)
	}
	tree.Foreach(func(idx int64, color RBColor, key int64, val uint64) bool {
		require.Equal(t, insertTotal-1-idx, key)
		return true
	})
	require.NoError(t, Validate(tree))
}

func rbtreeRandomInsertAndRemoveRandomNumberRunCore(t *testing.T, total int, rmByPred bool, violationCheck bool) {
	rng := randv2.New(randv2.NewPCG(uint64(total), 0x9e3779b97f4a7c15))
	elements := lo.Uniq(lo.Times(total, func(int) uint64 {
		return rng.Uint64N(uint64(total) * 16)
	}))
	removeTotal := len(elements) / 5
	insertElements, removeElements := elements[removeTotal:], elements[:removeTotal]

	opts := make([]RBTreeOpt[uint64, uint64], 0, 1)
	if rmByPred {
		opts = append(opts, WithRBTreeRemoveBorrowPred[uint64, uint64]())
	}
	tree := NewRBTree[uint64, uint64](opts...)

	for i, e := range insertElements {
		_, ok, err := tree.Insert(e, uint64(i))
		require.NoError(t, err)
		require.True(t, ok)
		if violationCheck {
			require.NoError(t, Validate(tree))
		}
	}
	sorted := append([]uint64(nil), insertElements...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	require.Equal(t, sorted, keysOf(tree))
	require.Equal(t, lo.Reverse(append([]uint64(nil), sorted...)), reverseKeysOf(tree))

	for _, e := range removeElements {
		_, _, err := tree.Insert(e, 1)
		require.NoError(t, err)
	}
	require.NoError(t, Validate(tree))

	for _, e := range removeElements {
		it := tree.Find(e)
		require.Equal(t, e, it.Key())
		require.True(t, it.Equal(tree.LowerBound(e)))
		_, err := tree.Erase(it)
		require.NoError(t, err)
		if violationCheck {
			require.NoError(t, Validate(tree))
		}
	}
	require.Equal(t, sorted, keysOf(tree))
	require.NoError(t, Validate(tree))
}

func TestRbtreeRandomInsertAndRemove_RandomNumber(t *testing.T) {
	type testcase struct {
		name           string
		rmByPred       bool
		total          int
		violationCheck bool
	}
	testcases := []testcase{
		{
			name:  "rm by succ 200000",
			total: 200000,
		},
		{
			name:     "rm by pred 200000",
			rmByPred: true,
			total:    200000,
		},
		{
			name:           "violation check rm by succ 2000",
			total:          2000,
			violationCheck: true,
		},
		{
			name:           "violation check rm by pred 2000",
			rmByPred:       true,
			total:          2000,
			violationCheck: true,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tt.Parallel()
			rbtreeRandomInsertAndRemoveRandomNumberRunCore(tt, tc.total, tc.rmByPred, tc.violationCheck)
		})
	}
}

func TestRBTreeInsertAscending(t *testing.T) {
	tree := treeOf(0, 1, 2, 3, 4)
	require.Equal(t, []int{0, 1, 2, 3, 4}, keysOf(tree))
	require.Equal(t, []int{4, 3, 2, 1, 0}, reverseKeysOf(tree))
	require.NoError(t, Validate(tree))

	colors := make([]RBColor, 0, 5)
	tree.Foreach(func(idx int64, color RBColor, key int, val int) bool {
		colors = append(colors, color)
		return true
	})
	require.Equal(t, []RBColor{Black, Black, Red, Black, Red}, colors)
}

func TestRBTreeInsertDuplicate(t *testing.T) {
	tree := treeOf(5, 3, 8)
	it, ok, err := tree.Insert(3, 999)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 3, it.Key())
	require.Equal(t, 30, it.Val())
	require.True(t, it.Equal(tree.Find(3)))
	require.Equal(t, int64(3), tree.Len())

	it, ok, err = tree.InsertOrAssign(3, 999)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 999, it.Val())

	it, ok, err = tree.InsertOrAssign(4, 40)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 40, it.Val())
	require.Equal(t, []int{3, 4, 5, 8}, keysOf(tree))

	it.SetVal(41)
	require.Equal(t, 41, tree.Find(4).Val())
	require.True(t, tree.Contains(4))
	require.False(t, tree.Contains(6))
	require.Equal(t, int64(1), tree.Count(8))
	require.NoError(t, Validate(tree))
}

func TestRBTreeBounds(t *testing.T) {
	tree := treeOf(10, 20, 30, 40, 50, 60, 70, 80, 90)

	require.Equal(t, 40, tree.LowerBound(35).Key())
	require.True(t, tree.LowerBound(95).IsEnd())
	require.Equal(t, 10, tree.LowerBound(-1).Key())
	require.Equal(t, 20, tree.UpperBound(10).Key())
	require.True(t, tree.UpperBound(90).IsEnd())

	lb, ub := tree.EqualRange(15)
	require.True(t, lb.Equal(ub))
	require.Equal(t, 20, lb.Key())

	lb, ub = tree.EqualRange(50)
	require.Equal(t, 50, lb.Key())
	require.Equal(t, 60, ub.Key())
	require.True(t, lb.Next().Equal(ub))
	require.True(t, lb.Equal(tree.Find(50)))

	lb, ub = tree.EqualRange(100)
	require.True(t, lb.IsEnd())
	require.True(t, ub.IsEnd())

	empty := NewRBTree[int, int]()
	require.True(t, empty.LowerBound(1).IsEnd())
	require.True(t, empty.UpperBound(1).IsEnd())
	require.True(t, empty.Find(1).IsEnd())
}

func TestRBTreeEraseFixupRegression(t *testing.T) {
	tree := NewRBTree[int, int]()
	for i := 0; i <= 16; i++ {
		_, _, err := tree.Insert(i, i)
		require.NoError(t, err)
	}
	for _, k := range []int{2, 1, 5} {
		ok, err := tree.EraseKey(k)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, Validate(tree))
	}
	_, ok, err := tree.Insert(5, 5)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = tree.EraseKey(6)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, Validate(tree))

	ok, err = tree.EraseKey(0)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, Validate(tree))
	require.Equal(t, []int{3, 4, 5, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, keysOf(tree))
}

func TestRBTreeEraseAllByIterator(t *testing.T) {
	rng := randv2.New(randv2.NewPCG(7, 11))
	keys := lo.Uniq(lo.Times(100, func(int) int {
		return rng.IntN(1_000_000)
	}))
	tree := treeOf(keys...)
	require.Equal(t, int64(len(keys)), tree.Len())

	prev := -1
	var err error
	for it := tree.Begin(); !it.IsEnd(); {
		require.Greater(t, it.Key(), prev)
		prev = it.Key()
		it, err = tree.Erase(it)
		require.NoError(t, err)
		require.NoError(t, Validate(tree))
	}
	require.True(t, tree.Empty())
	require.True(t, tree.Begin().Equal(tree.End()))
	require.True(t, tree.RBegin().Equal(tree.REnd()))
}

func TestRBTreeEraseKeepsOtherIterators(t *testing.T) {
	for _, rmByPred := range []bool{false, true} {
		opts := []RBTreeOpt[int, int]{}
		if rmByPred {
			opts = append(opts, WithRBTreeRemoveBorrowPred[int, int]())
		}
		tree := NewRBTree[int, int](opts...)
		its := make(map[int]Iterator[int, int], 17)
		for i := 0; i <= 16; i++ {
			it, _, err := tree.Insert(i, i*10)
			require.NoError(t, err)
			its[i] = it
		}

		// The root has two children.
		rt := tree.(*rbTree[int, int])
		rootKey := rt.node(rt.root).key
		target := its[rootKey]
		next, err := tree.Erase(target)
		require.NoError(t, err)
		require.Equal(t, rootKey+1, next.Key())
		require.True(t, next.Equal(its[rootKey+1]))
		require.False(t, target.Valid())
		require.PanicsWithValue(t, ErrInvalidIterator, func() {
			target.Key()
		})

		for k, it := range its {
			if k == rootKey {
				continue
			}
			require.True(t, it.Valid())
			require.Equal(t, k, it.Key())
			require.Equal(t, k*10, it.Val())
		}
		require.NoError(t, Validate(tree))

		_, err = tree.Erase(target)
		require.ErrorIs(t, err, ErrInvalidIterator)
	}
}

func TestRBTreeEraseInvalidIterator(t *testing.T) {
	tree := NewRBTree[int, int](WithRBTreeLogger[int, int](xlog.NewNopXLogger()))
	other := treeOf(1, 2, 3)
	_, _, _ = tree.Insert(1, 1)

	next, err := tree.Erase(tree.End())
	require.ErrorIs(t, err, ErrInvalidIterator)
	require.True(t, next.IsEnd())

	_, err = tree.Erase(other.Find(1))
	require.ErrorIs(t, err, ErrInvalidIterator)

	_, err = tree.Erase(Iterator[int, int]{})
	require.ErrorIs(t, err, ErrInvalidIterator)

	require.Equal(t, int64(1), tree.Len())
	require.Equal(t, int64(3), other.Len())
	require.NoError(t, Validate(tree))
	require.NoError(t, Validate(other))
}

func TestRBTreeEraseRange(t *testing.T) {
	tree := treeOf(1, 2, 3, 4, 5, 6, 7, 8, 9)
	last, err := tree.EraseRange(tree.Find(3), tree.Find(7))
	require.NoError(t, err)
	require.Equal(t, 7, last.Key())
	require.Equal(t, []int{1, 2, 7, 8, 9}, keysOf(tree))
	require.NoError(t, Validate(tree))

	last, err = tree.EraseRange(tree.Find(8), tree.End())
	require.NoError(t, err)
	require.True(t, last.IsEnd())
	require.Equal(t, []int{1, 2, 7}, keysOf(tree))

	_, err = tree.EraseRange(tree.Begin(), treeOf(1).End())
	require.ErrorIs(t, err, ErrInvalidIterator)
	require.Equal(t, []int{1, 2, 7}, keysOf(tree))

	last, err = tree.EraseRange(tree.Begin(), tree.End())
	require.NoError(t, err)
	require.True(t, last.IsEnd())
	require.True(t, tree.Empty())
	require.NoError(t, Validate(tree))
}

func TestRBTreeIterator(t *testing.T) {
	tree := treeOf(1, 2, 3)
	end := tree.End()
	require.True(t, end.IsEnd())
	require.False(t, end.Valid())
	require.True(t, end.Next().IsEnd())
	require.Equal(t, 3, end.Prev().Key())
	require.True(t, tree.Begin().Prev().IsEnd())
	require.Equal(t, 3, tree.RBegin().Key())
	require.Equal(t, 2, tree.RBegin().Prev().Key())
	require.Equal(t, Black, tree.Find(2).Color())

	require.PanicsWithValue(t, ErrIteratorAtEnd, func() {
		end.Key()
	})
	require.PanicsWithValue(t, ErrIteratorAtEnd, func() {
		end.SetVal(1)
	})

	var zero Iterator[int, int]
	require.True(t, zero.IsEnd())
	require.True(t, zero.Next().IsEnd())
	require.True(t, zero.Prev().IsEnd())
	require.False(t, zero.Equal(end))

	copied := tree.Begin()
	moved := copied.Next()
	require.Equal(t, 1, copied.Key())
	require.Equal(t, 2, moved.Key())

	// Insertion never invalidates.
	for i := 4; i < 64; i++ {
		_, _, _ = tree.Insert(i, i)
	}
	require.Equal(t, 1, copied.Key())
	require.Equal(t, 2, moved.Key())
	require.Equal(t, 63, end.Prev().Key())
}

func TestRBTreeCloneAndAssign(t *testing.T) {
	src := treeOf(lo.Range(64)...)
	dup, err := src.Clone()
	require.NoError(t, err)
	require.NoError(t, Validate(dup))
	require.True(t, dup.Equal(src))

	type colored struct {
		key   int
		color RBColor
	}
	collect := func(tree RBTree[int, int]) []colored {
		res := make([]colored, 0, tree.Len())
		tree.Foreach(func(idx int64, color RBColor, key int, val int) bool {
			res = append(res, colored{key, color})
			return true
		})
		return res
	}
	require.Equal(t, collect(src), collect(dup))
	require.Equal(t, 0, dup.Begin().Key())
	require.Equal(t, 63, dup.RBegin().Key())

	for i := 0; i < 64; i += 2 {
		_, err = src.EraseKey(i)
		require.NoError(t, err)
	}
	src.Find(1).SetVal(-1)
	require.Equal(t, int64(64), dup.Len())
	require.Equal(t, lo.Range(64), keysOf(dup))
	require.Equal(t, 10, dup.Find(1).Val())
	require.NoError(t, Validate(dup))
	require.True(t, dup.NotEqual(src))

	require.NoError(t, src.Assign(dup))
	require.True(t, src.Equal(dup))
	require.NoError(t, Validate(src))
	require.NoError(t, src.Assign(src))
	require.Equal(t, int64(64), src.Len())
	require.Error(t, src.Assign(nil))

	empty := NewRBTree[int, int]()
	emptyDup, err := empty.Clone()
	require.NoError(t, err)
	require.True(t, emptyDup.Empty())
	require.NoError(t, src.Assign(empty))
	require.True(t, src.Empty())
	require.NoError(t, Validate(src))
}

func TestRBTreeSwap(t *testing.T) {
	a := treeOf(1, 2, 3)
	b := treeOf(7, 8, 9, 10)
	itA := a.Find(2)
	endA := a.End()

	require.NoError(t, a.Swap(b))
	require.Equal(t, []int{7, 8, 9, 10}, keysOf(a))
	require.Equal(t, []int{1, 2, 3}, keysOf(b))
	require.Equal(t, 2, itA.Key())
	require.True(t, endA.Equal(b.End()))
	require.Equal(t, 3, endA.Prev().Key())

	_, err := a.Erase(itA)
	require.ErrorIs(t, err, ErrInvalidIterator)
	next, err := b.Erase(itA)
	require.NoError(t, err)
	require.Equal(t, 3, next.Key())
	require.NoError(t, Validate(a))
	require.NoError(t, Validate(b))

	require.NoError(t, a.Swap(a))
	require.Error(t, a.Swap(nil))
}

func TestRBTreeClear(t *testing.T) {
	tree := treeOf(1, 2, 3)
	end := tree.End()
	first := tree.Begin()
	tree.Clear()
	require.True(t, tree.Empty())
	require.False(t, first.Valid())
	require.True(t, end.Prev().IsEnd())
	require.NoError(t, Validate(tree))

	_, _, _ = tree.Insert(9, 9)
	_, _, _ = tree.Insert(5, 5)
	require.Equal(t, 9, end.Prev().Key())
	require.True(t, end.Equal(tree.End()))
	require.Equal(t, []int{5, 9}, keysOf(tree))
	tree.Clear()
	tree.Clear()
	require.True(t, tree.Empty())
}

func TestRBTreeCompare(t *testing.T) {
	first := treeOf(1, 2, 3)
	second := treeOf(7, 8, 9, 10)
	third := treeOf(3, 2, 1)

	require.True(t, first.Less(second))
	require.True(t, first.LessEqual(second))
	require.False(t, first.Greater(second))
	require.True(t, second.Greater(first))
	require.True(t, second.GreaterEqual(first))
	require.True(t, first.Equal(third))
	require.False(t, first.NotEqual(third))
	require.Equal(t, 0, first.Compare(third))

	prefix := treeOf(1, 2)
	require.True(t, prefix.Less(first))
	require.Equal(t, 1, first.Compare(prefix))
	require.True(t, NewRBTree[int, int]().Less(prefix))

	// Values are ignored.
	_, _, _ = third.InsertOrAssign(2, -5)
	require.True(t, first.Equal(third))
	require.Equal(t, 0, first.Compare(third))
	require.False(t, first.Less(third))
}

func TestRBTreeCustomComparator(t *testing.T) {
	require.Panics(t, func() {
		NewRBTreeFunc[int, int](nil)
	})

	tree := NewRBTreeFunc[string, int](func(i, j string) int64 {
		if len(i) != len(j) {
			return int64(len(i) - len(j))
		}
		return infra.OrderedComparator[string]()(i, j)
	})
	for _, s := range []string{"ccc", "a", "bb", "aa", "b"} {
		_, _, err := tree.Insert(s, len(s))
		require.NoError(t, err)
	}
	require.Equal(t, []string{"a", "b", "aa", "bb", "ccc"}, keysOf(tree))
	require.NotNil(t, tree.Comparator())

	desc := NewRBTreeFunc[int, int](infra.OrderedComparator[int](), WithRBTreeDesc[int, int]())
	for i := 0; i < 5; i++ {
		_, _, _ = desc.Insert(i, i)
	}
	require.Equal(t, []int{4, 3, 2, 1, 0}, keysOf(desc))
	require.NoError(t, Validate(desc))
}

func TestRBTreeForeachStop(t *testing.T) {
	tree := treeOf(lo.Range(10)...)
	visited := 0
	tree.Foreach(func(idx int64, color RBColor, key int, val int) bool {
		visited++
		return idx < 3
	})
	require.Equal(t, 4, visited)
}

func TestRBTreeMaxSize(t *testing.T) {
	tree := NewRBTree[int, int]()
	require.Equal(t, int64(1<<32-2), tree.MaxSize())
}

func BenchmarkRBTree_Random(b *testing.B) {
	testByBytes := []byte(`abc`)

	b.StopTimer()
	tree := NewRBTree[int, []byte]()

	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := tree.Insert(rngArr[i], testByBytes); err != nil {
			panic(err)
		}
	}
}

func BenchmarkRBTree_Serial(b *testing.B) {
	testByBytes := []byte(`abc`)

	b.StopTimer()
	tree := NewRBTree[int, []byte]()

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = tree.Insert(i, testByBytes)
	}
}
