package tree

import (
	"errors"
	"strconv"

	"github.com/benz9527/xtree/lib/infra"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "RBColor(" + strconv.FormatInt(int64(c), 10) + ")"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "Left"
	case Root:
		return "Root"
	case Right:
		return "Right"
	default:
	}
	return "RBDirection(" + strconv.FormatInt(int64(d), 10) + ")"
}

// FixupCase enumerates the states of the rebalance state machines.
type FixupCase uint8

const (
	FixupDone FixupCase = iota
	// Insert: parent and uncle are red.
	InsertRedUncle
	// Insert: uncle is black, zig-zag with the parent.
	InsertInnerGrandchild
	// Insert: uncle is black, straight line with the parent.
	InsertOuterGrandchild
	// Erase: parent, sibling and nephews are all black.
	EraseBlackFamily
	// Erase: sibling is red.
	EraseRedSibling
	// Erase: parent is red, sibling and nephews are black.
	EraseRedParent
	// Erase: sibling is black, close nephew red and distant nephew black.
	EraseCloseNephew
	// Erase: sibling is black, distant nephew red.
	EraseDistantNephew
)

func (c FixupCase) String() string {
	switch c {
	case FixupDone:
		return "FixupDone"
	case InsertRedUncle:
		return "InsertRedUncle"
	case InsertInnerGrandchild:
		return "InsertInnerGrandchild"
	case InsertOuterGrandchild:
		return "InsertOuterGrandchild"
	case EraseBlackFamily:
		return "EraseBlackFamily"
	case EraseRedSibling:
		return "EraseRedSibling"
	case EraseRedParent:
		return "EraseRedParent"
	case EraseCloseNephew:
		return "EraseCloseNephew"
	case EraseDistantNephew:
		return "EraseDistantNephew"
	default:
	}
	return "FixupCase(" + strconv.FormatInt(int64(c), 10) + ")"
}

// FixupObserver is notified on every state visited by the
// rebalance state machines and on every rotation.
type FixupObserver interface {
	OnFixup(c FixupCase)
	OnRotate(dir RBDirection)
}

var (
	ErrInvalidIterator = errors.New("[rbtree] invalid iterator")
	ErrIteratorAtEnd   = errors.New("[rbtree] dereference end iterator")
	ErrComparatorPanic = errors.New("[rbtree] comparator panic")
	ErrTreeEmpty       = errors.New("[rbtree] empty tree")
	ErrForeignTree     = errors.New("[rbtree] tree implementation mismatch")
	ErrNilComparator   = errors.New("[rbtree] nil comparator")
)

// RBTree is an ordered associative container with unique keys.
// Not thread safe.
type RBTree[K any, V any] interface {
	Len() int64
	Empty() bool
	// MaxSize is the max number of nodes the storage could hold.
	MaxSize() int64
	Comparator() infra.Comparator[K]

	// Insert never overwrites. If the key exists, the iterator
	// of the existing node is returned with false.
	Insert(key K, val V) (Iterator[K, V], bool, error)
	InsertOrAssign(key K, val V) (Iterator[K, V], bool, error)
	// Erase returns the iterator following the erased one.
	Erase(it Iterator[K, V]) (Iterator[K, V], error)
	EraseKey(key K) (bool, error)
	// EraseRange erases [first, last) and returns last.
	EraseRange(first, last Iterator[K, V]) (Iterator[K, V], error)
	RemoveMin() (K, V, error)

	Find(key K) Iterator[K, V]
	Count(key K) int64
	Contains(key K) bool
	LowerBound(key K) Iterator[K, V]
	UpperBound(key K) Iterator[K, V]
	EqualRange(key K) (Iterator[K, V], Iterator[K, V])

	Begin() Iterator[K, V]
	End() Iterator[K, V]
	// RBegin is positioned at the max node, walk it by Prev.
	RBegin() Iterator[K, V]
	REnd() Iterator[K, V]

	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Clear()
	Swap(other RBTree[K, V]) error
	Clone() (RBTree[K, V], error)
	Assign(other RBTree[K, V]) error

	// Lexicographic comparison over the in-order keys by the
	// comparator of the receiver. Values are ignored.
	Compare(other RBTree[K, V]) int
	// Equal reports equal sizes and equal keys. Values are ignored.
	Equal(other RBTree[K, V]) bool
	NotEqual(other RBTree[K, V]) bool
	Less(other RBTree[K, V]) bool
	LessEqual(other RBTree[K, V]) bool
	Greater(other RBTree[K, V]) bool
	GreaterEqual(other RBTree[K, V]) bool
}
