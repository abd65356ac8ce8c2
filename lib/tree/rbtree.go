package tree

import (
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/alloc"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.
// The longest path nodes' number is 2 * shortest path nodes' number.

var _ RBTree[int, struct{}] = (*rbTree[int, struct{}])(nil)

type rbTree[K any, V any] struct {
	end            *rbEnd[K, V]
	cmp            infra.Comparator[K]
	newAllocator   func() alloc.Allocator[Node[K, V]]
	logger         xlog.XLogger
	observer       FixupObserver
	root           alloc.Handle
	min            alloc.Handle
	count          int64
	isDesc         bool
	isRmBorrowPred bool
}

func (tree *rbTree[K, V]) node(h alloc.Handle) *Node[K, V] {
	return tree.end.node(h)
}

func (tree *rbTree[K, V]) iter(h alloc.Handle) Iterator[K, V] {
	return Iterator[K, V]{end: tree.end, node: h}
}

func (tree *rbTree[K, V]) observeFixup(c FixupCase) {
	if tree.observer != nil {
		tree.observer.OnFixup(c)
	}
}

func (tree *rbTree[K, V]) observeRotate(dir RBDirection) {
	if tree.observer != nil {
		tree.observer.OnRotate(dir)
	}
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K, V]) Empty() bool {
	return tree.count == 0
}

func (tree *rbTree[K, V]) MaxSize() int64 {
	return tree.end.nodes.MaxSize()
}

func (tree *rbTree[K, V]) Comparator() infra.Comparator[K] {
	return tree.cmp
}

func (tree *rbTree[K, V]) Begin() Iterator[K, V] {
	return tree.iter(tree.min)
}

func (tree *rbTree[K, V]) End() Iterator[K, V] {
	return tree.iter(alloc.NilHandle)
}

func (tree *rbTree[K, V]) RBegin() Iterator[K, V] {
	return tree.iter(tree.end.max)
}

func (tree *rbTree[K, V]) REnd() Iterator[K, V] {
	return tree.End()
}

// Foreach is the in-order traversal. Stops if action returns false.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	idx := int64(0)
	for h := tree.min; h != alloc.NilHandle; h = tree.end.succ(h) {
		n := tree.node(h)
		if !action(idx, n.color, n.key, n.val) {
			return
		}
		idx++
	}
}

func (tree *rbTree[K, V]) RemoveMin() (key K, val V, err error) {
	if tree.count <= 0 {
		return key, val, ErrTreeEmpty
	}
	n := tree.node(tree.min)
	key, val = n.key, n.val
	tree.eraseNode(tree.min)
	return key, val, nil
}

// Clear releases all nodes. The end sentinel is kept, so the end
// iterators taken before stay usable.
func (tree *rbTree[K, V]) Clear() {
	size := tree.count
	tree.release()
	tree.logger.Debug("[rbtree] clear", zap.Int64("size", size))
}

func (tree *rbTree[K, V]) release() {
	aux := tree.root
	tree.root, tree.min, tree.end.max, tree.count = alloc.NilHandle, alloc.NilHandle, alloc.NilHandle, 0
	if aux == alloc.NilHandle {
		return
	}

	stack := make([]alloc.Handle, 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		n := tree.node(aux)
		if n.left != alloc.NilHandle {
			stack = append(stack, n.left)
		}
		if n.right != alloc.NilHandle {
			stack = append(stack, n.right)
		}
		tree.freeNode(aux)
	}
}

// Swap exchanges the contents. The iterators follow their
// elements into the other tree.
func (tree *rbTree[K, V]) Swap(other RBTree[K, V]) error {
	o, ok := other.(*rbTree[K, V])
	if !ok || o == nil {
		return infra.WrapErrorStackWithMessage(ErrForeignTree, "[rbtree] swap")
	}
	if o == tree {
		return nil
	}
	tree.logger.Debug("[rbtree] swap", zap.Int64("size", tree.count), zap.Int64("otherSize", o.count))
	tree.end, o.end = o.end, tree.end
	tree.cmp, o.cmp = o.cmp, tree.cmp
	tree.root, o.root = o.root, tree.root
	tree.min, o.min = o.min, tree.min
	tree.count, o.count = o.count, tree.count
	tree.isDesc, o.isDesc = o.isDesc, tree.isDesc
	return nil
}

// Clone is the deep copy with colors and shape preserved.
func (tree *rbTree[K, V]) Clone() (RBTree[K, V], error) {
	dup := &rbTree[K, V]{
		cmp:            tree.cmp,
		newAllocator:   tree.newAllocator,
		logger:         tree.logger,
		observer:       tree.observer,
		isDesc:         tree.isDesc,
		isRmBorrowPred: tree.isRmBorrowPred,
	}
	dup.end = &rbEnd[K, V]{nodes: dup.allocator()}
	if err := dup.copyFrom(tree); err != nil {
		return nil, err
	}
	return dup, nil
}

// Assign replaces the contents by a deep copy of other.
// Self assignment is a no-op.
func (tree *rbTree[K, V]) Assign(other RBTree[K, V]) error {
	o, ok := other.(*rbTree[K, V])
	if !ok || o == nil {
		return infra.WrapErrorStackWithMessage(ErrForeignTree, "[rbtree] assign")
	}
	if o == tree {
		return nil
	}
	tree.logger.Debug("[rbtree] assign", zap.Int64("size", tree.count), zap.Int64("otherSize", o.count))
	tree.release()
	tree.cmp, tree.isDesc = o.cmp, o.isDesc
	return tree.copyFrom(o)
}

type copyFrame struct {
	from   alloc.Handle
	parent alloc.Handle
	dir    RBDirection
}

// copyFrom duplicates the nodes of src into the empty tree. The
// min and max caches are remapped by the node identity.
// On failure the tree is left empty.
func (tree *rbTree[K, V]) copyFrom(src *rbTree[K, V]) error {
	if src.root == alloc.NilHandle {
		return nil
	}

	stack := make([]copyFrame, 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, copyFrame{from: src.root, dir: Root})
	for size := len(stack); size > 0; size = len(stack) {
		p := stack[size-1]
		stack = stack[:size-1]

		sn := src.node(p.from)
		h, err := tree.newNode(sn.key, sn.val)
		if err != nil {
			tree.release()
			tree.logger.ErrorStack(err, "[rbtree] copy failed")
			return err
		}
		n := tree.node(h)
		n.color, n.parent = sn.color, p.parent
		switch p.dir {
		case Root:
			tree.root = h
		case Left:
			tree.node(p.parent).left = h
		case Right:
			tree.node(p.parent).right = h
		default:
		}
		tree.count++
		if p.from == src.min {
			tree.min = h
		}
		if p.from == src.end.max {
			tree.end.max = h
		}
		if sn.right != alloc.NilHandle {
			stack = append(stack, copyFrame{from: sn.right, parent: h, dir: Right})
		}
		if sn.left != alloc.NilHandle {
			stack = append(stack, copyFrame{from: sn.left, parent: h, dir: Left})
		}
	}
	return nil
}

func (tree *rbTree[K, V]) allocator() alloc.Allocator[Node[K, V]] {
	if tree.newAllocator != nil {
		if a := tree.newAllocator(); a != nil {
			return a
		}
		panic(infra.NewErrorStack("[rbtree] allocator factory returns nil"))
	}
	return lo.Must(alloc.NewArena[Node[K, V]]())
}

func (tree *rbTree[K, V]) newNode(key K, val V) (alloc.Handle, error) {
	nodes := tree.end.nodes
	h, err := nodes.Allocate(1)
	if err != nil {
		return alloc.NilHandle, infra.WrapErrorStackWithMessage(err, "[rbtree] allocate node")
	}
	if err = nodes.Construct(h, Node[K, V]{key: key, val: val, color: Red}); err != nil {
		nodes.Deallocate(h, 1)
		return alloc.NilHandle, infra.WrapErrorStackWithMessage(
			multierr.Append(alloc.ErrConstructFailed, err),
			"[rbtree] construct node",
		)
	}
	return h, nil
}

func (tree *rbTree[K, V]) freeNode(h alloc.Handle) {
	tree.end.nodes.Destroy(h)
	tree.end.nodes.Deallocate(h, 1)
}

type RBTreeOpt[K any, V any] func(*rbTree[K, V])

// WithRBTreeDesc reverses the order of the comparator.
func WithRBTreeDesc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

// WithRBTreeRemoveBorrowPred makes the erase of a node with two
// children borrow the position of its pred instead of its succ.
func WithRBTreeRemoveBorrowPred[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isRmBorrowPred = true
	}
}

// WithRBTreeAllocator sets the node storage factory. It is called
// once by the constructor and once per Clone.
func WithRBTreeAllocator[K any, V any](fn func() alloc.Allocator[Node[K, V]]) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.newAllocator = fn
	}
}

func WithRBTreeLogger[K any, V any](logger xlog.XLogger) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if logger != nil {
			tree.logger = logger.Named("rbtree")
		}
	}
}

func WithRBTreeFixupObserver[K any, V any](observer FixupObserver) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.observer = observer
	}
}

// NewRBTree orders the keys by the natural order.
func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return NewRBTreeFunc[K, V](infra.OrderedComparator[K](), opts...)
}

// NewRBTreeFunc orders the keys by cmp. A nil cmp panics.
func NewRBTreeFunc[K any, V any](cmp infra.Comparator[K], opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	if cmp == nil {
		panic(infra.WrapErrorStack(ErrNilComparator))
	}
	tree := &rbTree[K, V]{
		cmp: cmp,
	}
	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}
	if tree.logger == nil {
		tree.logger = xlog.NewNopXLogger()
	}
	if tree.isDesc {
		tree.cmp = infra.ReverseComparator(cmp)
	}
	tree.end = &rbEnd[K, V]{nodes: tree.allocator()}
	return tree
}
