package alloc

import (
	"math"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

const (
	defaultArenaChunkSize = 256
	defaultArenaMaxSize   = int64(math.MaxUint32 - 1)
)

type slotState uint8

const (
	slotFree slotState = iota
	slotAllocated
	slotConstructed
)

type arenaSlot[T any] struct {
	obj   T
	state slotState
}

var _ Allocator[uint8] = (*Arena[uint8])(nil)

// Arena is an auto growth allocator. Slots are stored in fixed
// size chunks, the chunks never move after creation, so the
// pointers returned by Deref stay valid while more slots are
// allocated.
// Single slot deallocations are recycled (LIFO) before growing.
type Arena[T any] struct {
	chunks    [][]arenaSlot[T]
	recycled  []Handle
	next      Handle // non-zero offset, 0 is the nil handle
	live      int64
	maxSize   int64
	chunkSize uint32
}

func (arena *Arena[T]) slot(h Handle) *arenaSlot[T] {
	if h == NilHandle || h >= arena.next {
		return nil
	}
	idx := uint32(h - 1)
	return &arena.chunks[idx/arena.chunkSize][idx%arena.chunkSize]
}

func (arena *Arena[T]) grow() {
	for uint64(len(arena.chunks))*uint64(arena.chunkSize) < uint64(arena.next-1) {
		arena.chunks = append(arena.chunks, make([]arenaSlot[T], arena.chunkSize))
	}
}

func (arena *Arena[T]) Allocate(count int) (Handle, error) {
	if count <= 0 {
		return NilHandle, ErrInvalidCount
	}
	if rl := len(arena.recycled); count == 1 && rl > 0 {
		h := arena.recycled[rl-1]
		arena.recycled = arena.recycled[:rl-1]
		arena.slot(h).state = slotAllocated
		arena.live++
		return h, nil
	}
	if int64(arena.next)-1+int64(count) > arena.maxSize {
		return NilHandle, ErrOutOfMemory
	}

	first := arena.next
	arena.next += Handle(count)
	arena.grow()
	for i := 0; i < count; i++ {
		arena.slot(first + Handle(i)).state = slotAllocated
	}
	arena.live += int64(count)
	return first, nil
}

func (arena *Arena[T]) Deallocate(h Handle, count int) {
	for i := 0; i < count; i++ {
		s := arena.slot(h + Handle(i))
		if s == nil || s.state == slotFree {
			continue
		}
		var zero T
		s.obj, s.state = zero, slotFree
		arena.recycled = append(arena.recycled, h+Handle(i))
		arena.live--
	}
}

func (arena *Arena[T]) Construct(h Handle, obj T) error {
	s := arena.slot(h)
	if s == nil || s.state != slotAllocated {
		return ErrInvalidHandle
	}
	s.obj, s.state = obj, slotConstructed
	return nil
}

func (arena *Arena[T]) Destroy(h Handle) {
	s := arena.slot(h)
	if s == nil || s.state != slotConstructed {
		return
	}
	var zero T
	s.obj, s.state = zero, slotAllocated
}

func (arena *Arena[T]) Deref(h Handle) *T {
	s := arena.slot(h)
	if s == nil || s.state != slotConstructed {
		return nil
	}
	return &s.obj
}

func (arena *Arena[T]) MaxSize() int64 {
	return arena.maxSize
}

func (arena *Arena[T]) Len() int64 {
	return arena.live
}

type arenaCfg struct {
	maxSize   int64
	chunkSize uint32
}

type ArenaOption func(*arenaCfg) error

// WithArenaChunkSize sets the number of slots per chunk.
func WithArenaChunkSize(n uint32) ArenaOption {
	return func(cfg *arenaCfg) error {
		if n == 0 {
			return infra.NewErrorStack("[alloc] arena chunk size must be positive")
		}
		cfg.chunkSize = n
		return nil
	}
}

// WithArenaMaxSize caps the number of slots.
func WithArenaMaxSize(n int64) ArenaOption {
	return func(cfg *arenaCfg) error {
		if n <= 0 || n > defaultArenaMaxSize {
			return infra.NewErrorStack("[alloc] arena max size out of range")
		}
		cfg.maxSize = n
		return nil
	}
}

func NewArena[T any](opts ...ArenaOption) (*Arena[T], error) {
	cfg := &arenaCfg{
		maxSize:   defaultArenaMaxSize,
		chunkSize: defaultArenaChunkSize,
	}
	var merr error
	for _, o := range opts {
		if o == nil {
			continue
		}
		merr = multierr.Append(merr, o(cfg))
	}
	if merr != nil {
		return nil, merr
	}
	return &Arena[T]{
		chunks:    make([][]arenaSlot[T], 0, 8),
		recycled:  make([]Handle, 0, cfg.chunkSize),
		next:      1,
		maxSize:   cfg.maxSize,
		chunkSize: cfg.chunkSize,
	}, nil
}
