package alloc

import "errors"

// Handle addresses a slot inside an allocator.
// Zero value is reserved as the nil handle, so a zero
// link field always means "absent".
type Handle uint32

const NilHandle Handle = 0

var (
	ErrOutOfMemory     = errors.New("[alloc] out of memory")
	ErrInvalidHandle   = errors.New("[alloc] invalid handle")
	ErrInvalidCount    = errors.New("[alloc] invalid allocation count")
	ErrConstructFailed = errors.New("[alloc] construct failed")
)

// Allocator is the storage capability for the node based
// containers. The life of an object is:
//
//	Allocate -> Construct -> (Deref)* -> Destroy -> Deallocate
//
// The callers must pair each step exactly once. If Construct
// fails, the slot is still allocated and has to be deallocated
// by the caller.
// Not thread safe.
type Allocator[T any] interface {
	// Allocate reserves count contiguous slots and returns the
	// handle of the first one.
	Allocate(count int) (Handle, error)
	// Deallocate releases count slots starting from h.
	Deallocate(h Handle, count int)
	// Construct places obj into an allocated slot.
	Construct(h Handle, obj T) error
	// Destroy zeroes a constructed slot, keeps it allocated.
	Destroy(h Handle)
	// Deref returns the constructed object addressed by h or nil.
	// The pointer is stable until the slot is destroyed.
	Deref(h Handle) *T
	// MaxSize is the max number of slots could be allocated.
	MaxSize() int64
	// Len is the number of allocated slots.
	Len() int64
}
