package alloc

import (
	"math"
	"unsafe"
)

// This file is the only place the package materializes Go pointers out of
// arena offsets. Everything else works on offsets alone.

// New allocates a zeroed T from a and returns a pointer into the arena's
// backing memory. The pointer is valid while the backing memory is alive and,
// for bump allocators, until the next Reset.
func New[T any](a ArenaAllocator) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T), nil
	}
	align := int(unsafe.Alignof(zero))
	off, err := a.Allocate(size, align)
	if err != nil {
		return nil, err
	}
	b := a.Arena().Bytes(off, size)
	clear(b)
	return (*T)(unsafe.Pointer(&b[0])), nil
}

// NewSlice allocates a zeroed slice of n elements of T inside the arena.
// Returns nil for n <= 0.
func NewSlice[T any](a ArenaAllocator, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	elem := int(unsafe.Sizeof(zero))
	if elem == 0 {
		return make([]T, n), nil
	}
	if n > math.MaxInt/elem {
		return nil, ErrOutOfMemory
	}
	align := int(unsafe.Alignof(zero))
	off, err := a.Allocate(elem*n, align)
	if err != nil {
		return nil, err
	}
	b := a.Arena().Bytes(off, elem*n)
	clear(b)
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n), nil
}

// Release hands p's block back to the allocator that produced it. p must
// have come from New on the same allocator. For bump allocators this is the
// usual no-op.
func Release[T any](a ArenaAllocator, p *T) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return
	}
	align := int(unsafe.Alignof(zero))
	a.Deallocate(offsetOf(a.Arena(), unsafe.Pointer(p)), size, align)
}

// offsetOf recovers the arena offset behind a pointer previously
// materialized from the same arena.
func offsetOf(ar *Arena, p unsafe.Pointer) int {
	start := unsafe.Pointer(&ar.Bytes(0, 1)[0])
	return int(uintptr(p) - uintptr(start))
}
