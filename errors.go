package alloc

import "errors"

// Allocation errors. All three are recoverable at the call site: a failed
// Allocate never mutates allocator state, so the caller may retry with a
// smaller request or a different allocator.
var (
	// ErrOutOfMemory is returned when the arena is exhausted and its
	// backing memory cannot grow (or refuses to grow) far enough.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrInvalidAlignment is returned when the requested alignment is not
	// a power of two, or when no configured size class can satisfy it.
	ErrInvalidAlignment = errors.New("alloc: invalid alignment")

	// ErrUnsupportedSize is returned by the bucket allocator when the
	// requested size exceeds the largest configured size class.
	ErrUnsupportedSize = errors.New("alloc: unsupported size")
)
