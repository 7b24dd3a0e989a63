package alloc

import "fmt"

// DefaultPageSize is the growth granularity used by PageMemory when none is
// given (64 KiB, the WebAssembly linear-memory page size).
const DefaultPageSize = 64 * 1024

// Memory models a contiguous backing region for an Arena. The region may
// grow in place but never moves: after a successful Grow, Bytes() returns a
// slice whose prefix is byte-identical to the region before the call.
type Memory interface {
	// Bytes returns the currently usable backing region.
	Bytes() []byte

	// Size returns the current size of the region in bytes.
	Size() int

	// Grow extends the region so that Size() >= min, or returns
	// ErrOutOfMemory. On failure the region is unchanged; there is no
	// partial growth. Returns the new size.
	Grow(min int) (int, error)
}

// SliceMemory is a fixed-capacity Memory backed by a caller-supplied byte
// slice. It never grows, which makes exhaustion deterministic in tests.
type SliceMemory struct {
	buf []byte
}

// NewSliceMemory wraps buf as a non-growable Memory. The caller must not
// alias buf while the allocator is in use.
func NewSliceMemory(buf []byte) *SliceMemory {
	return &SliceMemory{buf: buf}
}

// Bytes returns the wrapped slice.
func (m *SliceMemory) Bytes() []byte { return m.buf }

// Size returns the length of the wrapped slice.
func (m *SliceMemory) Size() int { return len(m.buf) }

// Grow succeeds only if the region is already at least min bytes.
func (m *SliceMemory) Grow(min int) (int, error) {
	if min <= len(m.buf) {
		return len(m.buf), nil
	}
	return 0, fmt.Errorf("fixed region of %d bytes cannot grow to %d: %w", len(m.buf), min, ErrOutOfMemory)
}

// HeapMemory is a growable Memory on the Go heap. The maximum capacity is
// reserved up front so growth is a reslice and the region never moves.
type HeapMemory struct {
	buf []byte // len = current size, cap = reserved maximum
}

// NewHeapMemory reserves max bytes and exposes the first initial of them.
// If initial < 0 it is treated as 0; if max < initial, max is raised to
// initial (a non-growable region).
func NewHeapMemory(initial, max int) *HeapMemory {
	if initial < 0 {
		initial = 0
	}
	if max < initial {
		max = initial
	}
	return &HeapMemory{buf: make([]byte, initial, max)}
}

// Bytes returns the currently exposed region.
func (m *HeapMemory) Bytes() []byte { return m.buf }

// Size returns the currently exposed size.
func (m *HeapMemory) Size() int { return len(m.buf) }

// Grow reslices within the reserved capacity. Requests beyond the reserved
// maximum fail with ErrOutOfMemory.
func (m *HeapMemory) Grow(min int) (int, error) {
	if min <= len(m.buf) {
		return len(m.buf), nil
	}
	if min > cap(m.buf) {
		return 0, fmt.Errorf("region at maximum capacity %d, cannot grow to %d: %w", cap(m.buf), min, ErrOutOfMemory)
	}
	m.buf = m.buf[:min]
	return len(m.buf), nil
}

// PageMemory decorates another Memory so that every growth request is
// rounded up to a whole number of pages, the way a linear-memory host grows
// its region page by page.
type PageMemory struct {
	mem      Memory
	pageSize int
}

// NewPageMemory wraps mem with page-granular growth. If pageSize <= 0,
// DefaultPageSize is used. pageSize must be a power of two.
func NewPageMemory(mem Memory, pageSize int) *PageMemory {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if !isPowerOfTwo(pageSize) {
		panic("alloc: page size must be a power of two")
	}
	return &PageMemory{mem: mem, pageSize: pageSize}
}

// Bytes returns the underlying region.
func (m *PageMemory) Bytes() []byte { return m.mem.Bytes() }

// Size returns the underlying region's size.
func (m *PageMemory) Size() int { return m.mem.Size() }

// PageSize returns the growth granularity in bytes.
func (m *PageMemory) PageSize() int { return m.pageSize }

// Grow rounds min up to the next page boundary and grows the underlying
// region to that size.
func (m *PageMemory) Grow(min int) (int, error) {
	if min <= m.mem.Size() {
		return m.mem.Size(), nil
	}
	rounded := alignUp(min, m.pageSize)
	if rounded < min {
		return 0, fmt.Errorf("rounding %d up to page granularity %d overflows: %w", min, m.pageSize, ErrOutOfMemory)
	}
	return m.mem.Grow(rounded)
}
