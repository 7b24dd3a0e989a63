package alloc

import (
	"fmt"
	"math"
)

// Arena is a contiguous region of memory managed as a unit: a fixed base
// offset, a high-water cursor, and a limit that may grow through the backing
// Memory. Addresses handed out by allocators are plain offsets into the
// arena's backing bytes. Invariant: base <= cursor <= limit; every operation
// that would break it fails instead, leaving the arena untouched.
type Arena struct {
	mem    Memory
	base   int
	cursor int
}

// NewArena creates an Arena over mem, managing offsets in [base, mem.Size()).
// A non-zero base leaves the prefix of the region untouched, the way a heap
// starts past statically reserved data.
func NewArena(mem Memory, base int) (*Arena, error) {
	if base < 0 || base > mem.Size() {
		return nil, fmt.Errorf("alloc: arena base %d outside region of %d bytes", base, mem.Size())
	}
	return &Arena{mem: mem, base: base, cursor: base}, nil
}

// Base returns the fixed start offset of the arena.
func (a *Arena) Base() int { return a.base }

// Cursor returns the next free offset.
func (a *Arena) Cursor() int { return a.cursor }

// Limit returns the current end of usable memory.
func (a *Arena) Limit() int { return a.mem.Size() }

// Reserve grows the backing memory by at least additional bytes and returns
// the new limit. On failure the arena and its backing memory are unchanged.
func (a *Arena) Reserve(additional int) (int, error) {
	if additional <= 0 {
		return a.Limit(), nil
	}
	if additional > math.MaxInt-a.mem.Size() {
		return 0, fmt.Errorf("growing %d bytes by %d overflows the offset space: %w", a.mem.Size(), additional, ErrOutOfMemory)
	}
	return a.mem.Grow(a.mem.Size() + additional)
}

// Bytes returns the n-byte window of backing memory starting at off. The
// window stays valid across growth (the region never moves) but not past
// release of the backing memory.
func (a *Arena) Bytes(off, n int) []byte {
	return a.mem.Bytes()[off : off+n]
}

// take is the single bump primitive both allocator families are built on:
// align the cursor up, grow the backing memory if the request runs past the
// limit, advance. A failed take leaves the cursor where it was. Requests
// whose end offset does not fit in an int fail like any other exhaustion;
// the cursor must never wrap negative.
func (a *Arena) take(size, align int) (int, error) {
	off := alignUp(a.cursor, align)
	if off < a.cursor || size > math.MaxInt-off {
		return 0, fmt.Errorf("request of %d bytes aligned to %d overflows the offset space: %w", size, align, ErrOutOfMemory)
	}
	end := off + size
	if end > a.Limit() {
		if _, err := a.mem.Grow(end); err != nil {
			return 0, err
		}
	}
	a.cursor = end
	return off, nil
}

// reset rewinds the cursor to base. Backing memory keeps its current size.
func (a *Arena) reset() {
	a.cursor = a.base
}

// alignUp rounds off up to the nearest multiple of align.
// align must be a power of two.
func alignUp(off, align int) int {
	mask := align - 1
	return (off + mask) &^ mask
}

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
