package alloc

// Bump is a monotonic allocator: every allocation advances the arena cursor
// and nothing is ever handed back. Deallocate is a no-op; the only
// reclamation is Reset, which invalidates every outstanding block at once.
// Suited to append-only or frame-scoped workloads.
//
// Not goroutine-safe; wrap in SafeBump for concurrent use.
type Bump struct {
	arena *Arena
}

// NewBump creates a bump allocator over a. The arena must not be shared with
// another allocator instance.
func NewBump(a *Arena) *Bump {
	return &Bump{arena: a}
}

var _ ArenaAllocator = (*Bump)(nil)

// Allocate returns the next cursor position rounded up to align, growing the
// backing memory if the block would run past the limit. Fails with
// ErrInvalidAlignment or ErrOutOfMemory; a failed call leaves the cursor
// unchanged.
func (b *Bump) Allocate(size, align int) (int, error) {
	if size < 0 {
		panic("alloc: negative allocation size")
	}
	if !isPowerOfTwo(align) {
		return 0, ErrInvalidAlignment
	}
	return b.arena.take(size, align)
}

// Deallocate is a silent no-op: individual blocks can never be returned to a
// bump allocator, and the contract never promised reclamation. Calling it any
// number of times changes nothing.
func (b *Bump) Deallocate(off, size, align int) {}

// Reset rewinds the cursor to the arena base, invalidating every block issued
// so far. The caller must guarantee no pre-reset block is used afterwards;
// the allocator cannot detect use-after-reset.
func (b *Bump) Reset() {
	b.arena.reset()
}

// Arena returns the arena this allocator carves from.
func (b *Bump) Arena() *Arena { return b.arena }
