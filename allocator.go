package alloc

// Allocator is the capability contract every allocator variant implements.
// Addresses are offsets into the arena backing the allocator; callers stay
// agnostic to which variant serves a given region.
//
// Deallocate must receive the same size and align that were passed to the
// Allocate that produced the offset, and a block must only ever be released
// to the allocator instance that produced it. Neither is runtime-checked;
// both are caller obligations.
type Allocator interface {
	// Allocate returns the offset of a block of at least size bytes whose
	// offset is a multiple of align. align must be a power of two.
	Allocate(size, align int) (int, error)

	// Deallocate returns a block to the allocator. Whether the memory is
	// actually reclaimed depends on the variant.
	Deallocate(off, size, align int)
}

// ArenaAllocator is an Allocator that exposes the Arena it carves from,
// letting callers materialize views over allocated blocks.
type ArenaAllocator interface {
	Allocator

	// Arena returns the arena this allocator hands out offsets into.
	Arena() *Arena
}

// Block records one allocation: the triple a caller needs to hand back at
// Deallocate time. Purely a convenience; the allocators themselves keep no
// per-block state on the caller's behalf.
type Block struct {
	Off   int
	Size  int
	Align int
}

// End returns the offset one past the last byte of the block.
func (b Block) End() int { return b.Off + b.Size }

// Bytes returns the block's memory window within a.
func (b Block) Bytes(a *Arena) []byte { return a.Bytes(b.Off, b.Size) }
