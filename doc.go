// Package alloc implements bump and bucket allocators over a single
// contiguous memory region, for code that carves linear memory by hand
// instead of relying on a host allocator.
//
// # Overview
//
// An Arena owns one contiguous region (a Memory) and tracks a base offset, a
// high-water cursor and a growable limit. Two allocator families carve from
// it, both satisfying the same Allocator contract of "allocate size bytes at
// alignment align" / "deallocate":
//
//   - Bump hands out monotonically increasing offsets. Allocation is a
//     pointer bump; individual blocks are never reclaimed and Deallocate is
//     a no-op. Reset rewinds the whole arena at once.
//   - Bucket groups allocations into fixed size classes, each with a LIFO
//     free list overlaid on the free slots' own memory. It supports true
//     per-block deallocation and O(1) reuse, accepting fragmentation up to
//     the class boundary.
//
// Addresses are plain int offsets into the arena's backing bytes, so all
// bookkeeping arithmetic is bounds-checked slice indexing; unsafe pointer
// materialization is confined to the typed helpers New, NewSlice and
// Release.
//
// # Basic Usage
//
//	mem := alloc.NewHeapMemory(64*1024, 1<<20) // 64 KiB now, grow to 1 MiB
//	arena, err := alloc.NewArena(mem, 0)
//	if err != nil {
//		// ...
//	}
//
//	bump := alloc.NewBump(arena)
//	off, err := bump.Allocate(128, 8) // 128 bytes, 8-byte aligned
//	buf := arena.Bytes(off, 128)
//	_ = buf
//	bump.Reset() // O(1) bulk reclamation
//
//	bucket, err := alloc.NewBucket(arena, []alloc.SizeClass{
//		{SlotSize: 16, Align: 8},
//		{SlotSize: 64, Align: 8},
//		{SlotSize: 256, Align: 16},
//	}, 0)
//	off, err = bucket.Allocate(40, 8)   // served by the 64-byte class
//	bucket.Deallocate(off, 40, 8)       // slot goes back on the free list
//
// # Backing Memory
//
// The Memory implementations differ in how they honor growth:
//
//   - SliceMemory: caller-supplied fixed buffer, never grows. Use it to make
//     exhaustion deterministic.
//   - HeapMemory: Go-heap buffer with the maximum reserved up front; growth
//     is a reslice, the region never moves.
//   - PageMemory: decorator that rounds growth up to page multiples
//     (default 64 KiB), the way a linear-memory host grows its region.
//   - MmapMemory (unix): reserves address space and commits pages on demand.
//
// # Thread Safety
//
// The core allocators assume a single logical owner and perform no locking.
// SafeBump and SafeBucket wrap them in a mutex for shared use.
//
// # Caller Obligations
//
// Some misuse is documented rather than detected, because detecting it would
// cost the bookkeeping this package exists to avoid:
//
//   - Using a block after Bump.Reset.
//   - Releasing a block to an allocator other than the one that produced it.
//   - Double-deallocating a bucket slot.
//   - Passing a different size/align to Deallocate than to Allocate.
package alloc
