package alloc

import (
	"encoding/binary"
	"fmt"
)

// DefaultSlotsPerRun is how many slots a size class carves from the arena at
// a time when its free list is empty.
const DefaultSlotsPerRun = 32

// freeLinkSize is the number of bytes of a free slot that hold the link to
// the next free slot of the same class. Slot sizes below this cannot host a
// free-list node, hence the minimum in NewBucket.
const freeLinkSize = 4

// freeLinkNil is the on-memory sentinel terminating a free list. Offsets are
// stored as uint32, which caps bucket-managed arenas at 4 GiB.
const freeLinkNil = ^uint32(0)

// freeNone marks an empty free list in class state.
const freeNone = -1

// SizeClass configures one slot size within a bucket allocator. Every
// allocation mapped to the class occupies exactly SlotSize bytes regardless
// of the requested size; the waste up to the class boundary is the price of
// O(1) reuse.
type SizeClass struct {
	// SlotSize is the fixed size of every slot in the class, in bytes.
	// Must be at least 4 and a multiple of Align.
	SlotSize int

	// Align is the alignment of every slot in the class. Must be a power
	// of two; 0 means byte-aligned.
	Align int
}

// sizeClass is the live state behind one configured SizeClass: the head of
// its free list and the span of carved-but-never-allocated slots.
type sizeClass struct {
	slotSize int
	align    int
	freeHead int // offset of the most recently freed slot, freeNone if none
	run      int // next fresh slot within the current run
	runEnd   int
	carved   int // slots ever carved from the arena
	free     int // slots currently on the free list
}

// Bucket is a fixed-size-class allocator: requests are mapped to the smallest
// configured class that fits, each class reuses freed slots through a LIFO
// free list, and fresh slots are carved from the shared arena in runs. Unlike
// Bump it supports true per-block deallocation, at the cost of internal
// fragmentation up to the class boundary. A slot freed in one class is never
// used to serve another class, even when the sizes would be compatible.
//
// While a slot sits on a free list, its first four bytes hold the offset of
// the next free slot of the same class. The bytes are plain user memory the
// moment the slot is allocated; callers never see the link.
//
// Not goroutine-safe; wrap in SafeBucket for concurrent use.
type Bucket struct {
	arena       *Arena
	classes     []sizeClass
	slotsPerRun int
}

// NewBucket creates a bucket allocator over a, serving the given size
// classes. Classes must be strictly ascending in SlotSize; each SlotSize must
// be at least 4 bytes (a free slot has to hold its free-list link) and a
// multiple of its Align. slotsPerRun tunes how many slots a class carves at
// once; <= 0 selects DefaultSlotsPerRun. The arena must not be shared with
// another allocator instance.
func NewBucket(a *Arena, classes []SizeClass, slotsPerRun int) (*Bucket, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("alloc: bucket allocator needs at least one size class")
	}
	if slotsPerRun <= 0 {
		slotsPerRun = DefaultSlotsPerRun
	}
	b := &Bucket{
		arena:       a,
		classes:     make([]sizeClass, 0, len(classes)),
		slotsPerRun: slotsPerRun,
	}
	prev := 0
	for i, sc := range classes {
		align := sc.Align
		if align == 0 {
			align = 1
		}
		switch {
		case !isPowerOfTwo(align):
			return nil, fmt.Errorf("alloc: class %d: alignment %d is not a power of two", i, sc.Align)
		case sc.SlotSize < freeLinkSize:
			return nil, fmt.Errorf("alloc: class %d: slot size %d below minimum %d", i, sc.SlotSize, freeLinkSize)
		case sc.SlotSize%align != 0:
			return nil, fmt.Errorf("alloc: class %d: slot size %d not a multiple of alignment %d", i, sc.SlotSize, align)
		case sc.SlotSize <= prev:
			return nil, fmt.Errorf("alloc: class %d: slot size %d not ascending", i, sc.SlotSize)
		}
		prev = sc.SlotSize
		b.classes = append(b.classes, sizeClass{
			slotSize: sc.SlotSize,
			align:    align,
			freeHead: freeNone,
		})
	}
	return b, nil
}

var _ ArenaAllocator = (*Bucket)(nil)

// Allocate returns a slot from the smallest class whose slot size fits size
// and whose alignment satisfies align. Freed slots are reused in LIFO order
// before any fresh slot is carved. Fails with ErrUnsupportedSize when size
// exceeds every class, ErrInvalidAlignment when a class fits the size but
// none satisfies the alignment, and ErrOutOfMemory when carving fails; a
// failed call leaves every cursor and free list unchanged.
func (b *Bucket) Allocate(size, align int) (int, error) {
	if size < 0 {
		panic("alloc: negative allocation size")
	}
	if !isPowerOfTwo(align) {
		return 0, ErrInvalidAlignment
	}
	i, err := b.classFor(size, align)
	if err != nil {
		return 0, err
	}
	c := &b.classes[i]

	if c.freeHead != freeNone {
		off := c.freeHead
		c.freeHead = b.readLink(off)
		c.free--
		return off, nil
	}

	if c.run == c.runEnd {
		if err := b.carve(c); err != nil {
			return 0, err
		}
	}
	off := c.run
	c.run += c.slotSize
	c.carved++
	return off, nil
}

// Deallocate pushes the slot at off onto its class's free list, making it
// the next slot that class hands out. The class is recovered from (size,
// align), which must match the Allocate call that produced off. Blocks from
// another allocator instance and double frees are caller contract violations
// the allocator does not detect.
func (b *Bucket) Deallocate(off, size, align int) {
	i, err := b.classFor(size, align)
	if err != nil {
		return
	}
	c := &b.classes[i]
	b.writeLink(off, c.freeHead)
	c.freeHead = off
	c.free++
}

// Arena returns the arena this allocator carves from.
func (b *Bucket) Arena() *Arena { return b.arena }

// classFor maps a request to the index of the smallest class that can serve
// it. Classes are ascending, so the first fit is the best fit.
func (b *Bucket) classFor(size, align int) (int, error) {
	sized := false
	for i := range b.classes {
		c := &b.classes[i]
		if c.slotSize < size {
			continue
		}
		sized = true
		if c.align >= align {
			return i, nil
		}
	}
	if sized {
		return 0, ErrInvalidAlignment
	}
	return 0, ErrUnsupportedSize
}

// carve bumps a fresh run of slots for c out of the shared arena. When a full
// run does not fit it retries with a single slot, so a request that could
// still be served never fails on run granularity alone.
func (b *Bucket) carve(c *sizeClass) error {
	n := b.slotsPerRun
	start, err := b.arena.take(c.slotSize*n, c.align)
	if err != nil {
		n = 1
		start, err = b.arena.take(c.slotSize, c.align)
		if err != nil {
			return err
		}
	}
	c.run = start
	c.runEnd = start + c.slotSize*n
	return nil
}

// readLink decodes the next-free-slot offset overlaid on the slot at off.
func (b *Bucket) readLink(off int) int {
	v := binary.LittleEndian.Uint32(b.arena.Bytes(off, freeLinkSize))
	if v == freeLinkNil {
		return freeNone
	}
	return int(v)
}

// writeLink overlays the slot at off with the offset of the next free slot.
func (b *Bucket) writeLink(off, next int) {
	v := freeLinkNil
	if next != freeNone {
		v = uint32(next)
	}
	binary.LittleEndian.PutUint32(b.arena.Bytes(off, freeLinkSize), v)
}
