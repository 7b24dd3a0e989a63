package alloc_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/alloc"
)

// TestEdgeCases exercises the allocators through the public surface only.
func TestEdgeCases(t *testing.T) {
	t.Run("ZeroSizeAllocations", func(t *testing.T) {
		a, err := alloc.NewArena(alloc.NewSliceMemory(make([]byte, 64)), 0)
		require.NoError(t, err)
		bump := alloc.NewBump(a)

		off, err := bump.Allocate(0, 8)
		require.NoError(t, err)
		assert.Zero(t, off)
		assert.Zero(t, a.Cursor())

		// After a skew the zero-size request still reports an aligned
		// offset; only alignment padding is consumed.
		_, err = bump.Allocate(1, 1)
		require.NoError(t, err)
		off, err = bump.Allocate(0, 8)
		require.NoError(t, err)
		assert.Equal(t, 8, off)
	})

	t.Run("AlignmentAtBase", func(t *testing.T) {
		// The base offset trivially satisfies any power-of-two
		// alignment, however large.
		a, err := alloc.NewArena(alloc.NewSliceMemory(make([]byte, 16)), 0)
		require.NoError(t, err)
		bump := alloc.NewBump(a)

		off, err := bump.Allocate(16, 1<<20)
		require.NoError(t, err)
		assert.Zero(t, off)
	})

	t.Run("AlignmentPastCapacity", func(t *testing.T) {
		a, err := alloc.NewArena(alloc.NewSliceMemory(make([]byte, 64)), 0)
		require.NoError(t, err)
		bump := alloc.NewBump(a)

		_, err = bump.Allocate(1, 1)
		require.NoError(t, err)
		_, err = bump.Allocate(1, 4096)
		assert.ErrorIs(t, err, alloc.ErrOutOfMemory)
	})

	t.Run("BlockHandle", func(t *testing.T) {
		a, err := alloc.NewArena(alloc.NewSliceMemory(make([]byte, 64)), 0)
		require.NoError(t, err)
		bump := alloc.NewBump(a)

		off, err := bump.Allocate(24, 8)
		require.NoError(t, err)
		blk := alloc.Block{Off: off, Size: 24, Align: 8}
		assert.Equal(t, 24, blk.End())
		assert.Len(t, blk.Bytes(a), 24)
	})

	t.Run("BucketChurnConsistency", func(t *testing.T) {
		a, err := alloc.NewArena(alloc.NewHeapMemory(0, 1<<20), 0)
		require.NoError(t, err)
		bucket, err := alloc.NewBucket(a, []alloc.SizeClass{
			{SlotSize: 16, Align: 8},
			{SlotSize: 64, Align: 8},
			{SlotSize: 256, Align: 16},
		}, 0)
		require.NoError(t, err)

		rng := rand.New(rand.NewSource(7))
		type live struct{ off, size, align int }
		var blocks []live

		for i := 0; i < 2000; i++ {
			if len(blocks) > 0 && rng.Intn(2) == 0 {
				j := rng.Intn(len(blocks))
				blk := blocks[j]
				bucket.Deallocate(blk.off, blk.size, blk.align)
				blocks = append(blocks[:j], blocks[j+1:]...)
				continue
			}
			size := 1 + rng.Intn(256)
			off, err := bucket.Allocate(size, 8)
			require.NoError(t, err)
			blocks = append(blocks, live{off, size, 8})
		}

		liveCount := 0
		for _, c := range bucket.Metrics().Classes {
			liveCount += c.LiveSlots
		}
		assert.Equal(t, len(blocks), liveCount)

		for _, blk := range blocks {
			bucket.Deallocate(blk.off, blk.size, blk.align)
		}
		for _, c := range bucket.Metrics().Classes {
			assert.Equal(t, c.CarvedSlots, c.FreeSlots)
			assert.Zero(t, c.LiveSlots)
		}
	})

	t.Run("PageGranularGrowth", func(t *testing.T) {
		mem := alloc.NewPageMemory(alloc.NewHeapMemory(0, 1<<22), 0)
		a, err := alloc.NewArena(mem, 0)
		require.NoError(t, err)
		bump := alloc.NewBump(a)

		for i := 0; i < 100; i++ {
			_, err := bump.Allocate(1000, 8)
			require.NoError(t, err)
			assert.Zero(t, a.Limit()%alloc.DefaultPageSize,
				"limit must stay a whole number of pages")
		}
	})

	t.Run("InterfaceAgnosticCallers", func(t *testing.T) {
		// The same driver runs against either variant.
		drive := func(al alloc.Allocator) error {
			for i := 0; i < 32; i++ {
				off, err := al.Allocate(24, 8)
				if err != nil {
					return err
				}
				al.Deallocate(off, 24, 8)
			}
			return nil
		}

		a1, err := alloc.NewArena(alloc.NewHeapMemory(0, 1<<16), 0)
		require.NoError(t, err)
		require.NoError(t, drive(alloc.NewBump(a1)))

		a2, err := alloc.NewArena(alloc.NewHeapMemory(0, 1<<16), 0)
		require.NoError(t, err)
		bucket, err := alloc.NewBucket(a2, []alloc.SizeClass{{SlotSize: 24, Align: 8}}, 0)
		require.NoError(t, err)
		require.NoError(t, drive(bucket))

		// The bucket served everything from one recycled slot.
		assert.Equal(t, 1, bucket.Metrics().Classes[0].CarvedSlots)
	})
}
