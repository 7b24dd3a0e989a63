package alloc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeBumpConcurrent(t *testing.T) {
	a, err := NewArena(NewHeapMemory(0, 1<<20), 0)
	require.NoError(t, err)
	s := NewSafeBump(a)

	const goroutines = 8
	const perG = 200

	var mu sync.Mutex
	offs := make(map[int]bool)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				off, err := s.Allocate(16, 8)
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				if offs[off] {
					t.Errorf("offset %d handed out twice", off)
				}
				offs[off] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, offs, goroutines*perG)
	assert.Equal(t, goroutines*perG*16, s.Metrics().BytesUsed)
}

func TestSafeBumpResetAndNoopFree(t *testing.T) {
	a, err := NewArena(NewSliceMemory(make([]byte, 256)), 0)
	require.NoError(t, err)
	s := NewSafeBump(a)

	off, err := s.Allocate(64, 8)
	require.NoError(t, err)
	s.Deallocate(off, 64, 8)
	assert.Equal(t, 64, s.Metrics().BytesUsed)

	s.Reset()
	assert.Zero(t, s.Metrics().BytesUsed)
}

func TestSafeBucketConcurrent(t *testing.T) {
	a, err := NewArena(NewHeapMemory(0, 1<<20), 0)
	require.NoError(t, err)
	s, err := NewSafeBucket(a, testClasses(), 0)
	require.NoError(t, err)

	const goroutines = 8
	const perG = 100

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				off, err := s.Allocate(10, 8)
				if err != nil {
					t.Error(err)
					return
				}
				s.Deallocate(off, 10, 8)
			}
		}()
	}
	wg.Wait()

	m := s.Metrics()
	assert.Equal(t, m.Classes[0].CarvedSlots, m.Classes[0].FreeSlots,
		"every allocated slot was freed")
	assert.Zero(t, m.Classes[0].LiveSlots)
}

func TestSafeBucketValidation(t *testing.T) {
	a, err := NewArena(NewSliceMemory(make([]byte, 64)), 0)
	require.NoError(t, err)

	_, err = NewSafeBucket(a, nil, 0)
	assert.Error(t, err)
}
