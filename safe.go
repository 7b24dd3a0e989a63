package alloc

import "sync"

// The core allocators assume a single logical owner. These wrappers are the
// external-mutual-exclusion recipe for callers that must share one: a mutex
// around every operation, nothing cleverer.

// SafeBump is a mutex-protected wrapper around Bump for concurrent use.
type SafeBump struct {
	mu sync.Mutex
	b  *Bump
}

// NewSafeBump creates a thread-safe bump allocator over a.
func NewSafeBump(a *Arena) *SafeBump {
	return &SafeBump{b: NewBump(a)}
}

var _ ArenaAllocator = (*SafeBump)(nil)

// Allocate thread-safely allocates a block of size bytes aligned to align.
func (s *SafeBump) Allocate(size, align int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Allocate(size, align)
}

// Deallocate is a no-op, as for Bump.
func (s *SafeBump) Deallocate(off, size, align int) {}

// Reset thread-safely rewinds the cursor to the arena base.
func (s *SafeBump) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.Reset()
}

// Arena returns the underlying arena. Reads through it are not synchronized
// with concurrent allocations.
func (s *SafeBump) Arena() *Arena { return s.b.Arena() }

// SafeBucket is a mutex-protected wrapper around Bucket for concurrent use.
type SafeBucket struct {
	mu sync.Mutex
	b  *Bucket
}

// NewSafeBucket creates a thread-safe bucket allocator over a. See NewBucket
// for the class table contract.
func NewSafeBucket(a *Arena, classes []SizeClass, slotsPerRun int) (*SafeBucket, error) {
	b, err := NewBucket(a, classes, slotsPerRun)
	if err != nil {
		return nil, err
	}
	return &SafeBucket{b: b}, nil
}

var _ ArenaAllocator = (*SafeBucket)(nil)

// Allocate thread-safely allocates a slot for size bytes aligned to align.
func (s *SafeBucket) Allocate(size, align int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Allocate(size, align)
}

// Deallocate thread-safely returns a slot to its class's free list.
func (s *SafeBucket) Deallocate(off, size, align int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.Deallocate(off, size, align)
}

// Arena returns the underlying arena. Reads through it are not synchronized
// with concurrent allocations.
func (s *SafeBucket) Arena() *Arena { return s.b.Arena() }
