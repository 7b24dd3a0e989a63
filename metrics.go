package alloc

// ArenaMetrics is a snapshot of an arena's occupancy.
type ArenaMetrics struct {
	Base        int     // fixed start offset
	Cursor      int     // next free offset
	Limit       int     // current end of usable memory
	BytesUsed   int     // Cursor - Base, including alignment padding
	Utilization float64 // BytesUsed over usable capacity (0.0-1.0)
}

// Metrics returns a snapshot of the arena's occupancy.
func (a *Arena) Metrics() ArenaMetrics {
	used := a.cursor - a.base
	capacity := a.Limit() - a.base
	util := 0.0
	if capacity > 0 {
		util = float64(used) / float64(capacity)
	}
	return ArenaMetrics{
		Base:        a.base,
		Cursor:      a.cursor,
		Limit:       a.Limit(),
		BytesUsed:   used,
		Utilization: util,
	}
}

// Metrics returns a snapshot of the underlying arena's occupancy.
func (b *Bump) Metrics() ArenaMetrics {
	return b.arena.Metrics()
}

// ClassMetrics is a snapshot of one size class within a bucket allocator.
type ClassMetrics struct {
	SlotSize    int
	Align       int
	CarvedSlots int // slots ever carved from the arena
	FreeSlots   int // slots currently on the free list
	LiveSlots   int // CarvedSlots - FreeSlots
}

// BucketMetrics is a snapshot of a bucket allocator and its arena.
type BucketMetrics struct {
	Arena   ArenaMetrics
	Classes []ClassMetrics
}

// Metrics returns a snapshot of per-class occupancy. The returned slice is
// freshly allocated on the Go heap, never inside the arena.
func (b *Bucket) Metrics() BucketMetrics {
	m := BucketMetrics{
		Arena:   b.arena.Metrics(),
		Classes: make([]ClassMetrics, len(b.classes)),
	}
	for i := range b.classes {
		c := &b.classes[i]
		m.Classes[i] = ClassMetrics{
			SlotSize:    c.slotSize,
			Align:       c.align,
			CarvedSlots: c.carved,
			FreeSlots:   c.free,
			LiveSlots:   c.carved - c.free,
		}
	}
	return m
}

// Metrics thread-safely snapshots the underlying bump allocator.
func (s *SafeBump) Metrics() ArenaMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Metrics()
}

// Metrics thread-safely snapshots the underlying bucket allocator.
func (s *SafeBucket) Metrics() BucketMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Metrics()
}
