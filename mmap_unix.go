//go:build unix

package alloc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapMemory is a growable Memory backed by an anonymous mapping. The full
// maximum capacity is reserved as inaccessible address space at creation and
// pages are committed on Grow, so the region grows contiguously in place
// without ever moving.
type MmapMemory struct {
	region []byte // full reservation, PROT_NONE past the committed prefix
	size   int    // committed prefix length
}

// NewMmapMemory reserves max bytes of address space and commits the first
// initial of them. The caller must Close the memory to release the mapping.
func NewMmapMemory(initial, max int) (*MmapMemory, error) {
	if max <= 0 {
		return nil, fmt.Errorf("alloc: mmap region needs a positive maximum capacity, got %d", max)
	}
	if initial < 0 {
		initial = 0
	}
	if initial > max {
		initial = max
	}
	region, err := unix.Mmap(-1, 0, max, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("alloc: reserving %d bytes: %w", max, err)
	}
	m := &MmapMemory{region: region}
	if _, err := m.Grow(initial); err != nil {
		_ = unix.Munmap(region)
		return nil, err
	}
	return m, nil
}

// Bytes returns the committed region.
func (m *MmapMemory) Bytes() []byte { return m.region[:m.size] }

// Size returns the committed size.
func (m *MmapMemory) Size() int { return m.size }

// Grow commits pages until at least min bytes are usable. Requests beyond
// the reserved maximum fail with ErrOutOfMemory; the mapping itself is never
// extended.
func (m *MmapMemory) Grow(min int) (int, error) {
	if min <= m.size {
		return m.size, nil
	}
	if min > len(m.region) {
		return 0, fmt.Errorf("mapping reserved %d bytes, cannot grow to %d: %w", len(m.region), min, ErrOutOfMemory)
	}
	// Mprotect length is rounded up to page granularity by the kernel;
	// the reservation always covers whole pages.
	if err := unix.Mprotect(m.region[:min], unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return 0, fmt.Errorf("alloc: committing %d bytes: %w", min, err)
	}
	m.size = min
	return m.size, nil
}

// Close releases the mapping. Every offset and pointer into the region is
// invalid afterwards.
func (m *MmapMemory) Close() error {
	if m.region == nil {
		return nil
	}
	region := m.region
	m.region = nil
	m.size = 0
	return unix.Munmap(region)
}
