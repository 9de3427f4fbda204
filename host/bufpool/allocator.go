package bufpool

import "github.com/joshuapare/hostkit/internal/mmfile"

// Allocator is the general-purpose allocator underneath a Pool.
type Allocator interface {
	// Alloc returns a zeroed slice of exactly n bytes.
	Alloc(n int) ([]byte, error)

	// Free is told that b will no longer be used by the pool.
	Free(b []byte)
}

// HeapAllocator allocates from the Go heap. Free is a no-op; the garbage
// collector reclaims dropped buffers.
type HeapAllocator struct{}

// Alloc implements Allocator.
func (HeapAllocator) Alloc(n int) ([]byte, error) { return make([]byte, n), nil }

// Free implements Allocator.
func (HeapAllocator) Free([]byte) {}

// CountingAllocator wraps another Allocator and counts calls into it.
type CountingAllocator struct {
	Next Allocator // HeapAllocator when nil

	Allocs     int
	Frees      int
	BytesAlloc int64
	BytesFreed int64
}

// Alloc implements Allocator.
func (c *CountingAllocator) Alloc(n int) ([]byte, error) {
	next := c.Next
	if next == nil {
		next = HeapAllocator{}
	}
	b, err := next.Alloc(n)
	if err != nil {
		return nil, err
	}
	c.Allocs++
	c.BytesAlloc += int64(n)
	return b, nil
}

// Free implements Allocator.
func (c *CountingAllocator) Free(b []byte) {
	c.Frees++
	c.BytesFreed += int64(cap(b))
	if c.Next != nil {
		c.Next.Free(b)
	}
}

// MmapAllocator backs buffers with anonymous memory mappings, keeping large
// buffers off the Go heap. Reclaim unmaps dropped buffers, so a slice
// obtained from Bytes must not be touched after its buffer is released.
// On platforms without mmap it behaves like HeapAllocator.
type MmapAllocator struct{}

// Alloc implements Allocator.
func (MmapAllocator) Alloc(n int) ([]byte, error) { return mmfile.Map(n) }

// Free implements Allocator.
func (MmapAllocator) Free(b []byte) {
	// Unmap only fails for slices that did not come from Alloc.
	_ = mmfile.Unmap(b)
}
