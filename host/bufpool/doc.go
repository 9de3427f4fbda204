// Package bufpool provides a size-classed buffer recycler for hot-path allocations.
//
// # Overview
//
// A long-running sampling agent allocates many small buffers of a handful
// of recurring sizes every cycle. Pool keeps released buffers on per-class
// free lists and hands them out again, so the steady state performs no
// allocator calls at all.
//
// # Size Classes
//
// Requested lengths are rounded up to a power of two between Config.MinSize
// and Config.MaxSize:
//
//	Quantize(1)    = 16
//	Quantize(100)  = 128
//	Quantize(4096) = 4096
//	Quantize(4097) = 8192
//
// Requests larger than MaxSize are oversize. They are allocated at their
// exact length and never reused.
//
// # Buffer Lifecycle
//
//	b, err := p.Acquire(100) // len 100, cap 128, zeroed
//	b, err = p.Grow(b, 120)  // same buffer, bytes 100..119 zeroed
//	b, err = p.Grow(b, 300)  // new 512-byte class buffer, prefix copied
//	err = p.Release(b)       // back on the 512 free list
//
// Release never calls the allocator. Reclaim is the only operation that
// returns memory: it drops buffers that sat on a free list for
// Config.MaxIdleSweeps reclaim calls, and trims each list to
// Config.MaxFreePerClass entries, oldest first. Free lists are FIFO queues,
// so the oldest released buffer is always at the front.
//
// # Allocators
//
// HeapAllocator is the default. MmapAllocator backs buffers with anonymous
// memory mappings; CountingAllocator wraps another allocator and counts
// the calls made into it.
//
// An Allocator error is fatal: the pool raises it through guard.Abort.
//
// # Thread Safety
//
// Pool instances are not thread-safe. Acquire, Grow, Release and Reclaim
// on one pool must be serialized by the caller.
package bufpool
