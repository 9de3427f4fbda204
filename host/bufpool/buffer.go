package bufpool

// Buffer is a pooled byte buffer. Its capacity is the size of its class;
// its length is the length last requested through Acquire or Grow.
type Buffer struct {
	data       []byte
	class      int
	pool       *Pool
	released   bool
	gen        uint64 // acquire stamp, unique per hand-out within the pool
	releasedAt uint64 // sweep count at release, for idle eviction
}

// Bytes returns the live contents. The slice is invalid after Release or
// after a Grow that returned a different buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the requested length.
func (b *Buffer) Len() int { return len(b.data) }

// Cap returns the class capacity.
func (b *Buffer) Cap() int { return cap(b.data) }

// Oversize reports whether b is larger than the pool's largest class.
func (b *Buffer) Oversize() bool { return b.class == oversize }

// Released reports whether b has been returned to its pool.
func (b *Buffer) Released() bool { return b.released }

// Generation identifies the current hand-out of b. A buffer that was
// released and acquired again reports a different value, so a holder of a
// stale *Buffer can tell it no longer owns it.
func (b *Buffer) Generation() uint64 { return b.gen }
