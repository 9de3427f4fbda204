package bufpool

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/eapache/queue"

	"github.com/joshuapare/hostkit/host/guard"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultMinSize         = 16
	DefaultMaxSize         = 16 << 20
	DefaultMaxFreePerClass = 256
	DefaultMaxIdleSweeps   = 4
)

// Config configures a Pool. Zero fields take the defaults above.
type Config struct {
	MinSize int // Smallest class capacity, rounded up to a power of two
	MaxSize int // Largest class capacity; longer requests are oversize

	// MaxFreePerClass caps each free list after a Reclaim. Negative means unlimited.
	MaxFreePerClass int

	// MaxIdleSweeps is the number of Reclaim calls after which a buffer left
	// on a free list is dropped. Negative disables idle eviction.
	MaxIdleSweeps int

	Allocator Allocator    // HeapAllocator when nil
	Logger    *slog.Logger // Discards when nil
}

func (c Config) withDefaults() Config {
	if c.MinSize <= 0 {
		c.MinSize = DefaultMinSize
	}
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.MaxFreePerClass == 0 {
		c.MaxFreePerClass = DefaultMaxFreePerClass
	}
	if c.MaxIdleSweeps == 0 {
		c.MaxIdleSweeps = DefaultMaxIdleSweeps
	}
	if c.Allocator == nil {
		c.Allocator = HeapAllocator{}
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Stats holds pool counters.
type Stats struct {
	AllocCalls   int64 // Allocator.Alloc calls
	FreeCalls    int64 // Allocator.Free calls
	Acquires     int64 // Acquire calls, including those made by Grow
	Reuses       int64 // Acquires served from a free list
	Releases     int64 // Release calls, including those made by Grow
	Grows        int64 // Grow calls
	GrowsInPlace int64 // Grow calls that kept the same buffer
	Sweeps       uint64
	InUse        int   // Buffers acquired and not yet released
	Cached       int   // Buffers waiting on free lists
	CachedBytes  int64 // Capacity of the cached buffers
	Classes      int
}

// ReclaimStats reports what one Reclaim returned to the allocator.
type ReclaimStats struct {
	Buffers int
	Bytes   int64
}

// Pool is a size-classed buffer recycler.
type Pool struct {
	cfg      Config
	classes  *sizeClassTable
	free     []*queue.Queue // per class, FIFO of *Buffer
	oversize *queue.Queue   // released oversize buffers awaiting Reclaim
	sweeps   uint64
	acquired uint64 // hand-outs so far; stamps Buffer.gen
	stats    Stats
	log      *slog.Logger
}

// New creates an empty Pool.
func New(cfg Config) *Pool {
	cfg = cfg.withDefaults()
	classes := newSizeClassTable(cfg.MinSize, cfg.MaxSize)
	p := &Pool{
		cfg:      cfg,
		classes:  classes,
		free:     make([]*queue.Queue, classes.NumClasses()),
		oversize: queue.New(),
		log:      cfg.Logger,
	}
	for i := range p.free {
		p.free[i] = queue.New()
	}
	p.stats.Classes = classes.NumClasses()
	return p
}

// Quantize returns the capacity a buffer of length n is allocated with.
func (p *Pool) Quantize(n int) int {
	c := p.classes.classFor(n)
	if c == oversize {
		return n
	}
	return p.classes.size(c)
}

// MaxSize returns the capacity of the largest pooled class.
func (p *Pool) MaxSize() int { return p.classes.maxSize() }

// Acquire returns a zeroed buffer of length n.
func (p *Pool) Acquire(n int) (*Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadLength, n)
	}
	p.stats.Acquires++
	p.stats.InUse++
	p.acquired++

	c := p.classes.classFor(n)
	if c == oversize {
		return &Buffer{data: p.alloc(n), class: oversize, pool: p, gen: p.acquired}, nil
	}

	if q := p.free[c]; q.Length() > 0 {
		b := q.Remove().(*Buffer)
		p.stats.Reuses++
		p.stats.Cached--
		p.stats.CachedBytes -= int64(cap(b.data))
		b.released = false
		b.gen = p.acquired
		b.data = b.data[:n]
		clear(b.data)
		return b, nil
	}

	data := p.alloc(p.classes.size(c))
	return &Buffer{data: data[:n], class: c, pool: p, gen: p.acquired}, nil
}

// alloc obtains n bytes from the allocator. Failure is fatal.
func (p *Pool) alloc(n int) []byte {
	b, err := p.cfg.Allocator.Alloc(n)
	if err == nil && len(b) < n {
		err = fmt.Errorf("short allocation: got %d bytes", len(b))
	}
	if err != nil {
		guard.Abort(fmt.Errorf("bufpool: allocating %d bytes: %w", n, err))
	}
	p.stats.AllocCalls++
	return b[:n:n]
}

// Owns reports whether b was acquired from p.
func (p *Pool) Owns(b *Buffer) bool { return b != nil && b.pool == p }

// check validates that b is a live buffer of this pool.
func (p *Pool) check(b *Buffer) error {
	switch {
	case b == nil:
		return ErrNilBuffer
	case b.pool != p:
		return ErrForeignBuffer
	case b.released:
		return ErrReleased
	}
	return nil
}

// Grow resizes b to length n. When n fits the capacity of b's class the
// same buffer is returned with any newly exposed bytes zeroed. Otherwise a
// buffer of the larger class is acquired, the current contents are copied
// into it and b is released; callers must use the returned buffer.
func (p *Pool) Grow(b *Buffer, n int) (*Buffer, error) {
	if err := p.check(b); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadLength, n)
	}
	p.stats.Grows++

	if n <= cap(b.data) {
		old := len(b.data)
		b.data = b.data[:n]
		if n > old {
			clear(b.data[old:])
		}
		p.stats.GrowsInPlace++
		return b, nil
	}

	nb, err := p.Acquire(n)
	if err != nil {
		return nil, err
	}
	copy(nb.data, b.data)
	if err := p.Release(b); err != nil {
		return nil, err
	}
	return nb, nil
}

// Release returns b to its free list. The allocator is not invoked.
func (p *Pool) Release(b *Buffer) error {
	if err := p.check(b); err != nil {
		return err
	}
	b.released = true
	b.releasedAt = p.sweeps
	b.data = b.data[:0]
	p.stats.Releases++
	p.stats.InUse--

	if b.class == oversize {
		p.oversize.Add(b)
		return nil
	}
	p.free[b.class].Add(b)
	p.stats.Cached++
	p.stats.CachedBytes += int64(cap(b.data))
	return nil
}

// Reclaim hands idle and surplus free buffers back to the allocator.
func (p *Pool) Reclaim() ReclaimStats {
	p.sweeps++
	var rs ReclaimStats

	for _, q := range p.free {
		for q.Length() > 0 {
			b := q.Peek().(*Buffer)
			surplus := p.cfg.MaxFreePerClass >= 0 && q.Length() > p.cfg.MaxFreePerClass
			idle := p.cfg.MaxIdleSweeps >= 0 && p.sweeps-b.releasedAt >= uint64(p.cfg.MaxIdleSweeps)
			if !surplus && !idle {
				break
			}
			q.Remove()
			p.stats.Cached--
			p.stats.CachedBytes -= int64(cap(b.data))
			p.drop(b, &rs)
		}
	}
	for p.oversize.Length() > 0 {
		p.drop(p.oversize.Remove().(*Buffer), &rs)
	}

	if rs.Buffers > 0 {
		p.log.Debug("bufpool: reclaimed", "buffers", rs.Buffers, "bytes", rs.Bytes, "sweep", p.sweeps)
	}
	return rs
}

func (p *Pool) drop(b *Buffer, rs *ReclaimStats) {
	data := b.data[:cap(b.data)]
	b.data = nil
	p.cfg.Allocator.Free(data)
	p.stats.FreeCalls++
	rs.Buffers++
	rs.Bytes += int64(len(data))
}

// Stats returns a snapshot of pool counters.
func (p *Pool) Stats() Stats {
	st := p.stats
	st.Sweeps = p.sweeps
	return st
}
