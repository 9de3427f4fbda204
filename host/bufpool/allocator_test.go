package bufpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMmapAllocator_BacksPool(t *testing.T) {
	ca := &CountingAllocator{Next: MmapAllocator{}}
	p := New(Config{MaxSize: 4096, MaxIdleSweeps: 1, Allocator: ca})

	small, err := p.Acquire(100)
	require.NoError(t, err)
	big, err := p.Acquire(1 << 20)
	require.NoError(t, err)
	require.True(t, big.Oversize())

	copy(small.Bytes(), "sighting")
	big.Bytes()[len(big.Bytes())-1] = 1

	require.NoError(t, p.Release(small))
	require.NoError(t, p.Release(big))

	rs := p.Reclaim()
	require.Equal(t, 2, rs.Buffers)
	require.Equal(t, int64(128+1<<20), rs.Bytes)
	require.Equal(t, 2, ca.Frees)

	again, err := p.Acquire(100)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 100), again.Bytes())
}

func TestCountingAllocator(t *testing.T) {
	ca := &CountingAllocator{}
	b, err := ca.Alloc(64)
	require.NoError(t, err)
	require.Len(t, b, 64)
	ca.Free(b)
	require.Equal(t, 1, ca.Allocs)
	require.Equal(t, 1, ca.Frees)
	require.Equal(t, int64(64), ca.BytesAlloc)
	require.Equal(t, int64(64), ca.BytesFreed)
}
