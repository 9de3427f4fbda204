package bufpool

import "math/bits"

// oversize is the class of buffers larger than the largest size class.
const oversize = -1

// sizeClassTable holds the power-of-two class boundaries of a pool.
type sizeClassTable struct {
	minShift   int // log2 of the smallest class
	numClasses int
}

// newSizeClassTable computes classes for [minSize, maxSize]. Both bounds
// are rounded up to powers of two.
func newSizeClassTable(minSize, maxSize int) *sizeClassTable {
	minShift := log2Ceil(minSize)
	maxShift := log2Ceil(maxSize)
	if maxShift < minShift {
		maxShift = minShift
	}
	return &sizeClassTable{
		minShift:   minShift,
		numClasses: maxShift - minShift + 1,
	}
}

// log2Ceil returns the smallest s with 1<<s >= n.
func log2Ceil(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// classFor returns the size class for a length, or oversize.
func (t *sizeClassTable) classFor(n int) int {
	c := log2Ceil(n) - t.minShift
	if c < 0 {
		return 0
	}
	if c >= t.numClasses {
		return oversize
	}
	return c
}

// size returns the buffer capacity of class c.
func (t *sizeClassTable) size(c int) int {
	return 1 << (t.minShift + c)
}

// NumClasses returns the number of size classes (excluding oversize).
func (t *sizeClassTable) NumClasses() int {
	return t.numClasses
}

// maxSize returns the capacity of the largest class.
func (t *sizeClassTable) maxSize() int {
	return t.size(t.numClasses - 1)
}
