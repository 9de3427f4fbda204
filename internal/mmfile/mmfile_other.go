//go:build !unix

package mmfile

import "fmt"

// Supported reports whether Map returns real mappings on this platform.
const Supported = false

// Map allocates from the heap when mmap is not available.
func Map(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("mmfile: negative length %d", n)
	}
	return make([]byte, n), nil
}

// Unmap is a no-op without mmap.
func Unmap([]byte) error { return nil }
