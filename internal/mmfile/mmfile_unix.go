//go:build unix

package mmfile

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Supported reports whether Map returns real mappings on this platform.
const Supported = true

// Map returns n zeroed bytes of private anonymous memory.
func Map(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("mmfile: negative length %d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmfile: mapping %d bytes: %w", n, err)
	}
	return data, nil
}

// Unmap releases a mapping returned by Map. b may have been resliced;
// its full capacity is unmapped.
func Unmap(b []byte) error {
	if cap(b) == 0 {
		return nil
	}
	err := unix.Munmap(b[:cap(b)])
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
