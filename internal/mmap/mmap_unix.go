//go:build unix

// Package mmap provides anonymous page mappings used as off-heap slot memory.
package mmap

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// PageSize returns the operating system page size.
func PageSize() int {
	return unix.Getpagesize()
}

// Map returns n bytes of zeroed, private, read-write memory.
// The mapping starts on a page boundary.
func Map(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("mmap: negative length %d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap: map %d bytes: %w", n, err)
	}
	return data, nil
}

// Unmap releases a mapping returned by Map or Remap.
func Unmap(data []byte) error {
	if cap(data) == 0 {
		return nil
	}
	err := unix.Munmap(data[:cap(data)])
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
