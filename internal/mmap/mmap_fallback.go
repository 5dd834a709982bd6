//go:build !unix

package mmap

import "fmt"

const fallbackPageSize = 4096

// PageSize returns the page size emulated by the heap fallback.
func PageSize() int {
	return fallbackPageSize
}

// Map returns n zeroed bytes from the Go heap when anonymous mappings are
// not available. The result is aligned to PageSize.
func Map(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("mmap: negative length %d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	raw := make([]byte, n+fallbackPageSize-1)
	off := 0
	if p := uintptrOf(raw); p%fallbackPageSize != 0 {
		off = int(fallbackPageSize - p%fallbackPageSize)
	}
	return raw[off : off+n : off+n], nil
}

// Unmap is a no-op; the collector reclaims heap memory.
func Unmap(data []byte) error {
	return nil
}
