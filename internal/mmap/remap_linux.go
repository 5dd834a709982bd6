//go:build linux

package mmap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// CanRemap reports whether Remap is backed by the kernel.
const CanRemap = true

// Remap resizes a mapping, moving it if the kernel cannot extend it in place.
// The first min(len(data), n) bytes are preserved.
func Remap(data []byte, n int) ([]byte, error) {
	if cap(data) == 0 || n <= 0 {
		return nil, ErrRemapUnsupported
	}
	out, err := unix.Mremap(data[:cap(data)], n, unix.MREMAP_MAYMOVE)
	if err != nil {
		return nil, fmt.Errorf("mmap: remap %d -> %d bytes: %w", cap(data), n, err)
	}
	return out, nil
}
