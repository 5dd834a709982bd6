//go:build !linux

package mmap

// CanRemap reports whether Remap is backed by the kernel.
const CanRemap = false

// Remap is only available on Linux; callers fall back to map-copy-unmap.
func Remap(data []byte, n int) ([]byte, error) {
	return nil, ErrRemapUnsupported
}
