// Package align holds power-of-two alignment arithmetic shared by the
// layout, alloc and storage packages.
package align

import "unsafe"

// WordAlignment is the alignment of a machine word.
const WordAlignment = int(unsafe.Alignof(uintptr(0)))

// IsPow2 reports whether a is a positive power of two.
func IsPow2(a int) bool {
	return a > 0 && a&(a-1) == 0
}

// Up returns n rounded up to the next multiple of a.
// a must be a power of two.
//
// Example:
//
//	Up(1, 8)  = 8
//	Up(8, 8)  = 8
//	Up(9, 8)  = 16
//	Up(0, 16) = 0
func Up(n, a int) int {
	mask := a - 1
	return (n + mask) & ^mask
}

// UpPtr is Up for addresses.
func UpPtr(p uintptr, a int) uintptr {
	mask := uintptr(a - 1)
	return (p + mask) & ^mask
}

// Padding returns how many bytes must be skipped from p to reach a multiple of a.
func Padding(p uintptr, a int) int {
	return int(UpPtr(p, a) - p)
}

// Of returns the largest power of two dividing p, capped at limit.
// The zero address is treated as maximally aligned.
//
// Example:
//
//	Of(0x1000, 64) = 64
//	Of(0x1008, 64) = 8
func Of(p uintptr, limit int) int {
	if p == 0 {
		return limit
	}
	a := int(p & -p)
	if a > limit || a <= 0 {
		return limit
	}
	return a
}

// Aligned reports whether p is a multiple of a.
func Aligned(p uintptr, a int) bool {
	return p&uintptr(a-1) == 0
}

// Addr returns the address of the first byte of b, or 0 for an empty slice.
func Addr(b []byte) uintptr {
	if cap(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
