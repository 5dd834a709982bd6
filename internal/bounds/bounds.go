// Package bounds contains overflow-checked integer arithmetic used when
// computing slot sizes.
package bounds

import (
	"fmt"
	"math"
)

// Add adds a and b, returning ok = false when the result would overflow int.
func Add(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// Mul multiplies two non-negative values, returning ok = false on overflow
// or when either operand is negative.
// This is what count * elementSize goes through before a slot is sized.
func Mul(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// ArraySize returns count * elemSize, or an error describing the failure.
//
//	size, err := bounds.ArraySize(n, int(unsafe.Sizeof(v)))
//	if err != nil {
//	    return fmt.Errorf("layout: %w", err)
//	}
func ArraySize(count, elemSize int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("negative count: %d", count)
	}
	if elemSize < 0 {
		return 0, fmt.Errorf("negative element size: %d", elemSize)
	}
	total, ok := Mul(count, elemSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elemSize)
	}
	return total, nil
}

// Min returns the smaller of a and b.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
