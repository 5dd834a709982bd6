package layout

import "errors"

var (
	// ErrAlign indicates an alignment that is not a positive power of two.
	ErrAlign = errors.New("layout: alignment must be a power of two")

	// ErrSize indicates a negative size.
	ErrSize = errors.New("layout: negative size")

	// ErrOverflow indicates that an array size does not fit in an int.
	ErrOverflow = errors.New("layout: size overflow")
)
