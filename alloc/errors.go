package alloc

import "errors"

var (
	// ErrOutOfMemory indicates that the allocator could not satisfy a request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrUnsupportedAlign indicates an alignment the allocator cannot provide.
	ErrUnsupportedAlign = errors.New("alloc: unsupported alignment")

	// ErrBadLayout indicates a layout with a negative size or a non power-of-two alignment.
	ErrBadLayout = errors.New("alloc: invalid layout")
)
