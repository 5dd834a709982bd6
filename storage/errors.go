package storage

import "errors"

var (
	// ErrCapacity indicates that a layout does not fit a fixed-capacity backend.
	ErrCapacity = errors.New("storage: layout exceeds capacity")

	// ErrOccupied indicates Create on a single-slot storage whose slot is live.
	ErrOccupied = errors.New("storage: slot already in use")

	// ErrStaleHandle indicates a handle that was destroyed, superseded, or
	// issued by a different storage instance.
	ErrStaleHandle = errors.New("storage: stale or foreign handle")

	// ErrAliased indicates a second view of an acquired handle, or
	// destroying/resizing a handle while it is acquired.
	ErrAliased = errors.New("storage: handle already acquired")

	// ErrNotAcquired indicates Release of a handle that is not acquired.
	ErrNotAcquired = errors.New("storage: handle not acquired")

	// ErrUnsupported indicates an operation the backend does not provide.
	ErrUnsupported = errors.New("storage: operation not supported")

	// ErrLayoutMismatch indicates that the layout passed to a resize is not the
	// slot's current layout.
	ErrLayoutMismatch = errors.New("storage: layout does not match slot")

	// ErrBadResize indicates Grow to a smaller size or Shrink to a larger one.
	ErrBadResize = errors.New("storage: resize in the wrong direction")

	// ErrInvalidLayout indicates a negative size or a non power-of-two alignment.
	ErrInvalidLayout = errors.New("storage: invalid layout")

	// ErrPointers indicates a buffer or payload type that contains Go pointers.
	ErrPointers = errors.New("storage: type contains pointers")

	// ErrClosed indicates use of a storage after Close.
	ErrClosed = errors.New("storage: closed")
)
