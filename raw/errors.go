package raw

import "errors"

var (
	// ErrClosed indicates use of a Box or Vec after Close or IntoParts.
	ErrClosed = errors.New("raw: closed")

	// ErrTooSmall indicates a slot that cannot hold the wrapped type.
	ErrTooSmall = errors.New("raw: slot smaller than element type")

	// ErrLength indicates a negative length or capacity.
	ErrLength = errors.New("raw: invalid length")
)
