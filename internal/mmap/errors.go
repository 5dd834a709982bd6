package mmap

import "errors"

// ErrRemapUnsupported indicates that the platform or the arguments do not
// allow an in-kernel resize.
var ErrRemapUnsupported = errors.New("mmap: remap unsupported")
