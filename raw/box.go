package raw

import (
	"errors"
	"fmt"
	"io"
	"unsafe"

	"github.com/joshuapare/slotkit/layout"
	"github.com/joshuapare/slotkit/storage"
)

// Box owns one slot sized for a T, and the storage the slot lives in.
type Box[T any, H storage.Handle] struct {
	s      storage.Storage[H]
	h      H
	closed bool
}

// NewBox creates a slot of layout.Of[T] in s. The value is not initialised
// beyond what the storage guarantees.
func NewBox[T any, H storage.Handle](s storage.Storage[H]) (*Box[T, H], error) {
	if !layout.PointerFree[T]() {
		return nil, fmt.Errorf("%w: %T", storage.ErrPointers, *new(T))
	}
	h, err := s.Create(layout.Of[T]())
	if err != nil {
		return nil, err
	}
	return &Box[T, H]{s: s, h: h}, nil
}

// FromParts adopts an existing handle and its storage. The slot must be at
// least as large as a T; this is checked on access.
func FromParts[T any, H storage.Handle](h H, s storage.Storage[H]) (*Box[T, H], error) {
	if !layout.PointerFree[T]() {
		return nil, fmt.Errorf("%w: %T", storage.ErrPointers, *new(T))
	}
	return &Box[T, H]{s: s, h: h}, nil
}

// IntoParts gives up ownership without destroying the slot. The box is
// unusable afterwards.
func (b *Box[T, H]) IntoParts() (H, storage.Storage[H]) {
	b.closed = true
	return b.h, b.s
}

// Handle returns the slot handle.
func (b *Box[T, H]) Handle() H {
	return b.h
}

// Layout returns the layout of T.
func (b *Box[T, H]) Layout() layout.Layout {
	return layout.Of[T]()
}

// Get copies the value out of the slot.
func (b *Box[T, H]) Get() (T, error) {
	p, err := b.ptr()
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// GetMut returns a pointer into the slot. It stays valid until the box is
// closed, and for non-pinning storages until the storage value moves.
//
// On a storage with shared mutability GetMut and Get fail with
// storage.ErrAliased while the slot is acquired, including from inside
// Update; use the pointer Update passes instead.
func (b *Box[T, H]) GetMut() (*T, error) {
	return b.ptr()
}

// Update calls fn with a pointer into the slot. For storages with shared
// mutability the slot is acquired for the duration of fn, so a nested Update
// of the same box fails with storage.ErrAliased.
func (b *Box[T, H]) Update(fn func(*T)) (err error) {
	if b.closed {
		return ErrClosed
	}
	sm, ok := b.s.(storage.SharedMutabilityStorage[H])
	if !ok {
		p, err := b.ptr()
		if err != nil {
			return err
		}
		fn(p)
		return nil
	}
	mem, err := sm.Acquire(b.h)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sm.Release(b.h))
	}()
	p, err := view[T](mem)
	if err != nil {
		return err
	}
	fn(p)
	return nil
}

// Close destroys the slot and then closes the storage if it is an io.Closer.
func (b *Box[T, H]) Close() error {
	if b.closed {
		return ErrClosed
	}
	b.closed = true
	return closeSlot(b.s, b.h)
}

// closeSlot destroys h and then closes s if it is an io.Closer.
func closeSlot[H storage.Handle](s storage.Storage[H], h H) error {
	err := s.Destroy(h)
	if c, ok := s.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

func (b *Box[T, H]) ptr() (*T, error) {
	if b.closed {
		return nil, ErrClosed
	}
	mem, err := b.s.Resolve(b.h)
	if err != nil {
		return nil, err
	}
	return view[T](mem)
}

// view reinterprets the start of mem as a T.
func view[T any](mem []byte) (*T, error) {
	size := unsafe.Sizeof(*new(T))
	if uintptr(len(mem)) < size {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrTooSmall, len(mem), size)
	}
	if size == 0 {
		return new(T), nil
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(mem))), nil
}
