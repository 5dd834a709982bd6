package storage

import (
	"unsafe"

	"github.com/joshuapare/slotkit/layout"
)

// RefHandle identifies the one slot of a Ref storage.
type RefHandle struct {
	owner *stamp
}

// Ref adapts an existing value of type T into a storage with exactly one
// pre-existing slot. Create is unsupported; the handle comes from Handle, and
// Destroy does nothing because the value belongs to the caller.
type Ref[T any] struct {
	ptr   *T
	owner *stamp
}

var (
	_ PinningStorage[RefHandle] = (*Ref[int])(nil)
)

// NewRef wraps v.
func NewRef[T any](v *T) *Ref[T] {
	return &Ref[T]{ptr: v, owner: new(stamp)}
}

// Handle returns the handle of the wrapped value.
func (s *Ref[T]) Handle() RefHandle {
	return RefHandle{owner: s.owner}
}

// Get returns the wrapped value.
func (s *Ref[T]) Get() *T {
	return s.ptr
}

// Create always fails: the only slot is the wrapped value.
func (s *Ref[T]) Create(layout.Layout) (RefHandle, error) {
	return RefHandle{}, ErrUnsupported
}

// Destroy is a no-op for a valid handle.
func (s *Ref[T]) Destroy(h RefHandle) error {
	return s.check(h)
}

// Resolve returns the bytes of the wrapped value. T must be pointer-free.
func (s *Ref[T]) Resolve(h RefHandle) ([]byte, error) {
	if err := s.check(h); err != nil {
		return nil, err
	}
	if !layout.PointerFree[T]() {
		return nil, ErrPointers
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(s.ptr)), unsafe.Sizeof(*s.ptr)), nil
}

// Layout returns the layout of T.
func (s *Ref[T]) Layout(h RefHandle) (layout.Layout, error) {
	if err := s.check(h); err != nil {
		return layout.Layout{}, err
	}
	return layout.Of[T](), nil
}

// PinsSlots marks Ref as pinning.
func (*Ref[T]) PinsSlots() {}

func (s *Ref[T]) check(h RefHandle) error {
	if s.owner == nil || s.ptr == nil || h.owner != s.owner {
		return ErrStaleHandle
	}
	return nil
}
