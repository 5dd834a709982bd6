package storage

import (
	"unsafe"

	"github.com/joshuapare/slotkit/layout"
)

// InlineHandle identifies the slot of an Inline storage.
type InlineHandle struct {
	t ticket
}

// Inline keeps its single slot inside the storage value itself, in a field of
// type D. D only fixes the capacity: a slot fits when its size and alignment do
// not exceed those of D. Inline never touches an allocator.
//
// Because the bytes live in the value, copying an Inline copies the slot and
// a view obtained from Resolve belongs to the copy it came from. Inline does
// not pin.
//
// The zero value is ready to use. D must be pointer-free.
type Inline[D any] struct {
	data D
	single
}

var (
	_ SliceStorage[InlineHandle] = (*Inline[[8]byte])(nil)
)

// NewInline returns an empty inline storage.
func NewInline[D any]() *Inline[D] {
	return &Inline[D]{}
}

// Capacity returns the largest layout the storage can hold.
func (s *Inline[D]) Capacity() layout.Layout {
	return layout.Of[D]()
}

// Fits reports whether a slot of layout l can be created.
func (s *Inline[D]) Fits(l layout.Layout) bool {
	return layout.Fits(l, s.Capacity())
}

// Create claims the slot. It fails with ErrOccupied while a slot is live and
// with ErrCapacity when l does not fit D.
func (s *Inline[D]) Create(l layout.Layout) (InlineHandle, error) {
	if !layout.PointerFree[D]() {
		return InlineHandle{}, ErrPointers
	}
	t, err := s.create(l, s.Capacity())
	if err != nil {
		return InlineHandle{}, err
	}
	return InlineHandle{t: t}, nil
}

// Destroy releases the slot.
func (s *Inline[D]) Destroy(h InlineHandle) error {
	return s.destroy(h.t)
}

// Resolve returns the slot bytes.
func (s *Inline[D]) Resolve(h InlineHandle) ([]byte, error) {
	if err := s.check(h.t); err != nil {
		return nil, err
	}
	return s.region()[:s.slot.Size], nil
}

// Layout returns the slot layout.
func (s *Inline[D]) Layout(h InlineHandle) (layout.Layout, error) {
	if err := s.check(h.t); err != nil {
		return layout.Layout{}, err
	}
	return s.slot, nil
}

// Grow resizes in place up to the capacity of D.
func (s *Inline[D]) Grow(h InlineHandle, old, new layout.Layout) (InlineHandle, error) {
	if err := s.resize(h.t, old, new, s.Capacity(), true); err != nil {
		return h, err
	}
	return h, nil
}

// Shrink resizes in place.
func (s *Inline[D]) Shrink(h InlineHandle, old, new layout.Layout) (InlineHandle, error) {
	if err := s.resize(h.t, old, new, s.Capacity(), false); err != nil {
		return h, err
	}
	return h, nil
}

func (s *Inline[D]) region() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&s.data)), unsafe.Sizeof(s.data))
}
