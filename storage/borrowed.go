package storage

import (
	"github.com/joshuapare/slotkit/internal/align"
	"github.com/joshuapare/slotkit/layout"
)

// maxBorrowedAlign caps the alignment a borrowed buffer is credited with.
const maxBorrowedAlign = 4096

// BorrowedHandle identifies the slot of a Borrowed storage.
type BorrowedHandle struct {
	t ticket
}

// Borrowed places its single slot in a caller-provided byte buffer. The buffer
// outlives the storage and is never freed by it. The slot's address is the
// buffer's address, so Borrowed pins: copying the storage value does not move
// the bytes.
//
// The buffer's alignment is the largest power of two dividing its address.
type Borrowed struct {
	buf []byte
	single
}

var (
	_ SliceStorage[BorrowedHandle]   = (*Borrowed)(nil)
	_ PinningStorage[BorrowedHandle] = (*Borrowed)(nil)
)

// NewBorrowed wraps buf. The storage writes only into buf[:len(buf)].
func NewBorrowed(buf []byte) *Borrowed {
	return &Borrowed{buf: buf}
}

// Capacity returns the largest layout the buffer can hold.
func (s *Borrowed) Capacity() layout.Layout {
	return layout.Layout{
		Size:  len(s.buf),
		Align: align.Of(align.Addr(s.buf), maxBorrowedAlign),
	}
}

// Create claims the buffer.
func (s *Borrowed) Create(l layout.Layout) (BorrowedHandle, error) {
	t, err := s.create(l, s.Capacity())
	if err != nil {
		return BorrowedHandle{}, err
	}
	return BorrowedHandle{t: t}, nil
}

// Destroy releases the slot. The buffer is left as it is.
func (s *Borrowed) Destroy(h BorrowedHandle) error {
	return s.destroy(h.t)
}

// Resolve returns the slot bytes, a prefix of the buffer.
func (s *Borrowed) Resolve(h BorrowedHandle) ([]byte, error) {
	if err := s.check(h.t); err != nil {
		return nil, err
	}
	return s.buf[:s.slot.Size:s.slot.Size], nil
}

// Layout returns the slot layout.
func (s *Borrowed) Layout(h BorrowedHandle) (layout.Layout, error) {
	if err := s.check(h.t); err != nil {
		return layout.Layout{}, err
	}
	return s.slot, nil
}

// Grow resizes in place up to the buffer length.
func (s *Borrowed) Grow(h BorrowedHandle, old, new layout.Layout) (BorrowedHandle, error) {
	if err := s.resize(h.t, old, new, s.Capacity(), true); err != nil {
		return h, err
	}
	return h, nil
}

// Shrink resizes in place.
func (s *Borrowed) Shrink(h BorrowedHandle, old, new layout.Layout) (BorrowedHandle, error) {
	if err := s.resize(h.t, old, new, s.Capacity(), false); err != nil {
		return h, err
	}
	return h, nil
}

// PinsSlots marks Borrowed as pinning.
func (*Borrowed) PinsSlots() {}
