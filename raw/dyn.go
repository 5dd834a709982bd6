package raw

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/slotkit/layout"
	"github.com/joshuapare/slotkit/storage"
)

// DynBox is a Box over a storage.Dyn. Boxes from every backend, and values
// handed over by the caller, convert to the same DynBox[T].
type DynBox[T any] = Box[T, storage.DynHandle]

// Erase moves b behind a storage.Dyn. A T of at most one word is copied out
// and b's slot is destroyed and its storage closed right away; a larger T
// stays where it is until the returned box is closed. b is unusable
// afterwards. On error b is unchanged.
func Erase[T any, H storage.Handle](b *Box[T, H]) (*DynBox[T], error) {
	if b.closed {
		return nil, ErrClosed
	}
	mem, err := b.s.Resolve(b.h)
	if err != nil {
		return nil, err
	}
	l := layout.Of[T]()
	if len(mem) < l.Size {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrTooSmall, len(mem), l.Size)
	}
	s, h := b.s, b.h
	d := storage.NewDyn()
	dh, err := d.Adopt(mem, l, func() error { return closeSlot(s, h) })
	if err != nil {
		return nil, err
	}
	b.closed = true
	return &DynBox[T]{s: d, h: dh}, nil
}

// Take adopts the value p points to. A T of at most one word is copied; a
// larger T is used in place, and *p belongs to the box until it is closed.
func Take[T any](p *T) (*DynBox[T], error) {
	if !layout.PointerFree[T]() {
		return nil, fmt.Errorf("%w: %T", storage.ErrPointers, *new(T))
	}
	if p == nil {
		return nil, fmt.Errorf("%w: nil value", ErrTooSmall)
	}
	l := layout.Of[T]()
	mem := unsafe.Slice((*byte)(unsafe.Pointer(p)), l.Size)
	d := storage.NewDyn()
	h, err := d.Adopt(mem, l, nil)
	if err != nil {
		return nil, err
	}
	return &DynBox[T]{s: d, h: h}, nil
}
