package raw

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/slotkit/internal/bounds"
	"github.com/joshuapare/slotkit/layout"
	"github.com/joshuapare/slotkit/storage"
)

// Vec owns a slot holding room for Cap() values of T. It knows nothing about
// which elements are in use; callers pass that in to Reserve.
type Vec[T any, H storage.Handle] struct {
	s      storage.SliceStorage[H]
	h      H
	cap    int
	closed bool
}

// NewVec returns a vector with capacity 0. The storage gets a zero-sized slot
// aligned for T.
func NewVec[T any, H storage.Handle](s storage.SliceStorage[H]) (*Vec[T, H], error) {
	return WithCapacity[T](s, 0)
}

// WithCapacity returns a vector with room for exactly n values.
func WithCapacity[T any, H storage.Handle](s storage.SliceStorage[H], n int) (*Vec[T, H], error) {
	if !layout.PointerFree[T]() {
		return nil, fmt.Errorf("%w: %T", storage.ErrPointers, *new(T))
	}
	l, err := arrayLayout[T](n)
	if err != nil {
		return nil, err
	}
	h, err := s.Create(l)
	if err != nil {
		return nil, err
	}
	return &Vec[T, H]{s: s, h: h, cap: n}, nil
}

// VecFromParts adopts a handle whose slot holds capacity values of T.
func VecFromParts[T any, H storage.Handle](h H, s storage.SliceStorage[H], capacity int) (*Vec[T, H], error) {
	if !layout.PointerFree[T]() {
		return nil, fmt.Errorf("%w: %T", storage.ErrPointers, *new(T))
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrLength, capacity)
	}
	return &Vec[T, H]{s: s, h: h, cap: capacity}, nil
}

// IntoParts gives up ownership without destroying the slot.
func (v *Vec[T, H]) IntoParts() (H, storage.SliceStorage[H], int) {
	v.closed = true
	return v.h, v.s, v.cap
}

// Cap returns the number of values the slot holds.
func (v *Vec[T, H]) Cap() int {
	return v.cap
}

// Handle returns the slot handle.
func (v *Vec[T, H]) Handle() H {
	return v.h
}

// Layout returns the current slot layout.
func (v *Vec[T, H]) Layout() layout.Layout {
	l, _ := arrayLayout[T](v.cap)
	return l
}

// Slice returns a view of the whole capacity. The view is invalidated by any
// resize. A vector with capacity 0 returns nil.
func (v *Vec[T, H]) Slice() ([]T, error) {
	if v.closed {
		return nil, ErrClosed
	}
	if v.cap == 0 {
		return nil, nil
	}
	if unsafe.Sizeof(*new(T)) == 0 {
		return make([]T, v.cap), nil
	}
	mem, err := v.s.Resolve(v.h)
	if err != nil {
		return nil, err
	}
	l := v.Layout()
	if len(mem) < l.Size {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrTooSmall, len(mem), l.Size)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(mem))), v.cap), nil
}

// GrowTo resizes to exactly n values. It does nothing when n <= Cap().
func (v *Vec[T, H]) GrowTo(n int) error {
	if v.closed {
		return ErrClosed
	}
	if n <= v.cap {
		return nil
	}
	return v.resize(n, true)
}

// ShrinkTo resizes to exactly n values. It does nothing when n >= Cap().
func (v *Vec[T, H]) ShrinkTo(n int) error {
	if v.closed {
		return ErrClosed
	}
	if n >= v.cap {
		return nil
	}
	if n < 0 {
		return fmt.Errorf("%w: capacity %d", ErrLength, n)
	}
	return v.resize(n, false)
}

// Reserve makes room for additional values after the first used ones, growing
// geometrically: the new capacity is the largest of twice the current one,
// used+additional, and a small minimum that depends on the element size.
func (v *Vec[T, H]) Reserve(used, additional int) error {
	if v.closed {
		return ErrClosed
	}
	if used < 0 || additional < 0 {
		return fmt.Errorf("%w: used %d, additional %d", ErrLength, used, additional)
	}
	required, ok := bounds.Add(used, additional)
	if !ok {
		return fmt.Errorf("%w: %d + %d values", layout.ErrOverflow, used, additional)
	}
	if required <= v.cap {
		return nil
	}
	return v.resize(GrowCapacity(v.cap, required, int(unsafe.Sizeof(*new(T)))), true)
}

// Close destroys the slot and then closes the storage if it is an io.Closer.
func (v *Vec[T, H]) Close() error {
	if v.closed {
		return ErrClosed
	}
	v.closed = true
	return closeSlot[H](v.s, v.h)
}

func (v *Vec[T, H]) resize(n int, grow bool) error {
	old, err := arrayLayout[T](v.cap)
	if err != nil {
		return err
	}
	l, err := arrayLayout[T](n)
	if err != nil {
		return err
	}
	var h H
	if grow {
		h, err = v.s.Grow(v.h, old, l)
	} else {
		h, err = v.s.Shrink(v.h, old, l)
	}
	if err != nil {
		return err
	}
	v.h = h
	v.cap = n
	return nil
}

// GrowCapacity returns the capacity Reserve grows to from current when
// required values are needed, for elements of elemSize bytes.
func GrowCapacity(current, required, elemSize int) int {
	doubled, ok := bounds.Mul(current, 2)
	if !ok {
		doubled = required
	}
	return max(doubled, required, minCapacity(elemSize))
}

// minCapacity avoids tiny first allocations: 8 for bytes, 4 for elements up
// to 1 KiB, 1 above.
func minCapacity(elemSize int) int {
	switch {
	case elemSize == 1:
		return 8
	case elemSize <= 1024:
		return 4
	default:
		return 1
	}
}

func arrayLayout[T any](n int) (layout.Layout, error) {
	if n < 0 {
		return layout.Layout{}, fmt.Errorf("%w: capacity %d", ErrLength, n)
	}
	return layout.Array[T](n)
}
