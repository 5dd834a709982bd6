// Package layout describes the size and alignment of a slot.
//
// A Layout is the only thing the storage layer knows about a payload: it
// never interprets slot bytes. Typed layouts are derived from Go types with
// Of and Array; PointerFree guards typed views over raw slot memory, which the
// Go collector does not scan.
package layout

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/joshuapare/slotkit/internal/align"
	"github.com/joshuapare/slotkit/internal/bounds"
)

// Layout is a byte size plus a power-of-two alignment.
type Layout struct {
	Size  int
	Align int
}

// New validates and returns a layout.
func New(size, alignment int) (Layout, error) {
	if size < 0 {
		return Layout{}, fmt.Errorf("%w: %d", ErrSize, size)
	}
	if !align.IsPow2(alignment) {
		return Layout{}, fmt.Errorf("%w: %d", ErrAlign, alignment)
	}
	return Layout{Size: size, Align: alignment}, nil
}

// Bytes returns the layout of n unaligned bytes.
func Bytes(n int) Layout {
	return Layout{Size: n, Align: 1}
}

// Of returns the layout of a single T.
func Of[T any]() Layout {
	var zero T
	return Layout{Size: int(unsafe.Sizeof(zero)), Align: int(unsafe.Alignof(zero))}
}

// Array returns the layout of n contiguous values of T.
func Array[T any](n int) (Layout, error) {
	elem := Of[T]()
	size, err := bounds.ArraySize(n, elem.Size)
	if err != nil {
		return Layout{}, fmt.Errorf("%w: %v", ErrOverflow, err)
	}
	return Layout{Size: size, Align: elem.Align}, nil
}

// Valid reports whether l could have been produced by New.
func (l Layout) Valid() bool {
	return l.Size >= 0 && align.IsPow2(l.Align)
}

// WithSize returns l resized, keeping its alignment.
func (l Layout) WithSize(size int) Layout {
	l.Size = size
	return l
}

// Padded returns the size rounded up to a multiple of the alignment.
func (l Layout) Padded() int {
	return align.Up(l.Size, l.Align)
}

func (l Layout) String() string {
	return fmt.Sprintf("{size=%d align=%d}", l.Size, l.Align)
}

// Fits reports whether a slot of layout inner can be placed in a region of
// layout outer.
func Fits(inner, outer Layout) bool {
	return inner.Align <= outer.Align && inner.Size <= outer.Size
}

// PointerFree reports whether T holds no Go pointers, so its bytes may live
// in memory the collector does not scan.
func PointerFree[T any]() bool {
	return TypePointerFree(reflect.TypeFor[T]())
}

// TypePointerFree is PointerFree for a reflect.Type.
func TypePointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || TypePointerFree(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !TypePointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
