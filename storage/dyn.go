package storage

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/slotkit/internal/align"
	"github.com/joshuapare/slotkit/layout"
)

// DynHandle identifies the slot of a Dyn storage.
type DynHandle struct {
	t ticket
}

// Dyn is a single-slot storage that never creates a slot of its own. It adopts
// one that already exists: a slot of any other backend, or memory the caller
// hands over. Whatever the source, the result is the same storage type, so
// code holding a Dyn does not care where the bytes came from.
//
// A slot of at most one word is copied into the Dyn value and the source is
// released straight away. A larger slot stays where it is and the source is
// released when the Dyn slot is destroyed.
//
// Create, Grow and Shrink always fail with ErrUnsupported. Dyn does not pin:
// a word-sized slot moves with the storage value.
type Dyn struct {
	word      uint64
	external  []byte
	release   func() error
	placement Placement
	single
}

var (
	_ SliceStorage[DynHandle] = (*Dyn)(nil)
)

// NewDyn returns an empty Dyn.
func NewDyn() *Dyn {
	return &Dyn{}
}

// DynCapacity is the largest layout a Dyn copies inline.
func DynCapacity() layout.Layout {
	return layout.Of[uint64]()
}

// Adopt takes over the first l.Size bytes of mem. release, if not nil, gives
// the source back and is called exactly once: right away when the slot is
// copied inline, otherwise from Destroy. If Adopt fails, release is not
// called and mem is untouched.
func (s *Dyn) Adopt(mem []byte, l layout.Layout, release func() error) (DynHandle, error) {
	if err := checkLayout(l); err != nil {
		return DynHandle{}, err
	}
	if s.live {
		return DynHandle{}, ErrOccupied
	}
	if len(mem) < l.Size {
		return DynHandle{}, fmt.Errorf("%w: have %d bytes, need %s", ErrCapacity, len(mem), l)
	}
	if !align.Aligned(align.Addr(mem), l.Align) {
		return DynHandle{}, fmt.Errorf("%w: memory not aligned to %d", ErrLayoutMismatch, l.Align)
	}

	if layout.Fits(l, DynCapacity()) {
		t, err := s.create(l, DynCapacity())
		if err != nil {
			return DynHandle{}, err
		}
		copy(s.region(), mem[:l.Size])
		if release != nil {
			if err := release(); err != nil {
				_ = s.destroy(t)
				return DynHandle{}, err
			}
		}
		s.placement = PlacementInline
		return DynHandle{t: t}, nil
	}

	t, err := s.create(l, l)
	if err != nil {
		return DynHandle{}, err
	}
	s.external = mem[:l.Size:l.Size]
	s.release = release
	s.placement = PlacementExternal
	return DynHandle{t: t}, nil
}

// Placement returns where the live slot is kept, or PlacementNone.
func (s *Dyn) Placement() Placement {
	if !s.live {
		return PlacementNone
	}
	return s.placement
}

// Create fails: a Dyn only adopts slots.
func (s *Dyn) Create(layout.Layout) (DynHandle, error) {
	return DynHandle{}, fmt.Errorf("%w: dyn storage only adopts slots", ErrUnsupported)
}

// Destroy ends the slot and releases its source.
func (s *Dyn) Destroy(h DynHandle) error {
	if err := s.destroy(h.t); err != nil {
		return err
	}
	release := s.release
	s.release = nil
	s.external = nil
	s.word = 0
	s.placement = PlacementNone
	if release != nil {
		return release()
	}
	return nil
}

// Resolve returns the slot bytes.
func (s *Dyn) Resolve(h DynHandle) ([]byte, error) {
	if err := s.check(h.t); err != nil {
		return nil, err
	}
	if s.placement == PlacementExternal {
		return s.external, nil
	}
	return s.region()[:s.slot.Size], nil
}

// Layout returns the slot layout.
func (s *Dyn) Layout(h DynHandle) (layout.Layout, error) {
	if err := s.check(h.t); err != nil {
		return layout.Layout{}, err
	}
	return s.slot, nil
}

// Grow fails with ErrUnsupported; h stays valid.
func (s *Dyn) Grow(h DynHandle, _, _ layout.Layout) (DynHandle, error) {
	return h, fmt.Errorf("%w: dyn storage cannot resize", ErrUnsupported)
}

// Shrink fails with ErrUnsupported; h stays valid.
func (s *Dyn) Shrink(h DynHandle, _, _ layout.Layout) (DynHandle, error) {
	return h, fmt.Errorf("%w: dyn storage cannot resize", ErrUnsupported)
}

// Close destroys a live slot, releasing its source. Close is idempotent.
func (s *Dyn) Close() error {
	if !s.live {
		return nil
	}
	return s.Destroy(DynHandle{t: ticket{owner: s.owner, gen: s.gen}})
}

func (s *Dyn) region() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&s.word)), unsafe.Sizeof(s.word))
}
