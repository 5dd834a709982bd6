package storage

import (
	"github.com/joshuapare/slotkit/alloc"
	"github.com/joshuapare/slotkit/layout"
)

// Placement records where a Small slot lives.
type Placement uint8

const (
	// PlacementNone is the placement of the zero handle.
	PlacementNone Placement = iota
	// PlacementInline means the slot is inside the storage value.
	PlacementInline
	// PlacementExternal means the slot came from the allocator.
	PlacementExternal
)

func (p Placement) String() string {
	switch p {
	case PlacementInline:
		return "inline"
	case PlacementExternal:
		return "external"
	default:
		return "none"
	}
}

// SmallHandle identifies the slot of a Small storage and records its placement.
type SmallHandle struct {
	placement Placement
	inline    InlineHandle
	external  AllocHandle
}

// Placement returns where the slot lives.
func (h SmallHandle) Placement() Placement {
	return h.placement
}

// Small is a single-slot storage that keeps slots up to the capacity of D
// inline and sends larger ones to an allocator. If D holds pointers every
// slot goes to the allocator. Growing an inline slot past
// the capacity migrates its bytes to external memory; shrinking never migrates
// back.
//
// Small does not pin: inline slots move with the storage value.
type Small[D any] struct {
	inline   Inline[D]
	external *Alloc
	live     bool
}

var (
	_ SliceStorage[SmallHandle] = (*Small[[8]byte])(nil)
)

// NewSmall returns a storage spilling to a. A nil allocator means alloc.Heap.
func NewSmall[D any](a alloc.Allocator) *Small[D] {
	return &Small[D]{external: NewAlloc(a)}
}

// Capacity returns the largest layout kept inline. A D holding pointers keeps
// nothing inline and reports a zero capacity.
func (s *Small[D]) Capacity() layout.Layout {
	if !layout.PointerFree[D]() {
		return layout.Layout{Align: 1}
	}
	return s.inline.Capacity()
}

func (s *Small[D]) fitsInline(l layout.Layout) bool {
	return layout.PointerFree[D]() && s.inline.Fits(l)
}

// Create places the slot inline when l fits D and externally otherwise.
func (s *Small[D]) Create(l layout.Layout) (SmallHandle, error) {
	if err := checkLayout(l); err != nil {
		return SmallHandle{}, err
	}
	if s.live {
		return SmallHandle{}, ErrOccupied
	}
	if s.fitsInline(l) {
		h, err := s.inline.Create(l)
		if err != nil {
			return SmallHandle{}, err
		}
		s.live = true
		return SmallHandle{placement: PlacementInline, inline: h}, nil
	}
	h, err := s.ext().Create(l)
	if err != nil {
		return SmallHandle{}, err
	}
	s.live = true
	return SmallHandle{placement: PlacementExternal, external: h}, nil
}

// Destroy releases the slot, returning external memory to the allocator.
func (s *Small[D]) Destroy(h SmallHandle) error {
	var err error
	switch h.placement {
	case PlacementInline:
		err = s.inline.Destroy(h.inline)
	case PlacementExternal:
		err = s.ext().Destroy(h.external)
	default:
		err = ErrStaleHandle
	}
	if err != nil {
		return err
	}
	s.live = false
	return nil
}

// Resolve returns the slot bytes.
func (s *Small[D]) Resolve(h SmallHandle) ([]byte, error) {
	switch h.placement {
	case PlacementInline:
		return s.inline.Resolve(h.inline)
	case PlacementExternal:
		return s.ext().Resolve(h.external)
	default:
		return nil, ErrStaleHandle
	}
}

// Layout returns the slot layout.
func (s *Small[D]) Layout(h SmallHandle) (layout.Layout, error) {
	switch h.placement {
	case PlacementInline:
		return s.inline.Layout(h.inline)
	case PlacementExternal:
		return s.ext().Layout(h.external)
	default:
		return layout.Layout{}, ErrStaleHandle
	}
}

// Grow resizes the slot, migrating an inline slot that no longer fits.
func (s *Small[D]) Grow(h SmallHandle, old, new layout.Layout) (SmallHandle, error) {
	switch h.placement {
	case PlacementInline:
		if s.inline.Fits(new) {
			ih, err := s.inline.Grow(h.inline, old, new)
			if err != nil {
				return h, err
			}
			return SmallHandle{placement: PlacementInline, inline: ih}, nil
		}
		return s.migrate(h, old, new)
	case PlacementExternal:
		eh, err := s.ext().Grow(h.external, old, new)
		if err != nil {
			return h, err
		}
		return SmallHandle{placement: PlacementExternal, external: eh}, nil
	default:
		return h, ErrStaleHandle
	}
}

// Shrink resizes the slot where it is.
func (s *Small[D]) Shrink(h SmallHandle, old, new layout.Layout) (SmallHandle, error) {
	switch h.placement {
	case PlacementInline:
		ih, err := s.inline.Shrink(h.inline, old, new)
		if err != nil {
			return h, err
		}
		return SmallHandle{placement: PlacementInline, inline: ih}, nil
	case PlacementExternal:
		eh, err := s.ext().Shrink(h.external, old, new)
		if err != nil {
			return h, err
		}
		return SmallHandle{placement: PlacementExternal, external: eh}, nil
	default:
		return h, ErrStaleHandle
	}
}

// migrate moves an inline slot to the allocator. On failure the inline slot is
// untouched.
func (s *Small[D]) migrate(h SmallHandle, old, new layout.Layout) (SmallHandle, error) {
	cur, err := s.inline.Layout(h.inline)
	if err != nil {
		return h, err
	}
	if err := checkResize(cur, old, new, true); err != nil {
		return h, err
	}
	src, err := s.inline.Resolve(h.inline)
	if err != nil {
		return h, err
	}
	eh, err := s.ext().Create(new)
	if err != nil {
		return h, err
	}
	dst, err := s.ext().Resolve(eh)
	if err != nil {
		_ = s.ext().Destroy(eh)
		return h, err
	}
	copy(dst, src)
	if err := s.inline.Destroy(h.inline); err != nil {
		return h, err
	}
	return SmallHandle{placement: PlacementExternal, external: eh}, nil
}

// Close returns external memory to the allocator.
func (s *Small[D]) Close() error {
	if s.external == nil {
		return nil
	}
	return s.external.Close()
}

func (s *Small[D]) ext() *Alloc {
	if s.external == nil {
		s.external = NewAlloc(nil)
	}
	return s.external
}
