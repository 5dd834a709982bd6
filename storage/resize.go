package storage

import (
	"github.com/joshuapare/slotkit/internal/bounds"
	"github.com/joshuapare/slotkit/layout"
)

// GrowByCopy grows a slot of a MultipleStorage by creating a new slot, copying
// the old bytes and destroying the old slot. Backends without a native resize
// use it to provide SliceStorage.
func GrowByCopy[H Handle](s MultipleStorage[H], h H, old, new layout.Layout) (H, error) {
	return moveSlot(s, h, old, new, true)
}

// ShrinkByCopy is GrowByCopy's counterpart.
//
// On failure both return h, which stays valid.
func ShrinkByCopy[H Handle](s MultipleStorage[H], h H, old, new layout.Layout) (H, error) {
	return moveSlot(s, h, old, new, false)
}

func moveSlot[H Handle](s Storage[H], h H, old, new layout.Layout, grow bool) (H, error) {
	cur, err := s.Layout(h)
	if err != nil {
		return h, err
	}
	if err := checkResize(cur, old, new, grow); err != nil {
		return h, err
	}
	return copySlot(s, h, new, bounds.Min(old.Size, new.Size))
}

// copySlot moves the first n bytes of h into a fresh slot of layout l.
// On failure h is left as it was and is returned.
func copySlot[H Handle](s Storage[H], h H, l layout.Layout, n int) (H, error) {
	nh, err := s.Create(l)
	if err != nil {
		return h, err
	}
	src, err := s.Resolve(h)
	if err != nil {
		_ = s.Destroy(nh)
		return h, err
	}
	dst, err := s.Resolve(nh)
	if err != nil {
		_ = s.Destroy(nh)
		return h, err
	}
	copy(dst, src[:n])
	if err := s.Destroy(h); err != nil {
		_ = s.Destroy(nh)
		return h, err
	}
	return nh, nil
}
