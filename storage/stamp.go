package storage

import (
	"fmt"

	"github.com/joshuapare/slotkit/layout"
)

// stamp identifies one storage instance. It is never zero-sized, so two
// stamps never share an address.
type stamp struct {
	_ byte
}

// ticket is the part of a handle that ties it to the issuing instance and to
// one generation of its slot.
type ticket struct {
	owner *stamp
	gen   uint32
}

// single is the bookkeeping shared by the backends that hold one slot in a
// fixed region (Inline, Borrowed).
type single struct {
	owner *stamp
	gen   uint32
	live  bool
	slot  layout.Layout
}

func (s *single) create(l, capacity layout.Layout) (ticket, error) {
	if err := checkLayout(l); err != nil {
		return ticket{}, err
	}
	if s.live {
		return ticket{}, ErrOccupied
	}
	if !layout.Fits(l, capacity) {
		return ticket{}, fmt.Errorf("%w: need %s, have %s", ErrCapacity, l, capacity)
	}
	if s.owner == nil {
		s.owner = new(stamp)
	}
	s.gen++
	s.live = true
	s.slot = l
	return ticket{owner: s.owner, gen: s.gen}, nil
}

func (s *single) check(t ticket) error {
	if !s.live || t.owner != s.owner || t.gen != s.gen {
		return ErrStaleHandle
	}
	return nil
}

func (s *single) destroy(t ticket) error {
	if err := s.check(t); err != nil {
		return err
	}
	s.live = false
	s.slot = layout.Layout{}
	return nil
}

// resize updates the slot layout in place. The ticket stays valid.
func (s *single) resize(t ticket, old, new, capacity layout.Layout, grow bool) error {
	if err := s.check(t); err != nil {
		return err
	}
	if err := checkResize(s.slot, old, new, grow); err != nil {
		return err
	}
	if !layout.Fits(new, capacity) {
		return fmt.Errorf("%w: need %s, have %s", ErrCapacity, new, capacity)
	}
	s.slot = new
	return nil
}

func checkLayout(l layout.Layout) error {
	if !l.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidLayout, l)
	}
	return nil
}

func checkResize(cur, old, new layout.Layout, grow bool) error {
	if cur != old {
		return fmt.Errorf("%w: slot is %s, caller passed %s", ErrLayoutMismatch, cur, old)
	}
	if err := checkLayout(new); err != nil {
		return err
	}
	if grow && new.Size < old.Size {
		return fmt.Errorf("%w: grow %d -> %d", ErrBadResize, old.Size, new.Size)
	}
	if !grow && new.Size > old.Size {
		return fmt.Errorf("%w: shrink %d -> %d", ErrBadResize, old.Size, new.Size)
	}
	return nil
}
