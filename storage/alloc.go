package storage

import (
	"github.com/joshuapare/slotkit/alloc"
	"github.com/joshuapare/slotkit/layout"
)

// AllocHandle identifies a slot of an Alloc storage.
type AllocHandle struct {
	owner *stamp
	id    uint64
}

type allocSlot struct {
	mem      []byte
	layout   layout.Layout
	acquired bool
}

// view hides the allocator's spare capacity from callers.
func (s *allocSlot) view() []byte {
	return s.mem[:len(s.mem):len(s.mem)]
}

// Alloc obtains each slot from an alloc.Allocator. It holds any number of
// slots, pins them (the storage value only holds references to the memory),
// enforces unique mutable access through Acquire/Release and resizes through
// the allocator.
//
// A resize always supersedes the handle, even when the allocator grew the
// memory in place.
type Alloc struct {
	a     alloc.Allocator
	owner *stamp
	next  uint64
	slots map[uint64]*allocSlot
}

var (
	_ SliceStorage[AllocHandle]            = (*Alloc)(nil)
	_ MultipleStorage[AllocHandle]         = (*Alloc)(nil)
	_ SharedMutabilityStorage[AllocHandle] = (*Alloc)(nil)
	_ Relocator[AllocHandle]               = (*Alloc)(nil)
)

// NewAlloc returns a storage drawing from a. A nil allocator means alloc.Heap.
func NewAlloc(a alloc.Allocator) *Alloc {
	if a == nil {
		a = alloc.Heap{}
	}
	return &Alloc{
		a:     a,
		owner: new(stamp),
		slots: make(map[uint64]*allocSlot),
	}
}

// Allocator returns the allocator slots are drawn from.
func (s *Alloc) Allocator() alloc.Allocator {
	return s.a
}

// Slots returns the number of live slots.
func (s *Alloc) Slots() int {
	return len(s.slots)
}

// Create allocates a slot. Allocation failures are returned as-is.
func (s *Alloc) Create(l layout.Layout) (AllocHandle, error) {
	if err := checkLayout(l); err != nil {
		return AllocHandle{}, err
	}
	if s.slots == nil {
		return AllocHandle{}, ErrClosed
	}
	mem, err := s.a.Allocate(l)
	if err != nil {
		return AllocHandle{}, err
	}
	return s.insert(mem, l), nil
}

// Destroy returns the slot's memory to the allocator.
func (s *Alloc) Destroy(h AllocHandle) error {
	slot, err := s.lookup(h)
	if err != nil {
		return err
	}
	if slot.acquired {
		return ErrAliased
	}
	delete(s.slots, h.id)
	s.a.Deallocate(slot.mem, slot.layout)
	return nil
}

// Resolve returns the slot bytes. It fails with ErrAliased while the slot is
// acquired.
func (s *Alloc) Resolve(h AllocHandle) ([]byte, error) {
	slot, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	if slot.acquired {
		return nil, ErrAliased
	}
	return slot.view(), nil
}

// Layout returns the slot layout.
func (s *Alloc) Layout(h AllocHandle) (layout.Layout, error) {
	slot, err := s.lookup(h)
	if err != nil {
		return layout.Layout{}, err
	}
	return slot.layout, nil
}

// Grow resizes the slot through the allocator.
func (s *Alloc) Grow(h AllocHandle, old, new layout.Layout) (AllocHandle, error) {
	return s.resize(h, old, new, true)
}

// Shrink resizes the slot through the allocator.
func (s *Alloc) Shrink(h AllocHandle, old, new layout.Layout) (AllocHandle, error) {
	return s.resize(h, old, new, false)
}

func (s *Alloc) resize(h AllocHandle, old, new layout.Layout, grow bool) (AllocHandle, error) {
	slot, err := s.lookup(h)
	if err != nil {
		return h, err
	}
	if slot.acquired {
		return h, ErrAliased
	}
	if err := checkResize(slot.layout, old, new, grow); err != nil {
		return h, err
	}
	mem, err := alloc.Resize(s.a, slot.mem, old, new)
	if err != nil {
		return h, err
	}
	delete(s.slots, h.id)
	return s.insert(mem, new), nil
}

// Relocate moves the slot to freshly allocated memory.
func (s *Alloc) Relocate(h AllocHandle) (AllocHandle, error) {
	slot, err := s.lookup(h)
	if err != nil {
		return h, err
	}
	if slot.acquired {
		return h, ErrAliased
	}
	mem, err := s.a.Allocate(slot.layout)
	if err != nil {
		return h, err
	}
	copy(mem, slot.mem)
	delete(s.slots, h.id)
	s.a.Deallocate(slot.mem, slot.layout)
	return s.insert(mem, slot.layout), nil
}

// Acquire returns the unique mutable view of the slot.
func (s *Alloc) Acquire(h AllocHandle) ([]byte, error) {
	slot, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	if slot.acquired {
		return nil, ErrAliased
	}
	slot.acquired = true
	return slot.view(), nil
}

// Release ends the view returned by Acquire.
func (s *Alloc) Release(h AllocHandle) error {
	slot, err := s.lookup(h)
	if err != nil {
		return err
	}
	if !slot.acquired {
		return ErrNotAcquired
	}
	slot.acquired = false
	return nil
}

// MultipleSlots marks Alloc as a multiple-slot storage.
func (*Alloc) MultipleSlots() {}

// PinsSlots marks Alloc as pinning.
func (*Alloc) PinsSlots() {}

// Close returns every live slot to the allocator. Outstanding handles become
// stale and Create fails with ErrClosed. Close is idempotent.
func (s *Alloc) Close() error {
	for id, slot := range s.slots {
		s.a.Deallocate(slot.mem, slot.layout)
		delete(s.slots, id)
	}
	s.slots = nil
	return nil
}

func (s *Alloc) insert(mem []byte, l layout.Layout) AllocHandle {
	s.next++
	s.slots[s.next] = &allocSlot{mem: mem[:l.Size], layout: l}
	return AllocHandle{owner: s.owner, id: s.next}
}

func (s *Alloc) lookup(h AllocHandle) (*allocSlot, error) {
	if h.owner == nil || h.owner != s.owner {
		return nil, ErrStaleHandle
	}
	slot, ok := s.slots[h.id]
	if !ok {
		return nil, ErrStaleHandle
	}
	return slot, nil
}
