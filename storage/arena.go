package storage

import (
	"fmt"

	"github.com/joshuapare/slotkit/alloc"
	"github.com/joshuapare/slotkit/internal/align"
	"github.com/joshuapare/slotkit/internal/bounds"
	"github.com/joshuapare/slotkit/layout"
)

// ArenaAlign is the alignment of an arena's chunk and the largest slot
// alignment an Arena accepts.
const ArenaAlign = 64

// ArenaHandle identifies a slot of an Arena.
type ArenaHandle struct {
	owner *stamp
	epoch uint32
	index uint32
}

type arenaSlot struct {
	off      int
	layout   layout.Layout
	live     bool
	acquired bool
}

// Arena is a bump-pointer storage over one chunk obtained from an allocator
// up front.
//
// Key characteristics:
//   - O(1) Create: align the bump offset, advance it
//   - Destroy only reclaims space when the slot is the most recent one;
//     everything else stays dead until Reset
//   - Grow is in place for the most recent slot, by copy otherwise
//   - Slots never move, so Arena pins
//
// Reset invalidates every outstanding handle at once.
type Arena struct {
	a     alloc.Allocator
	chunk []byte
	size  layout.Layout

	// off is the bump pointer: the chunk offset where the next slot starts.
	off   int
	epoch uint32
	owner *stamp
	slots []arenaSlot
	live  int
}

var (
	_ SliceStorage[ArenaHandle]            = (*Arena)(nil)
	_ MultipleStorage[ArenaHandle]         = (*Arena)(nil)
	_ SharedMutabilityStorage[ArenaHandle] = (*Arena)(nil)
	_ PinningStorage[ArenaHandle]          = (*Arena)(nil)
)

// NewArena allocates a chunk of capacity bytes from a. A nil allocator means
// alloc.Heap.
func NewArena(a alloc.Allocator, capacity int) (*Arena, error) {
	if a == nil {
		a = alloc.Heap{}
	}
	size, err := layout.New(capacity, ArenaAlign)
	if err != nil {
		return nil, fmt.Errorf("storage: arena capacity: %w", err)
	}
	chunk, err := a.Allocate(size)
	if err != nil {
		return nil, err
	}
	return &Arena{
		a:     a,
		chunk: chunk[:capacity],
		size:  size,
		owner: new(stamp),
	}, nil
}

// Capacity returns the chunk size.
func (s *Arena) Capacity() int {
	return len(s.chunk)
}

// Remaining returns the bytes left above the bump pointer.
func (s *Arena) Remaining() int {
	return len(s.chunk) - s.off
}

// Slots returns the number of live slots.
func (s *Arena) Slots() int {
	return s.live
}

// Create bumps a new slot.
func (s *Arena) Create(l layout.Layout) (ArenaHandle, error) {
	if err := checkLayout(l); err != nil {
		return ArenaHandle{}, err
	}
	if s.chunk == nil {
		return ArenaHandle{}, ErrClosed
	}
	if l.Align > ArenaAlign {
		return ArenaHandle{}, fmt.Errorf("%w: alignment %d exceeds arena alignment %d", ErrCapacity, l.Align, ArenaAlign)
	}
	start := align.Up(s.off, l.Align)
	end, ok := bounds.Add(start, l.Size)
	if !ok || end > len(s.chunk) {
		return ArenaHandle{}, fmt.Errorf("%w: need %s, %d bytes remaining", ErrCapacity, l, s.Remaining())
	}
	s.off = end
	s.slots = append(s.slots, arenaSlot{off: start, layout: l, live: true})
	s.live++
	return ArenaHandle{owner: s.owner, epoch: s.epoch, index: uint32(len(s.slots) - 1)}, nil
}

// Destroy marks the slot dead. Its space is reclaimed only if nothing was
// bumped after it.
func (s *Arena) Destroy(h ArenaHandle) error {
	slot, err := s.lookup(h)
	if err != nil {
		return err
	}
	if slot.acquired {
		return ErrAliased
	}
	slot.live = false
	s.live--
	if s.isTop(slot) {
		s.off = slot.off
	}
	return nil
}

// Resolve returns the slot bytes. It fails with ErrAliased while the slot is
// acquired.
func (s *Arena) Resolve(h ArenaHandle) ([]byte, error) {
	slot, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	if slot.acquired {
		return nil, ErrAliased
	}
	return s.bytes(slot), nil
}

// Layout returns the slot layout.
func (s *Arena) Layout(h ArenaHandle) (layout.Layout, error) {
	slot, err := s.lookup(h)
	if err != nil {
		return layout.Layout{}, err
	}
	return slot.layout, nil
}

// Grow extends the most recent slot in place; other slots are copied to a new
// slot at the top of the arena.
func (s *Arena) Grow(h ArenaHandle, old, new layout.Layout) (ArenaHandle, error) {
	slot, err := s.lookup(h)
	if err != nil {
		return h, err
	}
	if slot.acquired {
		return h, ErrAliased
	}
	if err := checkResize(slot.layout, old, new, true); err != nil {
		return h, err
	}
	if s.isTop(slot) && align.Aligned(uintptr(slot.off), new.Align) && new.Align <= ArenaAlign {
		if end, ok := bounds.Add(slot.off, new.Size); ok && end <= len(s.chunk) {
			slot.layout = new
			s.off = end
			return h, nil
		}
	}
	return GrowByCopy[ArenaHandle](s, h, old, new)
}

// Shrink shortens the slot in place when its offset satisfies the new
// alignment. A shrunk top slot gives its tail back to the arena.
func (s *Arena) Shrink(h ArenaHandle, old, new layout.Layout) (ArenaHandle, error) {
	slot, err := s.lookup(h)
	if err != nil {
		return h, err
	}
	if slot.acquired {
		return h, ErrAliased
	}
	if err := checkResize(slot.layout, old, new, false); err != nil {
		return h, err
	}
	if !align.Aligned(uintptr(slot.off), new.Align) {
		return ShrinkByCopy[ArenaHandle](s, h, old, new)
	}
	top := s.isTop(slot)
	slot.layout = new
	if top {
		s.off = slot.off + new.Size
	}
	return h, nil
}

// Acquire returns the unique mutable view of the slot.
func (s *Arena) Acquire(h ArenaHandle) ([]byte, error) {
	slot, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	if slot.acquired {
		return nil, ErrAliased
	}
	slot.acquired = true
	return s.bytes(slot), nil
}

// Release ends the view returned by Acquire.
func (s *Arena) Release(h ArenaHandle) error {
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

// MultipleSlots marks Arena as a multiple-slot storage.
func (*Arena) MultipleSlots() {}

// PinsSlots marks Arena as pinning.
func (*Arena) PinsSlots() {}

// Reset discards every slot and rewinds the bump pointer. All outstanding
// handles become stale.
func (s *Arena) Reset() {
	s.epoch++
	s.slots = s.slots[:0]
	s.off = 0
	s.live = 0
}

// Close returns the chunk to the allocator. Outstanding handles become stale
// and Create fails with ErrClosed. Close is idempotent.
func (s *Arena) Close() error {
	if s.chunk == nil {
		return nil
	}
	s.Reset()
	s.a.Deallocate(s.chunk, s.size)
	s.chunk = nil
	s.slots = nil
	return nil
}

func (s *Arena) lookup(h ArenaHandle) (*arenaSlot, error) {
	if h.owner == nil || h.owner != s.owner || h.epoch != s.epoch || int(h.index) >= len(s.slots) {
		return nil, ErrStaleHandle
	}
	slot := &s.slots[h.index]
	if !slot.live {
		return nil, ErrStaleHandle
	}
	return slot, nil
}

func (s *Arena) isTop(slot *arenaSlot) bool {
	return slot.off+slot.layout.Size == s.off
}

func (s *Arena) bytes(slot *arenaSlot) []byte {
	end := slot.off + slot.layout.Size
	return s.chunk[slot.off:end:end]
}
