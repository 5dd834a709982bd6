package alloc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/slotkit/internal/align"
	"github.com/joshuapare/slotkit/internal/mmap"
	"github.com/joshuapare/slotkit/layout"
)

// Mmap allocates every region as its own anonymous page mapping.
//
// Regions are page aligned and live outside the Go heap; their addresses never
// change until Deallocate. Sizes are rounded up to whole pages internally, so
// Mmap suits large or long-lived slots rather than many small ones.
type Mmap struct{}

// Allocate maps enough pages for l.
func (Mmap) Allocate(l layout.Layout) ([]byte, error) {
	if err := checkLayout(l); err != nil {
		return nil, err
	}
	if l.Align > mmap.PageSize() {
		return nil, fmt.Errorf("%w: %d exceeds page size %d", ErrUnsupportedAlign, l.Align, mmap.PageSize())
	}
	if l.Size == 0 {
		return []byte{}, nil
	}
	data, err := mmap.Map(align.Up(l.Size, mmap.PageSize()))
	if err != nil {
		return nil, errors.Join(ErrOutOfMemory, err)
	}
	return data[:l.Size], nil
}

// Deallocate unmaps the region.
func (Mmap) Deallocate(mem []byte, _ layout.Layout) {
	if cap(mem) == 0 {
		return
	}
	// Munmap only fails for regions that were never mapped; nothing to recover.
	_ = mmap.Unmap(mem)
}

// Grow extends within the last mapped page, or remaps where the kernel
// supports it, or falls back to map-copy-unmap.
func (m Mmap) Grow(mem []byte, old, new layout.Layout) ([]byte, error) {
	if err := checkLayout(new); err != nil {
		return nil, err
	}
	if new.Align > mmap.PageSize() {
		return nil, fmt.Errorf("%w: %d exceeds page size %d", ErrUnsupportedAlign, new.Align, mmap.PageSize())
	}
	if new.Size <= cap(mem) {
		grown := mem[:new.Size]
		if old.Size < new.Size {
			clear(grown[old.Size:])
		}
		return grown, nil
	}
	if mmap.CanRemap && cap(mem) > 0 {
		data, err := mmap.Remap(mem, align.Up(new.Size, mmap.PageSize()))
		if err != nil {
			return nil, errors.Join(ErrOutOfMemory, err)
		}
		return data[:new.Size], nil
	}
	return moveResize(m, mem, old, new)
}

// Shrink keeps the mapping and only shortens the view.
func (Mmap) Shrink(mem []byte, _, new layout.Layout) ([]byte, error) {
	if err := checkLayout(new); err != nil {
		return nil, err
	}
	return mem[:new.Size], nil
}

var (
	_ Allocator = Mmap{}
	_ Grower    = Mmap{}
	_ Shrinker  = Mmap{}
)
