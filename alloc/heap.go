package alloc

import (
	"fmt"

	"github.com/joshuapare/slotkit/internal/align"
	"github.com/joshuapare/slotkit/internal/bounds"
	"github.com/joshuapare/slotkit/layout"
)

// MaxHeapSize is the largest padded request Heap passes to the runtime.
// Larger requests fail with ErrOutOfMemory instead of panicking in make.
const MaxHeapSize uint64 = 1 << 40

// Heap allocates from the Go heap.
//
// Regions are carved out of a byte slice padded by Align-1 bytes so that the
// first byte lands on the requested alignment. The collector keeps a region
// alive for as long as a slice of it is reachable, so Deallocate does nothing.
// Heap is safe for concurrent use.
type Heap struct{}

// Allocate returns zeroed memory for l.
func (Heap) Allocate(l layout.Layout) ([]byte, error) {
	if err := checkLayout(l); err != nil {
		return nil, err
	}
	if l.Size == 0 {
		return []byte{}, nil
	}
	padded, ok := bounds.Add(l.Size, l.Align-1)
	if !ok || uint64(padded) > MaxHeapSize {
		return nil, fmt.Errorf("%w: heap request %s", ErrOutOfMemory, l)
	}
	raw := make([]byte, padded)
	off := align.Padding(align.Addr(raw), l.Align)
	return raw[off : off+l.Size], nil
}

// Deallocate is a no-op.
func (Heap) Deallocate([]byte, layout.Layout) {}

// Grow extends mem in place when its backing array has room and the alignment
// is unchanged, and moves it otherwise.
func (h Heap) Grow(mem []byte, old, new layout.Layout) ([]byte, error) {
	if err := checkLayout(new); err != nil {
		return nil, err
	}
	if new.Size <= cap(mem) && align.Aligned(align.Addr(mem), new.Align) {
		grown := mem[:new.Size]
		if old.Size < new.Size {
			clear(grown[old.Size:])
		}
		return grown, nil
	}
	return moveResize(h, mem, old, new)
}

// Shrink always succeeds in place when the alignment still holds.
func (h Heap) Shrink(mem []byte, old, new layout.Layout) ([]byte, error) {
	if err := checkLayout(new); err != nil {
		return nil, err
	}
	if align.Aligned(align.Addr(mem), new.Align) {
		return mem[:new.Size], nil
	}
	return moveResize(h, mem, old, new)
}

var (
	_ Allocator = Heap{}
	_ Grower    = Heap{}
	_ Shrinker  = Heap{}
)
