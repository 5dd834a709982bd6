package alloc

import (
	"fmt"

	"github.com/joshuapare/slotkit/internal/bounds"
	"github.com/joshuapare/slotkit/layout"
)

// Allocator hands out and takes back byte regions.
//
// Implementations:
//   - Heap: Go heap with alignment padding
//   - Mmap: anonymous page mappings
//   - Null: always fails
//
// Memory returned by Allocate has len == l.Size and its first byte is aligned
// to l.Align. The same layout must be passed back to Deallocate.
type Allocator interface {
	// Allocate returns a region for l, or an error. It never retries.
	Allocate(l layout.Layout) ([]byte, error)

	// Deallocate releases a region returned by Allocate, Grow or Shrink.
	Deallocate(mem []byte, l layout.Layout)
}

// Grower is implemented by allocators that can enlarge a region, possibly in
// place. The first old.Size bytes are preserved. On error mem is untouched.
type Grower interface {
	Grow(mem []byte, old, new layout.Layout) ([]byte, error)
}

// Shrinker is implemented by allocators that can shrink a region, possibly in
// place. The first new.Size bytes are preserved. On error mem is untouched.
type Shrinker interface {
	Shrink(mem []byte, old, new layout.Layout) ([]byte, error)
}

// Resize moves mem from layout old to layout new using a's Grower or Shrinker
// when available, and allocate-copy-deallocate otherwise. The first
// min(old.Size, new.Size) bytes are preserved.
func Resize(a Allocator, mem []byte, old, new layout.Layout) ([]byte, error) {
	if new.Size >= old.Size {
		if g, ok := a.(Grower); ok {
			return g.Grow(mem, old, new)
		}
	} else if s, ok := a.(Shrinker); ok {
		return s.Shrink(mem, old, new)
	}
	return moveResize(a, mem, old, new)
}

func moveResize(a Allocator, mem []byte, old, new layout.Layout) ([]byte, error) {
	out, err := a.Allocate(new)
	if err != nil {
		return nil, err
	}
	copy(out, mem[:bounds.Min(old.Size, new.Size)])
	a.Deallocate(mem, old)
	return out, nil
}

func checkLayout(l layout.Layout) error {
	if !l.Valid() {
		return fmt.Errorf("%w: %s", ErrBadLayout, l)
	}
	return nil
}
