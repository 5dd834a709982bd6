package alloc

import "github.com/joshuapare/slotkit/layout"

// Null refuses every request. A storage built on Null proves that a code path
// never reaches the allocator.
type Null struct{}

// Allocate always fails with ErrOutOfMemory.
func (Null) Allocate(layout.Layout) ([]byte, error) {
	return nil, ErrOutOfMemory
}

// Deallocate panics: Null never handed out memory.
func (Null) Deallocate([]byte, layout.Layout) {
	panic("alloc: Null.Deallocate called")
}

var _ Allocator = Null{}
