package storage

import "github.com/joshuapare/slotkit/layout"

// Handle is the constraint satisfied by every backend's handle type.
// Handles are plain values: they can be copied, compared and used as map keys,
// and they own nothing.
type Handle interface {
	comparable
}

// Storage is the base capability: create, resolve and destroy slots.
type Storage[H Handle] interface {
	// Create makes a new slot of at least l. The slot bytes are not
	// initialised. A request the backend cannot hold fails; it is never
	// truncated.
	Create(l layout.Layout) (H, error)

	// Destroy releases the slot. The handle is invalid afterwards.
	Destroy(h H) error

	// Resolve returns the slot bytes. len is the slot's current size and the
	// first byte is aligned to the slot's alignment. The view is valid until
	// the slot is destroyed or resized; for backends without PinningStorage it
	// is also invalidated by moving the storage value.
	Resolve(h H) ([]byte, error)

	// Layout returns the layout the slot was created or last resized with.
	Layout(h H) (layout.Layout, error)
}

// SliceStorage can resize a slot.
//
// old must be the slot's current layout. On success the returned handle
// supersedes h (it may be equal to h when the backend resized in place) and
// the first min(old.Size, new.Size) bytes are preserved. On failure h remains
// valid and the slot is unchanged.
type SliceStorage[H Handle] interface {
	Storage[H]

	// Grow enlarges the slot to new. new.Size must be >= old.Size.
	Grow(h H, old, new layout.Layout) (H, error)

	// Shrink reduces the slot to new. new.Size must be <= old.Size. Shrinking
	// below the bytes in use is the caller's business.
	Shrink(h H, old, new layout.Layout) (H, error)
}

// MultipleStorage can hold any number of live, independent slots.
type MultipleStorage[H Handle] interface {
	Storage[H]

	// MultipleSlots marks the capability. It does nothing.
	MultipleSlots()
}

// SharedMutabilityStorage is a uniqueness barrier: the storage, rather than the
// caller's exclusive access to it, guarantees at most one live mutable view per
// handle.
type SharedMutabilityStorage[H Handle] interface {
	Storage[H]

	// Acquire returns the only mutable view of the slot until Release.
	// Acquiring a handle that is already acquired fails with ErrAliased, and
	// so does Resolve of an acquired handle.
	Acquire(h H) ([]byte, error)

	// Release ends the view obtained by Acquire.
	Release(h H) error
}

// PinningStorage never moves a slot for as long as it lives, including when the
// storage value itself is copied or moved.
type PinningStorage[H Handle] interface {
	Storage[H]

	// PinsSlots marks the capability. It does nothing.
	PinsSlots()
}

// Relocator is a pinning storage that exposes the one operation allowed to
// move a slot.
type Relocator[H Handle] interface {
	PinningStorage[H]

	// Relocate moves the slot to fresh memory and returns the handle that
	// supersedes h. The slot bytes are preserved.
	Relocate(h H) (H, error)
}
