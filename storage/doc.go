// Package storage separates where the bytes of an object live from the
// container built on top of them.
//
// # Overview
//
// A storage instance owns zero or more slots: raw byte regions of a caller
// chosen layout.Layout. Create returns an opaque handle; the handle is handed
// back to the same instance to resolve the bytes, resize the slot or destroy
// it. Slot contents are never interpreted.
//
// # Capabilities
//
// The base capability is Storage. Extensions are independent interfaces a
// backend may or may not implement, and a consumer asks for exactly the set it
// needs:
//
//   - SliceStorage: Grow/Shrink a slot, preserving its leading bytes
//   - MultipleStorage: any number of live slots at once
//   - SharedMutabilityStorage: the storage enforces at most one mutable
//     view per handle (Acquire/Release)
//   - PinningStorage: slot addresses never change, even when the storage
//     value is moved; Relocator adds the one explicit move
//
// # Backends
//
//	Backend   Slots     Slice  Multiple  Shared  Pinning
//	Inline    1         yes    -         -       -
//	Alloc     many      yes    yes       yes     yes (+Relocate)
//	Small     1         yes    -         -       -
//	Borrowed  1         yes    -         -       yes
//	Ref       1 (fixed) -      -         -       yes
//	Arena     many      yes    yes       yes     yes
//	Dyn       1 (adopt) -      -         -       -
//
// Dyn creates nothing itself: it adopts a slot of another backend or caller
// memory so that owners from different backends share one storage type.
//
// # Handles
//
// Handles are small comparable values. Every instance stamps the handles it
// issues; presenting a handle to another instance, after Destroy, or after a
// resize superseded it fails with ErrStaleHandle instead of corrupting memory.
// This check is the one runtime cost the package adds over raw addresses.
//
// # Payloads
//
// Slot memory is plain bytes, either inside the storage value, on the Go heap
// or in anonymous mappings. The collector does not scan it for pointers, so
// typed views (see package raw) only accept pointer-free payload types.
//
// # Thread Safety
//
// Storage instances are not safe for concurrent use. The shared-mutability
// capability is aliasing discipline for a single owner, not a lock.
package storage
