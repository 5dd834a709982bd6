// Package raw provides the two owning wrappers built on package storage:
// Box, one value of type T in a storage slot, and Vec, an uninitialised
// buffer of T with a capacity.
//
// Erase and Take turn a Box from any backend, or a caller's value, into a
// DynBox, so code can hold boxes without naming where their bytes live.
//
// Neither wrapper tracks which elements are initialised or runs any cleanup
// for T. They only own the slot: Close destroys it and then closes the
// storage when the storage implements io.Closer.
//
// T must be pointer-free, since slot memory is not scanned by the garbage
// collector.
//
// Example:
//
//	s := storage.NewAlloc(alloc.Heap{})
//	v, err := raw.WithCapacity[uint32, storage.AllocHandle](s, 4)
//	if err != nil {
//	    return err
//	}
//	defer v.Close()
//
//	if err := v.Reserve(4, 1); err != nil {
//	    return err
//	}
package raw
