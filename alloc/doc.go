// Package alloc provides the allocator collaborator that allocator-backed
// storages delegate to.
//
// # Overview
//
// An Allocator hands out byte regions of a requested layout.Layout and takes
// them back. Allocators that can resize a region implement Grower and/or
// Shrinker; Resize uses them when present and falls back to
// allocate-copy-deallocate otherwise.
//
// # Implementations
//
// Heap: regions from the Go heap
//
//   - Over-allocates to honour any power-of-two alignment
//   - Grows in place while the backing array has room
//   - Deallocate is a no-op; the collector reclaims memory
//
// Mmap: anonymous private page mappings (off-heap)
//
//   - Page aligned; alignment above the page size is rejected
//   - Linux growth goes through mremap
//
// Null: always fails. Useful to prove that a code path never allocates.
//
// # Decorators
//
//   - Counting: allocation accounting with atomic counters (leak checks)
//   - Logged: traces every call to a *slog.Logger
//   - Instrumented: publishes Prometheus counters and a live-bytes gauge
//
// # Usage Example
//
//	counter := alloc.NewCounting(alloc.Heap{})
//	mem, err := counter.Allocate(layout.Layout{Size: 64, Align: 16})
//	if err != nil {
//	    return err
//	}
//	// ... use mem ...
//	counter.Deallocate(mem, layout.Layout{Size: 64, Align: 16})
//	if counter.Stats().Live() != 0 {
//	    // leak
//	}
//
// # Failure
//
// Allocators never retry. Callers (the storages) propagate errors unchanged.
//
// # Thread Safety
//
// Heap, Null, Counting, Logged and Instrumented are safe for concurrent use.
// Mmap is as safe as the system calls it wraps.
package alloc
