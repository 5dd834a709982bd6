package alloc

import (
	"sync/atomic"

	"github.com/joshuapare/slotkit/layout"
)

// Stats is a snapshot of a Counting allocator.
type Stats struct {
	Allocations   int64 // successful Allocate calls
	Deallocations int64 // Deallocate calls
	Resizes       int64 // successful Grow/Shrink calls
	Failures      int64 // failed Allocate/Grow/Shrink calls
	LiveBytes     int64 // bytes currently handed out
	PeakBytes     int64 // high-water mark of LiveBytes
}

// Outstanding returns the number of regions allocated and not yet released.
func (s Stats) Outstanding() int64 {
	return s.Allocations - s.Deallocations
}

// Leaked reports whether any region or byte is still outstanding.
func (s Stats) Leaked() bool {
	return s.Outstanding() != 0 || s.LiveBytes != 0
}

// Counting wraps an Allocator and keeps allocation accounting.
//
// Counters are atomic, so a Counting allocator may be shared between
// goroutines if the wrapped allocator allows it.
type Counting struct {
	inner Allocator

	allocs   atomic.Int64
	deallocs atomic.Int64
	resizes  atomic.Int64
	failures atomic.Int64
	live     atomic.Int64
	peak     atomic.Int64
}

// NewCounting wraps a.
func NewCounting(a Allocator) *Counting {
	return &Counting{inner: a}
}

// Allocate forwards to the wrapped allocator and records the outcome.
func (c *Counting) Allocate(l layout.Layout) ([]byte, error) {
	mem, err := c.inner.Allocate(l)
	if err != nil {
		c.failures.Add(1)
		return nil, err
	}
	c.allocs.Add(1)
	c.addLive(int64(l.Size))
	return mem, nil
}

// Deallocate forwards to the wrapped allocator and records the release.
func (c *Counting) Deallocate(mem []byte, l layout.Layout) {
	c.inner.Deallocate(mem, l)
	c.deallocs.Add(1)
	c.addLive(-int64(l.Size))
}

// Grow resizes through the wrapped allocator. A resize keeps the region
// count unchanged and only moves the byte accounting.
func (c *Counting) Grow(mem []byte, old, new layout.Layout) ([]byte, error) {
	return c.resize(mem, old, new)
}

// Shrink is Grow's counterpart.
func (c *Counting) Shrink(mem []byte, old, new layout.Layout) ([]byte, error) {
	return c.resize(mem, old, new)
}

func (c *Counting) resize(mem []byte, old, new layout.Layout) ([]byte, error) {
	out, err := Resize(c.inner, mem, old, new)
	if err != nil {
		c.failures.Add(1)
		return nil, err
	}
	c.resizes.Add(1)
	c.addLive(int64(new.Size - old.Size))
	return out, nil
}

func (c *Counting) addLive(delta int64) {
	live := c.live.Add(delta)
	for {
		peak := c.peak.Load()
		if live <= peak || c.peak.CompareAndSwap(peak, live) {
			return
		}
	}
}

// Stats returns a snapshot of the counters.
func (c *Counting) Stats() Stats {
	return Stats{
		Allocations:   c.allocs.Load(),
		Deallocations: c.deallocs.Load(),
		Resizes:       c.resizes.Load(),
		Failures:      c.failures.Load(),
		LiveBytes:     c.live.Load(),
		PeakBytes:     c.peak.Load(),
	}
}

var (
	_ Allocator = (*Counting)(nil)
	_ Grower    = (*Counting)(nil)
	_ Shrinker  = (*Counting)(nil)
)
