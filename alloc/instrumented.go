package alloc

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/slotkit/layout"
)

// Operation labels used on the instrumented metrics.
const (
	OpAllocate   = "allocate"
	OpDeallocate = "deallocate"
	OpGrow       = "grow"
	OpShrink     = "shrink"
)

// Instrumented publishes Prometheus metrics for the wrapped Allocator:
//
//	slotkit_alloc_operations_total{op}  successful operations
//	slotkit_alloc_failures_total{op}    failed operations
//	slotkit_alloc_live_bytes            bytes currently handed out
type Instrumented struct {
	inner Allocator

	ops      *prometheus.CounterVec
	failures *prometheus.CounterVec
	live     prometheus.Gauge
}

// NewInstrumented wraps a and registers its collectors on reg. Collectors that
// are already registered (for example by a second wrapper on the same
// registry) are reused.
func NewInstrumented(a Allocator, reg prometheus.Registerer) (*Instrumented, error) {
	ops := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slotkit",
			Subsystem: "alloc",
			Name:      "operations_total",
			Help:      "Successful allocator operations by kind.",
		},
		[]string{"op"},
	)
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slotkit",
			Subsystem: "alloc",
			Name:      "failures_total",
			Help:      "Failed allocator operations by kind.",
		},
		[]string{"op"},
	)
	live := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "slotkit",
		Subsystem: "alloc",
		Name:      "live_bytes",
		Help:      "Bytes currently handed out by the allocator.",
	})

	var err error
	if ops, err = register(reg, ops); err != nil {
		return nil, err
	}
	if failures, err = register(reg, failures); err != nil {
		return nil, err
	}
	if live, err = register(reg, live); err != nil {
		return nil, err
	}

	return &Instrumented{inner: a, ops: ops, failures: failures, live: live}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("alloc: register metrics: %w", err)
	}
	return c, nil
}

func (m *Instrumented) Allocate(l layout.Layout) ([]byte, error) {
	mem, err := m.inner.Allocate(l)
	if err != nil {
		m.failures.WithLabelValues(OpAllocate).Inc()
		return nil, err
	}
	m.ops.WithLabelValues(OpAllocate).Inc()
	m.live.Add(float64(l.Size))
	return mem, nil
}

func (m *Instrumented) Deallocate(mem []byte, l layout.Layout) {
	m.inner.Deallocate(mem, l)
	m.ops.WithLabelValues(OpDeallocate).Inc()
	m.live.Sub(float64(l.Size))
}

func (m *Instrumented) Grow(mem []byte, old, new layout.Layout) ([]byte, error) {
	return m.resize(OpGrow, mem, old, new)
}

func (m *Instrumented) Shrink(mem []byte, old, new layout.Layout) ([]byte, error) {
	return m.resize(OpShrink, mem, old, new)
}

func (m *Instrumented) resize(op string, mem []byte, old, new layout.Layout) ([]byte, error) {
	out, err := Resize(m.inner, mem, old, new)
	if err != nil {
		m.failures.WithLabelValues(op).Inc()
		return nil, err
	}
	m.ops.WithLabelValues(op).Inc()
	m.live.Add(float64(new.Size - old.Size))
	return out, nil
}

var (
	_ Allocator = (*Instrumented)(nil)
	_ Grower    = (*Instrumented)(nil)
	_ Shrinker  = (*Instrumented)(nil)
)
