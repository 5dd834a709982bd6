package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/slotkit/alloc"
	"github.com/joshuapare/slotkit/cmd/slotctl/logger"
)

// inlineBuffer sizes the inline backend and the inline part of small.
type (
	inlineBuffer = [512]uint64
	smallBuffer  = [64]uint64
)

// allocStack is the allocator chain a run draws from:
// base -> counting -> logged -> instrumented (when metrics are on).
type allocStack struct {
	top      alloc.Allocator
	counting *alloc.Counting
	registry *prometheus.Registry
}

func newAllocStack(name string, withMetrics bool) (*allocStack, error) {
	var base alloc.Allocator = alloc.Heap{}
	if name == "mmap" {
		base = alloc.Mmap{}
	}

	st := &allocStack{counting: alloc.NewCounting(base)}
	st.top = alloc.NewLogged(st.counting, logger.L)

	if withMetrics {
		st.registry = prometheus.NewRegistry()
		inst, err := alloc.NewInstrumented(st.top, st.registry)
		if err != nil {
			return nil, err
		}
		st.top = inst
	}
	return st, nil
}
