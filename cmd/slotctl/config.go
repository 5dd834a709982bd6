package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces the environment overrides, e.g. SLOTCTL_BACKEND.
const envPrefix = "SLOTCTL_"

var (
	backends   = []string{"inline", "alloc", "small", "borrowed", "arena"}
	allocators = []string{"heap", "mmap"}
	elemSizes  = []int{1, 2, 4, 8}
)

// Workload describes one run: which storage, which allocator and how many
// elements to push through a vector.
type Workload struct {
	Backend   string `yaml:"backend" env:"BACKEND"`
	Allocator string `yaml:"allocator" env:"ALLOCATOR"`
	Count     int    `yaml:"count" env:"COUNT"`
	Elem      int    `yaml:"elem" env:"ELEM"`

	// Capacity is the buffer size in bytes for the borrowed and arena backends.
	Capacity int `yaml:"capacity" env:"CAPACITY"`
}

func defaultWorkload() Workload {
	return Workload{
		Backend:   "alloc",
		Allocator: "heap",
		Count:     1000,
		Elem:      4,
		Capacity:  1 << 20,
	}
}

// loadWorkload layers defaults, the optional YAML file at path and SLOTCTL_*
// environment variables, in that order.
func loadWorkload(path string) (Workload, error) {
	w := defaultWorkload()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return w, fmt.Errorf("failed to read workload: %w", err)
		}
		if err := decodeWorkload(data, &w); err != nil {
			return w, fmt.Errorf("failed to parse workload %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&w, env.Options{Prefix: envPrefix}); err != nil {
		return w, fmt.Errorf("failed to read environment: %w", err)
	}
	return w, nil
}

func decodeWorkload(data []byte, w *Workload) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(w); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (w Workload) validate() error {
	if !slices.Contains(backends, w.Backend) {
		return fmt.Errorf("unknown backend %q (want one of %v)", w.Backend, backends)
	}
	if !slices.Contains(allocators, w.Allocator) {
		return fmt.Errorf("unknown allocator %q (want one of %v)", w.Allocator, allocators)
	}
	if !slices.Contains(elemSizes, w.Elem) {
		return fmt.Errorf("unsupported element size %d (want one of %v)", w.Elem, elemSizes)
	}
	if w.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", w.Count)
	}
	if w.Capacity < 0 {
		return fmt.Errorf("capacity must not be negative, got %d", w.Capacity)
	}
	return nil
}
