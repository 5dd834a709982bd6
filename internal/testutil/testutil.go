// Package testutil holds helpers shared by the slotkit tests.
package testutil

import (
	"testing"
)

// Pattern returns the byte Fill writes at index i.
func Pattern(i int) byte {
	return byte(i*7 + 3)
}

// Fill writes a position-dependent pattern into b so that moved or truncated
// copies can be told apart from zeroed memory.
//
// Example:
//
//	testutil.Fill(mem)
//	grown, _ := s.Grow(h, old, new)
//	testutil.RequireFilled(t, grown, old.Size)
func Fill(b []byte) {
	for i := range b {
		b[i] = Pattern(i)
	}
}

// RequireFilled fails the test unless the first n bytes of b carry the Fill
// pattern.
func RequireFilled(t testing.TB, b []byte, n int) {
	t.Helper()
	if len(b) < n {
		t.Fatalf("slice too short: len %d, want at least %d", len(b), n)
	}
	for i := range n {
		if b[i] != Pattern(i) {
			t.Fatalf("byte %d changed: got 0x%x want 0x%x", i, b[i], Pattern(i))
		}
	}
}

// Leaker is anything that can report outstanding allocations.
type Leaker interface {
	Leaked() bool
}

// RequireNoLeak fails the test if l reports outstanding allocations.
func RequireNoLeak(t testing.TB, l Leaker) {
	t.Helper()
	if l.Leaked() {
		t.Fatalf("leak detected: %+v", l)
	}
}
