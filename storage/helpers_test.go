package storage

import (
	"testing"
	"unsafe"

	"github.com/joshuapare/slotkit/internal/align"
	"github.com/joshuapare/slotkit/internal/testutil"
)

func fill(b []byte) {
	testutil.Fill(b)
}

func requireFilled(t *testing.T, b []byte, n int) {
	t.Helper()
	testutil.RequireFilled(t, b, n)
}

func addr(b []byte) uintptr {
	return align.Addr(b)
}

// asBytes views *p as bytes.
func asBytes[T any](p *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(*p))
}
