package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slotkit/alloc"
	"github.com/joshuapare/slotkit/layout"
)

// alignedBuffer returns n bytes aligned to 64.
func alignedBuffer(t *testing.T, n int) []byte {
	t.Helper()
	buf, err := alloc.Heap{}.Allocate(layout.Layout{Size: n, Align: 64})
	require.NoError(t, err)
	return buf
}

func TestBorrowed_WritesLandInBuffer(t *testing.T) {
	buf := alignedBuffer(t, 64)
	s := NewBorrowed(buf)

	h, err := s.Create(layout.Layout{Size: 16, Align: 8})
	require.NoError(t, err)
	b, err := s.Resolve(h)
	require.NoError(t, err)
	assert.Equal(t, addr(buf), addr(b))

	fill(b)
	requireFilled(t, buf, 16)

	require.NoError(t, s.Destroy(h))
	requireFilled(t, buf, 16)
}

func TestBorrowed_Capacity(t *testing.T) {
	buf := alignedBuffer(t, 64)

	s := NewBorrowed(buf)
	assert.Equal(t, 64, s.Capacity().Size)
	assert.GreaterOrEqual(t, s.Capacity().Align, 64)

	_, err := s.Create(layout.Bytes(65))
	require.ErrorIs(t, err, ErrCapacity)

	// An odd address only supports byte alignment.
	odd := NewBorrowed(buf[1:])
	assert.Equal(t, layout.Layout{Size: 63, Align: 1}, odd.Capacity())
	_, err = odd.Create(layout.Layout{Size: 8, Align: 8})
	require.ErrorIs(t, err, ErrCapacity)
}

func TestBorrowed_EmptyBuffer(t *testing.T) {
	s := NewBorrowed(nil)
	h, err := s.Create(layout.Bytes(0))
	require.NoError(t, err)
	b, err := s.Resolve(h)
	require.NoError(t, err)
	assert.Empty(t, b)

	_, err = s.Grow(h, layout.Bytes(0), layout.Bytes(1))
	require.ErrorIs(t, err, ErrCapacity)
}

func TestBorrowed_ResizeInPlace(t *testing.T) {
	buf := alignedBuffer(t, 64)
	s := NewBorrowed(buf)

	old := layout.Bytes(8)
	h, err := s.Create(old)
	require.NoError(t, err)
	b, err := s.Resolve(h)
	require.NoError(t, err)
	fill(b)

	nh, err := s.Grow(h, old, layout.Bytes(64))
	require.NoError(t, err)
	assert.Equal(t, h, nh)
	b, err = s.Resolve(nh)
	require.NoError(t, err)
	assert.Len(t, b, 64)
	requireFilled(t, b, 8)

	_, err = s.Grow(nh, layout.Bytes(64), layout.Bytes(65))
	require.ErrorIs(t, err, ErrCapacity)

	nh, err = s.Shrink(nh, layout.Bytes(64), layout.Bytes(2))
	require.NoError(t, err)
	b, err = s.Resolve(nh)
	require.NoError(t, err)
	assert.Len(t, b, 2)
}

func TestBorrowed_PinnedAcrossMove(t *testing.T) {
	buf := alignedBuffer(t, 32)
	s := NewBorrowed(buf)
	h, err := s.Create(layout.Bytes(32))
	require.NoError(t, err)

	moved := *s
	b, err := moved.Resolve(h)
	require.NoError(t, err)
	assert.Equal(t, addr(buf), addr(b))
}

func TestBorrowed_SingleSlot(t *testing.T) {
	s := NewBorrowed(make([]byte, 16))
	h, err := s.Create(layout.Bytes(4))
	require.NoError(t, err)
	_, err = s.Create(layout.Bytes(4))
	require.ErrorIs(t, err, ErrOccupied)

	other := NewBorrowed(make([]byte, 16))
	_, err = other.Resolve(h)
	require.ErrorIs(t, err, ErrStaleHandle)
}
