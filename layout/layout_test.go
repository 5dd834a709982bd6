package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pod struct {
	A uint32
	B [3]uint16
	C float64
}

type withPtr struct {
	A uint32
	P *int
}

func TestNew(t *testing.T) {
	l, err := New(24, 8)
	require.NoError(t, err)
	assert.Equal(t, Layout{Size: 24, Align: 8}, l)
	assert.True(t, l.Valid())

	_, err = New(8, 3)
	require.ErrorIs(t, err, ErrAlign)

	_, err = New(8, 0)
	require.ErrorIs(t, err, ErrAlign)

	_, err = New(-1, 8)
	require.ErrorIs(t, err, ErrSize)
}

func TestOf(t *testing.T) {
	assert.Equal(t, Layout{Size: 4, Align: 4}, Of[uint32]())
	assert.Equal(t, Layout{Size: 1, Align: 1}, Of[byte]())
	assert.Equal(t, Layout{Size: 0, Align: 1}, Of[struct{}]())

	l := Of[pod]()
	assert.Equal(t, 8, l.Align)
	assert.Equal(t, 24, l.Size)
}

func TestArray(t *testing.T) {
	l, err := Array[uint32](4)
	require.NoError(t, err)
	assert.Equal(t, Layout{Size: 16, Align: 4}, l)

	l, err = Array[uint64](0)
	require.NoError(t, err)
	assert.Equal(t, Layout{Size: 0, Align: 8}, l)

	_, err = Array[uint64](math.MaxInt / 4)
	require.ErrorIs(t, err, ErrOverflow)

	_, err = Array[uint64](-1)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestFits(t *testing.T) {
	outer := Layout{Size: 16, Align: 8}
	assert.True(t, Fits(Layout{Size: 16, Align: 8}, outer))
	assert.True(t, Fits(Layout{Size: 1, Align: 1}, outer))
	assert.False(t, Fits(Layout{Size: 17, Align: 1}, outer))
	assert.False(t, Fits(Layout{Size: 8, Align: 16}, outer))
}

func TestPadded(t *testing.T) {
	assert.Equal(t, 16, Layout{Size: 9, Align: 8}.Padded())
	assert.Equal(t, 0, Layout{Size: 0, Align: 8}.Padded())
	assert.Equal(t, Layout{Size: 3, Align: 8}, Layout{Size: 9, Align: 8}.WithSize(3))
	assert.Equal(t, Layout{Size: 5, Align: 1}, Bytes(5))
}

func TestPointerFree(t *testing.T) {
	assert.True(t, PointerFree[uint64]())
	assert.True(t, PointerFree[[8]byte]())
	assert.True(t, PointerFree[pod]())
	assert.True(t, PointerFree[struct{}]())
	assert.True(t, PointerFree[[0]*int]())

	assert.False(t, PointerFree[*int]())
	assert.False(t, PointerFree[string]())
	assert.False(t, PointerFree[[]byte]())
	assert.False(t, PointerFree[map[int]int]())
	assert.False(t, PointerFree[withPtr]())
	assert.False(t, PointerFree[[2]withPtr]())
	assert.False(t, PointerFree[any]())
}
