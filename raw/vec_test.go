package raw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slotkit/alloc"
	"github.com/joshuapare/slotkit/internal/testutil"
	"github.com/joshuapare/slotkit/layout"
	"github.com/joshuapare/slotkit/storage"
)

func TestVec_GrowKeepsValues(t *testing.T) {
	c := alloc.NewCounting(alloc.Heap{})
	v, err := WithCapacity[uint32, storage.AllocHandle](storage.NewAlloc(c), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Cap())

	s, err := v.Slice()
	require.NoError(t, err)
	require.Len(t, s, 4)
	for i := range s {
		s[i] = uint32(i + 1)
	}

	require.NoError(t, v.GrowTo(8))
	assert.Equal(t, 8, v.Cap())

	s, err = v.Slice()
	require.NoError(t, err)
	require.Len(t, s, 8)
	assert.Equal(t, []uint32{1, 2, 3, 4}, s[:4])

	require.NoError(t, v.Close())
	testutil.RequireNoLeak(t, c.Stats())
}

func TestVec_EmptyHasNoView(t *testing.T) {
	v, err := NewVec[uint64, storage.AllocHandle](storage.NewAlloc(nil))
	require.NoError(t, err)
	assert.Zero(t, v.Cap())

	s, err := v.Slice()
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Equal(t, layout.Layout{Size: 0, Align: 8}, v.Layout())
}

func TestVec_GrowToIsExact(t *testing.T) {
	v, err := NewVec[uint16, storage.AllocHandle](storage.NewAlloc(nil))
	require.NoError(t, err)

	require.NoError(t, v.GrowTo(3))
	assert.Equal(t, 3, v.Cap())
	require.NoError(t, v.GrowTo(2))
	assert.Equal(t, 3, v.Cap(), "GrowTo never shrinks")
}

func TestVec_ShrinkKeepsPrefix(t *testing.T) {
	v, err := WithCapacity[uint64, storage.ArenaHandle](mustArena(t, 512), 16)
	require.NoError(t, err)
	s, err := v.Slice()
	require.NoError(t, err)
	for i := range s {
		s[i] = uint64(i) * 10
	}

	require.NoError(t, v.ShrinkTo(3))
	assert.Equal(t, 3, v.Cap())
	s, err = v.Slice()
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 10, 20}, s)

	require.NoError(t, v.ShrinkTo(5))
	assert.Equal(t, 3, v.Cap(), "ShrinkTo never grows")
	require.ErrorIs(t, v.ShrinkTo(-1), ErrLength)
}

func TestVec_Reserve(t *testing.T) {
	t.Run("bytes start at 8", func(t *testing.T) {
		v, err := NewVec[byte, storage.AllocHandle](storage.NewAlloc(nil))
		require.NoError(t, err)
		require.NoError(t, v.Reserve(0, 1))
		assert.Equal(t, 8, v.Cap())
	})
	t.Run("words start at 4", func(t *testing.T) {
		v, err := NewVec[uint32, storage.AllocHandle](storage.NewAlloc(nil))
		require.NoError(t, err)
		require.NoError(t, v.Reserve(0, 1))
		assert.Equal(t, 4, v.Cap())
	})
	t.Run("large elements start at 1", func(t *testing.T) {
		v, err := NewVec[[2048]byte, storage.AllocHandle](storage.NewAlloc(nil))
		require.NoError(t, err)
		require.NoError(t, v.Reserve(0, 1))
		assert.Equal(t, 1, v.Cap())
	})
	t.Run("doubles", func(t *testing.T) {
		v, err := WithCapacity[uint32, storage.AllocHandle](storage.NewAlloc(nil), 8)
		require.NoError(t, err)
		require.NoError(t, v.Reserve(8, 1))
		assert.Equal(t, 16, v.Cap())
	})
	t.Run("large request wins", func(t *testing.T) {
		v, err := WithCapacity[uint32, storage.AllocHandle](storage.NewAlloc(nil), 8)
		require.NoError(t, err)
		require.NoError(t, v.Reserve(2, 100))
		assert.Equal(t, 102, v.Cap())
	})
	t.Run("enough room", func(t *testing.T) {
		v, err := WithCapacity[uint32, storage.AllocHandle](storage.NewAlloc(nil), 8)
		require.NoError(t, err)
		require.NoError(t, v.Reserve(4, 4))
		assert.Equal(t, 8, v.Cap())
	})
}

func TestVec_ReserveOverflow(t *testing.T) {
	v, err := NewVec[uint32, storage.AllocHandle](storage.NewAlloc(nil))
	require.NoError(t, err)

	require.ErrorIs(t, v.Reserve(math.MaxInt, 1), layout.ErrOverflow)
	require.ErrorIs(t, v.Reserve(math.MaxInt/2, 0), layout.ErrOverflow)
	require.ErrorIs(t, v.Reserve(-1, 1), ErrLength)
	assert.Zero(t, v.Cap())
}

func TestVec_HugeGrowFails(t *testing.T) {
	c := alloc.NewCounting(alloc.Heap{})
	v, err := WithCapacity[uint8, storage.AllocHandle](storage.NewAlloc(c), 1)
	require.NoError(t, err)
	s, err := v.Slice()
	require.NoError(t, err)
	s[0] = 7

	require.NotPanics(t, func() {
		require.ErrorIs(t, v.GrowTo(1<<50), alloc.ErrOutOfMemory)
	})
	assert.Equal(t, 1, v.Cap())
	s, err = v.Slice()
	require.NoError(t, err)
	assert.Equal(t, []uint8{7}, s)

	require.NoError(t, v.Close())
	testutil.RequireNoLeak(t, c.Stats())
}

func TestVec_SliceWhileAcquired(t *testing.T) {
	s := storage.NewAlloc(nil)
	v, err := WithCapacity[uint16, storage.AllocHandle](s, 4)
	require.NoError(t, err)

	_, err = s.Acquire(v.Handle())
	require.NoError(t, err)
	_, err = v.Slice()
	require.ErrorIs(t, err, storage.ErrAliased)
	require.ErrorIs(t, v.GrowTo(8), storage.ErrAliased)

	require.NoError(t, s.Release(v.Handle()))
	got, err := v.Slice()
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestVec_InlineCapacityLimit(t *testing.T) {
	v, err := WithCapacity[uint32, storage.InlineHandle](storage.NewInline[[4]uint32](), 2)
	require.NoError(t, err)

	require.NoError(t, v.GrowTo(4))
	require.ErrorIs(t, v.GrowTo(5), storage.ErrCapacity)
	assert.Equal(t, 4, v.Cap())
}

func TestVec_SmallMigrates(t *testing.T) {
	s := storage.NewSmall[[4]uint32](nil)
	v, err := WithCapacity[uint32, storage.SmallHandle](s, 4)
	require.NoError(t, err)
	assert.Equal(t, storage.PlacementInline, v.Handle().Placement())

	vals, err := v.Slice()
	require.NoError(t, err)
	copy(vals, []uint32{7, 8, 9, 10})

	require.NoError(t, v.Reserve(4, 1))
	assert.Equal(t, storage.PlacementExternal, v.Handle().Placement())

	vals, err = v.Slice()
	require.NoError(t, err)
	assert.Equal(t, []uint32{7, 8, 9, 10}, vals[:4])
}

func TestVec_BorrowedBuffer(t *testing.T) {
	buf, err := alloc.Heap{}.Allocate(layout.Layout{Size: 64, Align: 8})
	require.NoError(t, err)

	v, err := WithCapacity[uint64, storage.BorrowedHandle](storage.NewBorrowed(buf), 2)
	require.NoError(t, err)
	s, err := v.Slice()
	require.NoError(t, err)
	s[0] = math.MaxUint64

	assert.Equal(t, byte(0xff), buf[0])
	require.NoError(t, v.GrowTo(8))
	require.ErrorIs(t, v.GrowTo(9), storage.ErrCapacity)
}

func TestVec_CloseAndParts(t *testing.T) {
	c := alloc.NewCounting(alloc.Heap{})
	s := storage.NewAlloc(c)
	v, err := WithCapacity[uint16, storage.AllocHandle](s, 10)
	require.NoError(t, err)

	h, st, n := v.IntoParts()
	require.ErrorIs(t, v.GrowTo(20), ErrClosed)

	again, err := VecFromParts[uint16](h, st, n)
	require.NoError(t, err)
	assert.Equal(t, 10, again.Cap())

	require.NoError(t, again.Close())
	require.ErrorIs(t, again.Close(), ErrClosed)
	testutil.RequireNoLeak(t, c.Stats())
}

func TestGrowCapacity(t *testing.T) {
	tests := []struct {
		current, required, elem, want int
	}{
		{0, 1, 1, 8},
		{0, 1, 4, 4},
		{0, 1, 1024, 4},
		{0, 1, 1025, 1},
		{4, 5, 4, 8},
		{4, 50, 4, 50},
		{math.MaxInt, math.MaxInt, 1, math.MaxInt},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GrowCapacity(tt.current, tt.required, tt.elem),
			"GrowCapacity(%d, %d, %d)", tt.current, tt.required, tt.elem)
	}
}

func mustArena(t *testing.T, capacity int) *storage.Arena {
	t.Helper()
	a, err := storage.NewArena(nil, capacity)
	require.NoError(t, err)
	return a
}
