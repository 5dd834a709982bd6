package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPow2(t *testing.T) {
	for _, a := range []int{1, 2, 4, 8, 4096, 1 << 30} {
		assert.True(t, IsPow2(a), "IsPow2(%d)", a)
	}
	for _, a := range []int{0, -1, -8, 3, 6, 12, 4095} {
		assert.False(t, IsPow2(a), "IsPow2(%d)", a)
	}
}

func TestUp(t *testing.T) {
	tests := []struct {
		n, a, want int
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{17, 16, 32},
		{4097, 4096, 8192},
		{5, 1, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Up(tt.n, tt.a), "Up(%d, %d)", tt.n, tt.a)
	}
}

func TestPadding(t *testing.T) {
	assert.Equal(t, 0, Padding(0x1000, 64))
	assert.Equal(t, 8, Padding(0x1008, 16))
	assert.Equal(t, 7, Padding(0x1001, 8))
}

func TestOf(t *testing.T) {
	assert.Equal(t, 64, Of(0x1000, 64))
	assert.Equal(t, 8, Of(0x1008, 64))
	assert.Equal(t, 1, Of(0x1001, 64))
	assert.Equal(t, 16, Of(0, 16))
}

func TestAligned(t *testing.T) {
	assert.True(t, Aligned(0x2000, 4096))
	assert.False(t, Aligned(0x2004, 8))
	assert.True(t, Aligned(0x2004, 4))
}

func TestAddr(t *testing.T) {
	assert.Zero(t, Addr(nil))
	b := make([]byte, 4)
	assert.NotZero(t, Addr(b))
	assert.Equal(t, Addr(b), Addr(b[:0]))
}
