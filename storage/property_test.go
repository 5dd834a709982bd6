package storage

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slotkit/alloc"
	"github.com/joshuapare/slotkit/layout"
)

// tracked is a live slot and the byte every position of it was filled with.
type tracked[H Handle] struct {
	h    H
	l    layout.Layout
	mark byte
}

// randomOps drives a multiple-slot storage through random create, grow,
// shrink and destroy calls, checking after every step that no slot's bytes
// were disturbed by operations on another.
func randomOps[H Handle](t *testing.T, s interface {
	SliceStorage[H]
	MultipleStorage[H]
}, seed int64, steps int) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed)) // Fixed seed for reproducibility
	var live []tracked[H]

	check := func(step int) {
		for _, sl := range live {
			b, err := s.Resolve(sl.h)
			require.NoError(t, err, "step %d", step)
			require.Len(t, b, sl.l.Size, "step %d", step)
			for i, c := range b {
				if c != sl.mark {
					t.Fatalf("step %d: slot %v byte %d = 0x%x, want 0x%x", step, sl.l, i, c, sl.mark)
				}
			}
		}
	}
	paint := func(sl tracked[H]) {
		b, err := s.Resolve(sl.h)
		require.NoError(t, err)
		for i := range b {
			b[i] = sl.mark
		}
	}

	for step := range steps {
		switch op := rng.Intn(4); {
		case op == 0 || len(live) == 0: // create
			l := layout.Layout{Size: rng.Intn(200), Align: 1 << rng.Intn(5)}
			h, err := s.Create(l)
			if err != nil {
				require.ErrorIs(t, err, ErrCapacity, "step %d", step)
				continue
			}
			sl := tracked[H]{h: h, l: l, mark: byte(step)}
			paint(sl)
			live = append(live, sl)

		case op == 1: // grow
			i := rng.Intn(len(live))
			sl := live[i]
			nl := sl.l.WithSize(sl.l.Size + rng.Intn(100))
			h, err := s.Grow(sl.h, sl.l, nl)
			if err != nil {
				require.ErrorIs(t, err, ErrCapacity, "step %d", step)
				continue
			}
			b, err := s.Resolve(h)
			require.NoError(t, err)
			for j := range sl.l.Size {
				require.Equal(t, sl.mark, b[j], "step %d: grow lost byte %d", step, j)
			}
			sl.h, sl.l = h, nl
			paint(sl)
			live[i] = sl

		case op == 2: // shrink
			i := rng.Intn(len(live))
			sl := live[i]
			nl := sl.l.WithSize(rng.Intn(sl.l.Size + 1))
			h, err := s.Shrink(sl.h, sl.l, nl)
			require.NoError(t, err, "step %d", step)
			sl.h, sl.l = h, nl
			live[i] = sl

		default: // destroy
			i := rng.Intn(len(live))
			require.NoError(t, s.Destroy(live[i].h), "step %d", step)
			live = append(live[:i], live[i+1:]...)
		}
		check(step)
	}

	for _, sl := range live {
		require.NoError(t, s.Destroy(sl.h))
	}
}

func TestProperty_AllocRandomOps(t *testing.T) {
	for _, seed := range []int64{1, 42, 1337} {
		c := alloc.NewCounting(alloc.Heap{})
		s := NewAlloc(c)
		randomOps[AllocHandle](t, s, seed, 500)
		assert.False(t, c.Stats().Leaked(), "seed %d", seed)
	}
}

func TestProperty_AllocMmapRandomOps(t *testing.T) {
	c := alloc.NewCounting(alloc.Mmap{})
	s := NewAlloc(c)
	randomOps[AllocHandle](t, s, 7, 200)
	assert.False(t, c.Stats().Leaked())
}

func TestProperty_ArenaRandomOps(t *testing.T) {
	for _, seed := range []int64{1, 42, 1337} {
		s, err := NewArena(nil, 1<<14)
		require.NoError(t, err)
		randomOps[ArenaHandle](t, s, seed, 500)
		assert.Zero(t, s.Slots(), "seed %d", seed)
		require.NoError(t, s.Close())
	}
}
