package alloc

import (
	"context"
	"log/slog"

	"github.com/joshuapare/slotkit/layout"
)

// Logged traces every call on the wrapped Allocator at debug level.
type Logged struct {
	inner Allocator
	log   *slog.Logger
}

// NewLogged wraps a. A nil logger falls back to slog.Default().
func NewLogged(a Allocator, log *slog.Logger) *Logged {
	if log == nil {
		log = slog.Default()
	}
	return &Logged{inner: a, log: log.With("component", "alloc")}
}

func (l *Logged) Allocate(lay layout.Layout) ([]byte, error) {
	mem, err := l.inner.Allocate(lay)
	l.trace("allocate", lay, lay, err)
	return mem, err
}

func (l *Logged) Deallocate(mem []byte, lay layout.Layout) {
	l.inner.Deallocate(mem, lay)
	l.trace("deallocate", lay, lay, nil)
}

func (l *Logged) Grow(mem []byte, old, new layout.Layout) ([]byte, error) {
	out, err := Resize(l.inner, mem, old, new)
	l.trace("grow", old, new, err)
	return out, err
}

func (l *Logged) Shrink(mem []byte, old, new layout.Layout) ([]byte, error) {
	out, err := Resize(l.inner, mem, old, new)
	l.trace("shrink", old, new, err)
	return out, err
}

func (l *Logged) trace(op string, old, new layout.Layout, err error) {
	ctx := context.Background()
	if err != nil {
		l.log.LogAttrs(ctx, slog.LevelWarn, op+" failed",
			slog.Int("size", new.Size), slog.Int("align", new.Align), slog.Any("err", err))
		return
	}
	if !l.log.Enabled(ctx, slog.LevelDebug) {
		return
	}
	attrs := []slog.Attr{slog.Int("size", new.Size), slog.Int("align", new.Align)}
	if old != new {
		attrs = append(attrs, slog.Int("old_size", old.Size))
	}
	l.log.LogAttrs(ctx, slog.LevelDebug, op, attrs...)
}

var (
	_ Allocator = (*Logged)(nil)
	_ Grower    = (*Logged)(nil)
	_ Shrinker  = (*Logged)(nil)
)
