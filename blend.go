package bmpblend

import (
	"context"
	"log/slog"

	"github.com/gogpu/bmpblend/internal/blend"
)

// Blend composites fg onto img with fg's first stored pixel placed at
// (x, y) of img's pixel grid, in storage row order. Each colour channel
// becomes bg + ((fg-bg)*alpha)>>8 using an arithmetic shift; img's alpha
// channel is left unchanged.
//
// Pixels of fg outside img are skipped, so x and y may be negative or
// place fg partly or wholly beyond img's edges. Channel layouts are not
// compared: both images are expected to share the same masks.
//
// fg is only read. fg must not be img.
func (img *Image) Blend(fg *Image, x, y int, opts ...BlendOption) {
	o := defaultBlendOptions()
	for _, opt := range opts {
		o = opt(o)
	}
	s := o.resolve()

	r := blend.Blend(img.surface(), fg.surface(), x, y, s)

	// Checked first so the hot path does not build log attributes.
	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("bmpblend: blend",
			"strategy", s.Name(),
			"x", x,
			"y", y,
			"rect", r.String())
	}
}
