package blend

import (
	"fmt"

	"github.com/gogpu/bmpblend/internal/wide"
)

// Strategy blends one row segment. dst and src have equal length, a
// multiple of BytesPerPixel.
type Strategy interface {
	// Name identifies the strategy ("scalar", "lanes8", "lanes32").
	Name() string

	// Width is the number of bytes processed per step.
	Width() int

	// BlendRow blends src onto dst in place.
	BlendRow(dst, src []byte)
}

var (
	// Scalar processes one pixel per step. It is the reference definition.
	Scalar Strategy = scalar{}

	// Lanes8 processes two pixels (8 bytes) per step.
	Lanes8 Strategy = lanes8{}

	// Lanes32 processes eight pixels (32 bytes) per step.
	Lanes32 Strategy = lanes32{}
)

// Strategies returns the built-in strategies, narrowest first.
func Strategies() []Strategy {
	return []Strategy{Scalar, Lanes8, Lanes32}
}

// StrategyByName resolves a strategy name. "auto" and "" return Select().
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "", "auto":
		return Select(), nil
	}
	for _, s := range Strategies() {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("blend: unknown strategy %q", name)
}

// blendPixel applies the reference formula to the colour bytes of one pixel.
func blendPixel(d, s []byte) {
	_ = d[3]
	_ = s[3]
	a := int32(s[3])
	for c := 0; c < 3; c++ {
		bg := int32(d[c])
		fg := int32(s[c])
		d[c] = uint8(bg + ((fg-bg)*a)>>8) // #nosec G115 -- result lies between bg and fg
	}
}

type scalar struct{}

func (scalar) Name() string { return "scalar" }
func (scalar) Width() int   { return BytesPerPixel }

func (scalar) BlendRow(dst, src []byte) {
	for i := 0; i+BytesPerPixel <= len(src); i += BytesPerPixel {
		blendPixel(dst[i:i+BytesPerPixel], src[i:i+BytesPerPixel])
	}
}

type lanes8 struct{}

func (lanes8) Name() string { return "lanes8" }
func (lanes8) Width() int   { return 8 }

func (lanes8) BlendRow(dst, src []byte) {
	n := len(src) &^ 7
	for i := 0; i < n; i += 8 {
		d := dst[i : i+8 : i+8]
		s := src[i : i+8 : i+8]
		bg := wide.LoadI32x8(d)
		fg := wide.LoadI32x8(s)
		fg.Sub(bg).Mul(wide.AlphaWeights8(s)).Shr8().Add(bg).Store(d)
	}
	// Remaining pixel
	scalar{}.BlendRow(dst[n:], src[n:])
}

type lanes32 struct{}

func (lanes32) Name() string { return "lanes32" }
func (lanes32) Width() int   { return 32 }

func (lanes32) BlendRow(dst, src []byte) {
	n := len(src) &^ 31
	for i := 0; i < n; i += 32 {
		d := dst[i : i+32 : i+32]
		s := src[i : i+32 : i+32]
		bg := wide.LoadI32x32(d)
		fg := wide.LoadI32x32(s)
		fg.Sub(bg).Mul(wide.AlphaWeights32(s)).Shr8().Add(bg).Store(d)
	}
	// Tail narrower than a full step goes through the 8-byte lanes, which
	// hand their own remainder to the scalar path.
	lanes8{}.BlendRow(dst[n:], src[n:])
}
