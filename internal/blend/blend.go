// Package blend implements the alpha compositing kernel used to overlay one
// packed 4-channel pixel surface onto another.
//
// For each colour channel the result is
//
//	bg + ((fg - bg) * alpha) >> 8
//
// where the difference is signed and the shift is Go's arithmetic right
// shift, i.e. floor division by 256. Dividing by 256 rather than 255 is part
// of the contract: an opaque foreground (alpha 255) moves the background to
// within one step of the foreground, not exactly onto it. The alpha byte
// (offset 3) of the background is never written.
//
// The scalar definition is the reference. Every lane strategy must produce
// byte-identical output, including on the row tail that does not fill a
// whole lane step.
package blend

import "image"

// BytesPerPixel is the size of one packed pixel.
const BytesPerPixel = 4

// Surface is a view of packed 4-byte pixels stored row by row with no
// padding. len(Pix) must equal Width*Height*4.
type Surface struct {
	Pix    []byte
	Width  int
	Height int
}

// Bounds returns the surface rectangle [0,Width)×[0,Height).
func (s Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// Row returns the bytes of pixels [x0, x1) on row y.
func (s Surface) Row(y, x0, x1 int) []byte {
	off := y * s.Width * BytesPerPixel
	return s.Pix[off+x0*BytesPerPixel : off+x1*BytesPerPixel]
}

// Clip returns the rectangle of dst covered by src placed with its first
// pixel at (x, y), clipped to dst. The result is empty when nothing overlaps.
func Clip(dst, src Surface, x, y int) image.Rectangle {
	placed := src.Bounds().Add(image.Pt(x, y))
	return placed.Intersect(dst.Bounds())
}

// Blend composites src onto dst with src's pixel (0, 0) landing on dst's
// pixel (x, y). Pixels of src that fall outside dst are skipped. dst is
// modified in place; src is only read. It returns the destination rectangle
// that was written.
//
// dst and src must not overlap in memory.
func Blend(dst, src Surface, x, y int, s Strategy) image.Rectangle {
	r := Clip(dst, src, x, y)
	if r.Empty() {
		return r
	}

	sx0 := r.Min.X - x
	sx1 := r.Max.X - x
	for dy := r.Min.Y; dy < r.Max.Y; dy++ {
		sy := dy - y
		s.BlendRow(dst.Row(dy, r.Min.X, r.Max.X), src.Row(sy, sx0, sx1))
	}
	return r
}
