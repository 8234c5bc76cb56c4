package blend

import (
	"bytes"
	"image"
	"math/rand/v2"
	"testing"
)

func newSurface(w, h int) Surface {
	return Surface{Pix: make([]byte, w*h*BytesPerPixel), Width: w, Height: h}
}

func fill(s Surface, b, g, r, a byte) {
	for i := 0; i < len(s.Pix); i += 4 {
		s.Pix[i+0] = b
		s.Pix[i+1] = g
		s.Pix[i+2] = r
		s.Pix[i+3] = a
	}
}

func randomSurface(rng *rand.Rand, w, h int) Surface {
	s := newSurface(w, h)
	for i := range s.Pix {
		s.Pix[i] = byte(rng.UintN(256))
	}
	return s
}

// reference is an independent per-pixel rendition of the formula with
// explicit floor division.
func reference(bg, fg, a int) byte {
	d := (fg - bg) * a
	q := d / 256
	if d%256 != 0 && d < 0 {
		q--
	}
	return byte(bg + q)
}

func TestBlendDocumentedExample(t *testing.T) {
	bg := Surface{
		Pix:    []byte{100, 100, 100, 255, 50, 50, 50, 255},
		Width:  2,
		Height: 1,
	}
	fg := Surface{Pix: []byte{200, 0, 0, 128}, Width: 1, Height: 1}

	for _, s := range Strategies() {
		t.Run(s.Name(), func(t *testing.T) {
			dst := Surface{Pix: bytes.Clone(bg.Pix), Width: 2, Height: 1}
			Blend(dst, fg, 0, 0, s)
			want := []byte{150, 50, 50, 255, 50, 50, 50, 255}
			if !bytes.Equal(dst.Pix, want) {
				t.Errorf("Pix = %v, want %v", dst.Pix, want)
			}
		})
	}
}

func TestBlendZeroAlphaIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	bg := randomSurface(rng, 37, 11)
	fg := randomSurface(rng, 29, 7)
	for i := 3; i < len(fg.Pix); i += 4 {
		fg.Pix[i] = 0
	}

	for _, s := range Strategies() {
		t.Run(s.Name(), func(t *testing.T) {
			dst := Surface{Pix: bytes.Clone(bg.Pix), Width: bg.Width, Height: bg.Height}
			Blend(dst, fg, 3, 2, s)
			if !bytes.Equal(dst.Pix, bg.Pix) {
				t.Error("alpha 0 foreground modified the background")
			}
		})
	}
}

func TestBlendOpaqueBoundary(t *testing.T) {
	// With alpha 255 the shift yields bg + floor((fg-bg)*255/256), which is
	// exactly fg only when fg == bg.
	tests := []struct {
		name   string
		bg, fg byte
		want   byte
	}{
		{"black to white", 0, 255, 254},
		{"white to black", 255, 0, 0},
		{"equal", 77, 77, 77},
		{"small rise", 10, 11, 10},
		{"small fall", 11, 10, 10},
		{"mid rise", 100, 200, 199},
		{"mid fall", 200, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range Strategies() {
				dst := newSurface(9, 1)
				fill(dst, tt.bg, tt.bg, tt.bg, 42)
				src := newSurface(9, 1)
				fill(src, tt.fg, tt.fg, tt.fg, 255)
				Blend(dst, src, 0, 0, s)
				for i := 0; i < len(dst.Pix); i += 4 {
					for c := 0; c < 3; c++ {
						if dst.Pix[i+c] != tt.want {
							t.Fatalf("%s: byte %d = %d, want %d", s.Name(), i+c, dst.Pix[i+c], tt.want)
						}
					}
					if dst.Pix[i+3] != 42 {
						t.Fatalf("%s: alpha byte %d = %d, want 42", s.Name(), i+3, dst.Pix[i+3])
					}
				}
			}
		})
	}
}

func TestBlendMatchesReferenceFormula(t *testing.T) {
	for bg := 0; bg < 256; bg += 3 {
		for fg := 0; fg < 256; fg += 5 {
			for _, a := range []int{0, 1, 127, 128, 129, 254, 255} {
				d := []byte{byte(bg), byte(bg), byte(bg), 9}
				s := []byte{byte(fg), byte(fg), byte(fg), byte(a)}
				blendPixel(d, s)
				if want := reference(bg, fg, a); d[0] != want {
					t.Fatalf("bg=%d fg=%d a=%d: got %d, want %d", bg, fg, a, d[0], want)
				}
			}
		}
	}
}

func TestBlendBackgroundAlphaUntouched(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	bg := randomSurface(rng, 40, 5)
	fg := randomSurface(rng, 40, 5)

	for _, s := range Strategies() {
		dst := Surface{Pix: bytes.Clone(bg.Pix), Width: bg.Width, Height: bg.Height}
		Blend(dst, fg, 0, 0, s)
		for i := 3; i < len(dst.Pix); i += 4 {
			if dst.Pix[i] != bg.Pix[i] {
				t.Fatalf("%s: alpha byte %d changed from %d to %d", s.Name(), i, bg.Pix[i], dst.Pix[i])
			}
		}
	}
}

func TestClip(t *testing.T) {
	dst := newSurface(10, 8)
	src := newSurface(4, 3)

	tests := []struct {
		name string
		x, y int
		want image.Rectangle
	}{
		{"inside", 2, 2, image.Rect(2, 2, 6, 5)},
		{"right edge", 8, 1, image.Rect(8, 1, 10, 4)},
		{"bottom edge", 1, 6, image.Rect(1, 6, 5, 8)},
		{"corner", 9, 7, image.Rect(9, 7, 10, 8)},
		{"negative origin", -2, -1, image.Rect(0, 0, 2, 2)},
		{"fully right", 10, 0, image.Rectangle{}},
		{"fully below", 0, 8, image.Rectangle{}},
		{"fully left", -4, 0, image.Rectangle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clip(dst, src, tt.x, tt.y)
			if got.Empty() && tt.want.Empty() {
				return
			}
			if got != tt.want {
				t.Errorf("Clip() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlendClipsToBackground(t *testing.T) {
	const bw, bh = 10, 6
	rng := rand.New(rand.NewPCG(5, 6))
	fg := randomSurface(rng, 5, 4)
	for i := 3; i < len(fg.Pix); i += 4 {
		fg.Pix[i] = 255
	}

	positions := []image.Point{{7, 4}, {-3, -2}, {8, -1}, {-1, 5}, {20, 20}, {-10, 0}}
	for _, pos := range positions {
		for _, s := range Strategies() {
			dst := newSurface(bw, bh)
			fill(dst, 0, 0, 0, 255)
			orig := bytes.Clone(dst.Pix)

			r := Blend(dst, fg, pos.X, pos.Y, s)
			if len(dst.Pix) != bw*bh*4 {
				t.Fatalf("%s at %v: background length changed", s.Name(), pos)
			}
			for y := 0; y < bh; y++ {
				for x := 0; x < bw; x++ {
					i := (y*bw + x) * 4
					inside := image.Pt(x, y).In(r)
					changed := !bytes.Equal(dst.Pix[i:i+4], orig[i:i+4])
					if changed && !inside {
						t.Fatalf("%s at %v: pixel (%d,%d) outside %v was written", s.Name(), pos, x, y, r)
					}
					if inside {
						j := ((y-pos.Y)*fg.Width + (x - pos.X)) * 4
						for c := 0; c < 3; c++ {
							if want := reference(0, int(fg.Pix[j+c]), 255); dst.Pix[i+c] != want {
								t.Fatalf("%s at %v: pixel (%d,%d) channel %d = %d, want %d",
									s.Name(), pos, x, y, c, dst.Pix[i+c], want)
							}
						}
					}
				}
			}
		}
	}
}

func TestLaneStrategiesMatchScalar(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	// Widths cover every remainder modulo both lane steps.
	for w := 1; w <= 41; w++ {
		bg := randomSurface(rng, 48, 5)
		fg := randomSurface(rng, w, 4)
		x := int(rng.IntN(8)) - 2
		y := int(rng.IntN(3)) - 1

		want := Surface{Pix: bytes.Clone(bg.Pix), Width: bg.Width, Height: bg.Height}
		Blend(want, fg, x, y, Scalar)

		for _, s := range []Strategy{Lanes8, Lanes32} {
			got := Surface{Pix: bytes.Clone(bg.Pix), Width: bg.Width, Height: bg.Height}
			Blend(got, fg, x, y, s)
			if !bytes.Equal(got.Pix, want.Pix) {
				t.Fatalf("%s differs from scalar for foreground width %d at (%d,%d)", s.Name(), w, x, y)
			}
		}
	}
}

func TestStrategyByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"scalar", "scalar", false},
		{"lanes8", "lanes8", false},
		{"lanes32", "lanes32", false},
		{"auto", Select().Name(), false},
		{"", Select().Name(), false},
		{"avx512", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := StrategyByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("StrategyByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && s.Name() != tt.want {
				t.Errorf("StrategyByName(%q) = %s, want %s", tt.name, s.Name(), tt.want)
			}
		})
	}
}

func TestStrategyWidths(t *testing.T) {
	want := map[string]int{"scalar": 4, "lanes8": 8, "lanes32": 32}
	for _, s := range Strategies() {
		if s.Width() != want[s.Name()] {
			t.Errorf("%s.Width() = %d, want %d", s.Name(), s.Width(), want[s.Name()])
		}
	}
}
