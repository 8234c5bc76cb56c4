package bmpblend

import (
	"image"
	"math/bits"

	"github.com/zeebo/blake3"

	"github.com/gogpu/bmpblend/internal/blend"
	"github.com/gogpu/bmpblend/internal/pixbuf"
)

// Image is a decoded 32-bit bitmap. It exclusively owns its pixel buffer.
//
// Images are created by Decode, Load, Clone and Move. Header fields never
// change after creation; only Blend mutates the pixel bytes.
//
// Thread safety: concurrent reads are safe. Blend on the same background
// must be serialized by the caller.
type Image struct {
	hdr     header
	variant Variant
	pix     *pixbuf.Buffer
}

// Width returns the width in pixels.
func (img *Image) Width() int { return int(img.hdr.width) }

// Height returns the height in pixels.
func (img *Image) Height() int { return int(img.hdr.height) }

// Compression returns the declared bitfield scheme.
func (img *Image) Compression() Compression { return img.hdr.compression }

// Masks returns the declared channel masks.
func (img *Image) Masks() Masks { return img.hdr.masks }

// ColorSpace returns the colour-space tag.
func (img *Image) ColorSpace() uint32 { return img.hdr.colorSpace }

// Variant returns the header version the image was decoded from.
// Encode always writes V4.
func (img *Image) Variant() Variant { return img.variant }

// FileSize returns the file size declared by the source header.
func (img *Image) FileSize() uint32 { return img.hdr.fileSize }

// PixelOffset returns the pixel data offset, normalized to V4 layout.
func (img *Image) PixelOffset() uint32 { return img.hdr.pixelOffset }

// ImageSize returns the image byte count declared by the source header.
func (img *Image) ImageSize() uint32 { return img.hdr.imageSize }

// PixelsPerMeter returns the declared horizontal and vertical density.
func (img *Image) PixelsPerMeter() (x, y int32) { return img.hdr.xppm, img.hdr.yppm }

// ColorsImportant returns the declared important-colour count.
func (img *Image) ColorsImportant() uint32 { return img.hdr.colorsImportant }

// Pix returns the pixel bytes, Width*Height*4 long, rows stored bottom-up
// as in the file. Writing through the slice modifies the image.
func (img *Image) Pix() []byte { return img.pix.Bytes() }

// surface exposes the pixels to the compositor.
func (img *Image) surface() blend.Surface {
	return blend.Surface{Pix: img.pix.Bytes(), Width: img.Width(), Height: img.Height()}
}

// Clone returns a deep copy with its own pixel buffer.
func (img *Image) Clone() *Image {
	return &Image{hdr: img.hdr, variant: img.variant, pix: img.pix.Clone()}
}

// Move returns an Image that takes over img's header and pixel buffer.
// img is left empty: zero dimensions and no pixels.
func (img *Image) Move() *Image {
	m := &Image{hdr: img.hdr, variant: img.variant, pix: img.pix.Move()}
	*img = Image{}
	return m
}

// Release frees the pixel buffer and empties img. Further calls are no-ops.
func (img *Image) Release() {
	img.pix.Release()
	*img = Image{}
}

// Checksum returns the BLAKE3-256 digest of the pixel bytes.
func (img *Image) Checksum() [32]byte {
	return blake3.Sum256(img.pix.Bytes())
}

// NRGBA returns a copy of the pixels as a standard library image, rows in
// top-down order and channels extracted through the declared masks. An
// absent alpha mask yields opaque pixels.
func (img *Image) NRGBA() *image.NRGBA {
	w, h := img.Width(), img.Height()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	red := newChannel(img.hdr.masks.Red, 0)
	green := newChannel(img.hdr.masks.Green, 0)
	blue := newChannel(img.hdr.masks.Blue, 0)
	alpha := newChannel(img.hdr.masks.Alpha, 0xFF)

	src := img.pix.Bytes()
	for y := 0; y < h; y++ {
		row := src[(h-1-y)*w*4 : (h-y)*w*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			v := uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
			dst[x*4+0] = red.extract(v)
			dst[x*4+1] = green.extract(v)
			dst[x*4+2] = blue.extract(v)
			dst[x*4+3] = alpha.extract(v)
		}
	}
	return out
}

// channel extracts one mask-described channel scaled to 8 bits.
type channel struct {
	mask  uint32
	shift int
	max   uint32
	empty uint8
}

func newChannel(mask uint32, empty uint8) channel {
	if mask == 0 {
		return channel{empty: empty}
	}
	shift := bits.TrailingZeros32(mask)
	return channel{
		mask:  mask,
		shift: shift,
		max:   mask >> shift,
		empty: empty,
	}
}

func (c channel) extract(v uint32) uint8 {
	if c.mask == 0 {
		return c.empty
	}
	x := (v & c.mask) >> c.shift
	if c.max == 0xFF {
		return uint8(x) // #nosec G115 -- masked to 8 bits
	}
	return uint8(uint64(x) * 255 / uint64(c.max)) // #nosec G115 -- scaled to [0, 255]
}
