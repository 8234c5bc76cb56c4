package bmpblend

import (
	"fmt"

	"github.com/gogpu/bmpblend/internal/cursor"
)

// Container layout constants.
const (
	fileHeaderSize = 14
	headerSizeV4   = 108
	headerSizeV5   = 124

	// v5Extra is the gamma/intent/profile block a V5 header adds to V4.
	v5Extra = headerSizeV5 - headerSizeV4

	// cieBlockSize is the CIE endpoints and gamma block at the end of V4.
	cieBlockSize = 48

	// headerEnd is the size of a canonical file plus V4 header.
	headerEnd = fileHeaderSize + headerSizeV4

	// prefixSize is the file header plus the structure-size field.
	prefixSize = fileHeaderSize + 4

	signature        = 0x4D42 // "BM" read little-endian
	swappedSignature = 0x424D

	planeCount   = 1
	bitsPerPixel = 32
)

// MaxPixelBytes bounds the pixel buffer Decode is willing to allocate.
const MaxPixelBytes = 1 << 30

// Compression identifies how the channel masks are declared.
type Compression uint32

const (
	// BitFields declares red, green and blue masks (BI_BITFIELDS).
	BitFields Compression = 3

	// AlphaBitFields declares red, green, blue and alpha masks
	// (BI_ALPHABITFIELDS).
	AlphaBitFields Compression = 6
)

func (c Compression) String() string {
	switch c {
	case BitFields:
		return "BITFIELDS"
	case AlphaBitFields:
		return "ALPHABITFIELDS"
	default:
		return fmt.Sprintf("Compression(%d)", uint32(c))
	}
}

// Variant is the info-header version an image was loaded from.
type Variant uint8

const (
	// V4 is BITMAPV4HEADER (108 bytes).
	V4 Variant = iota + 4
	// V5 is BITMAPV5HEADER (124 bytes). Its trailing 16 bytes are discarded.
	V5
)

func (v Variant) String() string {
	switch v {
	case V4:
		return "V4"
	case V5:
		return "V5"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// Masks holds the bit masks of each channel within a little-endian pixel.
type Masks struct {
	Red, Green, Blue, Alpha uint32
}

// StandardMasks is the canonical BGRA byte layout.
var StandardMasks = Masks{
	Red:   0x00FF0000,
	Green: 0x0000FF00,
	Blue:  0x000000FF,
	Alpha: 0xFF000000,
}

// Well-known colour-space tags.
const (
	// ColorSpaceSRGB is LCS_sRGB ("sRGB").
	ColorSpaceSRGB uint32 = 0x73524742

	// ColorSpaceWindows is LCS_WINDOWS_COLOR_SPACE ("Win ").
	ColorSpaceWindows uint32 = 0x57696E20
)

// header is the parsed content of the file and info headers.
type header struct {
	fileSize        uint32
	pixelOffset     uint32
	structSize      uint32
	width           int32
	height          int32
	planes          uint16
	bitCount        uint16
	compression     Compression
	imageSize       uint32
	xppm            int32
	yppm            int32
	colorsUsed      uint32
	colorsImportant uint32
	masks           Masks
	colorSpace      uint32
}

// parsePrefix reads the signature and the fields up to the structure size.
func parsePrefix(h *header, buf []byte) error {
	r := cursor.NewReader(buf)
	sig := r.U16()
	h.fileSize = r.U32()
	r.Skip(4) // reserved
	h.pixelOffset = r.U32()
	h.structSize = r.U32()
	if err := r.Err(); err != nil {
		return err
	}

	switch sig {
	case signature:
	case swappedSignature:
		return formatError("signature", int64(sig), ErrUnsupportedEndianness)
	default:
		return formatError("signature", int64(sig), ErrInvalidSignature)
	}
	if h.structSize < headerSizeV4 {
		return formatError("header size", int64(h.structSize), ErrUnsupportedHeaderVersion)
	}
	return nil
}

// parseInfo reads the V4 info header fields that follow the structure size.
// buf starts at the width field.
func parseInfo(h *header, buf []byte) error {
	r := cursor.NewReader(buf)
	h.width = r.I32()
	h.height = r.I32()
	h.planes = r.U16()
	h.bitCount = r.U16()
	h.compression = Compression(r.U32())
	h.imageSize = r.U32()
	h.xppm = r.I32()
	h.yppm = r.I32()
	h.colorsUsed = r.U32()
	h.colorsImportant = r.U32()
	h.masks.Red = r.U32()
	h.masks.Green = r.U32()
	h.masks.Blue = r.U32()
	h.masks.Alpha = r.U32()
	h.colorSpace = r.U32()
	r.Skip(cieBlockSize)
	return r.Err()
}

// validate checks the info header in a fixed order and reports the first
// violation.
func (h *header) validate() error {
	if h.planes != planeCount {
		return formatError("planes", int64(h.planes), ErrUnsupportedPlaneCount)
	}
	if h.bitCount != bitsPerPixel {
		return formatError("bit count", int64(h.bitCount), ErrUnsupportedBitDepth)
	}
	if h.compression != BitFields && h.compression != AlphaBitFields {
		return formatError("compression", int64(h.compression), ErrUnsupportedCompression)
	}
	if h.colorsUsed != 0 {
		return formatError("colors used", int64(h.colorsUsed), ErrUnsupportedColorTable)
	}
	if h.colorSpace == 0 {
		return formatError("color space", 0, ErrUnsupportedColorSpace)
	}
	if h.width <= 0 {
		return formatError("width", int64(h.width), ErrUnsupportedDimensions)
	}
	if h.height <= 0 {
		return formatError("height", int64(h.height), ErrUnsupportedDimensions)
	}
	if n := h.pixelBytes(); n > MaxPixelBytes {
		return formatError("pixel bytes", n, ErrUnsupportedDimensions)
	}
	return nil
}

// pixelBytes returns width*height*4 without overflowing.
func (h *header) pixelBytes() int64 {
	return int64(h.width) * int64(h.height) * 4
}

// marshal writes the canonical V4 header into buf, which must hold
// headerEnd bytes.
func (h *header) marshal(buf []byte) error {
	w := cursor.NewWriter(buf)
	w.PutU16(signature)
	w.PutU32(h.fileSize)
	w.Zero(4) // reserved
	w.PutU32(h.pixelOffset)
	w.PutU32(headerSizeV4)
	w.PutI32(h.width)
	w.PutI32(h.height)
	w.PutU16(planeCount)
	w.PutU16(bitsPerPixel)
	w.PutU32(uint32(h.compression))
	w.PutU32(h.imageSize)
	w.PutI32(h.xppm)
	w.PutI32(h.yppm)
	w.PutU32(0) // colors used
	w.PutU32(h.colorsImportant)
	w.PutU32(h.masks.Red)
	w.PutU32(h.masks.Green)
	w.PutU32(h.masks.Blue)
	w.PutU32(h.masks.Alpha)
	w.PutU32(h.colorSpace)
	w.Zero(cieBlockSize)
	if err := w.Err(); err != nil {
		return err
	}
	if w.Offset() != headerEnd {
		return fmt.Errorf("bmpblend: header layout is %d bytes, want %d", w.Offset(), headerEnd)
	}
	return nil
}
