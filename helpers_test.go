package bmpblend

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// bmpSpec describes a synthetic bitmap. Zero pixelOffset and fileSize are
// derived from the layout; nil pix is filled with a pattern.
type bmpSpec struct {
	sig             uint16
	width, height   int32
	headerSize      uint32
	planes          uint16
	bitCount        uint16
	compression     uint32
	imageSize       uint32
	xppm, yppm      int32
	colorsUsed      uint32
	colorsImportant uint32
	masks           Masks
	colorSpace      uint32
	pixelOffset     uint32
	fileSize        uint32
	pix             []byte
}

func validSpec(w, h int32) bmpSpec {
	return bmpSpec{
		sig:             signature,
		width:           w,
		height:          h,
		headerSize:      headerSizeV4,
		planes:          1,
		bitCount:        32,
		compression:     uint32(BitFields),
		imageSize:       uint32(w * h * 4),
		xppm:            2835,
		yppm:            2835,
		colorsImportant: 0,
		masks:           StandardMasks,
		colorSpace:      ColorSpaceSRGB,
	}
}

func v5Spec(w, h int32) bmpSpec {
	s := validSpec(w, h)
	s.headerSize = headerSizeV5
	return s
}

// patternPixels returns n deterministic bytes.
func patternPixels(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*7 + 3)
	}
	return p
}

// buildBMP lays out a bitmap byte by byte without using the package codec.
func buildBMP(t testing.TB, s bmpSpec) []byte {
	t.Helper()

	le := binary.LittleEndian
	hdrEnd := fileHeaderSize + int(s.headerSize)
	if hdrEnd < headerEnd {
		hdrEnd = headerEnd
	}
	off := int(s.pixelOffset)
	if off == 0 {
		off = hdrEnd
	}
	pix := s.pix
	if pix == nil && s.width > 0 && s.height > 0 {
		pix = patternPixels(int(s.width) * int(s.height) * 4)
	}

	out := make([]byte, max(off, hdrEnd)+len(pix))
	le.PutUint16(out[0:], s.sig)
	fileSize := s.fileSize
	if fileSize == 0 {
		fileSize = uint32(len(out))
	}
	le.PutUint32(out[2:], fileSize)
	le.PutUint32(out[6:], 0)
	le.PutUint32(out[10:], uint32(off))
	le.PutUint32(out[14:], s.headerSize)
	le.PutUint32(out[18:], uint32(s.width))
	le.PutUint32(out[22:], uint32(s.height))
	le.PutUint16(out[26:], s.planes)
	le.PutUint16(out[28:], s.bitCount)
	le.PutUint32(out[30:], s.compression)
	le.PutUint32(out[34:], s.imageSize)
	le.PutUint32(out[38:], uint32(s.xppm))
	le.PutUint32(out[42:], uint32(s.yppm))
	le.PutUint32(out[46:], s.colorsUsed)
	le.PutUint32(out[50:], s.colorsImportant)
	le.PutUint32(out[54:], s.masks.Red)
	le.PutUint32(out[58:], s.masks.Green)
	le.PutUint32(out[62:], s.masks.Blue)
	le.PutUint32(out[66:], s.masks.Alpha)
	le.PutUint32(out[70:], s.colorSpace)
	// CIE endpoints and gamma: non-zero so that re-encoding visibly drops them.
	for i := 74; i < headerEnd; i++ {
		out[i] = 0x11
	}
	// V5 extension and any gap before the pixels.
	for i := headerEnd; i < max(off, hdrEnd); i++ {
		out[i] = 0xEE
	}
	copy(out[max(off, hdrEnd):], pix)
	return out
}

// countingReader records how many bytes were consumed.
type countingReader struct {
	data []byte
	n    int
}

func (c *countingReader) Read(p []byte) (int, error) {
	if c.n >= len(c.data) {
		return 0, io.EOF
	}
	k := copy(p, c.data[c.n:])
	c.n += k
	return k, nil
}

// failingWriter fails after accepting limit bytes.
type failingWriter struct {
	limit   int
	written int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.written+len(p) > f.limit {
		k := f.limit - f.written
		f.written = f.limit
		return k, errWriteFailed
	}
	f.written += len(p)
	return len(p), nil
}

var errWriteFailed = errors.New("disk full")
