package bmpblend

import (
	"errors"
	"io"

	"github.com/gogpu/bmpblend/internal/pixbuf"
)

// Decode reads a 32-bit bitfield bitmap with a V4 or V5 header from r.
//
// Header validation happens before any pixel storage is allocated; a
// validation failure returns a *FormatError and no Image. A V5 header is
// normalized to V4: its extra 16 bytes are skipped and the recorded pixel
// offset is reduced by 16. Bytes between the header and the pixel offset
// are skipped. The pixel buffer always holds Width*Height*4 bytes; the
// declared image size is read into it when it lies in (0, Width*Height*4],
// otherwise the full buffer is read. Bytes not covered stay zero.
func Decode(r io.Reader) (*Image, error) {
	var buf [headerEnd]byte
	var h header

	if _, err := io.ReadFull(r, buf[:prefixSize]); err != nil {
		return nil, ioError("read file header", err)
	}
	if err := parsePrefix(&h, buf[:prefixSize]); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, buf[prefixSize:]); err != nil {
		return nil, ioError("read info header", err)
	}
	if err := parseInfo(&h, buf[prefixSize:]); err != nil {
		return nil, ioError("parse info header", err)
	}
	if err := h.validate(); err != nil {
		return nil, err
	}

	logger := Logger()
	pos := int64(headerEnd)
	rawOffset := int64(h.pixelOffset)
	variant := V4

	if h.structSize == headerSizeV5 {
		if _, err := io.CopyN(io.Discard, r, v5Extra); err != nil {
			return nil, ioError("skip V5 extension", err)
		}
		pos += v5Extra
		if h.pixelOffset >= v5Extra {
			h.pixelOffset -= v5Extra
		}
		variant = V5
		logger.Debug("bmpblend: normalized V5 header",
			"pixelOffset", h.pixelOffset,
			"fileSize", h.fileSize)
	}
	h.structSize = headerSizeV4

	if gap := rawOffset - pos; gap > 0 {
		logger.Debug("bmpblend: skipping bytes before pixel data", "gap", gap)
		if _, err := io.CopyN(io.Discard, r, gap); err != nil {
			return nil, ioError("skip to pixel data", err)
		}
	}

	n := h.pixelBytes()
	read := n
	switch declared := int64(h.imageSize); {
	case declared == 0:
		logger.Debug("bmpblend: no declared image size", "reading", n)
	case declared > n:
		logger.Warn("bmpblend: implausible declared image size",
			"declared", h.imageSize,
			"reading", n)
	default:
		read = declared
	}

	pix, err := pixbuf.New(int(n))
	if err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, pix.Bytes()[:read]); err != nil {
		pix.Release()
		return nil, ioError("read pixel data", err)
	}

	return &Image{hdr: h, variant: variant, pix: pix}, nil
}

// Encode writes img in canonical V4 layout: the file header, a V4 info
// header with a zeroed CIE block, zero padding up to the recorded pixel
// offset, and the pixel bytes verbatim. img is not re-validated.
func Encode(w io.Writer, img *Image) error {
	var buf [headerEnd]byte
	if err := img.hdr.marshal(buf[:]); err != nil {
		return ioError("marshal header", err)
	}
	if _, err := w.Write(buf[:]); err != nil {
		return ioError("write header", err)
	}
	if gap := int64(img.hdr.pixelOffset) - headerEnd; gap > 0 {
		if err := writeZeros(w, gap); err != nil {
			return ioError("write pixel offset padding", err)
		}
	}
	if _, err := w.Write(img.pix.Bytes()); err != nil {
		return ioError("write pixel data", err)
	}
	return nil
}

var zeroChunk [512]byte

func writeZeros(w io.Writer, n int64) error {
	for n > 0 {
		k := min(n, int64(len(zeroChunk)))
		written, err := w.Write(zeroChunk[:k])
		if err != nil {
			return err
		}
		if int64(written) != k {
			return io.ErrShortWrite
		}
		n -= k
	}
	return nil
}

// IsFormatError reports whether err came from header validation rather than
// from the underlying reader.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
