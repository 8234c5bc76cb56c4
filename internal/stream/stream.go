// Package stream opens and creates files whose framing is chosen by file
// name suffix: ".zst" files are zstd frames, ".lz4" files are LZ4 frames,
// anything else is read and written as-is.
package stream

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies the framing applied to a file.
type Codec uint8

const (
	// CodecNone stores bytes unchanged.
	CodecNone Codec = iota

	// CodecZstd wraps the bytes in a zstd stream.
	CodecZstd

	// CodecLZ4 wraps the bytes in an LZ4 frame stream.
	CodecLZ4
)

// String returns the human-readable name of a codec.
func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// CodecForPath picks the codec from the file name suffix.
func CodecForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return CodecZstd
	case ".lz4":
		return CodecLZ4
	default:
		return CodecNone
	}
}

// Open opens path for reading, decompressing according to its suffix.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	rc, err := NewReader(f, CodecForPath(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return rc, nil
}

// NewReader wraps rc so that reads return decompressed bytes. Closing the
// result closes rc.
func NewReader(rc io.ReadCloser, c Codec) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	switch c {
	case CodecNone:
		return &readCloser{Reader: br, closers: []func() error{rc.Close}}, nil

	case CodecZstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return &readCloser{
			Reader: dec,
			closers: []func() error{
				func() error { dec.Close(); return nil },
				rc.Close,
			},
		}, nil

	case CodecLZ4:
		return &readCloser{Reader: lz4.NewReader(br), closers: []func() error{rc.Close}}, nil

	default:
		return nil, fmt.Errorf("unsupported codec: %v", c)
	}
}

// Create creates or truncates path for writing, compressing according to
// its suffix. The file is complete only after Close returns nil.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	wc, err := NewWriter(f, CodecForPath(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return wc, nil
}

// NewWriter wraps wc so that written bytes are compressed. Close flushes
// the compressor, then the buffer, then closes wc.
func NewWriter(wc io.WriteCloser, c Codec) (io.WriteCloser, error) {
	bw := bufio.NewWriter(wc)
	flushAndClose := []func() error{bw.Flush, wc.Close}

	switch c {
	case CodecNone:
		return &writeCloser{Writer: bw, closers: flushAndClose}, nil

	case CodecZstd:
		enc, err := zstd.NewWriter(bw, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return &writeCloser{Writer: enc, closers: append([]func() error{enc.Close}, flushAndClose...)}, nil

	case CodecLZ4:
		zw := lz4.NewWriter(bw)
		return &writeCloser{Writer: zw, closers: append([]func() error{zw.Close}, flushAndClose...)}, nil

	default:
		return nil, fmt.Errorf("unsupported codec: %v", c)
	}
}

// readCloser runs every closer in order and reports the first error.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	return runClosers(r.closers)
}

type writeCloser struct {
	io.Writer
	closers []func() error
}

func (w *writeCloser) Close() error {
	return runClosers(w.closers)
}

func runClosers(closers []func() error) error {
	var first error
	for _, c := range closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
