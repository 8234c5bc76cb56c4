package bmpblend

import (
	"errors"
	"fmt"
)

// Decode validation errors. Every decode failure caused by the content of
// the header is a *FormatError wrapping exactly one of these.
var (
	// ErrInvalidSignature is returned when the first two bytes are not "BM".
	ErrInvalidSignature = errors.New("bmpblend: invalid signature")

	// ErrUnsupportedEndianness is returned for the byte-swapped "MB" signature.
	ErrUnsupportedEndianness = errors.New("bmpblend: big-endian bitmap not supported")

	// ErrUnsupportedHeaderVersion is returned when the header structure is
	// smaller than a V4 header.
	ErrUnsupportedHeaderVersion = errors.New("bmpblend: only V4 and V5 headers are supported")

	// ErrUnsupportedPlaneCount is returned when planes != 1.
	ErrUnsupportedPlaneCount = errors.New("bmpblend: plane count must be 1")

	// ErrUnsupportedBitDepth is returned when bits per pixel != 32.
	ErrUnsupportedBitDepth = errors.New("bmpblend: only 32-bit pixels are supported")

	// ErrUnsupportedCompression is returned for anything but BITFIELDS or
	// ALPHABITFIELDS.
	ErrUnsupportedCompression = errors.New("bmpblend: only bitfield compression is supported")

	// ErrUnsupportedColorTable is returned when a palette is declared.
	ErrUnsupportedColorTable = errors.New("bmpblend: color table not supported")

	// ErrUnsupportedColorSpace is returned when the colour-space tag is zero.
	ErrUnsupportedColorSpace = errors.New("bmpblend: custom color space not supported")

	// ErrUnsupportedDimensions is returned for non-positive dimensions or a
	// pixel buffer larger than MaxPixelBytes.
	ErrUnsupportedDimensions = errors.New("bmpblend: unsupported dimensions")
)

// ErrIO marks failures of the underlying reader or writer, including
// truncated input. The original error is wrapped alongside it.
var ErrIO = errors.New("bmpblend: i/o error")

// FormatError describes a header field that failed validation.
type FormatError struct {
	// Field names the offending header field.
	Field string

	// Value is the value that was read.
	Value int64

	// Err is one of the ErrUnsupported*/ErrInvalid* sentinels.
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v (%s = %#x)", e.Err, e.Field, e.Value)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatError(field string, value int64, err error) error {
	return &FormatError{Field: field, Value: value, Err: err}
}

// ioError wraps err so that it matches both ErrIO and err.
func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
