// Package cursor reads and writes little-endian fixed-width fields over a
// byte span while tracking the current position.
//
// Both Reader and Writer use a sticky error: once an access would run past
// the end of the span, every later access is a no-op and Err reports
// ErrShortBuffer. Callers check Err once after a run of field accesses.
package cursor

import (
	"encoding/binary"
	"errors"
)

// ErrShortBuffer is reported when a field does not fit in the remaining span.
var ErrShortBuffer = errors.New("cursor: short buffer")

// Reader decodes fields from a byte span.
type Reader struct {
	buf []byte
	off int
	err error
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// take returns the next n bytes and advances, or nil after an overrun.
func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.buf) {
		r.err = ErrShortBuffer
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

// U16 reads an unsigned 16-bit field.
func (r *Reader) U16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32 reads an unsigned 32-bit field.
func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// I32 reads a signed 32-bit field.
func (r *Reader) I32() int32 {
	return int32(r.U32()) // #nosec G115 -- two's complement reinterpretation
}

// Skip advances past n bytes without interpreting them.
func (r *Reader) Skip(n int) {
	r.take(n)
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Err returns ErrShortBuffer if any access overran the span.
func (r *Reader) Err() error {
	return r.err
}

// Writer encodes fields into a byte span.
type Writer struct {
	buf []byte
	off int
	err error
}

// NewWriter returns a Writer positioned at the start of buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

func (w *Writer) take(n int) []byte {
	if w.err != nil {
		return nil
	}
	if n < 0 || w.off+n > len(w.buf) {
		w.err = ErrShortBuffer
		return nil
	}
	b := w.buf[w.off : w.off+n]
	w.off += n
	return b
}

// PutU16 writes an unsigned 16-bit field.
func (w *Writer) PutU16(v uint16) {
	if b := w.take(2); b != nil {
		binary.LittleEndian.PutUint16(b, v)
	}
}

// PutU32 writes an unsigned 32-bit field.
func (w *Writer) PutU32(v uint32) {
	if b := w.take(4); b != nil {
		binary.LittleEndian.PutUint32(b, v)
	}
}

// PutI32 writes a signed 32-bit field.
func (w *Writer) PutI32(v int32) {
	w.PutU32(uint32(v)) // #nosec G115 -- two's complement reinterpretation
}

// Zero writes n zero bytes.
func (w *Writer) Zero(n int) {
	b := w.take(n)
	for i := range b {
		b[i] = 0
	}
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int {
	return w.off
}

// Bytes returns the written prefix of the span.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.off]
}

// Err returns ErrShortBuffer if any write overran the span.
func (w *Writer) Err() error {
	return w.err
}
