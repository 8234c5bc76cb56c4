// Package pixbuf provides an exclusively owned, aligned byte region for
// packed 4-channel pixel data.
//
// A Buffer has no notion of image geometry. It guarantees that the first
// byte of Bytes is aligned to Alignment so that lane kernels can assume
// register-aligned rows when the row stride is a multiple of the alignment.
//
// Buffers are never shared implicitly: Clone makes a deep copy and Move
// transfers the storage, leaving the source empty.
package pixbuf

import (
	"errors"
	"unsafe"
)

// Alignment is the byte alignment of every non-empty buffer. It covers the
// widest vector register of supported targets (AVX-512) and is a multiple of
// the 32-byte minimum.
const Alignment = 64

// ErrInvalidSize is returned when a negative size is requested.
var ErrInvalidSize = errors.New("pixbuf: invalid size")

// Buffer is an aligned byte region. The zero value is an empty buffer.
//
// Thread safety: Buffer requires external synchronization for writes.
type Buffer struct {
	raw  []byte // backing allocation, keeps data reachable
	data []byte // aligned view of exactly the requested length
}

// New allocates a zeroed buffer of n bytes aligned to Alignment.
func New(n int) (*Buffer, error) {
	if n < 0 {
		return nil, ErrInvalidSize
	}
	if n == 0 {
		return &Buffer{}, nil
	}

	raw := make([]byte, n+Alignment-1)
	pad := alignPad(raw)
	return &Buffer{
		raw:  raw,
		data: raw[pad : pad+n : pad+n],
	}, nil
}

// alignPad returns the number of leading bytes to skip so that the
// remainder of p starts on an Alignment boundary.
func alignPad(p []byte) int {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(p)))
	rem := int(addr % Alignment) // #nosec G115 -- result is < Alignment
	if rem == 0 {
		return 0
	}
	return Alignment - rem
}

// IsAligned reports whether the first byte of p lies on an align boundary.
// An empty slice is considered aligned.
func IsAligned(p []byte, align int) bool {
	if len(p) == 0 {
		return true
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(p)))
	return addr%uintptr(align) == 0 // #nosec G115 -- align is positive
}

// Bytes returns the aligned pixel bytes. Writes through the returned slice
// modify the buffer. The slice is invalid after Move or Release.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Len returns the length of the buffer in bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Clone returns a deep copy backed by a new aligned allocation.
func (b *Buffer) Clone() *Buffer {
	c, _ := New(b.Len()) // Len is never negative
	copy(c.data, b.Bytes())
	return c
}

// Move returns a buffer that owns b's storage and leaves b empty.
func (b *Buffer) Move() *Buffer {
	if b == nil {
		return &Buffer{}
	}
	m := &Buffer{raw: b.raw, data: b.data}
	b.raw = nil
	b.data = nil
	return m
}

// Release drops the storage. Calling Release on an empty buffer is a no-op.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	b.raw = nil
	b.data = nil
}
