// Package wide provides SIMD-friendly lane types for batch pixel processing.
//
// The types are fixed-size arrays manipulated with simple loops so that the
// Go compiler can keep them in registers and, where it is able to, emit
// vector instructions. No unsafe code and no assembly are used; the
// arithmetic is defined lane by lane and is therefore identical on every
// architecture.
//
// # Lane Types
//
// I32x8: 8 signed 32-bit lanes, one per byte of two packed 4-channel pixels
// (an 8-byte step).
//
// I32x32: 32 signed 32-bit lanes, one per byte of eight packed 4-channel
// pixels (a 32-byte step, the width of an AVX2 register).
//
// Signed 32-bit lanes hold the full range of (fg-bg)*alpha, which is
// [-65025, 65025], so no intermediate saturates or wraps.
//
// # Alpha Broadcast
//
// AlphaWeights8 and AlphaWeights32 perform the shuffle that copies each
// pixel's alpha byte (offset 3) into the lanes of its three colour bytes and
// writes zero into the alpha lane itself. Multiplying a difference vector by
// these weights therefore leaves the destination alpha channel unchanged.
//
// # Usage Example
//
//	bg := wide.LoadI32x8(dst)
//	fg := wide.LoadI32x8(src)
//	fg.Sub(bg).Mul(wide.AlphaWeights8(src)).Shr8().Add(bg).Store(dst)
package wide
