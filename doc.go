// Package bmpblend decodes 32-bit bitfield bitmaps, alpha-blends one onto
// another, and encodes the result.
//
// Only the uncompressed 32 bits-per-pixel variant with a V4 or V5 info
// header is supported (BI_BITFIELDS or BI_ALPHABITFIELDS, one plane, no
// palette, non-zero colour-space tag). Everything else is rejected with a
// *FormatError naming the offending field.
//
// # Quick Start
//
//	bg, err := bmpblend.Load("hood.bmp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fg, err := bmpblend.Load("cat.bmp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bg.Blend(fg, 328, 245)
//	if err := bg.Save("blended.bmp"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Blending
//
// Blend computes, for the blue, green and red bytes of every overlapping
// pixel,
//
//	bg + ((fg - bg) * alpha) >> 8
//
// with a signed intermediate and an arithmetic shift. The divisor is 256,
// so an opaque foreground pixel lands within one step of its own value.
// The background alpha byte is not modified. The foreground is clipped to
// the background, so any origin is valid.
//
// The kernel runs in lane steps of 4, 8 or 32 bytes; see [Strategy]. All
// strategies produce identical bytes.
//
// # Encoding
//
// Encode always writes a V4 header. Images decoded from V5 files are
// normalized on load: the 16-byte V5 extension is dropped and the pixel
// offset adjusted, so Decode(Encode(img)) reproduces img exactly.
//
// # Files
//
// Load and Save compress transparently when the path ends in ".zst"
// (zstd) or ".lz4" (LZ4 frames).
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package bmpblend
