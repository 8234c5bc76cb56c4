package wide

// I32x8 holds the bytes of two packed 4-channel pixels widened to int32.
type I32x8 [8]int32

// LoadI32x8 widens the first 8 bytes of p.
// p must have at least 8 bytes.
func LoadI32x8(p []byte) I32x8 {
	_ = p[7] // bounds check hint
	var v I32x8
	for i := range v {
		v[i] = int32(p[i])
	}
	return v
}

// SplatI32x8 creates I32x8 with all lanes set to n.
func SplatI32x8(n int32) I32x8 {
	var v I32x8
	for i := range v {
		v[i] = n
	}
	return v
}

// Add performs lane-wise addition.
func (v I32x8) Add(o I32x8) I32x8 {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Sub performs lane-wise subtraction.
func (v I32x8) Sub(o I32x8) I32x8 {
	for i := range v {
		v[i] -= o[i]
	}
	return v
}

// Mul performs lane-wise multiplication.
func (v I32x8) Mul(o I32x8) I32x8 {
	for i := range v {
		v[i] *= o[i]
	}
	return v
}

// Shr8 shifts every lane right by 8 bits. The shift is arithmetic, so
// negative lanes round toward negative infinity.
func (v I32x8) Shr8() I32x8 {
	for i := range v {
		v[i] >>= 8
	}
	return v
}

// Store narrows every lane to a byte and writes the first 8 bytes of p.
// Lanes must already lie in [0, 255].
func (v I32x8) Store(p []byte) {
	_ = p[7] // bounds check hint
	for i := range v {
		p[i] = uint8(v[i]) // #nosec G115 -- lanes are in [0, 255]
	}
}

// AlphaWeights8 broadcasts the alpha byte of each of the two pixels in p
// into that pixel's colour lanes and zeroes its alpha lane.
func AlphaWeights8(p []byte) I32x8 {
	_ = p[7] // bounds check hint
	var v I32x8
	for px := 0; px < 8; px += 4 {
		a := int32(p[px+3])
		v[px+0] = a
		v[px+1] = a
		v[px+2] = a
	}
	return v
}

// I32x32 holds the bytes of eight packed 4-channel pixels widened to int32.
type I32x32 [32]int32

// LoadI32x32 widens the first 32 bytes of p.
// p must have at least 32 bytes.
func LoadI32x32(p []byte) I32x32 {
	_ = p[31] // bounds check hint
	var v I32x32
	for i := range v {
		v[i] = int32(p[i])
	}
	return v
}

// SplatI32x32 creates I32x32 with all lanes set to n.
func SplatI32x32(n int32) I32x32 {
	var v I32x32
	for i := range v {
		v[i] = n
	}
	return v
}

// Add performs lane-wise addition.
func (v I32x32) Add(o I32x32) I32x32 {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Sub performs lane-wise subtraction.
func (v I32x32) Sub(o I32x32) I32x32 {
	for i := range v {
		v[i] -= o[i]
	}
	return v
}

// Mul performs lane-wise multiplication.
func (v I32x32) Mul(o I32x32) I32x32 {
	for i := range v {
		v[i] *= o[i]
	}
	return v
}

// Shr8 shifts every lane right by 8 bits (arithmetic shift).
func (v I32x32) Shr8() I32x32 {
	for i := range v {
		v[i] >>= 8
	}
	return v
}

// Store narrows every lane to a byte and writes the first 32 bytes of p.
// Lanes must already lie in [0, 255].
func (v I32x32) Store(p []byte) {
	_ = p[31] // bounds check hint
	for i := range v {
		p[i] = uint8(v[i]) // #nosec G115 -- lanes are in [0, 255]
	}
}

// AlphaWeights32 broadcasts the alpha byte of each of the eight pixels in p
// into that pixel's colour lanes and zeroes its alpha lane.
func AlphaWeights32(p []byte) I32x32 {
	_ = p[31] // bounds check hint
	var v I32x32
	for px := 0; px < 32; px += 4 {
		a := int32(p[px+3])
		v[px+0] = a
		v[px+1] = a
		v[px+2] = a
	}
	return v
}
