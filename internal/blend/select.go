package blend

import "golang.org/x/sys/cpu"

// Select returns the widest strategy the running CPU advertises registers
// for: Lanes32 with AVX2, Lanes8 with SSE2 or ASIMD, Scalar otherwise.
// All strategies produce identical output; the choice only affects speed.
func Select() Strategy {
	switch {
	case cpu.X86.HasAVX2:
		return Lanes32
	case cpu.X86.HasSSE2, cpu.ARM64.HasASIMD:
		return Lanes8
	default:
		return Scalar
	}
}
