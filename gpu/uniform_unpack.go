package gpu

import (
	"math"

	"github.com/horizon3ds/core/float24"
	"github.com/horizon3ds/core/vec4"
)

// unpackFloat24Triple expands three packed 32-bit words into a Vec4 of
// four tightly packed 24-bit lanes (96 bits total), most-significant
// lane first: X occupies the top 24 bits of word 0, and each
// subsequent lane continues from wherever the previous one left off.
func unpackFloat24Triple(buf [16]uint32, n int) vec4.Vec4 {
	w0, w1, w2 := buf[0], buf[1], buf[2]
	x := w0 >> 8
	y := (w0&0xFF)<<16 | w1>>16
	z := (w1&0xFFFF)<<8 | w2>>24
	w := w2 & 0xFFFFFF
	return vec4.Vec4{
		X: float24.Float24(x),
		Y: float24.Float24(y),
		Z: float24.Float24(z),
		W: float24.Float24(w),
	}
}

// unpackFloat32Quad expands four raw IEEE-754 binary32 words into a
// Vec4, rounding each down to the GPU's float24 precision.
func unpackFloat32Quad(buf [16]uint32) vec4.Vec4 {
	conv := func(bits uint32) float24.Float24 {
		return float24.FromFloat32(math.Float32frombits(bits))
	}
	return vec4.Vec4{X: conv(buf[0]), Y: conv(buf[1]), Z: conv(buf[2]), W: conv(buf[3])}
}
