// Package float24 implements the GPU's 24-bit floating-point numeric type:
// 1 sign bit, 7 exponent bits biased by 63, 16 mantissa bits. Arithmetic is
// performed by round-tripping through binary32 and re-quantizing, matching
// the accuracy the hardware's ALU actually achieves.
package float24

import "math"

const (
	mantissaBits = 16
	exponentBits = 7
	exponentBias = 63
	signShift    = exponentBits + mantissaBits // 23
	exponentMask = uint32(1<<exponentBits) - 1
	mantissaMask = uint32(1<<mantissaBits) - 1
	exponentMax  = exponentMask // all-ones exponent marks inf/nan
)

// Float24 is a packed 24-bit float stored in the low 24 bits of a uint32.
type Float24 uint32

// Zero is the all-zero encoding.
const Zero Float24 = 0

// FromFloat32 rounds an IEEE-754 binary32 value to the nearest Float24,
// clamping the exponent range and flushing denormals to zero.
func FromFloat32(f float32) Float24 {
	bits := math.Float32bits(f)
	sign := bits >> 31
	exp := int32((bits>>23)&0xFF) - 127
	mant := bits & 0x7FFFFF

	if bits&0x7FFFFFFF == 0 {
		return Float24(sign << signShift)
	}
	if exp == 128 {
		// Inf or NaN: propagate with a nonzero mantissa for NaN.
		outMant := uint32(0)
		if mant != 0 {
			outMant = 1
		}
		return Float24(sign<<signShift | exponentMax<<mantissaBits | outMant)
	}

	biased := exp + exponentBias
	if biased <= 0 {
		// Underflow: flush to zero (matches hardware denormal behavior).
		return Float24(sign << signShift)
	}
	if biased >= int32(exponentMax) {
		// Overflow: clamp to infinity.
		return Float24(sign<<signShift | exponentMax<<mantissaBits)
	}

	// Round the 23-bit mantissa down to 16 bits, round to nearest even.
	shift := uint32(23 - mantissaBits)
	rounded := mant >> shift
	roundBit := (mant >> (shift - 1)) & 1
	stickyMask := uint32(1<<(shift-1)) - 1
	sticky := mant&stickyMask != 0
	if roundBit == 1 && (sticky || rounded&1 == 1) {
		rounded++
		if rounded > mantissaMask {
			rounded = 0
			biased++
			if biased >= int32(exponentMax) {
				return Float24(sign<<signShift | exponentMax<<mantissaBits)
			}
		}
	}

	return Float24(sign<<signShift | uint32(biased)<<mantissaBits | rounded)
}

// ToFloat32 expands a Float24 into an IEEE-754 binary32 value.
func (f Float24) ToFloat32() float32 {
	bits := uint32(f)
	sign := (bits >> signShift) & 1
	exp := (bits >> mantissaBits) & exponentMask
	mant := bits & mantissaMask

	if exp == 0 && mant == 0 {
		return math.Float32frombits(sign << 31)
	}
	if exp == exponentMax {
		if mant == 0 {
			return math.Float32frombits(sign<<31 | 0xFF<<23)
		}
		return math.Float32frombits(sign<<31 | 0xFF<<23 | 1)
	}

	unbiased := int32(exp) - exponentBias
	out32Exp := uint32(unbiased + 127)
	out32Mant := mant << (23 - mantissaBits)
	return math.Float32frombits(sign<<31 | out32Exp<<23 | out32Mant)
}

func binop(a, b Float24, op func(x, y float32) float32) Float24 {
	return FromFloat32(op(a.ToFloat32(), b.ToFloat32()))
}

// Add returns a + b.
func Add(a, b Float24) Float24 { return binop(a, b, func(x, y float32) float32 { return x + y }) }

// Sub returns a - b.
func Sub(a, b Float24) Float24 { return binop(a, b, func(x, y float32) float32 { return x - y }) }

// Mul returns a * b.
func Mul(a, b Float24) Float24 { return binop(a, b, func(x, y float32) float32 { return x * y }) }

// Div returns a / b.
func Div(a, b Float24) Float24 { return binop(a, b, func(x, y float32) float32 { return x / y }) }

// Neg returns -a.
func Neg(a Float24) Float24 {
	return Float24(uint32(a) ^ (1 << signShift))
}

// IsNaN reports whether f encodes a NaN.
func (f Float24) IsNaN() bool {
	bits := uint32(f)
	exp := (bits >> mantissaBits) & exponentMask
	mant := bits & mantissaMask
	return exp == exponentMax && mant != 0
}

// Cmp implements the GPU's ordered comparison predicates. Comparisons
// against NaN return false for every predicate except the explicit
// "unordered" check exposed as IsNaN.
func Cmp(a, b Float24) (lt, eq, gt bool) {
	if a.IsNaN() || b.IsNaN() {
		return false, false, false
	}
	x, y := a.ToFloat32(), b.ToFloat32()
	return x < y, x == y, x > y
}

// Recip approximates 1/a to the hardware's ~23-bit accuracy, clamping
// infinities and flushing the division-by-zero case to signed infinity
// (a defined guest-visible output, not an error).
func Recip(a Float24) Float24 {
	x := a.ToFloat32()
	if x == 0 {
		if math.Signbit(float64(x)) {
			return FromFloat32(float32(math.Inf(-1)))
		}
		return FromFloat32(float32(math.Inf(1)))
	}
	return FromFloat32(1.0 / x)
}

// RecipSqrt approximates 1/sqrt(a) to the hardware's ~23-bit accuracy.
func RecipSqrt(a Float24) Float24 {
	x := a.ToFloat32()
	if x == 0 {
		return FromFloat32(float32(math.Inf(1)))
	}
	if x < 0 {
		return FromFloat32(float32(math.NaN()))
	}
	return FromFloat32(float32(1.0 / math.Sqrt(float64(x))))
}
