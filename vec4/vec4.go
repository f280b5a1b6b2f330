// Package vec4 implements the four-lane fixed-width vector type used
// throughout the shader unit and rasterizer: per-lane arithmetic, dot
// products, and masked assignment over float24.Float24 lanes.
package vec4

import "github.com/horizon3ds/core/float24"

// Mask selects which of the four lanes (x,y,z,w) participate in an
// operation; bit 0 = x, bit 1 = y, bit 2 = z, bit 3 = w, matching the
// shader's destination write-mask encoding.
type Mask uint8

const (
	MaskX Mask = 1 << iota
	MaskY
	MaskZ
	MaskW
	MaskXYZW = MaskX | MaskY | MaskZ | MaskW
)

// Vec4 holds four float24 lanes.
type Vec4 struct {
	X, Y, Z, W float24.Float24
}

// Lane returns the i'th component (0=x .. 3=w).
func (v Vec4) Lane(i int) float24.Float24 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	default:
		return v.W
	}
}

// SetLane writes the i'th component.
func (v *Vec4) SetLane(i int, val float24.Float24) {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	case 2:
		v.Z = val
	default:
		v.W = val
	}
}

func zipBinary(a, b Vec4, op func(x, y float24.Float24) float24.Float24) Vec4 {
	return Vec4{
		X: op(a.X, b.X),
		Y: op(a.Y, b.Y),
		Z: op(a.Z, b.Z),
		W: op(a.W, b.W),
	}
}

// Add returns the per-lane sum.
func Add(a, b Vec4) Vec4 { return zipBinary(a, b, float24.Add) }

// Sub returns the per-lane difference.
func Sub(a, b Vec4) Vec4 { return zipBinary(a, b, float24.Sub) }

// Mul returns the per-lane product.
func Mul(a, b Vec4) Vec4 { return zipBinary(a, b, float24.Mul) }

// Scale multiplies every lane by a scalar.
func Scale(a Vec4, s float24.Float24) Vec4 {
	return Vec4{
		X: float24.Mul(a.X, s),
		Y: float24.Mul(a.Y, s),
		Z: float24.Mul(a.Z, s),
		W: float24.Mul(a.W, s),
	}
}

// Dot3 computes the 3-component dot product (x,y,z lanes only).
func Dot3(a, b Vec4) float24.Float24 {
	return float24.Add(float24.Add(float24.Mul(a.X, b.X), float24.Mul(a.Y, b.Y)), float24.Mul(a.Z, b.Z))
}

// Dot4 computes the full 4-component dot product.
func Dot4(a, b Vec4) float24.Float24 {
	return float24.Add(Dot3(a, b), float24.Mul(a.W, b.W))
}

// DotH computes DPH: the "homogeneous" dot product where the source's w
// lane is replaced with 1.0 before the 4-component dot.
func DotH(a, b Vec4) float24.Float24 {
	one := float24.FromFloat32(1)
	aH := Vec4{X: a.X, Y: a.Y, Z: a.Z, W: one}
	return Dot4(aH, b)
}

// MaskedAssign copies src into dst only in the lanes selected by mask.
func MaskedAssign(dst *Vec4, src Vec4, mask Mask) {
	if mask&MaskX != 0 {
		dst.X = src.X
	}
	if mask&MaskY != 0 {
		dst.Y = src.Y
	}
	if mask&MaskZ != 0 {
		dst.Z = src.Z
	}
	if mask&MaskW != 0 {
		dst.W = src.W
	}
}
