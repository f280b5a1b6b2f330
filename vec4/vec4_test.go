package vec4

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/horizon3ds/core/float24"
)

func f(v float32) float24.Float24 { return float24.FromFloat32(v) }

func TestAddSubMul(t *testing.T) {
	a := Vec4{f(1), f(2), f(3), f(4)}
	b := Vec4{f(4), f(3), f(2), f(1)}

	sum := Add(a, b)
	require.InDelta(t, 5.0, float64(sum.X.ToFloat32()), 1e-2)
	require.InDelta(t, 5.0, float64(sum.W.ToFloat32()), 1e-2)

	diff := Sub(a, b)
	require.InDelta(t, -3.0, float64(diff.X.ToFloat32()), 1e-2)

	prod := Mul(a, b)
	require.InDelta(t, 4.0, float64(prod.X.ToFloat32()), 1e-2)
}

func TestDotProducts(t *testing.T) {
	a := Vec4{f(1), f(0), f(0), f(5)}
	b := Vec4{f(1), f(0), f(0), f(1)}

	require.InDelta(t, 1.0, float64(Dot3(a, b).ToFloat32()), 1e-2)
	require.InDelta(t, 6.0, float64(Dot4(a, b).ToFloat32()), 1e-2)
	require.InDelta(t, 2.0, float64(DotH(a, b).ToFloat32()), 1e-2)
}

func TestMaskedAssignRestrictsLanes(t *testing.T) {
	dst := Vec4{f(1), f(1), f(1), f(1)}
	src := Vec4{f(9), f(9), f(9), f(9)}

	MaskedAssign(&dst, src, MaskX|MaskZ)

	require.InDelta(t, 9.0, float64(dst.X.ToFloat32()), 1e-2)
	require.InDelta(t, 1.0, float64(dst.Y.ToFloat32()), 1e-2)
	require.InDelta(t, 9.0, float64(dst.Z.ToFloat32()), 1e-2)
	require.InDelta(t, 1.0, float64(dst.W.ToFloat32()), 1e-2)
}

func TestMaskZeroIsNoOp(t *testing.T) {
	dst := Vec4{f(1), f(2), f(3), f(4)}
	src := Vec4{f(9), f(9), f(9), f(9)}
	MaskedAssign(&dst, src, 0)
	require.Equal(t, Vec4{f(1), f(2), f(3), f(4)}, dst)
}
