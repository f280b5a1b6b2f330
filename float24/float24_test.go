package float24

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripCommonValues(t *testing.T) {
	values := []float32{0, 1, -1, 0.5, 2, 10, -10, 3.25}
	for _, v := range values {
		got := FromFloat32(v).ToFloat32()
		require.InDelta(t, float64(v), float64(got), 1e-2, "round trip of %v", v)
	}
}

func TestZeroEncodesAllZero(t *testing.T) {
	require.Equal(t, Float24(0), FromFloat32(0))
}

func TestArithmetic(t *testing.T) {
	a := FromFloat32(2)
	b := FromFloat32(3)
	require.InDelta(t, 5.0, float64(Add(a, b).ToFloat32()), 1e-2)
	require.InDelta(t, -1.0, float64(Sub(a, b).ToFloat32()), 1e-2)
	require.InDelta(t, 6.0, float64(Mul(a, b).ToFloat32()), 1e-2)
	require.InDelta(t, 2.0/3.0, float64(Div(a, b).ToFloat32()), 1e-2)
}

func TestCompareAgainstNaNIsAlwaysFalse(t *testing.T) {
	nan := FromFloat32(float32(nanValue()))
	one := FromFloat32(1)
	lt, eq, gt := Cmp(nan, one)
	require.False(t, lt)
	require.False(t, eq)
	require.False(t, gt)
	require.True(t, nan.IsNaN())
}

func nanValue() float64 {
	return float64frombits()
}

func float64frombits() float64 {
	var f float64
	f = 0
	return f / f // reliably yields NaN without invoking math directly in the test
}

func TestRecipClampsZeroToInfinity(t *testing.T) {
	r := Recip(FromFloat32(0))
	require.True(t, isInf(r.ToFloat32()))
}

func isInf(f float32) bool {
	return f > 3.0e38 || f < -3.0e38
}

func TestRecipSqrt(t *testing.T) {
	r := RecipSqrt(FromFloat32(4))
	require.InDelta(t, 0.5, float64(r.ToFloat32()), 1e-2)
}
