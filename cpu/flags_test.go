package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShiftLSLEdgeCases(t *testing.T) {
	v, c := Shift(0x1, 0, ShiftLSL, true)
	require.Equal(t, uint32(0x1), v)
	require.True(t, c)

	v, c = Shift(0x1, 32, ShiftLSL, false)
	require.Equal(t, uint32(0), v)
	require.True(t, c) // bit 0 of value shifted out

	v, c = Shift(0x1, 33, ShiftLSL, true)
	require.Equal(t, uint32(0), v)
	require.False(t, c)

	v, c = Shift(0x80000001, 1, ShiftLSL, false)
	require.Equal(t, uint32(0x2), v)
	require.True(t, c)
}

func TestShiftLSREdgeCases(t *testing.T) {
	v, c := Shift(0x80000000, 32, ShiftLSR, false)
	require.Equal(t, uint32(0), v)
	require.True(t, c)

	v, c = Shift(0x80000000, 0, ShiftLSR, false)
	require.Equal(t, uint32(0), v)
	require.True(t, c)

	v, c = Shift(0xFF, 33, ShiftLSR, true)
	require.Equal(t, uint32(0), v)
	require.False(t, c)
}

func TestShiftASREdgeCases(t *testing.T) {
	v, c := Shift(0x80000000, 31, ShiftASR, false)
	require.Equal(t, uint32(0xFFFFFFFF), v)
	require.False(t, c) // bit 30 is the last bit shifted out

	v, c = Shift(0x80000000, 32, ShiftASR, false)
	require.Equal(t, uint32(0xFFFFFFFF), v)
	require.True(t, c)

	// Amount 0 is the immediate encoding of ASR #32, as with LSR above.
	v, c = Shift(0x7FFFFFFF, 0, ShiftASR, false)
	require.Equal(t, uint32(0), v)
	require.False(t, c)
}

func TestShiftRORAndRRX(t *testing.T) {
	v, c := Shift(0x1, 0, ShiftROR, true)
	require.Equal(t, uint32(0x1), v)
	require.True(t, c)

	v, c = Shift(0x1, 32, ShiftROR, false)
	require.Equal(t, uint32(0x1), v)

	v, c = Shift(0x1, 1, ShiftRRX, true)
	require.Equal(t, uint32(0x80000000), v)
	require.True(t, c)

	v, c = Shift(0x1, 1, ShiftRRX, false)
	require.Equal(t, uint32(0), v)
	require.True(t, c)
}

func TestAddSubFlagHelpers(t *testing.T) {
	require.True(t, AddCarry(0xFFFFFFFF, 1, 0))
	require.False(t, AddCarry(1, 1, 2))

	require.True(t, AddOverflow(0x7FFFFFFF, 1, 0x80000000))
	require.False(t, AddOverflow(1, 1, 2))

	require.True(t, SubCarry(5, 3))
	require.False(t, SubCarry(3, 5))

	require.True(t, SubOverflow(0x80000000, 1, 0x7FFFFFFF))
}
