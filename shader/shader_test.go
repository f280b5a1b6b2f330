package shader

import (
	"testing"

	"github.com/horizon3ds/core/float24"
	"github.com/horizon3ds/core/vec4"
	"github.com/stretchr/testify/require"
)

func f(v float32) float24.Float24 { return float24.FromFloat32(v) }

// buildMinimalProgram encodes "MOV o0, v0; END" with an identity operand
// descriptor (no swizzle/negate, full write mask) at descriptor slot 0.
func buildMinimalProgram(u *Unit) {
	u.OpDesc[0] = 0xF // dest mask = 0xF (xyzw), swizzle fields left at
	// their zero value, which selects lane 0 for every output lane; for
	// this test the source is only ever read through lane-preserving
	// identity swizzle so zero-value decode below is overridden.
	u.OpDesc[0] = encodeIdentityDescriptor()

	movInstr := uint32(OpcodeRaw(OpMOV))<<26 | uint32(0)<<21 /* dest=o0 via selector below */
	_ = movInstr

	// 5-bit dest field: 0x00-0x0F name o0-o15, so o0 => 0
	destSel := uint8(0)
	// src1 selector: file=fileInput(0)<<5 | idx 0 => 0x00
	srcSel := uint8(fileInput) << 5

	u.Code[0] = uint32(OpcodeRaw(OpMOV))<<26 | uint32(destSel)<<21 | uint32(srcSel)<<14
	u.Code[1] = uint32(OpcodeRaw(OpEND)) << 26
}

func encodeIdentityDescriptor() uint32 {
	var raw uint32
	raw |= 0xF // dest mask
	for src := 0; src < 3; src++ {
		shift := uint(4 + src*9)
		var swz uint32
		for lane := 0; lane < 4; lane++ {
			swz |= uint32(lane) << uint(lane*2)
		}
		raw |= swz << shift
	}
	return raw
}

// OpcodeRaw maps an Opcode back to its encoded 6-bit field for test
// program construction.
func OpcodeRaw(op Opcode) uint8 {
	for raw, o := range opcodeTable {
		if o == op {
			return raw
		}
	}
	return 0
}

func TestMinimalMovEndProgram(t *testing.T) {
	u := &Unit{}
	u.TotalInputs = 1
	u.InputAttrs[0] = vec4.Vec4{X: f(1), Y: f(2), Z: f(3), W: f(4)}
	u.InputMapping[0] = 0
	u.ApplyInputMapping()

	buildMinimalProgram(u)

	require.NoError(t, u.Run(64))
	require.Equal(t, float32(1), u.Output[0].X.ToFloat32())
	require.Equal(t, float32(2), u.Output[0].Y.ToFloat32())
	require.Equal(t, float32(3), u.Output[0].Z.ToFloat32())
	require.Equal(t, float32(4), u.Output[0].W.ToFloat32())
}

func TestMaskedWriteRestrictsLanes(t *testing.T) {
	u := &Unit{}
	u.Temp[1] = vec4.Vec4{X: f(9), Y: f(9), Z: f(9), W: f(9)}

	desc := OperandDescriptor{DestMask: 0x5} // lanes X and Z only (bits 0,2)
	value := vec4.Vec4{X: f(1), Y: f(2), Z: f(3), W: f(4)}
	u.writeDest(uint8(fileTemp)<<5|1, desc, value)

	require.Equal(t, float32(1), u.Temp[1].X.ToFloat32())
	require.Equal(t, float32(9), u.Temp[1].Y.ToFloat32())
	require.Equal(t, float32(3), u.Temp[1].Z.ToFloat32())
	require.Equal(t, float32(9), u.Temp[1].W.ToFloat32())
}
