package gpu

import (
	"testing"

	"github.com/horizon3ds/core/float24"
	"github.com/stretchr/testify/require"
)

func TestMaskedWriteWithZeroMaskIsNoOp(t *testing.T) {
	g := New(1 << 20)
	g.Context.Regs[RegViewportWidth] = 0x123456
	g.WriteRegister(RegViewportWidth, 0xAAAAAAAA, 0)
	require.Equal(t, uint32(0x123456), g.Context.Regs[RegViewportWidth])
}

func TestMaskedWriteAppliesOnlySelectedLanes(t *testing.T) {
	g := New(1 << 20)
	g.Context.Regs[0x200] = 0x11223344
	g.WriteRegister(0x200, 0xAABBCCDD, 0x5) // lanes 0 and 2
	require.Equal(t, uint32(0x11BB33DD), g.Context.Regs[0x200])
}

func TestMemFillTriggerThenCompleteFillsVRAM(t *testing.T) {
	g := New(1 << 20)
	g.WriteRegister(RegMemFill0Start, 0x1000, 0xF)
	g.WriteRegister(RegMemFill0End, 0x1010, 0xF)
	g.WriteRegister(RegMemFill0Value, 0xAABBCCDD, 0xF)
	g.WriteRegister(RegMemFill0Control, 0x00000201, 0xF) // width=4, enable

	require.True(t, g.MemFill[0].Busy)
	_, ok := g.Scheduler.NextEventTime()
	require.True(t, ok)

	g.CompleteMemFill(0)
	require.False(t, g.MemFill[0].Busy)
	require.True(t, g.MemFill[0].Finished)

	for addr := 0x1000; addr < 0x1010; addr += 4 {
		require.Equal(t, uint32(0xAABBCCDD), g.ReadVRAM32(uint32(addr)))
	}
}

func TestDisplayTransferTiledRoundTrip(t *testing.T) {
	g := New(1 << 20)
	const w, h = 16, 16
	for i := 0; i < w*h*4; i++ {
		g.VRAM[i] = byte(i)
	}

	g.WriteRegister(RegDispTransferInputAddr, 0, 0xF)
	g.WriteRegister(RegDispTransferOutputAddr, 0x2000, 0xF)
	g.WriteRegister(RegDispTransferInputDim, w|h<<16, 0xF)
	g.WriteRegister(RegDispTransferOutputDim, w|h<<16, 0xF)
	g.WriteRegister(RegDispTransferFlags, transferFlagTiledOutput, 0xF)
	g.WriteRegister(RegDispTransferTrigger, 1, 0xF)
	g.CompleteDisplayTransfer()

	// Now convert the tiled copy back to a second linear copy.
	g.WriteRegister(RegDispTransferInputAddr, 0x2000, 0xF)
	g.WriteRegister(RegDispTransferOutputAddr, 0x4000, 0xF)
	g.WriteRegister(RegDispTransferFlags, transferFlagTiledInput, 0xF)
	g.WriteRegister(RegDispTransferTrigger, 1, 0xF)
	g.CompleteDisplayTransfer()

	for i := 0; i < w*h*4; i++ {
		require.Equal(t, byte(i), g.VRAM[0x4000+i], "byte %d", i)
	}
}

func TestCombinerUnusedSourceChangeDoesNotAlterOutput(t *testing.T) {
	g := New(1 << 20)
	g.Context.CombRGBSource[0] = [3]uint8{CombSrcConstant, CombSrcConstant, CombSrcConstant}
	g.Context.CombAlphaSource[0] = [3]uint8{CombSrcConstant, CombSrcConstant, CombSrcConstant}
	g.Context.CombRGBOp[0] = CombOpReplace
	g.Context.CombAlphaOp[0] = CombOpReplace
	g.Context.CombConstant[0] = RGBAColor{R: 10, G: 20, B: 30, A: 40}
	for stage := 1; stage < 6; stage++ {
		g.Context.CombRGBOp[stage] = CombOpReplace
		g.Context.CombAlphaOp[stage] = CombOpReplace
		g.Context.CombRGBSource[stage] = [3]uint8{CombSrcPrevious, CombSrcPrevious, CombSrcPrevious}
		g.Context.CombAlphaSource[stage] = [3]uint8{CombSrcPrevious, CombSrcPrevious, CombSrcPrevious}
	}

	frag := Fragment{}
	before := g.EvaluateCombinerChain(frag)

	// Changing texture unit 1's data (a source no stage references) must
	// not change the result.
	g.Context.TexAddr[1] = 0xDEAD
	g.Context.TexWidth[1] = 64
	g.Context.TexHeight[1] = 64
	after := g.EvaluateCombinerChain(frag)

	require.Equal(t, before, after)
}

func TestTriangleRasterizationCovers55Pixels(t *testing.T) {
	g := New(1 << 20)
	g.Context.ViewportWidth = float24.FromFloat32(20)
	g.Context.ViewportHeight = float24.FromFloat32(20)
	g.Context.FrameWidth = 20
	g.Context.FrameHeight = 20

	one := float24.FromFloat32(1)
	mkVertex := func(x, y float32) Vertex {
		ndcX := x/10 - 1
		ndcY := 1 - y/10
		return Vertex{
			Pos:   [4]float24.Float24{float24.FromFloat32(ndcX), float24.FromFloat32(ndcY), float24.Zero, one},
			Color: [4]float24.Float24{one, one, one, one},
		}
	}

	tri := Triangle{mkVertex(0, 0), mkVertex(10, 0), mkVertex(0, 10)}
	g.Context.ViewportX = 0
	g.Context.ViewportY = 0
	frags := g.RasterizeTriangle(tri)
	require.Len(t, frags, 55)
}
