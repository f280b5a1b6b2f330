package gpu

import "github.com/horizon3ds/core/shader"

// Register ids name the subset of the 0x300-word bank this core gives
// side effects to; everything else is a plain masked store with no
// side effect, which is itself a faithful rendering of real hardware
// register banks (most of the bank is inert bits until some engine
// reads it back).
const (
	RegMemFill0Start    = 0x004
	RegMemFill0End      = 0x005
	RegMemFill0Value    = 0x006
	RegMemFill0Control  = 0x007
	RegMemFill1Start    = 0x008
	RegMemFill1End      = 0x009
	RegMemFill1Value    = 0x00A
	RegMemFill1Control  = 0x00B

	RegDispTransferInputAddr   = 0x010
	RegDispTransferOutputAddr  = 0x011
	RegDispTransferInputDim    = 0x012
	RegDispTransferOutputDim   = 0x013
	RegDispTransferFlags       = 0x014
	RegDispTransferTrigger     = 0x015
	RegDispTextureCopySize     = 0x016
	RegDispTextureCopyInDims   = 0x017
	RegDispTextureCopyOutDims  = 0x018

	RegCmdListSize  = 0x020
	RegCmdListAddr  = 0x021
	RegCmdListTrigger = 0x022

	RegViewportWidth  = 0x041
	RegViewportHeight = 0x042
	RegViewportXY     = 0x043

	RegDepthColorBufferBase = 0x050
	RegFrameDim             = 0x051

	RegTexUnit0Addr   = 0x080
	RegTexUnit0Dim    = 0x082
	RegTexUnit0Format = 0x083
	RegTexUnit1Addr   = 0x090
	RegTexUnit1Dim    = 0x092
	RegTexUnit1Format = 0x093
	RegTexUnit2Addr   = 0x0A0
	RegTexUnit2Dim    = 0x0A2
	RegTexUnit2Format = 0x0A3

	RegCombinerBase = 0x0C0 // 6 stages * 8 words each

	RegBlendColor     = 0x100
	RegBlendFunc      = 0x101
	RegFragmentOp     = 0x102

	RegFramebufferLCDColorAddrA = 0x110
	RegFramebufferLCDColorAddrB = 0x111
	RegFramebufferFormat        = 0x112
	RegFramebufferSelect        = 0x113

	RegVshFloatUniformIndex = 0x2C0
	RegVshFloatUniformData  = 0x2C1
	RegVshCodeIndex         = 0x2C6
	RegVshCodeData          = 0x2C7
	RegVshOpDescIndex       = 0x2D6
	RegVshOpDescData        = 0x2D7
	RegVshEntryPoint        = 0x2CB
	RegVshBoolUniform       = 0x2B0
	RegVshAttrCount         = 0x2B1
	RegVshIntUniformBase    = 0x2B4 // 4 registers, i0..i3
)

// WriteRegister performs a masked write into the flat register bank
// (spec.md §9 design note: "a flat array with parallel side-effect
// dispatch table keyed by register id") and then applies whatever
// side effect that register carries. mask carries one bit per byte
// lane the guest's command actually wrote (spec.md §4.5: "a 4-bit
// per-word lane mask"); a register with mask 0 is a pure no-op,
// including any side effect, matching hardware where an unwritten
// register trigger never latches.
func (g *GPU) WriteRegister(id uint16, value uint32, mask uint8) {
	if mask == 0 {
		return
	}
	idx := int(id) % NumRegisters
	g.Context.Regs[idx] = applyLaneMask(g.Context.Regs[idx], value, mask)
	g.dispatchRegisterWrite(id)
}

func applyLaneMask(old, value uint32, mask uint8) uint32 {
	var out uint32
	for lane := 0; lane < 4; lane++ {
		shift := uint(lane * 8)
		byteMask := uint32(0xFF) << shift
		if mask&(1<<uint(lane)) != 0 {
			out |= value & byteMask
		} else {
			out |= old & byteMask
		}
	}
	return out
}

func (g *GPU) reg(id uint16) uint32 { return g.Context.Regs[int(id)%NumRegisters] }

func (g *GPU) dispatchRegisterWrite(id uint16) {
	switch {
	case id == RegMemFill0Control:
		g.triggerMemFill(0)
	case id == RegMemFill1Control:
		g.triggerMemFill(1)
	case id == RegDispTransferTrigger:
		g.triggerDisplayTransfer()
	case id == RegCmdListTrigger:
		g.triggerCommandList()

	case id == RegViewportWidth:
		g.Context.ViewportWidth = bitsToFloat24(g.reg(RegViewportWidth))
	case id == RegViewportHeight:
		g.Context.ViewportHeight = bitsToFloat24(g.reg(RegViewportHeight))
	case id == RegViewportXY:
		v := g.reg(RegViewportXY)
		g.Context.ViewportX = int16(v & 0xFFFF)
		g.Context.ViewportY = int16(v >> 16)

	case id == RegDepthColorBufferBase:
		g.Context.DepthBufferBase = g.reg(RegDepthColorBufferBase) & 0xFFFFF000
	case id == RegFrameDim:
		v := g.reg(RegFrameDim)
		g.Context.FrameWidth = uint16(v & 0xFFFF)
		g.Context.FrameHeight = uint16(v >> 16)

	case id == RegFramebufferLCDColorAddrA:
		g.Framebuffers[0].LeftAddrA = g.reg(RegFramebufferLCDColorAddrA)
	case id == RegFramebufferLCDColorAddrB:
		g.Framebuffers[0].LeftAddrB = g.reg(RegFramebufferLCDColorAddrB)
	case id == RegFramebufferFormat:
		g.Framebuffers[0].ColorFormat = uint8(g.reg(RegFramebufferFormat))
	case id == RegFramebufferSelect:
		g.Framebuffers[0].BufferSelect = g.reg(RegFramebufferSelect)&1 != 0

	case id >= RegTexUnit0Addr && id < RegTexUnit0Addr+0x10:
		g.dispatchTexUnit(0, id-RegTexUnit0Addr)
	case id >= RegTexUnit1Addr && id < RegTexUnit1Addr+0x10:
		g.dispatchTexUnit(1, id-RegTexUnit1Addr)
	case id >= RegTexUnit2Addr && id < RegTexUnit2Addr+0x10:
		g.dispatchTexUnit(2, id-RegTexUnit2Addr)

	case id >= RegCombinerBase && id < RegCombinerBase+6*8:
		g.dispatchCombiner(id - RegCombinerBase)

	case id == RegBlendColor:
		g.dispatchBlendColor()
	case id == RegBlendFunc:
		g.dispatchBlendFunc()
	case id == RegFragmentOp:
		g.Context.FragmentOp = uint8(g.reg(RegFragmentOp))

	case id == RegVshFloatUniformData:
		g.uploadVshFloatUniform()
	case id == RegVshCodeData:
		g.VertexShaderUnit().UploadCodeWord(g.reg(RegVshCodeData))
	case id == RegVshOpDescData:
		g.VertexShaderUnit().UploadOpDescWord(g.reg(RegVshOpDescData))
	case id == RegVshFloatUniformIndex:
		idxReg := g.reg(RegVshFloatUniformIndex)
		g.VertexShaderUnit().FloatUniformIndex = uint8(idxReg & 0x7F)
		g.VertexShaderUnit().FloatUniformMode32 = idxReg&0x80000000 != 0
		g.VertexShaderUnit().FloatUniformCounter = 0
	case id == RegVshCodeIndex:
		g.VertexShaderUnit().CodeIndex = g.reg(RegVshCodeIndex)
	case id == RegVshOpDescIndex:
		g.VertexShaderUnit().OpDescIndex = g.reg(RegVshOpDescIndex)
	case id == RegVshEntryPoint:
		g.VertexShaderUnit().EntryPoint = uint16(g.reg(RegVshEntryPoint))
	case id == RegVshBoolUniform:
		g.VertexShaderUnit().BoolUniform = uint16(g.reg(RegVshBoolUniform))
	case id >= RegVshIntUniformBase && id < RegVshIntUniformBase+shader.NumIntUniform:
		v := g.reg(id)
		g.VertexShaderUnit().IntUniform[id-RegVshIntUniformBase] = shader.IntUniformValue{
			Iterations: uint8(v),
			Initial:    uint8(v >> 8),
			Step:       uint8(v >> 16),
		}
	}
}

// VertexShaderUnit returns the vertex-stage shader unit, so the
// dispatch table above has one call site to change if a future
// revision routes uploads to the geometry unit instead.
func (g *GPU) VertexShaderUnit() *shader.Unit {
	return &g.Context.VertexShader
}
