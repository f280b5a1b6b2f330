package gpu

import "github.com/horizon3ds/core/float24"

func bitsToFloat24(bits uint32) float24.Float24 { return float24.Float24(bits & 0xFFFFFF) }

func (g *GPU) dispatchTexUnit(unit int, offset uint16) {
	c := &g.Context
	switch offset {
	case 0x0, 0x1: // two address words for unit 0, one for 1/2 (simplified to one slot each here)
		c.TexAddr[unit] = g.reg(texUnitReg(unit, 0))
	case 0x2:
		v := g.reg(texUnitReg(unit, 2))
		c.TexWidth[unit] = v & 0xFFFF
		c.TexHeight[unit] = v >> 16
	case 0x3:
		c.TexType[unit] = uint8(g.reg(texUnitReg(unit, 3)))
	}
}

func texUnitReg(unit int, offset uint16) uint16 {
	switch unit {
	case 0:
		return RegTexUnit0Addr + offset
	case 1:
		return RegTexUnit1Addr + offset
	default:
		return RegTexUnit2Addr + offset
	}
}

// dispatchCombiner decodes one of the six texture-combiner stages' 8
// registers: source selectors, operand modifiers, the combine op,
// constant color, and output scale (spec.md §4.8 "six-stage combiner
// chain").
func (g *GPU) dispatchCombiner(offset uint16) {
	stage := int(offset / 8)
	if stage >= 6 {
		return
	}
	field := offset % 8
	c := &g.Context
	v := g.reg(RegCombinerBase + offset)
	switch field {
	case 0:
		c.CombRGBSource[stage][0] = uint8(v)
		c.CombRGBSource[stage][1] = uint8(v >> 4)
		c.CombRGBSource[stage][2] = uint8(v >> 8)
		c.CombAlphaSource[stage][0] = uint8(v >> 16)
		c.CombAlphaSource[stage][1] = uint8(v >> 20)
		c.CombAlphaSource[stage][2] = uint8(v >> 24)
	case 1:
		c.CombRGBOperand[stage][0] = uint8(v)
		c.CombRGBOperand[stage][1] = uint8(v >> 4)
		c.CombRGBOperand[stage][2] = uint8(v >> 8)
		c.CombAlphaOperand[stage][0] = uint8(v >> 16)
		c.CombAlphaOperand[stage][1] = uint8(v >> 20)
		c.CombAlphaOperand[stage][2] = uint8(v >> 24)
	case 2:
		c.CombRGBOp[stage] = uint8(v)
		c.CombAlphaOp[stage] = uint8(v >> 16)
	case 3:
		c.CombConstant[stage] = RGBAColor{
			R: int32(v & 0xFF), G: int32(v >> 8 & 0xFF),
			B: int32(v >> 16 & 0xFF), A: int32(v >> 24 & 0xFF),
		}
	case 4:
		c.CombRGBScale[stage] = uint8(v & 0x3)
		c.CombAlphaScale[stage] = uint8(v >> 16 & 0x3)
	}
}

func (g *GPU) dispatchBlendColor() {
	v := g.reg(RegBlendColor)
	g.Context.BlendColor = RGBAColor{
		R: int32(v & 0xFF), G: int32(v >> 8 & 0xFF),
		B: int32(v >> 16 & 0xFF), A: int32(v >> 24 & 0xFF),
	}
}

func (g *GPU) dispatchBlendFunc() {
	v := g.reg(RegBlendFunc)
	c := &g.Context
	c.BlendRGBEquation = uint8(v & 0x7)
	c.BlendAlphaEquation = uint8(v >> 8 & 0x7)
	c.BlendRGBSrcFunc = uint8(v >> 16 & 0xF)
	c.BlendRGBDstFunc = uint8(v >> 20 & 0xF)
	c.BlendAlphaSrcFunc = uint8(v >> 24 & 0xF)
	c.BlendAlphaDstFunc = uint8(v >> 28 & 0xF)
}

// uploadVshFloatUniform feeds one uploaded word into the vertex
// shader's uniform-upload state machine, unpacking either three
// packed float24 words or four raw binary32 words per Vec4 depending
// on the 32-bit mode bit (spec.md §4.4 "uniform upload state
// machine").
func (g *GPU) uploadVshFloatUniform() {
	word := g.reg(RegVshFloatUniformData)
	g.VertexShaderUnit().UploadFloatUniform(word, unpackFloat24Triple, unpackFloat32Quad)
}
