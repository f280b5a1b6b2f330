package shader

import (
	"github.com/horizon3ds/core/float24"
	"github.com/horizon3ds/core/vec4"
)

// Opcode is the high 6 bits of a shader instruction word.
type Opcode uint8

const (
	OpADD Opcode = iota
	OpDP3
	OpDP4
	OpDPH
	OpMUL
	OpMAX
	OpMIN
	OpRCP
	OpRSQ
	OpMOV
	OpMOVA
	OpCMP
	OpIFU
	OpIFC
	OpCALL
	OpCALLU
	OpNOP
	OpEND
	OpRET
	OpLOOP
	OpJMP
	OpMAD
	OpUndefined
)

// opcodeTable maps the raw 6-bit field to Opcode; any value not present
// decodes to OpUndefined (spec.md §7: "unknown shader opcode -> fatal").
var opcodeTable = map[uint8]Opcode{
	0x00: OpADD,
	0x08: OpDP3,
	0x09: OpDP4,
	0x0A: OpDPH,
	0x0D: OpMUL,
	0x10: OpMAX,
	0x11: OpMIN,
	0x12: OpRCP,
	0x13: OpRSQ,
	0x20: OpMOV,
	0x22: OpMOVA,
	0x21: OpCMP,
	0x0C: OpIFU,
	0x0E: OpIFC,
	0x24: OpCALL,
	0x25: OpCALLU,
	0x30: OpNOP,
	0x31: OpEND,
	0x32: OpRET,
	0x38: OpLOOP,
	0x26: OpJMP,
	0x3A: OpMAD,
}

// Instruction is a decoded shader opcode word, carrying everything the
// interpreter needs without re-masking raw bits at dispatch time.
type Instruction struct {
	Raw  uint32
	Op   Opcode
	Dest uint8 // destination selector (file and index), in the sources' 7-bit form
	Src1 uint8
	Src2 uint8
	Src3 uint8
	Idx1 uint8
	OpDescIndex uint8
}

// DecodeInstruction classifies a raw 32-bit shader instruction word. The
// exact bit layout is this core's own (no vendor ISA document is part of
// the retrieval pack); it follows the field grouping spec.md §4.4
// documents: 6-bit opcode, operand-descriptor index, up to three source
// selectors, a destination, and an indirection index.
func DecodeInstruction(raw uint32) Instruction {
	op, ok := opcodeTable[uint8(raw>>26&0x3F)]
	if !ok {
		op = OpUndefined
	}
	// The 5-bit destination field names o0-o15 (0x00-0x0F) or r0-r15
	// (0x10-0x1F).
	dest := uint8(raw >> 21 & 0x1F)
	destSel := uint8(fileOutput)<<5 | dest
	if dest >= 0x10 {
		destSel = uint8(fileTemp)<<5 | (dest - 0x10)
	}
	return Instruction{
		Raw:         raw,
		Op:          op,
		Dest:        destSel,
		Src1:        uint8(raw >> 14 & 0x7F),
		Src2:        uint8(raw >> 7 & 0x7F),
		Src3:        uint8(raw & 0x7F),
		Idx1:        uint8(raw >> 19 & 0x3),
		OpDescIndex: uint8(raw & 0x7F),
	}
}

// OperandDescriptor is a decoded entry of the operand-descriptor table:
// a destination write-mask plus, per source, a 3-component swizzle and
// a negate flag (spec.md §4.4 / GLOSSARY "Operand descriptor").
type OperandDescriptor struct {
	DestMask    uint8 // bit i set => lane i is written
	Negate      [3]bool
	Swizzle     [3][4]uint8 // per source, per destination lane, which source lane to read
}

// DecodeOperandDescriptor unpacks one 32-bit operand-descriptor word.
func DecodeOperandDescriptor(raw uint32) OperandDescriptor {
	var d OperandDescriptor
	d.DestMask = uint8(raw & 0xF)
	for src := 0; src < 3; src++ {
		shift := uint(4 + src*9)
		d.Negate[src] = raw>>(shift+8)&1 != 0
		swz := raw >> shift & 0xFF
		for lane := 0; lane < 4; lane++ {
			d.Swizzle[src][lane] = uint8(swz >> uint(lane*2) & 0x3)
		}
	}
	return d
}

// ApplySwizzle reads src according to a descriptor's swizzle/negate for
// operand index srcIdx (0, 1, or 2).
func ApplySwizzle(src vec4.Vec4, d OperandDescriptor, srcIdx int) vec4.Vec4 {
	var out vec4.Vec4
	for lane := 0; lane < 4; lane++ {
		v := src.Lane(int(d.Swizzle[srcIdx][lane]))
		if d.Negate[srcIdx] {
			v = float24.Neg(v)
		}
		out.SetLane(lane, v)
	}
	return out
}
