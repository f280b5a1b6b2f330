// Package shader implements the vertex/geometry shader microcode
// interpreter: register files, the IF/CALL control-flow stacks, operand
// descriptor decoding, and the uniform-upload state machine.
package shader

import "github.com/horizon3ds/core/vec4"

const (
	NumInput        = 16
	NumTemp         = 16
	NumOutput       = 16
	NumFloatUniform = 96
	NumIntUniform   = 4
	CodeSize        = 512
	NumOpDesc       = 128
	IfStackDepth    = 8
	CallStackDepth  = 4
	LoopStackDepth  = 4
)

// ifFrame is one entry of the IF-stack: the PC to resume at once the
// "then" arm has run its course, and the PC where the whole construct
// ends.
type ifFrame struct {
	elsePC uint16
	endPC  uint16
}

// callFrame is one entry of the CALL-stack: where to resume once the
// callee crosses its frame-end PC.
type callFrame struct {
	returnPC uint16
	endPC    uint16
}

// loopFrame is one entry of the LOOP-stack: the body's start/end PCs,
// how many passes remain, and the step added to AddressReg[2] (aL)
// after each pass.
type loopFrame struct {
	bodyPC    uint16
	endPC     uint16
	remaining uint8
	step      uint8
}

// IntUniformValue is one integer uniform register (i0-i3): the LOOP
// triple original_source's shader packs into a single 32-bit word
// (iteration count, aL's initial value, per-iteration step). The
// fourth byte lane exists on hardware but nothing reads it here.
type IntUniformValue struct {
	Iterations uint8
	Initial    uint8
	Step       uint8
}

// Unit is one shader core, shared in shape by the vertex and geometry
// stages (the GPU owns two instances, per original_source's GPU_Context
// vsh/gsh fields).
type Unit struct {
	Input  [NumInput]vec4.Vec4
	Temp   [NumTemp]vec4.Vec4
	Output [NumOutput]vec4.Vec4

	FloatUniform [NumFloatUniform]vec4.Vec4
	BoolUniform  uint16
	CmpRegs      [2]bool

	InputAttrs   [NumInput]vec4.Vec4
	InputMapping [NumInput]uint8
	TotalInputs  uint8

	FloatUniformIndex   uint8
	FloatUniformMode32  bool
	FloatUniformBuffer  [16]uint32
	FloatUniformCounter int

	EntryPoint uint16
	PC         uint16

	Code        [CodeSize]uint32
	CodeIndex   uint32
	OpDesc      [NumOpDesc]uint32
	OpDescIndex uint32

	// AddressReg holds a0.x, a0.y (written by MOVA) and aL (index 2,
	// advanced by LOOP and otherwise read-only to the program).
	AddressReg [3]int32
	IntUniform [NumIntUniform]IntUniformValue

	ifStack   [IfStackDepth]ifFrame
	ifPtr     uint8
	callStack [CallStackDepth]callFrame
	callPtr   uint8
	loopStack [LoopStackDepth]loopFrame
	loopPtr   uint8

	halted bool
}

// Reset clears all interpreter state, leaving uploaded code/uniforms
// intact (those are reprogrammed independently via the command engine).
func (u *Unit) Reset() {
	u.ifPtr = 0
	u.callPtr = 0
	u.loopPtr = 0
	u.PC = 0
	u.halted = false
	u.CmpRegs = [2]bool{}
}

// UploadCodeWord stores one 32-bit instruction word at the
// auto-incrementing code index (mirrors original_source's code_index
// companion register).
func (u *Unit) UploadCodeWord(w uint32) {
	if int(u.CodeIndex) < len(u.Code) {
		u.Code[u.CodeIndex] = w
	}
	u.CodeIndex++
}

// UploadOpDescWord stores one operand-descriptor word at the
// auto-incrementing descriptor index.
func (u *Unit) UploadOpDescWord(w uint32) {
	if int(u.OpDescIndex) < len(u.OpDesc) {
		u.OpDesc[u.OpDescIndex] = w
	}
	u.OpDescIndex++
}

// ApplyInputMapping copies InputAttrs into Input according to
// InputMapping, the step original_source's comment calls out explicitly
// ("input_regs is input_attrs done after input_mapping is applied").
func (u *Unit) ApplyInputMapping() {
	for i := 0; i < int(u.TotalInputs) && i < NumInput; i++ {
		u.Input[i] = u.InputAttrs[u.InputMapping[i]]
	}
}

// UploadFloatUniform buffers one 32-bit word of a float-uniform upload.
// 32-bit mode takes four raw IEEE-754 words per Vec4, one per lane;
// 24-bit mode takes three words carrying the four float24 lanes packed
// back to back. The caller-supplied unpack functions expand the buffer
// so this type doesn't need to depend on the wire format directly.
func (u *Unit) UploadFloatUniform(word uint32, unpack24 func(buf [16]uint32, n int) vec4.Vec4, unpack32 func(buf [16]uint32) vec4.Vec4) {
	u.FloatUniformBuffer[u.FloatUniformCounter] = word
	u.FloatUniformCounter++

	needed := 4
	if !u.FloatUniformMode32 {
		needed = 3
	}

	if u.FloatUniformCounter < needed {
		return
	}

	var v vec4.Vec4
	if u.FloatUniformMode32 {
		v = unpack32(u.FloatUniformBuffer)
	} else {
		v = unpack24(u.FloatUniformBuffer, needed)
	}

	if int(u.FloatUniformIndex) < NumFloatUniform {
		u.FloatUniform[u.FloatUniformIndex] = v
	}
	u.FloatUniformIndex++
	u.FloatUniformCounter = 0
}
