package shader

import (
	"fmt"

	"github.com/horizon3ds/core/float24"
	"github.com/horizon3ds/core/vec4"
)

// ErrUnknownOpcode marks a decoded instruction whose high 6 bits do not
// match any defined shader opcode (spec.md §7: "unknown shader opcode
// -> fatal").
var ErrUnknownOpcode = fmt.Errorf("shader: unknown opcode")

// ErrStackOverflow marks an IF/CALL push past the stack's fixed depth
// (spec.md §7: "out-of-bounds stack push for IF/CALL -> fatal").
var ErrStackOverflow = fmt.Errorf("shader: control-flow stack overflow")

// fileSelector is the high bits of a 7-bit source/destination selector,
// choosing which register file an instruction operand addresses.
type fileSelector uint8

const (
	fileInput fileSelector = iota
	fileTemp
	fileFloatUniform
	fileOutput
)

func decodeSelector(sel uint8) (fileSelector, int) {
	return fileSelector(sel >> 5 & 0x3), int(sel & 0x1F)
}

func (u *Unit) readSource(sel uint8, idx1 uint8) vec4.Vec4 {
	file, idx := decodeSelector(sel)
	if file == fileFloatUniform && idx1 != 0 {
		idx += int(u.AddressReg[idx1-1])
	}
	switch file {
	case fileInput:
		if idx < NumInput {
			return u.Input[idx]
		}
	case fileTemp:
		if idx < NumTemp {
			return u.Temp[idx]
		}
	case fileFloatUniform:
		if idx >= 0 && idx < NumFloatUniform {
			return u.FloatUniform[idx]
		}
	case fileOutput:
		if idx < NumOutput {
			return u.Output[idx]
		}
	}
	return vec4.Vec4{}
}

func (u *Unit) writeDest(sel uint8, mask OperandDescriptor, value vec4.Vec4) {
	file, idx := decodeSelector(sel)
	var dst *vec4.Vec4
	switch file {
	case fileTemp:
		if idx < NumTemp {
			dst = &u.Temp[idx]
		}
	case fileOutput:
		if idx < NumOutput {
			dst = &u.Output[idx]
		}
	}
	if dst == nil {
		return
	}
	vec4.MaskedAssign(dst, value, vec4.Mask(mask.DestMask))
}

// Run interprets from the unit's entry point until END, RET underflow,
// or an instruction budget is exhausted (a defensive guard: the spec
// does not bound shader program length, but an interpreter loop must
// not spin forever on a malformed program).
func (u *Unit) Run(maxSteps int) error {
	u.PC = u.EntryPoint
	u.ifPtr = 0
	u.callPtr = 0
	u.loopPtr = 0
	u.halted = false

	for step := 0; step < maxSteps && !u.halted; step++ {
		if err := u.step(); err != nil {
			return err
		}
	}
	return nil
}

func (u *Unit) step() error {
	pc := u.PC
	raw := u.Code[pc%CodeSize]
	inst := DecodeInstruction(raw)
	desc := DecodeOperandDescriptor(u.OpDesc[inst.OpDescIndex%NumOpDesc])

	u.PC++

	switch inst.Op {
	case OpNOP:
	case OpEND:
		u.halted = true

	case OpADD, OpMUL, OpMAX, OpMIN:
		a := ApplySwizzle(u.readSource(inst.Src1, inst.Idx1), desc, 0)
		b := ApplySwizzle(u.readSource(inst.Src2, 0), desc, 1)
		u.writeDest(inst.Dest, desc, binaryVecOp(inst.Op, a, b))

	case OpMAD:
		a := ApplySwizzle(u.readSource(inst.Src1, inst.Idx1), desc, 0)
		b := ApplySwizzle(u.readSource(inst.Src2, 0), desc, 1)
		c := ApplySwizzle(u.readSource(inst.Src3, 0), desc, 2)
		prod := mustZip(a, b, float24.Mul)
		u.writeDest(inst.Dest, desc, mustZip(prod, c, float24.Add))

	case OpDP3, OpDP4, OpDPH:
		a := ApplySwizzle(u.readSource(inst.Src1, inst.Idx1), desc, 0)
		b := ApplySwizzle(u.readSource(inst.Src2, 0), desc, 1)
		var dot float24.Float24
		switch inst.Op {
		case OpDP3:
			dot = vec4.Dot3(a, b)
		case OpDP4:
			dot = vec4.Dot4(a, b)
		case OpDPH:
			dot = vec4.DotH(a, b)
		}
		broadcast := vec4.Vec4{X: dot, Y: dot, Z: dot, W: dot}
		u.writeDest(inst.Dest, desc, broadcast)

	case OpRCP, OpRSQ:
		a := ApplySwizzle(u.readSource(inst.Src1, inst.Idx1), desc, 0)
		var r float24.Float24
		if inst.Op == OpRCP {
			r = float24.Recip(a.X)
		} else {
			r = float24.RecipSqrt(a.X)
		}
		broadcast := vec4.Vec4{X: r, Y: r, Z: r, W: r}
		u.writeDest(inst.Dest, desc, broadcast)

	case OpMOV:
		a := ApplySwizzle(u.readSource(inst.Src1, inst.Idx1), desc, 0)
		u.writeDest(inst.Dest, desc, a)

	case OpMOVA:
		a := ApplySwizzle(u.readSource(inst.Src1, inst.Idx1), desc, 0)
		u.AddressReg[0] = float24ToInt(a.X)
		u.AddressReg[1] = float24ToInt(a.Y)

	case OpCMP:
		a := ApplySwizzle(u.readSource(inst.Src1, inst.Idx1), desc, 0)
		b := ApplySwizzle(u.readSource(inst.Src2, 0), desc, 1)
		_, eqX, gtX := float24.Cmp(a.X, b.X)
		_, eqY, gtY := float24.Cmp(a.Y, b.Y)
		u.CmpRegs[0] = eqX || gtX
		u.CmpRegs[1] = eqY || gtY

	case OpIFC:
		cond := evaluateIFC(inst.Raw, u.CmpRegs)
		elsePC := uint16(inst.Raw >> 10 & 0xFFF)
		endPC := uint16(inst.Raw & 0xFFF)
		if u.ifPtr >= IfStackDepth {
			return ErrStackOverflow
		}
		u.pushIf(elsePC, endPC)
		if !cond {
			u.PC = elsePC
		}

	case OpIFU:
		idx := inst.Raw & 0xF
		cond := u.BoolUniform&(1<<uint(idx)) != 0
		elsePC := uint16(inst.Raw >> 10 & 0xFFF)
		endPC := uint16(inst.Raw & 0xFFF)
		if u.ifPtr >= IfStackDepth {
			return ErrStackOverflow
		}
		u.pushIf(elsePC, endPC)
		if !cond {
			u.PC = elsePC
		}

	case OpCALL:
		if u.callPtr >= CallStackDepth {
			return ErrStackOverflow
		}
		target := uint16(inst.Raw >> 10 & 0xFFF)
		endPC := uint16(inst.Raw & 0xFFF)
		u.pushCall(u.PC, endPC)
		u.PC = target

	case OpCALLU:
		idx := inst.Raw & 0xF
		if u.BoolUniform&(1<<uint(idx)) != 0 {
			if u.callPtr >= CallStackDepth {
				return ErrStackOverflow
			}
			target := uint16(inst.Raw >> 10 & 0xFFF)
			endPC := uint16(inst.Raw & 0xFFF)
			u.pushCall(u.PC, endPC)
			u.PC = target
		}

	case OpJMP:
		u.PC = uint16(inst.Raw & 0xFFF)

	case OpRET:
		u.popCall()

	case OpLOOP:
		idx := uint8(inst.Raw >> 22 & 0x3)
		endPC := uint16(inst.Raw & 0xFFF)
		iu := u.IntUniform[idx]
		u.AddressReg[2] = int32(iu.Initial)
		if iu.Iterations == 0 {
			u.PC = endPC
			break
		}
		if u.loopPtr >= LoopStackDepth {
			return ErrStackOverflow
		}
		u.pushLoop(u.PC, endPC, iu.Iterations, iu.Step)

	default:
		return fmt.Errorf("%w: raw=0x%08X pc=%d", ErrUnknownOpcode, inst.Raw, pc)
	}

	u.popIfAtBoundary()
	u.popCallAtBoundary()
	u.popLoopAtBoundary()
	return nil
}

func (u *Unit) pushIf(elsePC, endPC uint16) {
	u.ifStack[u.ifPtr] = ifFrame{elsePC: elsePC, endPC: endPC}
	u.ifPtr++
}

func (u *Unit) popIfAtBoundary() {
	if u.ifPtr == 0 {
		return
	}
	top := u.ifStack[u.ifPtr-1]
	if u.PC == top.endPC {
		u.ifPtr--
	}
}

func (u *Unit) pushCall(returnPC, endPC uint16) {
	u.callStack[u.callPtr] = callFrame{returnPC: returnPC, endPC: endPC}
	u.callPtr++
}

func (u *Unit) popCall() {
	if u.callPtr == 0 {
		u.halted = true
		return
	}
	u.callPtr--
	u.PC = u.callStack[u.callPtr].returnPC
}

func (u *Unit) popCallAtBoundary() {
	if u.callPtr == 0 {
		return
	}
	top := u.callStack[u.callPtr-1]
	if u.PC == top.endPC {
		u.callPtr--
		u.PC = top.returnPC
	}
}

func (u *Unit) pushLoop(bodyPC, endPC uint16, iterations, step uint8) {
	u.loopStack[u.loopPtr] = loopFrame{bodyPC: bodyPC, endPC: endPC, remaining: iterations, step: step}
	u.loopPtr++
}

// popLoopAtBoundary runs at every frame-end PC: it counts down the
// active loop's remaining passes, advancing aL (AddressReg[2]) by the
// loop's step and jumping back to the body start for another pass, or
// popping the frame and falling through once the count is exhausted.
func (u *Unit) popLoopAtBoundary() {
	if u.loopPtr == 0 {
		return
	}
	top := &u.loopStack[u.loopPtr-1]
	if u.PC != top.endPC {
		return
	}
	top.remaining--
	if top.remaining == 0 {
		u.loopPtr--
		return
	}
	u.AddressReg[2] += int32(top.step)
	u.PC = top.bodyPC
}

func binaryVecOp(op Opcode, a, b vec4.Vec4) vec4.Vec4 {
	switch op {
	case OpADD:
		return mustZip(a, b, float24.Add)
	case OpMUL:
		return mustZip(a, b, float24.Mul)
	case OpMAX:
		return mustZip(a, b, maxF24)
	case OpMIN:
		return mustZip(a, b, minF24)
	default:
		return vec4.Vec4{}
	}
}

func mustZip(a, b vec4.Vec4, op func(x, y float24.Float24) float24.Float24) vec4.Vec4 {
	return vec4.Vec4{
		X: op(a.X, b.X),
		Y: op(a.Y, b.Y),
		Z: op(a.Z, b.Z),
		W: op(a.W, b.W),
	}
}

func maxF24(a, b float24.Float24) float24.Float24 {
	_, _, gt := float24.Cmp(a, b)
	if gt {
		return a
	}
	return b
}

func minF24(a, b float24.Float24) float24.Float24 {
	lt, _, _ := float24.Cmp(a, b)
	if lt {
		return a
	}
	return b
}

func float24ToInt(f float24.Float24) int32 {
	return int32(f.ToFloat32())
}

// evaluateIFC decodes the IFC comparison-operator field (bits [24:22])
// against the two comparison flags and applies it the way CMP's
// companion IF reads them (any / both / individual flag checks).
func evaluateIFC(raw uint32, cmp [2]bool) bool {
	op := raw >> 22 & 0x7
	switch op {
	case 0:
		return cmp[0] && cmp[1]
	case 1:
		return cmp[0] || cmp[1]
	case 2:
		return cmp[0]
	case 3:
		return cmp[1]
	default:
		return cmp[0] && cmp[1]
	}
}
