package cpu

// Data-processing opcodes (bits [24:21] of the instruction word).
const (
	OpAND = 0x0
	OpEOR = 0x1
	OpSUB = 0x2
	OpRSB = 0x3
	OpADD = 0x4
	OpADC = 0x5
	OpSBC = 0x6
	OpRSC = 0x7
	OpTST = 0x8
	OpTEQ = 0x9
	OpCMP = 0xA
	OpCMN = 0xB
	OpORR = 0xC
	OpMOV = 0xD
	OpBIC = 0xE
	OpMVN = 0xF
)

func isLogical(opcode uint32) bool {
	switch opcode {
	case OpAND, OpEOR, OpTST, OpTEQ, OpORR, OpMOV, OpBIC, OpMVN:
		return true
	default:
		return false
	}
}

// operand2 decodes the shifter operand shared by data-processing
// instructions: an immediate rotated right by an even amount, or a
// register optionally shifted by an immediate or another register.
func (c *CPU) operand2(raw uint32) (value uint32, shiftCarry bool) {
	if raw>>IBitShift&Mask1Bit != 0 {
		imm := raw & Mask8Bit
		rotation := (raw >> 8 & Mask4Bit) * 2
		value, _ = Shift(imm, int(rotation), ShiftROR, c.CPSR.C)
		if rotation == 0 {
			return value, c.CPSR.C
		}
		return value, value&SignBitMask != 0
	}

	rm := int(raw & Mask4Bit)
	rmValue := c.GetRegister(rm)
	shiftType := ShiftType(raw >> ShiftTypeShift & Mask2Bit)

	var amount int
	if raw>>4&Mask1Bit != 0 {
		rs := int(raw >> RsShift & Mask4Bit)
		amount = int(c.GetRegister(rs) & Mask8Bit)
	} else {
		amount = int(raw >> ShiftAmountShift & Mask5Bit)
		if shiftType == ShiftROR && amount == 0 {
			shiftType = ShiftRRX
		}
	}

	return Shift(rmValue, amount, shiftType, c.CPSR.C)
}

// ExecuteDataProcessing runs one of the sixteen data-processing ALU
// operations. Writing the result to R15 with the S bit set restores
// CPSR from the current mode's SPSR (the documented "return from
// exception" idiom for MOVS PC, LR and similar).
func (c *CPU) ExecuteDataProcessing(inst Instruction) error {
	raw := inst.Raw
	opcode := raw >> OpcodeShift & Mask4Bit
	setFlags := raw>>SBitShift&Mask1Bit != 0
	rd := int(raw >> RdShift & Mask4Bit)
	rn := int(raw >> RnShift & Mask4Bit)

	op1 := c.GetRegister(rn)
	op2, shiftCarry := c.operand2(raw)

	var result uint32
	var carry, overflow bool
	writeResult := true
	updateFlags := setFlags

	switch opcode {
	case OpAND:
		result, carry = op1&op2, shiftCarry
	case OpEOR:
		result, carry = op1^op2, shiftCarry
	case OpSUB:
		result = op1 - op2
		carry, overflow = SubCarry(op1, op2), SubOverflow(op1, op2, result)
	case OpRSB:
		result = op2 - op1
		carry, overflow = SubCarry(op2, op1), SubOverflow(op2, op1, result)
	case OpADD:
		result = op1 + op2
		carry, overflow = AddCarry(op1, op2, result), AddOverflow(op1, op2, result)
	case OpADC:
		carryIn := boolToWord(c.CPSR.C)
		partial := op1 + op2
		result = partial + carryIn
		carry = AddCarry(op1, op2, partial) || AddCarry(partial, carryIn, result)
		overflow = AddOverflow(op1, op2, result)
	case OpSBC:
		borrow := boolToWord(!c.CPSR.C)
		result = op1 - op2 - borrow
		carry = SubCarry(op1, op2+borrow)
		overflow = SubOverflow(op1, op2+borrow, result)
	case OpRSC:
		borrow := boolToWord(!c.CPSR.C)
		result = op2 - op1 - borrow
		carry = SubCarry(op2, op1+borrow)
		overflow = SubOverflow(op2, op1+borrow, result)
	case OpTST:
		result, carry = op1&op2, shiftCarry
		writeResult, updateFlags = false, true
	case OpTEQ:
		result, carry = op1^op2, shiftCarry
		writeResult, updateFlags = false, true
	case OpCMP:
		result = op1 - op2
		carry, overflow = SubCarry(op1, op2), SubOverflow(op1, op2, result)
		writeResult, updateFlags = false, true
	case OpCMN:
		result = op1 + op2
		carry, overflow = AddCarry(op1, op2, result), AddOverflow(op1, op2, result)
		writeResult, updateFlags = false, true
	case OpORR:
		result, carry = op1|op2, shiftCarry
	case OpMOV:
		result, carry = op2, shiftCarry
	case OpBIC:
		result, carry = op1&^op2, shiftCarry
	case OpMVN:
		result, carry = ^op2, shiftCarry
	}

	if writeResult {
		if rd == PC {
			c.writePC(result, setFlags)
		} else {
			c.SetRegister(rd, result)
		}
	}

	if updateFlags {
		if rd == PC && writeResult {
			// flags already restored wholesale from SPSR by writePC
		} else if isLogical(opcode) {
			c.CPSR.UpdateFlagsNZC(result, carry)
		} else {
			c.CPSR.UpdateFlagsNZCV(result, carry, overflow)
		}
	}

	return nil
}

// writePC implements MOV/ADD/... targeting R15: branch to result, and
// when withFlags is set (the S bit), restore CPSR from the current
// SPSR as part of the same write (an exception return). Without the S
// bit, the write is an interworking branch: the target's bit 0 selects
// ARM/Thumb state and is cleared from the stored address, matching
// BranchExchange.
func (c *CPU) writePC(result uint32, withFlags bool) {
	if withFlags {
		if spsr, ok := c.CurrentSPSR(); ok {
			oldMode := c.CPSR.Mode
			c.CPSR = spsr
			c.SwapBank(oldMode, spsr.Mode)
		}
		c.setPCRaw(result)
		return
	}
	c.CPSR.Thumb = result&1 != 0
	c.setPCRaw(result &^ 1)
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
