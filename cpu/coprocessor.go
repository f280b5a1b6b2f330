package cpu

import "github.com/horizon3ds/core/cp15"

// coprocessorID is the 4-bit field selecting which coprocessor a
// coprocessor-register transfer addresses. Only CP15 is implemented;
// every other id is a silent no-op (matching the open-question decision
// recorded for the system control coprocessor: an undefined CP number
// reads as zero and ignores writes rather than faulting).
func coprocessorID(raw uint32) uint32 {
	return raw >> 8 & Mask4Bit
}

// ExecuteCoprocessorReg runs MRC/MCR. Only the system control
// coprocessor (CP15) is wired to anything; this CPU has no DMA or VFP
// coprocessor model.
func (c *CPU) ExecuteCoprocessorReg(inst Instruction) error {
	raw := inst.Raw
	if coprocessorID(raw) != 15 || c.CP15 == nil {
		return nil
	}

	load := raw>>LBitShift&Mask1Bit != 0
	crn := uint8(raw >> RnShift & Mask4Bit)
	rd := int(raw >> RdShift & Mask4Bit)
	op1 := uint8(raw >> 21 & Mask3Bit)
	crm := uint8(raw & Mask4Bit)
	op2 := uint8(raw >> 5 & Mask3Bit)

	if load {
		c.SetRegister(rd, c.CP15.MRC(crn, op1, crm, op2))
	} else {
		c.CP15.MCR(crn, op1, crm, op2, c.GetRegister(rd))
	}
	return nil
}

// BindCP15 attaches the system control coprocessor this CPU's
// coprocessor-register instructions operate on. Each core has its own
// CP15 instance (distinct TCM configuration per spec.md §4.3).
func (c *CPU) BindCP15(cp *cp15.CP15) {
	c.CP15 = cp
}
