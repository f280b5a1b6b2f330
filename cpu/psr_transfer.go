package cpu

// ExecutePSRTransfer runs MRS (PSR -> register) and MSR (register/imm
// -> PSR), including MSR's masked-field form. In a non-privileged mode
// only the flag byte of CPSR may be written; mode/IRQ/FIQ/thumb fields
// are protected outside privileged modes (spec.md §4.1 edge case).
func (c *CPU) ExecutePSRTransfer(inst Instruction) error {
	raw := inst.Raw

	isMSR := raw>>21&Mask1Bit != 0
	useSPSR := raw>>22&Mask1Bit != 0

	if !isMSR {
		rd := int(raw >> RdShift & Mask4Bit)
		if useSPSR {
			if spsr, ok := c.CurrentSPSR(); ok {
				c.SetRegister(rd, spsr.ToUint32())
			}
		} else {
			c.SetRegister(rd, c.CPSR.ToUint32())
		}
		return nil
	}

	var value uint32
	if raw>>IBitShift&Mask1Bit != 0 {
		imm := raw & Mask8Bit
		rotation := (raw >> 8 & Mask4Bit) * 2
		value, _ = Shift(imm, int(rotation), ShiftROR, c.CPSR.C)
	} else {
		rm := int(raw & Mask4Bit)
		value = c.GetRegister(rm)
	}

	fieldMask := raw >> 16 & Mask4Bit
	privileged := c.CPSR.Mode != ModeUser

	if useSPSR {
		spsr, ok := c.CurrentSPSR()
		if !ok {
			return nil
		}
		spsr = mergePSRFields(spsr, value, fieldMask, true, true)
		c.SetSPSRFor(c.CPSR.Mode, spsr)
		return nil
	}

	newCPSR := mergePSRFields(c.CPSR, value, fieldMask, privileged, false)
	if privileged && newCPSR.Mode != c.CPSR.Mode {
		old := c.CPSR.Mode
		c.CPSR = newCPSR
		c.SwapBank(old, newCPSR.Mode)
		return nil
	}
	c.CPSR = newCPSR
	return nil
}

// mergePSRFields applies MSR's per-byte field mask to psr, honoring the
// documented restriction that control-field bits (mode, I, F, T) can
// only be changed when allowControl is set (privileged CPSR writes, or
// any SPSR write since SPSR has no "current mode" concept). The Thumb
// bit is additionally barred from ever being written through a direct
// CPSR MSR, privileged or not; only SPSR writes and interworking
// branches may change processor state.
func mergePSRFields(psr PSR, value, fieldMask uint32, allowControl, useSPSR bool) PSR {
	packed := psr.ToUint32()

	if fieldMask&0x1 != 0 && allowControl {
		controlByte := value & 0xFF
		if !useSPSR {
			controlByte &^= 0x20
		}
		packed = packed&^0xFF | controlByte
	}
	if fieldMask&0x2 != 0 {
		packed = packed&^0xFF00 | value&0xFF00
	}
	if fieldMask&0x4 != 0 {
		packed = packed&^0xFF0000 | value&0xFF0000
	}
	if fieldMask&0x8 != 0 {
		packed = packed&^0xFF000000 | value&0xFF000000
	}

	return FromUint32(packed)
}
