package cpu

import "github.com/horizon3ds/core/bus"

// ExecuteCPS runs the Change Processor State instruction: an optional
// mode switch (mmod) plus independent enable/disable of the IRQ and FIQ
// masks (imod 2 = enable, imod 3 = disable; imod 0/1 are reserved and
// left as no-ops here).
func (c *CPU) ExecuteCPS(inst Instruction) error {
	raw := inst.Raw

	mmod := raw>>17&Mask1Bit != 0
	imod := raw >> 18 & Mask2Bit
	f := raw>>6&Mask1Bit != 0
	i := raw>>7&Mask1Bit != 0

	if mmod {
		mode := Mode(raw & Mask5Bit)
		old := c.CPSR.Mode
		c.SwapBank(old, mode)
		c.CPSR.Mode = mode
	}

	switch imod {
	case 0x2: // enable
		if f {
			c.CPSR.FIQDisable = false
		}
		if i {
			c.CPSR.IRQDisable = false
		}
	case 0x3: // disable
		if f {
			c.CPSR.FIQDisable = true
		}
		if i {
			c.CPSR.IRQDisable = true
		}
	}
	return nil
}

// ExecuteSRS (Store Return State) saves LR and the current mode's SPSR
// to the stack banked for the target mode, without actually switching
// into that mode for the rest of execution (it borrows the target
// mode's SP, then restores the original mode before returning).
func (c *CPU) ExecuteSRS(b bus.Bus, inst Instruction) error {
	raw := inst.Raw
	writeback := raw>>21&Mask1Bit != 0
	up := raw>>23&Mask1Bit != 0
	pre := raw>>24&Mask1Bit != 0
	targetMode := Mode(raw & Mask5Bit)

	savedLR := c.R[LR]
	savedSPSR, _ := c.CurrentSPSR()

	oldMode := c.CPSR.Mode
	c.SwapBank(oldMode, targetMode)
	c.CPSR.Mode = targetMode
	bankedSP := c.GetSP()
	c.CPSR.Mode = oldMode
	c.SwapBank(targetMode, oldMode)

	offset := int32(-4)
	if up {
		offset = 4
	}

	var err error
	if up {
		if pre {
			err = b.Write32(uint32(int32(bankedSP)+offset), savedLR)
			if err == nil {
				err = b.Write32(uint32(int32(bankedSP)+offset*2), savedSPSR.ToUint32())
			}
		} else {
			err = b.Write32(bankedSP, savedLR)
			if err == nil {
				err = b.Write32(uint32(int32(bankedSP)+offset), savedSPSR.ToUint32())
			}
		}
	} else {
		if pre {
			err = b.Write32(uint32(int32(bankedSP)+offset), savedSPSR.ToUint32())
			if err == nil {
				err = b.Write32(uint32(int32(bankedSP)+offset*2), savedLR)
			}
		} else {
			err = b.Write32(bankedSP, savedSPSR.ToUint32())
			if err == nil {
				err = b.Write32(uint32(int32(bankedSP)+offset), savedLR)
			}
		}
	}
	if err != nil {
		return err
	}

	if writeback {
		newSP := uint32(int32(bankedSP) + offset*2)
		c.SwapBank(oldMode, targetMode)
		c.CPSR.Mode = targetMode
		c.SetSP(newSP)
		c.CPSR.Mode = oldMode
		c.SwapBank(targetMode, oldMode)
	}
	return nil
}

// ExecuteRFE (Return From Exception) loads PC and CPSR from a memory
// stack built by a matching SRS, the privileged-mode counterpart to
// MOVS PC, LR for software that saved state off-register.
func (c *CPU) ExecuteRFE(b bus.Bus, inst Instruction) error {
	raw := inst.Raw
	writeback := raw>>21&Mask1Bit != 0
	up := raw>>23&Mask1Bit != 0
	pre := raw>>24&Mask1Bit != 0
	rn := int(raw >> RnShift & Mask4Bit)

	addr := c.GetRegister(rn)
	offset := int32(-4)
	if up {
		offset = 4
	}

	// PC sits in the lower of the two words and CPSR above it, the layout
	// SRS stores for every addressing mode.
	low := addr // IA
	if pre == up {
		low = uint32(int32(addr) + offset) // IB: addr+4, DA: addr-4
	} else if pre {
		low = addr - 8 // DB
	}

	var pc, psr uint32
	pc, err := b.Read32(low)
	if err == nil {
		psr, err = b.Read32(low + 4)
	}
	if err != nil {
		return err
	}

	if writeback {
		c.SetRegister(rn, uint32(int32(addr)+offset*2))
	}

	newPSR := FromUint32(psr)
	old := c.CPSR.Mode
	c.SwapBank(old, newPSR.Mode)
	c.CPSR = newPSR
	c.setPCRaw(pc)
	return nil
}
