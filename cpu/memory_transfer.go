package cpu

import (
	"fmt"

	"github.com/horizon3ds/core/bus"
)

// singleTransferOffset decodes the single-transfer offset field: either a
// 12-bit immediate or a register shifted by an immediate amount, matching
// the operand2 shifter (including ROR #0 as RRX) but without its
// shift-by-register form (LDR/STR never shift by a register amount).
func (c *CPU) singleTransferOffset(raw uint32) uint32 {
	if raw>>IBitShift&Mask1Bit == 0 {
		return raw & Mask12Bit
	}
	rm := int(raw & Mask4Bit)
	shiftType := ShiftType(raw >> ShiftTypeShift & Mask2Bit)
	amount := int(raw >> ShiftAmountShift & Mask5Bit)
	if shiftType == ShiftROR && amount == 0 {
		shiftType = ShiftRRX
	}
	result, _ := Shift(c.GetRegister(rm), amount, shiftType, c.CPSR.C)
	return result
}

// ExecuteSingleTransfer runs LDR/STR/LDRB/STRB with all four
// pre/post-index, up/down, writeback addressing combinations.
func (c *CPU) ExecuteSingleTransfer(b bus.Bus, inst Instruction) error {
	raw := inst.Raw
	pre := raw>>PBitShift&Mask1Bit != 0
	up := raw>>UBitShift&Mask1Bit != 0
	byteAccess := raw>>BBitShift&Mask1Bit != 0
	writeback := raw>>WBitShift&Mask1Bit != 0
	load := raw>>LBitShift&Mask1Bit != 0

	rn := int(raw >> RnShift & Mask4Bit)
	rd := int(raw >> RdShift & Mask4Bit)

	base := c.GetRegister(rn)
	offset := c.singleTransferOffset(raw)

	addr := base
	if pre {
		addr = applyOffset(base, offset, up)
	}

	if load {
		if byteAccess {
			v, err := b.Read8(addr)
			if err != nil {
				return err
			}
			c.SetRegister(rd, uint32(v))
		} else {
			v, err := b.Read32(addr)
			if err != nil {
				return err
			}
			c.SetRegister(rd, v)
		}
	} else {
		v := c.GetRegister(rd)
		var err error
		if byteAccess {
			err = b.Write8(addr, byte(v))
		} else {
			err = b.Write32(addr, v)
		}
		if err != nil {
			return err
		}
	}

	if !pre {
		writeback = true
		addr = applyOffset(base, offset, up)
	}
	if writeback && (pre || !load || rd != rn) {
		c.SetRegister(rn, addr)
	}
	return nil
}

func applyOffset(base, offset uint32, up bool) uint32 {
	if up {
		return base + offset
	}
	return base - offset
}

// ExecuteHalfwordTransfer runs LDRH/STRH/LDRSB/LDRSH, the register- or
// immediate-offset halfword/signed-byte family.
func (c *CPU) ExecuteHalfwordTransfer(b bus.Bus, inst Instruction) error {
	raw := inst.Raw
	pre := raw>>PBitShift&Mask1Bit != 0
	up := raw>>UBitShift&Mask1Bit != 0
	writeback := raw>>WBitShift&Mask1Bit != 0
	load := raw>>LBitShift&Mask1Bit != 0
	immediate := raw>>22&Mask1Bit != 0

	rn := int(raw >> RnShift & Mask4Bit)
	rd := int(raw >> RdShift & Mask4Bit)

	var offset uint32
	if immediate {
		offset = (raw>>8&Mask4Bit)<<4 | raw&Mask4Bit
	} else {
		offset = c.GetRegister(int(raw & Mask4Bit))
	}

	sh := raw >> 5 & Mask2Bit // 01=halfword, 10=signed byte, 11=signed halfword

	base := c.GetRegister(rn)
	addr := base
	if pre {
		addr = applyOffset(base, offset, up)
	}

	if load {
		var v uint32
		var err error
		switch sh {
		case 0x1:
			var h uint16
			h, err = b.Read16(addr)
			v = uint32(h)
		case 0x2:
			var bv byte
			bv, err = b.Read8(addr)
			v = uint32(int32(int8(bv)))
		case 0x3:
			var h uint16
			h, err = b.Read16(addr)
			v = uint32(int32(int16(h)))
		}
		if err != nil {
			return err
		}
		c.SetRegister(rd, v)
	} else {
		if err := b.Write16(addr, uint16(c.GetRegister(rd))); err != nil {
			return err
		}
	}

	if !pre {
		writeback = true
		addr = applyOffset(base, offset, up)
	}
	if writeback {
		c.SetRegister(rn, addr)
	}
	return nil
}

// ExecuteBlockTransfer runs LDM/STM, iterating the register list in
// ascending register-number order regardless of the up/down bit (the
// up/down bit only controls whether the base moves up or down in
// memory; IA/IB/DA/DB are expressed via pre/up combinations).
func (c *CPU) ExecuteBlockTransfer(b bus.Bus, inst Instruction) error {
	raw := inst.Raw
	pre := raw>>PBitShift&Mask1Bit != 0
	up := raw>>UBitShift&Mask1Bit != 0
	psrBit := raw>>BBitShift&Mask1Bit != 0
	writeback := raw>>WBitShift&Mask1Bit != 0
	load := raw>>LBitShift&Mask1Bit != 0
	rn := int(raw >> RnShift & Mask4Bit)
	list := raw & 0xFFFF

	regs := make([]int, 0, 16)
	for i := 0; i < 16; i++ {
		if list&(1<<uint(i)) != 0 {
			regs = append(regs, i)
		}
	}
	if len(regs) == 0 {
		return fmt.Errorf("%w: block transfer with empty register list", ErrUndefined)
	}

	base := c.GetRegister(rn)
	addr := base
	if !up {
		// descending addressing walks the list high-to-low in memory but
		// registers are still visited in ascending number order; start
		// from the lowest address the full list will occupy.
		addr = base - uint32(len(regs))*4
		if !pre {
			addr += 4
		}
	} else if pre {
		addr += 4
	}

	userBankTransfer := psrBit && (!load || list&(1<<PC) == 0)

	for _, r := range regs {
		if load {
			v, err := b.Read32(addr)
			if err != nil {
				return err
			}
			if userBankTransfer {
				c.R[r] = v
			} else {
				c.SetRegister(r, v)
			}
		} else {
			v := c.GetRegister(r)
			if err := b.Write32(addr, v); err != nil {
				return err
			}
		}
		addr += 4
	}

	if load && psrBit && list&(1<<PC) != 0 {
		if spsr, ok := c.CurrentSPSR(); ok {
			oldMode := c.CPSR.Mode
			c.CPSR = spsr
			c.SwapBank(oldMode, spsr.Mode)
		}
	}

	if writeback {
		if up {
			c.SetRegister(rn, base+uint32(len(regs))*4)
		} else {
			c.SetRegister(rn, base-uint32(len(regs))*4)
		}
	}
	return nil
}

// ExecuteSwap runs SWP/SWPB: an atomic (single-core, so trivially
// atomic) read-modify-write exchanging a register with memory.
func (c *CPU) ExecuteSwap(b bus.Bus, inst Instruction) error {
	raw := inst.Raw
	byteAccess := raw>>BBitShift&Mask1Bit != 0
	rn := int(raw >> RnShift & Mask4Bit)
	rd := int(raw >> RdShift & Mask4Bit)
	rm := int(raw & Mask4Bit)

	addr := c.GetRegister(rn)
	newVal := c.GetRegister(rm)

	if byteAccess {
		old, err := b.Read8(addr)
		if err != nil {
			return err
		}
		if err := b.Write8(addr, byte(newVal)); err != nil {
			return err
		}
		c.SetRegister(rd, uint32(old))
		return nil
	}

	old, err := b.Read32(addr)
	if err != nil {
		return err
	}
	if err := b.Write32(addr, newVal); err != nil {
		return err
	}
	c.SetRegister(rd, old)
	return nil
}
