package cpu

// ExecuteBranch runs B/BL: sign-extend the 24-bit word offset, scale to
// bytes, and add it to the pipeline-advanced PC (GetRegister(PC) already
// accounts for the two-instruction prefetch lead).
func (c *CPU) ExecuteBranch(inst Instruction) error {
	raw := inst.Raw
	link := raw>>BranchLinkShift&Mask1Bit != 0

	offset := raw & Mask24Bit
	if offset&0x00800000 != 0 {
		offset |= 0xFF000000
	}

	target := c.GetRegister(PC) + offset<<2

	if link {
		c.BranchWithLink(target)
	} else {
		c.Branch(target)
	}
	return nil
}

// ExecuteBranchExchange runs BX: branch to Rm, switching instruction
// sets according to its low bit.
func (c *CPU) ExecuteBranchExchange(inst Instruction) error {
	rm := int(inst.Raw & Mask4Bit)
	c.BranchExchange(c.GetRegister(rm))
	return nil
}
