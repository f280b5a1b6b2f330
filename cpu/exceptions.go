package cpu

// exceptionVector is the offset from the core's vector base for each
// exception type (ARM standard exception vector table layout).
type exceptionVector uint32

const (
	vectorReset         exceptionVector = 0x00
	vectorUndefined     exceptionVector = 0x04
	vectorSoftware      exceptionVector = 0x08
	vectorPrefetchAbort exceptionVector = 0x0C
	vectorDataAbort     exceptionVector = 0x10
	vectorIRQ           exceptionVector = 0x18
	vectorFIQ           exceptionVector = 0x1C
)

// enterException is the single entry routine every exception mode uses:
// save CPSR to the target mode's SPSR, bank-swap before the mode field
// changes (the ordering invariant in spec.md §3), load the return
// address into LR, switch mode/vector, and disable IRQs. Only IRQ entry
// is exercised precisely against hardware behavior (int_check in the
// original core); FIQ/SVC/UND/abort share this routine with a different
// vector and mode, and this emulator does not separately model bus
// faults as a distinct abort condition (decided in the design ledger:
// they surface as Go errors instead).
func (c *CPU) enterException(mode Mode, vector exceptionVector, returnAddr uint32, disableFIQ bool) {
	savedCPSR := c.CPSR

	oldMode := c.CPSR.Mode
	c.SwapBank(oldMode, mode)
	c.CPSR.Mode = mode
	c.SetSPSRFor(mode, savedCPSR)

	c.R[LR] = returnAddr
	c.CPSR.Thumb = false
	c.CPSR.IRQDisable = true
	if disableFIQ {
		c.CPSR.FIQDisable = true
	}

	c.setPCRaw(c.Core.VectorBase() + uint32(vector))
}

// CheckInterrupt enters IRQ mode when an interrupt is latched and IRQs
// are not masked, matching int_check's ordering: evaluated once at each
// instruction boundary, after the instruction that was already in
// flight has retired.
func (c *CPU) CheckInterrupt() {
	if c.CPSR.IRQDisable || !c.interruptLatch {
		return
	}
	returnAddr := c.R[PC] + c.fetchWidth()
	c.enterException(ModeIRQ, vectorIRQ, returnAddr, false)
}

// RaiseUndefined enters undefined-instruction mode for an unrecognized
// encoding.
func (c *CPU) RaiseUndefined() {
	returnAddr := c.R[PC] + c.fetchWidth()
	c.enterException(ModeUndefined, vectorUndefined, returnAddr, false)
}

// ExecuteSoftwareInterrupt enters supervisor mode for an SWI/SVC
// instruction; the comment field (bits [23:0]) is left for guest
// software to interpret and is not inspected by the core.
func (c *CPU) ExecuteSoftwareInterrupt(inst Instruction) error {
	returnAddr := c.R[PC] + c.fetchWidth()
	c.enterException(ModeSupervisor, vectorSoftware, returnAddr, false)
	return nil
}
