package cpu

import (
	"fmt"

	"github.com/horizon3ds/core/bus"
)

// Step fetches, decodes, conditionally executes one instruction, and
// checks for a pending interrupt at the resulting instruction boundary.
// A condition-failed instruction still advances PC and costs one cycle,
// matching the documented "skip" behavior rather than a no-op stall.
func (c *CPU) Step(b bus.Bus) error {
	if c.Halted {
		return nil
	}

	fetchAddr := c.R[PC]

	if c.CPSR.Thumb {
		return fmt.Errorf("%w: Thumb state entered at 0x%08X, but this core only decodes ARM encoding", ErrFatal, fetchAddr)
	}

	raw, err := b.Read32(fetchAddr)
	if err != nil {
		return fmt.Errorf("cpu: fetch failed at 0x%08X: %w", fetchAddr, err)
	}

	inst := Decode(fetchAddr, raw)

	if !c.CPSR.Evaluate(inst.Cond) {
		c.setPCRaw(fetchAddr + c.fetchWidth())
		c.IncrementCycles(1)
		c.CheckInterrupt()
		return nil
	}

	pcBefore := c.R[PC]
	if err := c.Execute(b, inst); err != nil {
		return fmt.Errorf("cpu: execute failed at 0x%08X: %w", fetchAddr, err)
	}

	if c.R[PC] == pcBefore {
		c.setPCRaw(pcBefore + c.fetchWidth())
	}
	c.IncrementCycles(1)

	c.CheckInterrupt()
	return nil
}
