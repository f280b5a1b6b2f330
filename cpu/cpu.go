// Package cpu implements the ARM instruction-set interpreter: processor
// mode banking, condition evaluation, the data-processing / load-store /
// branch / coprocessor / status-transfer operation set, the barrel
// shifter, interrupt entry, and the fetch/decode/execute loop. It is
// used identically for the ARM11 application core and the ARM9 security
// core; the only per-instance difference is the CoreID used to select
// the reset/exception vector base (bus.CoreID.VectorBase).
package cpu

import (
	"fmt"

	"github.com/horizon3ds/core/bus"
	"github.com/horizon3ds/core/cp15"
)

// CPU holds one processor core's architectural state.
type CPU struct {
	Core bus.CoreID
	CP15 *cp15.CP15

	R     [16]uint32 // R0-R15; R15 is the program counter
	CPSR  PSR
	banks *banks

	Halted         bool
	interruptLatch bool

	Cycles uint64
}

// New returns a CPU identified by core, ready for Reset.
func New(core bus.CoreID) *CPU {
	return &CPU{Core: core, banks: newBanks()}
}

// Reset implements the boot contract of spec.md §6: mode <- supervisor,
// FIQ and IRQ disabled, PC <- vector base for this core's identity.
func (c *CPU) Reset() {
	c.R = [16]uint32{}
	c.banks = newBanks()
	c.CPSR = PSR{Mode: ModeSupervisor, FIQDisable: true, IRQDisable: true}
	c.Halted = false
	c.interruptLatch = false
	c.Cycles = 0
	c.setPCRaw(c.Core.VectorBase())
}

func (c *CPU) fetchWidth() uint32 {
	if c.CPSR.Thumb {
		return FetchWidthThumb
	}
	return FetchWidthARM
}

func (c *CPU) setPCRaw(addr uint32) {
	c.R[PC] = addr
}

// GetRegister reads a register by number. R[PC] holds the address of the
// instruction currently executing; reading R15 from inside an
// instruction observes that address plus two fetch widths, the
// documented ARM pipeline effect (spec.md §3: "fetch_address +
// 2*fetch_width").
func (c *CPU) GetRegister(reg int) uint32 {
	if reg == PC {
		return c.R[PC] + 2*c.fetchWidth()
	}
	return c.R[reg]
}

// SetRegister writes a register by number.
func (c *CPU) SetRegister(reg int, v uint32) {
	if reg == PC {
		c.setPCRaw(v)
		return
	}
	c.R[reg] = v
}

// GetSP/SetSP/GetLR/SetLR are named accessors for the two registers with
// architectural roles, matching the teacher's naming.
func (c *CPU) GetSP() uint32  { return c.R[SP] }
func (c *CPU) SetSP(v uint32) { c.R[SP] = v }
func (c *CPU) GetLR() uint32  { return c.R[LR] }
func (c *CPU) SetLR(v uint32) { c.R[LR] = v }

// Branch sets PC directly to the target instruction address, the next
// address Step will fetch from.
func (c *CPU) Branch(target uint32) {
	c.setPCRaw(target)
}

// BranchWithLink saves the address of the next sequential instruction in
// LR, then branches.
func (c *CPU) BranchWithLink(target uint32) {
	c.R[LR] = c.R[PC] + c.fetchWidth()
	c.Branch(target)
}

// BranchExchange branches to target, deriving the thumb state from its
// low bit (BX semantics) and clearing that bit from the stored address.
func (c *CPU) BranchExchange(target uint32) {
	c.CPSR.Thumb = target&1 != 0
	c.setPCRaw(target &^ 1)
}

// SetMode performs a CPSR mode change: bank-swap first (invariant in
// spec.md §3), then updates CPSR.Mode. Changing to the same mode is a
// no-op beyond the (already no-op) swap.
func (c *CPU) SetMode(newMode Mode) error {
	if !validMode(newMode) {
		return fmt.Errorf("%w: unrecognized PSR mode 0x%X", ErrFatal, newMode)
	}
	c.SwapBank(c.CPSR.Mode, newMode)
	c.CPSR.Mode = newMode
	return nil
}

func validMode(m Mode) bool {
	switch m {
	case ModeUser, ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined, ModeSystem:
		return true
	default:
		return false
	}
}

// Halt/Unhalt implement the public halt control surface.
func (c *CPU) Halt()   { c.Halted = true }
func (c *CPU) Unhalt() { c.Halted = false }

// SignalInterrupt latches a level-sensitive interrupt request; it is
// consulted at the next instruction boundary (spec.md §5 ordering
// guarantee: "Interrupt latch updates are seen by the next CPU step").
func (c *CPU) SignalInterrupt(pending bool) {
	c.interruptLatch = pending
	if pending {
		c.Unhalt()
	}
}

// IncrementCycles advances the cycle counter (used for simple event
// timing; spec.md Non-goals exclude cycle-accurate pipelining).
func (c *CPU) IncrementCycles(n uint64) { c.Cycles += n }
