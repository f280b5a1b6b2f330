package cpu

// banks holds the register sets that are shadowed per mode: every mode
// except user/system private-banks R13 (SP) and R14 (LR); FIQ
// additionally private-banks R8-R12. Modeled as small per-mode tables
// (maps keyed by Mode, plus one fixed FIQ array) rather than named
// fields, per spec.md §9's redesign note, so mode switches are a table
// lookup and swap instead of a handful of copy statements.
type banks struct {
	r13r14 map[Mode][2]uint32 // FIQ, IRQ, SVC, ABT, UND
	fiqR8  [5]uint32          // FIQ-private R8-R12
	spsr   map[Mode]PSR       // one per exception mode
}

func newBanks() *banks {
	return &banks{
		r13r14: map[Mode][2]uint32{
			ModeFIQ:        {},
			ModeIRQ:        {},
			ModeSupervisor: {},
			ModeAbort:      {},
			ModeUndefined:  {},
		},
		spsr: map[Mode]PSR{
			ModeFIQ:        {},
			ModeIRQ:        {},
			ModeSupervisor: {},
			ModeAbort:      {},
			ModeUndefined:  {},
		},
	}
}

func sharesUserBank(m Mode) bool {
	return m == ModeUser || m == ModeSystem
}

// swapMode exchanges the live R8-R14 (or R13-R14) against the bank
// belonging to mode m, the half of a mode transition that deals with one
// side. Called twice per transition (once for the old mode, once for the
// new), which makes a full transition self-inverse: A→B→A restores every
// banked register to what it held before the first swap.
func (c *CPU) swapMode(m Mode) {
	if sharesUserBank(m) {
		return
	}
	slot := c.banks.r13r14[m]
	c.R[13], slot[0] = slot[0], c.R[13]
	c.R[14], slot[1] = slot[1], c.R[14]
	c.banks.r13r14[m] = slot

	if m == ModeFIQ {
		for i := 0; i < 5; i++ {
			c.R[8+i], c.banks.fiqR8[i] = c.banks.fiqR8[i], c.R[8+i]
		}
	}
}

// SwapBank performs a full mode transition's register swap: bank-out the
// old mode, bank-in the new mode. A no-op when oldMode == newMode.
// Invariant (spec.md §3): this must run before CPSR.Mode is updated to
// newMode.
func (c *CPU) SwapBank(oldMode, newMode Mode) {
	if oldMode == newMode {
		return
	}
	c.swapMode(oldMode)
	c.swapMode(newMode)
}

// CurrentSPSR returns the SPSR for the CPU's current mode, and whether
// that mode has one (false in user/system mode).
func (c *CPU) CurrentSPSR() (PSR, bool) {
	return c.SPSRFor(c.CPSR.Mode)
}

// SPSRFor returns the SPSR banked for mode m, and whether m has one.
func (c *CPU) SPSRFor(m Mode) (PSR, bool) {
	if sharesUserBank(m) {
		return PSR{}, false
	}
	return c.banks.spsr[m], true
}

// SetSPSRFor overwrites the SPSR banked for mode m. No-op for user/system.
func (c *CPU) SetSPSRFor(m Mode, v PSR) {
	if sharesUserBank(m) {
		return
	}
	c.banks.spsr[m] = v
}
