// Package core assembles the CPU cores, the GPU, and the shared memory
// map into the single driver loop spec.md's top-level Core Object
// describes: it owns every subsystem and borrows mutable access to
// itself out to the bus, rather than letting any subsystem hold a
// pointer back in (spec.md §9 redesign note).
package core

import (
	"fmt"

	"github.com/horizon3ds/core/bus"
	"github.com/horizon3ds/core/cp15"
	"github.com/horizon3ds/core/cpu"
	"github.com/horizon3ds/core/gpu"
	"github.com/horizon3ds/core/scheduler"
)

// Memory map. Each CPU shares the same physical regions; only the ITCM/
// DTCM windows are per-core (via each core's own CP15).
const (
	RAMBase = 0x00000000 // starts at the application core's reset vector
	RAMSize = 32 * 1024 * 1024

	VRAMBase = 0x18000000

	GPURegBase = 0x10400000
	GPURegSize = gpu.NumRegisters * 4

	HIDRegAddr = 0x10146000

	// VBlankPeriod is the tick interval between vertical-blank events;
	// an implementation-chosen approximation, since spec.md leaves exact
	// timing to the scheduler collaborator.
	VBlankPeriod = 268111
)

// FatalError wraps the small set of conditions spec.md §7 classifies as
// fatal: they terminate the emulation thread rather than producing a
// guest-visible defined output.
type FatalError struct {
	Core bus.CoreID
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("core: fatal error on core %d: %v", e.Core, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Core owns both CPUs, the GPU, system RAM, and the HID latch, and is
// the sole implementer of bus.Board (spec.md §6 "Bus").
type Core struct {
	Security    *cpu.CPU
	Application *cpu.CPU

	securityCP15    *cp15.CP15
	applicationCP15 *cp15.CP15

	GPU *gpu.GPU
	RAM []byte

	// HID is the 16-bit button latch the input collaborator populates
	// and guest code reads through MMIO (spec.md §6 "HID surface").
	HID uint16

	irqPending [2]bool
}

// New constructs a Core with the given VRAM size and wires each CPU to
// its own bus.Router bound to this Core as the shared board.
func New(vramSize int) *Core {
	c := &Core{
		securityCP15:    cp15.New(),
		applicationCP15: cp15.New(),
		GPU:             gpu.New(vramSize),
		RAM:             make([]byte, RAMSize),
	}
	c.Security = cpu.New(bus.Security)
	c.Application = cpu.New(bus.Application)
	c.Security.BindCP15(c.securityCP15)
	c.Application.BindCP15(c.applicationCP15)
	c.GPU.Scheduler.Post(scheduler.KindVBlank, 0, VBlankPeriod)
	return c
}

// securityRouter and applicationRouter build fresh bus.Router values bound
// to this Core; CPUs never retain a router reference beyond the call that
// needs it, matching the borrow-not-own pattern.
func (c *Core) securityRouter() *bus.Router {
	return bus.New(bus.Security, c.securityCP15, c)
}

func (c *Core) applicationRouter() *bus.Router {
	return bus.New(bus.Application, c.applicationCP15, c)
}

// Reset puts both CPUs, both CP15s, and the GPU into their post-reset
// state (spec.md §6 "CPU boot contract").
func (c *Core) Reset() {
	c.securityCP15.Reset()
	c.applicationCP15.Reset()
	c.Security.Reset()
	c.Application.Reset()
	c.GPU.Reset()
	c.HID = 0
	c.irqPending = [2]bool{}
	c.GPU.Scheduler.Post(scheduler.KindVBlank, 0, VBlankPeriod)
}

// StepSecurity executes one instruction on the security (ARM9) core.
func (c *Core) StepSecurity() error {
	if err := c.Security.Step(c.securityRouter()); err != nil {
		return &FatalError{Core: bus.Security, Err: err}
	}
	return nil
}

// StepApplication executes one instruction on the application (ARM11)
// core.
func (c *Core) StepApplication() error {
	if err := c.Application.Step(c.applicationRouter()); err != nil {
		return &FatalError{Core: bus.Application, Err: err}
	}
	return nil
}

// RunFrame drives the core loop for one display frame: advance the
// scheduler to the next event, step each CPU, drain completed GPU
// events, repeat until a vblank event fires (spec.md §5: "advance
// scheduler to next event time -> step each CPU a quantum -> drain GPU
// work queued by scheduler events -> advance").
func (c *Core) RunFrame(cpuQuantum int) error {
	for {
		for i := 0; i < cpuQuantum; i++ {
			if err := c.StepApplication(); err != nil {
				return err
			}
			if err := c.StepSecurity(); err != nil {
				return err
			}
		}

		nextTime, ok := c.GPU.Scheduler.NextEventTime()
		if !ok {
			continue
		}

		fired := c.GPU.Scheduler.Drain(nextTime)
		sawVBlank := false
		for _, ev := range fired {
			if c.handleSchedulerEvent(ev) {
				sawVBlank = true
			}
		}
		if sawVBlank {
			c.GPU.PresentTopScreen()
			c.GPU.PresentBottomScreen()
			return nil
		}
	}
}

// handleSchedulerEvent routes one fired event to its component's
// completion handler and reports whether it was the frame's vblank.
func (c *Core) handleSchedulerEvent(ev scheduler.Event) bool {
	switch ev.Kind {
	case scheduler.KindMemoryFillDone:
		c.GPU.CompleteMemFill(int(ev.Param))
		c.RaiseInterrupt(bus.Application, true)
	case scheduler.KindTransferDone:
		c.GPU.CompleteDisplayTransfer()
		c.RaiseInterrupt(bus.Application, true)
	case scheduler.KindCommandListDone:
		c.RaiseInterrupt(bus.Application, true)
	case scheduler.KindVBlank:
		c.GPU.Scheduler.Post(scheduler.KindVBlank, 0, VBlankPeriod)
		c.RaiseInterrupt(bus.Application, true)
		return true
	}
	return false
}

// RaiseInterrupt implements the interrupt collaborator's set_signal
// contract (spec.md §6): the given core's pending-interrupt latch is
// updated for the next instruction-boundary poll.
func (c *Core) RaiseInterrupt(core bus.CoreID, pending bool) {
	c.irqPending[core] = pending
	switch core {
	case bus.Security:
		c.Security.SignalInterrupt(pending)
	case bus.Application:
		c.Application.SignalInterrupt(pending)
	}
}
