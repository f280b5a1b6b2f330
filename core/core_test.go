package core

import (
	"errors"
	"testing"

	"github.com/horizon3ds/core/bus"
	"github.com/horizon3ds/core/cpu"
	"github.com/horizon3ds/core/scheduler"
	"github.com/stretchr/testify/require"
)

func encodeMOVImm(rd int, imm uint32) uint32 {
	return 0xE<<cpu.ConditionShift | 1<<cpu.IBitShift | cpu.OpMOV<<cpu.OpcodeShift | 1<<cpu.SBitShift | uint32(rd)<<cpu.RdShift | imm
}

func TestResetYieldsBootContract(t *testing.T) {
	c := New(1 << 20)
	c.Reset()

	require.Equal(t, uint32(0), c.Application.R[cpu.PC])
	require.Equal(t, cpu.ModeSupervisor, c.Application.CPSR.Mode)
	require.True(t, c.Application.CPSR.IRQDisable)
	require.True(t, c.Application.CPSR.FIQDisable)
	require.False(t, c.Application.CPSR.Thumb)

	require.Equal(t, uint32(0xFFFF0000), c.Security.R[cpu.PC])
}

func TestStepApplicationExecutesInstructionFromRAM(t *testing.T) {
	c := New(1 << 20)
	c.Reset()

	word := encodeMOVImm(0, 0x7B)
	off := uint32(0)
	c.RAM[off] = byte(word)
	c.RAM[off+1] = byte(word >> 8)
	c.RAM[off+2] = byte(word >> 16)
	c.RAM[off+3] = byte(word >> 24)

	require.NoError(t, c.StepApplication())
	require.Equal(t, uint32(0x7B), c.Application.R[0])
	require.Equal(t, uint32(4), c.Application.R[cpu.PC])
}

func TestBoardDispatchesEachRegion(t *testing.T) {
	c := New(1 << 20)
	c.Reset()

	require.NoError(t, c.WriteBoard32(bus.Application, RAMBase+4, 0xCAFEBABE))
	v, err := c.ReadBoard32(bus.Application, RAMBase+4)
	require.NoError(t, err)
	require.Equal(t, uint32(0xCAFEBABE), v)

	require.NoError(t, c.WriteBoard32(bus.Application, VRAMBase+8, 0x11223344))
	v, err = c.ReadBoard32(bus.Application, VRAMBase+8)
	require.NoError(t, err)
	require.Equal(t, uint32(0x11223344), v)

	require.NoError(t, c.WriteBoard32(bus.Application, HIDRegAddr, 0x0000FFFF))
	v, err = c.ReadBoard32(bus.Application, HIDRegAddr)
	require.NoError(t, err)
	require.Equal(t, uint32(0x0000FFFF), v)

	_, err = c.ReadBoard32(bus.Application, 0xFFFFFFFF)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestBoardWritesGPURegisterThroughRegisterSideEffects(t *testing.T) {
	c := New(1 << 20)
	c.Reset()

	const regOffset = 0x200 * 4
	require.NoError(t, c.WriteBoard32(bus.Application, GPURegBase+regOffset, 0x01020304))
	v, err := c.ReadBoard32(bus.Application, GPURegBase+regOffset)
	require.NoError(t, err)
	require.Equal(t, uint32(0x01020304), v)
	require.Equal(t, uint32(0x01020304), c.GPU.Context.Regs[0x200])
}

func TestFatalErrorWrapsUnderlyingErrorAndCore(t *testing.T) {
	underlying := errors.New("boom")
	err := &FatalError{Core: bus.Security, Err: underlying}

	require.ErrorIs(t, err, underlying)
	require.Equal(t, bus.Security, err.Core)
	require.Contains(t, err.Error(), "boom")
}

func TestRunFrameAdvancesUntilVBlankAndPresents(t *testing.T) {
	c := New(1 << 20)
	c.Reset()
	c.Security.Halt() // security core's high vector isn't backed by RAM in this test

	// Fill RAM with NOP-equivalent MOV r0, r0 so stepping never faults.
	nop := encodeMOVImm(0, 0)
	for off := uint32(0); off+4 <= 0x1000; off += 4 {
		c.RAM[off] = byte(nop)
		c.RAM[off+1] = byte(nop >> 8)
		c.RAM[off+2] = byte(nop >> 16)
		c.RAM[off+3] = byte(nop >> 24)
	}

	require.NoError(t, c.RunFrame(4))

	_, ok := c.GPU.Scheduler.NextEventTime()
	require.True(t, ok, "next vblank should already be queued")
}

func TestHandleSchedulerEventRaisesInterruptOnMemFillDone(t *testing.T) {
	c := New(1 << 20)
	c.Reset()

	c.GPU.MemFill[0].Busy = true
	c.GPU.MemFill[0].Start = 0
	c.GPU.MemFill[0].End = 4
	c.GPU.MemFill[0].FillWidth = 2
	c.GPU.MemFill[0].Value = 0xFF

	done := c.handleSchedulerEvent(scheduler.Event{Kind: scheduler.KindMemoryFillDone, Param: 0})
	require.False(t, done)
	require.False(t, c.GPU.MemFill[0].Busy)
	require.True(t, c.irqPending[bus.Application])
}
