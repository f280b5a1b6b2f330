package cpu

import (
	"testing"

	"github.com/horizon3ds/core/bus"
	"github.com/stretchr/testify/require"
)

// flatMemory is a minimal bus.Bus backed by a byte slice, used only to
// drive CPU.Step end-to-end in tests.
type flatMemory struct {
	data []byte
}

func newFlatMemory(size int) *flatMemory {
	return &flatMemory{data: make([]byte, size)}
}

func (m *flatMemory) Read8(addr uint32) (uint8, error) { return m.data[addr], nil }
func (m *flatMemory) Read16(addr uint32) (uint16, error) {
	return uint16(m.data[addr]) | uint16(m.data[addr+1])<<8, nil
}
func (m *flatMemory) Read32(addr uint32) (uint32, error) {
	return uint32(m.data[addr]) | uint32(m.data[addr+1])<<8 | uint32(m.data[addr+2])<<16 | uint32(m.data[addr+3])<<24, nil
}
func (m *flatMemory) Write8(addr uint32, v uint8) error { m.data[addr] = v; return nil }
func (m *flatMemory) Write16(addr uint32, v uint16) error {
	m.data[addr], m.data[addr+1] = byte(v), byte(v>>8)
	return nil
}
func (m *flatMemory) Write32(addr uint32, v uint32) error {
	m.data[addr] = byte(v)
	m.data[addr+1] = byte(v >> 8)
	m.data[addr+2] = byte(v >> 16)
	m.data[addr+3] = byte(v >> 24)
	return nil
}

func (m *flatMemory) putWord(addr uint32, v uint32) {
	_ = m.Write32(addr, v)
}

var _ bus.Bus = (*flatMemory)(nil)

func TestResetSelectsVectorByCore(t *testing.T) {
	app := New(bus.Application)
	app.Reset()
	require.Equal(t, uint32(0), app.R[PC])
	require.Equal(t, ModeSupervisor, app.CPSR.Mode)
	require.True(t, app.CPSR.IRQDisable)

	sec := New(bus.Security)
	sec.Reset()
	require.Equal(t, uint32(0xFFFF0000), sec.R[PC])
}

// encodeMOVImm builds a MOVS Rd, #imm (AL condition, S bit set) word.
func encodeMOVImm(rd int, imm uint32) uint32 {
	return 0xE<<ConditionShift | 1<<IBitShift | OpMOV<<OpcodeShift | 1<<SBitShift | uint32(rd)<<RdShift | imm
}

func TestStepExecutesMOVImmAndAdvancesPC(t *testing.T) {
	c := New(bus.Application)
	c.Reset()

	mem := newFlatMemory(0x100)
	mem.putWord(0, encodeMOVImm(0, 0x42))

	require.NoError(t, c.Step(mem))
	require.Equal(t, uint32(0x42), c.R[0])
	require.Equal(t, uint32(4), c.R[PC])
	require.False(t, c.CPSR.Z)
}

func TestADDSDetectsSignedOverflow(t *testing.T) {
	c := New(bus.Application)
	c.Reset()
	c.R[1] = 0x7FFFFFFF
	c.R[2] = 1

	// ADDS r0, r1, r2
	raw := uint32(0xE)<<ConditionShift | OpADD<<OpcodeShift | 1<<SBitShift | 1<<RnShift | 0<<RdShift | 2
	inst := Decode(0, raw)
	require.Equal(t, KindDataProcessing, inst.Kind)

	require.NoError(t, c.ExecuteDataProcessing(inst))
	require.Equal(t, uint32(0x80000000), c.R[0])
	require.True(t, c.CPSR.V)
	require.True(t, c.CPSR.N)
	require.False(t, c.CPSR.Z)
}

func TestBranchWithLinkSavesReturnAddress(t *testing.T) {
	c := New(bus.Application)
	c.Reset()
	c.R[PC] = 0x100

	// BL with offset 0 (branches to PC+8, per pipeline)
	raw := uint32(0xE)<<ConditionShift | 0xA<<24 | 1<<BranchLinkShift
	inst := Decode(0x100, raw)
	require.Equal(t, KindBranch, inst.Kind)
	require.NoError(t, c.ExecuteBranch(inst))

	require.Equal(t, uint32(0x104), c.R[LR])
	require.Equal(t, uint32(0x108), c.R[PC])
}
