package cpu

import (
	"testing"

	"github.com/horizon3ds/core/bus"
	"github.com/stretchr/testify/require"
)

func TestSingleTransferStoreThenLoad(t *testing.T) {
	c := New(bus.Application)
	c.Reset()
	mem := newFlatMemory(0x100)

	c.R[1] = 0x50 // base
	c.R[2] = 0xCAFEBABE

	// STR r2, [r1], pre-indexed, up, imm offset 0, not byte, not writeback
	storeRaw := uint32(0xE)<<ConditionShift | 1<<26 | 1<<PBitShift | 1<<UBitShift | 0<<LBitShift | 1<<RnShift | 2<<RdShift
	storeInst := Decode(0, storeRaw)
	require.Equal(t, KindSingleTransfer, storeInst.Kind)
	require.NoError(t, c.ExecuteSingleTransfer(mem, storeInst))

	c.R[0] = 0
	loadRaw := uint32(0xE)<<ConditionShift | 1<<26 | 1<<PBitShift | 1<<UBitShift | 1<<LBitShift | 1<<RnShift | 0<<RdShift
	loadInst := Decode(0, loadRaw)
	require.NoError(t, c.ExecuteSingleTransfer(mem, loadInst))
	require.Equal(t, uint32(0xCAFEBABE), c.R[0])
}

func TestSingleTransferPostIndexWriteback(t *testing.T) {
	c := New(bus.Application)
	c.Reset()
	mem := newFlatMemory(0x100)
	c.R[1] = 0x10
	c.R[2] = 0x99

	// STR r2, [r1], #4 (post-indexed, up, immediate offset 4)
	raw := uint32(0xE)<<ConditionShift | 1<<26 | 1<<UBitShift | 0<<LBitShift | 1<<RnShift | 2<<RdShift | 4
	inst := Decode(0, raw)
	require.NoError(t, c.ExecuteSingleTransfer(mem, inst))

	require.Equal(t, uint32(0x14), c.R[1])
	v, err := mem.Read32(0x10)
	require.NoError(t, err)
	require.Equal(t, uint32(0x99), v)
}
