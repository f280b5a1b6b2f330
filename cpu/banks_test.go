package cpu

import (
	"testing"

	"github.com/horizon3ds/core/bus"
	"github.com/stretchr/testify/require"
)

func TestSwapBankIsSelfInverse(t *testing.T) {
	c := New(bus.Application)
	c.Reset()
	c.R[13] = 0x1000
	c.R[14] = 0x2000

	before := c.R

	c.SwapBank(ModeSupervisor, ModeIRQ)
	require.NotEqual(t, before[13], c.R[13])

	c.SwapBank(ModeIRQ, ModeSupervisor)
	require.Equal(t, before[13], c.R[13])
	require.Equal(t, before[14], c.R[14])
}

func TestFIQBanksR8ThroughR12(t *testing.T) {
	c := New(bus.Application)
	c.Reset()
	for i := 8; i <= 12; i++ {
		c.R[i] = uint32(i)
	}

	c.SwapBank(ModeSupervisor, ModeFIQ)
	for i := 8; i <= 12; i++ {
		require.Zero(t, c.R[i])
	}

	c.SwapBank(ModeFIQ, ModeSupervisor)
	for i := 8; i <= 12; i++ {
		require.Equal(t, uint32(i), c.R[i])
	}
}

func TestSPSRGetSetRoundTrips(t *testing.T) {
	c := New(bus.Application)
	c.Reset()

	_, ok := c.SPSRFor(ModeUser)
	require.False(t, ok)

	c.SetSPSRFor(ModeIRQ, PSR{N: true, Mode: ModeSupervisor})
	got, ok := c.SPSRFor(ModeIRQ)
	require.True(t, ok)
	require.True(t, got.N)
	require.Equal(t, ModeSupervisor, got.Mode)
}
