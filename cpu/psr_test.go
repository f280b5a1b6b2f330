package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPSRRoundTrip(t *testing.T) {
	p := PSR{Mode: ModeIRQ, Thumb: true, FIQDisable: true, IRQDisable: false, N: true, Z: false, C: true, V: true, Q: true}
	got := FromUint32(p.ToUint32())
	require.Equal(t, p, got)
}

func TestConditionEvaluate(t *testing.T) {
	p := PSR{Z: true}
	require.True(t, p.Evaluate(CondEQ))
	require.False(t, p.Evaluate(CondNE))

	p = PSR{N: true, V: false}
	require.True(t, p.Evaluate(CondLT))
	require.False(t, p.Evaluate(CondGE))

	require.True(t, PSR{}.Evaluate(CondAL))
	require.True(t, PSR{}.Evaluate(CondNV))
}
