package bus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/horizon3ds/core/cp15"
)

type fakeBoard struct {
	mem map[uint32]byte
}

func newFakeBoard() *fakeBoard { return &fakeBoard{mem: map[uint32]byte{}} }

func (f *fakeBoard) ReadBoard8(core CoreID, addr uint32) (uint8, error) { return f.mem[addr], nil }
func (f *fakeBoard) ReadBoard16(core CoreID, addr uint32) (uint16, error) {
	return uint16(f.mem[addr]) | uint16(f.mem[addr+1])<<8, nil
}
func (f *fakeBoard) ReadBoard32(core CoreID, addr uint32) (uint32, error) {
	return uint32(f.mem[addr]) | uint32(f.mem[addr+1])<<8 | uint32(f.mem[addr+2])<<16 | uint32(f.mem[addr+3])<<24, nil
}
func (f *fakeBoard) WriteBoard8(core CoreID, addr uint32, v uint8) error {
	f.mem[addr] = v
	return nil
}
func (f *fakeBoard) WriteBoard16(core CoreID, addr uint32, v uint16) error {
	f.mem[addr] = byte(v)
	f.mem[addr+1] = byte(v >> 8)
	return nil
}
func (f *fakeBoard) WriteBoard32(core CoreID, addr uint32, v uint32) error {
	f.mem[addr] = byte(v)
	f.mem[addr+1] = byte(v >> 8)
	f.mem[addr+2] = byte(v >> 16)
	f.mem[addr+3] = byte(v >> 24)
	return nil
}

func TestITCMRoutingBelowSize(t *testing.T) {
	c := cp15.New()
	c.ITCMSize = 2 * cp15.ITCMSize
	r := New(Application, c, newFakeBoard())

	require.NoError(t, r.Write32(0x100, 0xAABBCCDD))
	got, err := r.Read32(0x100)
	require.NoError(t, err)
	require.Equal(t, uint32(0xAABBCCDD), got)

	// The window is twice the backing array, so the same offset one array
	// length higher wraps onto the same TCM byte.
	got2, err := r.Read8(0x100 + cp15.ITCMSize)
	require.NoError(t, err)
	require.Equal(t, uint8(0xDD), got2)
}

func TestDTCMRoutingWithinWindow(t *testing.T) {
	c := cp15.New()
	c.DTCMBase = 0x01000000
	c.DTCMSize = 0x4000
	r := New(Application, c, newFakeBoard())

	require.NoError(t, r.Write16(0x01000010, 0x1234))
	got, err := r.Read16(0x01000010)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), got)
}

func TestFallsThroughToBoardOutsideTCM(t *testing.T) {
	c := cp15.New()
	board := newFakeBoard()
	r := New(Security, c, board)

	require.NoError(t, r.Write8(0x20000000, 0x42))
	require.Equal(t, byte(0x42), board.mem[0x20000000])
}
