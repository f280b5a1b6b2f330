// Package bus implements per-CPU dispatch of memory accesses to TCM,
// MMIO, or the shared board memory map, avoiding the ownership-cycle
// back-pointer pattern flagged in spec.md §9: a CPU only ever holds a
// Bus interface value, never a pointer back to the owning core object.
package bus

import "github.com/horizon3ds/core/cp15"

// CoreID identifies which physical CPU is issuing an access: the ARM9
// "security" coprocessor or the ARM11 "application" core. Each has a
// distinct memory map and a distinct reset vector base.
type CoreID int

const (
	Security CoreID = iota
	Application
)

// VectorBase returns the reset/exception vector base for this core:
// high vectors (0xFFFF0000) for the security core, low vectors
// (0x00000000) for the application core.
func (c CoreID) VectorBase() uint32 {
	if c == Security {
		return 0xFFFF0000
	}
	return 0x00000000
}

// Board is the shared memory map a per-core Router delegates to once a
// TCM miss has been ruled out. The core object implements this once for
// both CPUs, keyed by CoreID so each core sees its own address map.
type Board interface {
	ReadBoard8(core CoreID, addr uint32) (uint8, error)
	ReadBoard16(core CoreID, addr uint32) (uint16, error)
	ReadBoard32(core CoreID, addr uint32) (uint32, error)
	WriteBoard8(core CoreID, addr uint32, v uint8) error
	WriteBoard16(core CoreID, addr uint32, v uint16) error
	WriteBoard32(core CoreID, addr uint32, v uint32) error
}

// Bus is the interface a CPU core uses for every memory access. It never
// carries a core identity parameter: each CPU is bound to its own Router
// at construction time.
type Bus interface {
	Read8(addr uint32) (uint8, error)
	Read16(addr uint32) (uint16, error)
	Read32(addr uint32) (uint32, error)
	Write8(addr uint32, v uint8) error
	Write16(addr uint32, v uint16) error
	Write32(addr uint32, v uint32) error
}

// Router implements Bus for one CPU core: every access first consults
// CP15 to route to ITCM/DTCM, falling back to the board memory map.
type Router struct {
	Core  CoreID
	CP15  *cp15.CP15
	Board Board
}

// New builds a Router bound to one CPU core's CP15 and shared board map.
func New(core CoreID, c *cp15.CP15, board Board) *Router {
	return &Router{Core: core, CP15: c, Board: board}
}

func (r *Router) Read8(addr uint32) (uint8, error) {
	if r.CP15.HitsITCM(addr) {
		return r.CP15.ITCM[addr&cp15.ITCMWrapMask], nil
	}
	if r.CP15.HitsDTCM(addr) {
		return r.CP15.DTCM[addr&cp15.DTCMWrapMask], nil
	}
	return r.Board.ReadBoard8(r.Core, addr)
}

func (r *Router) Read16(addr uint32) (uint16, error) {
	if r.CP15.HitsITCM(addr) {
		off := addr & cp15.ITCMWrapMask
		return uint16(r.CP15.ITCM[off]) | uint16(r.CP15.ITCM[off+1])<<8, nil
	}
	if r.CP15.HitsDTCM(addr) {
		off := addr & cp15.DTCMWrapMask
		return uint16(r.CP15.DTCM[off]) | uint16(r.CP15.DTCM[off+1])<<8, nil
	}
	return r.Board.ReadBoard16(r.Core, addr)
}

func (r *Router) Read32(addr uint32) (uint32, error) {
	if r.CP15.HitsITCM(addr) {
		off := addr & cp15.ITCMWrapMask
		return littleEndian32(r.CP15.ITCM[off : off+4]), nil
	}
	if r.CP15.HitsDTCM(addr) {
		off := addr & cp15.DTCMWrapMask
		return littleEndian32(r.CP15.DTCM[off : off+4]), nil
	}
	return r.Board.ReadBoard32(r.Core, addr)
}

func (r *Router) Write8(addr uint32, v uint8) error {
	if r.CP15.HitsITCM(addr) {
		r.CP15.ITCM[addr&cp15.ITCMWrapMask] = v
		return nil
	}
	if r.CP15.HitsDTCM(addr) {
		r.CP15.DTCM[addr&cp15.DTCMWrapMask] = v
		return nil
	}
	return r.Board.WriteBoard8(r.Core, addr, v)
}

func (r *Router) Write16(addr uint32, v uint16) error {
	if r.CP15.HitsITCM(addr) {
		off := addr & cp15.ITCMWrapMask
		r.CP15.ITCM[off] = byte(v)
		r.CP15.ITCM[off+1] = byte(v >> 8)
		return nil
	}
	if r.CP15.HitsDTCM(addr) {
		off := addr & cp15.DTCMWrapMask
		r.CP15.DTCM[off] = byte(v)
		r.CP15.DTCM[off+1] = byte(v >> 8)
		return nil
	}
	return r.Board.WriteBoard16(r.Core, addr, v)
}

func (r *Router) Write32(addr uint32, v uint32) error {
	if r.CP15.HitsITCM(addr) {
		off := addr & cp15.ITCMWrapMask
		putLittleEndian32(r.CP15.ITCM[off:off+4], v)
		return nil
	}
	if r.CP15.HitsDTCM(addr) {
		off := addr & cp15.DTCMWrapMask
		putLittleEndian32(r.CP15.DTCM[off:off+4], v)
		return nil
	}
	return r.Board.WriteBoard32(r.Core, addr, v)
}

func littleEndian32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLittleEndian32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
