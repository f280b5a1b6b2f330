package core

import (
	"fmt"

	"github.com/horizon3ds/core/bus"
)

// ErrOutOfRange marks an access outside every mapped region: a
// guest-visible condition the bus collaborator surfaces rather than a
// fatal emulation error (spec.md §7).
var ErrOutOfRange = fmt.Errorf("core: address out of range")

// region classifies which mapped window an address falls into.
type region int

const (
	regionNone region = iota
	regionRAM
	regionVRAM
	regionGPURegs
	regionHID
)

func classify(addr uint32) region {
	switch {
	case addr >= RAMBase && addr < RAMBase+RAMSize:
		return regionRAM
	case addr >= HIDRegAddr && addr < HIDRegAddr+4:
		return regionHID
	case addr >= GPURegBase && addr < GPURegBase+GPURegSize:
		return regionGPURegs
	case addr >= VRAMBase && addr-VRAMBase < 0x00600000: // 6 MiB VRAM window
		return regionVRAM
	default:
		return regionNone
	}
}

func (c *Core) ReadBoard8(core bus.CoreID, addr uint32) (uint8, error) {
	switch classify(addr) {
	case regionRAM:
		return c.RAM[addr-RAMBase], nil
	case regionVRAM:
		off := int(addr-VRAMBase) % len(c.GPU.VRAM)
		return c.GPU.VRAM[off], nil
	default:
		v, err := c.ReadBoard32(core, addr&^3)
		return uint8(v >> ((addr & 3) * 8)), err
	}
}

func (c *Core) ReadBoard16(core bus.CoreID, addr uint32) (uint16, error) {
	switch classify(addr) {
	case regionRAM:
		off := addr - RAMBase
		if int(off)+2 > len(c.RAM) {
			return 0, ErrOutOfRange
		}
		return uint16(c.RAM[off]) | uint16(c.RAM[off+1])<<8, nil
	case regionVRAM:
		off := int(addr-VRAMBase) % len(c.GPU.VRAM)
		return uint16(c.GPU.VRAM[off]) | uint16(c.GPU.VRAM[off+1])<<8, nil
	default:
		v, err := c.ReadBoard32(core, addr&^3)
		return uint16(v >> ((addr & 2) * 8)), err
	}
}

func (c *Core) ReadBoard32(_ bus.CoreID, addr uint32) (uint32, error) {
	switch classify(addr) {
	case regionRAM:
		off := addr - RAMBase
		if int(off)+4 > len(c.RAM) {
			return 0, ErrOutOfRange
		}
		return uint32(c.RAM[off]) | uint32(c.RAM[off+1])<<8 | uint32(c.RAM[off+2])<<16 | uint32(c.RAM[off+3])<<24, nil
	case regionVRAM:
		return c.GPU.ReadVRAM32(addr - VRAMBase), nil
	case regionGPURegs:
		idx := (addr - GPURegBase) / 4
		return c.GPU.Context.Regs[idx], nil
	case regionHID:
		return uint32(c.HID), nil
	default:
		return 0, fmt.Errorf("%w: 0x%08X", ErrOutOfRange, addr)
	}
}

func (c *Core) WriteBoard8(core bus.CoreID, addr uint32, v uint8) error {
	switch classify(addr) {
	case regionRAM:
		c.RAM[addr-RAMBase] = v
		return nil
	default:
		cur, err := c.ReadBoard32(core, addr&^3)
		if err != nil {
			return err
		}
		shift := (addr & 3) * 8
		cur = cur&^(0xFF<<shift) | uint32(v)<<shift
		return c.WriteBoard32(core, addr&^3, cur)
	}
}

func (c *Core) WriteBoard16(core bus.CoreID, addr uint32, v uint16) error {
	switch classify(addr) {
	case regionRAM:
		off := addr - RAMBase
		if int(off)+2 > len(c.RAM) {
			return ErrOutOfRange
		}
		c.RAM[off] = byte(v)
		c.RAM[off+1] = byte(v >> 8)
		return nil
	default:
		cur, err := c.ReadBoard32(core, addr&^3)
		if err != nil {
			return err
		}
		shift := (addr & 2) * 8
		cur = cur&^(0xFFFF<<shift) | uint32(v)<<shift
		return c.WriteBoard32(core, addr&^3, cur)
	}
}

func (c *Core) WriteBoard32(_ bus.CoreID, addr uint32, v uint32) error {
	switch classify(addr) {
	case regionRAM:
		off := addr - RAMBase
		if int(off)+4 > len(c.RAM) {
			return ErrOutOfRange
		}
		c.RAM[off] = byte(v)
		c.RAM[off+1] = byte(v >> 8)
		c.RAM[off+2] = byte(v >> 16)
		c.RAM[off+3] = byte(v >> 24)
		return nil
	case regionVRAM:
		c.GPU.WriteVRAM32(addr-VRAMBase, v)
		return nil
	case regionGPURegs:
		idx := uint16((addr - GPURegBase) / 4)
		c.GPU.WriteRegister(idx, v, 0xF)
		return nil
	case regionHID:
		c.HID = uint16(v)
		return nil
	default:
		return fmt.Errorf("%w: 0x%08X", ErrOutOfRange, addr)
	}
}

// vramReader adapts Core's board memory map (absolute addresses, any
// mapped region) into the gpu.MemoryReader signature RunCommandList
// expects, so the command list's guest-memory payload can live in
// ordinary RAM.
func (c *Core) vramReader(core bus.CoreID) func(addr uint32) (uint32, error) {
	return func(addr uint32) (uint32, error) {
		return c.ReadBoard32(core, addr)
	}
}

// RunPendingCommandList lets the command engine walk its triggered list
// against this Core's RAM, the step that requires bus access the GPU
// package itself deliberately does not hold (spec.md §9 redesign note).
func (c *Core) RunPendingCommandList() error {
	return c.GPU.RunCommandList(c.vramReader(bus.Application))
}
