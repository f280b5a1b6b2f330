package gpu

import (
	"fmt"

	"github.com/horizon3ds/core/scheduler"
)

const commandListLatency = 32

func (g *GPU) triggerCommandList() {
	g.CmdEngine.Size = g.reg(RegCmdListSize)
	g.CmdEngine.InputAddr = g.reg(RegCmdListAddr)
	g.CmdEngine.Busy = true
}

// MemoryReader reads a 32-bit word from the system address space the
// command list's payload lives in (ordinarily FCRAM, outside VRAM) —
// supplied by the owning core rather than held by the GPU, so the GPU
// never needs a pointer back to the board (spec.md §9 redesign note).
type MemoryReader func(addr uint32) (uint32, error)

// RunCommandList walks the triggered command list: each entry is a
// header word (16-bit register id, 4-bit write mask, a consecutive-write
// flag, and an extra-parameter count) followed by one parameter word per
// lane write, plus any extra parameter words the header names (spec.md
// §4.5). Consecutive-write commands auto-increment the register id for
// each extra parameter instead of repeating it.
func (g *GPU) RunCommandList(read MemoryReader) error {
	if !g.CmdEngine.Busy {
		return nil
	}

	addr := g.CmdEngine.InputAddr
	end := addr + g.CmdEngine.Size*4
	for addr < end {
		header, err := read(addr)
		if err != nil {
			return fmt.Errorf("gpu: command list read failed at 0x%08X: %w", addr, err)
		}
		addr += 4

		regID := uint16(header & 0xFFFF)
		mask := uint8(header >> 16 & 0xF)
		extraCount := uint8(header >> 20 & 0xFF)
		consecutive := header&0x80000000 != 0

		param, err := read(addr)
		if err != nil {
			return fmt.Errorf("gpu: command list read failed at 0x%08X: %w", addr, err)
		}
		addr += 4
		g.WriteRegister(regID, param, mask)

		for i := uint8(0); i < extraCount; i++ {
			p, err := read(addr)
			if err != nil {
				return fmt.Errorf("gpu: command list read failed at 0x%08X: %w", addr, err)
			}
			addr += 4
			id := regID
			if consecutive {
				id = regID + uint16(i) + 1
			}
			g.WriteRegister(id, p, mask)
		}

		if extraCount%2 == 1 {
			addr += 4 // commands are padded to an even word count (8-byte alignment)
		}
	}

	g.CmdEngine.Busy = false
	g.Scheduler.Post(scheduler.KindCommandListDone, 0, commandListLatency)
	return nil
}
