// Package debugger implements a tview/tcell inspector over a running
// core.Core: CPU registers and CPSR flags for both cores, the GPU
// register bank, a VRAM hex dump, and a coarse ASCII preview of the
// presented framebuffers. Inspection never mutates state directly; the
// only way to change what's on screen is the command line's "step"
// command, which drives the same RunFrame the headless runner uses.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/horizon3ds/core/core"
	"github.com/horizon3ds/core/cpu"
	"github.com/horizon3ds/core/gpu"
)

// TUI is the inspector's top-level state: one tview.Application driving
// a fixed panel layout refreshed on demand.
type TUI struct {
	Core *core.Core

	App        *tview.Application
	MainLayout *tview.Flex

	SecurityView    *tview.TextView
	ApplicationView *tview.TextView
	GPUView         *tview.TextView
	VRAMView        *tview.TextView
	FrameView       *tview.TextView
	StatusView      *tview.TextView
	CommandInput    *tview.InputField

	// VRAMAddress is the base address the VRAM hex dump starts from;
	// PageUp/PageDown, and the "dump" command, move it.
	VRAMAddress uint32
}

// NewTUI builds an inspector bound to c. Call RefreshAll once before
// Run to populate the panels with the core's current state.
func NewTUI(c *core.Core) *TUI {
	t := &TUI{
		Core: c,
		App:  tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.SecurityView = tview.NewTextView().SetDynamicColors(true)
	t.SecurityView.SetBorder(true).SetTitle(" Security Core (ARM9) ")

	t.ApplicationView = tview.NewTextView().SetDynamicColors(true)
	t.ApplicationView.SetBorder(true).SetTitle(" Application Core (ARM11) ")

	t.GPUView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.GPUView.SetBorder(true).SetTitle(" GPU Registers ")

	t.VRAMView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.VRAMView.SetBorder(true).SetTitle(" VRAM ")

	t.FrameView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.FrameView.SetBorder(true).SetTitle(" Top Screen (ASCII luma preview) ")

	t.StatusView = tview.NewTextView().SetDynamicColors(true)
	t.StatusView.SetBorder(true).SetTitle(" Keys ")
	t.StatusView.SetText("[yellow]step <n>[white] advance   [yellow]dump <addr>[white] jump VRAM view   [yellow]PgUp/PgDn[white] scroll VRAM   [yellow]Ctrl-C[white] quit")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command (step <n> | dump <hex addr>) ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	cores := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.SecurityView, 0, 1, false).
		AddItem(t.ApplicationView, 0, 1, false)

	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(cores, 8, 0, false).
		AddItem(t.GPUView, 0, 1, false).
		AddItem(t.VRAMView, 0, 1, false)

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.FrameView, 0, 1, false).
		AddItem(t.StatusView, 3, 0, false)

	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(left, 0, 2, false).
		AddItem(right, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(content, 0, 1, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyPgDn:
			t.VRAMAddress += 256
			t.UpdateVRAMView()
			return nil
		case tcell.KeyPgUp:
			if t.VRAMAddress >= 256 {
				t.VRAMAddress -= 256
			} else {
				t.VRAMAddress = 0
			}
			t.UpdateVRAMView()
			return nil
		}
		return event
	})
}

// handleCommand parses and runs one command-line entry: "step [n]"
// drives the core n frames forward (default 1), "dump <hex addr>" moves
// the VRAM view to that address. Both refresh the panels afterward.
func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	fields := strings.Fields(t.CommandInput.GetText())
	t.CommandInput.SetText("")
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "step":
		n := 1
		if len(fields) > 1 {
			if v, err := strconv.Atoi(fields[1]); err == nil && v > 0 {
				n = v
			}
		}
		for i := 0; i < n; i++ {
			if err := t.Core.RunFrame(64); err != nil {
				break
			}
		}
	case "dump":
		if len(fields) > 1 {
			if addr, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "0x"), 16, 32); err == nil {
				t.VRAMAddress = uint32(addr)
			}
		}
	}
	t.RefreshAll()
}

// Run starts the tview event loop. It blocks until Ctrl-C stops it.
func (t *TUI) Run() error {
	return t.App.SetRoot(t.MainLayout, true).Run()
}

// RefreshAll repopulates every panel from the bound core's current
// state. Callers should invoke this after each RunFrame/Step call they
// want reflected on screen.
func (t *TUI) RefreshAll() {
	t.UpdateCoreView(t.SecurityView, t.Core.Security)
	t.UpdateCoreView(t.ApplicationView, t.Core.Application)
	t.UpdateGPUView()
	t.UpdateVRAMView()
	t.UpdateFrameView()
	t.App.Draw()
}

// UpdateCoreView renders one CPU's general-purpose registers and CPSR
// flags.
func (t *TUI) UpdateCoreView(view *tview.TextView, c *cpu.CPU) {
	var b strings.Builder
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			reg := row*4 + col
			name := fmt.Sprintf("R%-2d", reg)
			switch reg {
			case cpu.PC:
				name = "PC "
			case cpu.SP:
				name = "SP "
			case cpu.LR:
				name = "LR "
			}
			fmt.Fprintf(&b, "%s:%08X  ", name, c.GetRegister(reg))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nCPSR %s  mode=0x%02X  cycles=%d",
		flagString(c.CPSR), uint32(c.CPSR.Mode), c.Cycles)
	view.SetText(b.String())
}

func flagString(p cpu.PSR) string {
	flag := func(set bool, ch string) string {
		if set {
			return "[yellow]" + ch + "[white]"
		}
		return strings.ToLower(ch)
	}
	return flag(p.N, "N") + flag(p.Z, "Z") + flag(p.C, "C") + flag(p.V, "V") +
		"  " + flag(p.IRQDisable, "I") + flag(p.FIQDisable, "F") + flag(p.Thumb, "T")
}

// UpdateGPUView renders a slice of the GPU's register bank: the viewport/
// framebuffer control registers a guest most often touches, rather than
// the full (mostly idle) 0x300-entry bank.
func (t *TUI) UpdateGPUView() {
	ctx := &t.Core.GPU.Context
	var b strings.Builder
	fmt.Fprintf(&b, "viewport: %dx%d @ (%d,%d)\n", int(ctx.ViewportWidth.ToFloat32()), int(ctx.ViewportHeight.ToFloat32()), ctx.ViewportX, ctx.ViewportY)
	fmt.Fprintf(&b, "frame:    %dx%d\n", ctx.FrameWidth, ctx.FrameHeight)
	fmt.Fprintf(&b, "depth buf base: 0x%08X\n\n", ctx.DepthBufferBase)
	for i := 0; i < 16; i++ {
		fmt.Fprintf(&b, "reg[0x%03X]=%08X  ", i, ctx.Regs[i])
		if i%4 == 3 {
			b.WriteByte('\n')
		}
	}
	view := t.GPUView
	view.SetText(b.String())
}

// UpdateVRAMView renders a 16x16 hex/ASCII dump starting at VRAMAddress,
// in the teacher's row-of-hex-then-ASCII style.
func (t *TUI) UpdateVRAMView() {
	vram := t.Core.GPU.VRAM
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]base: 0x%08X[white]\n", t.VRAMAddress)
	for row := 0; row < 16; row++ {
		rowAddr := int(t.VRAMAddress) + row*16
		fmt.Fprintf(&b, "0x%08X: ", rowAddr)
		var ascii strings.Builder
		for col := 0; col < 16; col++ {
			addr := rowAddr + col
			if addr < 0 || addr >= len(vram) {
				b.WriteString(".. ")
				ascii.WriteByte('.')
				continue
			}
			v := vram[addr]
			fmt.Fprintf(&b, "%02X ", v)
			if v >= 32 && v < 127 {
				ascii.WriteByte(v)
			} else {
				ascii.WriteByte('.')
			}
		}
		b.WriteString(" ")
		b.WriteString(ascii.String())
		b.WriteByte('\n')
	}
	t.VRAMView.SetText(b.String())
}

// UpdateFrameView renders a coarse ASCII-art luma preview of the
// presented top screen, useful for confirming a frame isn't blank
// without a real framebuffer viewer.
func (t *TUI) UpdateFrameView() {
	screen := t.Core.GPU.TopScreen
	const w, h = gpu.TopScreenWidth, gpu.TopScreenHeight
	ramp := " .:-=+*#%@"
	var b strings.Builder
	const stepX, stepY = 4, 8
	for y := 0; y < h; y += stepY {
		for x := 0; x < w; x += stepX {
			off := (y*w + x) * 4
			if off+3 >= len(screen) {
				continue
			}
			luma := (int(screen[off]) + int(screen[off+1]) + int(screen[off+2])) / 3
			idx := luma * (len(ramp) - 1) / 255
			b.WriteByte(ramp[idx])
		}
		b.WriteByte('\n')
	}
	t.FrameView.SetText(b.String())
}
