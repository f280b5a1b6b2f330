// Package gpu implements the command/DMA engines and programmable
// pipeline: the masked register bank, the command-list walker, the
// memory-fill and display-transfer engines, the vertex/geometry shader
// invocation, primitive assembly and rasterization, the texture
// combiner chain, and the framebuffer presenter.
package gpu

import (
	"github.com/horizon3ds/core/float24"
	"github.com/horizon3ds/core/scheduler"
	"github.com/horizon3ds/core/shader"
)

// NumRegisters is the size of the flat register bank (spec.md §3: "a
// flat 0x300-word register bank").
const NumRegisters = 0x300

// RGBAColor is an integer RGBA color, each channel independently
// clampable the way the combiner and blend stages need (grounded on
// original_source's RGBA_Color: four int32 channels rather than
// packed bytes, so intermediate combiner math can't wrap).
type RGBAColor struct {
	R, G, B, A int32
}

// FrameBuffer holds one screen's two candidate color-buffer addresses
// and the format/selection bit choosing between them.
type FrameBuffer struct {
	LeftAddrA, LeftAddrB   uint32
	RightAddrA, RightAddrB uint32
	ColorFormat            uint8
	BufferSelect           bool
}

// MemoryFill is one memory-fill engine's state.
type MemoryFill struct {
	Start, End uint32
	Value      uint32
	FillWidth  uint8
	Busy       bool
	Finished   bool
}

// TransferEngine is the display-transfer DMA engine's state.
type TransferEngine struct {
	InputAddr, OutputAddr                   uint32
	DispInputWidth, DispInputHeight         uint32
	DispOutputWidth, DispOutputHeight       uint32
	Flags                                   uint32
	TextureCopySize                         uint32
	TCInputWidth, TCOutputWidth             uint32
	TCInputGap, TCOutputGap                 uint32
	Busy, Finished                          bool
}

// CommandEngine walks a guest-memory command list.
type CommandEngine struct {
	Size      uint32
	InputAddr uint32
	Busy      bool
}

// Vertex is the shader-output attribute bag interpolated across a
// triangle (spec.md §3 "Vertex").
type Vertex struct {
	Pos       [4]float24.Float24
	Quat      [4]float24.Float24
	Color     [4]float24.Float24
	TexCoords [3][4]float24.Float24
	View      [4]float24.Float24
}

// Context is the GPU's full architectural state: the raw register bank
// plus the derived/shadow fields every component reads directly instead
// of re-decoding the bank on every access, mirroring
// original_source's GPU_Context layout field-for-field where the spec
// names an equivalent piece of state.
type Context struct {
	Regs [NumRegisters]uint32

	ViewportWidth, ViewportHeight       float24.Float24
	ViewportInvW, ViewportInvH          float24.Float24
	ViewportX, ViewportY                int16

	VshOutputTotal   uint8
	VshOutputMapping [7][4]uint8

	TexBorder [3]RGBAColor
	TexWidth  [3]uint32
	TexHeight [3]uint32
	TexAddr   [3]uint32
	Tex0Addr  [5]uint32
	TexType   [3]uint8

	CombRGBSource    [6][3]uint8
	CombAlphaSource  [6][3]uint8
	CombRGBOperand   [6][3]uint8
	CombAlphaOperand [6][3]uint8
	CombRGBOp        [6]uint8
	CombAlphaOp      [6]uint8
	CombConstant     [6]RGBAColor
	CombRGBScale     [6]uint8
	CombAlphaScale   [6]uint8

	FragmentOp  uint8
	BlendMode   uint8
	BlendColor  RGBAColor

	BlendRGBEquation, BlendAlphaEquation   uint8
	BlendRGBSrcFunc, BlendRGBDstFunc       uint8
	BlendAlphaSrcFunc, BlendAlphaDstFunc   uint8

	DepthBufferBase, ColorBufferBase uint32
	FrameWidth, FrameHeight           uint16

	VertexQueue       [3]Vertex
	SubmittedVertices int

	VertexBufferBase    uint32
	AttrBufferFormatLow uint32
	AttrBufferFormatHi  uint32
	FixedAttrMask       uint16
	TotalVtxAttrs       uint8

	AttrBufferOffs       [12]uint32
	AttrBufferCfg1       [12]uint32
	AttrBufferCfg2       [12]uint16
	AttrBufferVtxSize    [12]uint8
	AttrBufferComponents [12]uint8

	IndexBufferOffs  uint32
	IndexBufferShort bool

	Vertices  uint32
	VtxOffset uint32

	FixedAttrIndex  uint8
	FixedAttrBuffer [3]uint32
	FixedAttrCount  int

	VshInputs, VshInputCounter uint8
	PrimMode                   uint8

	GeometryShader shader.Unit
	VertexShader   shader.Unit
}

// GPU owns the full pipeline's mutable state: the register context, the
// DMA/command engines, VRAM, and the two presentation framebuffers. A
// GPU never holds a pointer back to its owning core object (spec.md §9
// redesign note); the core drains its completed scheduler events and
// calls back in, rather than the GPU reaching out.
type GPU struct {
	Context Context

	Framebuffers [2]FrameBuffer
	MemFill      [2]MemoryFill
	Transfer     TransferEngine
	CmdEngine    CommandEngine

	VRAM []byte

	TopScreen    []byte // 240*400*4 bytes, RGBA8
	BottomScreen []byte // 240*320*4 bytes, RGBA8

	Scheduler *scheduler.Queue
}

const (
	TopScreenWidth     = 240
	TopScreenHeight    = 400
	BottomScreenWidth  = 240
	BottomScreenHeight = 320
)

// New allocates a GPU with the given VRAM size (bytes), owning its own
// event queue for the async memory-fill, display-transfer, and
// command-list engines.
func New(vramSize int) *GPU {
	return &GPU{
		VRAM:         make([]byte, vramSize),
		TopScreen:    make([]byte, TopScreenWidth*TopScreenHeight*4),
		BottomScreen: make([]byte, BottomScreenWidth*BottomScreenHeight*4),
		Scheduler:    scheduler.New(),
	}
}

// Reset clears all engine and register state, leaving VRAM contents
// untouched (VRAM is not reinitialized by a GPU reset on real hardware).
func (g *GPU) Reset() {
	g.Context = Context{}
	g.Framebuffers = [2]FrameBuffer{}
	g.MemFill = [2]MemoryFill{}
	g.Transfer = TransferEngine{}
	g.CmdEngine = CommandEngine{}
	g.Scheduler.Reset()
}

// ReadVRAM32 reads a little-endian word from VRAM, wrapping addresses
// the way original_source's read_vram<T> does (addr % len(vram)).
func (g *GPU) ReadVRAM32(addr uint32) uint32 {
	off := int(addr) % len(g.VRAM)
	b := g.VRAM[off : off+4]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// WriteVRAM32 writes a little-endian word to VRAM with the same wrap.
func (g *GPU) WriteVRAM32(addr uint32, v uint32) {
	off := int(addr) % len(g.VRAM)
	b := g.VRAM[off : off+4]
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}
