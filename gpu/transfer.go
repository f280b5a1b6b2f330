package gpu

import "github.com/horizon3ds/core/scheduler"

const transferLatency = 256

// Display-transfer flag bits (spec.md §4.6).
const (
	transferFlagTiledInput   = 1 << 0
	transferFlagTiledOutput  = 1 << 1
	transferFlagTextureCopy  = 1 << 3
)

func (g *GPU) triggerDisplayTransfer() {
	t := &g.Transfer
	t.InputAddr = g.reg(RegDispTransferInputAddr)
	t.OutputAddr = g.reg(RegDispTransferOutputAddr)

	inDim := g.reg(RegDispTransferInputDim)
	t.DispInputWidth = inDim & 0xFFFF
	t.DispInputHeight = inDim >> 16

	outDim := g.reg(RegDispTransferOutputDim)
	t.DispOutputWidth = outDim & 0xFFFF
	t.DispOutputHeight = outDim >> 16

	t.Flags = g.reg(RegDispTransferFlags)

	if t.Flags&transferFlagTextureCopy != 0 {
		t.TextureCopySize = g.reg(RegDispTextureCopySize)
		inGapDim := g.reg(RegDispTextureCopyInDims)
		outGapDim := g.reg(RegDispTextureCopyOutDims)
		t.TCInputWidth = inGapDim & 0xFFFF
		t.TCInputGap = inGapDim >> 16
		t.TCOutputWidth = outGapDim & 0xFFFF
		t.TCOutputGap = outGapDim >> 16
	}

	t.Busy = true
	t.Finished = false
	g.Scheduler.Post(scheduler.KindTransferDone, 0, transferLatency)
}

// CompleteDisplayTransfer performs the actual pixel move: a raw
// byte-range texture copy, or a linear<->8x8-swizzled-tile conversion
// with optional format conversion (spec.md §4.6).
func (g *GPU) CompleteDisplayTransfer() {
	t := &g.Transfer
	if !t.Busy {
		return
	}

	if t.Flags&transferFlagTextureCopy != 0 {
		g.completeTextureCopy()
	} else {
		g.completeTiledConversion()
	}

	t.Busy = false
	t.Finished = true
}

func (g *GPU) completeTextureCopy() {
	t := &g.Transfer
	inStride := int(t.TCInputWidth + t.TCInputGap)
	outStride := int(t.TCOutputWidth + t.TCOutputGap)
	rowBytes := int(t.TCInputWidth)
	if int(t.TCOutputWidth) < rowBytes {
		rowBytes = int(t.TCOutputWidth)
	}
	if rowBytes == 0 || inStride == 0 || outStride == 0 {
		return
	}
	rows := int(t.TextureCopySize) / inStride
	for row := 0; row < rows; row++ {
		src := int(t.InputAddr)%len(g.VRAM) + row*inStride
		dst := int(t.OutputAddr)%len(g.VRAM) + row*outStride
		if src+rowBytes > len(g.VRAM) || dst+rowBytes > len(g.VRAM) {
			break
		}
		copy(g.VRAM[dst:dst+rowBytes], g.VRAM[src:src+rowBytes])
	}
}

func (g *GPU) completeTiledConversion() {
	t := &g.Transfer
	width, height := int(t.DispOutputWidth), int(t.DispOutputHeight)
	if width == 0 || height == 0 {
		return
	}
	const bpp = 4 // internal transfer works in RGBA8 units

	inTiled := t.Flags&transferFlagTiledInput != 0
	outTiled := t.Flags&transferFlagTiledOutput != 0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var srcOff int
			if inTiled {
				srcOff = swizzledTileOffset(x, y, width, bpp)
			} else {
				srcOff = linearOffset(x, y, width, bpp)
			}
			var dstOff int
			if outTiled {
				dstOff = swizzledTileOffset(x, y, width, bpp)
			} else {
				dstOff = linearOffset(x, y, width, bpp)
			}

			src := (int(t.InputAddr) + srcOff) % len(g.VRAM)
			dst := (int(t.OutputAddr) + dstOff) % len(g.VRAM)
			if src+bpp > len(g.VRAM) || dst+bpp > len(g.VRAM) {
				continue
			}
			copy(g.VRAM[dst:dst+bpp], g.VRAM[src:src+bpp])
		}
	}
}
