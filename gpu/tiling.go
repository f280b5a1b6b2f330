package gpu

// swizzledTileOffset computes the byte offset of pixel (x,y) within a
// linear-tiled texture/framebuffer surface using the 8x8 Z-order
// (Morton) tile layout 3DS surfaces use: tiles are stored row-major
// left-to-right, top-to-bottom across the surface, and pixels within
// each 8x8 tile are stored in Morton (bit-interleaved) order rather
// than raster order (spec.md §4.7 "swizzled-tile address translation").
func swizzledTileOffset(x, y, width int, bytesPerPixel int) int {
	tileX, tileY := x/8, y/8
	inX, inY := x%8, y%8

	tilesPerRow := (width + 7) / 8
	tileIndex := tileY*tilesPerRow + tileX

	morton := interleaveBits(uint32(inX), uint32(inY))
	return (tileIndex*64+int(morton))*bytesPerPixel
}

// interleaveBits bit-interleaves the low 3 bits of x and y (sufficient
// to address all 64 cells of an 8x8 tile): bit i of x lands at output
// bit 2i, bit i of y at output bit 2i+1.
func interleaveBits(x, y uint32) uint32 {
	spread := func(v uint32) uint32 {
		var out uint32
		for i := 0; i < 3; i++ {
			if v&(1<<uint(i)) != 0 {
				out |= 1 << uint(2*i)
			}
		}
		return out
	}
	return spread(x) | spread(y)<<1
}

// linearOffset computes the byte offset of pixel (x,y) in ordinary
// row-major layout.
func linearOffset(x, y, width, bytesPerPixel int) int {
	return (y*width + x) * bytesPerPixel
}
