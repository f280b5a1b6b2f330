package gpu

import "github.com/horizon3ds/core/float24"

// screenVertex is a triangle corner after the viewport transform:
// integer-ish screen coordinates plus the perspective-divided
// reciprocal depth and the vertex's original attributes, still needing
// perspective-correct interpolation.
type screenVertex struct {
	x, y float32
	invW float32
	z    float32
	v    Vertex
}

// Fragment is one rasterized sample ready for the fragment stage.
type Fragment struct {
	X, Y  int
	Depth float24.Float24
	Color [4]float24.Float24
	Tex   [3][4]float24.Float24
	View  [4]float24.Float24
}

// viewportTransform divides by w and applies the GPU's viewport
// scale/bias, matching spec.md §4.7: "divide by w then scale/bias".
func (g *GPU) viewportTransform(v Vertex) screenVertex {
	c := &g.Context
	w := v.Pos[3].ToFloat32()
	if w == 0 {
		w = 1
	}
	invW := 1 / w

	ndcX := v.Pos[0].ToFloat32() * invW
	ndcY := v.Pos[1].ToFloat32() * invW
	ndcZ := v.Pos[2].ToFloat32() * invW

	halfW := c.ViewportWidth.ToFloat32() / 2
	halfH := c.ViewportHeight.ToFloat32() / 2

	sx := (ndcX+1)*halfW + float32(c.ViewportX)
	sy := (1-ndcY)*halfH + float32(c.ViewportY)

	return screenVertex{x: sx, y: sy, invW: invW, z: ndcZ, v: v}
}

// RasterizeTriangle converts a triangle into the fragments it covers
// using a half-space (edge-function) scanline sweep with
// perspective-correct, linearly interpolated attributes (spec.md §4.7:
// "half-triangle scanline sweep with barycentric/linear interpolation
// of color/texcoords/view vector").
func (g *GPU) RasterizeTriangle(tri Triangle) []Fragment {
	a := g.viewportTransform(tri[0])
	b := g.viewportTransform(tri[1])
	c := g.viewportTransform(tri[2])

	area := edgeFunction(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return nil
	}

	minX := int(clampF(minOf3(a.x, b.x, c.x), 0, float32(g.Context.FrameWidth)))
	maxX := int(clampF(maxOf3(a.x, b.x, c.x), 0, float32(g.Context.FrameWidth)))
	minY := int(clampF(minOf3(a.y, b.y, c.y), 0, float32(g.Context.FrameHeight)))
	maxY := int(clampF(maxOf3(a.y, b.y, c.y), 0, float32(g.Context.FrameHeight)))

	var frags []Fragment
	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			fx, fy := float32(px)+0.5, float32(py)+0.5
			w0 := edgeFunction(b.x, b.y, c.x, c.y, fx, fy) / area
			w1 := edgeFunction(c.x, c.y, a.x, a.y, fx, fy) / area
			w2 := edgeFunction(a.x, a.y, b.x, b.y, fx, fy) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			persp := w0*a.invW + w1*b.invW + w2*c.invW
			if persp == 0 {
				continue
			}
			pw0, pw1, pw2 := w0*a.invW/persp, w1*b.invW/persp, w2*c.invW/persp

			depth := w0*a.z + w1*b.z + w2*c.z

			frag := Fragment{X: px, Y: py, Depth: float24.FromFloat32(depth)}
			for lane := 0; lane < 4; lane++ {
				frag.Color[lane] = lerp3(a.v.Color[lane], b.v.Color[lane], c.v.Color[lane], pw0, pw1, pw2)
				frag.View[lane] = lerp3(a.v.View[lane], b.v.View[lane], c.v.View[lane], pw0, pw1, pw2)
			}
			for unit := 0; unit < 3; unit++ {
				for lane := 0; lane < 4; lane++ {
					frag.Tex[unit][lane] = lerp3(a.v.TexCoords[unit][lane], b.v.TexCoords[unit][lane], c.v.TexCoords[unit][lane], pw0, pw1, pw2)
				}
			}
			frags = append(frags, frag)
		}
	}
	return frags
}

func edgeFunction(ax, ay, bx, by, px, py float32) float32 {
	return (px-ax)*(by-ay) - (py-ay)*(bx-ax)
}

func lerp3(a, b, c float24.Float24, wa, wb, wc float32) float24.Float24 {
	v := a.ToFloat32()*wa + b.ToFloat32()*wb + c.ToFloat32()*wc
	return float24.FromFloat32(v)
}

func minOf3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxOf3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
