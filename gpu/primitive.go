package gpu

// Primitive topology modes (spec.md §4.7 "primitive assembly").
const (
	PrimModeIndependent uint8 = iota
	PrimModeStrip
	PrimModeFan
)

// Triangle is three assembled vertices ready for rasterization.
type Triangle [3]Vertex

// SubmitVertex feeds one shaded vertex into the primitive assembler's
// rolling 3-vertex queue and returns the triangle it completes, if any.
// Strip mode alternates the winding of the two carried-over vertices
// every other triangle so the whole strip keeps consistent front-facing
// orientation; fan mode always keeps the first vertex submitted as one
// corner.
func (g *GPU) SubmitVertex(v Vertex) (Triangle, bool) {
	c := &g.Context
	switch c.PrimMode {
	case PrimModeIndependent:
		c.VertexQueue[c.SubmittedVertices%3] = v
		c.SubmittedVertices++
		if c.SubmittedVertices%3 == 0 {
			return Triangle{c.VertexQueue[0], c.VertexQueue[1], c.VertexQueue[2]}, true
		}
		return Triangle{}, false

	case PrimModeStrip:
		if c.SubmittedVertices < 2 {
			c.VertexQueue[c.SubmittedVertices] = v
			c.SubmittedVertices++
			return Triangle{}, false
		}
		var tri Triangle
		if c.SubmittedVertices%2 == 0 {
			tri = Triangle{c.VertexQueue[0], c.VertexQueue[1], v}
		} else {
			tri = Triangle{c.VertexQueue[1], c.VertexQueue[0], v}
		}
		c.VertexQueue[0] = c.VertexQueue[1]
		c.VertexQueue[1] = v
		c.SubmittedVertices++
		return tri, true

	case PrimModeFan:
		if c.SubmittedVertices < 2 {
			c.VertexQueue[c.SubmittedVertices] = v
			c.SubmittedVertices++
			return Triangle{}, false
		}
		tri := Triangle{c.VertexQueue[0], c.VertexQueue[1], v}
		c.VertexQueue[1] = v
		c.SubmittedVertices++
		return tri, true

	default:
		return Triangle{}, false
	}
}

// ResetPrimitiveAssembly clears the rolling vertex queue, starting a new
// primitive (spec.md §4.7: each draw call begins a fresh assembly).
func (g *GPU) ResetPrimitiveAssembly() {
	g.Context.SubmittedVertices = 0
	g.Context.VertexQueue = [3]Vertex{}
}
