package raster

// Primitive selects how a vertex stream is assembled.
type Primitive int

const (
	Lines Primitive = iota
	LineStrip
	Triangles
	TriangleStrip
)

func (p Primitive) String() string {
	switch p {
	case Lines:
		return "lines"
	case LineStrip:
		return "line-strip"
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle-strip"
	}
	return "unknown"
}

// Render draws vertices as primitives of the given kind. Incomplete trailing
// primitives are ignored. Without a bound color attachment nothing happens.
func (r *Renderer) Render(kind Primitive, vertices []Vertex) {
	if r.color == nil {
		Logger().Debug("render skipped: no color attachment", "primitive", kind)
		return
	}
	assemble(kind, len(vertices),
		func(a, b int) {
			r.DrawLine(vertices[a], vertices[a].Color, vertices[b], vertices[b].Color)
		},
		func(a, b, c int) {
			r.DrawTriangle(vertices[a], vertices[b], vertices[c])
		})
}

// RenderIndexed is Render with vertices fetched through indices. Primitives
// referencing an index past the end of vertices are dropped.
func (r *Renderer) RenderIndexed(kind Primitive, vertices []Vertex, indices []uint32) {
	if r.color == nil {
		Logger().Debug("render skipped: no color attachment", "primitive", kind)
		return
	}
	n := uint32(len(vertices))
	dropped := 0
	assemble(kind, len(indices),
		func(a, b int) {
			ia, ib := indices[a], indices[b]
			if ia >= n || ib >= n {
				dropped++
				return
			}
			r.DrawLine(vertices[ia], vertices[ia].Color, vertices[ib], vertices[ib].Color)
		},
		func(a, b, c int) {
			ia, ib, ic := indices[a], indices[b], indices[c]
			if ia >= n || ib >= n || ic >= n {
				dropped++
				return
			}
			r.DrawTriangle(vertices[ia], vertices[ib], vertices[ic])
		})
	if dropped > 0 {
		Logger().Debug("primitives dropped: index out of range", "primitive", kind, "count", dropped)
	}
}

// assemble walks n stream positions and emits the primitives of kind.
// Triangle strips swap the first two positions of every odd triangle so all
// triangles keep the winding of the first.
func assemble(kind Primitive, n int, line func(a, b int), tri func(a, b, c int)) {
	switch kind {
	case Lines:
		for i := 0; i+1 < n; i += 2 {
			line(i, i+1)
		}
	case LineStrip:
		for i := 1; i < n; i++ {
			line(i-1, i)
		}
	case Triangles:
		for i := 0; i+2 < n; i += 3 {
			tri(i, i+1, i+2)
		}
	case TriangleStrip:
		for i := 2; i < n; i++ {
			if i%2 == 0 {
				tri(i-2, i-1, i)
			} else {
				tri(i-1, i-2, i)
			}
		}
	default:
		Logger().Debug("unknown primitive kind", "primitive", int(kind))
	}
}
