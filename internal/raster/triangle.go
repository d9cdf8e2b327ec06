package raster

import (
	"math"

	"softraster/internal/mathutil"
)

// edge is the signed double area of (a, b, c). Positive when c lies on the
// front-facing side of a→b.
func edge(a, b, c mathutil.Vec3) float64 {
	return (c[0]-a[0])*(b[1]-a[1]) - (c[1]-a[1])*(b[0]-a[0])
}

// DrawTriangle runs the vertex stage on the three vertices and fills the
// triangle, or outlines it when Wireframe is set.
func (r *Renderer) DrawTriangle(v0, v1, v2 Vertex) {
	if r.color == nil {
		return
	}
	r.stats.Triangles++
	out := [3]VertexOutput{
		r.runVertexStage(&v0, 0),
		r.runVertexStage(&v1, 1),
		r.runVertexStage(&v2, 2),
	}
	if r.flags&Wireframe != 0 {
		r.rasterLine(out[0].Position, out[0].Color, out[1].Position, out[1].Color)
		r.rasterLine(out[1].Position, out[1].Color, out[2].Position, out[2].Color)
		r.rasterLine(out[2].Position, out[2].Color, out[0].Position, out[0].Color)
		return
	}
	r.fillTriangle(&out)
}

// fillTriangle rasterizes three vertex-stage outputs.
//
// Every pixel center inside the bounding box is tested against the three
// edges; ties on an edge count as inside, so shared edges may be drawn twice.
func (r *Renderer) fillTriangle(out *[3]VertexOutput) {
	persp := r.flags&PerspectiveCorrect != 0

	var win [3]mathutil.Vec3
	var invW [3]float64
	for i := range out {
		w := out[i].Position[3]
		p, ok := r.toWindow(out[i].Position)
		if !ok {
			r.stats.Culled++
			return
		}
		win[i] = p
		invW[i] = 1 / w
		if persp {
			out[i].UV = out[i].UV.Scale(invW[i])
		}
	}

	// Back-facing and degenerate triangles are dropped; NaN fails too.
	area := edge(win[0], win[1], win[2])
	if !(area > 0) {
		r.stats.Culled++
		return
	}
	invArea := 1 / area

	// Bounding box, clamped to the color buffer
	w, h := r.color.Size()
	minX := math.Max(math.Floor(min(win[0][0], win[1][0], win[2][0])), 0)
	maxX := math.Min(math.Ceil(max(win[0][0], win[1][0], win[2][0])), float64(w-1))
	minY := math.Max(math.Floor(min(win[0][1], win[1][1], win[2][1])), 0)
	maxY := math.Min(math.Ceil(max(win[0][1], win[1][1], win[2][1])), float64(h-1))
	if !(minX <= maxX && minY <= maxY) {
		return
	}
	x0, x1 := int(minX), int(maxX)
	y0, y1 := int(minY), int(maxY)

	// Fragment setup shared by every pixel of this triangle
	var prog *Program
	var uniforms *UniformSet
	var varyings []Value
	if r.shader != nil {
		prog = r.shader.ShaderProgram()
		uniforms = &prog.uniforms
		if n := prog.varyings.Len(); n > 0 {
			varyings = make([]Value, n)
		}
	}
	z0, z1, z2 := win[0][2], win[1][2], win[2][2]

	for py := y0; py <= y1; py++ {
		cy := float64(py) + 0.5
		for px := x0; px <= x1; px++ {
			p := mathutil.Vec3{float64(px) + 0.5, cy, 0}
			e0 := edge(win[1], win[2], p)
			e1 := edge(win[2], win[0], p)
			e2 := edge(win[0], win[1], p)
			if e0 < 0 || e1 < 0 || e2 < 0 {
				continue
			}
			b0, b1, b2 := e0*invArea, e1*invArea, e2*invArea

			// Depth is interpolated linearly in screen space.
			d := 1 - (z0*b0 + z1*b1 + z2*b2)
			if !r.depthPass(px, py, d) {
				continue
			}

			frag := PixelOutput{
				Textures: r.textures,
				Normal:   bary4(out[0].Normal, out[1].Normal, out[2].Normal, b0, b1, b2),
				UV:       bary2(out[0].UV, out[1].UV, out[2].UV, b0, b1, b2),
				Color:    bary4(out[0].Color, out[1].Color, out[2].Color, b0, b1, b2),
				Eye:      bary3(out[0].Eye, out[1].Eye, out[2].Eye, b0, b1, b2),
				LightDir: bary3(out[0].LightDir, out[1].LightDir, out[2].LightDir, b0, b1, b2),
				X:        px,
				Y:        py,
				Depth:    d,
				Bary:     mathutil.Vec3{b0, b1, b2},
				Uniforms: uniforms,
				UserData: r.userData,
			}
			if persp {
				// uv was divided by w per vertex; undo with the interpolated 1/w.
				if invZ := b0*invW[0] + b1*invW[1] + b2*invW[2]; invZ != 0 {
					frag.UV = frag.UV.Scale(1 / invZ)
				}
			}

			var col mathutil.Vec4
			if r.shader != nil {
				if varyings != nil {
					for s := range varyings {
						t := prog.varyings.vars[s].Type()
						varyings[s] = interpolateValue(t,
							varyingAt(&out[0], s), varyingAt(&out[1], s), varyingAt(&out[2], s),
							b0, b1, b2)
						prog.varyings.vars[s].Value = varyings[s]
					}
					frag.Varyings = varyings
				}
				col = r.shader.FragmentStage(&frag)
				r.stats.FragmentCalls++
			} else {
				col = defaultFragment(&frag)
			}

			r.writePixel(px, py, d, col)
		}
	}
}

func varyingAt(v *VertexOutput, s int) Value {
	if s < len(v.Varyings) {
		return v.Varyings[s]
	}
	return Value{}
}

func bary2(a, b, c mathutil.Vec2, w0, w1, w2 float64) mathutil.Vec2 {
	return mathutil.Vec2{
		a[0]*w0 + b[0]*w1 + c[0]*w2,
		a[1]*w0 + b[1]*w1 + c[1]*w2,
	}
}

func bary3(a, b, c mathutil.Vec3, w0, w1, w2 float64) mathutil.Vec3 {
	return mathutil.Vec3{
		a[0]*w0 + b[0]*w1 + c[0]*w2,
		a[1]*w0 + b[1]*w1 + c[1]*w2,
		a[2]*w0 + b[2]*w1 + c[2]*w2,
	}
}

func bary4(a, b, c mathutil.Vec4, w0, w1, w2 float64) mathutil.Vec4 {
	return mathutil.Vec4{
		a[0]*w0 + b[0]*w1 + c[0]*w2,
		a[1]*w0 + b[1]*w1 + c[1]*w2,
		a[2]*w0 + b[2]*w1 + c[2]*w2,
		a[3]*w0 + b[3]*w1 + c[3]*w2,
	}
}
