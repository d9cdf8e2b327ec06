package raster

import (
	"math"
	"testing"

	"softraster/internal/canvas"
	"softraster/internal/mathutil"
)

var (
	red   = mathutil.Vec4{1, 0, 0, 1}
	green = mathutil.Vec4{0, 1, 0, 1}
	blue  = mathutil.Vec4{0, 0, 1, 1}
)

// newTestRenderer returns a renderer drawing into a w×h color canvas and a
// matching depth canvas, with the viewport covering both.
func newTestRenderer(w, h int) (*Renderer, *canvas.Canvas, *canvas.Canvas) {
	color := canvas.New(w, h, canvas.FormatRGBA8)
	depth := canvas.NewDepth(w, h)
	r := New()
	r.SetRenderTarget(NewRenderTarget(color, depth))
	r.SetViewport(Viewport{X: 0, Y: 0, Width: w, Height: h})
	return r, color, depth
}

func vtx(x, y, z float64, col mathutil.Vec4) Vertex {
	return Vertex{Position: mathutil.Vec3{x, y, z}, Color: col}
}

// frontTriangle covers the lower-left half of NDC with positive area.
func frontTriangle(z float64, col mathutil.Vec4) (Vertex, Vertex, Vertex) {
	return vtx(-1, -1, z, col), vtx(-1, 1, z, col), vtx(1, -1, z, col)
}

// coverTriangle covers all of NDC [-1,1]².
func coverTriangle(z float64, col mathutil.Vec4) (Vertex, Vertex, Vertex) {
	return vtx(-1, -1, z, col), vtx(-1, 3, z, col), vtx(3, -1, z, col)
}

func countDrawn(c *canvas.Canvas) int {
	n := 0
	w, h := c.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.Pixel(x, y)[3] != 0 {
				n++
			}
		}
	}
	return n
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// recordingShader counts stage invocations and records barycentrics.
type recordingShader struct {
	*Program
	vertexCalls   int
	fragmentCalls int
	bary          []mathutil.Vec3
}

func (s *recordingShader) VertexStage(v *VertexOutput) {
	s.vertexCalls++
}

func (s *recordingShader) FragmentStage(p *PixelOutput) mathutil.Vec4 {
	s.fragmentCalls++
	s.bary = append(s.bary, p.Bary)
	return p.Color
}

func TestBackFaceCulling(t *testing.T) {
	r, color, _ := newTestRenderer(32, 32)
	v0, v1, v2 := frontTriangle(0, red)

	r.DrawTriangle(v0, v2, v1)

	if n := countDrawn(color); n != 0 {
		t.Errorf("back-facing triangle wrote %d pixels, want 0", n)
	}
	st := r.Stats()
	if st.Culled != 1 || st.PixelsWritten != 0 {
		t.Errorf("Stats() = %+v, want Culled=1 PixelsWritten=0", st)
	}

	r.DrawTriangle(v0, v1, v2)
	if n := countDrawn(color); n == 0 {
		t.Error("front-facing triangle wrote no pixels")
	}
}

func TestDegenerateTriangleSkipped(t *testing.T) {
	r, color, _ := newTestRenderer(16, 16)
	r.DrawTriangle(vtx(-1, -1, 0, red), vtx(0, 0, 0, red), vtx(1, 1, 0, red))
	if n := countDrawn(color); n != 0 {
		t.Errorf("collinear triangle wrote %d pixels, want 0", n)
	}
}

func TestBarycentricPartitionOfUnity(t *testing.T) {
	r, _, _ := newTestRenderer(48, 48)
	s := &recordingShader{Program: NewProgram()}
	r.SetShader(s)

	r.DrawTriangle(vtx(-0.9, -0.7, 0, red), vtx(-0.2, 0.95, 0, green), vtx(0.8, -0.9, 0, blue))

	if len(s.bary) == 0 {
		t.Fatal("fragment stage never ran")
	}
	for i, b := range s.bary {
		if sum := b[0] + b[1] + b[2]; !near(sum, 1, 1e-9) {
			t.Fatalf("pixel %d: weights %v sum to %v, want 1", i, b, sum)
		}
		if b[0] < 0 || b[1] < 0 || b[2] < 0 {
			t.Fatalf("pixel %d: negative weight in %v", i, b)
		}
	}
}

func TestCentroidColor(t *testing.T) {
	r, color, _ := newTestRenderer(64, 64)
	// Window positions (0,0), (0,64), (64,0); centroid ≈ (21.3, 21.3).
	r.DrawTriangle(vtx(-1, -1, 0, red), vtx(-1, 1, 0, green), vtx(1, -1, 0, blue))

	got := color.Pixel(21, 21)
	for ch := 0; ch < 3; ch++ {
		if !near(got[ch], 1.0/3, 0.02) {
			t.Errorf("centroid channel %d = %.3f, want ≈0.333 (pixel %v)", ch, got[ch], got)
		}
	}
}

func TestDepthOrdering(t *testing.T) {
	tests := []struct {
		name  string
		first bool // draw the far triangle first
	}{
		{"far then near", true},
		{"near then far", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, color, depth := newTestRenderer(32, 32)
			r.SetFlag(DepthTest, true)
			r.SetFlag(DepthWrite, true)

			fa, fb, fc := coverTriangle(0.5, red)   // window z 0.75
			na, nb, nc := coverTriangle(-0.5, green) // window z 0.25, nearer
			if tt.first {
				r.DrawTriangle(fa, fb, fc)
				r.DrawTriangle(na, nb, nc)
			} else {
				r.DrawTriangle(na, nb, nc)
				r.DrawTriangle(fa, fb, fc)
			}

			if got := color.Pixel(16, 16); got != green {
				t.Errorf("overlap pixel = %v, want green %v", got, green)
			}
			if d := depth.Depth(16, 16); !near(d, 0.75, 1e-6) {
				t.Errorf("stored depth = %v, want 0.75", d)
			}
		})
	}
}

func TestDepthOutOfRangeDiscarded(t *testing.T) {
	r, color, _ := newTestRenderer(16, 16)
	a, b, c := coverTriangle(2, red) // window z 1.5, depth -0.5
	r.DrawTriangle(a, b, c)
	if n := countDrawn(color); n != 0 {
		t.Errorf("out-of-range depth wrote %d pixels, want 0", n)
	}
}

func TestDepthWriteFlag(t *testing.T) {
	r, _, depth := newTestRenderer(8, 8)
	a, b, c := coverTriangle(0, red)
	r.DrawTriangle(a, b, c)
	if d := depth.Depth(4, 4); d != 0 {
		t.Errorf("depth written without DepthWrite: %v", d)
	}
	r.SetFlag(DepthWrite, true)
	r.DrawTriangle(a, b, c)
	if d := depth.Depth(4, 4); !near(d, 0.5, 1e-6) {
		t.Errorf("depth = %v, want 0.5", d)
	}
}

// wShader scales each position by a per-vertex w stored in Normal.x and
// outputs the texture coordinate as color.
type wShader struct{ *Program }

func (s wShader) VertexStage(v *VertexOutput) {
	w := v.Normal[0]
	v.Position = mathutil.Vec4{v.Position[0] * w, v.Position[1] * w, v.Position[2] * w, w}
}

func (s wShader) FragmentStage(p *PixelOutput) mathutil.Vec4 {
	return mathutil.Vec4{p.UV[0], p.UV[1], 0, 1}
}

func renderPerspectiveQuad(correct bool) *canvas.Canvas {
	r, color, _ := newTestRenderer(64, 64)
	r.SetShader(wShader{NewProgram()})
	r.SetFlag(PerspectiveCorrect, correct)

	mk := func(x, y, u, v, w float64) Vertex {
		return Vertex{
			Position: mathutil.Vec3{x, y, 0},
			Normal:   mathutil.Vec3{w, 0, 0},
			UV:       mathutil.Vec2{u, v},
			Color:    mathutil.Vec4{1, 1, 1, 1},
		}
	}
	a := mk(-1, -1, 0, 0, 1)
	b := mk(1, -1, 1, 0, 4)
	c := mk(1, 1, 1, 1, 4)
	d := mk(-1, 1, 0, 1, 1)
	r.Render(Triangles, []Vertex{a, d, b, d, c, b})
	return color
}

func TestPerspectiveCorrection(t *testing.T) {
	linear := renderPerspectiveQuad(false)
	corrected := renderPerspectiveQuad(true)

	// (31, 32) has its center on the seam x+y=64.
	lu := linear.Pixel(31, 32)[0]
	cu := corrected.Pixel(31, 32)[0]
	if !near(lu, 31.5/64, 0.02) {
		t.Errorf("uncorrected u at seam = %.3f, want ≈%.3f", lu, 31.5/64)
	}
	// With w=1 on the left and w=4 on the right the corrected u at screen
	// fraction s is (s/4)/((1-s)+s/4), about 0.196 here.
	if !near(cu, 0.196, 0.02) {
		t.Errorf("corrected u at seam = %.3f, want ≈0.196", cu)
	}
	if math.Abs(lu-cu) < 0.1 {
		t.Errorf("seam u barely differs: linear %.3f, corrected %.3f", lu, cu)
	}
}

func TestAlphaBlend(t *testing.T) {
	dst := mathutil.Vec4{0.2, 0.4, 0.6, 1}
	tests := []struct {
		name string
		src  mathutil.Vec4
		want func(before mathutil.Vec4) mathutil.Vec4
	}{
		{"opaque", red, func(mathutil.Vec4) mathutil.Vec4 { return red }},
		{"transparent", mathutil.Vec4{0, 1, 0, 0}, func(b mathutil.Vec4) mathutil.Vec4 { return b }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, color, _ := newTestRenderer(8, 8)
			color.Clear(dst)
			before := color.Pixel(3, 3)
			r.SetFlag(AlphaBlend, true)

			a, b, c := coverTriangle(0, tt.src)
			r.DrawTriangle(a, b, c)

			if got, want := color.Pixel(3, 3), tt.want(before); got != want {
				t.Errorf("pixel = %v, want %v", got, want)
			}
		})
	}
}

func TestAlphaBlendHalf(t *testing.T) {
	got := blend(mathutil.Vec4{1, 0, 0, 0.5}, mathutil.Vec4{0, 0, 1, 1})
	want := mathutil.Vec4{0.5, 0, 0.5, 1}
	for i := range got {
		if !near(got[i], want[i], 1e-12) {
			t.Fatalf("blend() = %v, want %v", got, want)
		}
	}
}

func TestDegenerateLine(t *testing.T) {
	r, color, _ := newTestRenderer(16, 16)
	p := vtx(0.01, 0.01, 0, red)
	r.DrawLine(p, red, p, blue)

	if n := countDrawn(color); n != 1 {
		t.Fatalf("degenerate line wrote %d pixels, want 1", n)
	}
	got := color.Pixel(8, 8)
	want := mathutil.Vec4{128.0 / 255, 0, 128.0 / 255, 1}
	if got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestDegenerateLineDepthAndBlend(t *testing.T) {
	r, color, depth := newTestRenderer(16, 16)
	r.SetFlag(DepthTest, true)
	r.SetFlag(DepthWrite, true)

	p := vtx(0.01, 0.01, 0, red)
	r.DrawLine(p, red, p, red)
	if got := depth.Depth(8, 8); !near(got, 0.5, 1e-6) {
		t.Fatalf("depth after single-pixel line = %v, want 0.5", got)
	}

	// Farther point: rejected by the depth test.
	far := vtx(0.01, 0.01, 0.5, blue)
	r.DrawLine(far, blue, far, blue)
	if got := color.Pixel(8, 8); got != red {
		t.Errorf("far single-pixel line overwrote the pixel: %v", got)
	}

	// Outside the depth range: discarded.
	out := vtx(0.01, 0.01, -3, blue)
	r.DrawLine(out, blue, out, blue)
	if got := color.Pixel(8, 8); got != red {
		t.Errorf("out-of-range single-pixel line wrote %v", got)
	}

	// Blending applies like any other line pixel.
	r.SetFlag(DepthTest, false)
	r.SetFlag(AlphaBlend, true)
	half := mathutil.Vec4{0, 0, 1, 0.5}
	r.DrawLine(p, half, p, half)
	got := color.Pixel(8, 8)
	if !near(got[0], 0.5, 0.01) || !near(got[2], 0.5, 0.01) {
		t.Errorf("blended pixel = %v, want half red, half blue", got)
	}
}

func TestLineEndpointsAndInterpolation(t *testing.T) {
	r, color, _ := newTestRenderer(32, 32)
	// Window x from 0 to 32 along row 16.
	r.DrawLine(vtx(-1, 0.01, 0, red), red, vtx(1, 0.01, 0, blue), blue)

	if n := countDrawn(color); n != 32 {
		t.Errorf("horizontal line wrote %d pixels, want 32", n)
	}
	if got := color.Pixel(0, 16); got != red {
		t.Errorf("first pixel = %v, want red", got)
	}
	mid := color.Pixel(16, 16)
	if !near(mid[0], 0.5, 0.02) || !near(mid[2], 0.5, 0.02) {
		t.Errorf("middle pixel = %v, want ≈ half red, half blue", mid)
	}
}

func TestLineSteep(t *testing.T) {
	r, color, _ := newTestRenderer(16, 16)
	r.DrawLine(vtx(0.01, -1, 0, red), red, vtx(0.2, 0.99, 0, red), red)
	// y-major: one pixel per row.
	for y := 0; y < 16; y++ {
		row := 0
		for x := 0; x < 16; x++ {
			if color.Pixel(x, y)[3] != 0 {
				row++
			}
		}
		if row != 1 {
			t.Errorf("row %d has %d pixels, want 1", y, row)
		}
	}
}

func TestLineDepthTest(t *testing.T) {
	r, color, _ := newTestRenderer(16, 16)
	r.SetFlag(DepthTest, true)
	r.SetFlag(DepthWrite, true)
	a, b, c := coverTriangle(-0.5, green)
	r.DrawTriangle(a, b, c)

	r.DrawLine(vtx(-1, 0.01, 0.5, red), red, vtx(1, 0.01, 0.5, red), red)
	if got := color.Pixel(8, 8); got != green {
		t.Errorf("line behind triangle overwrote pixel: %v", got)
	}
}

func TestWireframe(t *testing.T) {
	r, color, _ := newTestRenderer(64, 64)
	r.SetFlag(Wireframe, true)

	v0 := vtx(-0.8, -0.8, 0, red)
	v1 := vtx(-0.8, 0.8, 0, red)
	v2 := vtx(0.8, -0.8, 0, red)
	r.DrawTriangle(v0, v1, v2)

	// Window-space corners.
	p := [3][2]float64{{6.4, 6.4}, {6.4, 57.6}, {57.6, 6.4}}
	drawn := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if color.Pixel(x, y)[3] == 0 {
				continue
			}
			drawn++
			cx, cy := float64(x)+0.5, float64(y)+0.5
			d := math.Min(segDist(cx, cy, p[0], p[1]), math.Min(segDist(cx, cy, p[1], p[2]), segDist(cx, cy, p[2], p[0])))
			if d > 1.5 {
				t.Errorf("pixel (%d,%d) is %.2f px from every edge", x, y, d)
			}
		}
	}
	if drawn == 0 {
		t.Fatal("wireframe drew nothing")
	}
	if got := color.Pixel(23, 23); got[3] != 0 {
		t.Errorf("interior pixel drawn in wireframe mode: %v", got)
	}
	if st := r.Stats(); st.Lines != 3 {
		t.Errorf("Stats().Lines = %d, want 3", st.Lines)
	}
}

func segDist(px, py float64, a, b [2]float64) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	k := ((px-a[0])*dx + (py-a[1])*dy) / (dx*dx + dy*dy)
	k = mathutil.Clamp(k, 0, 1)
	return math.Hypot(px-(a[0]+k*dx), py-(a[1]+k*dy))
}

func TestWireframeRunsVertexStageOncePerVertex(t *testing.T) {
	r, _, _ := newTestRenderer(16, 16)
	s := &recordingShader{Program: NewProgram()}
	r.SetShader(s)
	r.SetFlag(Wireframe, true)

	a, b, c := frontTriangle(0, red)
	r.DrawTriangle(a, b, c)

	if s.vertexCalls != 3 {
		t.Errorf("vertex stage ran %d times, want 3", s.vertexCalls)
	}
	if s.fragmentCalls != 0 {
		t.Errorf("fragment stage ran %d times in wireframe, want 0", s.fragmentCalls)
	}
}

func TestStageInvocationCounts(t *testing.T) {
	r, _, _ := newTestRenderer(32, 32)
	s := &recordingShader{Program: NewProgram()}
	r.SetShader(s)

	a, b, c := frontTriangle(0, red)
	d, e, f := frontTriangle(0.5, green)
	r.Render(Triangles, []Vertex{a, b, c, d, e, f})

	if s.vertexCalls != 6 {
		t.Errorf("vertex stage ran %d times, want 6", s.vertexCalls)
	}
	st := r.Stats()
	if st.FragmentCalls != s.fragmentCalls || st.FragmentCalls != st.PixelsWritten {
		t.Errorf("Stats() = %+v, shader saw %d fragments", st, s.fragmentCalls)
	}
}

func TestFragmentStageSkippedOnDepthFail(t *testing.T) {
	r, _, _ := newTestRenderer(16, 16)
	r.SetFlag(DepthTest, true)
	r.SetFlag(DepthWrite, true)
	a, b, c := coverTriangle(-0.5, green)
	r.DrawTriangle(a, b, c)

	s := &recordingShader{Program: NewProgram()}
	r.SetShader(s)
	a, b, c = coverTriangle(0.5, red)
	r.DrawTriangle(a, b, c)
	if s.fragmentCalls != 0 {
		t.Errorf("fragment stage ran %d times for hidden pixels", s.fragmentCalls)
	}
}

func TestRenderWithoutTarget(t *testing.T) {
	r := New()
	a, b, c := coverTriangle(0, red)
	r.Render(Triangles, []Vertex{a, b, c})
	r.RenderIndexed(Lines, []Vertex{a, b}, []uint32{0, 1})
	r.DrawLine(a, red, b, red)
	if st := r.Stats(); st != (Stats{}) {
		t.Errorf("Stats() = %+v after drawing without target, want zero", st)
	}
}

func TestPrimitiveAssembly(t *testing.T) {
	tests := []struct {
		kind      Primitive
		n         int
		wantLines int
		wantTris  [][3]int
	}{
		{Lines, 5, 2, nil},
		{LineStrip, 4, 3, nil},
		{LineStrip, 1, 0, nil},
		{Triangles, 8, 0, [][3]int{{0, 1, 2}, {3, 4, 5}}},
		{TriangleStrip, 5, 0, [][3]int{{0, 1, 2}, {2, 1, 3}, {2, 3, 4}}},
		{TriangleStrip, 2, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			lines := 0
			var tris [][3]int
			assemble(tt.kind, tt.n,
				func(a, b int) { lines++ },
				func(a, b, c int) { tris = append(tris, [3]int{a, b, c}) })
			if lines != tt.wantLines {
				t.Errorf("lines = %d, want %d", lines, tt.wantLines)
			}
			if len(tris) != len(tt.wantTris) {
				t.Fatalf("triangles = %v, want %v", tris, tt.wantTris)
			}
			for i := range tris {
				if tris[i] != tt.wantTris[i] {
					t.Errorf("triangle %d = %v, want %v", i, tris[i], tt.wantTris[i])
				}
			}
		})
	}
}

func TestTriangleStripKeepsWinding(t *testing.T) {
	r, color, _ := newTestRenderer(16, 16)
	strip := []Vertex{
		vtx(-1, -1, 0, red),
		vtx(-1, 1, 0, red),
		vtx(1, -1, 0, red),
		vtx(1, 1, 0, red),
	}
	r.Render(TriangleStrip, strip)

	st := r.Stats()
	if st.Triangles != 2 || st.Culled != 0 {
		t.Errorf("Stats() = %+v, want 2 triangles, none culled", st)
	}
	if n := countDrawn(color); n != 256 {
		t.Errorf("strip covered %d pixels, want 256", n)
	}
}

func TestRenderIndexed(t *testing.T) {
	r, color, _ := newTestRenderer(16, 16)
	verts := []Vertex{
		vtx(-1, -1, 0, red),
		vtx(-1, 1, 0, red),
		vtx(1, -1, 0, red),
		vtx(1, 1, 0, red),
	}
	r.RenderIndexed(Triangles, verts, []uint32{0, 1, 2, 2, 1, 3, 0, 1, 9})

	st := r.Stats()
	if st.Triangles != 2 {
		t.Errorf("Stats().Triangles = %d, want 2 (out-of-range triangle dropped)", st.Triangles)
	}
	if n := countDrawn(color); n != 256 {
		t.Errorf("indexed quad covered %d pixels, want 256", n)
	}
}

func TestRenderLineKinds(t *testing.T) {
	r, _, _ := newTestRenderer(16, 16)
	v := []Vertex{vtx(-1, -1, 0, red), vtx(1, 1, 0, red), vtx(1, -1, 0, red)}

	r.Render(Lines, v)
	if got := r.Stats().Lines; got != 1 {
		t.Errorf("Lines: drew %d lines, want 1", got)
	}
	r.ResetStats()
	r.Render(LineStrip, v)
	if got := r.Stats().Lines; got != 2 {
		t.Errorf("LineStrip: drew %d lines, want 2", got)
	}
}

func TestViewport(t *testing.T) {
	r := New()
	vp := Viewport{X: 10, Y: 20, Width: 100, Height: 50}
	r.SetViewport(vp)
	updates := r.vpUpdates
	r.SetViewport(vp)
	if r.vpUpdates != updates {
		t.Error("SetViewport recomputed matrices for an unchanged rectangle")
	}
	if r.Viewport() != vp {
		t.Errorf("Viewport() = %+v, want %+v", r.Viewport(), vp)
	}

	m := r.ViewportMatrix()
	lo := m.MulVec4(mathutil.Vec4{-1, -1, -1, 1})
	hi := m.MulVec4(mathutil.Vec4{1, 1, 1, 1})
	if lo != (mathutil.Vec4{10, 20, 0, 1}) || hi != (mathutil.Vec4{110, 70, 1, 1}) {
		t.Errorf("viewport maps NDC corners to %v and %v", lo, hi)
	}

	o := r.OrthoMatrix()
	c := o.MulVec4(mathutil.Vec4{100, 50, 1, 1})
	if !near(c[0], 1, 1e-12) || !near(c[1], 1, 1e-12) || !near(c[2], 1, 1e-12) {
		t.Errorf("ortho maps (w,h,1) to %v, want (1,1,1)", c)
	}
}

func TestFlags(t *testing.T) {
	r := New()
	all := []Flag{DepthTest, DepthWrite, AlphaBlend, PerspectiveCorrect, Wireframe}
	for _, f := range all {
		if r.Flag(f) {
			t.Errorf("%v set on a new renderer", f)
		}
	}
	r.SetFlag(AlphaBlend, true)
	r.SetFlag(Wireframe, true)
	r.SetFlag(Wireframe, false)
	if !r.Flag(AlphaBlend) || r.Flag(Wireframe) || r.Flag(DepthTest) {
		t.Errorf("flags after updates: blend=%v wire=%v depth=%v",
			r.Flag(AlphaBlend), r.Flag(Wireframe), r.Flag(DepthTest))
	}
}

func TestActiveTextureDefaultFragment(t *testing.T) {
	r, color, _ := newTestRenderer(8, 8)
	tex := canvas.New(2, 2, canvas.FormatRGBA8)
	tex.Clear(blue)

	r.SetActiveTexture(0, tex)
	r.SetActiveTexture(7, tex)
	if r.ActiveTexture(0) == nil || r.ActiveTexture(7) != nil || r.ActiveTexture(-1) != nil {
		t.Fatal("texture slot bookkeeping is wrong")
	}

	a, b, c := coverTriangle(0, red)
	r.DrawTriangle(a, b, c)
	if got := color.Pixel(4, 4); got != blue {
		t.Errorf("textured pixel = %v, want texture color %v", got, blue)
	}

	var none *canvas.Canvas
	r.SetActiveTexture(0, none)
	if r.ActiveTexture(0) != nil {
		t.Error("typed nil canvas did not unbind the slot")
	}
	r.DrawTriangle(a, b, c)
	if got := color.Pixel(4, 4); got != red {
		t.Errorf("untextured pixel = %v, want vertex color %v", got, red)
	}
}

func TestShaderUniformUserData(t *testing.T) {
	r, _, _ := newTestRenderer(8, 8)
	var seen []any
	s := &userDataShader{Program: NewProgram(), seen: &seen}
	r.SetShader(s)
	r.SetShaderUniform("blob")

	a, b, c := frontTriangle(0, red)
	r.DrawTriangle(a, b, c)
	if len(seen) == 0 {
		t.Fatal("stages never ran")
	}
	for _, v := range seen {
		if v != "blob" {
			t.Fatalf("UserData = %v, want blob", v)
		}
	}
}

type userDataShader struct {
	*Program
	seen *[]any
}

func (s *userDataShader) VertexStage(v *VertexOutput) {
	*s.seen = append(*s.seen, v.UserData)
}

func (s *userDataShader) FragmentStage(p *PixelOutput) mathutil.Vec4 {
	*s.seen = append(*s.seen, p.UserData)
	return p.Color
}

func TestSetRenderTargetNil(t *testing.T) {
	r, _, _ := newTestRenderer(8, 8)
	r.SetRenderTarget(nil)
	a, b, c := coverTriangle(0, red)
	r.DrawTriangle(a, b, c)
	if st := r.Stats(); st.Triangles != 0 {
		t.Errorf("drew %d triangles with no target", st.Triangles)
	}
}

func TestSetShaderWithoutProgram(t *testing.T) {
	tests := []struct {
		name   string
		shader Shader
	}{
		{"nil program", (*Program)(nil)},
		{"embedded nil program", &recordingShader{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, color, _ := newTestRenderer(8, 8)
			r.SetShader(tt.shader)
			if r.Shader() != nil {
				t.Fatalf("Shader() = %v, want nil", r.Shader())
			}
			a, b, c := coverTriangle(0, red)
			r.DrawTriangle(a, b, c)
			if got := color.Pixel(4, 4); got != red {
				t.Errorf("pixel = %v, want vertex color", got)
			}
		})
	}
}

func BenchmarkFillTriangle(b *testing.B) {
	r, _, _ := newTestRenderer(256, 256)
	r.SetFlag(DepthTest, true)
	r.SetFlag(DepthWrite, true)
	v0, v1, v2 := coverTriangle(0, red)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.DrawTriangle(v0, v1, v2)
	}
}
