package mesh

import (
	"math"

	"softraster/internal/mathutil"
	"softraster/internal/raster"
)

var white = mathutil.Vec4{1, 1, 1, 1}

// Quad is a square of side size in the XY plane facing +Z.
func Quad(size float64) *Mesh {
	m := &Mesh{Name: "quad"}
	addFace(m, mathutil.Vec3{0, 0, 0}, mathutil.Vec3{0, 0, 1},
		mathutil.Vec3{size / 2, 0, 0}, mathutil.Vec3{0, size / 2, 0})
	return m
}

// Cube is an axis-aligned cube of edge size centered on the origin, with
// flat normals and a full [0,1]² texture on every face.
func Cube(size float64) *Mesh {
	h := size / 2
	m := &Mesh{Name: "cube"}
	faces := []struct{ n, u, v mathutil.Vec3 }{
		{mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 0, -1}, mathutil.Vec3{0, 1, 0}},
		{mathutil.Vec3{-1, 0, 0}, mathutil.Vec3{0, 0, 1}, mathutil.Vec3{0, 1, 0}},
		{mathutil.Vec3{0, 1, 0}, mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 0, -1}},
		{mathutil.Vec3{0, -1, 0}, mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 0, 1}},
		{mathutil.Vec3{0, 0, 1}, mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 1, 0}},
		{mathutil.Vec3{0, 0, -1}, mathutil.Vec3{-1, 0, 0}, mathutil.Vec3{0, 1, 0}},
	}
	for _, f := range faces {
		addFace(m, f.n.Scale(h), f.n, f.u.Scale(h), f.v.Scale(h))
	}
	return m
}

// addFace appends a quad centered at c spanning ±u and ±v. u × v must point
// along n for the face to be front-facing from outside.
func addFace(m *Mesh, c, n, u, v mathutil.Vec3) {
	base := uint32(len(m.Vertices))
	corners := [4]struct {
		su, sv float64
	}{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, k := range corners {
		m.Vertices = append(m.Vertices, raster.Vertex{
			Position: c.Add(u.Scale(k.su)).Add(v.Scale(k.sv)),
			Normal:   n,
			UV:       mathutil.Vec2{(k.su + 1) / 2, (1 - k.sv) / 2},
			Color:    white,
		})
	}
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}

// Grid is an n×n cell plane of side size in XZ facing +Y.
func Grid(n int, size float64) *Mesh {
	if n < 1 {
		n = 1
	}
	m := &Mesh{Name: "grid"}
	step := size / float64(n)
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			m.Vertices = append(m.Vertices, raster.Vertex{
				Position: mathutil.Vec3{-size/2 + float64(i)*step, 0, -size/2 + float64(j)*step},
				Normal:   mathutil.Vec3{0, 1, 0},
				UV:       mathutil.Vec2{float64(i) / float64(n), float64(j) / float64(n)},
				Color:    white,
			})
		}
	}
	row := uint32(n + 1)
	for j := uint32(0); j < uint32(n); j++ {
		for i := uint32(0); i < uint32(n); i++ {
			i00 := j*row + i
			i10 := i00 + 1
			i01 := i00 + row
			i11 := i01 + 1
			m.Indices = append(m.Indices, i00, i01, i10, i10, i01, i11)
		}
	}
	return m
}

// UVSphere is a latitude/longitude sphere. rings counts latitude bands and
// segments longitude bands; the seam column is duplicated for texturing.
func UVSphere(radius float64, rings, segments int) *Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)
	m := &Mesh{Name: "sphere"}
	for i := 0; i <= rings; i++ {
		theta := math.Pi * float64(i) / float64(rings)
		st, ct := math.Sincos(theta)
		for j := 0; j <= segments; j++ {
			phi := 2 * math.Pi * float64(j) / float64(segments)
			sp, cp := math.Sincos(phi)
			n := mathutil.Vec3{st * sp, ct, st * cp}
			m.Vertices = append(m.Vertices, raster.Vertex{
				Position: n.Scale(radius),
				Normal:   n,
				UV:       mathutil.Vec2{float64(j) / float64(segments), float64(i) / float64(rings)},
				Color:    white,
			})
		}
	}
	row := uint32(segments + 1)
	for i := uint32(0); i < uint32(rings); i++ {
		for j := uint32(0); j < uint32(segments); j++ {
			a := i*row + j
			b := a + row
			c := b + 1
			d := a + 1
			// The pole rows produce zero-area triangles, which the
			// rasterizer culls.
			m.Indices = append(m.Indices, a, b, c, a, c, d)
		}
	}
	return m
}
