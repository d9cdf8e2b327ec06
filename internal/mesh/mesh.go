// Package mesh builds indexed triangle meshes for the raster pipeline:
// procedural primitives and Wavefront OBJ files.
//
// Front faces are wound counter-clockwise seen from outside, in a right-handed
// y-up frame.
package mesh

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"softraster/internal/mathutil"
	"softraster/internal/raster"
)

// ErrUnknownMesh is returned by ByName for names that are neither a built-in
// primitive nor an .obj path.
var ErrUnknownMesh = errors.New("unknown mesh")

// Mesh holds vertices and a triangle list indexing into them.
type Mesh struct {
	Name     string
	Vertices []raster.Vertex
	Indices  []uint32
}

// Triangles returns the number of triangles in the index list.
func (m *Mesh) Triangles() int { return len(m.Indices) / 3 }

// Draw submits the mesh as an indexed triangle list.
func (m *Mesh) Draw(r *raster.Renderer) {
	r.RenderIndexed(raster.Triangles, m.Vertices, m.Indices)
}

// SetColor paints every vertex with c.
func (m *Mesh) SetColor(c mathutil.Vec4) {
	for i := range m.Vertices {
		m.Vertices[i].Color = c
	}
}

// Bounds returns the axis-aligned bounding box of the vertex positions.
func (m *Mesh) Bounds() (lo, hi mathutil.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo = m.Vertices[0].Position
	hi = lo
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v.Position)
		hi = hi.Max(v.Position)
	}
	return lo, hi
}

// Normalize centers the mesh on the origin and scales it uniformly so the
// farthest vertex lies at distance radius.
func (m *Mesh) Normalize(radius float64) {
	lo, hi := m.Bounds()
	center := lo.Add(hi).Scale(0.5)

	var maxDist float64
	for _, v := range m.Vertices {
		maxDist = math.Max(maxDist, v.Position.Sub(center).Len())
	}
	if maxDist < 1e-12 {
		return
	}
	s := radius / maxDist
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Sub(center).Scale(s)
	}
}

// ComputeNormals replaces vertex normals with area-weighted face normal
// averages.
func (m *Mesh) ComputeNormals() {
	acc := make([]mathutil.Vec3, len(m.Vertices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if int(i0) >= len(acc) || int(i1) >= len(acc) || int(i2) >= len(acc) {
			continue
		}
		p0 := m.Vertices[i0].Position
		fn := m.Vertices[i1].Position.Sub(p0).Cross(m.Vertices[i2].Position.Sub(p0))
		acc[i0] = acc[i0].Add(fn)
		acc[i1] = acc[i1].Add(fn)
		acc[i2] = acc[i2].Add(fn)
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = acc[i].Normalize()
	}
}

// Names lists the built-in primitives accepted by ByName.
func Names() []string {
	return []string{"cube", "grid", "quad", "sphere"}
}

// ByName returns a built-in primitive sized to fit a unit sphere, or loads
// an .obj file and normalizes it to the same size.
func ByName(name string) (*Mesh, error) {
	switch name {
	case "cube":
		return Cube(1.1), nil
	case "grid":
		return Grid(8, 1.8), nil
	case "quad":
		return Quad(1.4), nil
	case "sphere":
		return UVSphere(1, 24, 48), nil
	}
	if strings.EqualFold(filepath.Ext(name), ".obj") {
		m, err := LoadOBJ(name)
		if err != nil {
			return nil, err
		}
		m.Normalize(1)
		return m, nil
	}
	return nil, fmt.Errorf("mesh: %w: %q", ErrUnknownMesh, name)
}
