package shaders

import (
	"softraster/internal/mathutil"
	"softraster/internal/raster"
)

// Gouraud lights each vertex and interpolates the resulting shade through
// a varying.
type Gouraud struct {
	lit
	shade raster.Slot
}

func NewGouraud() *Gouraud {
	s := &Gouraud{lit: newLit()}
	s.shade = s.AddVarying("shade", raster.TypeFloat)
	return s
}

func (s *Gouraud) VertexStage(v *raster.VertexOutput) {
	s.transform(v)
	lt := s.light(v.Uniforms)
	shade := lt.Shade(v.Normal.Vec3().Normalize(), v.Eye.Normalize())
	v.SetVarying(s.shade, raster.FloatValue(shade))
}

func (s *Gouraud) FragmentStage(p *raster.PixelOutput) mathutil.Vec4 {
	shade, _ := p.Varying(s.shade).Float()
	return toneMap(s.albedo(p), shade, p.Uniforms.Float(s.exposure))
}
