package shaders

import (
	"softraster/internal/mathutil"
	"softraster/internal/raster"
)

// Phong lights every pixel with the interpolated normal: Blinn-Phong key
// light, rim, hemisphere fill, then ACES tone mapping.
type Phong struct {
	lit
}

func NewPhong() *Phong {
	return &Phong{lit: newLit()}
}

func (s *Phong) VertexStage(v *raster.VertexOutput) {
	s.transform(v)
	v.LightDir = v.Uniforms.Vec3(s.lightDir)
}

func (s *Phong) FragmentStage(p *raster.PixelOutput) mathutil.Vec4 {
	lt := s.light(p.Uniforms)
	lt.Dir = p.LightDir.Normalize()
	n := p.Normal.Vec3().Normalize()
	v := p.Eye.Normalize()
	return toneMap(s.albedo(p), lt.Shade(n, v), lt.Exposure)
}
