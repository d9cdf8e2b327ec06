package shaders

import (
	"softraster/internal/mathutil"
	"softraster/internal/raster"
)

// Basic transforms by the MVP matrix and outputs the vertex color modulated
// by texture 0 and the tint. No lighting.
type Basic struct {
	base
}

func NewBasic() *Basic {
	return &Basic{base: newBase()}
}

func (s *Basic) VertexStage(v *raster.VertexOutput) {
	s.transform(v)
}

func (s *Basic) FragmentStage(p *raster.PixelOutput) mathutil.Vec4 {
	return s.albedo(p)
}
