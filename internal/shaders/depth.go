package shaders

import (
	"softraster/internal/mathutil"
	"softraster/internal/raster"
)

// Depth writes the stored depth value as gray: near surfaces are bright,
// the far plane is black.
type Depth struct {
	base
}

func NewDepth() *Depth {
	return &Depth{base: newBase()}
}

func (s *Depth) VertexStage(v *raster.VertexOutput) {
	s.transform(v)
}

func (s *Depth) FragmentStage(p *raster.PixelOutput) mathutil.Vec4 {
	d := p.Depth
	return mathutil.Vec4{d, d, d, 1}
}
