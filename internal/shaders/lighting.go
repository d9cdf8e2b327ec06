package shaders

import (
	"math"

	"softraster/internal/mathutil"
)

// Light holds the lighting parameters shared by the lit effects. Directions
// point from the surface toward the light, in world space.
type Light struct {
	Dir       mathutil.Vec3
	RimDir    mathutil.Vec3
	Ambient   float64
	Hemi      float64
	Diffuse   float64
	Rim       float64
	Specular  float64
	Shininess float64
	Exposure  float64
}

// DefaultLight returns a warm key light from the upper right with a cool
// rim from behind.
func DefaultLight() Light {
	return Light{
		Dir:       mathutil.Vec3{180, 260, 140}.Normalize(),
		RimDir:    mathutil.Vec3{-160, 130, -210}.Normalize(),
		Ambient:   0.25,
		Hemi:      0.30,
		Diffuse:   1.10,
		Rim:       0.35,
		Specular:  0.45,
		Shininess: 12.0,
		Exposure:  1.05,
	}
}

// Shade returns the combined lighting scalar for a unit normal n seen along
// the unit direction v (surface to eye).
func (l *Light) Shade(n, v mathutil.Vec3) float64 {
	ndl := math.Max(n.Dot(l.Dir), 0)
	ndr := math.Max(n.Dot(l.RimDir), 0)

	// Hemisphere fill
	hemi := (n[1]*0.5 + 0.5) * l.Hemi

	// Blinn-Phong specular
	var spec float64
	if ndl > 0 && l.Specular > 0 {
		h := l.Dir.Add(v).Normalize()
		spec = math.Pow(math.Max(n.Dot(h), 0), l.Shininess) * l.Specular
	}

	return l.Ambient + hemi + ndl*l.Diffuse + ndr*l.Rim + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

const invGamma = 1.0 / 2.2

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// toneMap lights an sRGB color: linearize, scale by shade·exposure,
// tonemap and re-encode. Alpha is kept.
func toneMap(c mathutil.Vec4, shade, exposure float64) mathutil.Vec4 {
	k := shade * exposure
	out := c
	for i := 0; i < 3; i++ {
		lin := srgbToLinear[int(mathutil.Clamp(c[i], 0, 1)*255+0.5)] * k
		out[i] = math.Pow(mathutil.Clamp(ACESTonemap(lin), 0, 1), invGamma)
	}
	return out
}
