// Package shaders provides ready-made effects for the raster pipeline. Each
// effect embeds *raster.Program and keeps its parameters in uniforms, so a
// caller can also drive them through SetUniform by name.
package shaders

import (
	"errors"
	"fmt"
	"sort"

	"softraster/internal/mathutil"
	"softraster/internal/raster"
)

// ErrUnknown is returned by New for an unregistered effect name.
var ErrUnknown = errors.New("unknown shader")

// Transforms is the matrix set an effect needs for one object.
type Transforms struct {
	Model      mathutil.Mat4
	View       mathutil.Mat4
	Projection mathutil.Mat4
	Eye        mathutil.Vec3 // camera position, world space
}

// IdentityTransforms draws positions as given, in NDC.
func IdentityTransforms() Transforms {
	id := mathutil.Mat4Identity()
	return Transforms{Model: id, View: id, Projection: id, Eye: mathutil.Vec3{0, 0, 1}}
}

// MVP returns Projection × View × Model.
func (t Transforms) MVP() mathutil.Mat4 {
	return mathutil.Mat4Chain(t.Projection, t.View, t.Model)
}

// Effect is a shader with camera and lighting hooks.
type Effect interface {
	raster.Shader
	SetTransforms(t Transforms)
	SetLight(l Light)
	SetBilinear(on bool)
}

var registry = map[string]func() Effect{
	"basic":   func() Effect { return NewBasic() },
	"phong":   func() Effect { return NewPhong() },
	"gouraud": func() Effect { return NewGouraud() },
	"depth":   func() Effect { return NewDepth() },
}

// Names lists the registered effect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New returns a fresh effect by name.
func New(name string) (Effect, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("shaders: %w: %q", ErrUnknown, name)
	}
	return ctor(), nil
}

// base carries the uniforms every effect shares.
type base struct {
	*raster.Program
	mvp       raster.Slot
	model     raster.Slot
	normalMat raster.Slot
	eyePos    raster.Slot
	tint      raster.Slot
	bilinear  raster.Slot
}

func newBase() base {
	p := raster.NewProgram()
	b := base{
		Program:   p,
		mvp:       p.AddUniform("mvp", raster.TypeMat4),
		model:     p.AddUniform("model", raster.TypeMat4),
		normalMat: p.AddUniform("normalMatrix", raster.TypeMat3),
		eyePos:    p.AddUniform("eyePos", raster.TypeVec3),
		tint:      p.AddUniform("tint", raster.TypeVec4),
		bilinear:  p.AddUniform("bilinear", raster.TypeBool),
	}
	b.SetTransforms(IdentityTransforms())
	b.SetUniform(b.tint, raster.Vec4Value(mathutil.Vec4{1, 1, 1, 1}))
	return b
}

func (b *base) SetTransforms(t Transforms) {
	b.SetUniform(b.mvp, raster.Mat4Value(t.MVP()))
	b.SetUniform(b.model, raster.Mat4Value(t.Model))
	b.SetUniform(b.normalMat, raster.Mat3Value(mathutil.NormalMatrix(t.Model)))
	b.SetUniform(b.eyePos, raster.Vec3Value(t.Eye))
}

// SetTint multiplies every output color by c.
func (b *base) SetTint(c mathutil.Vec4) {
	b.SetUniform(b.tint, raster.Vec4Value(c))
}

// SetBilinear switches texture 0 between nearest and bilinear filtering.
func (b *base) SetBilinear(on bool) {
	b.SetUniform(b.bilinear, raster.BoolValue(on))
}

// SetLight is a no-op for unlit effects.
func (b *base) SetLight(Light) {}

// transform projects v and fills the world-space eye vector and normal.
func (b *base) transform(v *raster.VertexOutput) {
	u := v.Uniforms
	world := u.Mat4(b.model).MulVec4(v.Position)
	n := u.Mat3(b.normalMat).MulVec3(v.Normal.Vec3())
	v.Normal = n.Vec4(0)
	v.Eye = u.Vec3(b.eyePos).Sub(world.Vec3())
	v.Position = u.Mat4(b.mvp).MulVec4(v.Position)
}

type bilinearSampler interface {
	SampleBilinear(uv mathutil.Vec2) mathutil.Vec4
}

// albedo is the vertex color modulated by texture 0 and the tint.
func (b *base) albedo(p *raster.PixelOutput) mathutil.Vec4 {
	c := p.Color
	if tex := p.Textures[0]; tex != nil {
		var texel mathutil.Vec4
		if bs, ok := tex.(bilinearSampler); ok && p.Uniforms.Bool(b.bilinear) {
			texel = bs.SampleBilinear(p.UV)
		} else {
			texel = tex.Sample2D(p.UV)
		}
		c = c.Mul(texel)
	}
	return c.Mul(p.Uniforms.Vec4(b.tint))
}

// lit adds the light uniforms to base.
type lit struct {
	base
	lightDir  raster.Slot
	rimDir    raster.Slot
	ambient   raster.Slot
	hemi      raster.Slot
	diffuse   raster.Slot
	rim       raster.Slot
	specular  raster.Slot
	shininess raster.Slot
	exposure  raster.Slot
}

func newLit() lit {
	l := lit{base: newBase()}
	p := l.Program
	l.lightDir = p.AddUniform("lightDir", raster.TypeVec3)
	l.rimDir = p.AddUniform("rimDir", raster.TypeVec3)
	l.ambient = p.AddUniform("ambient", raster.TypeFloat)
	l.hemi = p.AddUniform("hemi", raster.TypeFloat)
	l.diffuse = p.AddUniform("diffuse", raster.TypeFloat)
	l.rim = p.AddUniform("rim", raster.TypeFloat)
	l.specular = p.AddUniform("specular", raster.TypeFloat)
	l.shininess = p.AddUniform("shininess", raster.TypeFloat)
	l.exposure = p.AddUniform("exposure", raster.TypeFloat)
	l.SetLight(DefaultLight())
	return l
}

func (l *lit) SetLight(lt Light) {
	l.SetUniform(l.lightDir, raster.Vec3Value(lt.Dir.Normalize()))
	l.SetUniform(l.rimDir, raster.Vec3Value(lt.RimDir.Normalize()))
	l.SetUniform(l.ambient, raster.FloatValue(lt.Ambient))
	l.SetUniform(l.hemi, raster.FloatValue(lt.Hemi))
	l.SetUniform(l.diffuse, raster.FloatValue(lt.Diffuse))
	l.SetUniform(l.rim, raster.FloatValue(lt.Rim))
	l.SetUniform(l.specular, raster.FloatValue(lt.Specular))
	l.SetUniform(l.shininess, raster.FloatValue(lt.Shininess))
	l.SetUniform(l.exposure, raster.FloatValue(lt.Exposure))
}

// light reads the current light back from the uniform table.
func (l *lit) light(u *raster.UniformSet) Light {
	return Light{
		Dir:       u.Vec3(l.lightDir),
		RimDir:    u.Vec3(l.rimDir),
		Ambient:   u.Float(l.ambient),
		Hemi:      u.Float(l.hemi),
		Diffuse:   u.Float(l.diffuse),
		Rim:       u.Float(l.rim),
		Specular:  u.Float(l.specular),
		Shininess: u.Float(l.shininess),
		Exposure:  u.Float(l.exposure),
	}
}
