package raster

import "softraster/internal/mathutil"

// MaxTextures is the number of texture units.
const MaxTextures = 4

// Texture is a sampled image bound to a texture unit. *canvas.Canvas
// implements it.
type Texture interface {
	Size() (w, h int)
	Sample2D(uv mathutil.Vec2) mathutil.Vec4
	HasAlpha() bool
}

// Vertex is the input to a draw call. Color channels are in [0, 1].
type Vertex struct {
	Position mathutil.Vec3
	Normal   mathutil.Vec3
	UV       mathutil.Vec2
	Color    mathutil.Vec4
}

// VertexOutput is the per-vertex working value. The renderer fills it from
// the Vertex (Position w=1, Normal w=0) before calling the vertex stage.
type VertexOutput struct {
	Position mathutil.Vec4
	Normal   mathutil.Vec4
	UV       mathutil.Vec2
	Color    mathutil.Vec4
	Eye      mathutil.Vec3
	LightDir mathutil.Vec3

	// Index is the vertex's position within its primitive (0..2).
	Index int

	// Uniforms is the bound program's uniform table, nil without a shader.
	Uniforms *UniformSet

	// Varyings holds one value per registered varying, pre-filled with the
	// zero value of each registered type.
	Varyings []Value

	// UserData is the blob passed to Renderer.SetShaderUniform.
	UserData any
}

// SetVarying stores v for this vertex. Unknown slots are ignored.
func (v *VertexOutput) SetVarying(slot Slot, val Value) {
	if slot < 0 || int(slot) >= len(v.Varyings) {
		return
	}
	v.Varyings[slot] = val
}

// PixelOutput is the per-pixel working value handed to the fragment stage.
// Varyings is scratch space reused across pixels of a draw call and must not
// be retained.
type PixelOutput struct {
	Textures [MaxTextures]Texture

	Normal   mathutil.Vec4
	UV       mathutil.Vec2
	Color    mathutil.Vec4
	Eye      mathutil.Vec3
	LightDir mathutil.Vec3

	// X, Y are the pixel coordinates and Depth the value that will be
	// written to the depth buffer.
	X, Y  int
	Depth float64

	// Bary holds the barycentric weights of the pixel center.
	Bary mathutil.Vec3

	Uniforms *UniformSet
	Varyings []Value
	UserData any
}

// Varying returns the interpolated value of a varying slot.
func (p *PixelOutput) Varying(slot Slot) Value {
	if slot < 0 || int(slot) >= len(p.Varyings) {
		return Value{}
	}
	return p.Varyings[slot]
}
