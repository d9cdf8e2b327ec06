// Package raster implements a CPU rendering pipeline: vertex stage,
// perspective divide, viewport mapping, edge-function rasterization of lines
// and triangles, perspective-correct interpolation, depth testing and alpha
// blending.
//
// A Renderer is single-threaded. Render targets, textures and shaders are
// borrowed from the caller and are not copied.
package raster

import (
	"softraster/internal/canvas"
	"softraster/internal/mathutil"
)

// Flag is a persistent render switch.
type Flag uint8

const (
	DepthTest Flag = 1 << iota
	DepthWrite
	AlphaBlend
	PerspectiveCorrect
	Wireframe
)

func (f Flag) String() string {
	switch f {
	case DepthTest:
		return "depth-test"
	case DepthWrite:
		return "depth-write"
	case AlphaBlend:
		return "alpha-blend"
	case PerspectiveCorrect:
		return "perspective-correct"
	case Wireframe:
		return "wireframe"
	}
	return "flags"
}

// Viewport is the window rectangle NDC is mapped into.
type Viewport struct {
	X, Y, Width, Height int
}

// Stats counts pipeline work since the last ResetStats.
type Stats struct {
	Triangles     int // triangles submitted
	Culled        int // back-facing, degenerate or w=0 triangles
	Lines         int
	VertexCalls   int // vertex stage invocations
	FragmentCalls int // fragment stage invocations
	PixelsWritten int
	DepthRejected int
}

// Renderer owns the pipeline state: bound target, viewport, flags, texture
// units and shader. The zero value is not usable; call New.
type Renderer struct {
	target *RenderTarget
	color  *canvas.Canvas
	depth  *canvas.Canvas

	viewport    Viewport
	viewportMat mathutil.Mat4
	orthoMat    mathutil.Mat4
	vpUpdates   int

	flags    Flag
	textures [MaxTextures]Texture
	shader   Shader
	userData any

	stats Stats
}

// New returns a renderer with no target, an empty viewport and all flags off.
func New() *Renderer {
	r := &Renderer{}
	r.updateViewport(Viewport{})
	return r
}

// SetRenderTarget binds the buffers subsequent draws write into. Pass nil to
// unbind; draws are then no-ops.
func (r *Renderer) SetRenderTarget(t *RenderTarget) {
	r.target = t
	r.color = t.Attachment(ColorAttachment0)
	r.depth = t.Attachment(DepthAttachment)
	if t != nil && !t.sizesMatch() {
		cw, ch := r.color.Size()
		dw, dh := r.depth.Size()
		Logger().Warn("render target attachment sizes differ",
			"color", [2]int{cw, ch}, "depth", [2]int{dw, dh})
	}
}

// RenderTarget returns the bound target.
func (r *Renderer) RenderTarget() *RenderTarget { return r.target }

// SetViewport maps NDC [-1,1]² onto vp. Unchanged rectangles are ignored.
func (r *Renderer) SetViewport(vp Viewport) {
	if vp == r.viewport {
		return
	}
	r.updateViewport(vp)
}

func (r *Renderer) updateViewport(vp Viewport) {
	r.viewport = vp
	w, h := float64(vp.Width), float64(vp.Height)
	r.viewportMat = mathutil.Mat4{
		w / 2, 0, 0, float64(vp.X) + w/2,
		0, h / 2, 0, float64(vp.Y) + h/2,
		0, 0, 0.5, 0.5,
		0, 0, 0, 1,
	}
	if vp.Width > 0 && vp.Height > 0 {
		r.orthoMat = mathutil.Ortho(0, w, 0, h, 0, 1)
	} else {
		r.orthoMat = mathutil.Mat4Identity()
	}
	r.vpUpdates++
}

func (r *Renderer) Viewport() Viewport { return r.viewport }

// ViewportMatrix maps NDC to window coordinates, z into [0, 1].
func (r *Renderer) ViewportMatrix() mathutil.Mat4 { return r.viewportMat }

// OrthoMatrix projects [0,w]×[0,h]×[0,1] onto NDC, for drawing in pixel units.
func (r *Renderer) OrthoMatrix() mathutil.Mat4 { return r.orthoMat }

// SetFlag switches f on or off until changed again.
func (r *Renderer) SetFlag(f Flag, on bool) {
	if on {
		r.flags |= f
	} else {
		r.flags &^= f
	}
}

// Flag reports whether f is set.
func (r *Renderer) Flag(f Flag) bool { return r.flags&f == f }

// SetActiveTexture binds tex to a texture unit (0..3). nil unbinds.
func (r *Renderer) SetActiveTexture(slot int, tex Texture) {
	if slot < 0 || slot >= MaxTextures {
		Logger().Debug("texture slot out of range", "slot", slot)
		return
	}
	if c, ok := tex.(*canvas.Canvas); ok && c == nil {
		tex = nil
	}
	r.textures[slot] = tex
}

// ActiveTexture returns the texture bound to slot, or nil.
func (r *Renderer) ActiveTexture(slot int) Texture {
	if slot < 0 || slot >= MaxTextures {
		return nil
	}
	return r.textures[slot]
}

// SetShader binds s. nil restores the fixed behavior: positions pass through
// and pixels take texture 0 or the vertex color. A shader without a program,
// such as a nil *Program, counts as nil.
func (r *Renderer) SetShader(s Shader) {
	if s != nil && s.ShaderProgram() == nil {
		Logger().Debug("shader has no program; using fixed behavior")
		s = nil
	}
	r.shader = s
}

func (r *Renderer) Shader() Shader { return r.shader }

// SetShaderUniform attaches an opaque value that both stages see as UserData.
func (r *Renderer) SetShaderUniform(data any) { r.userData = data }

func (r *Renderer) Stats() Stats { return r.stats }

func (r *Renderer) ResetStats() { r.stats = Stats{} }

// runVertexStage builds the working value for v and hands it to the shader.
func (r *Renderer) runVertexStage(v *Vertex, index int) VertexOutput {
	out := VertexOutput{
		Position: v.Position.Vec4(1),
		Normal:   v.Normal.Vec4(0),
		UV:       v.UV,
		Color:    v.Color,
		Index:    index,
		UserData: r.userData,
	}
	if r.shader == nil {
		return out
	}
	prog := r.shader.ShaderProgram()
	out.Uniforms = &prog.uniforms
	if n := prog.varyings.Len(); n > 0 {
		out.Varyings = make([]Value, n)
		for i := range out.Varyings {
			out.Varyings[i] = ZeroValue(prog.varyings.vars[i].Type())
		}
	}
	r.shader.VertexStage(&out)
	r.stats.VertexCalls++
	return out
}

// toWindow performs the perspective divide and viewport transform. It fails
// when w is zero or not a number.
func (r *Renderer) toWindow(pos mathutil.Vec4) (mathutil.Vec3, bool) {
	w := pos[3]
	if w == 0 || w != w {
		return mathutil.Vec3{}, false
	}
	ndc := pos.Scale(1 / w)
	return r.viewportMat.MulVec4(ndc).Vec3(), true
}

// depthPass applies the depth range check and, when enabled, the depth test.
// Stored depth is 1 - z_window, so larger values are nearer and a cleared
// (zero) buffer is infinitely far.
func (r *Renderer) depthPass(x, y int, d float64) bool {
	if !(d >= 0 && d <= 1) {
		return false
	}
	if r.flags&DepthTest != 0 && r.depth != nil && d < r.depth.Depth(x, y) {
		r.stats.DepthRejected++
		return false
	}
	return true
}

// writePixel blends (when enabled) and stores col, then the depth.
func (r *Renderer) writePixel(x, y int, d float64, col mathutil.Vec4) {
	if r.flags&AlphaBlend != 0 {
		col = blend(col, r.color.Pixel(x, y))
	}
	r.color.SetPixel(x, y, col)
	if r.flags&DepthWrite != 0 && r.depth != nil {
		r.depth.SetDepth(x, y, d)
	}
	r.stats.PixelsWritten++
}

// blend computes src*a + dst*(1-a) on the color channels and source-over on
// alpha.
func blend(src, dst mathutil.Vec4) mathutil.Vec4 {
	a := mathutil.Clamp(src[3], 0, 1)
	inv := 1 - a
	return mathutil.Vec4{
		src[0]*a + dst[0]*inv,
		src[1]*a + dst[1]*inv,
		src[2]*a + dst[2]*inv,
		a + dst[3]*inv,
	}
}
