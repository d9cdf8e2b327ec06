package raster

import "softraster/internal/mathutil"

// Slot indexes a registered uniform or varying.
type Slot int

// InvalidSlot is returned when a name is unknown or registered with a
// different type.
const InvalidSlot Slot = -1

// Valid reports whether s refers to a registered variable.
func (s Slot) Valid() bool { return s >= 0 }

// Variable is a named, typed shader value.
type Variable struct {
	Name  string
	Value Value
}

// Type returns the type recorded at registration.
func (v Variable) Type() Type { return v.Value.typ }

// UniformSet is a name-keyed table of typed variables addressed by slot.
// The zero value is empty and ready to use.
type UniformSet struct {
	vars  []Variable
	index map[string]Slot
}

func (s *UniformSet) add(name string, t Type) (Slot, bool) {
	if slot, ok := s.index[name]; ok {
		if s.vars[slot].Type() != t {
			return InvalidSlot, false
		}
		return slot, true
	}
	if t == TypeInvalid {
		return InvalidSlot, false
	}
	if s.index == nil {
		s.index = make(map[string]Slot)
	}
	slot := Slot(len(s.vars))
	s.vars = append(s.vars, Variable{Name: name, Value: ZeroValue(t)})
	s.index[name] = slot
	return slot, true
}

// Location returns the slot registered under name, or InvalidSlot.
func (s *UniformSet) Location(name string) Slot {
	if slot, ok := s.index[name]; ok {
		return slot
	}
	return InvalidSlot
}

// Len returns the number of registered variables.
func (s *UniformSet) Len() int { return len(s.vars) }

// Variable returns the variable at slot.
func (s *UniformSet) Variable(slot Slot) (Variable, bool) {
	if slot < 0 || int(slot) >= len(s.vars) {
		return Variable{}, false
	}
	return s.vars[slot], true
}

// Get returns the value at slot, or an invalid Value.
func (s *UniformSet) Get(slot Slot) Value {
	v, _ := s.Variable(slot)
	return v.Value
}

// Set stores v at slot. It fails when the slot is unknown or v's tag differs
// from the registered type.
func (s *UniformSet) Set(slot Slot, v Value) bool {
	if slot < 0 || int(slot) >= len(s.vars) || s.vars[slot].Type() != v.typ {
		return false
	}
	s.vars[slot].Value = v
	return true
}

// Float returns the float at slot, or 0 when the slot is unknown or holds
// another type. The other typed getters behave the same way.
func (s *UniformSet) Float(slot Slot) float64 {
	f, _ := s.Get(slot).Float()
	return f
}

// Int returns the int at slot, or 0.
func (s *UniformSet) Int(slot Slot) int {
	i, _ := s.Get(slot).Int()
	return i
}

// Bool returns the bool at slot, or false.
func (s *UniformSet) Bool(slot Slot) bool {
	b, _ := s.Get(slot).Bool()
	return b
}

// Vec2 returns the vec2 at slot, or zero.
func (s *UniformSet) Vec2(slot Slot) mathutil.Vec2 {
	v, _ := s.Get(slot).Vec2()
	return v
}

// Vec3 returns the vec3 at slot, or zero.
func (s *UniformSet) Vec3(slot Slot) mathutil.Vec3 {
	v, _ := s.Get(slot).Vec3()
	return v
}

// Vec4 returns the vec4 at slot, or zero.
func (s *UniformSet) Vec4(slot Slot) mathutil.Vec4 {
	v, _ := s.Get(slot).Vec4()
	return v
}

// Mat3 returns the mat3 at slot, or the zero matrix.
func (s *UniformSet) Mat3(slot Slot) mathutil.Mat3 {
	m, _ := s.Get(slot).Mat3()
	return m
}

// Mat4 returns the mat4 at slot, or the zero matrix.
func (s *UniformSet) Mat4(slot Slot) mathutil.Mat4 {
	m, _ := s.Get(slot).Mat4()
	return m
}

// Shader is the programmable part of the pipeline. VertexStage runs once per
// vertex before the perspective divide and must leave a homogeneous clip
// position in Position. FragmentStage runs once per covered pixel that passed
// the depth test and returns its color.
//
// Effects embed *Program, which supplies the default stages and the
// uniform/varying tables, and override the stages they need.
type Shader interface {
	VertexStage(v *VertexOutput)
	FragmentStage(p *PixelOutput) mathutil.Vec4
	ShaderProgram() *Program
}

// Program holds a shader's uniforms and varyings. It is also a complete
// Shader: the vertex stage passes positions through unchanged and the
// fragment stage samples texture 0 when bound, otherwise returns the
// interpolated vertex color.
type Program struct {
	uniforms UniformSet
	varyings UniformSet
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{}
}

// AddUniform registers a uniform, or returns the existing slot when name is
// already registered with the same type. A name registered with another type
// yields InvalidSlot.
func (p *Program) AddUniform(name string, t Type) Slot {
	slot, ok := p.uniforms.add(name, t)
	if !ok {
		Logger().Warn("uniform registration rejected", "name", name, "type", t)
	}
	return slot
}

// UniformLocation returns the slot of a registered uniform or InvalidSlot.
func (p *Program) UniformLocation(name string) Slot {
	return p.uniforms.Location(name)
}

// SetUniform stores v in a uniform slot; false on unknown slot or type mismatch.
func (p *Program) SetUniform(slot Slot, v Value) bool {
	return p.uniforms.Set(slot, v)
}

// Uniform returns the current value of a uniform slot.
func (p *Program) Uniform(slot Slot) Value {
	return p.uniforms.Get(slot)
}

// Uniforms exposes the uniform table handed to both stages.
func (p *Program) Uniforms() *UniformSet {
	return &p.uniforms
}

// AddVarying registers a value written per vertex and interpolated per pixel.
// Same conflict rules as AddUniform.
func (p *Program) AddVarying(name string, t Type) Slot {
	slot, ok := p.varyings.add(name, t)
	if !ok {
		Logger().Warn("varying registration rejected", "name", name, "type", t)
	}
	return slot
}

// VaryingLocation returns the slot of a registered varying or InvalidSlot.
func (p *Program) VaryingLocation(name string) Slot {
	return p.varyings.Location(name)
}

// Varyings exposes the working varying table. During a triangle draw it holds
// the interpolated value of the pixel being shaded.
func (p *Program) Varyings() *UniformSet {
	return &p.varyings
}

// VertexStage leaves the vertex unchanged.
func (p *Program) VertexStage(v *VertexOutput) {}

// FragmentStage samples texture 0 when bound, otherwise returns the
// interpolated color.
func (p *Program) FragmentStage(px *PixelOutput) mathutil.Vec4 {
	return defaultFragment(px)
}

// ShaderProgram returns p, so that effects embedding *Program satisfy Shader.
func (p *Program) ShaderProgram() *Program { return p }

func defaultFragment(px *PixelOutput) mathutil.Vec4 {
	if tex := px.Textures[0]; tex != nil {
		return tex.Sample2D(px.UV)
	}
	return px.Color
}
