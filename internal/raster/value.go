package raster

import "softraster/internal/mathutil"

// Type tags the contents of a Value.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeFloat
	TypeInt
	TypeBool
	TypeVec2
	TypeVec3
	TypeVec4
	TypeMat3
	TypeMat4
)

func (t Type) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeVec2:
		return "vec2"
	case TypeVec3:
		return "vec3"
	case TypeVec4:
		return "vec4"
	case TypeMat3:
		return "mat3"
	case TypeMat4:
		return "mat4"
	}
	return "invalid"
}

// components is the number of float64 slots the type occupies.
func (t Type) components() int {
	switch t {
	case TypeFloat, TypeInt, TypeBool:
		return 1
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	case TypeMat3:
		return 9
	case TypeMat4:
		return 16
	}
	return 0
}

// interpolates reports whether barycentric blending is meaningful. Int and
// Bool varyings are flat and take the first vertex's value.
func (t Type) interpolates() bool {
	return t != TypeInt && t != TypeBool && t != TypeInvalid
}

// Value is a tagged shader value: a float, int, bool, vector or matrix.
// The storage is only ever read through the accessor matching its tag; a
// mismatched accessor reports ok=false instead of reinterpreting the data.
type Value struct {
	typ  Type
	data [16]float64
}

// ZeroValue returns the zero value of t.
func ZeroValue(t Type) Value {
	return Value{typ: t}
}

func FloatValue(f float64) Value {
	v := Value{typ: TypeFloat}
	v.data[0] = f
	return v
}

func IntValue(i int) Value {
	v := Value{typ: TypeInt}
	v.data[0] = float64(i)
	return v
}

func BoolValue(b bool) Value {
	v := Value{typ: TypeBool}
	if b {
		v.data[0] = 1
	}
	return v
}

func Vec2Value(x mathutil.Vec2) Value {
	v := Value{typ: TypeVec2}
	copy(v.data[:], x[:])
	return v
}

func Vec3Value(x mathutil.Vec3) Value {
	v := Value{typ: TypeVec3}
	copy(v.data[:], x[:])
	return v
}

func Vec4Value(x mathutil.Vec4) Value {
	v := Value{typ: TypeVec4}
	copy(v.data[:], x[:])
	return v
}

func Mat3Value(m mathutil.Mat3) Value {
	v := Value{typ: TypeMat3}
	copy(v.data[:], m[:])
	return v
}

func Mat4Value(m mathutil.Mat4) Value {
	v := Value{typ: TypeMat4}
	copy(v.data[:], m[:])
	return v
}

// Type returns the tag.
func (v Value) Type() Type { return v.typ }

func (v Value) Float() (float64, bool) {
	if v.typ != TypeFloat {
		return 0, false
	}
	return v.data[0], true
}

func (v Value) Int() (int, bool) {
	if v.typ != TypeInt {
		return 0, false
	}
	return int(v.data[0]), true
}

func (v Value) Bool() (bool, bool) {
	if v.typ != TypeBool {
		return false, false
	}
	return v.data[0] != 0, true
}

func (v Value) Vec2() (mathutil.Vec2, bool) {
	var out mathutil.Vec2
	if v.typ != TypeVec2 {
		return out, false
	}
	copy(out[:], v.data[:])
	return out, true
}

func (v Value) Vec3() (mathutil.Vec3, bool) {
	var out mathutil.Vec3
	if v.typ != TypeVec3 {
		return out, false
	}
	copy(out[:], v.data[:])
	return out, true
}

func (v Value) Vec4() (mathutil.Vec4, bool) {
	var out mathutil.Vec4
	if v.typ != TypeVec4 {
		return out, false
	}
	copy(out[:], v.data[:])
	return out, true
}

func (v Value) Mat3() (mathutil.Mat3, bool) {
	var out mathutil.Mat3
	if v.typ != TypeMat3 {
		return out, false
	}
	copy(out[:], v.data[:])
	return out, true
}

func (v Value) Mat4() (mathutil.Mat4, bool) {
	var out mathutil.Mat4
	if v.typ != TypeMat4 {
		return out, false
	}
	copy(out[:], v.data[:])
	return out, true
}

// interpolateValue blends three per-vertex values of type t with barycentric
// weights. Values whose tag differs from t contribute zero.
func interpolateValue(t Type, a, b, c Value, w0, w1, w2 float64) Value {
	out := Value{typ: t}
	if !t.interpolates() {
		if a.typ == t {
			out.data[0] = a.data[0]
		}
		return out
	}
	n := t.components()
	for i := 0; i < n; i++ {
		var s float64
		if a.typ == t {
			s += a.data[i] * w0
		}
		if b.typ == t {
			s += b.data[i] * w1
		}
		if c.typ == t {
			s += c.data[i] * w2
		}
		out.data[i] = s
	}
	return out
}
