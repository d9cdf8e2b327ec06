package mathutil

// Mat3 is a 3×3 row-major matrix. Vectors are columns: M × v.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3Diag(1, 1, 1)
}

// Mat3Diag returns a diagonal (scale) matrix.
func Mat3Diag(x, y, z float64) Mat3 {
	return Mat3{x, 0, 0, 0, y, 0, 0, 0, z}
}

// Mat3FromRows assembles a matrix from three row vectors.
func Mat3FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{
		r0[0], r0[1], r0[2],
		r1[0], r1[1], r1[2],
		r2[0], r2[1], r2[2],
	}
}

// Row returns row i (0..2).
func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// Col returns column j (0..2).
func (m Mat3) Col(j int) Vec3 {
	return Vec3{m[j], m[3+j], m[6+j]}
}

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for i := 0; i < 3; i++ {
		r := a.Row(i)
		for j := 0; j < 3; j++ {
			m[i*3+j] = r.Dot(b.Col(j))
		}
	}
	return m
}

// MulVec3 returns M × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v)}
}

func (m Mat3) Scale(s float64) Mat3 {
	for i := range m {
		m[i] *= s
	}
	return m
}

func (m Mat3) Transpose() Mat3 {
	return Mat3FromRows(m.Col(0), m.Col(1), m.Col(2))
}

// Det is the scalar triple product of the rows.
func (m Mat3) Det() float64 {
	return m.Row(0).Dot(m.Row(1).Cross(m.Row(2)))
}

// Cofactor returns the cofactor matrix, whose rows are the pairwise cross
// products of m's rows.
func (m Mat3) Cofactor() Mat3 {
	r0, r1, r2 := m.Row(0), m.Row(1), m.Row(2)
	return Mat3FromRows(r1.Cross(r2), r2.Cross(r0), r0.Cross(r1))
}

// Inverse returns m⁻¹, or the identity when m is singular.
func (m Mat3) Inverse() Mat3 {
	d := m.Det()
	if d == 0 {
		return Mat3Identity()
	}
	return m.Cofactor().Transpose().Scale(1 / d)
}

// NormalMatrix returns the inverse-transpose of the model's linear part, the
// transform that keeps normals perpendicular under non-uniform scale.
func NormalMatrix(model Mat4) Mat3 {
	l := model.Mat3()
	d := l.Det()
	if d == 0 {
		return Mat3Identity()
	}
	return l.Cofactor().Scale(1 / d)
}
