package mathutil

import "math"

// Quat is a rotation quaternion stored as (x, y, z, w).
type Quat [4]float64

// QuatIdentity is the rotation that does nothing.
func QuatIdentity() Quat { return Quat{0, 0, 0, 1} }

// QuatAxisAngle rotates by angle radians around axis.
func QuatAxisAngle(axis Vec3, angle float64) Quat {
	s, c := math.Sincos(angle / 2)
	a := axis.Normalize()
	return Quat{a[0] * s, a[1] * s, a[2] * s, c}
}

// QuatFromEuler composes rotations about X, then Y, then Z (radians), as
// Rz × Ry × Rx applied to column vectors.
func QuatFromEuler(rx, ry, rz float64) Quat {
	qx := QuatAxisAngle(Vec3{1, 0, 0}, rx)
	qy := QuatAxisAngle(Vec3{0, 1, 0}, ry)
	qz := QuatAxisAngle(Vec3{0, 0, 1}, rz)
	return qz.Mul(qy).Mul(qx)
}

// Mul returns the Hamilton product q × r: r is applied first.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		q[3]*r[0] + q[0]*r[3] + q[1]*r[2] - q[2]*r[1],
		q[3]*r[1] - q[0]*r[2] + q[1]*r[3] + q[2]*r[0],
		q[3]*r[2] + q[0]*r[1] - q[1]*r[0] + q[2]*r[3],
		q[3]*r[3] - q[0]*r[0] - q[1]*r[1] - q[2]*r[2],
	}
}

func (q Quat) Normalize() Quat {
	l := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}

// Mat3 converts a unit quaternion to a rotation matrix.
func (q Quat) Mat3() Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	return Mat3{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q[0], q[1], q[2]}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q[3])).Add(u.Cross(t))
}

// ModelMatrix composes translate × rotate(Euler degrees) × scale.
func ModelMatrix(pos, eulerDeg, scale Vec3) Mat4 {
	q := QuatFromEuler(Deg2Rad(eulerDeg[0]), Deg2Rad(eulerDeg[1]), Deg2Rad(eulerDeg[2]))
	return FromMat3Translation(Mat3Mul(q.Normalize().Mat3(), Mat3Diag(scale[0], scale[1], scale[2])), pos)
}
