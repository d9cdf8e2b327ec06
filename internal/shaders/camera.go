package shaders

import "softraster/internal/mathutil"

// Camera is a perspective camera. Its projection flips y so that meshes
// wound counter-clockwise face the viewer and image row 0 is the top.
type Camera struct {
	Eye    mathutil.Vec3
	Target mathutil.Vec3
	Up     mathutil.Vec3
	FOV    float64 // vertical, degrees
	Aspect float64
	Near   float64
	Far    float64
}

// OrbitCamera looks at the origin from distance, rotated by yaw and
// elevation in degrees.
func OrbitCamera(distance, yawDeg, elevDeg, fovDeg, aspect float64) Camera {
	return Camera{
		Eye:    mathutil.Orbit(distance, yawDeg, elevDeg),
		Up:     mathutil.Vec3{0, 1, 0},
		FOV:    fovDeg,
		Aspect: aspect,
		Near:   0.1,
		Far:    distance * 4,
	}
}

func (c Camera) View() mathutil.Mat4 {
	return mathutil.LookAt(c.Eye, c.Target, c.Up)
}

func (c Camera) Projection() mathutil.Mat4 {
	flip := mathutil.Scale(mathutil.Vec3{1, -1, 1})
	return mathutil.Mat4Mul(flip, mathutil.Perspective(mathutil.Deg2Rad(c.FOV), c.Aspect, c.Near, c.Far))
}

// Transforms returns the matrix set for drawing an object placed by model.
func (c Camera) Transforms(model mathutil.Mat4) Transforms {
	return Transforms{
		Model:      model,
		View:       c.View(),
		Projection: c.Projection(),
		Eye:        c.Eye,
	}
}
