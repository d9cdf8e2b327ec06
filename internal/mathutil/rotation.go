package mathutil

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Orbit returns the eye position of a camera circling the origin at the given
// distance, yaw and elevation (degrees). Yaw 0 sits on +Z looking down -Z;
// positive yaw moves the eye toward +X.
func Orbit(distance, yawDeg, elevDeg float64) Vec3 {
	sy, cy := math.Sincos(Deg2Rad(yawDeg))
	se, ce := math.Sincos(Deg2Rad(elevDeg))
	return Vec3{distance * ce * sy, distance * se, distance * ce * cy}
}
