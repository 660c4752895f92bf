package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Up is the world-up axis. All slope and gravity math is relative to it.
var Up = mgl32.Vec3{0, 1, 0}

// Slope returns the angle in degrees between a surface normal and world-up.
func Slope(normal mgl32.Vec3) float32 {
	d := mgl32.Clamp(normal.Dot(Up), -1, 1)
	return mgl32.RadToDeg(math32.Acos(d))
}

// Reflect mirrors a velocity about a surface normal.
func Reflect(velocity, normal mgl32.Vec3) mgl32.Vec3 {
	return velocity.Sub(normal.Mul(2 * normal.Dot(velocity)))
}

// Project returns the component of u along v.
func Project(u, v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(u.Dot(v))
}

// Slide removes the component of direction along planeNormal, leaving motion
// tangent to the plane.
func Slide(direction, planeNormal mgl32.Vec3) mgl32.Vec3 {
	return direction.Sub(Project(direction, planeNormal))
}

// RotateYaw rotates a local-space vector into world space about the up axis.
func RotateYaw(v mgl32.Vec3, yaw float32) mgl32.Vec3 {
	return mgl32.Rotate3DY(yaw).Mul3x1(v)
}

// RotatePitchYaw applies pitch about the local X axis, then yaw about up.
// Used for flying and swimming actors, which move in full 3-D.
func RotatePitchYaw(v mgl32.Vec3, pitch, yaw float32) mgl32.Vec3 {
	return mgl32.Rotate3DY(yaw).Mul3(mgl32.Rotate3DX(pitch)).Mul3x1(v)
}

// AngleBetween returns the unsigned angle in degrees between two vectors.
// Zero-length input yields zero.
func AngleBetween(a, b mgl32.Vec3) float32 {
	la, lb := a.Len(), b.Len()
	if la <= 1e-7 || lb <= 1e-7 {
		return 0
	}
	d := mgl32.Clamp(a.Dot(b)/(la*lb), -1, 1)
	return mgl32.RadToDeg(math32.Acos(d))
}

// HzLenSqr returns the squared length of the horizontal part of a vector.
func HzLenSqr(v mgl32.Vec3) float32 {
	return v.X()*v.X() + v.Z()*v.Z()
}

// Normalized returns the unit vector of v and its original length. A
// near-zero vector is returned unchanged with length zero.
func Normalized(v mgl32.Vec3) (mgl32.Vec3, float32) {
	l := v.Len()
	if l <= 1e-7 {
		return v, 0
	}
	return v.Mul(1 / l), l
}

// ApproxEq reports whether two floats are within 1e-5 of each other.
func ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}
