// Package geom provides the small amount of 3D math the collection engine needs.
//
// Vectors and rotations are [mgl64.Vec3] and [mgl64.Quat]. Conventions follow a
// left-handed, Y-up frame: +Z is forward, +X is right, and Euler angles are
// applied roll (Z) first, then pitch (X), then yaw (Y). Angles at the package
// boundary are in degrees.
//
// # Rotations
//
//	q := geom.Euler(0, 90, 0)          // yaw 90°
//	p := q.Rotate(mgl64.Vec3{0, 0, 1}) // ≈ (1, 0, 0)
//
//	look := geom.LookRotation(p)       // forward axis points along p
//	back := geom.Turned(look)          // same, plus a half turn about up
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axes of the collection frame.
var (
	Right   = mgl64.Vec3{1, 0, 0}
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

// epsilon below which a direction is treated as zero.
const epsilon = 1e-12

// Identity returns the identity rotation.
func Identity() mgl64.Quat {
	return mgl64.QuatIdent()
}

// Euler builds a rotation from pitch (about X), yaw (about Y) and roll (about Z),
// all in degrees. Roll is applied first, then pitch, then yaw.
func Euler(pitch, yaw, roll float64) mgl64.Quat {
	qx := mgl64.QuatRotate(mgl64.DegToRad(pitch), Right)
	qy := mgl64.QuatRotate(mgl64.DegToRad(yaw), Up)
	qz := mgl64.QuatRotate(mgl64.DegToRad(roll), Forward)
	return qy.Mul(qx).Mul(qz)
}

// Yaw returns a rotation of deg degrees about the up axis.
func Yaw(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), Up)
}

// Turned applies a local half turn about the up axis to q.
func Turned(q mgl64.Quat) mgl64.Quat {
	return q.Mul(Yaw(180)).Normalize()
}

// LookRotation returns the rotation whose forward axis points along dir while
// keeping up as close to +Y as possible. A zero direction yields the identity.
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	if SqrLen(dir) < epsilon {
		return Identity()
	}
	horizontal := math.Hypot(dir.X(), dir.Z())
	yaw := math.Atan2(dir.X(), dir.Z())
	pitch := math.Atan2(-dir.Y(), horizontal)
	return mgl64.QuatRotate(yaw, Up).Mul(mgl64.QuatRotate(pitch, Right)).Normalize()
}

// ForwardOf returns the forward axis of rotation q.
func ForwardOf(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(Forward)
}

// Planar drops the Z component of v.
func Planar(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), v.Y(), 0}
}

// Horizontal drops the Y component of v.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// SqrLen returns the squared length of v.
func SqrLen(v mgl64.Vec3) float64 {
	return v.Dot(v)
}

// ApproxEqual reports whether a and b differ by at most tol on every axis.
func ApproxEqual(a, b mgl64.Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// SameRotation reports whether a and b rotate the frame axes to within tol.
// Quaternions q and -q describe the same rotation and compare equal.
func SameRotation(a, b mgl64.Quat, tol float64) bool {
	for _, axis := range []mgl64.Vec3{Right, Up, Forward} {
		if !ApproxEqual(a.Rotate(axis), b.Rotate(axis), tol) {
			return false
		}
	}
	return true
}
