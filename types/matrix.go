package types

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Mat4 = mgl32.Mat4

// Create an identity matrix.
func Ident4() Mat4 {
	return mgl32.Ident4()
}

// Create a translation matrix.
func Translate4(v Vec3) Mat4 {
	return mgl32.Translate3D(v[0], v[1], v[2])
}

// Create a scale matrix.
func Scale4(v Vec3) Mat4 {
	return mgl32.Scale3D(v[0], v[1], v[2])
}

// Create a rotation matrix from yaw (X), pitch (Y) and roll (Z) angles in degrees.
func Rotate4(yaw, pitch, roll float32) Mat4 {
	toRad := float32(math.Pi / 180.0)
	return mgl32.HomogRotate3DZ(roll * toRad).
		Mul4(mgl32.HomogRotate3DY(pitch * toRad)).
		Mul4(mgl32.HomogRotate3DX(yaw * toRad))
}

// Transform a point (w = 1).
func TransformPoint(m Mat4, p Vec3) Vec3 {
	return Vec3(mgl32.TransformCoordinate(mgl32.Vec3(p), m))
}

// Transform a normal vector using the inverse transpose of m.
func TransformNormal(m Mat4, n Vec3) Vec3 {
	return Vec3(mgl32.TransformNormal(mgl32.Vec3(n), m.Inv().Transpose())).Normalize()
}
