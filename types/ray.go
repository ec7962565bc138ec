package types

import "math"

// A ray with a normalized direction and a valid parametric range.
type Ray struct {
	Origin Vec3
	Dir    Vec3

	TMin float32
	TMax float32
}

// Create a ray with an unbounded [0, +inf) range. The direction is normalized.
func NewRay(origin, dir Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir.Normalize(),
		TMin:   0,
		TMax:   float32(math.Inf(1)),
	}
}

// Get the point along the ray at parameter t.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Get the per-axis reciprocal of the ray direction.
func (r Ray) InvDir() Vec3 {
	return Vec3{1.0 / r.Dir[0], 1.0 / r.Dir[1], 1.0 / r.Dir[2]}
}
