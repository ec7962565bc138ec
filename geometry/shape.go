// Package geometry provides the scene shapes that the kd-tree partitions and
// intersects.
package geometry

import "github.com/achilleasa/kdaccel/types"

// The local surface description at a ray hit point.
type DifferentialGeometry struct {
	Position types.Vec3
	Normal   types.Vec3
	UV       types.Vec2

	// The shape that was hit. Shapes leave this unset; the acceleration
	// structure fills it in for the winning hit only.
	Shape Shape
}

// The Shape interface is implemented by all primitives that can be stored in
// an acceleration structure.
type Shape interface {
	// The object space bound of the shape.
	ObjectBound() types.Bound

	// A cheap any-hit test.
	Intersects(ray types.Ray) bool

	// Calculate the nearest hit along the ray together with the hit
	// parameter and an epsilon for offsetting secondary rays.
	DifferentialGeometry(ray types.Ray) (dg DifferentialGeometry, tHit, epsilon float32, ok bool)
}

// The epsilon reported for hits is proportional to the hit distance.
const epsilonScale float32 = 1e-3
