package types

import (
	"fmt"
	"math"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// Get the axis that follows a in X -> Y -> Z -> X rotation.
func (a Axis) Next() Axis {
	return (a + 1) % 3
}

func (a Axis) String() string {
	switch a {
	case XAxis:
		return "X"
	case YAxis:
		return "Y"
	case ZAxis:
		return "Z"
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// An axis-aligned bounding box. Both the Min and Max planes are considered to
// be part of the box.
type Bound struct {
	Min Vec3
	Max Vec3
}

// Create an empty bound that acts as the identity element for Union.
func EmptyBound() Bound {
	return Bound{
		Min: Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Create the tightest bound enclosing all points.
func BoundFromPoints(points ...Vec3) Bound {
	b := EmptyBound()
	for _, p := range points {
		b = b.UnionPoint(p)
	}
	return b
}

// Check whether the bound encloses no points.
func (b Bound) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Get the bound that encloses both b and other.
func (b Bound) Union(other Bound) Bound {
	return Bound{
		Min: MinVec3(b.Min, other.Min),
		Max: MaxVec3(b.Max, other.Max),
	}
}

// Grow the bound so it encloses p.
func (b Bound) UnionPoint(p Vec3) Bound {
	return Bound{
		Min: MinVec3(b.Min, p),
		Max: MaxVec3(b.Max, p),
	}
}

// Get the box diagonal (Max - Min).
func (b Bound) Diagonal() Vec3 {
	return b.Max.Sub(b.Min)
}

// Get the box center.
func (b Bound) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get the total area of the six box faces. Empty bounds have no area.
func (b Bound) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	d := b.Diagonal()
	return 2 * (d[0]*d[1] + d[1]*d[2] + d[0]*d[2])
}

// Get the axis along which the box is longest. Ties resolve to the lower axis.
func (b Bound) MaxExtent() Axis {
	d := b.Diagonal()
	if d[0] >= d[1] && d[0] >= d[2] {
		return XAxis
	}
	if d[1] >= d[2] {
		return YAxis
	}
	return ZAxis
}

// Check whether p lies inside or on the surface of the box.
func (b Bound) Inside(p Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Check whether two boxes share at least one point.
func (b Bound) Overlaps(other Bound) bool {
	return b.Max[0] >= other.Min[0] && b.Min[0] <= other.Max[0] &&
		b.Max[1] >= other.Min[1] && b.Min[1] <= other.Max[1] &&
		b.Max[2] >= other.Min[2] && b.Min[2] <= other.Max[2]
}

// Intersect a ray with the box slabs. The returned parametric range is
// clipped to the ray's [TMin, TMax] range.
func (b Bound) IntersectRay(r Ray) (tmin, tmax float32, ok bool) {
	t0, t1 := r.TMin, r.TMax
	for axis := 0; axis < 3; axis++ {
		invDir := 1.0 / r.Dir[axis]
		tNear := (b.Min[axis] - r.Origin[axis]) * invDir
		tFar := (b.Max[axis] - r.Origin[axis]) * invDir
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}

		if tNear > t0 {
			t0 = tNear
		}
		if tFar < t1 {
			t1 = tFar
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

func (b Bound) String() string {
	return fmt.Sprintf("[%v - %v]", b.Min, b.Max)
}
