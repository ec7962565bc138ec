package geometry

import (
	"math"

	"github.com/achilleasa/kdaccel/types"
)

// An axis aligned box.
type Box struct {
	Bound types.Bound
}

// Create a box from its center and half extents.
func NewBox(center, halfSize types.Vec3) *Box {
	return &Box{
		Bound: types.Bound{
			Min: center.Sub(halfSize),
			Max: center.Add(halfSize),
		},
	}
}

func (b *Box) ObjectBound() types.Bound {
	return b.Bound
}

func (b *Box) Intersects(ray types.Ray) bool {
	_, _, ok := b.Bound.IntersectRay(ray)
	return ok
}

// Rays starting inside the box report the exit point.
func (b *Box) DifferentialGeometry(ray types.Ray) (DifferentialGeometry, float32, float32, bool) {
	t0, t1, ok := b.Bound.IntersectRay(ray)
	if !ok {
		return DifferentialGeometry{}, 0, 0, false
	}

	tHit := t0
	if tHit <= ray.TMin {
		tHit = t1
		if tHit <= ray.TMin || tHit >= ray.TMax {
			return DifferentialGeometry{}, 0, 0, false
		}
	}

	p := ray.At(tHit)
	normal, faceAxis := b.faceNormal(p)
	return DifferentialGeometry{
		Position: p,
		Normal:   normal,
		UV:       b.faceUV(p, faceAxis),
	}, tHit, epsilonScale * tHit, true
}

// Select the normal of the face closest to p.
func (b *Box) faceNormal(p types.Vec3) (types.Vec3, int) {
	var normal types.Vec3
	faceAxis := 0
	best := float32(math.MaxFloat32)
	for axis := 0; axis < 3; axis++ {
		if d := abs32(p[axis] - b.Bound.Min[axis]); d < best {
			best = d
			normal = types.Vec3{}
			normal[axis] = -1
			faceAxis = axis
		}
		if d := abs32(p[axis] - b.Bound.Max[axis]); d < best {
			best = d
			normal = types.Vec3{}
			normal[axis] = 1
			faceAxis = axis
		}
	}
	return normal, faceAxis
}

// Map p to the unit square of the face perpendicular to faceAxis.
func (b *Box) faceUV(p types.Vec3, faceAxis int) types.Vec2 {
	d := b.Bound.Diagonal()
	var uv types.Vec2
	slot := 0
	for axis := 0; axis < 3; axis++ {
		if axis == faceAxis {
			continue
		}
		if d[axis] > 0 {
			uv[slot] = (p[axis] - b.Bound.Min[axis]) / d[axis]
		}
		slot++
	}
	return uv
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
