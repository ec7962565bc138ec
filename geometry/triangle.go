package geometry

import (
	"github.com/achilleasa/kdaccel/types"
)

// A triangle with optional per-vertex normals and uv coordinates. Vertices
// are specified in counter-clockwise order.
type Triangle struct {
	Vertices [3]types.Vec3
	Normals  [3]types.Vec3
	UVs      [3]types.Vec2

	bound types.Bound
}

// Create a new triangle. If all normals are zero the geometric normal is used.
func NewTriangle(vertices [3]types.Vec3, normals [3]types.Vec3, uvs [3]types.Vec2) *Triangle {
	tri := &Triangle{
		Vertices: vertices,
		Normals:  normals,
		UVs:      uvs,
		bound:    types.BoundFromPoints(vertices[0], vertices[1], vertices[2]),
	}

	if normals[0].IsZero() && normals[1].IsZero() && normals[2].IsZero() {
		faceNormal := tri.GeometricNormal()
		tri.Normals = [3]types.Vec3{faceNormal, faceNormal, faceNormal}
	}
	return tri
}

// Get the normalized face normal.
func (tri *Triangle) GeometricNormal() types.Vec3 {
	e01 := tri.Vertices[1].Sub(tri.Vertices[0])
	e02 := tri.Vertices[2].Sub(tri.Vertices[0])
	return e01.Cross(e02).Normalize()
}

// Get the triangle area.
func (tri *Triangle) Area() float32 {
	e01 := tri.Vertices[1].Sub(tri.Vertices[0])
	e02 := tri.Vertices[2].Sub(tri.Vertices[0])
	return 0.5 * e01.Cross(e02).Len()
}

func (tri *Triangle) ObjectBound() types.Bound {
	return tri.bound
}

func (tri *Triangle) Intersects(ray types.Ray) bool {
	_, _, _, ok := tri.solve(ray)
	return ok
}

func (tri *Triangle) DifferentialGeometry(ray types.Ray) (DifferentialGeometry, float32, float32, bool) {
	tHit, b1, b2, ok := tri.solve(ray)
	if !ok {
		return DifferentialGeometry{}, 0, 0, false
	}

	b0 := 1 - b1 - b2
	normal := tri.Normals[0].Mul(b0).Add(tri.Normals[1].Mul(b1)).Add(tri.Normals[2].Mul(b2)).Normalize()
	uv := tri.UVs[0].Mul(b0).Add(tri.UVs[1].Mul(b1)).Add(tri.UVs[2].Mul(b2))

	return DifferentialGeometry{
		Position: ray.At(tHit),
		Normal:   normal,
		UV:       uv,
	}, tHit, epsilonScale * tHit, true
}

// Moller-Trumbore intersection. Returns the hit parameter and the barycentric
// coordinates of vertices 1 and 2.
func (tri *Triangle) solve(ray types.Ray) (tHit, b1, b2 float32, ok bool) {
	e1 := tri.Vertices[1].Sub(tri.Vertices[0])
	e2 := tri.Vertices[2].Sub(tri.Vertices[0])

	s1 := ray.Dir.Cross(e2)
	divisor := s1.Dot(e1)
	if divisor == 0 {
		return 0, 0, 0, false
	}
	invDivisor := 1.0 / divisor

	d := ray.Origin.Sub(tri.Vertices[0])
	b1 = d.Dot(s1) * invDivisor
	if b1 < 0 || b1 > 1 {
		return 0, 0, 0, false
	}

	s2 := d.Cross(e1)
	b2 = ray.Dir.Dot(s2) * invDivisor
	if b2 < 0 || b1+b2 > 1 {
		return 0, 0, 0, false
	}

	tHit = e2.Dot(s2) * invDivisor
	if tHit <= ray.TMin || tHit >= ray.TMax {
		return 0, 0, 0, false
	}
	return tHit, b1, b2, true
}
