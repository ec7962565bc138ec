package geometry

import (
	"math"

	"github.com/achilleasa/kdaccel/types"
)

type Sphere struct {
	Center types.Vec3
	Radius float32
}

func NewSphere(center types.Vec3, radius float32) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

func (s *Sphere) ObjectBound() types.Bound {
	r := types.Vec3{s.Radius, s.Radius, s.Radius}
	return types.Bound{
		Min: s.Center.Sub(r),
		Max: s.Center.Add(r),
	}
}

func (s *Sphere) Intersects(ray types.Ray) bool {
	_, ok := s.solve(ray)
	return ok
}

func (s *Sphere) DifferentialGeometry(ray types.Ray) (DifferentialGeometry, float32, float32, bool) {
	tHit, ok := s.solve(ray)
	if !ok {
		return DifferentialGeometry{}, 0, 0, false
	}

	p := ray.At(tHit)
	n := p.Sub(s.Center).Normalize()

	// Spherical mapping; u follows the azimuth and v the polar angle.
	phi := math.Atan2(float64(n[2]), float64(n[0]))
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Acos(math.Max(-1, math.Min(1, float64(n[1]))))

	return DifferentialGeometry{
		Position: p,
		Normal:   n,
		UV:       types.Vec2{float32(phi / (2 * math.Pi)), float32(theta / math.Pi)},
	}, tHit, epsilonScale * tHit, true
}

// Find the closest root of |o + t*d - c|^2 = r^2 inside the ray range.
func (s *Sphere) solve(ray types.Ray) (float32, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := float64(ray.Dir.Dot(ray.Dir))
	halfB := float64(oc.Dot(ray.Dir))
	c := float64(oc.Dot(oc)) - float64(s.Radius)*float64(s.Radius)

	disc := halfB*halfB - a*c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := math.Sqrt(disc)

	for _, root := range [2]float64{(-halfB - sqrtDisc) / a, (-halfB + sqrtDisc) / a} {
		t := float32(root)
		if t > ray.TMin && t < ray.TMax {
			return t, true
		}
	}
	return 0, false
}
