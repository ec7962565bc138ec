package geometry

import (
	"math"
	"testing"

	"github.com/achilleasa/kdaccel/types"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestBoxIntersection(t *testing.T) {
	box := NewBox(types.Vec3{0, 0, 0}, types.Vec3{1, 1, 1})

	type spec struct {
		ray       types.Ray
		expHit    bool
		expT      float32
		expNormal types.Vec3
	}
	specs := []spec{
		{types.NewRay(types.Vec3{-5, 0, 0}, types.Vec3{1, 0, 0}), true, 4, types.Vec3{-1, 0, 0}},
		{types.NewRay(types.Vec3{0, 5, 0.5}, types.Vec3{0, -1, 0}), true, 4, types.Vec3{0, 1, 0}},
		// Starting inside reports the exit point
		{types.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1}), true, 1, types.Vec3{0, 0, 1}},
		{types.NewRay(types.Vec3{-5, 0, 0}, types.Vec3{-1, 0, 0}), false, 0, types.Vec3{}},
		{types.NewRay(types.Vec3{-5, 3, 0}, types.Vec3{1, 0, 0}), false, 0, types.Vec3{}},
	}

	for index, s := range specs {
		if got := box.Intersects(s.ray); got != s.expHit {
			t.Fatalf("[spec %d] expected Intersects to return %t; got %t", index, s.expHit, got)
		}
		dg, tHit, epsilon, ok := box.DifferentialGeometry(s.ray)
		if ok != s.expHit {
			t.Fatalf("[spec %d] expected hit=%t; got %t", index, s.expHit, ok)
		}
		if !ok {
			continue
		}
		if !approxEqual(tHit, s.expT) {
			t.Fatalf("[spec %d] expected t=%f; got %f", index, s.expT, tHit)
		}
		if dg.Normal != s.expNormal {
			t.Fatalf("[spec %d] expected normal %v; got %v", index, s.expNormal, dg.Normal)
		}
		if epsilon <= 0 {
			t.Fatalf("[spec %d] expected a positive epsilon; got %f", index, epsilon)
		}
		if dg.Shape != nil {
			t.Fatalf("[spec %d] expected shapes to leave the geometry shape unset", index)
		}
	}

	if bound := box.ObjectBound(); bound.Min != (types.Vec3{-1, -1, -1}) || bound.Max != (types.Vec3{1, 1, 1}) {
		t.Fatalf("unexpected box bound %v", bound)
	}
}

func TestBoxFaceUV(t *testing.T) {
	box := NewBox(types.Vec3{1, 1, 1}, types.Vec3{1, 1, 1})
	dg, _, _, ok := box.DifferentialGeometry(types.NewRay(types.Vec3{-1, 1.5, 0.5}, types.Vec3{1, 0, 0}))
	if !ok {
		t.Fatal("expected ray to hit the box")
	}
	if !approxEqual(dg.UV[0], 0.75) || !approxEqual(dg.UV[1], 0.25) {
		t.Fatalf("expected uv (0.75, 0.25); got %v", dg.UV)
	}
}

func TestSphereIntersection(t *testing.T) {
	sphere := NewSphere(types.Vec3{0, 0, 5}, 1)

	dg, tHit, _, ok := sphere.DifferentialGeometry(types.NewRay(types.Vec3{}, types.Vec3{0, 0, 1}))
	if !ok || !approxEqual(tHit, 4) {
		t.Fatalf("expected hit at t=4; got %f (%t)", tHit, ok)
	}
	if !approxEqual(dg.Normal[2], -1) {
		t.Fatalf("expected normal facing the ray; got %v", dg.Normal)
	}

	// From inside, the far root is reported
	_, tHit, _, ok = sphere.DifferentialGeometry(types.NewRay(types.Vec3{0, 0, 5}, types.Vec3{0, 1, 0}))
	if !ok || !approxEqual(tHit, 1) {
		t.Fatalf("expected exit hit at t=1; got %f (%t)", tHit, ok)
	}

	if sphere.Intersects(types.NewRay(types.Vec3{0, 2, 0}, types.Vec3{0, 0, 1})) {
		t.Fatal("expected offset ray to miss the sphere")
	}

	r := types.NewRay(types.Vec3{}, types.Vec3{0, 0, 1})
	r.TMax = 3
	if sphere.Intersects(r) {
		t.Fatal("expected hit beyond TMax to be rejected")
	}

	bound := sphere.ObjectBound()
	if bound.Min != (types.Vec3{-1, -1, 4}) || bound.Max != (types.Vec3{1, 1, 6}) {
		t.Fatalf("unexpected sphere bound %v", bound)
	}
}

func TestTriangleIntersection(t *testing.T) {
	tri := NewTriangle(
		[3]types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[3]types.Vec3{},
		[3]types.Vec2{{0, 0}, {1, 0}, {0, 1}},
	)

	if n := tri.GeometricNormal(); n != (types.Vec3{0, 0, 1}) {
		t.Fatalf("expected geometric normal (0, 0, 1); got %v", n)
	}
	if tri.Normals[0] != (types.Vec3{0, 0, 1}) {
		t.Fatalf("expected missing vertex normals to use the face normal; got %v", tri.Normals)
	}
	if !approxEqual(tri.Area(), 0.5) {
		t.Fatalf("expected area 0.5; got %f", tri.Area())
	}

	dg, tHit, _, ok := tri.DifferentialGeometry(types.NewRay(types.Vec3{0.25, 0.25, 2}, types.Vec3{0, 0, -1}))
	if !ok || !approxEqual(tHit, 2) {
		t.Fatalf("expected hit at t=2; got %f (%t)", tHit, ok)
	}
	if !approxEqual(dg.UV[0], 0.25) || !approxEqual(dg.UV[1], 0.25) {
		t.Fatalf("expected interpolated uv (0.25, 0.25); got %v", dg.UV)
	}
	if !approxEqual(dg.Position[0], 0.25) || !approxEqual(dg.Position[2], 0) {
		t.Fatalf("unexpected hit position %v", dg.Position)
	}

	type spec struct {
		ray    types.Ray
		expHit bool
	}
	specs := []spec{
		{types.NewRay(types.Vec3{0.6, 0.6, 2}, types.Vec3{0, 0, -1}), false},
		{types.NewRay(types.Vec3{0.25, 0.25, 2}, types.Vec3{0, 0, 1}), false},
		// Parallel to the triangle plane
		{types.NewRay(types.Vec3{-1, 0.25, 0}, types.Vec3{1, 0, 0}), false},
		// Back faces are hit as well
		{types.NewRay(types.Vec3{0.1, 0.1, -1}, types.Vec3{0, 0, 1}), true},
	}
	for index, s := range specs {
		if got := tri.Intersects(s.ray); got != s.expHit {
			t.Fatalf("[spec %d] expected hit=%t; got %t", index, s.expHit, got)
		}
	}
}

func TestTriangleNormalInterpolation(t *testing.T) {
	tri := NewTriangle(
		[3]types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[3]types.Vec3{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
		[3]types.Vec2{},
	)

	dg, _, _, ok := tri.DifferentialGeometry(types.NewRay(types.Vec3{0, 0, 1}, types.Vec3{0, 0, -1}))
	if !ok {
		t.Fatal("expected hit at vertex 0")
	}
	if !approxEqual(dg.Normal[2], 1) {
		t.Fatalf("expected vertex 0 normal; got %v", dg.Normal)
	}
}
