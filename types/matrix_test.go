package types

import (
	"math"
	"testing"
)

func approxEqual(a, b Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(float64(a[i]-b[i])) > 1e-5 {
			return false
		}
	}
	return true
}

func TestTransforms(t *testing.T) {
	type spec struct {
		m        Mat4
		p        Vec3
		expPoint Vec3
	}
	specs := []spec{
		{Translate4(Vec3{1, 2, 3}), Vec3{1, 1, 1}, Vec3{2, 3, 4}},
		{Scale4(Vec3{2, 3, 4}), Vec3{1, 1, 1}, Vec3{2, 3, 4}},
		{Rotate4(90, 0, 0), Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{Rotate4(0, 90, 0), Vec3{1, 0, 0}, Vec3{0, 0, -1}},
		{Translate4(Vec3{0, 1, 0}).Mul4(Scale4(Vec3{2, 2, 2})), Vec3{1, 0, 0}, Vec3{2, 1, 0}},
	}

	for index, s := range specs {
		if got := TransformPoint(s.m, s.p); !approxEqual(got, s.expPoint) {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.expPoint, got)
		}
	}

	n := TransformNormal(Scale4(Vec3{1, 2, 1}), Vec3{0, 1, 0})
	if !approxEqual(n, Vec3{0, 1, 0}) {
		t.Fatalf("expected normal to stay unit length along Y; got %v", n)
	}
}
