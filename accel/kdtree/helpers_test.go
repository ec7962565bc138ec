package kdtree

import (
	"math/rand"
	"testing"

	"github.com/achilleasa/kdaccel/geometry"
	"github.com/achilleasa/kdaccel/types"
)

func mustBuild(t *testing.T, prims []geometry.Shape, opts Options) *Tree {
	t.Helper()
	tree, err := New(prims, opts)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func randVec3(rng *rand.Rand, min, max float32) types.Vec3 {
	return types.Vec3{
		min + rng.Float32()*(max-min),
		min + rng.Float32()*(max-min),
		min + rng.Float32()*(max-min),
	}
}

func randDir(rng *rand.Rand) types.Vec3 {
	for {
		d := randVec3(rng, -1, 1)
		if l := d.Len(); l > 0.1 && l <= 1 {
			return d.Normalize()
		}
	}
}

// Generate a mix of boxes, spheres and triangles scattered inside [-10, 10]^3.
func randomScene(rng *rand.Rand, count int) []geometry.Shape {
	prims := make([]geometry.Shape, 0, count)
	for i := 0; i < count; i++ {
		center := randVec3(rng, -10, 10)
		switch i % 3 {
		case 0:
			prims = append(prims, geometry.NewBox(center, randVec3(rng, 0.1, 1.5)))
		case 1:
			prims = append(prims, geometry.NewSphere(center, 0.1+rng.Float32()*1.5))
		default:
			prims = append(prims, geometry.NewTriangle(
				[3]types.Vec3{
					center.Add(randVec3(rng, -2, 2)),
					center.Add(randVec3(rng, -2, 2)),
					center.Add(randVec3(rng, -2, 2)),
				},
				[3]types.Vec3{},
				[3]types.Vec2{},
			))
		}
	}
	return prims
}

// Exhaustive nearest hit search used as an oracle for the tree traversal.
func bruteForceNearest(prims []geometry.Shape, ray types.Ray) (int, float32, bool) {
	bestIndex := -1
	bestT := ray.TMax
	for index, prim := range prims {
		if !prim.Intersects(ray) {
			continue
		}
		_, tHit, _, ok := prim.DifferentialGeometry(ray)
		if ok && tHit < bestT {
			bestIndex, bestT = index, tHit
		}
	}
	return bestIndex, bestT, bestIndex != -1
}

func bruteForceOverlaps(prims []geometry.Shape, query types.Bound) bool {
	for _, prim := range prims {
		if query.Overlaps(prim.ObjectBound()) {
			return true
		}
	}
	return false
}

// Three unit boxes centered at (0,0,0), (2,0,0) and (4,0,0).
func threeBoxes() []geometry.Shape {
	half := types.Vec3{0.5, 0.5, 0.5}
	return []geometry.Shape{
		geometry.NewBox(types.Vec3{0, 0, 0}, half),
		geometry.NewBox(types.Vec3{2, 0, 0}, half),
		geometry.NewBox(types.Vec3{4, 0, 0}, half),
	}
}

func treeDepth(node *Node) int {
	if node == nil || node.IsLeaf() {
		return 0
	}
	below, above := treeDepth(node.Below), treeDepth(node.Above)
	if below > above {
		return below + 1
	}
	return above + 1
}
