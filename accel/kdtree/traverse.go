package kdtree

import (
	"github.com/achilleasa/kdaccel/geometry"
	"github.com/achilleasa/kdaccel/types"
)

// The nearest intersection found along a ray.
type Hit struct {
	geometry.DifferentialGeometry

	// The index of the hit primitive.
	Primitive int

	// The hit parameter along the ray.
	T float32

	// An offset for spawning secondary rays from the hit point.
	Epsilon float32
}

// Per-query traversal state.
type traversal struct {
	tree   *Tree
	ray    types.Ray
	invDir types.Vec3
	best   Hit
}

// Find the nearest primitive hit inside the ray's [TMin, TMax] range. The
// returned geometry references the hit shape. Empty trees never report a hit.
func (t *Tree) Nearest(ray types.Ray) (Hit, bool) {
	if t.root == nil {
		return Hit{}, false
	}

	tr := &traversal{
		tree:   t,
		ray:    ray,
		invDir: ray.InvDir(),
		best: Hit{
			Primitive: -1,
			T:         ray.TMax,
		},
	}
	if !tr.visit(t.root) {
		return Hit{}, false
	}

	hit := tr.best
	hit.Shape = t.primitives[hit.Primitive]
	return hit, true
}

// Visit node and report whether a closer hit was recorded in its subtree.
func (tr *traversal) visit(node *Node) bool {
	tmin, tmax, ok := node.Bound.IntersectRay(tr.ray)
	if !ok || tr.best.T < tmin {
		return false
	}

	if node.leaf {
		return tr.visitLeaf(node, tmin, tmax)
	}

	axis := node.Axis
	origin := tr.ray.Origin[axis]
	tSplit := (node.Split - origin) * tr.invDir[axis]

	near, far := node.Below, node.Above
	belowFirst := origin < node.Split || (origin == node.Split && tr.ray.Dir[axis] < 0)
	if !belowFirst {
		near, far = far, near
	}

	switch {
	case tSplit > tmax || tSplit <= 0:
		return tr.visit(near)
	case tSplit < tmin:
		return tr.visit(far)
	}

	// Leaf hits are confined to their cell's parametric range so a hit on
	// the near side always precedes anything behind the split plane.
	if tr.visit(near) {
		return true
	}
	return tr.visit(far)
}

// Test every primitive in the leaf and keep the closest hit that lies inside
// the leaf's [tmin, tmax] range.
func (tr *traversal) visitLeaf(node *Node, tmin, tmax float32) bool {
	hit := false
	for _, index := range node.Primitives {
		prim := tr.tree.primitives[index]
		if !prim.Intersects(tr.ray) {
			continue
		}

		dg, tHit, epsilon, ok := prim.DifferentialGeometry(tr.ray)
		if !ok || tHit >= tr.best.T || tHit < tmin || tHit > tmax {
			continue
		}

		tr.best = Hit{
			DifferentialGeometry: dg,
			Primitive:            index,
			T:                    tHit,
			Epsilon:              epsilon,
		}
		hit = true
	}
	return hit
}
