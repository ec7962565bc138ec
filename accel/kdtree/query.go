package kdtree

import "github.com/achilleasa/kdaccel/types"

// Check whether the ray intersects the tree bound. This is a conservative
// any-hit test; it does not test individual primitives.
func (t *Tree) HitBound(ray types.Ray) bool {
	if t.root == nil {
		return false
	}
	_, _, ok := t.bound.IntersectRay(ray)
	return ok
}

// Check whether any primitive bound overlaps the query bound.
func (t *Tree) Overlaps(query types.Bound) bool {
	if t.root == nil {
		return false
	}
	return t.overlaps(t.root, query)
}

func (t *Tree) overlaps(node *Node, query types.Bound) bool {
	if !query.Overlaps(node.Bound) {
		return false
	}

	if node.leaf {
		for _, index := range node.Primitives {
			if query.Overlaps(t.bounds[index]) {
				return true
			}
		}
		return false
	}

	if query.Overlaps(node.Below.Bound) && t.overlaps(node.Below, query) {
		return true
	}
	return query.Overlaps(node.Above.Bound) && t.overlaps(node.Above, query)
}

// Check whether p lies inside a leaf cell. Empty leaves count.
func (t *Tree) ContainsLeaf(p types.Vec3) bool {
	if t.root == nil {
		return false
	}
	return containsLeaf(t.root, p)
}

func containsLeaf(node *Node, p types.Vec3) bool {
	if !node.Bound.Inside(p) {
		return false
	}
	if node.leaf {
		return true
	}
	return containsLeaf(node.Below, p) || containsLeaf(node.Above, p)
}
