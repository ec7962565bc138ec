package kdtree

import "github.com/achilleasa/kdaccel/types"

// A kd-tree node. Leaf nodes reference primitives by index while interior
// nodes split their bound in two along an axis-aligned plane.
//
// A node's bound is the bound it was built with; it is not tightened around
// the primitives it ends up holding.
type Node struct {
	Bound types.Bound

	// Interior node data. Below covers [Bound.Min, Split] and Above covers
	// [Split, Bound.Max] along Axis.
	Axis  types.Axis
	Split float32
	Below *Node
	Above *Node

	// Leaf node data. May be empty.
	Primitives []int

	leaf bool
}

func newLeaf(bound types.Bound, prims []int) *Node {
	return &Node{
		Bound:      bound,
		Primitives: prims,
		leaf:       true,
	}
}

func newInterior(bound types.Bound, axis types.Axis, split float32, below, above *Node) *Node {
	return &Node{
		Bound: bound,
		Axis:  axis,
		Split: split,
		Below: below,
		Above: above,
	}
}

// Check whether this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// Visit all leaves in below-then-above order together with their depth.
func (n *Node) walkLeaves(depth int, fn func(leaf *Node, depth int)) {
	if n.leaf {
		fn(n, depth)
		return
	}
	n.Below.walkLeaves(depth+1, fn)
	n.Above.walkLeaves(depth+1, fn)
}
