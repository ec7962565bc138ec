package kdtree

import (
	"math"
	"sort"

	"github.com/achilleasa/kdaccel/types"
)

// The best split found so far while sweeping the candidate axes.
type splitCandidate struct {
	axis   types.Axis
	offset int
	cost   float32
}

type builder struct {
	// Primitive bounds captured when the build started.
	bounds []types.Bound

	maxLeafSize int
	emptyBonus  float32

	// Per-axis edge scratch buffers sized for the full primitive set. Each
	// node re-sorts the prefix it needs; the winning axis buffer must not be
	// touched until the node's primitives have been partitioned.
	edges [3]edgeList

	stats Stats
}

func newBuilder(bounds []types.Bound, maxLeafSize int, emptyBonus float32) *builder {
	b := &builder{
		bounds:      bounds,
		maxLeafSize: maxLeafSize,
		emptyBonus:  emptyBonus,
		stats: Stats{
			Primitives: len(bounds),
		},
	}
	for axis := range b.edges {
		b.edges[axis] = make(edgeList, 2*len(bounds))
	}
	return b
}

// Build a node covering prims and bound. Depth is the number of levels still allowed
// while level is the distance from the root.
func (b *builder) build(prims []int, bound types.Bound, depth, level int) *Node {
	b.stats.Nodes++
	if level > b.stats.MaxDepth {
		b.stats.MaxDepth = level
	}

	if len(prims) <= b.maxLeafSize || depth == 0 {
		return b.createLeaf(bound, prims)
	}

	best, found := b.findSplit(prims, bound)
	if !found {
		return b.createLeaf(bound, prims)
	}

	// Primitives whose start edge precedes the split edge overlap the lower
	// half; those whose end edge follows it overlap the upper half.
	// Primitives straddling the plane end up in both lists.
	edges := b.edges[best.axis]
	primsBelow := make([]int, 0, best.offset)
	for i := 0; i < best.offset; i++ {
		if edges[i].start {
			primsBelow = append(primsBelow, edges[i].prim)
		}
	}
	primsAbove := make([]int, 0, 2*len(prims)-best.offset)
	for i := best.offset + 1; i < 2*len(prims); i++ {
		if !edges[i].start {
			primsAbove = append(primsAbove, edges[i].prim)
		}
	}

	split := edges[best.offset].t
	belowBound, aboveBound := bound, bound
	belowBound.Max[best.axis] = split
	aboveBound.Min[best.axis] = split

	b.stats.InteriorNodes++
	below := b.build(primsBelow, belowBound, depth-1, level+1)
	above := b.build(primsAbove, aboveBound, depth-1, level+1)
	return newInterior(bound, best.axis, split, below, above)
}

func (b *builder) createLeaf(bound types.Bound, prims []int) *Node {
	b.stats.Leaves++
	b.stats.PrimitiveRefs += len(prims)
	if len(prims) == 0 {
		b.stats.EmptyLeaves++
	}
	if len(prims) > b.stats.MaxLeafPrimitives {
		b.stats.MaxLeafPrimitives = len(prims)
	}
	return newLeaf(bound, prims)
}

// Sweep all three axes starting from the longest one and return the cheapest
// split. Every axis is always evaluated; a later axis only replaces the
// current best if it is strictly cheaper.
func (b *builder) findSplit(prims []int, bound types.Bound) (splitCandidate, bool) {
	totalSA := bound.SurfaceArea()
	if !(totalSA > 0) {
		return splitCandidate{}, false
	}

	best := splitCandidate{
		offset: -1,
		cost:   float32(math.Inf(1)),
	}

	axis := bound.MaxExtent()
	for attempt := 0; attempt < 3; attempt++ {
		b.sweep(prims, bound, axis, 1.0/totalSA, &best)
		axis = axis.Next()
	}

	return best, best.offset >= 0
}

// Evaluate the SAH cost of splitting at every edge that lies strictly inside
// the bound along axis:
//
// cost = (1 - emptyBonus) * (pBelow * nBelow + pAbove * nAbove)
//
// where pBelow and pAbove are the surface areas of the two halves relative to
// the full bound. The bonus only applies when one side receives no primitives.
func (b *builder) sweep(prims []int, bound types.Bound, axis types.Axis, invTotalSA float32, best *splitCandidate) {
	edges := b.edges[axis][:2*len(prims)]
	for i, prim := range prims {
		primBound := b.bounds[prim]
		edges[2*i] = boundEdge{t: primBound.Min[axis], prim: prim, start: true}
		edges[2*i+1] = boundEdge{t: primBound.Max[axis], prim: prim, start: false}
	}
	sort.Sort(edges)

	diag := bound.Diagonal()
	axis0, axis1 := axis.Next(), axis.Next().Next()
	capArea := diag[axis0] * diag[axis1]
	capPerimeter := diag[axis0] + diag[axis1]

	nBelow, nAbove := 0, len(prims)
	for i, edge := range edges {
		if !edge.start {
			nAbove--
		}

		if edge.t > bound.Min[axis] && edge.t < bound.Max[axis] {
			belowSA := 2 * (capArea + (edge.t-bound.Min[axis])*capPerimeter)
			aboveSA := 2 * (capArea + (bound.Max[axis]-edge.t)*capPerimeter)
			pBelow := belowSA * invTotalSA
			pAbove := aboveSA * invTotalSA

			var eb float32
			if nBelow == 0 || nAbove == 0 {
				eb = b.emptyBonus
			}
			cost := (1 - eb) * (pBelow*float32(nBelow) + pAbove*float32(nAbove))
			if cost < best.cost {
				best.axis = axis
				best.offset = i
				best.cost = cost
			}
		}

		if edge.start {
			nBelow++
		}
	}
}
