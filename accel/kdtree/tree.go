// Package kdtree implements a kd-tree over the bounds of scene shapes. The tree
// is built with a surface area heuristic and answers nearest-hit ray queries,
// bound overlap queries and point-in-leaf queries.
//
// A Tree borrows its shape slice. Shapes must not be mutated while queries are
// running; after changing shape bounds call Update to rebuild the tree. Queries
// never modify the tree so they may run concurrently with each other, but not
// with Update.
package kdtree

import (
	"math"
	"math/bits"
	"time"

	"github.com/achilleasa/kdaccel/geometry"
	"github.com/achilleasa/kdaccel/log"
	"github.com/achilleasa/kdaccel/types"
)

type Tree struct {
	logger log.Logger

	primitives []geometry.Shape

	// Primitive bounds captured by the last build.
	bounds []types.Bound

	// Nil if the tree was built from an empty primitive set.
	root *Node

	// The union of all primitive bounds.
	bound types.Bound

	maxDepth    int
	maxLeafSize int
	emptyBonus  float32

	stats Stats
}

// Build a kd-tree over a set of primitives.
func New(primitives []geometry.Shape, opts Options) (*Tree, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	t := &Tree{
		logger:      log.New("kdtree"),
		primitives:  primitives,
		maxDepth:    opts.MaxDepth,
		maxLeafSize: opts.MaxLeafSize,
		emptyBonus:  opts.EmptyBonus,
	}
	if t.maxDepth <= 0 {
		t.maxDepth = autoMaxDepth(len(primitives))
	}

	t.build()
	return t, nil
}

// Select a depth limit of round(8 + 1.3 * log2(n)).
func autoMaxDepth(n int) int {
	if n <= 0 {
		return 8
	}
	log2n := bits.Len(uint(n)) - 1
	return int(math.Floor(8 + 1.3*float64(log2n) + 0.5))
}

// Rebuild the tree from the current primitive bounds. The depth and leaf size
// limits selected at construction are preserved.
func (t *Tree) Update() {
	t.build()
}

func (t *Tree) build() {
	start := time.Now()

	t.bounds = make([]types.Bound, len(t.primitives))
	t.bound = types.EmptyBound()
	for index, prim := range t.primitives {
		t.bounds[index] = prim.ObjectBound()
		t.bound = t.bound.Union(t.bounds[index])
	}

	if len(t.primitives) == 0 {
		t.root = nil
		t.stats = Stats{BuildTime: time.Since(start)}
		t.logger.Debug("no primitives; tree is empty")
		return
	}

	prims := make([]int, len(t.primitives))
	for index := range prims {
		prims[index] = index
	}

	b := newBuilder(t.bounds, t.maxLeafSize, t.emptyBonus)
	t.root = b.build(prims, t.bound, t.maxDepth, 0)
	t.stats = b.stats
	t.stats.BuildTime = time.Since(start)

	t.logger.Debugf(
		"kd-tree build time: %d ms, primitives: %d, maxDepth: %d/%d, nodes: %d, leaves: %d (%d empty)",
		t.stats.BuildTime.Nanoseconds()/1e6,
		t.stats.Primitives, t.stats.MaxDepth, t.maxDepth,
		t.stats.Nodes, t.stats.Leaves, t.stats.EmptyLeaves,
	)
}

// Check whether the tree has no root. Queries on an empty tree report no hits.
func (t *Tree) Empty() bool {
	return t.root == nil
}

// Get the root node or nil if the tree is empty.
func (t *Tree) Root() *Node {
	return t.root
}

// Get the union of all primitive bounds.
func (t *Tree) Bound() types.Bound {
	return t.bound
}

// Get the primitive with the given index.
func (t *Tree) Primitive(index int) geometry.Shape {
	return t.primitives[index]
}

// Get the number of primitives the tree was built from.
func (t *Tree) NumPrimitives() int {
	return len(t.primitives)
}

// Get the depth limit used for construction.
func (t *Tree) MaxDepth() int {
	return t.maxDepth
}

// Get the leaf size limit used for construction.
func (t *Tree) MaxLeafSize() int {
	return t.maxLeafSize
}

// Get statistics for the last build.
func (t *Tree) Stats() Stats {
	return t.stats
}
