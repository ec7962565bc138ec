package kdtree

import "github.com/pkg/errors"

// Tree construction parameters.
type Options struct {
	// The maximum tree depth. A non-positive value selects
	// round(8 + 1.3 * log2(primitive count)).
	MaxDepth int

	// Nodes with this many primitives or less become leaves.
	MaxLeafSize int

	// A bonus in [0, 1] that scales down the cost of splits which leave
	// one side of the node empty.
	EmptyBonus float32
}

// Get the default construction parameters.
func DefaultOptions() Options {
	return Options{
		MaxDepth:    0,
		MaxLeafSize: 4,
		EmptyBonus:  0.5,
	}
}

// Check that the options describe a buildable tree.
func (o Options) Validate() error {
	if o.MaxLeafSize < 0 {
		return errors.Errorf("kdtree: max leaf size must be >= 0; got %d", o.MaxLeafSize)
	}
	if o.EmptyBonus < 0 || o.EmptyBonus > 1 {
		return errors.Errorf("kdtree: empty bonus must be in [0, 1]; got %v", o.EmptyBonus)
	}
	return nil
}
