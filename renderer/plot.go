package renderer

import (
	"image"
	"math"
	"strings"

	"github.com/achilleasa/kdaccel/accel/kdtree"
	"github.com/achilleasa/kdaccel/types"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

const plotMargin = 8

// Parse a two letter projection plane such as "xz" into a pair of axes.
func ParseAxes(axes string) ([2]types.Axis, error) {
	var out [2]types.Axis
	axes = strings.ToLower(axes)
	if len(axes) != 2 || axes[0] == axes[1] {
		return out, errors.Errorf("renderer: invalid projection axes %q; expected two distinct axes out of x, y and z", axes)
	}

	for i := 0; i < 2; i++ {
		switch axes[i] {
		case 'x':
			out[i] = types.XAxis
		case 'y':
			out[i] = types.YAxis
		case 'z':
			out[i] = types.ZAxis
		default:
			return out, errors.Errorf("renderer: invalid projection axis %q", axes[i])
		}
	}
	return out, nil
}

// Draw the bounds of every tree leaf projected onto the plane spanned by axes.
// The longest side of the tree bound is scaled to size pixels. Leaves are
// colored by depth; empty leaves are drawn dashed.
func PlotLeaves(tree *kdtree.Tree, axes [2]types.Axis, size int) (image.Image, error) {
	if tree.Empty() {
		return nil, ErrEmptyTree
	}

	bound := tree.Bound()
	extent := bound.Diagonal()
	u, v := axes[0], axes[1]
	longest := math.Max(float64(extent[u]), float64(extent[v]))
	if longest <= 0 {
		longest = 1
	}
	scale := float64(size) / longest

	width := int(math.Ceil(float64(extent[u])*scale)) + 2*plotMargin
	height := int(math.Ceil(float64(extent[v])*scale)) + 2*plotMargin
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	maxDepth := tree.MaxDepth()
	if maxDepth < 1 {
		maxDepth = 1
	}

	// The image y axis points down; flip so that v grows upwards.
	project := func(p types.Vec3) (float64, float64) {
		x := plotMargin + float64(p[u]-bound.Min[u])*scale
		y := float64(height) - plotMargin - float64(p[v]-bound.Min[v])*scale
		return x, y
	}

	dc.SetLineWidth(1)
	tree.WalkLeaves(func(leaf *kdtree.Node, depth int) {
		x0, y0 := project(leaf.Bound.Min)
		x1, y1 := project(leaf.Bound.Max)

		hue := 240.0 * (1.0 - float64(depth)/float64(maxDepth))
		c := colorful.Hsv(hue, 0.8, 0.8)
		dc.SetRGB(c.R, c.G, c.B)
		if len(leaf.Primitives) == 0 {
			dc.SetDash(4, 2)
		} else {
			dc.SetDash()
		}
		dc.DrawRectangle(x0, y1, x1-x0, y0-y1)
		dc.Stroke()
	})

	return dc.Image(), nil
}
