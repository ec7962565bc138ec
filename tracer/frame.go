package tracer

import (
	"math"

	"github.com/achilleasa/kdaccel/accel/kdtree"
	"github.com/achilleasa/kdaccel/types"
)

// Per pixel primary ray results stored in row-major order.
type Frame struct {
	Width  uint32
	Height uint32

	// The hit primitive index or -1 for rays that escape the scene.
	Primitives []int32
	Depth      []float32
	Normals    []types.Vec3
}

func NewFrame(width, height uint32) *Frame {
	size := int(width * height)
	f := &Frame{
		Width:      width,
		Height:     height,
		Primitives: make([]int32, size),
		Depth:      make([]float32, size),
		Normals:    make([]types.Vec3, size),
	}
	f.Clear()
	return f
}

// Reset all pixels to misses.
func (f *Frame) Clear() {
	for i := range f.Primitives {
		f.Primitives[i] = -1
		f.Depth[i] = 0
		f.Normals[i] = types.Vec3{}
	}
}

// Check whether the ray through pixel (x, y) hit a shape.
func (f *Frame) IsHit(x, y uint32) bool {
	return f.Primitives[y*f.Width+x] >= 0
}

// Get the min and max depth over all pixels with a hit.
func (f *Frame) DepthRange() (min, max float32, ok bool) {
	min, max = math.MaxFloat32, 0
	for i, prim := range f.Primitives {
		if prim < 0 {
			continue
		}
		ok = true
		if f.Depth[i] < min {
			min = f.Depth[i]
		}
		if f.Depth[i] > max {
			max = f.Depth[i]
		}
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}

func (f *Frame) record(x, y uint32, hit kdtree.Hit) {
	offset := y*f.Width + x
	f.Primitives[offset] = int32(hit.Primitive)
	f.Depth[offset] = hit.T
	f.Normals[offset] = hit.Normal
}

func (f *Frame) recordMiss(x, y uint32) {
	offset := y*f.Width + x
	f.Primitives[offset] = -1
	f.Depth[offset] = 0
	f.Normals[offset] = types.Vec3{}
}
