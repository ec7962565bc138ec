package tracer

import (
	"context"
	"time"

	"github.com/achilleasa/kdaccel/asset/scene"
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block
	BlockTime time.Duration

	// Traced primary rays and the rays among them that hit a shape.
	Rays uint64
	Hits uint64
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracer's computation speed estimate compared to a
	// baseline (single cpu) implementation.
	SpeedEstimate() float32

	// Setup the tracer to render sc into frame.
	Setup(sc *scene.Scene, frame *Frame) error

	// Trace a block of frame rows. Tracers render disjoint row ranges so
	// blocks may be traced concurrently.
	Trace(ctx context.Context, req BlockRequest) error

	// Retrieve last block statistics.
	Stats() *Stats
}
