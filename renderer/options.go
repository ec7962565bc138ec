package renderer

import (
	"github.com/achilleasa/kdaccel/config"
	"github.com/achilleasa/kdaccel/metrics"
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// The number of CPU tracers to split each frame across.
	NumTracers int

	// Shading mode for the rendered image; one of config.ModeDepth or
	// config.ModeNormals.
	Mode string

	// An optional sink for frame metrics.
	Metrics *metrics.Metrics
}

// Convert validated render settings into renderer options.
func OptionsFromConfig(cfg config.RenderOptions) Options {
	return Options{
		FrameW:     uint32(cfg.Width),
		FrameH:     uint32(cfg.Height),
		NumTracers: cfg.NumWorkers(),
		Mode:       cfg.Mode,
	}
}
