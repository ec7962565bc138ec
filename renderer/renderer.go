package renderer

import (
	"context"
	"image"
	"time"

	"github.com/achilleasa/kdaccel/asset/scene"
	"github.com/achilleasa/kdaccel/log"
	"github.com/achilleasa/kdaccel/tracer"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type Renderer interface {
	// Render frame.
	Render(ctx context.Context) error

	// Get the raw per-pixel tracing results of the last frame.
	Frame() *tracer.Frame

	// Shade the last frame using the configured mode.
	Image() image.Image

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

// The default renderer splits each frame into row blocks and traces them
// concurrently using a pool of CPU tracers.
type defaultRenderer struct {
	logger log.Logger

	scene     *scene.Scene
	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer
	frame     *tracer.Frame
	options   Options

	blockAssignments []uint32
	stats            FrameStats
}

// Create a new default renderer using the specified block scheduler.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	switch {
	case sc == nil || sc.Tree == nil:
		return nil, ErrSceneNotDefined
	case sc.Camera == nil:
		return nil, ErrCameraNotDefined
	case opts.NumTracers <= 0:
		return nil, ErrNoTracers
	case opts.FrameW == 0 || opts.FrameH == 0:
		return nil, errors.Errorf("renderer: invalid frame dimensions %dx%d", opts.FrameW, opts.FrameH)
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		scene:     sc,
		scheduler: scheduler,
		frame:     tracer.NewFrame(opts.FrameW, opts.FrameH),
		options:   opts,
	}

	// Update projection matrix
	sc.Camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	for idx := 0; idx < opts.NumTracers; idx++ {
		tr := tracer.NewCPUTracer(idx)
		if err := tr.Setup(sc, r.frame); err != nil {
			r.Close()
			return nil, errors.Wrapf(err, "renderer: could not set up tracer %q", tr.Id())
		}
		r.tracers = append(r.tracers, tr)
	}
	r.logger.Infof("attached %d tracers", len(r.tracers))

	return r, nil
}

func (r *defaultRenderer) Render(ctx context.Context) error {
	start := time.Now()
	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)

	group, groupCtx := errgroup.WithContext(ctx)
	var blockY uint32
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}

		tr := tr
		req := tracer.BlockRequest{BlockY: blockY, BlockH: blockH}
		group.Go(func() error {
			return tr.Trace(groupCtx, req)
		})
		blockY += blockH
	}

	if err := group.Wait(); err != nil {
		if cause := errors.Cause(err); cause == context.Canceled || cause == context.DeadlineExceeded {
			return ErrInterrupted
		}
		return err
	}

	r.updateStats(time.Since(start))
	r.logger.Debugf("rendered %dx%d frame in %s", r.options.FrameW, r.options.FrameH, r.stats.RenderTime)
	return nil
}

func (r *defaultRenderer) updateStats(renderTime time.Duration) {
	r.stats = FrameStats{
		Tracers:    make([]TracerStat, 0, len(r.tracers)),
		RenderTime: renderTime,
	}

	for idx, tr := range r.tracers {
		if r.blockAssignments[idx] == 0 {
			continue
		}
		trStats := tr.Stats()
		r.stats.Tracers = append(r.stats.Tracers, TracerStat{
			Id:           tr.Id(),
			BlockH:       trStats.BlockH,
			FramePercent: 100.0 * float32(trStats.BlockH) / float32(r.options.FrameH),
			RenderTime:   trStats.BlockTime,
			Rays:         trStats.Rays,
			Hits:         trStats.Hits,
		})
		r.stats.Rays += trStats.Rays
		r.stats.Hits += trStats.Hits
	}

	if r.options.Metrics != nil {
		r.options.Metrics.ObserveFrame(renderTime, r.stats.Rays, r.stats.Hits)
	}
}

func (r *defaultRenderer) Frame() *tracer.Frame {
	return r.frame
}

func (r *defaultRenderer) Image() image.Image {
	return Shade(r.frame, r.options.Mode)
}

func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}
