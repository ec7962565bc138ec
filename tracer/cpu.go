package tracer

import (
	"context"
	"fmt"
	"time"

	"github.com/achilleasa/kdaccel/asset/scene"
	"github.com/achilleasa/kdaccel/log"
	"github.com/pkg/errors"
)

var (
	ErrNotSetup     = errors.New("tracer: not set up")
	ErrInvalidBlock = errors.New("tracer: block exceeds frame bounds")
)

// A tracer that casts one primary ray per pixel through the scene kd-tree.
type cpuTracer struct {
	logger log.Logger
	id     string

	scene *scene.Scene
	frame *Frame
	stats Stats
}

// Create a new CPU tracer.
func NewCPUTracer(index int) Tracer {
	id := fmt.Sprintf("cpu-%d", index)
	return &cpuTracer{
		logger: log.New(id),
		id:     id,
	}
}

func (tr *cpuTracer) Id() string {
	return tr.id
}

func (tr *cpuTracer) Close() {
	tr.scene = nil
	tr.frame = nil
}

// All CPU tracers run at the baseline speed.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return 1.0
}

func (tr *cpuTracer) Setup(sc *scene.Scene, frame *Frame) error {
	switch {
	case sc == nil || sc.Tree == nil:
		return errors.New("tracer: scene has no kd-tree")
	case sc.Camera == nil:
		return errors.New("tracer: scene has no camera")
	case frame == nil || frame.Width == 0 || frame.Height == 0:
		return errors.New("tracer: invalid frame")
	}

	tr.scene = sc
	tr.frame = frame
	return nil
}

func (tr *cpuTracer) Trace(ctx context.Context, req BlockRequest) error {
	if tr.scene == nil {
		return ErrNotSetup
	}
	if req.BlockY+req.BlockH > tr.frame.Height {
		return errors.Wrapf(ErrInvalidBlock, "rows [%d, %d) of %d", req.BlockY, req.BlockY+req.BlockH, tr.frame.Height)
	}

	start := time.Now()
	tr.stats = Stats{BlockH: req.BlockH}

	tree := tr.scene.Tree
	camera := tr.scene.Camera
	invW := 1.0 / float32(tr.frame.Width)
	invH := 1.0 / float32(tr.frame.Height)
	for y := req.BlockY; y < req.BlockY+req.BlockH; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		v := (float32(y) + 0.5) * invH
		for x := uint32(0); x < tr.frame.Width; x++ {
			ray := camera.Ray((float32(x)+0.5)*invW, v)
			tr.stats.Rays++
			if hit, ok := tree.Nearest(ray); ok {
				tr.stats.Hits++
				tr.frame.record(x, y, hit)
			} else {
				tr.frame.recordMiss(x, y)
			}
		}
	}

	tr.stats.BlockTime = time.Since(start)
	tr.logger.Debugf("traced rows [%d, %d) in %s", req.BlockY, req.BlockY+req.BlockH, tr.stats.BlockTime)
	return nil
}

func (tr *cpuTracer) Stats() *Stats {
	return &tr.stats
}
