package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/achilleasa/kdaccel/config"
	"github.com/achilleasa/kdaccel/renderer"
	"github.com/achilleasa/kdaccel/tracer"
	"github.com/urfave/cli"
)

// Render a depth or normal image of the scene through the kd-tree.
func RenderFrame(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)

	sc, m, err := loadScene(ctx, cfg)
	if err != nil {
		return err
	}

	var scheduler tracer.BlockScheduler
	switch cfg.Render.Scheduler {
	case config.SchedulerNaive:
		scheduler = tracer.NewNaiveScheduler()
	default:
		scheduler = tracer.NewPerfectScheduler()
	}

	opts := renderer.OptionsFromConfig(cfg.Render)
	opts.Metrics = m

	// Create renderer
	r, err := renderer.NewDefault(sc, scheduler, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %dx%d frame (mode: %s)", opts.FrameW, opts.FrameH, opts.Mode)
	if err = r.Render(renderCtx); err != nil {
		return err
	}

	// Display stats
	displayFrameStats(r.Stats())

	if err = renderer.Save(r.Image(), cfg.Render.Output); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", cfg.Render.Output)

	return writeMetrics(cfg, m)
}

func displayFrameStats(stats renderer.FrameStats) {
	logger.Noticef("frame statistics\n%s", stats.Table())
}

// Plot the kd-tree leaves projected onto a plane.
func PlotTree(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)

	axes, err := renderer.ParseAxes(ctx.String("axes"))
	if err != nil {
		return err
	}

	sc, m, err := loadScene(ctx, cfg)
	if err != nil {
		return err
	}

	img, err := renderer.PlotLeaves(sc.Tree, axes, ctx.Int("size"))
	if err != nil {
		return err
	}

	outFile := ctx.String("out")
	if err = renderer.Save(img, outFile); err != nil {
		return err
	}
	logger.Noticef("wrote %s leaf plot to %s", ctx.String("axes"), outFile)

	return writeMetrics(cfg, m)
}
