package cmd

import (
	"strconv"
	"strings"

	"github.com/achilleasa/kdaccel/asset/compiler"
	"github.com/achilleasa/kdaccel/asset/scene"
	"github.com/achilleasa/kdaccel/asset/scene/reader"
	"github.com/achilleasa/kdaccel/config"
	"github.com/achilleasa/kdaccel/metrics"
	"github.com/achilleasa/kdaccel/types"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Flags that tune kd-tree construction. They are shared by all commands that
// load a scene.
var BuildFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "max-depth",
		Usage: "max kd-tree depth; 0 selects a depth based on the primitive count",
	},
	cli.IntFlag{
		Name:  "max-leaf-size",
		Value: config.DefaultBuildOptions().MaxLeafSize,
		Usage: "max primitives per leaf before a split is attempted",
	},
	cli.Float64Flag{
		Name:  "empty-bonus",
		Value: float64(config.DefaultBuildOptions().EmptyBonus),
		Usage: "cost discount in [0, 1] for splits that leave one side empty",
	},
}

// Load the configuration file (if one is specified) and override its values
// with any explicitly set command line flags.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if ctx.GlobalIsSet("metrics") {
		cfg.MetricsFile = ctx.GlobalString("metrics")
	}

	if ctx.IsSet("max-depth") {
		cfg.Build.MaxDepth = ctx.Int("max-depth")
	}
	if ctx.IsSet("max-leaf-size") {
		cfg.Build.MaxLeafSize = ctx.Int("max-leaf-size")
	}
	if ctx.IsSet("empty-bonus") {
		cfg.Build.EmptyBonus = float32(ctx.Float64("empty-bonus"))
	}

	if ctx.IsSet("width") {
		cfg.Render.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Render.Height = ctx.Int("height")
	}
	if ctx.IsSet("workers") {
		cfg.Render.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("scheduler") {
		cfg.Render.Scheduler = ctx.String("scheduler")
	}
	if ctx.IsSet("mode") {
		cfg.Render.Mode = ctx.String("mode")
	}
	if ctx.IsSet("out") {
		cfg.Render.Output = ctx.String("out")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse, compile and partition the scene file passed as the command argument.
// Build statistics are recorded in the returned metric set.
func loadScene(ctx *cli.Context, cfg *config.Config) (*scene.Scene, *metrics.Metrics, error) {
	if ctx.NArg() != 1 {
		return nil, nil, errors.New("missing scene file argument")
	}

	parsedScene, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return nil, nil, err
	}

	sc, err := compiler.Compile(parsedScene, cfg.Build.TreeOptions())
	if err != nil {
		return nil, nil, err
	}

	m := metrics.New()
	m.ObserveBuild(sc.Tree.Stats())
	return sc, m, nil
}

// Write collected metrics if a metrics file has been configured.
func writeMetrics(cfg *config.Config, m *metrics.Metrics) error {
	if cfg.MetricsFile == "" || m == nil {
		return nil
	}
	if err := m.WriteToTextfile(cfg.MetricsFile); err != nil {
		return err
	}
	logger.Infof("wrote metrics to %s", cfg.MetricsFile)
	return nil
}

// Parse a comma separated vector such as "1,0,-2.5".
func parseVec3(flagName, value string) (types.Vec3, error) {
	var v types.Vec3
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return v, errors.Errorf("--%s: expected 3 comma separated values; got %q", flagName, value)
	}

	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return v, errors.Wrapf(err, "--%s: invalid component %q", flagName, part)
		}
		v[i] = float32(f)
	}
	return v, nil
}
