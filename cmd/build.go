package cmd

import (
	"os"

	"github.com/urfave/cli"
)

// Build the kd-tree for a scene and display scene and tree statistics.
func BuildTree(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)

	sc, m, err := loadScene(ctx, cfg)
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sc.Stats())
	logger.Noticef("kd-tree statistics:\n%s", sc.Tree.Stats().Table())

	return writeMetrics(cfg, m)
}

// Print the kd-tree leaf listing or its split planes.
func DumpTree(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)

	sc, m, err := loadScene(ctx, cfg)
	if err != nil {
		return err
	}

	if ctx.Bool("splits") {
		err = sc.Tree.DumpSplits(os.Stdout)
	} else {
		err = sc.Tree.Dump(os.Stdout)
	}
	if err != nil {
		return err
	}

	return writeMetrics(cfg, m)
}

// Print the effective configuration after applying command line overrides.
func ShowConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
