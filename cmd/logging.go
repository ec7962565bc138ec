package cmd

import (
	"github.com/achilleasa/kdaccel/config"
	"github.com/achilleasa/kdaccel/log"
	"github.com/urfave/cli"
)

var logger = log.New("kdaccel")

// Apply the configured log level; the -v and -vv flags take precedence.
func setupLogging(ctx *cli.Context, cfg *config.Config) {
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
