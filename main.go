package main

import (
	"os"

	"github.com/achilleasa/kdaccel/cmd"
	"github.com/achilleasa/kdaccel/config"
	"github.com/achilleasa/kdaccel/log"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	renderDefaults := config.DefaultRenderOptions()

	app := cli.NewApp()
	app.Name = "kdaccel"
	app.Usage = "build and query SAH kd-trees over scene geometry"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load build and render options from a YAML file",
		},
		cli.StringFlag{
			Name:  "metrics",
			Usage: "write build and query metrics to this file in prometheus text format",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build the kd-tree for a scene and display its statistics",
			Description: `
Parse a scene definition from a wavefront obj file (or a zip bundle containing
one), flatten its meshes, spheres and boxes into world space shapes and
partition them using a surface area heuristic kd-tree.`,
			ArgsUsage: "scene_file.obj",
			Flags:     cmd.BuildFlags,
			Action:    cmd.BuildTree,
		},
		{
			Name:      "dump",
			Usage:     "print the primitives stored in each kd-tree leaf",
			ArgsUsage: "scene_file.obj",
			Flags: append([]cli.Flag{
				cli.BoolFlag{
					Name:  "splits",
					Usage: "print the split planes instead of the leaf listing",
				},
			}, cmd.BuildFlags...),
			Action: cmd.DumpTree,
		},
		{
			Name:      "trace",
			Usage:     "find the nearest primitive hit by a ray",
			ArgsUsage: "scene_file.obj",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "origin",
					Value: "0,0,0",
					Usage: "ray origin",
				},
				cli.StringFlag{
					Name:  "dir",
					Value: "0,0,-1",
					Usage: "ray direction",
				},
				cli.Float64Flag{
					Name:  "tmin",
					Usage: "ignore hits closer than this distance",
				},
				cli.Float64Flag{
					Name:  "tmax",
					Usage: "ignore hits further than this distance",
				},
			}, cmd.BuildFlags...),
			Action: cmd.TraceRay,
		},
		{
			Name:  "probe",
			Usage: "test a box for overlap with the kd-tree primitives or a point for leaf containment",
			Description: `
Pass --min and --max to check whether the box they span overlaps the bound of
any primitive stored in an overlapping leaf. Pass --point to check whether the
point lies inside a leaf cell; empty leaves count.`,
			ArgsUsage: "scene_file.obj",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "min",
					Usage: "box min corner",
				},
				cli.StringFlag{
					Name:  "max",
					Usage: "box max corner",
				},
				cli.StringFlag{
					Name:  "point",
					Usage: "point to locate",
				},
			}, cmd.BuildFlags...),
			Action: cmd.Probe,
		},
		{
			Name:      "render",
			Usage:     "render a depth or normal image of the scene",
			ArgsUsage: "scene_file.obj",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: renderDefaults.Width,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: renderDefaults.Height,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of tracers; 0 uses one tracer per CPU",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: renderDefaults.Scheduler,
					Usage: "block scheduler (perfect or naive)",
				},
				cli.StringFlag{
					Name:  "mode",
					Value: renderDefaults.Mode,
					Usage: "shading mode (depth or normals)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: renderDefaults.Output,
					Usage: "image filename for the rendered frame",
				},
			}, cmd.BuildFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:      "plot",
			Usage:     "draw the kd-tree leaf bounds projected onto a plane",
			ArgsUsage: "scene_file.obj",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "axes",
					Value: "xz",
					Usage: "projection plane",
				},
				cli.IntFlag{
					Name:  "size",
					Value: 1024,
					Usage: "image size in pixels along the longest projected side",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "leaves.png",
					Usage: "image filename for the plot",
				},
			}, cmd.BuildFlags...),
			Action: cmd.PlotTree,
		},
		{
			Name:   "config",
			Usage:  "print the effective configuration",
			Flags:  cmd.BuildFlags,
			Action: cmd.ShowConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("kdaccel").Error(err)
		os.Exit(1)
	}
}
