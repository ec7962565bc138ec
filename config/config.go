// Package config defines the options that control tree construction and
// rendering. Options can be loaded from a YAML file and are validated before
// use.
package config

import (
	"os"
	"runtime"

	"github.com/achilleasa/kdaccel/accel/kdtree"
	"github.com/achilleasa/kdaccel/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Supported render modes.
const (
	ModeDepth   = "depth"
	ModeNormals = "normals"
)

// Supported block schedulers.
const (
	SchedulerPerfect = "perfect"
	SchedulerNaive   = "naive"
)

// Options for kd-tree construction.
type BuildOptions struct {
	// Maximum tree depth; values <= 0 select a depth based on the primitive count.
	MaxDepth int `yaml:"maxDepth"`

	// Nodes with at most this many primitives become leaves.
	MaxLeafSize int `yaml:"maxLeafSize"`

	// Cost discount in [0, 1] for splits that leave one side empty.
	EmptyBonus float32 `yaml:"emptyBonus"`
}

// Options for rendering frames.
type RenderOptions struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Number of CPU tracers; 0 selects one per available CPU.
	Workers int `yaml:"workers"`

	Scheduler string `yaml:"scheduler"`
	Mode      string `yaml:"mode"`
	Output    string `yaml:"output"`
}

type Config struct {
	LogLevel string `yaml:"logLevel"`

	// Optional path for a prometheus text-format metrics file.
	MetricsFile string `yaml:"metricsFile"`

	Build  BuildOptions  `yaml:"build"`
	Render RenderOptions `yaml:"render"`
}

// Get the default build options.
func DefaultBuildOptions() BuildOptions {
	opts := kdtree.DefaultOptions()
	return BuildOptions{
		MaxDepth:    opts.MaxDepth,
		MaxLeafSize: opts.MaxLeafSize,
		EmptyBonus:  opts.EmptyBonus,
	}
}

// Get the default render options.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Width:     512,
		Height:    512,
		Scheduler: SchedulerPerfect,
		Mode:      ModeDepth,
		Output:    "frame.png",
	}
}

// Get a configuration populated with default values.
func Default() *Config {
	return &Config{
		LogLevel: "notice",
		Build:    DefaultBuildOptions(),
		Render:   DefaultRenderOptions(),
	}
}

// Load configuration from a YAML file. Settings missing from the file retain
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: could not read %q", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Parse configuration from YAML data. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrap(err, "invalid yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate all configuration sections.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "logLevel")
	}
	if err := c.Build.Validate(); err != nil {
		return errors.Wrap(err, "build")
	}
	if err := c.Render.Validate(); err != nil {
		return errors.Wrap(err, "render")
	}
	return nil
}

// Serialize the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (o BuildOptions) Validate() error {
	return o.TreeOptions().Validate()
}

// Convert to kd-tree construction options.
func (o BuildOptions) TreeOptions() kdtree.Options {
	return kdtree.Options{
		MaxDepth:    o.MaxDepth,
		MaxLeafSize: o.MaxLeafSize,
		EmptyBonus:  o.EmptyBonus,
	}
}

func (o RenderOptions) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.Errorf("frame dimensions must be positive; got %dx%d", o.Width, o.Height)
	}
	if o.Workers < 0 {
		return errors.Errorf("workers must not be negative; got %d", o.Workers)
	}
	switch o.Scheduler {
	case SchedulerPerfect, SchedulerNaive:
	default:
		return errors.Errorf("unsupported scheduler %q; expected %q or %q", o.Scheduler, SchedulerPerfect, SchedulerNaive)
	}
	switch o.Mode {
	case ModeDepth, ModeNormals:
	default:
		return errors.Errorf("unsupported mode %q; expected %q or %q", o.Mode, ModeDepth, ModeNormals)
	}
	if o.Output == "" {
		return errors.New("output file not specified")
	}
	return nil
}

// Get the number of tracers to run.
func (o RenderOptions) NumWorkers() int {
	if o.Workers == 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}
