package utils

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ─── Section configs ────────────────────────────────────────────────────

type RunConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	FailFast bool   `yaml:"fail_fast"` // stop at the first failing file
}

type ResampleConfig struct {
	TargetHz   float64 `yaml:"target_hz"`
	Duplicates string  `yaml:"duplicates"` // "keep-last", "keep-first" or "mean"
}

type CSVStorageConfig struct {
	BufferSizeKB int `yaml:"buffer_size_kb"`
}

type StorageConfig struct {
	InputDir  string           `yaml:"input_dir"`
	OutputDir string           `yaml:"output_dir"`
	CSV       CSVStorageConfig `yaml:"csv"`
}

// GroupConfig binds a filename glob to the label its files receive.
type GroupConfig struct {
	Pattern string `yaml:"pattern"`
	Label   string `yaml:"label"`
}

type FeaturesConfig struct {
	InputDir   string `yaml:"input_dir"` // resampled files
	OutputFile string `yaml:"output_file"`
	WindowSize int    `yaml:"window_size"`
	StepSize   int    `yaml:"step_size"`
}

type PlotConfig struct {
	InputDir  string   `yaml:"input_dir"`
	OutputDir string   `yaml:"output_dir"`
	Groups    []string `yaml:"groups"` // labels to render
	WidthIn   float64  `yaml:"width_in"`
	HeightIn  float64  `yaml:"height_in"`
}

// PipelineConfig is the top-level structure for resampler.yaml.
type PipelineConfig struct {
	Pipeline RunConfig      `yaml:"pipeline"`
	Resample ResampleConfig `yaml:"resample"`
	Storage  StorageConfig  `yaml:"storage"`
	Groups   []GroupConfig  `yaml:"groups"`
	Features FeaturesConfig `yaml:"features"`
	Plot     PlotConfig     `yaml:"plot"`
}

// DefaultPipelineConfig returns the stock setup:
// scan the working directory, 100 Hz, write into resampled/.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Pipeline: RunConfig{LogLevel: "info"},
		Resample: ResampleConfig{TargetHz: 100, Duplicates: "keep-last"},
		Storage: StorageConfig{
			InputDir:  ".",
			OutputDir: "resampled",
			CSV:       CSVStorageConfig{BufferSizeKB: 256},
		},
		Groups: []GroupConfig{
			{Pattern: "Normal_kørsel*.csv", Label: "normal"},
			{Pattern: "Udryknings_kørsel*.csv", Label: "udrykning"},
		},
		Features: FeaturesConfig{
			InputDir:   "resampled",
			OutputFile: filepath.Join("features", "features.csv"),
			WindowSize: 200,
			StepSize:   100,
		},
		Plot: PlotConfig{
			InputDir:  ".",
			OutputDir: "plots",
			Groups:    []string{"normal"},
			WidthIn:   12,
			HeightIn:  4,
		},
	}
}

// ─── Loaders ────────────────────────────────────────────────────────────

// LoadPipelineConfig reads resampler.yaml over the defaults. An empty path
// returns the defaults unchanged.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cfg := DefaultPipelineConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse pipeline config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyOverrides copies every key the user set on v (bound flags or
// RESAMPLER_* environment variables) into c. Keys left unset keep the
// file or default value.
func (c *PipelineConfig) ApplyOverrides(v *viper.Viper) error {
	if v == nil {
		return nil
	}
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *float64) {
		if v.IsSet(key) {
			*dst = v.GetFloat64(key)
		}
	}
	integer := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	str("pipeline.log_level", &c.Pipeline.LogLevel)
	str("pipeline.log_file", &c.Pipeline.LogFile)
	if v.IsSet("pipeline.fail_fast") {
		c.Pipeline.FailFast = v.GetBool("pipeline.fail_fast")
	}

	num("resample.target_hz", &c.Resample.TargetHz)
	str("resample.duplicates", &c.Resample.Duplicates)

	str("storage.input_dir", &c.Storage.InputDir)
	str("storage.output_dir", &c.Storage.OutputDir)
	integer("storage.csv.buffer_size_kb", &c.Storage.CSV.BufferSizeKB)

	str("features.input_dir", &c.Features.InputDir)
	str("features.output_file", &c.Features.OutputFile)
	integer("features.window_size", &c.Features.WindowSize)
	integer("features.step_size", &c.Features.StepSize)

	str("plot.input_dir", &c.Plot.InputDir)
	str("plot.output_dir", &c.Plot.OutputDir)
	if v.IsSet("plot.groups") {
		c.Plot.Groups = v.GetStringSlice("plot.groups")
	}

	return c.Validate()
}

// Validate rejects values no run can use.
func (c *PipelineConfig) Validate() error {
	var errs []error
	// At 1 kHz and above millisecond rounding can merge neighbouring grid points.
	if math.IsNaN(c.Resample.TargetHz) || c.Resample.TargetHz <= 0 || c.Resample.TargetHz >= 1000 {
		errs = append(errs, fmt.Errorf("resample.target_hz must be in (0, 1000), got %v", c.Resample.TargetHz))
	}
	switch c.Resample.Duplicates {
	case "keep-last", "keep-first", "mean":
	default:
		errs = append(errs, fmt.Errorf("resample.duplicates: unknown policy %q", c.Resample.Duplicates))
	}
	if c.Storage.OutputDir == "" {
		errs = append(errs, errors.New("storage.output_dir is empty"))
	}
	if len(c.Groups) == 0 {
		errs = append(errs, errors.New("groups: at least one group is required"))
	}
	for i, g := range c.Groups {
		if g.Pattern == "" || g.Label == "" {
			errs = append(errs, fmt.Errorf("groups[%d]: pattern and label are required", i))
			continue
		}
		if _, err := filepath.Match(g.Pattern, ""); err != nil {
			errs = append(errs, fmt.Errorf("groups[%d]: pattern %q: %w", i, g.Pattern, err))
		}
	}
	if c.Features.WindowSize <= 0 || c.Features.StepSize <= 0 {
		errs = append(errs, fmt.Errorf("features: window_size and step_size must be positive, got %d/%d",
			c.Features.WindowSize, c.Features.StepSize))
	}
	if c.Plot.WidthIn <= 0 || c.Plot.HeightIn <= 0 {
		errs = append(errs, fmt.Errorf("plot: width_in and height_in must be positive"))
	}
	return errors.Join(errs...)
}

// Labels returns the labels of all configured groups, in order.
func (c *PipelineConfig) Labels() []string {
	out := make([]string, 0, len(c.Groups))
	for _, g := range c.Groups {
		out = append(out, g.Label)
	}
	return out
}

// Dump renders the effective configuration as YAML.
func (c *PipelineConfig) Dump() ([]byte, error) {
	return yaml.Marshal(c)
}
