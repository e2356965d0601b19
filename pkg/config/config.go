// Package config loads estimator settings from TOML. Unset keys keep
// their defaults.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/chazu/lodestar/pkg/constraint"
	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/region"
	"github.com/chazu/lodestar/pkg/sample"
)

// Config is the complete set of tunables.
type Config struct {
	// Seed makes every random draw reproducible. Nil means a fresh seed
	// per session.
	Seed          *uint64       `toml:"seed"`
	DefaultRadius float64       `toml:"default_radius"`
	Estimate      region.Config `toml:"estimate"`
	Scatter       Scatter       `toml:"scatter"`
	Mesh          Mesh          `toml:"mesh"`
}

// Scatter controls the point cloud drawn around the trilateration seed.
type Scatter struct {
	Samples int     `toml:"samples"`
	K       float64 `toml:"k"`
	// MaxPlotPoints caps clouds handed to display collaborators. The
	// estimator never applies it on its own.
	MaxPlotPoints int `toml:"max_plot_points"`
}

// Mesh controls region tessellation.
type Mesh struct {
	Cells int `toml:"cells"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultRadius: constraint.DefaultRadius,
		Estimate:      region.DefaultConfig(),
		Scatter: Scatter{
			Samples:       200000,
			K:             sample.UniformK,
			MaxPlotPoints: 20000,
		},
		Mesh: Mesh{Cells: 64},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if !(c.DefaultRadius >= 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "default_radius must be non-negative, got %g", c.DefaultRadius)
	}
	if err := c.Estimate.Validate(); err != nil {
		return err
	}
	if c.Scatter.Samples <= 0 {
		return errors.New(errors.ErrCodeDegenerateSampling, "scatter.samples must be positive, got %d", c.Scatter.Samples)
	}
	if !(c.Scatter.K > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "scatter.k must be positive, got %g", c.Scatter.K)
	}
	if c.Scatter.MaxPlotPoints < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scatter.max_plot_points must be non-negative, got %d", c.Scatter.MaxPlotPoints)
	}
	if c.Mesh.Cells <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "mesh.cells must be positive, got %d", c.Mesh.Cells)
	}
	return nil
}
