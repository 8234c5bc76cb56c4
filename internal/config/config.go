// Package config loads overlay job files for the bmpblend command.
//
// A job file is YAML:
//
//	strategy: auto        # scalar, lanes8, lanes32 or auto
//	verify: true          # re-decode every output with x/image/bmp
//	jobs:
//	  - background: hood.bmp
//	    foreground: cat.bmp
//	    x: 328
//	    y: 245
//	    repeat: 1
//	    output: blended.bmp
//	    preview: blended.png
//
// Relative paths are resolved against the directory holding the job file.
// There is no discovery and no environment override: the file named on
// the command line is the whole configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is a batch of overlay jobs.
type Config struct {
	// Strategy selects the compositing kernel for every job.
	Strategy string `yaml:"strategy"`

	// Verify re-decodes each output with an independent decoder.
	Verify bool `yaml:"verify"`

	// Jobs run in order; the first failure stops the batch.
	Jobs []Job `yaml:"jobs"`
}

// Job overlays Foreground onto Background at (X, Y) and writes Output.
type Job struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	Output     string `yaml:"output"`

	// Preview, when set, receives a PNG rendering of the result.
	Preview string `yaml:"preview,omitempty"`

	X int `yaml:"x"`
	Y int `yaml:"y"`

	// Repeat applies the same blend this many times. Zero means once.
	Repeat int `yaml:"repeat,omitempty"`
}

// Default returns an empty configuration with default settings.
func Default() *Config {
	return &Config{Strategy: "auto"}
}

// LoadFile reads, defaults, resolves and validates the job file at path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.resolvePaths(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Strategy == "" {
		c.Strategy = "auto"
	}
	for i := range c.Jobs {
		if c.Jobs[i].Repeat == 0 {
			c.Jobs[i].Repeat = 1
		}
	}
}

// resolvePaths makes every relative job path relative to dir.
func (c *Config) resolvePaths(dir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range c.Jobs {
		j := &c.Jobs[i]
		j.Background = resolve(j.Background)
		j.Foreground = resolve(j.Foreground)
		j.Output = resolve(j.Output)
		j.Preview = resolve(j.Preview)
	}
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Jobs) == 0 {
		errs = append(errs, errors.New("jobs: at least one job is required"))
	}
	for i, j := range c.Jobs {
		if j.Background == "" {
			errs = append(errs, fmt.Errorf("jobs[%d].background is required", i))
		}
		if j.Foreground == "" {
			errs = append(errs, fmt.Errorf("jobs[%d].foreground is required", i))
		}
		if j.Output == "" {
			errs = append(errs, fmt.Errorf("jobs[%d].output is required", i))
		}
		if j.Repeat < 0 {
			errs = append(errs, fmt.Errorf("jobs[%d].repeat must not be negative", i))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
