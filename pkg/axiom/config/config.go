// Package config loads optional CLI defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/axiom/pkg/axiom/internalerr"
)

// Export holds default settings for the export command.
type Export struct {
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Shell holds default settings for the interactive shell.
type Shell struct {
	HistorySize int `yaml:"history_size"`
}

// Config is the full configuration file.
type Config struct {
	Trace  bool   `yaml:"trace"`
	Quiet  bool   `yaml:"quiet"`
	Export Export `yaml:"export"`
	Shell  Shell  `yaml:"shell"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Export: Export{Format: "dot", Output: "graph.dot"},
		Shell:  Shell{HistorySize: 1000},
	}
}

// Load reads a YAML configuration file. A missing file is not an error;
// the defaults are returned instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Export.Format {
	case "dot", "json", "sqlite":
	default:
		return fmt.Errorf("%w: unknown export format %q", internalerr.ErrInvalidConfig, c.Export.Format)
	}
	if c.Shell.HistorySize <= 0 {
		return fmt.Errorf("%w: shell history_size must be positive", internalerr.ErrInvalidConfig)
	}
	return nil
}
