package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// RecipePath locates the recipe document.
	RecipePath string
	// Arguments is the invoker-provided argument mapping, built by the CLI
	// from key=value pairs. Values are passed through as strings; the
	// resolver performs no coercion.
	Arguments map[string]string

	LogFormat string
	LogLevel  string
	// Workers bounds concurrently running modules; 0 means unbounded.
	Workers int
	// Timeout bounds the whole run; 0 means none.
	Timeout time.Duration
	// PlanOnly prints the execution plan and exits without running.
	PlanOnly bool
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.RecipePath == "" {
		return nil, errors.New("RecipePath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 0 {
		return nil, errors.New("Workers cannot be negative")
	}
	return &cfg, nil
}

// Defaults are engine settings read from an optional TOML file. Values set
// explicitly on the command line take precedence.
type Defaults struct {
	Engine struct {
		Workers int    `toml:"workers"`
		Timeout string `toml:"timeout"`
	} `toml:"engine"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
}

// ParsedTimeout returns the timeout setting as a duration, zero when unset.
func (d *Defaults) ParsedTimeout() (time.Duration, error) {
	if d.Engine.Timeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(d.Engine.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid engine.timeout %q: %w", d.Engine.Timeout, err)
	}
	return timeout, nil
}

// LoadDefaults reads the defaults file at path. A missing file is not an
// error when the path was not explicitly requested; callers decide by
// checking os.IsNotExist on the returned error.
func LoadDefaults(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var defaults Defaults
	if err := toml.Unmarshal(data, &defaults); err != nil {
		return nil, fmt.Errorf("parsing defaults file %s: %w", path, err)
	}
	return &defaults, nil
}
