// Package config loads runner settings from a YAML file and the
// environment. Environment variables override the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/juju/loggo"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v2"

	"github.com/akhildatla/rspvu/pkg/vu"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig   = "VU_CONFIG"
	EnvStrategy = "VU_STRATEGY"
	EnvLog      = "VU_LOG"
	EnvMaxSteps = "VU_MAX_STEPS"
	EnvStats    = "VU_STATS"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runner settings.
type Config struct {
	Strategy string `yaml:"strategy"`  // auto, scalar or wide
	MaxSteps int64  `yaml:"max_steps"` // 0 means unlimited
	Log      string `yaml:"log"`       // loggo spec, e.g. "<root>=DEBUG"
	Stats    bool   `yaml:"stats"`
	Optimize bool   `yaml:"optimize"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Strategy: "auto",
		Log:      "<root>=WARNING",
	}
}

// Load reads path over the defaults, then applies the environment.
// An empty path falls back to $VU_CONFIG; if that is unset too only the
// defaults and environment are used.
func Load(path string) (Config, error) {
	env.Load()
	cfg := Default()

	if path == "" {
		path = env.Str(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from set environment variables.
func (c *Config) ApplyEnv() error {
	env.Load()
	if env.Has(EnvStrategy) {
		c.Strategy = env.Str(EnvStrategy)
	}
	if env.Has(EnvLog) {
		c.Log = env.Str(EnvLog)
	}
	if env.Has(EnvMaxSteps) {
		n, err := strconv.ParseInt(env.Str(EnvMaxSteps), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvMaxSteps, err)
		}
		c.MaxSteps = n
	}
	if env.Has(EnvStats) {
		c.Stats = env.Bool(EnvStats)
	}
	return nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := vu.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: max_steps %d", ErrInvalidConfig, c.MaxSteps)
	}
	return nil
}

// UnitOptions converts the settings to unit options.
func (c Config) UnitOptions() ([]vu.Option, error) {
	s, err := vu.ParseStrategy(c.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return []vu.Option{vu.WithStrategy(s), vu.WithMaxSteps(c.MaxSteps)}, nil
}

// ConfigureLogging applies the log spec to loggo.
func (c Config) ConfigureLogging() error {
	if c.Log == "" {
		return nil
	}
	if err := loggo.ConfigureLoggers(c.Log); err != nil {
		return fmt.Errorf("%w: log %q: %v", ErrInvalidConfig, c.Log, err)
	}
	return nil
}
