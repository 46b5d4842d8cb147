// Package config loads and watches the engine host configuration.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GoCodeAlone/cascade/feeders"
)

// Static errors for config operations.
var (
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	ErrInvalidPoolSize   = errors.New("pool worker count must not be negative")
)

// EngineConfig carries the tunables of a cascade host. File values are
// overlaid by environment variables.
type EngineConfig struct {
	// PoolWorkers sizes the background worker pool; zero is coerced to one
	// by the pool itself.
	PoolWorkers int `yaml:"poolWorkers" toml:"poolWorkers" json:"poolWorkers" env:"CASCADE_POOL_WORKERS"`
	// WaitSec/WaitNsec bound each main-loop sleep.
	WaitSec  int64 `yaml:"waitSec" toml:"waitSec" json:"waitSec" env:"CASCADE_WAIT_SEC"`
	WaitNsec int64 `yaml:"waitNsec" toml:"waitNsec" json:"waitNsec" env:"CASCADE_WAIT_NSEC"`
	// QueueWarnDepth logs a warning when the inbound queue is still deeper
	// than this after a drain pass; zero disables the check.
	QueueWarnDepth int `yaml:"queueWarnDepth" toml:"queueWarnDepth" json:"queueWarnDepth" env:"CASCADE_QUEUE_WARN_DEPTH"`
	// IntrospectAddr is the bind address of the read-only introspection
	// server; empty disables it.
	IntrospectAddr string `yaml:"introspectAddr" toml:"introspectAddr" json:"introspectAddr" env:"CASCADE_INTROSPECT_ADDR"`
	// LogLevel selects the host log verbosity (debug, info, warn, error).
	LogLevel string `yaml:"logLevel" toml:"logLevel" json:"logLevel" env:"CASCADE_LOG_LEVEL"`
}

// Default returns the configuration used when no file is supplied.
func Default() EngineConfig {
	return EngineConfig{
		PoolWorkers: 4,
		WaitNsec:    100_000_000,
		LogLevel:    "info",
	}
}

// Validate reports configuration values no component can honor.
func (c *EngineConfig) Validate() error {
	if c.PoolWorkers < 0 {
		return ErrInvalidPoolSize
	}
	return nil
}

// Load reads path with the feeder matching its extension (.yaml/.yml or
// .toml), overlays tagged environment variables, and validates the result.
// An empty path starts from Default and applies the environment only.
func Load(path string) (*EngineConfig, error) {
	cfg := Default()
	if path != "" {
		feeder, err := feederFor(path)
		if err != nil {
			return nil, err
		}
		if err := feeder.Feed(&cfg); err != nil {
			return nil, err
		}
	}
	if err := (feeders.NewEnvFeeder()).Feed(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func feederFor(path string) (feeders.Feeder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return feeders.NewYamlFeeder(path), nil
	case ".toml":
		return feeders.NewTomlFeeder(path), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
