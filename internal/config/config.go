// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors must be wrapped with this package's sentinel kinds.
package config

import (
	"github.com/okian/lifespan/internal/domain/report"
	"github.com/okian/lifespan/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TablePath points at a CSV or YAML factor table. Empty uses the embedded table.
	TablePath string `koanf:"table_path"`

	// BaselineAge is the average life expectancy estimates are relative to.
	BaselineAge float64 `koanf:"baseline_age"`

	// DampingConstant divides the weighted factor sum. Must be > 0.
	DampingConstant float64 `koanf:"damping_constant"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		TablePath:       "",
		BaselineAge:     report.DefaultBaselineAge,
		DampingConstant: scoring.DefaultDampingConstant,
	}
}
