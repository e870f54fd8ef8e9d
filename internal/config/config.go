// Package config loads the simulator's YAML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config configures the CLI and the fixture harness.
type Config struct {
	// Fixtures is the directory holding dpda/ and enfa/ test cases.
	Fixtures string `yaml:"fixtures" validate:"required"`

	// Workers bounds the sequences of one case simulated at the same time.
	Workers int `yaml:"workers" validate:"min=1,max=64"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string `yaml:"level" validate:"oneof=trace debug info warn error"`

	// Format selects console or json output.
	Format string `yaml:"format" validate:"oneof=console json"`

	// TraceEvents logs every transition of every run at debug level.
	TraceEvents bool `yaml:"trace_events"`
}

// Default returns a valid configuration reading fixtures from ./testdata.
func Default() *Config {
	return &Config{
		Fixtures: "testdata",
		Workers:  4,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load overlays the YAML file at path on Default and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ZerologLevel maps Level onto zerolog's levels.
func (l LoggingConfig) ZerologLevel() zerolog.Level {
	switch l.Level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
