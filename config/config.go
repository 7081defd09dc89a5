// Package config loads the extension's optional YAML configuration.
//
// The configuration file is located through the NUMEXT_CONFIG environment
// variable. A missing variable means defaults; a file that fails validation
// is an error.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/numext"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "NUMEXT_CONFIG"

// Release policies applied when the caller violates the ownership protocol.
const (
	ReleaseAbort = "abort"
	ReleaseLeak  = "leak"
)

// Config is the extension configuration.
type Config struct {
	// LogLevel is the minimum level of native-side diagnostics.
	LogLevel string `yaml:"log_level" json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=warn"`
	// ReleasePolicy decides what a mismatched or repeated release does.
	ReleasePolicy string `yaml:"release_policy" json:"release_policy,omitempty" validate:"omitempty,oneof=abort leak" jsonschema:"enum=abort,enum=leak,default=abort"`
	// Describe controls the manifest returned by the describe export.
	Describe DescribeConfig `yaml:"describe" json:"describe,omitempty"`
}

// DescribeConfig filters the operations listed by describe.
type DescribeConfig struct {
	// Include holds doublestar patterns matched against operation names.
	Include []string `yaml:"include" json:"include,omitempty" validate:"dive,required,glob" jsonschema:"minItems=1"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:      "warn",
		ReleasePolicy: ReleaseAbort,
		Describe:      DescribeConfig{Include: []string{"*"}},
	}
}

// FromEnv loads the file named by NUMEXT_CONFIG, or returns defaults when
// the variable is unset.
func FromEnv() (Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Load reads and validates a YAML configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates a YAML document and merges it over the defaults.
func Parse(data []byte) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, &numext.ConfigError{Err: fmt.Errorf("invalid yaml: %w", err)}
	}
	if raw != nil {
		if err := validateDocument(raw); err != nil {
			return Config{}, err
		}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &numext.ConfigError{Err: err}
	}
	if err := validateStruct(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to warn.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// AbortOnMisuse reports whether ownership violations terminate the process.
func (c Config) AbortOnMisuse() bool {
	return c.ReleasePolicy != ReleaseLeak
}
