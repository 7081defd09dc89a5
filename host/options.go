package host

import (
	"io"

	"go.uber.org/zap"
)

type runtimeConfig struct {
	logger           *zap.Logger
	moduleName       string
	memoryLimitPages uint32
	stdout           io.Writer
	stderr           io.Writer
}

func defaultRuntimeConfig() runtimeConfig {
	return runtimeConfig{
		moduleName: "numext",
	}
}

// Option configures a Runtime.
type Option func(*runtimeConfig)

// WithLogger sets the logger used by the runtime and for guest log messages
// of this module. Defaults to the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *runtimeConfig) {
		c.logger = l
	}
}

// WithModuleName sets the instance name reported in logs.
func WithModuleName(name string) Option {
	return func(c *runtimeConfig) {
		if name != "" {
			c.moduleName = name
		}
	}
}

// WithMemoryLimitPages caps guest memory, in 64 KiB pages.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *runtimeConfig) {
		c.memoryLimitPages = pages
	}
}

// WithStdio routes guest stdout and stderr. Both are discarded by default.
func WithStdio(stdout, stderr io.Writer) Option {
	return func(c *runtimeConfig) {
		c.stdout = stdout
		c.stderr = stderr
	}
}
