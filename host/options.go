package host

import (
	"log/slog"
)

// Option defines a functional option for configuring the Executor.
type Option func(*Executor)

// WithLogger sets the logger guest diagnostics are re-emitted through. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithMemoryLimitPages caps every module's linear memory, in 64 KiB pages.
func WithMemoryLimitPages(pages uint32) Option {
	return func(e *Executor) {
		e.memoryLimitPages = pages
	}
}

// WithCloseOnContextDone makes in-flight calls abort when their context is cancelled.
func WithCloseOnContextDone(enabled bool) Option {
	return func(e *Executor) {
		e.closeOnDone = enabled
	}
}

// ModuleOption configures a single LoadModule call.
type ModuleOption func(*moduleConfig)

type moduleConfig struct {
	name string
}

// WithName names the module instance. Names appear in diagnostics and must be unique within an
// Executor; unnamed modules may be loaded any number of times.
func WithName(name string) ModuleOption {
	return func(c *moduleConfig) {
		c.name = name
	}
}
