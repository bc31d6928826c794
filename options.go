package treebank

import (
	"log/slog"
	"runtime"
)

// Option configures Predict.
type Option func(*config)

type config struct {
	concurrency int
	logger      *slog.Logger
	progress    func(done, total int)
}

func defaultConfig() config {
	return config{
		concurrency: runtime.NumCPU(),
		logger:      slog.Default(),
	}
}

// WithConcurrency sets how many sentences are tagged at once (default:
// runtime.NumCPU()).
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithProgress registers a callback invoked after each sentence is
// projected. Calls are serialized.
func WithProgress(fn func(done, total int)) Option {
	return func(c *config) {
		c.progress = fn
	}
}
