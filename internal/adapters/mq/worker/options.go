package worker

import (
	"github.com/okian/devmatch/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

type poolConfig struct {
	queueCapacity int
	logger        logger.Logger
}

// PoolOption applies a configuration option to the Pool.
type PoolOption func(*poolConfig)

// WithQueueCapacity sets how many tasks may wait for a free worker.
func WithQueueCapacity(n int) PoolOption {
	return func(c *poolConfig) {
		if n > 0 {
			c.queueCapacity = n
		}
	}
}

// WithPoolLogger sets the logger shared by the pool and its workers.
func WithPoolLogger(l logger.Logger) PoolOption {
	return func(c *poolConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
