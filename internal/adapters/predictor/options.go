package predictor

import (
	"time"

	"github.com/okian/devmatch/pkg/logger"
)

// ProcessOption applies a configuration option to the ProcessScorer.
type ProcessOption func(*ProcessScorer)

// WithDir sets the working directory of the model process.
func WithDir(dir string) ProcessOption {
	return func(s *ProcessScorer) {
		s.dir = dir
	}
}

// WithEnv sets the environment of the model process. Nil inherits ours.
func WithEnv(env []string) ProcessOption {
	return func(s *ProcessScorer) {
		s.env = env
	}
}

// WithInputAsArgument passes the feature record as the last command-line
// argument instead of on stdin.
func WithInputAsArgument() ProcessOption {
	return func(s *ProcessScorer) {
		s.argInput = true
	}
}

// WithProcessLogger sets a custom logger.
func WithProcessLogger(l logger.Logger) ProcessOption {
	return func(s *ProcessScorer) {
		if l != nil {
			s.logger = l
		}
	}
}

// HTTPOption applies a configuration option to the HTTPScorer.
type HTTPOption func(*HTTPScorer)

// WithHTTPTimeout bounds each request independently of the caller's context.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPScorer) {
		if d > 0 {
			s.client.SetTimeout(d)
		}
	}
}

// WithHeader adds a header to every request, e.g. an API key.
func WithHeader(key, value string) HTTPOption {
	return func(s *HTTPScorer) {
		s.client.SetHeader(key, value)
	}
}

// WithHTTPLogger sets a custom logger.
func WithHTTPLogger(l logger.Logger) HTTPOption {
	return func(s *HTTPScorer) {
		if l != nil {
			s.logger = l
		}
	}
}
