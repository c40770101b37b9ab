// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New(ctx) to build a Config with defaults.
//   - Load layers defaults, an optional .env file, an optional YAML file and
//     DEVMATCH_ environment variables.
//   - External errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Model backends.
const (
	BackendProcess = "process"
	BackendHTTP    = "http"
	BackendNone    = "none"
)

// Store kinds.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// maxTopN is the largest result size a request may return.
const maxTopN = 5

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TopN caps the number of recommendations returned (1..5).
	TopN int `koanf:"top_n"`

	// ScorerConcurrency sets the number of scoring workers.
	ScorerConcurrency int `koanf:"scorer_concurrency"`

	// ScorerQueueSize bounds pending candidates. Zero derives it from the worker count.
	ScorerQueueSize int `koanf:"scorer_queue_size"`

	// ScorerTimeoutMS bounds a single model call. Zero disables the timeout.
	ScorerTimeoutMS int `koanf:"scorer_timeout_ms"`

	// ModelBackend selects process, http or none.
	ModelBackend string `koanf:"model_backend"`

	// ModelCommand and ModelArgs spawn the external model for the process backend.
	ModelCommand string   `koanf:"model_command"`
	ModelArgs    []string `koanf:"model_args"`

	// ModelDir is the working directory of the model process.
	ModelDir string `koanf:"model_dir"`

	// ModelInputAsArgument passes the feature record as the last argument instead of stdin.
	// The default script reads argv, so this defaults to true.
	ModelInputAsArgument bool `koanf:"model_input_as_argument"`

	// ModelURL is the prediction endpoint for the http backend.
	ModelURL string `koanf:"model_url"`

	// Store selects memory or postgres.
	Store string `koanf:"store"`

	// SeedFile is a YAML fixture loaded into the memory store.
	SeedFile string `koanf:"seed_file"`

	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `koanf:"database_url"`

	// AutoMigrate applies embedded migrations when the postgres store opens.
	AutoMigrate bool `koanf:"auto_migrate"`

	TracingEnabled      bool    `koanf:"tracing_enabled"`
	TracingEndpoint     string  `koanf:"tracing_endpoint"`
	TracingSamplingRate float64 `koanf:"tracing_sampling_rate"`
	TracingInsecure     bool    `koanf:"tracing_insecure"`

	// ServiceName is reported to the tracing backend.
	ServiceName string `koanf:"service_name"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":8080",
		TopN:                 maxTopN,
		ScorerConcurrency:    runtime.NumCPU() * 2,
		ScorerTimeoutMS:      10_000,
		ModelBackend:         BackendProcess,
		ModelCommand:         "python3",
		ModelArgs:            []string{"recommendation_model.py"},
		ModelInputAsArgument: true,
		Store:                StoreMemory,
		TracingSamplingRate:  1.0,
		TracingInsecure:      true,
		ServiceName:          "devmatch",
		ShutdownTimeoutMS:    10_000,
	}
}

// ScorerTimeout returns the per-call model timeout.
func (c *Config) ScorerTimeout() time.Duration {
	return time.Duration(c.ScorerTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns the graceful shutdown bound.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// Validate checks the loaded values. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	c.ModelBackend = strings.ToLower(strings.TrimSpace(c.ModelBackend))
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))

	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TopN < 1 || c.TopN > maxTopN:
		return fmt.Errorf("%w: top_n must be between 1 and %d, got %d", ErrInvalidConfig, maxTopN, c.TopN)
	case c.ScorerConcurrency < 1:
		return fmt.Errorf("%w: scorer_concurrency must be positive, got %d", ErrInvalidConfig, c.ScorerConcurrency)
	case c.ScorerQueueSize < 0:
		return fmt.Errorf("%w: scorer_queue_size must not be negative", ErrInvalidConfig)
	case c.ScorerTimeoutMS < 0:
		return fmt.Errorf("%w: scorer_timeout_ms must not be negative", ErrInvalidConfig)
	case c.TracingSamplingRate < 0 || c.TracingSamplingRate > 1:
		return fmt.Errorf("%w: tracing_sampling_rate must be within [0,1]", ErrInvalidConfig)
	}

	switch c.ModelBackend {
	case BackendProcess:
		if c.ModelCommand == "" {
			return fmt.Errorf("%w: model_command is required for the process backend", ErrInvalidConfig)
		}
	case BackendHTTP:
		if c.ModelURL == "" {
			return fmt.Errorf("%w: model_url is required for the http backend", ErrInvalidConfig)
		}
	case BackendNone:
	default:
		return fmt.Errorf("%w: unknown model_backend %q", ErrInvalidConfig, c.ModelBackend)
	}

	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	return nil
}
