package main

import (
	"context"
	"fmt"

	"github.com/okian/devmatch/internal/adapters/predictor"
	"github.com/okian/devmatch/internal/adapters/repository"
	service "github.com/okian/devmatch/internal/app"
	"github.com/okian/devmatch/internal/config"
	"github.com/okian/devmatch/internal/domain/scoring"
	"github.com/okian/devmatch/internal/tracing"
	"github.com/okian/devmatch/pkg/logger"
)

// openStore builds the configured repository.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	switch cfg.Store {
	case config.StorePostgres:
		pg, err := repository.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := repository.Migrate(pg.DB()); err != nil {
				_ = pg.Close()
				return nil, err
			}
			log.Info(ctx, "database migrated")
		}
		return pg, nil
	default:
		store := repository.NewMemoryStore()
		if cfg.SeedFile == "" {
			log.Warn(ctx, "memory store started without seed_file; every project will be unknown")
			return store, nil
		}
		seed, err := repository.LoadSeed(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		if err := store.Load(seed); err != nil {
			return nil, err
		}
		log.Info(ctx, "memory store seeded",
			logger.String("file", cfg.SeedFile),
			logger.Int("projects", len(seed.Projects)),
			logger.Int("users", len(seed.Users)))
		return store, nil
	}
}

// newModel returns the configured external model, or nil for the none backend.
func newModel(cfg *config.Config, log logger.Logger) scoring.Scorer {
	switch cfg.ModelBackend {
	case config.BackendHTTP:
		return predictor.NewHTTPScorer(cfg.ModelURL,
			predictor.WithHTTPTimeout(cfg.ScorerTimeout()),
			predictor.WithHTTPLogger(log))
	case config.BackendProcess:
		opts := []predictor.ProcessOption{predictor.WithProcessLogger(log)}
		if cfg.ModelDir != "" {
			opts = append(opts, predictor.WithDir(cfg.ModelDir))
		}
		if cfg.ModelInputAsArgument {
			opts = append(opts, predictor.WithInputAsArgument())
		}
		ps := predictor.NewProcessScorer(cfg.ModelCommand, cfg.ModelArgs, opts...)
		command, args, argInput := ps.Invocation()
		log.Info(context.Background(), "model process configured",
			logger.String("command", command),
			logger.Strings("args", args),
			logger.Bool("input_as_argument", argInput))
		return ps
	default:
		return nil
	}
}

// newService wires the scoring pipeline into a recommendation service.
func newService(cfg *config.Config, store repository.Store, log logger.Logger) *service.Service {
	pipelineOpts := []scoring.Option{
		scoring.WithModelTimeout(cfg.ScorerTimeout()),
		scoring.WithLogger(log.Named("scoring")),
	}
	if m := newModel(cfg, log.Named("model")); m != nil {
		pipelineOpts = append(pipelineOpts, scoring.WithModel(m))
	}
	return service.New(store, store,
		service.WithLogger(log.Named("service")),
		service.WithWorkerCount(cfg.ScorerConcurrency),
		service.WithQueueSize(cfg.ScorerQueueSize),
		service.WithTopN(cfg.TopN),
		service.WithScorer(scoring.NewPipeline(pipelineOpts...)),
	)
}

func newTracing(ctx context.Context, cfg *config.Config) (*tracing.Provider, error) {
	tp, err := tracing.NewProvider(ctx, tracing.Config{
		ServiceName:  cfg.ServiceName,
		Enabled:      cfg.TracingEnabled,
		Endpoint:     cfg.TracingEndpoint,
		SamplingRate: cfg.TracingSamplingRate,
		Insecure:     cfg.TracingInsecure,
	})
	if err != nil {
		return nil, fmt.Errorf("start tracing: %w", err)
	}
	return tp, nil
}
