package service

import (
	"github.com/okian/devmatch/internal/adapters/mq/worker"
	"github.com/okian/devmatch/internal/domain/ranking"
	"github.com/okian/devmatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets how many candidates may be scored at once.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets how many candidates may wait for a free worker.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithTopN sets the result size. Values above ranking.DefaultLimit are capped.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = min(n, ranking.DefaultLimit)
		}
	}
}

// WithScorer sets the candidate scorer, normally a *scoring.Pipeline.
func WithScorer(scorer worker.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
