// Package service provides the recommendation service behind the HTTP API
// and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/devmatch/internal/adapters/mq/worker"
	"github.com/okian/devmatch/internal/adapters/repository"
	"github.com/okian/devmatch/internal/domain/model"
	"github.com/okian/devmatch/internal/domain/ranking"
	"github.com/okian/devmatch/internal/domain/scoring"
	"github.com/okian/devmatch/internal/domain/types"
	"github.com/okian/devmatch/internal/tracing"
	"github.com/okian/devmatch/pkg/logger"
	"github.com/okian/devmatch/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const stopTimeout = 10 * time.Second

// Service ranks developers for projects.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	projects   repository.ProjectRepository
	candidates repository.CandidateRepository
	scorer     worker.Scorer
	pool       *worker.Pool

	// Configuration
	workerCount int
	queueSize   int
	topN        int

	// State
	started bool
	stats   counters

	// Logging
	logger logger.Logger
}

type counters struct {
	requests          atomic.Int64
	served            atomic.Int64
	empty             atomic.Int64
	notFound          atomic.Int64
	failed            atomic.Int64
	candidatesScored  atomic.Int64
	candidatesDropped atomic.Int64
	degraded          atomic.Int64
	modelScores       atomic.Int64
	fallbackScores    atomic.Int64
}

// New constructs a Service reading from the given collaborators.
func New(projects repository.ProjectRepository, candidates repository.CandidateRepository, opts ...Option) *Service {
	s := &Service{
		projects:    projects,
		candidates:  candidates,
		workerCount: runtime.NumCPU() * 2,
		topN:        ranking.DefaultLimit,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scorer == nil {
		s.scorer = scoring.NewPipeline(scoring.WithLogger(s.logger))
	}
	if s.queueSize == 0 {
		s.queueSize = s.workerCount * 4
	}
	return s
}

// Start starts the scoring worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.pool = worker.NewPool(s.workerCount, s.scorer,
		worker.WithQueueCapacity(s.queueSize),
		worker.WithPoolLogger(s.logger),
	)
	// The pool outlives the start context.
	s.pool.Start(context.WithoutCancel(ctx))
	s.started = true

	s.logger.Info(ctx, "recommendation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("topN", s.topN),
	)
	return nil
}

// Stop drains the worker pool.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "recommendation service stopped")
}

// Recommend returns up to topN developers for the project, best first.
//
// Projects without required skills and empty candidate pools yield a
// successful empty result. Candidates that fail to score are left out of
// the result instead of failing the request.
func (s *Service) Recommend(ctx context.Context, projectID string) (res model.Result, err error) {
	start := time.Now()
	outcome := "ok"
	s.stats.requests.Add(1)

	ctx, end := tracing.StartSpan(ctx, "recommend", attribute.String("project.id", projectID))
	defer func() {
		end(err)
		switch outcome {
		case "ok":
			s.stats.served.Add(1)
		case "empty":
			s.stats.empty.Add(1)
		case "not_found":
			s.stats.notFound.Add(1)
		default:
			s.stats.failed.Add(1)
		}
		metrics.RecordRecommendation(outcome, float64(time.Since(start).Milliseconds()), len(res.Recommendations))
	}()

	id := strings.TrimSpace(projectID)
	if id == "" {
		outcome = "invalid"
		return model.Result{}, ErrInvalidProjectID
	}

	pool := s.runningPool()
	if pool == nil {
		outcome = "error"
		return model.Result{}, ErrNotStarted
	}

	project, err := s.projects.FindByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		outcome = "not_found"
		return model.Result{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case err != nil:
		outcome = "error"
		return model.Result{}, s.repositoryError(ctx, "load project", id, err)
	}

	if len(project.RequiredSkills) == 0 {
		outcome = "empty"
		return model.EmptyResult(nil), nil
	}

	candidates, err := s.candidates.FindByRole(ctx, model.RoleDeveloper)
	if err != nil {
		outcome = "error"
		return model.Result{}, s.repositoryError(ctx, "load candidates", id, err)
	}
	if len(candidates) == 0 {
		outcome = "empty"
		return model.EmptyResult(project.RequiredSkills), nil
	}

	outcomes, err := pool.Evaluate(ctx, project.RequiredSkills, candidates)
	if err != nil {
		outcome = "error"
		return model.Result{}, fmt.Errorf("score candidates for project %s: %w", id, err)
	}

	entries := s.collect(outcomes)
	ranked := ranking.Rank(entries, s.topN)
	tracing.SetAttributes(ctx,
		attribute.Int("candidates", len(candidates)),
		attribute.Int("recommendations", len(ranked)),
	)
	if len(ranked) == 0 {
		outcome = "empty"
	}

	res = model.EmptyResult(project.RequiredSkills)
	for _, e := range ranked {
		res.Recommendations = append(res.Recommendations, view(candidates[e.Position], e))
	}

	s.logger.Debug(ctx, "recommendations computed",
		logger.String("project", id),
		logger.Int("candidates", len(candidates)),
		logger.Int("recommendations", len(res.Recommendations)),
		logger.Duration("took", time.Since(start)),
	)
	return res, nil
}

func (s *Service) collect(outcomes []worker.Outcome) []types.Entry {
	entries := make([]types.Entry, len(outcomes))
	for i, out := range outcomes {
		entries[i] = out.Entry
		switch {
		case out.Degraded():
			s.stats.degraded.Add(1)
		case out.Source == scoring.SourceModel:
			s.stats.modelScores.Add(1)
		case out.Source == scoring.SourceFallback:
			s.stats.fallbackScores.Add(1)
		}
		if out.Entry.Score == 0 {
			s.stats.candidatesDropped.Add(1)
		}
	}
	s.stats.candidatesScored.Add(int64(len(outcomes)))
	return entries
}

func (s *Service) repositoryError(ctx context.Context, op, projectID string, err error) error {
	metrics.RecordErrorByComponent("repository", op)
	s.logger.Error(ctx, "repository call failed",
		logger.String("operation", op),
		logger.String("project", projectID),
		logger.Error(err),
	)
	return fmt.Errorf("%w: %s: %w", ErrRepository, op, err)
}

func (s *Service) runningPool() *worker.Pool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil
	}
	return s.pool
}

// view maps a ranked candidate to its public representation.
func view(c model.Candidate, e types.Entry) model.Recommendation {
	in := scoring.Sanitize(0, c.ExperienceYears, c.CurrentWorkload, c.PerformanceRating)
	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}
	return model.Recommendation{
		ID:                c.ID,
		Name:              c.Name,
		Skills:            skills,
		Score:             e.Score,
		SkillMatchPercent: e.SkillMatchPercent,
		ExperienceYears:   in.YearsExperience,
		PerformanceRating: in.PerformanceRating,
	}
}

// Ping checks the collaborators that can report their health.
func (s *Service) Ping(ctx context.Context) error {
	for _, dep := range []any{s.projects, s.candidates} {
		if p, ok := dep.(interface{ Ping(context.Context) error }); ok {
			if err := p.Ping(ctx); err != nil {
				return fmt.Errorf("%w: %w", ErrRepository, err)
			}
		}
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"started":            s.started,
		"workerCount":        s.workerCount,
		"queueSize":          s.queueSize,
		"topN":               s.topN,
		"requests":           s.stats.requests.Load(),
		"served":             s.stats.served.Load(),
		"emptyResults":       s.stats.empty.Load(),
		"notFound":           s.stats.notFound.Load(),
		"failed":             s.stats.failed.Load(),
		"candidatesScored":   s.stats.candidatesScored.Load(),
		"candidatesDropped":  s.stats.candidatesDropped.Load(),
		"degradedCandidates": s.stats.degraded.Load(),
		"modelScores":        s.stats.modelScores.Load(),
		"fallbackScores":     s.stats.fallbackScores.Load(),
	}
}
