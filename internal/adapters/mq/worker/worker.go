// Package worker scores candidates on a bounded pool of workers fed by an in-memory queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/okian/devmatch/internal/adapters/mq/queue"
	"github.com/okian/devmatch/internal/domain/model"
	"github.com/okian/devmatch/internal/domain/scoring"
	"github.com/okian/devmatch/internal/domain/skills"
	"github.com/okian/devmatch/internal/domain/types"
	"github.com/okian/devmatch/pkg/logger"
	"github.com/okian/devmatch/pkg/metrics"
)

const defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()

// Scorer produces a capped score for a sanitized input. *scoring.Pipeline implements it.
type Scorer interface {
	Score(ctx context.Context, in scoring.Input) (scoring.Result, error)
}

// Task is one candidate to score against a project's required skills.
type Task struct {
	ctx       context.Context //nolint:containedctx // request scope travels with the task
	Position  int
	Required  []string
	Candidate model.Candidate
	reply     chan<- Outcome
}

// Outcome is the scored form of a Task. A degraded outcome carries Err and a zero entry.
type Outcome struct {
	Entry      types.Entry
	SkillMatch float64
	Source     scoring.Source
	Err        error
}

// Degraded reports whether the candidate was zeroed after a failure.
func (o Outcome) Degraded() bool {
	return o.Err != nil
}

// Worker consumes tasks until its queue closes.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)
}

// InMemoryWorker scores tasks read from a queue.
type InMemoryWorker struct {
	tasks  <-chan Task
	scorer Scorer
	name   string
	logger logger.Logger
	done   chan struct{}
}

// NewInMemoryWorker creates a worker reading from q.
func NewInMemoryWorker(q queue.Queue[Task], scorer Scorer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		tasks:  q.Dequeue(),
		scorer: scorer,
		name:   "worker",
		logger: logger.Nop(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-w.tasks:
			if !ok {
				return
			}
			task.reply <- w.process(task)
		}
	}
}

// process scores one task. Any failure, panics included, degrades the
// candidate instead of escaping the worker.
func (w *InMemoryWorker) process(task Task) (out Outcome) {
	metrics.AddPoolActiveWorkers(1)
	defer metrics.AddPoolActiveWorkers(-1)

	ctx := task.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	c := task.Candidate

	defer func() {
		if r := recover(); r != nil {
			out = w.degrade(ctx, task, fmt.Errorf("panic while scoring: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return w.degrade(ctx, task, err)
	}

	sm := skills.MatchRatio(task.Required, c.Skills)
	in := scoring.Sanitize(sm, c.ExperienceYears, c.CurrentWorkload, c.PerformanceRating)

	res, err := w.scorer.Score(ctx, in)
	if err != nil {
		return w.degrade(ctx, task, err)
	}

	w.logger.Debug(ctx, "candidate scored",
		logger.String("candidate", c.ID),
		logger.Float64("skillMatch", in.SkillMatch),
		logger.Strings("matched", skills.Matched(task.Required, c.Skills)),
		logger.Float64("raw", res.Raw),
		logger.Float64("capped", res.Capped),
		logger.String("source", string(res.Source)),
	)
	return Outcome{
		Entry: types.Entry{
			CandidateID:       c.ID,
			Score:             scoring.Percent(res.Capped),
			SkillMatchPercent: scoring.Percent(in.SkillMatch),
			Position:          task.Position,
		},
		SkillMatch: in.SkillMatch,
		Source:     res.Source,
	}
}

func (w *InMemoryWorker) degrade(ctx context.Context, task Task, err error) Outcome {
	metrics.RecordCandidateFailure()
	metrics.RecordErrorByComponent("worker", "candidate_failed")
	w.logger.Warn(ctx, "candidate degraded to zero score",
		logger.String("candidate", task.Candidate.ID),
		logger.Error(err),
	)
	return Outcome{
		Entry: types.Entry{CandidateID: task.Candidate.ID, Position: task.Position},
		Err:   err,
	}
}

// Pool manages a fixed set of workers sharing one task queue. The worker
// count bounds how many candidates are scored at once across all requests.
type Pool struct {
	queue   *queue.InMemoryQueue[Task]
	workers []*InMemoryWorker
	logger  logger.Logger

	mu      sync.RWMutex
	started bool
	stopped bool
}

// NewPool creates a pool of workerCount workers. A non-positive count uses
// twice the number of CPUs.
func NewPool(workerCount int, scorer Scorer, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	cfg := poolConfig{queueCapacity: workerCount * 4, logger: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	q := queue.NewInMemoryQueue[Task](queue.WithCapacity(cfg.queueCapacity))
	p := &Pool{
		queue:   q,
		workers: make([]*InMemoryWorker, workerCount),
		logger:  cfg.logger.Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, scorer,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(cfg.logger),
		)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Evaluate scores every candidate against required and returns one outcome
// per candidate in input order. It fails only when ctx ends or the pool is
// not running; individual candidate failures come back as degraded outcomes.
func (p *Pool) Evaluate(ctx context.Context, required []string, candidates []model.Candidate) ([]Outcome, error) {
	p.mu.RLock()
	running := p.started && !p.stopped
	p.mu.RUnlock()
	if !running {
		return nil, ErrPoolNotRunning
	}

	replies := make(chan Outcome, len(candidates))
	for i, c := range candidates {
		task := Task{ctx: ctx, Position: i, Required: required, Candidate: c, reply: replies}
		if err := p.queue.Enqueue(ctx, task); err != nil {
			return nil, fmt.Errorf("submit candidate %s: %w", c.ID, err)
		}
	}

	outcomes := make([]Outcome, len(candidates))
	for range candidates {
		select {
		case out := <-replies:
			outcomes[out.Entry.Position] = out
		case <-ctx.Done():
			return nil, fmt.Errorf("evaluate candidates: %w", ctx.Err())
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluate candidates: %w", err)
	}
	metrics.RecordCandidatesEvaluated(len(candidates))
	return outcomes, nil
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	started := p.started
	p.mu.Unlock()

	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	if !started {
		return nil
	}

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("shutdown timed out: %w", ctx.Err())
		}
	}
	return nil
}
