package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/devmatch/internal/tracing"
	"github.com/okian/devmatch/pkg/logger"
	"github.com/okian/devmatch/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const defaultModelTimeout = 10 * time.Second

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithModel sets the external model. Without one every model-path
// candidate is scored by the fallback.
func WithModel(model Scorer) Option {
	return func(p *Pipeline) {
		p.model = model
	}
}

// WithFallback replaces the fallback scorer.
func WithFallback(fallback Scorer) Option {
	return func(p *Pipeline) {
		if fallback != nil {
			p.fallback = fallback
		}
	}
}

// WithModelTimeout bounds each external model call. Zero disables the bound.
func WithModelTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d >= 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pipeline chooses a scorer per input by skill match, recovers model
// failures with the fallback and caps model-path scores.
type Pipeline struct {
	model    Scorer
	fallback Scorer
	timeout  time.Duration
	logger   logger.Logger
}

// NewPipeline creates a pipeline with the formula fallback and a 10s model timeout.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		fallback: NewFormulaScorer(),
		timeout:  defaultModelTimeout,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Score runs the scoring protocol for one sanitized input.
//
// Errors other than a recoverable model failure (spawn failure, timeout,
// cancellation) are returned to the caller, which is expected to degrade
// the candidate rather than abort its batch.
func (p *Pipeline) Score(ctx context.Context, in Input) (Result, error) {
	in = in.Normalize()

	switch {
	case in.SkillMatch == 0:
		raw := ZeroMatchScore(in)
		metrics.RecordScore(string(SourceZeroMatch))
		return Result{Raw: raw, Capped: raw, Source: SourceZeroMatch}, nil
	case in.SkillMatch < WeakMatchThreshold:
		raw := WeakMatchScore(in)
		metrics.RecordScore(string(SourceWeakMatch))
		return Result{Raw: raw, Capped: raw, Source: SourceWeakMatch}, nil
	}

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("scoring cancelled: %w", err)
	}

	raw, source, err := p.delegate(ctx, in)
	if err != nil {
		return Result{}, err
	}
	metrics.RecordScore(string(source))
	return Result{Raw: raw, Capped: Cap(in.SkillMatch, raw), Source: source}, nil
}

func (p *Pipeline) delegate(ctx context.Context, in Input) (raw float64, source Source, err error) {
	ctx, end := tracing.StartSpan(ctx, "scoring.model")
	defer func() { end(err) }()
	tracing.SetAttributes(ctx, attribute.Float64("scoring.skill_match", in.SkillMatch))

	pred, modelErr := p.callModel(ctx, in)
	if modelErr == nil {
		tracing.SetAttributes(ctx, attribute.String("scoring.source", string(SourceModel)))
		return clamp(pred, 0, 1), SourceModel, nil
	}

	if !errors.Is(modelErr, ErrModelFailed) && !errors.Is(modelErr, ErrNoModel) {
		return 0, "", fmt.Errorf("model call: %w", modelErr)
	}

	if !errors.Is(modelErr, ErrNoModel) {
		p.logger.Warn(ctx, "model scoring failed; using fallback formula",
			logger.Float64("skillMatch", in.SkillMatch),
			logger.Error(modelErr),
		)
		metrics.RecordErrorByComponent("scorer", "model_failed")
	}

	raw, err = p.fallback.Score(ctx, in)
	if err != nil {
		return 0, "", fmt.Errorf("fallback scorer: %w", err)
	}
	tracing.SetAttributes(ctx, attribute.String("scoring.source", string(SourceFallback)))
	return clamp(raw, 0, 1), SourceFallback, nil
}

func (p *Pipeline) callModel(ctx context.Context, in Input) (float64, error) {
	if p.model == nil {
		return 0, ErrNoModel
	}

	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	pred, err := p.model.Score(callCtx, in)
	latency := float64(time.Since(start).Milliseconds())

	switch {
	case err == nil && !finite(pred):
		metrics.RecordModelLatency("invalid", latency)
		return 0, fmt.Errorf("%w: non-finite prediction", ErrModelFailed)
	case err == nil:
		metrics.RecordModelLatency("success", latency)
		return pred, nil
	case errors.Is(err, ErrModelFailed):
		metrics.RecordModelLatency("failed", latency)
		return 0, err
	default:
		metrics.RecordModelLatency("error", latency)
		return 0, err
	}
}
