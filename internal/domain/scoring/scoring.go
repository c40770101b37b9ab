// Package scoring turns a candidate's sanitized features into a fitness score.
//
// A score is produced in three layers: short-circuit formulas for candidates
// with little or no skill coverage, an external model for everyone else, and
// an in-process formula that stands in when the model fails. Scores from the
// model path are then capped according to skill coverage.
package scoring

import (
	"context"
	"math"
)

// DefaultPerformanceRating is used when a candidate has no usable rating.
const DefaultPerformanceRating = 3.0

// Rating bounds.
const (
	minPerformanceRating = 0.0
	maxPerformanceRating = 5.0
)

// Input is the feature record sent to every scorer. Field names on the wire
// match what the external model expects.
type Input struct {
	SkillMatch        float64 `json:"skillMatch"`
	YearsExperience   float64 `json:"yearsExperience"`
	CurrentWorkload   int     `json:"currentWorkload"`
	PerformanceRating float64 `json:"performanceRating"`
}

// Source names the layer that produced a raw score.
type Source string

// Score sources.
const (
	SourceZeroMatch Source = "zero_match"
	SourceWeakMatch Source = "weak_match"
	SourceModel     Source = "model"
	SourceFallback  Source = "fallback"
)

// Result is the outcome of scoring one input.
type Result struct {
	// Raw is the scorer output in [0,1] before capping.
	Raw float64
	// Capped is Raw after the skill-coverage ceiling.
	Capped float64
	// Source is the layer that produced Raw.
	Source Source
}

// Scorer computes a raw score in [0,1] for an input.
type Scorer interface {
	// Score computes a score, honoring ctx for cancellation.
	Score(ctx context.Context, in Input) (float64, error)
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(ctx context.Context, in Input) (float64, error)

// Score calls f.
func (f ScorerFunc) Score(ctx context.Context, in Input) (float64, error) {
	return f(ctx, in)
}

// Sanitize builds an Input, replacing NaN, infinite or out-of-range values
// with the documented defaults:
//
//	skillMatch        -> 0    (clamped to [0,1])
//	yearsExperience   -> 0    (negative becomes 0)
//	currentWorkload   -> 0    (negative becomes 0)
//	performanceRating -> 3.0  (nil or NaN; finite values clamped to [0,5])
func Sanitize(skillMatch, yearsExperience float64, currentWorkload int, performanceRating *float64) Input {
	in := Input{
		SkillMatch:        0,
		YearsExperience:   0,
		CurrentWorkload:   0,
		PerformanceRating: DefaultPerformanceRating,
	}
	if finite(skillMatch) {
		in.SkillMatch = clamp(skillMatch, 0, 1)
	}
	if finite(yearsExperience) && yearsExperience > 0 {
		in.YearsExperience = yearsExperience
	}
	if currentWorkload > 0 {
		in.CurrentWorkload = currentWorkload
	}
	if performanceRating != nil && finite(*performanceRating) {
		in.PerformanceRating = clamp(*performanceRating, minPerformanceRating, maxPerformanceRating)
	}
	return in
}

// Normalize re-applies Sanitize to an existing Input.
func (in Input) Normalize() Input {
	rating := in.PerformanceRating
	return Sanitize(in.SkillMatch, in.YearsExperience, in.CurrentWorkload, &rating)
}

// Percent converts a [0,1] fraction to a rounded integer percentage.
func Percent(x float64) int {
	if !finite(x) {
		return 0
	}
	return int(math.Round(clamp(x, 0, 1) * 100))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
