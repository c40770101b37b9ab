package scoring

import (
	"context"
	"math"
)

// Formula weights and ceilings.
const (
	experienceHorizonYears = 10.0
	experienceWeight       = 0.2
	performanceWeight      = 0.2

	fallbackSkillWeight = 0.6
	weakSkillWeight     = 0.5

	// WeakMatchThreshold separates weak matches, scored in-process, from
	// matches worth an external model call.
	WeakMatchThreshold = 0.3

	zeroMatchCeiling = 0.3
	weakMatchCeiling = 0.5

	// Ceilings applied to model-path scores.
	noSkillCap      = 0.3
	partialSkillCap = 0.6
	partialSkillMax = 0.5
)

// seniority is the experience and performance part shared by every formula.
func seniority(in Input) float64 {
	return experienceWeight*(in.YearsExperience/experienceHorizonYears) +
		performanceWeight*(in.PerformanceRating/maxPerformanceRating)
}

// ZeroMatchScore scores a candidate that covers none of the required skills.
// It never exceeds 0.3 regardless of seniority.
func ZeroMatchScore(in Input) float64 {
	return math.Min(zeroMatchCeiling, seniority(in))
}

// WeakMatchScore scores a candidate whose skill match is in (0, 0.3).
// It never exceeds 0.5.
func WeakMatchScore(in Input) float64 {
	return math.Min(weakMatchCeiling, weakSkillWeight*in.SkillMatch+seniority(in))
}

// FallbackScore is the in-process stand-in for the external model.
func FallbackScore(in Input) float64 {
	return clamp(fallbackSkillWeight*in.SkillMatch+seniority(in), 0, 1)
}

// FormulaScorer implements Scorer with FallbackScore. It never fails.
type FormulaScorer struct{}

// NewFormulaScorer returns the fallback formula as a Scorer.
func NewFormulaScorer() FormulaScorer {
	return FormulaScorer{}
}

// Score returns FallbackScore(in).
func (FormulaScorer) Score(_ context.Context, in Input) (float64, error) {
	return FallbackScore(in), nil
}

// Cap applies the skill-coverage ceiling to a model-path raw score.
func Cap(skillMatch, raw float64) float64 {
	switch {
	case skillMatch == 0:
		return math.Min(noSkillCap, raw)
	case skillMatch < partialSkillMax:
		return math.Min(partialSkillCap, raw)
	default:
		return raw
	}
}
