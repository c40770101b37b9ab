package scoring_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/devmatch/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(f float64) *float64 { return &f }

func constantModel(pred float64, calls *int32) scoring.Scorer {
	return scoring.ScorerFunc(func(_ context.Context, _ scoring.Input) (float64, error) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		return pred, nil
	})
}

func TestSanitize(t *testing.T) {
	Convey("Given raw candidate features", t, func() {
		Convey("When every value is invalid", func() {
			in := scoring.Sanitize(math.NaN(), math.Inf(1), -3, nil)

			Convey("Then the defaults should be used", func() {
				So(in.SkillMatch, ShouldEqual, 0.0)
				So(in.YearsExperience, ShouldEqual, 0.0)
				So(in.CurrentWorkload, ShouldEqual, 0)
				So(in.PerformanceRating, ShouldEqual, scoring.DefaultPerformanceRating)
			})
		})

		Convey("When the rating is NaN", func() {
			in := scoring.Sanitize(0.5, 2, 1, ptr(math.NaN()))
			So(in.PerformanceRating, ShouldEqual, 3.0)
		})

		Convey("When values are out of range", func() {
			in := scoring.Sanitize(1.4, -2, 4, ptr(9))

			Convey("Then they should be clamped", func() {
				So(in.SkillMatch, ShouldEqual, 1.0)
				So(in.YearsExperience, ShouldEqual, 0.0)
				So(in.CurrentWorkload, ShouldEqual, 4)
				So(in.PerformanceRating, ShouldEqual, 5.0)
			})
		})

		Convey("When values are valid", func() {
			in := scoring.Sanitize(0.5, 4, 2, ptr(4))
			So(in, ShouldResemble, scoring.Input{SkillMatch: 0.5, YearsExperience: 4, CurrentWorkload: 2, PerformanceRating: 4})
			So(in.Normalize(), ShouldResemble, in)
		})
	})
}

func TestFormulas(t *testing.T) {
	Convey("Given the in-process formulas", t, func() {
		Convey("Zero match should never exceed 0.3", func() {
			So(scoring.ZeroMatchScore(scoring.Input{YearsExperience: 30, PerformanceRating: 5}), ShouldEqual, 0.3)
			So(scoring.ZeroMatchScore(scoring.Input{YearsExperience: 5, PerformanceRating: 2.5}), ShouldAlmostEqual, 0.2, 1e-9)
		})

		Convey("Weak match should never exceed 0.5", func() {
			So(scoring.WeakMatchScore(scoring.Input{SkillMatch: 0.29, YearsExperience: 40, PerformanceRating: 5}), ShouldEqual, 0.5)
			So(scoring.WeakMatchScore(scoring.Input{SkillMatch: 0.2, YearsExperience: 0, PerformanceRating: 0}), ShouldAlmostEqual, 0.1, 1e-9)
		})

		Convey("Fallback should be clamped to [0,1]", func() {
			So(scoring.FallbackScore(scoring.Input{SkillMatch: 1, YearsExperience: 50, PerformanceRating: 5}), ShouldEqual, 1.0)
			So(scoring.FallbackScore(scoring.Input{}), ShouldEqual, 0.0)
		})

		Convey("Cap should follow skill coverage", func() {
			So(scoring.Cap(0, 0.9), ShouldEqual, 0.3)
			So(scoring.Cap(0.3, 0.9), ShouldEqual, 0.6)
			So(scoring.Cap(0.49, 0.5), ShouldEqual, 0.5)
			So(scoring.Cap(0.5, 0.9), ShouldEqual, 0.9)
		})

		Convey("Percent should round and clamp", func() {
			So(scoring.Percent(0.545), ShouldEqual, 55)
			So(scoring.Percent(0.3333), ShouldEqual, 33)
			So(scoring.Percent(-1), ShouldEqual, 0)
			So(scoring.Percent(2), ShouldEqual, 100)
			So(scoring.Percent(math.NaN()), ShouldEqual, 0)
		})
	})
}

func TestPipeline_ShortCircuits(t *testing.T) {
	Convey("Given a pipeline with a model that always predicts 1", t, func() {
		var calls int32
		p := scoring.NewPipeline(scoring.WithModel(constantModel(1, &calls)))
		ctx := context.Background()

		Convey("When the skill match is zero", func() {
			res, err := p.Score(ctx, scoring.Input{YearsExperience: 20, PerformanceRating: 5})

			Convey("Then the model should not be called", func() {
				So(err, ShouldBeNil)
				So(res.Source, ShouldEqual, scoring.SourceZeroMatch)
				So(res.Capped, ShouldEqual, 0.3)
				So(atomic.LoadInt32(&calls), ShouldEqual, int32(0))
			})
		})

		Convey("When the skill match is below the weak threshold", func() {
			res, err := p.Score(ctx, scoring.Input{SkillMatch: 0.25, YearsExperience: 20, PerformanceRating: 5})

			Convey("Then the weak formula should be used", func() {
				So(err, ShouldBeNil)
				So(res.Source, ShouldEqual, scoring.SourceWeakMatch)
				So(res.Capped, ShouldEqual, 0.5)
				So(atomic.LoadInt32(&calls), ShouldEqual, int32(0))
			})
		})

		Convey("When the skill match reaches the threshold", func() {
			res, err := p.Score(ctx, scoring.Input{SkillMatch: scoring.WeakMatchThreshold, PerformanceRating: 3})

			Convey("Then the model should be called and its score capped", func() {
				So(err, ShouldBeNil)
				So(res.Source, ShouldEqual, scoring.SourceModel)
				So(res.Raw, ShouldEqual, 1.0)
				So(res.Capped, ShouldEqual, 0.6)
				So(atomic.LoadInt32(&calls), ShouldEqual, int32(1))
			})
		})
	})
}

func TestPipeline_Model(t *testing.T) {
	Convey("Given a full skill match", t, func() {
		ctx := context.Background()
		in := scoring.Input{SkillMatch: 0.8, YearsExperience: 4, PerformanceRating: 4}

		Convey("When the model predicts a value in range", func() {
			res, err := scoring.NewPipeline(scoring.WithModel(constantModel(0.72, nil))).Score(ctx, in)
			So(err, ShouldBeNil)
			So(res.Source, ShouldEqual, scoring.SourceModel)
			So(res.Capped, ShouldEqual, 0.72)
		})

		Convey("When the model predicts outside [0,1]", func() {
			high, err := scoring.NewPipeline(scoring.WithModel(constantModel(1.7, nil))).Score(ctx, in)
			So(err, ShouldBeNil)
			So(high.Capped, ShouldEqual, 1.0)
			low, err := scoring.NewPipeline(scoring.WithModel(constantModel(-0.2, nil))).Score(ctx, in)
			So(err, ShouldBeNil)
			So(low.Capped, ShouldEqual, 0.0)
		})

		Convey("When the model reports a recoverable failure", func() {
			failing := scoring.ScorerFunc(func(context.Context, scoring.Input) (float64, error) {
				return 0, fmt.Errorf("%w: exit status 1", scoring.ErrModelFailed)
			})
			res, err := scoring.NewPipeline(scoring.WithModel(failing)).Score(ctx, in)

			Convey("Then the fallback formula should be used", func() {
				So(err, ShouldBeNil)
				So(res.Source, ShouldEqual, scoring.SourceFallback)
				So(res.Raw, ShouldAlmostEqual, scoring.FallbackScore(in), 1e-12)
			})
		})

		Convey("When the model predicts NaN", func() {
			res, err := scoring.NewPipeline(scoring.WithModel(constantModel(math.NaN(), nil))).Score(ctx, in)
			So(err, ShouldBeNil)
			So(res.Source, ShouldEqual, scoring.SourceFallback)
		})

		Convey("When the model fails to start", func() {
			spawnErr := errors.New("exec: \"python3\": executable file not found")
			failing := scoring.ScorerFunc(func(context.Context, scoring.Input) (float64, error) {
				return 0, spawnErr
			})
			_, err := scoring.NewPipeline(scoring.WithModel(failing)).Score(ctx, in)

			Convey("Then the error should reach the caller", func() {
				So(errors.Is(err, spawnErr), ShouldBeTrue)
			})
		})

		Convey("When the model outlives the per-call timeout", func() {
			slow := scoring.ScorerFunc(func(ctx context.Context, _ scoring.Input) (float64, error) {
				<-ctx.Done()
				return 0, ctx.Err()
			})
			p := scoring.NewPipeline(scoring.WithModel(slow), scoring.WithModelTimeout(20*time.Millisecond))
			_, err := p.Score(ctx, in)

			Convey("Then a deadline error should be returned", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})

		Convey("When the parent context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := scoring.NewPipeline(scoring.WithModel(constantModel(1, nil))).Score(cctx, in)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestPipeline_ScenarioA(t *testing.T) {
	Convey("Given a half skill match and no model available", t, func() {
		in := scoring.Sanitize(0.5, 4, 2, ptr(4.0))
		res, err := scoring.NewPipeline().Score(context.Background(), in)

		Convey("Then the fallback should score 54", func() {
			So(err, ShouldBeNil)
			So(res.Source, ShouldEqual, scoring.SourceFallback)
			So(res.Raw, ShouldAlmostEqual, 0.54, 1e-9)
			So(res.Capped, ShouldAlmostEqual, 0.54, 1e-9)
			So(scoring.Percent(res.Capped), ShouldEqual, 54)
			So(scoring.Percent(in.SkillMatch), ShouldEqual, 50)
		})
	})
}

func TestPipeline_CapEnforcement(t *testing.T) {
	Convey("Given an over-confident model", t, func() {
		p := scoring.NewPipeline(scoring.WithModel(constantModel(1, nil)))
		ctx := context.Background()

		Convey("Final scores should respect the skill-coverage ceilings", func() {
			for _, sm := range []float64{0, 0.01, 0.1, 0.29, 0.3, 0.35, 0.49} {
				for _, yrs := range []float64{0, 5, 10, 40} {
					for _, rating := range []float64{0, 2.5, 5} {
						res, err := p.Score(ctx, scoring.Input{SkillMatch: sm, YearsExperience: yrs, PerformanceRating: rating})
						So(err, ShouldBeNil)
						final := scoring.Percent(res.Capped)
						if sm == 0 {
							So(final, ShouldBeLessThanOrEqualTo, 30)
						}
						So(final, ShouldBeLessThanOrEqualTo, 60)
					}
				}
			}
		})
	})
}
