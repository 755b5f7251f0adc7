// Package pipeline runs baseline and car scenarios, caches seeded results
// and derives the comparison and presentation series.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/futurebank/fbsim/internal/model"
	"github.com/futurebank/fbsim/internal/simulation"
)

const tracerName = "github.com/futurebank/fbsim/internal/pipeline"

// carSeedOffset decorrelates the car scenario from the baseline stream.
const carSeedOffset = 0x9E3779B97F4A7C15

// Cache stores summaries of seeded runs.
type Cache interface {
	LoadSummary(key string) (model.Summary, bool, error)
	SaveSummary(info model.RunInfo, s model.Summary) error
	ListRuns(limit int) ([]model.RunInfo, error)
	DeleteRun(key string) error
	Close() error
}

// ProgressFunc is called as trials complete across all scenarios of a run.
type ProgressFunc func(current, total int)

// Request describes one comparison run.
type Request struct {
	Scenario model.SimulationConfig
	Sims     int
	Seed     *uint64 // nil draws a fresh random seed and disables caching
	Workers  int
}

// ScenarioResult holds the outcome of one scenario.
type ScenarioResult struct {
	Label    string
	Config   model.SimulationConfig
	Key      string
	Summary  model.Summary
	Paths    simulation.Matrix // nil when served from cache
	CacheHit bool
}

// Result holds the outcome of a comparison run.
type Result struct {
	Sims       int
	Baseline   ScenarioResult
	Car        *ScenarioResult
	Comparison *model.Comparison
	Elapsed    time.Duration
}

// Runner executes comparison runs.
type Runner struct {
	Cache Cache // nil disables caching
	Log   logrus.FieldLogger
}

// Run simulates the baseline and, when the scenario enables it, the car
// scenario, then computes car-minus-baseline deltas.
func (r *Runner) Run(ctx context.Context, req Request, progressFn ProgressFunc) (*Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "pipeline.Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("fbsim.sims", req.Sims),
		attribute.Int("fbsim.years", req.Scenario.Years),
		attribute.Bool("fbsim.with_car", req.Scenario.WithCar),
		attribute.Bool("fbsim.seeded", req.Seed != nil),
	)

	start := time.Now()
	scenarios := 1
	if req.Scenario.WithCar {
		scenarios = 2
	}
	total := req.Sims * scenarios

	result := &Result{Sims: req.Sims}

	base, err := r.runScenario(ctx, "baseline", req.Scenario.Baseline(), req, req.Seed, offsetProgress(progressFn, 0, total))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	result.Baseline = *base

	if req.Scenario.WithCar {
		var carSeed *uint64
		if req.Seed != nil {
			s := *req.Seed + carSeedOffset
			carSeed = &s
		}
		car, err := r.runScenario(ctx, "car", req.Scenario, req, carSeed, offsetProgress(progressFn, req.Sims, total))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		result.Car = car
		cmp := Compare(base.Summary, car.Summary)
		result.Comparison = &cmp
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

func (r *Runner) runScenario(
	ctx context.Context,
	label string,
	cfg model.SimulationConfig,
	req Request,
	seed *uint64,
	progressFn ProgressFunc,
) (*ScenarioResult, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "pipeline.scenario")
	defer span.End()
	span.SetAttributes(attribute.String("fbsim.scenario", label))

	sr := &ScenarioResult{Label: label, Config: cfg}

	// Only seeded runs are reproducible, so only they are cached.
	if seed != nil && r.Cache != nil {
		key, err := CacheKey(cfg, req.Sims, *seed)
		if err != nil {
			r.logger().WithError(err).Warn("cache key unavailable, running uncached")
		} else {
			sr.Key = key
			cached, ok, err := r.Cache.LoadSummary(key)
			switch {
			case err != nil:
				r.logger().WithError(err).WithField("key", key).Warn("cache read failed, running uncached")
			case ok:
				sr.Summary = cached
				sr.CacheHit = true
				span.SetAttributes(attribute.Bool("fbsim.cache_hit", true))
				if progressFn != nil {
					progressFn(req.Sims, req.Sims)
				}
				return sr, nil
			}
		}
	}
	span.SetAttributes(attribute.Bool("fbsim.cache_hit", false))

	opts := []simulation.Option{simulation.WithWorkers(req.Workers)}
	if seed != nil {
		opts = append(opts, simulation.WithSeed(*seed))
	}
	if progressFn != nil {
		opts = append(opts, simulation.WithProgress(simulation.ProgressFunc(progressFn)))
	}

	paths, err := simulation.Generate(cfg, req.Sims, opts...)
	if err != nil {
		return nil, fmt.Errorf("simulating %s: %w", label, err)
	}
	summary, err := simulation.Summarize(paths)
	if err != nil {
		return nil, fmt.Errorf("summarizing %s: %w", label, err)
	}
	sr.Paths = paths
	sr.Summary = summary

	if sr.Key != "" {
		info := model.RunInfo{
			Key:     sr.Key,
			Label:   label,
			Sims:    req.Sims,
			Years:   cfg.Years,
			Seed:    *seed,
			WithCar: cfg.WithCar,
		}
		if err := r.Cache.SaveSummary(info, summary); err != nil {
			r.logger().WithError(err).WithField("key", sr.Key).Warn("cache write failed")
		}
	}

	return sr, nil
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}

// offsetProgress maps per-scenario progress onto the whole run.
func offsetProgress(fn ProgressFunc, offset, total int) ProgressFunc {
	if fn == nil {
		return nil
	}
	return func(current, _ int) {
		fn(offset+current, total)
	}
}

// Compare returns car-minus-baseline deltas.
func Compare(baseline, car model.Summary) model.Comparison {
	return model.Comparison{
		MedianDelta:   car.FinalMedian - baseline.FinalMedian,
		MeanDelta:     car.FinalMean - baseline.FinalMean,
		ProbLossDelta: car.ProbLoss - baseline.ProbLoss,
	}
}
