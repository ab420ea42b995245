// Package planner runs the probabilistic roadmap pipeline: sample, index,
// connect, search.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"prm-planner/pkg/metrics"
	"prm-planner/pkg/roadmap"
	"prm-planner/pkg/sampler"
	"prm-planner/pkg/search"
	"prm-planner/pkg/spatial"
)

var tracer = otel.Tracer("prm-planner/planner")

type options struct {
	rng     *rand.Rand
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures Plan.
type Option func(*options)

// WithRand supplies the random source, overriding Config.Seed.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records into m instead of the global collectors. A nil m
// disables metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// Plan validates cfg and runs the pipeline once.
//
// The start and goal are appended after the samples; their node ids are
// reported in Result.Start and Result.Goal. A disconnected roadmap is not
// an error: the result has Found == false. Errors are an invalid
// configuration (ErrInvalidConfig), cancellation of ctx, or an aborted
// search (search.ErrSearchAborted).
func Plan(ctx context.Context, cfg Config, opts ...Option) (*Result, error) {
	o := options{logger: slog.Default(), metrics: metrics.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	runID := uuid.New()
	logger := o.logger.With("run_id", runID.String())

	ctx, span := tracer.Start(ctx, "planner.Plan",
		trace.WithAttributes(
			attribute.String("prm.run_id", runID.String()),
			attribute.Int("prm.samples", cfg.Samples),
			attribute.Float64("prm.radius", cfg.Radius),
			attribute.String("prm.index", cfg.Index.String()),
		),
	)
	defer span.End()

	if err := cfg.Validate(); err != nil {
		o.metrics.RecordOutcome(metrics.OutcomeInvalid)
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid configuration")
		logger.Warn("rejected planning request", "error", err)
		return nil, err
	}

	res := &Result{RunID: runID, Config: cfg}

	rng := o.rng
	if rng == nil {
		seed := time.Now().UnixNano()
		if cfg.Seed != nil {
			seed = *cfg.Seed
		}
		res.Seed = &seed
		rng = rand.New(rand.NewSource(seed))
	}

	logger.Info("planning started",
		"samples", cfg.Samples,
		"map_limits", []float64{cfg.Bounds.Min, cfg.Bounds.Max},
		"radius", cfg.Radius,
		"index", cfg.Index.String(),
		"workers", cfg.Workers,
	)

	r := runner{logger: logger, metrics: o.metrics}

	// Step 1: Sample, then append start and goal.
	if err := r.stage(ctx, metrics.StageSample, &res.Timings.Sample, func(context.Context) error {
		points := sampler.New(rng).Generate(cfg.Samples, cfg.Bounds)
		res.Start = len(points)
		res.Goal = len(points) + 1
		res.Points = append(points, cfg.Start, cfg.Goal)
		return nil
	}); err != nil {
		return nil, r.fail(span, metrics.OutcomeError, fmt.Errorf("sample: %w", err))
	}

	// Step 2: Index the full point set.
	var idx spatial.Index
	if err := r.stage(ctx, metrics.StageIndex, &res.Timings.Index, func(context.Context) error {
		var err error
		idx, err = spatial.Build(cfg.Index, res.Points)
		return err
	}); err != nil {
		return nil, r.fail(span, metrics.OutcomeError, fmt.Errorf("build spatial index: %w", err))
	}

	// Step 3: Connect neighbours.
	if err := r.stage(ctx, metrics.StageRoadmap, &res.Timings.Roadmap, func(ctx context.Context) error {
		g, err := roadmap.Build(ctx, res.Points, cfg.Radius, idx, roadmap.WithWorkers(cfg.Workers))
		if err != nil {
			return err
		}
		res.Graph = g
		res.Components = roadmap.Components(g)
		return nil
	}); err != nil {
		return nil, r.fail(span, metrics.OutcomeError, fmt.Errorf("build roadmap: %w", err))
	}

	o.metrics.ObserveRoadmap(res.Graph.NumNodes(), res.Graph.NumEdges())
	logger.Info("roadmap built",
		"nodes", res.Graph.NumNodes(),
		"edges", res.Graph.NumEdges(),
		"isolated", len(res.Graph.Isolated()),
		"components", res.Components.Count(),
		"elapsed", res.Timings.Roadmap,
	)
	if !res.Components.Connected(res.Start, res.Goal) {
		logger.Warn("start and goal are in different components",
			"start_component_size", res.Components.Size(res.Start),
			"goal_component_size", res.Components.Size(res.Goal),
		)
	}

	// Step 4: A* from start to goal.
	if err := r.stage(ctx, metrics.StageSearch, &res.Timings.Search, func(ctx context.Context) error {
		if cfg.SearchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.SearchTimeout)
			defer cancel()
		}
		path, found, err := search.FindPath(ctx, res.Graph, res.Start, res.Goal, search.Euclidean(res.Points))
		if err != nil {
			return err
		}
		res.Path, res.Found = path, found
		return nil
	}); err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, search.ErrSearchAborted) {
			outcome = metrics.OutcomeAborted
		}
		return nil, r.fail(span, outcome, fmt.Errorf("search: %w", err))
	}

	o.metrics.ObserveSearch(res.Path.Expanded)
	span.SetAttributes(
		attribute.Int("prm.edges", res.Graph.NumEdges()),
		attribute.Bool("prm.found", res.Found),
	)

	if res.Found {
		o.metrics.RecordOutcome(metrics.OutcomeFound)
		logger.Info("path found",
			"waypoints", len(res.Path.Nodes),
			"cost", res.Path.Cost,
			"expanded", res.Path.Expanded,
			"elapsed", res.Timings.Total(),
		)
	} else {
		o.metrics.RecordOutcome(metrics.OutcomeNoPath)
		logger.Info("no path found",
			"expanded", res.Path.Expanded,
			"elapsed", res.Timings.Total(),
		)
	}

	return res, nil
}

type runner struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// stage runs fn inside a child span and stores its duration in elapsed.
func (r *runner) stage(ctx context.Context, name string, elapsed *time.Duration, fn func(context.Context) error) error {
	ctx, span := tracer.Start(ctx, "planner."+name)
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	started := time.Now()
	err := fn(ctx)
	*elapsed = time.Since(started)

	r.metrics.ObserveStage(name, *elapsed)
	r.logger.Debug("stage finished", "stage", name, "elapsed", *elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *runner) fail(span trace.Span, outcome string, err error) error {
	r.metrics.RecordOutcome(outcome)
	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
	r.logger.Error("planning failed", "outcome", outcome, "error", err)
	return err
}
