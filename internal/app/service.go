// Package service provides the estimation service that implements
// the dependencies required by the HTTP API and the console.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/lifespan/internal/domain/factor"
	"github.com/okian/lifespan/internal/domain/model"
	"github.com/okian/lifespan/internal/domain/report"
	"github.com/okian/lifespan/internal/domain/response"
	"github.com/okian/lifespan/internal/domain/scoring"
	"github.com/okian/lifespan/pkg/logger"
	"github.com/okian/lifespan/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Request is one estimate request. Exactly one of Responses, Answers or
// Weights must be set.
type Request struct {
	Gender string
	// Responses maps factor names (or decimal positions) to free-form answers.
	Responses map[string]string
	// Answers holds free-form answers in table order.
	Answers []string
	// Weights holds pre-normalized weights in table order.
	Weights []float64
}

// Service implements the estimator. After Start it holds only immutable
// state and is safe for concurrent use.
type Service struct {
	mu sync.RWMutex

	// Core components
	table   *factor.Table
	scorer  scoring.Scorer
	builder *report.Builder

	// Configuration
	dampingConstant float64
	baselineAge     float64

	// State
	started   bool
	estimates atomic.Int64
	rejected  atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTable sets the reference table. Without it Start uses the embedded table.
func WithTable(table *factor.Table) Option {
	return func(s *Service) {
		if table != nil {
			s.table = table
		}
	}
}

// WithDampingConstant sets the divisor applied to the weighted sum.
func WithDampingConstant(d float64) Option {
	return func(s *Service) {
		if d > 0 {
			s.dampingConstant = d
		}
	}
}

// WithBaselineAge sets the average life expectancy estimates are relative to.
func WithBaselineAge(age float64) Option {
	return func(s *Service) {
		if age > 0 {
			s.baselineAge = age
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dampingConstant: scoring.DefaultDampingConstant,
		baselineAge:     report.DefaultBaselineAge,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the scoring components. The table is never reloaded afterwards.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.table == nil {
		start := time.Now()
		table, err := factor.Default()
		if err != nil {
			return err
		}
		s.table = table
		metrics.RecordTableLoad(table.Len(), float64(time.Since(start).Nanoseconds())/nanosecondsPerMillisecond)
		s.logger.Info(ctx, "using embedded factor table", logger.String("source", factor.DefaultSource))
	}

	s.scorer = scoring.NewWeightedScorer(scoring.WithDampingConstant(s.dampingConstant))
	s.builder = report.NewBuilder(report.WithBaselineAge(s.baselineAge))

	s.started = true
	s.logger.Info(ctx, "estimator service started",
		logger.Int("factors", s.table.Len()),
		logger.Float64("dampingConstant", s.dampingConstant),
		logger.Float64("baselineAge", s.baselineAge),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "estimator service stopped",
		logger.Int("estimates", int(s.estimates.Load())),
		logger.Int("rejected", int(s.rejected.Load())),
	)
}

// Estimate normalizes the request, scores it and builds the report. On error
// no partial report is returned.
func (s *Service) Estimate(ctx context.Context, req Request) (report.Report, error) {
	s.mu.RLock()
	started, table, scorer, builder := s.started, s.table, s.scorer, s.builder
	s.mu.RUnlock()
	if !started {
		return report.Report{}, ErrNotStarted
	}

	start := time.Now()
	rep, err := estimate(table, scorer, builder, req)
	if err != nil {
		kind := ErrorKind(err)
		s.rejected.Add(1)
		metrics.RecordEstimateError(kind)
		s.logger.Debug(ctx, "estimate rejected", logger.String("kind", kind), logger.Error(err))
		return report.Report{}, err
	}

	s.estimates.Add(1)
	metrics.RecordEstimate(rep.ChangeInAge, float64(time.Since(start).Nanoseconds())/nanosecondsPerMillisecond)
	s.logger.Debug(ctx, "estimate computed",
		logger.String("gender", rep.Gender.String()),
		logger.Float64("changeInAge", rep.ChangeInAge),
		logger.Int("estimatedAge", rep.EstimatedAge),
		logger.Int("rankedFactors", len(rep.RankedFactors)),
	)
	return rep, nil
}

func estimate(table *factor.Table, scorer scoring.Scorer, builder *report.Builder, req Request) (report.Report, error) {
	g, err := model.ParseGender(req.Gender)
	if err != nil {
		return report.Report{}, err
	}

	v, err := normalize(table, req)
	if err != nil {
		return report.Report{}, err
	}

	res, err := scorer.Score(table, v, g)
	if err != nil {
		return report.Report{}, err
	}
	return builder.Build(res, g), nil
}

func normalize(table *factor.Table, req Request) (model.Vector, error) {
	supplied := 0
	for _, set := range []bool{req.Responses != nil, req.Answers != nil, req.Weights != nil} {
		if set {
			supplied++
		}
	}
	switch {
	case supplied == 0:
		return nil, ErrNoResponses
	case supplied > 1:
		return nil, ErrAmbiguousResponse
	case req.Responses != nil:
		return response.FromNamed(table, req.Responses)
	case req.Answers != nil:
		return response.FromOrdered(table, req.Answers)
	default:
		return response.FromWeights(table, req.Weights)
	}
}

// Factors returns the reference factors in table order.
func (s *Service) Factors(_ context.Context) []model.Factor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return nil
	}
	return s.table.Factors()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"dampingConstant": s.dampingConstant,
		"baselineAge":     s.baselineAge,
		"estimates":       s.estimates.Load(),
		"rejected":        s.rejected.Load(),
	}
	if s.table != nil {
		stats["factors"] = s.table.Len()
	}
	return stats
}
