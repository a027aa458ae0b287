// Package service runs simulations on behalf of the transports: it
// consults the result cache, persists every run, records metrics and
// announces saved runs.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"renewable_simulator/internal/cache"
	"renewable_simulator/internal/metrics"
	"renewable_simulator/internal/model"
	"renewable_simulator/internal/simulator"
	"renewable_simulator/internal/store"
)

// Notifier is told about every saved run.
type Notifier interface {
	PublishRun(run store.Run) error
}

// OptimizeRequest is a solar request plus the orientation sweep. A nil
// Grid uses the default sweep.
type OptimizeRequest struct {
	Request model.SolarRequest         `json:"request" yaml:"request"`
	Grid    *simulator.OrientationGrid `json:"grid,omitempty" yaml:"grid"`
}

// Optimization is a finished sweep and the run that stores its best result.
type Optimization struct {
	Run    store.Run                `json:"run"`
	Result simulator.OptimizeResult `json:"result"`
}

// Service wires the engine to its supporting infrastructure.
type Service struct {
	engine    *simulator.Engine
	runs      store.Runs
	cache     cache.Cache
	metrics   *metrics.Metrics
	notifiers []Notifier
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithNotifier adds a receiver of run announcements.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifiers = append(s.notifiers, n) }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service. Runs default to an in-memory repository.
func New(engine *simulator.Engine, runs store.Runs, opts ...Option) *Service {
	if runs == nil {
		runs = store.NewMemoryRuns()
	}
	s := &Service{engine: engine, runs: runs, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Engine returns the underlying simulation engine.
func (s *Service) Engine() *simulator.Engine {
	return s.engine
}

// Runs returns the run repository.
func (s *Service) Runs() store.Runs {
	return s.runs
}

// SimulateWind runs and persists a wind simulation.
func (s *Service) SimulateWind(ctx context.Context, req model.WindRequest) (store.Run, error) {
	return s.simulate(ctx, model.TechnologyWind, req, func(ctx context.Context) (model.Result, error) {
		return s.engine.SimulateWind(ctx, req)
	})
}

// SimulateSolar runs and persists a solar simulation.
func (s *Service) SimulateSolar(ctx context.Context, req model.SolarRequest) (store.Run, error) {
	return s.simulate(ctx, model.TechnologySolar, req, func(ctx context.Context) (model.Result, error) {
		return s.engine.SimulateSolar(ctx, req)
	})
}

// OptimizeSolar sweeps orientations and persists the best candidate's result.
// Sweeps are not cached.
func (s *Service) OptimizeSolar(ctx context.Context, req OptimizeRequest) (Optimization, error) {
	grid := simulator.DefaultGrid()
	if req.Grid != nil {
		grid = *req.Grid
	}

	start := time.Now()
	res, err := s.engine.Optimize(ctx, req.Request, grid)
	if s.metrics != nil {
		s.metrics.ObserveSimulation(model.TechnologySolar, time.Since(start), res.BestResult, err)
		s.metrics.AddCandidates(len(res.Candidates))
	}
	if err != nil {
		return Optimization{}, err
	}
	s.logger.Info("orientation sweep finished",
		zap.Int("candidates", len(res.Candidates)),
		zap.Float64("best_tilt_deg", res.Best.TiltDeg),
		zap.Float64("best_azimuth_deg", res.Best.AzimuthDeg),
		zap.Float64("best_npv_eur", res.Best.NPVEUR))

	run, err := s.save(ctx, model.TechnologySolar, req, res.BestResult)
	if err != nil {
		return Optimization{}, err
	}
	return Optimization{Run: run, Result: res}, nil
}

func (s *Service) simulate(ctx context.Context, tech model.Technology, req any, run func(context.Context) (model.Result, error)) (store.Run, error) {
	key := s.cacheKey(string(tech), req)
	if result, ok := s.lookup(ctx, key); ok {
		return s.save(ctx, tech, req, result)
	}

	start := time.Now()
	result, err := run(ctx)
	if s.metrics != nil {
		s.metrics.ObserveSimulation(tech, time.Since(start), result, err)
	}
	if err != nil {
		return store.Run{}, err
	}
	s.remember(ctx, key, result)
	return s.save(ctx, tech, req, result)
}

func (s *Service) cacheKey(operation string, req any) string {
	if s.cache == nil {
		return ""
	}
	key, err := cache.Key(operation, req)
	if err != nil {
		s.logger.Warn("cache key", zap.Error(err))
		return ""
	}
	return key
}

func (s *Service) lookup(ctx context.Context, key string) (model.Result, bool) {
	if key == "" {
		return model.Result{}, false
	}
	result, err := s.cache.Get(ctx, key)
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
	}
	hit := err == nil
	if s.metrics != nil {
		s.metrics.ObserveCache(hit)
	}
	return result, hit
}

func (s *Service) remember(ctx context.Context, key string, result model.Result) {
	if key == "" {
		return
	}
	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) save(ctx context.Context, tech model.Technology, req any, result model.Result) (store.Run, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return store.Run{}, fmt.Errorf("encoding request: %w", err)
	}
	run, err := s.runs.Save(ctx, store.Run{Technology: tech, Request: raw, Result: result})
	if err != nil {
		return store.Run{}, fmt.Errorf("saving run: %w", err)
	}
	s.logger.Debug("run saved", zap.String("id", run.ID), zap.String("technology", string(tech)))
	for _, n := range s.notifiers {
		if err := n.PublishRun(run); err != nil {
			s.logger.Warn("run announcement failed", zap.String("id", run.ID), zap.Error(err))
		}
	}
	return run, nil
}
