// Package simulator runs a full production-to-cash-flow simulation for one
// asset and sweeps solar orientations.
package simulator

import (
	"context"
	"fmt"

	"renewable_simulator/internal/cashflow"
	"renewable_simulator/internal/config"
	"renewable_simulator/internal/energy"
	"renewable_simulator/internal/ingest"
	"renewable_simulator/internal/model"
)

// SeriesSource looks up preloaded resource series by ID, in time order.
type SeriesSource interface {
	Samples(id string) ([]model.Sample, error)
}

// Progress is emitted once per evaluated optimizer candidate.
type Progress struct {
	Done      int       `json:"done"`
	Total     int       `json:"total"`
	Candidate Candidate `json:"candidate"`
}

// Observer receives optimizer events. Calls are serialized.
type Observer interface {
	OnProgress(p Progress)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Progress)

func (f ObserverFunc) OnProgress(p Progress) { f(p) }

// Engine simulates wind and solar assets. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	cfg      config.Engine
	series   SeriesSource
	observer Observer
	workers  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeries resolves series_id references in requests.
func WithSeries(s SeriesSource) Option {
	return func(e *Engine) { e.series = s }
}

// WithObserver sets the optimizer progress observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithWorkers bounds optimizer concurrency.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New builds an Engine from its defaults.
func New(cfg config.Engine, opts ...Option) *Engine {
	e := &Engine{cfg: cfg, workers: 4}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Config returns the engine defaults.
func (e *Engine) Config() config.Engine {
	return e.cfg
}

// seriesValues resolves a series reference for field. Every sample must be
// of kind, so a price series cannot stand in for wind speeds.
func (e *Engine) seriesValues(field, id string, kind model.SeriesKind) ([]float64, error) {
	samples, err := e.seriesSamples(field, id, kind)
	if err != nil {
		return nil, err
	}
	return model.Values(samples), nil
}

func (e *Engine) seriesSamples(field, id string, kind model.SeriesKind) ([]model.Sample, error) {
	if e.series == nil {
		return nil, model.Invalid(field, "series %q requested but no series are loaded", id)
	}
	samples, err := e.series.Samples(id)
	if err != nil {
		return nil, &model.ValidationError{Field: field, Reason: err.Error()}
	}
	if len(samples) == 0 {
		return nil, model.Invalid(field, "series %q is empty", id)
	}
	for _, smp := range samples {
		if smp.Kind != kind {
			return nil, model.Invalid(field, "series %q holds %s values, need %s", id, smp.Kind, kind)
		}
	}
	return samples, nil
}

// resolveMarket fills the zero statistics of m from its price series. The
// caller's MarketPrice is not modified.
func (e *Engine) resolveMarket(m *model.MarketPrice) (*model.MarketPrice, error) {
	if m == nil || m.SeriesID == "" {
		return m, nil
	}
	samples, err := e.seriesSamples("market.series_id", m.SeriesID, model.SeriesPrice)
	if err != nil {
		return nil, err
	}
	stats, err := ingest.PriceStats(samples)
	if err != nil {
		return nil, &model.ValidationError{Field: "market.series_id", Reason: err.Error()}
	}

	out := *m
	if out.Average == 0 {
		out.Average = stats.Average
	}
	if out.Min == 0 {
		out.Min = stats.Min
	}
	if out.Max == 0 {
		out.Max = stats.Max
	}
	if len(out.Monthly) == 0 {
		out.Monthly = stats.Monthly
	}
	return &out, nil
}

// outcome is the shared tail of every simulation: ledger and metrics.
type outcome struct {
	params  cashflow.Params
	ledger  cashflow.Ledger
	metrics model.FinancialMetrics
	market  *model.MarketPrice
}

func (e *Engine) project(ctx context.Context, profile energy.Profile, params cashflow.Params) (outcome, error) {
	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}
	ledger, err := cashflow.Project(profile, params)
	if err != nil {
		return outcome{}, fmt.Errorf("cash flow: %w", err)
	}
	return outcome{
		params:  params,
		ledger:  ledger,
		metrics: cashflow.Evaluate(ledger, params),
	}, nil
}

func (e *Engine) assemble(tech model.Technology, firstYear float64, technical model.Technical, f outcome) model.Result {
	m := f.metrics
	return model.Result{
		Summary: model.Summary{
			Technology:         tech,
			FirstYearKWh:       firstYear,
			TotalInvestmentEUR: f.params.Capex,
			ROIPercent:         m.ROIPercent,
			PaybackYears:       m.PaybackProject,
			NPVEUR:             m.NPVProjectEUR,
			IRR:                m.IRRProject,
			CO2AvoidedKg:       firstYear * e.cfg.CO2FactorKgPerKWh,
		},
		Technical: technical,
		Financial: model.Financial{
			Scenario:         f.params.Scenario.Name,
			CapexEUR:         f.params.Capex,
			DebtEUR:          f.params.Debt(),
			PurchasePriceEUR: f.params.PurchasePrice,
			FeedInPriceEUR:   f.params.FeedInPrice,
			Market:           f.market,
			Years:            f.ledger.Rows,
			Metrics:          m,
			Warnings:         f.ledger.Warnings,
		},
	}
}
