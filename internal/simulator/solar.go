package simulator

import (
	"context"
	"fmt"

	"renewable_simulator/internal/cashflow"
	"renewable_simulator/internal/energy"
	"renewable_simulator/internal/model"
	"renewable_simulator/internal/solar"
)

// SimulateSolar validates req, estimates production and projects the
// ledger. A long-term monthly series, when supplied, drives the ledger
// directly and no degradation is applied on top of it.
func (e *Engine) SimulateSolar(ctx context.Context, req model.SolarRequest) (model.Result, error) {
	if err := ctx.Err(); err != nil {
		return model.Result{}, err
	}
	if err := req.Location.Validate(); err != nil {
		return model.Result{}, err
	}

	in, longTerm, err := e.solarInput(req)
	if err != nil {
		return model.Result{}, err
	}
	if err := in.Validate(); err != nil {
		return model.Result{}, err
	}

	fin := req.Financial
	if fin.Years == 0 {
		fin.Years = req.Technical.LifetimeYears
	}
	if fin.Years == 0 {
		fin.Years = e.cfg.Solar.LifetimeYears
	}

	market, err := e.resolveMarket(req.Market)
	if err != nil {
		return model.Result{}, err
	}

	prod, err := solar.Estimate(in)
	if err != nil {
		return model.Result{}, err
	}

	var profile energy.Profile = energy.Degrading{FirstYearKWh: prod.AnnualKWh, Rate: in.Degradation}
	source := prod.Source
	monthly := prod.MonthlyKWh[:]
	if len(longTerm) > 0 {
		series, err := energy.NewMonthlySeries(scale(longTerm, req.Corrections.PerformanceFactor()))
		if err != nil {
			return model.Result{}, &model.ValidationError{Field: "resource.long_term_monthly_kwh", Reason: err.Error()}
		}
		profile = series
		source = solar.SourceExternalLongTerm
		monthly = scale(longTerm[:12], req.Corrections.PerformanceFactor())
	}
	firstYear, err := profile.Annual(1)
	if err != nil {
		return model.Result{}, fmt.Errorf("first-year energy: %w", err)
	}

	capacity := req.Technical.CapacityKWp
	capex, err := req.Costs.Resolve(capacity, model.TechnologyCatalog[model.TechnologySolar].CapexPerKW)
	if err != nil {
		return model.Result{}, err
	}
	params, err := cashflow.Resolve(fin, cashflow.ResolveContext{
		Technology:  model.TechnologySolar,
		CapacityKW:  capacity,
		Capex:       capex,
		Market:      market,
		MonthlyKWh:  monthly,
		PriceFactor: req.Corrections.PriceMultiplier(),
		AnnualOpex:  req.Costs.AnnualOpex,
	}, e.cfg)
	if err != nil {
		return model.Result{}, err
	}

	out, err := e.project(ctx, profile, params)
	if err != nil {
		return model.Result{}, err
	}
	out.market = market

	var cf float64
	if capacity > 0 {
		cf = firstYear / (capacity * 8760)
	}
	technical := model.Technical{
		CapacityKW:        capacity,
		GrossAnnualKWh:    firstYear,
		NetAnnualKWh:      firstYear,
		CapacityFactorRaw: cf,
		CapacityFactor:    clampUnit(cf),
		MonthlyKWh:        monthly,
		Solar: &model.SolarDetail{
			OrientationFactor: prod.OrientationFactor,
			PerformanceRatio:  prod.PerformanceRatio,
			SpecificYield:     prod.SpecificYield,
			Degradation:       in.Degradation,
			Source:            source,
		},
	}
	if len(longTerm) > 0 && capacity > 0 {
		technical.Solar.SpecificYield = firstYear / capacity
	}
	return e.assemble(model.TechnologySolar, firstYear, technical, out), nil
}

// solarInput applies engine defaults and resolves series references. It
// returns the long-term monthly series separately.
func (e *Engine) solarInput(req model.SolarRequest) (solar.EstimateInput, []float64, error) {
	d := e.cfg.Solar
	t := req.Technical
	r := req.Resource

	longTerm := r.LongTermMonthlyKWh
	if len(longTerm) == 0 && r.SeriesID != "" {
		vals, err := e.seriesValues("resource.series_id", r.SeriesID, model.SeriesEnergy)
		if err != nil {
			return solar.EstimateInput{}, nil, err
		}
		longTerm = vals
	}
	if n := len(longTerm); n%12 != 0 {
		return solar.EstimateInput{}, nil, model.Invalid("resource.long_term_monthly_kwh", "need whole years of monthly values, got %d", n)
	}

	monthly := r.MonthlyKWh
	if len(monthly) == 0 && len(longTerm) > 0 {
		monthly = longTerm[:12]
	}

	in := solar.EstimateInput{
		CapacityKWp:       t.CapacityKWp,
		TiltDeg:           t.TiltDeg,
		AzimuthDeg:        t.AzimuthDeg,
		Degradation:       t.Degradation.Or(d.Degradation),
		PerformanceRatio:  t.PerformanceRatio.Or(d.PerformanceRatio),
		BaseSpecificYield: orDefault(r.BaseSpecificYield, d.BaseSpecificYield),
		SpecificYield:     r.SpecificYield,
		MonthlyKWh:        monthly,
		CorrectionFactor:  req.Corrections.PerformanceFactor(),
		Orientation: solar.Orientation{
			OptimalTiltDeg:    d.OptimalTiltDeg,
			OptimalAzimuthDeg: d.OptimalAzimuthDeg,
			TiltPenalty:       d.TiltPenalty,
			AzimuthPenalty:    d.AzimuthPenalty,
			MinFactor:         d.MinOrientation,
		},
		SouthernHemisphere: req.Location.SouthernHemisphere(),
	}
	return in, longTerm, nil
}

func scale(vals []float64, f float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v * f
	}
	return out
}
