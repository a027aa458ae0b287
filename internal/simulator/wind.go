package simulator

import (
	"context"

	"renewable_simulator/internal/cashflow"
	"renewable_simulator/internal/energy"
	"renewable_simulator/internal/model"
	"renewable_simulator/internal/wind"
)

// SimulateWind validates req, estimates production and projects the ledger.
func (e *Engine) SimulateWind(ctx context.Context, req model.WindRequest) (model.Result, error) {
	if err := ctx.Err(); err != nil {
		return model.Result{}, err
	}
	if err := req.Location.Validate(); err != nil {
		return model.Result{}, err
	}

	in, err := e.windInput(req)
	if err != nil {
		return model.Result{}, err
	}
	if err := in.Turbine.Validate(); err != nil {
		return model.Result{}, err
	}

	market, err := e.resolveMarket(req.Market)
	if err != nil {
		return model.Result{}, err
	}

	prod, err := wind.Estimate(in)
	if err != nil {
		return model.Result{}, err
	}

	correction := req.Corrections.PerformanceFactor()
	net := prod.NetAnnualKWh * correction
	monthly := make([]float64, 12)
	for i, v := range prod.MonthlyKWh {
		monthly[i] = v * correction
	}

	capacity := req.Technical.RatedPowerKW
	capex, err := req.Costs.Resolve(capacity, model.TechnologyCatalog[model.TechnologyWind].CapexPerKW)
	if err != nil {
		return model.Result{}, err
	}
	params, err := cashflow.Resolve(req.Financial, cashflow.ResolveContext{
		Technology:  model.TechnologyWind,
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

	profile := energy.Degrading{FirstYearKWh: net, Rate: e.cfg.Wind.Degradation}
	out, err := e.project(ctx, profile, params)
	if err != nil {
		return model.Result{}, err
	}
	out.market = market

	technical := model.Technical{
		CapacityKW:        capacity,
		GrossAnnualKWh:    prod.GrossAnnualKWh,
		NetAnnualKWh:      net,
		LossesPercent:     prod.LossFraction * 100,
		CapacityFactorRaw: prod.CapacityFactorRaw * correction,
		CapacityFactor:    clampUnit(prod.CapacityFactorRaw * correction),
		MonthlyKWh:        monthly,
		Wind: &model.WindDetail{
			HubSpeedMS:       prod.HubSpeedMS,
			AirDensity:       prod.AirDensity,
			WeibullK:         in.WeibullK,
			WeibullScale:     prod.WeibullScale,
			ExpectedPowerKW:  prod.ExpectedPowerKW,
			DailyKWh:         prod.DailyKWh,
			DaysFromSeries:   prod.DaysFromSeries,
			PowerCurveSource: prod.CurveSource,
		},
	}
	return e.assemble(model.TechnologyWind, net, technical, out), nil
}

// windInput applies engine defaults to the zero fields of req.
func (e *Engine) windInput(req model.WindRequest) (wind.EstimateInput, error) {
	d := e.cfg.Wind
	t := req.Technical
	r := req.Resource

	turbine := wind.Turbine{
		RatedPowerKW:     t.RatedPowerKW,
		RotorDiameterM:   t.RotorDiameterM,
		CutInMS:          orDefaultPtr(t.CutInMS, d.CutInMS),
		RatedSpeedMS:     orDefaultPtr(t.RatedSpeedMS, d.RatedSpeedMS),
		CutOutMS:         orDefaultPtr(t.CutOutMS, d.CutOutMS),
		PowerCoefficient: d.PowerCoefficient,
		Curve:            t.PowerCurve,
	}

	site := wind.Site{
		MeanSpeedMS:        r.MeanSpeedMS,
		ReferenceHeightM:   orDefault(r.ReferenceHeightM, d.ReferenceHeightM),
		HubHeightM:         t.HubHeightM,
		ShearExponent:      d.ShearExponent,
		RoughnessLengthM:   t.RoughnessLengthM,
		AltitudeM:          req.Location.AltitudeM,
		TemperatureC:       d.TemperatureC,
		DailySpeedsMS:      r.DailySpeedsMS,
		SouthernHemisphere: req.Location.SouthernHemisphere(),
	}
	if t.ShearExponent != nil {
		site.ShearExponent = *t.ShearExponent
	}
	if r.MeanTemperatureC != nil {
		site.TemperatureC = *r.MeanTemperatureC
	}
	if t.AirDensity != nil {
		if *t.AirDensity <= 0 {
			return wind.EstimateInput{}, model.Invalid("technical.air_density_kg_m3", "must be positive, got %v", *t.AirDensity)
		}
		site.AirDensity = *t.AirDensity
	}
	if len(site.DailySpeedsMS) == 0 && r.SeriesID != "" {
		vals, err := e.seriesValues("resource.series_id", r.SeriesID, model.SeriesWindSpeed)
		if err != nil {
			return wind.EstimateInput{}, err
		}
		site.DailySpeedsMS = vals
	}

	return wind.EstimateInput{
		Turbine:  turbine,
		Site:     site,
		WeibullK: orDefault(t.WeibullK, d.WeibullK),
		Step:     d.IntegrationStep,
		Losses: wind.Losses{
			Wake:     t.WakeLoss.Or(d.WakeLoss),
			Downtime: 1 - t.Availability.Or(d.Availability),
		},
	}, nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// orDefaultPtr keeps an explicit zero, unlike orDefault.
func orDefaultPtr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
