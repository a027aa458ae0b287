package wind

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"renewable_simulator/internal/model"
	"renewable_simulator/internal/numeric"
)

const (
	hoursPerYear = 8760.0
	daysPerYear  = 365.0
	// integrationTail extends the integral past cut-out.
	integrationTail = 5.0
	// DefaultStep is the trapezoid step in m/s.
	DefaultStep = 0.5
)

// Site is the resolved wind resource and atmosphere at the turbine.
type Site struct {
	MeanSpeedMS      float64
	ReferenceHeightM float64
	HubHeightM       float64
	ShearExponent    float64
	// RoughnessLengthM switches to the log-law profile when positive.
	RoughnessLengthM float64
	AltitudeM        float64
	TemperatureC     float64
	// AirDensity overrides the altitude formula when positive.
	AirDensity float64
	// DailySpeedsMS is a day-by-day record at the reference height.
	DailySpeedsMS      []float64
	SouthernHemisphere bool
}

// Losses are fractional reductions applied to gross output. The zero value
// is a loss-free turbine. Downtime is 1 − availability.
type Losses struct {
	Wake     float64
	Downtime float64
}

// Total returns the combined loss fraction, clamped to [0, 1].
func (l Losses) Total() float64 {
	return numeric.Clamp(l.Wake+l.Downtime, 0, 1)
}

// EstimateInput bundles everything Estimate needs.
type EstimateInput struct {
	Turbine  Turbine
	Site     Site
	WeibullK float64
	// Step is the integration step in m/s. Zero uses DefaultStep.
	Step   float64
	Losses Losses
}

// Production is the wind energy estimate.
type Production struct {
	HubSpeedMS        float64
	AirDensity        float64
	WeibullScale      float64
	ExpectedPowerKW   float64
	DailyKWh          float64
	DaysFromSeries    int
	GrossAnnualKWh    float64
	NetAnnualKWh      float64
	LossFraction      float64
	CapacityFactorRaw float64
	CapacityFactor    float64
	MonthlyKWh        [12]float64
	CurveSource       string
}

// ExpectedPowerKW integrates P(v)·f(v) over [0, cutOut+5] for a Weibull
// distribution with the given mean and shape.
func ExpectedPowerKW(t Turbine, meanSpeed, k, rho, step float64) float64 {
	if meanSpeed <= 0 {
		return 0
	}
	if step <= 0 {
		step = DefaultStep
	}
	lambda := numeric.WeibullScale(meanSpeed, k)
	if lambda <= 0 {
		return 0
	}

	upper := t.CutOutMS + integrationTail
	n := int(math.Round(upper/step)) + 1
	xs := make([]float64, n)
	fs := make([]float64, n)
	for i := range xs {
		v := float64(i) * step
		xs[i] = v
		p := t.PowerAt(v, rho)
		if p == 0 {
			// Skips the pdf where it may be infinite (v=0 with k<1).
			continue
		}
		fs[i] = p * numeric.WeibullPDF(v, k, lambda)
	}
	return integrate.Trapezoidal(xs, fs)
}

// HubSpeed moves a reference-height speed to hub height.
func (s Site) HubSpeed(v float64) float64 {
	if s.RoughnessLengthM > 0 {
		return numeric.ShearLogLaw(v, s.ReferenceHeightM, s.HubHeightM, s.RoughnessLengthM)
	}
	return numeric.ShearPowerLaw(v, s.ReferenceHeightM, s.HubHeightM, s.ShearExponent)
}

// Density returns the override, or the barometric estimate.
func (s Site) Density() float64 {
	if s.AirDensity > 0 {
		return s.AirDensity
	}
	return numeric.AirDensity(s.AltitudeM, s.TemperatureC)
}

// Estimate computes daily, annual and monthly energy. A mean speed at or
// below zero yields zero energy.
func Estimate(in EstimateInput) (Production, error) {
	if err := in.Turbine.Validate(); err != nil {
		return Production{}, err
	}
	if err := validateSite(in); err != nil {
		return Production{}, err
	}

	t := in.Turbine
	rho := in.Site.Density()
	hub := in.Site.HubSpeed(in.Site.MeanSpeedMS)
	if in.Site.MeanSpeedMS <= 0 {
		hub = 0
	}

	prod := Production{
		HubSpeedMS:   hub,
		AirDensity:   rho,
		WeibullScale: numeric.WeibullScale(hub, in.WeibullK),
		CurveSource:  t.CurveSource(),
	}
	prod.ExpectedPowerKW = ExpectedPowerKW(t, hub, in.WeibullK, rho, in.Step)
	prod.DailyKWh = prod.ExpectedPowerKW * 24
	prod.GrossAnnualKWh = prod.DailyKWh * daysPerYear

	if len(in.Site.DailySpeedsMS) > 0 {
		daily := make([]float64, len(in.Site.DailySpeedsMS))
		for i, v := range in.Site.DailySpeedsMS {
			daily[i] = ExpectedPowerKW(t, in.Site.HubSpeed(v), in.WeibullK, rho, in.Step) * 24
		}
		prod.DaysFromSeries = len(daily)
		prod.DailyKWh = floats.Sum(daily) / float64(len(daily))
		prod.GrossAnnualKWh = prod.DailyKWh * daysPerYear
	}

	prod.LossFraction = in.Losses.Total()
	prod.NetAnnualKWh = prod.GrossAnnualKWh * (1 - prod.LossFraction)
	prod.CapacityFactorRaw = prod.NetAnnualKWh / (t.RatedPowerKW * hoursPerYear)
	prod.CapacityFactor = numeric.Clamp(prod.CapacityFactorRaw, 0, 1)
	prod.MonthlyKWh = SeasonalSplit(prod.NetAnnualKWh, in.Site.SouthernHemisphere)
	return prod, nil
}

func validateSite(in EstimateInput) error {
	s := in.Site
	if in.WeibullK <= 0 {
		return model.Invalid("technical.weibull_k", "must be positive, got %v", in.WeibullK)
	}
	if s.HubHeightM < 0 {
		return model.Invalid("technical.hub_height_m", "must not be negative, got %v", s.HubHeightM)
	}
	if s.ReferenceHeightM < 0 {
		return model.Invalid("resource.reference_height_m", "must not be negative, got %v", s.ReferenceHeightM)
	}
	if math.IsNaN(s.MeanSpeedMS) || math.IsInf(s.MeanSpeedMS, 0) {
		return model.Invalid("resource.mean_speed_ms", "must be finite")
	}
	for i, v := range s.DailySpeedsMS {
		if v < 0 || math.IsNaN(v) {
			return model.Invalid("resource.daily_speeds_ms", "day %d has invalid speed %v", i, v)
		}
	}
	if in.Losses.Wake < 0 || in.Losses.Wake > 1 {
		return model.Invalid("technical.wake_loss", "%v outside [0, 1]", in.Losses.Wake)
	}
	if in.Losses.Downtime < 0 || in.Losses.Downtime > 1 {
		return model.Invalid("technical.availability", "%v outside [0, 1]", 1-in.Losses.Downtime)
	}
	return nil
}

// seasonalAmplitude is the relative swing between the windiest and calmest month.
const seasonalAmplitude = 0.2

// SeasonalSplit spreads annual energy over months, windier in local winter.
func SeasonalSplit(annual float64, southern bool) [12]float64 {
	var out [12]float64
	shift := 0.0
	if southern {
		shift = 6
	}
	for m := 0; m < 12; m++ {
		factor := 1 + seasonalAmplitude*math.Cos(2*math.Pi*(float64(m)-shift)/12)
		out[m] = annual / 12 * factor
	}
	return out
}
