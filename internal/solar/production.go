package solar

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"renewable_simulator/internal/model"
)

// Production sources.
const (
	SourceExternalMonthly = "external_monthly"
	SourceExternalYield   = "external_yield"
	SourceClosedForm      = "closed_form"

	// SourceExternalLongTerm marks a multi-year series already net of degradation.
	SourceExternalLongTerm = "external_long_term"
)

// EstimateInput describes a PV system and its already-resolved irradiance data.
type EstimateInput struct {
	CapacityKWp      float64
	TiltDeg          float64
	AzimuthDeg       float64
	Degradation      float64
	PerformanceRatio float64
	// BaseSpecificYield is the optimal-orientation yield used by the closed form.
	BaseSpecificYield float64
	// SpecificYield is an external yield already computed for this orientation.
	SpecificYield float64
	// MonthlyKWh is an external twelve-month breakdown for the whole system.
	MonthlyKWh []float64
	// CorrectionFactor multiplies the estimate. Zero means 1.
	CorrectionFactor   float64
	Orientation        Orientation
	SouthernHemisphere bool
}

// Production is the first-year solar estimate.
type Production struct {
	AnnualKWh         float64
	SpecificYield     float64
	OrientationFactor float64
	PerformanceRatio  float64
	CorrectionFactor  float64
	CapacityFactor    float64
	MonthlyKWh        [12]float64
	Source            string
}

// Validate rejects physically meaningless systems.
func (in EstimateInput) Validate() error {
	if in.CapacityKWp < 0 || math.IsNaN(in.CapacityKWp) {
		return model.Invalid("technical.capacity_kwp", "must not be negative, got %v", in.CapacityKWp)
	}
	if in.TiltDeg < 0 || in.TiltDeg > 90 {
		return model.Invalid("technical.tilt_deg", "%v outside [0, 90]", in.TiltDeg)
	}
	if in.AzimuthDeg < -180 || in.AzimuthDeg > 180 {
		return model.Invalid("technical.azimuth_deg", "%v outside [-180, 180]", in.AzimuthDeg)
	}
	if in.Degradation < 0 || in.Degradation >= 1 {
		return model.Invalid("technical.degradation", "%v outside [0, 1)", in.Degradation)
	}
	if in.PerformanceRatio <= 0 || in.PerformanceRatio > 1 {
		return model.Invalid("technical.performance_ratio", "%v outside (0, 1]", in.PerformanceRatio)
	}
	if in.SpecificYield < 0 || in.BaseSpecificYield < 0 {
		return model.Invalid("resource.specific_yield_kwh_kwp", "must not be negative")
	}
	if len(in.MonthlyKWh) > 0 && len(in.MonthlyKWh) != 12 {
		return model.Invalid("resource.monthly_kwh", "need 12 values, got %d", len(in.MonthlyKWh))
	}
	for i, v := range in.MonthlyKWh {
		if v < 0 || math.IsNaN(v) {
			return model.Invalid("resource.monthly_kwh", "month %d has invalid energy %v", i+1, v)
		}
	}
	if len(in.MonthlyKWh) == 0 && in.SpecificYield == 0 && in.BaseSpecificYield == 0 {
		return model.Invalid("resource", "no irradiance data supplied")
	}
	return nil
}

// Estimate returns first-year energy. External data takes precedence over
// the closed-form model and already carries its orientation losses.
func Estimate(in EstimateInput) (Production, error) {
	if err := in.Validate(); err != nil {
		return Production{}, err
	}

	correction := in.CorrectionFactor
	if correction <= 0 {
		correction = 1
	}
	prod := Production{
		PerformanceRatio:  in.PerformanceRatio,
		CorrectionFactor:  correction,
		OrientationFactor: in.Orientation.Factor(in.TiltDeg, in.AzimuthDeg),
	}

	switch {
	case len(in.MonthlyKWh) == 12:
		prod.Source = SourceExternalMonthly
		prod.OrientationFactor = 1
		prod.AnnualKWh = floats.Sum(in.MonthlyKWh) * correction
	case in.SpecificYield > 0:
		prod.Source = SourceExternalYield
		prod.OrientationFactor = 1
		prod.AnnualKWh = in.CapacityKWp * in.SpecificYield * correction
	default:
		prod.Source = SourceClosedForm
		prod.AnnualKWh = in.CapacityKWp * in.BaseSpecificYield * in.PerformanceRatio * prod.OrientationFactor * correction
	}

	if in.CapacityKWp > 0 {
		prod.SpecificYield = prod.AnnualKWh / in.CapacityKWp
		prod.CapacityFactor = prod.AnnualKWh / (in.CapacityKWp * 8760)
	}
	profile := BuildMonthlyProfile(in.MonthlyKWh, in.SouthernHemisphere)
	prod.MonthlyKWh = profile.Split(prod.AnnualKWh)
	return prod, nil
}

// YearEnergy returns the year-y output of a system producing e1 in year 1.
func YearEnergy(e1, degradation float64, year int) float64 {
	if year <= 1 {
		return e1
	}
	return e1 * math.Pow(1-degradation, float64(year-1))
}

// Project repeats a representative year for the given number of years,
// degrading each year. The result has years×12 values.
func Project(monthly [12]float64, years int, degradation float64) []float64 {
	if years <= 0 {
		return nil
	}
	out := make([]float64, 0, years*12)
	for y := 0; y < years; y++ {
		factor := math.Pow(1-degradation, float64(y))
		for _, v := range monthly {
			out = append(out, v*factor)
		}
	}
	return out
}
