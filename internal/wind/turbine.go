// Package wind estimates turbine output from a Weibull wind-speed distribution.
package wind

import (
	"math"
	"sort"

	"renewable_simulator/internal/model"
)

// Power curve sources reported in diagnostics.
const (
	CurveManufacturer = "manufacturer"
	CurvePhysical     = "physical"
	CurveCubic        = "cubic"
)

// DefaultPowerCoefficient is the Cp used by the physical ramp.
const DefaultPowerCoefficient = 0.35

// Turbine describes a power curve. Call Validate before use.
type Turbine struct {
	RatedPowerKW     float64
	RotorDiameterM   float64
	CutInMS          float64
	RatedSpeedMS     float64
	CutOutMS         float64
	PowerCoefficient float64
	// Curve overrides the ramp model when it has at least two points.
	Curve []model.CurvePoint
}

// Validate enforces 0 ≤ cut-in < rated < cut-out and positive rated power.
func (t Turbine) Validate() error {
	if t.RatedPowerKW <= 0 {
		return model.Invalid("technical.rated_power_kw", "must be positive, got %v", t.RatedPowerKW)
	}
	if t.RotorDiameterM < 0 {
		return model.Invalid("technical.rotor_diameter_m", "must not be negative, got %v", t.RotorDiameterM)
	}
	if t.CutInMS < 0 {
		return model.Invalid("technical.cut_in_ms", "must not be negative, got %v", t.CutInMS)
	}
	if t.CutInMS >= t.RatedSpeedMS {
		return model.Invalid("technical.cut_in_ms", "cut-in %v must be below rated speed %v", t.CutInMS, t.RatedSpeedMS)
	}
	if t.RatedSpeedMS >= t.CutOutMS {
		return model.Invalid("technical.rated_speed_ms", "rated speed %v must be below cut-out %v", t.RatedSpeedMS, t.CutOutMS)
	}
	for i, p := range t.Curve {
		if p.SpeedMS < 0 || p.PowerKW < 0 {
			return model.Invalid("technical.power_curve", "point %d has negative values", i)
		}
	}
	return nil
}

// SweptArea returns the rotor area in m².
func (t Turbine) SweptArea() float64 {
	r := t.RotorDiameterM / 2
	return math.Pi * r * r
}

// CurveSource names the model PowerAt uses.
func (t Turbine) CurveSource() string {
	switch {
	case len(t.Curve) >= 2:
		return CurveManufacturer
	case t.RotorDiameterM > 0:
		return CurvePhysical
	default:
		return CurveCubic
	}
}

// PowerAt returns the electrical output in kW at hub wind speed v for air density rho.
func (t Turbine) PowerAt(v, rho float64) float64 {
	if v < t.CutInMS || v >= t.CutOutMS {
		return 0
	}
	if t.CurveSource() == CurveManufacturer {
		return math.Min(interpolateCurve(t.Curve, v), t.RatedPowerKW)
	}
	if v >= t.RatedSpeedMS {
		return t.RatedPowerKW
	}

	if t.RotorDiameterM > 0 {
		cp := t.PowerCoefficient
		if cp <= 0 {
			cp = DefaultPowerCoefficient
		}
		p := 0.5 * rho * t.SweptArea() * cp * v * v * v / 1000
		return math.Min(p, t.RatedPowerKW)
	}

	x := (v - t.CutInMS) / (t.RatedSpeedMS - t.CutInMS)
	return t.RatedPowerKW * x * x * x
}

// interpolateCurve linearly interpolates a manufacturer curve, 0 outside its range.
func interpolateCurve(curve []model.CurvePoint, v float64) float64 {
	pts := curve
	if !sort.SliceIsSorted(pts, func(i, j int) bool { return pts[i].SpeedMS < pts[j].SpeedMS }) {
		pts = make([]model.CurvePoint, len(curve))
		copy(pts, curve)
		sort.Slice(pts, func(i, j int) bool { return pts[i].SpeedMS < pts[j].SpeedMS })
	}

	if v < pts[0].SpeedMS || v > pts[len(pts)-1].SpeedMS {
		return 0
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].SpeedMS >= v })
	if pts[i].SpeedMS == v || i == 0 {
		return pts[i].PowerKW
	}
	lo, hi := pts[i-1], pts[i]
	frac := (v - lo.SpeedMS) / (hi.SpeedMS - lo.SpeedMS)
	return lo.PowerKW + frac*(hi.PowerKW-lo.PowerKW)
}
