package solar

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MonthlyProfile holds the share of annual generation produced in each month [0-11].
type MonthlyProfile struct {
	// Share sums to 1.
	Share [12]float64
	// PeakMonth is the month with the highest share.
	PeakMonth int
}

// BuildMonthlyProfile normalizes an observed monthly breakdown into shares.
// Anything but twelve non-negative values with a positive total falls back
// to the default seasonal shape.
func BuildMonthlyProfile(monthlyKWh []float64, southern bool) MonthlyProfile {
	if len(monthlyKWh) != 12 {
		return defaultProfile(southern)
	}
	for _, v := range monthlyKWh {
		if v < 0 || math.IsNaN(v) {
			return defaultProfile(southern)
		}
	}
	total := floats.Sum(monthlyKWh)
	if total <= 0 {
		return defaultProfile(southern)
	}

	var p MonthlyProfile
	var maxShare float64
	for m, v := range monthlyKWh {
		p.Share[m] = v / total
		if p.Share[m] > maxShare {
			maxShare = p.Share[m]
			p.PeakMonth = m
		}
	}
	return p
}

// Split distributes annual energy over the months.
func (p MonthlyProfile) Split(annualKWh float64) [12]float64 {
	var out [12]float64
	for m := range out {
		out[m] = annualKWh * p.Share[m]
	}
	return out
}

// defaultProfile returns a bell curve peaking in local midsummer.
func defaultProfile(southern bool) MonthlyProfile {
	peak := 5 // June
	if southern {
		peak = 11 // December
	}
	p := MonthlyProfile{PeakMonth: peak}

	var raw [12]float64
	for m := 0; m < 12; m++ {
		dist := math.Abs(float64(m - peak))
		if dist > 6 {
			dist = 12 - dist
		}
		raw[m] = math.Exp(-dist * dist / 24.0)
	}
	total := floats.Sum(raw[:])
	for m := range raw {
		p.Share[m] = raw[m] / total
	}
	return p
}
