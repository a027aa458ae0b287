// Package energy models the annual generation stream fed into the cash-flow ledger.
package energy

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrBeyondSeries is returned when a year outside a pre-computed series is requested.
var ErrBeyondSeries = errors.New("year beyond energy series")

// Profile yields the generation for project year y, starting at 1.
type Profile interface {
	Annual(year int) (float64, error)
	// Horizon is the number of years covered, or 0 when unbounded.
	Horizon() int
}

// Degrading is a first-year figure degraded geometrically each year.
type Degrading struct {
	FirstYearKWh float64
	Rate         float64
}

// Annual returns FirstYearKWh × (1−Rate)^(year−1).
func (d Degrading) Annual(year int) (float64, error) {
	if year < 1 {
		return 0, fmt.Errorf("year %d: years start at 1", year)
	}
	if year == 1 {
		return d.FirstYearKWh, nil
	}
	return d.FirstYearKWh * math.Pow(1-d.Rate, float64(year-1)), nil
}

// Horizon is unbounded.
func (d Degrading) Horizon() int { return 0 }

// Series is a pre-computed per-year sequence already net of degradation.
type Series struct {
	annual []float64
}

// NewAnnualSeries wraps per-year energies.
func NewAnnualSeries(years []float64) (*Series, error) {
	if len(years) == 0 {
		return nil, errors.New("empty annual series")
	}
	for i, v := range years {
		if v < 0 || math.IsNaN(v) {
			return nil, fmt.Errorf("annual series year %d: invalid energy %v", i+1, v)
		}
	}
	out := make([]float64, len(years))
	copy(out, years)
	return &Series{annual: out}, nil
}

// NewMonthlySeries sums each run of twelve months into a year. A trailing
// partial year is rejected.
func NewMonthlySeries(months []float64) (*Series, error) {
	if len(months) == 0 {
		return nil, errors.New("empty monthly series")
	}
	if len(months)%12 != 0 {
		return nil, fmt.Errorf("monthly series has %d values, not a whole number of years", len(months))
	}
	years := make([]float64, len(months)/12)
	for y := range years {
		years[y] = floats.Sum(months[y*12 : (y+1)*12])
	}
	return NewAnnualSeries(years)
}

// Annual returns the stored value for year, with no degradation applied.
func (s *Series) Annual(year int) (float64, error) {
	if year < 1 || year > len(s.annual) {
		return 0, fmt.Errorf("year %d of %d: %w", year, len(s.annual), ErrBeyondSeries)
	}
	return s.annual[year-1], nil
}

// Horizon is the series length in years.
func (s *Series) Horizon() int { return len(s.annual) }

// Total sums a profile over years 1..n.
func Total(p Profile, n int) (float64, error) {
	vals, err := Years(p, n)
	if err != nil {
		return 0, err
	}
	return floats.Sum(vals), nil
}

// Years expands a profile into years 1..n.
func Years(p Profile, n int) ([]float64, error) {
	if h := p.Horizon(); h > 0 && n > h {
		return nil, fmt.Errorf("projection of %d years exceeds %d-year series: %w", n, h, ErrBeyondSeries)
	}
	out := make([]float64, n)
	for y := 1; y <= n; y++ {
		v, err := p.Annual(y)
		if err != nil {
			return nil, err
		}
		out[y-1] = v
	}
	return out, nil
}
