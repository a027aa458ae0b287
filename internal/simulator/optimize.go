package simulator

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"renewable_simulator/internal/model"
)

// maxCandidates bounds the size of one orientation sweep.
const maxCandidates = 20000

// OrientationGrid is an inclusive tilt × azimuth sweep in degrees.
type OrientationGrid struct {
	TiltMin     float64 `json:"tilt_min_deg" yaml:"tilt_min_deg"`
	TiltMax     float64 `json:"tilt_max_deg" yaml:"tilt_max_deg"`
	TiltStep    float64 `json:"tilt_step_deg" yaml:"tilt_step_deg"`
	AzimuthMin  float64 `json:"azimuth_min_deg" yaml:"azimuth_min_deg"`
	AzimuthMax  float64 `json:"azimuth_max_deg" yaml:"azimuth_max_deg"`
	AzimuthStep float64 `json:"azimuth_step_deg" yaml:"azimuth_step_deg"`
}

// DefaultGrid sweeps tilt 0–90 by 5° and azimuth ±90 by 10°.
func DefaultGrid() OrientationGrid {
	return OrientationGrid{
		TiltMin:     0,
		TiltMax:     90,
		TiltStep:    5,
		AzimuthMin:  -90,
		AzimuthMax:  90,
		AzimuthStep: 10,
	}
}

// Validate checks bounds and steps.
func (g OrientationGrid) Validate() error {
	switch {
	case !(g.TiltStep > 0) || !(g.AzimuthStep > 0):
		return model.Invalid("grid", "steps must be positive")
	case !(g.TiltMin >= 0 && g.TiltMax <= 90 && g.TiltMin <= g.TiltMax):
		return model.Invalid("grid.tilt", "range [%v, %v] outside [0, 90]", g.TiltMin, g.TiltMax)
	case !(g.AzimuthMin >= -180 && g.AzimuthMax <= 180 && g.AzimuthMin <= g.AzimuthMax):
		return model.Invalid("grid.azimuth", "range [%v, %v] outside [-180, 180]", g.AzimuthMin, g.AzimuthMax)
	}
	if n := axisCount(g.TiltMin, g.TiltMax, g.TiltStep) * axisCount(g.AzimuthMin, g.AzimuthMax, g.AzimuthStep); n > maxCandidates {
		return model.Invalid("grid", "%.0f candidates exceed the limit of %d", n, maxCandidates)
	}
	return nil
}

// Points lists the grid in (tilt, azimuth) order.
func (g OrientationGrid) Points() [][2]float64 {
	tilts := axis(g.TiltMin, g.TiltMax, g.TiltStep)
	azimuths := axis(g.AzimuthMin, g.AzimuthMax, g.AzimuthStep)
	out := make([][2]float64, 0, len(tilts)*len(azimuths))
	for _, t := range tilts {
		for _, a := range azimuths {
			out = append(out, [2]float64{t, a})
		}
	}
	return out
}

// axisCount is the number of points axis yields, computed without
// allocating so oversized grids are rejected before they are built.
func axisCount(lo, hi, step float64) float64 {
	return math.Floor((hi-lo)/step+1e-9) + 1
}

func axis(lo, hi, step float64) []float64 {
	n := int(axisCount(lo, hi, step)) - 1
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, lo+float64(i)*step)
	}
	return out
}

// Candidate is one evaluated orientation.
type Candidate struct {
	TiltDeg           float64         `json:"tilt_deg"`
	AzimuthDeg        float64         `json:"azimuth_deg"`
	OrientationFactor float64         `json:"orientation_factor"`
	FirstYearKWh      float64         `json:"first_year_kwh"`
	NPVEUR            float64         `json:"npv_eur"`
	IRR               model.Indicator `json:"irr"`
}

// OptimizeResult is the outcome of a sweep. Best maximizes project NPV;
// ties keep the first candidate in (tilt, azimuth) order.
type OptimizeResult struct {
	Best       Candidate    `json:"best"`
	BestResult model.Result `json:"best_result"`
	Candidates []Candidate  `json:"candidates"`
}

// Optimize evaluates req at every grid orientation with at most the
// configured number of workers. The request must not carry
// orientation-specific external yields.
func (e *Engine) Optimize(ctx context.Context, req model.SolarRequest, grid OrientationGrid) (OptimizeResult, error) {
	if err := grid.Validate(); err != nil {
		return OptimizeResult{}, err
	}
	r := req.Resource
	if r.SpecificYield > 0 || len(r.MonthlyKWh) > 0 || len(r.LongTermMonthlyKWh) > 0 || r.SeriesID != "" {
		return OptimizeResult{}, model.Invalid("resource", "orientation sweep needs the closed-form model; drop external yields")
	}

	points := grid.Points()
	results := make([]model.Result, len(points))
	candidates := make([]Candidate, len(points))

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, pt := range points {
		g.Go(func() error {
			single := req
			single.Technical.TiltDeg = pt[0]
			single.Technical.AzimuthDeg = pt[1]

			res, err := e.SimulateSolar(gctx, single)
			if err != nil {
				return err
			}
			c := Candidate{
				TiltDeg:      pt[0],
				AzimuthDeg:   pt[1],
				FirstYearKWh: res.Summary.FirstYearKWh,
				NPVEUR:       res.Summary.NPVEUR,
				IRR:          res.Summary.IRR,
			}
			if res.Technical.Solar != nil {
				c.OrientationFactor = res.Technical.Solar.OrientationFactor
			}
			results[i] = res
			candidates[i] = c

			mu.Lock()
			done++
			if e.observer != nil {
				e.observer.OnProgress(Progress{Done: done, Total: len(points), Candidate: c})
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return OptimizeResult{}, err
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].NPVEUR > candidates[best].NPVEUR {
			best = i
		}
	}
	return OptimizeResult{
		Best:       candidates[best],
		BestResult: results[best],
		Candidates: candidates,
	}, nil
}
