package finance

import (
	"math"

	"renewable_simulator/internal/numeric"
)

// IRR search parameters.
const (
	DefaultGuess   = 0.10
	irrTolerance   = 1e-7
	irrMaxIter     = 1000
	irrLowerBound  = -0.999
	irrUpperBound  = 100
	totalLossRate  = -0.99
	totalLossShare = 0.01
)

// IRRStatus qualifies an IRR value.
type IRRStatus string

const (
	IRRConverged     IRRStatus = "converged"
	IRRApproximate   IRRStatus = "approximate"
	IRRNotApplicable IRRStatus = "not_applicable"
	IRRTotalLoss     IRRStatus = "total_loss"
)

// IRRResult is an internal rate of return with its provenance.
type IRRResult struct {
	Rate       float64
	Status     IRRStatus
	Iterations int
}

// retryGuesses are tried in order when the first search fails.
var retryGuesses = [...]float64{0, 0.5, -0.5, 2}

// IRR finds the rate where NPV is zero, starting from DefaultGuess.
func IRR(flows []float64) IRRResult {
	return IRRFrom(flows, DefaultGuess)
}

// IRRFrom finds the rate where NPV is zero, starting from guess.
//
// A series without an initial outflow has no meaningful IRR. When later
// flows return at most 1% of the initial outflow, which covers a series
// with no sign change, the result is a total loss at -0.99. A search that
// does not converge returns its last iterate as approximate.
func IRRFrom(flows []float64, guess float64) IRRResult {
	if len(flows) < 2 || flows[0] >= 0 {
		return IRRResult{Status: IRRNotApplicable}
	}

	returns := Sum(flows[1:])
	if returns <= totalLossShare*math.Abs(flows[0]) {
		return IRRResult{Rate: totalLossRate, Status: IRRTotalLoss}
	}

	f := func(r float64) float64 { return NPV(r, flows) }
	df := func(r float64) float64 { return NPVDerivative(r, flows) }
	opts := numeric.NewtonOptions{
		Tol:     irrTolerance,
		MaxIter: irrMaxIter,
		Lower:   irrLowerBound,
		Upper:   irrUpperBound,
	}

	first := numeric.NewtonRaphson(f, df, guess, opts)
	if first.Converged && finite(first.Root) {
		return IRRResult{Rate: first.Root, Status: IRRConverged, Iterations: first.Iterations}
	}

	iterations := first.Iterations
	for _, g := range retryGuesses {
		if g == guess {
			continue
		}
		res := numeric.NewtonRaphson(f, df, g, opts)
		iterations += res.Iterations
		if res.Converged && finite(res.Root) {
			return IRRResult{Rate: res.Root, Status: IRRConverged, Iterations: iterations}
		}
	}

	rate := first.Root
	if !finite(rate) {
		rate = guess
	}
	return IRRResult{Rate: rate, Status: IRRApproximate, Iterations: iterations}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
