package numeric

import "math"

// flatDerivative is the derivative magnitude below which a Newton step is refused.
const flatDerivative = 1e-12

// NewtonOptions bounds a Newton-Raphson search.
type NewtonOptions struct {
	Tol     float64
	MaxIter int
	// MaxStep caps |Δx| per iteration. Zero disables the cap.
	MaxStep float64
	// Lower and Upper clamp every iterate when Lower < Upper.
	Lower float64
	Upper float64
}

// NewtonResult is the outcome of a root search. Root holds the last iterate
// when Converged is false.
type NewtonResult struct {
	Root       float64
	Iterations int
	Converged  bool
}

// DefaultNewtonOptions returns a tolerance of 1e-7 and 1000 iterations with no bounds.
func DefaultNewtonOptions() NewtonOptions {
	return NewtonOptions{Tol: 1e-7, MaxIter: 1000}
}

// NewtonRaphson searches for a root of f starting from x0.
func NewtonRaphson(f, df func(float64) float64, x0 float64, opts NewtonOptions) NewtonResult {
	if opts.Tol <= 0 {
		opts.Tol = 1e-7
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 1000
	}
	bounded := opts.Lower < opts.Upper

	x := x0
	if bounded {
		x = clamp(x, opts.Lower, opts.Upper)
	}

	for i := 1; i <= opts.MaxIter; i++ {
		fx := f(x)
		if math.IsNaN(fx) || math.IsInf(fx, 0) {
			return NewtonResult{Root: x, Iterations: i, Converged: false}
		}
		if math.Abs(fx) < opts.Tol {
			return NewtonResult{Root: x, Iterations: i, Converged: true}
		}

		d := df(x)
		if math.Abs(d) < flatDerivative || math.IsNaN(d) {
			return NewtonResult{Root: x, Iterations: i, Converged: false}
		}

		step := fx / d
		if opts.MaxStep > 0 {
			step = clamp(step, -opts.MaxStep, opts.MaxStep)
		}
		raw := x - step
		next := raw
		if bounded {
			next = clamp(raw, opts.Lower, opts.Upper)
		}

		if math.Abs(next-x) < opts.Tol {
			// Pinned against a bound is not convergence.
			return NewtonResult{Root: next, Iterations: i, Converged: next == raw}
		}
		x = next
	}

	return NewtonResult{Root: x, Iterations: opts.MaxIter, Converged: false}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return clamp(v, lo, hi)
}
