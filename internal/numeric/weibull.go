package numeric

import "math"

// WeibullPDF returns the Weibull probability density at v for shape k and scale lambda.
func WeibullPDF(v, k, lambda float64) float64 {
	if v < 0 || k <= 0 || lambda <= 0 {
		return 0
	}
	x := v / lambda
	return (k / lambda) * math.Pow(x, k-1) * math.Exp(-math.Pow(x, k))
}

// WeibullScale derives the scale parameter λ from a mean wind speed and shape k.
func WeibullScale(mean, k float64) float64 {
	if mean <= 0 || k <= 0 {
		return 0
	}
	return mean / Gamma(1+1/k)
}
