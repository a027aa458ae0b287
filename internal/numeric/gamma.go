// Package numeric holds the standalone math kernels used by the production
// and finance models.
package numeric

import "math"

// lanczosG and lanczosCoef parameterize the Lanczos approximation (g=7, n=9).
const lanczosG = 7.0

var lanczosCoef = [9]float64{
	0.99999999999980993,
	676.5203681218851,
	-1259.1392167224028,
	771.32342877765313,
	-176.61503916999185,
	12.507343278686905,
	-0.13857109526572012,
	9.9843695780195716e-6,
	1.5056327351493116e-7,
}

// Gamma returns Γ(z) using the Lanczos approximation. Arguments below 0.5
// go through the reflection formula. Callers must not pass non-positive integers.
func Gamma(z float64) float64 {
	if z < 0.5 {
		return math.Pi / (math.Sin(math.Pi*z) * Gamma(1-z))
	}

	z--
	x := lanczosCoef[0]
	for i := 1; i < len(lanczosCoef); i++ {
		x += lanczosCoef[i] / (z + float64(i))
	}
	t := z + lanczosG + 0.5
	return math.Sqrt(2*math.Pi) * math.Pow(t, z+0.5) * math.Exp(-t) * x
}
