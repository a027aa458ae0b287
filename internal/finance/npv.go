// Package finance reduces cash-flow series to investment metrics.
package finance

import "math"

// NPV discounts flows[t] at rate, with t=0 undiscounted.
func NPV(rate float64, flows []float64) float64 {
	var sum float64
	factor := 1.0
	for _, f := range flows {
		sum += f / factor
		factor *= 1 + rate
	}
	return sum
}

// NPVDerivative is dNPV/drate = Σ −t·flows[t]/(1+rate)^(t+1).
func NPVDerivative(rate float64, flows []float64) float64 {
	var sum float64
	for t, f := range flows {
		if t == 0 {
			continue
		}
		sum -= float64(t) * f / math.Pow(1+rate, float64(t+1))
	}
	return sum
}

// Sum returns the undiscounted total of flows.
func Sum(flows []float64) float64 {
	var s float64
	for _, f := range flows {
		s += f
	}
	return s
}

// NominalRate converts a real rate to nominal for the given inflation.
func NominalRate(real, inflation float64) float64 {
	return (1+real)*(1+inflation) - 1
}
