package finance

// LCOEResult holds the levelized cost of energy in EUR/kWh.
type LCOEResult struct {
	Technical  float64
	Discounted float64
}

// LCOE levelizes capex plus yearly costs over yearly energy. costs[i] and
// energy[i] belong to year i+1. Zero energy yields zero cost.
func LCOE(capex float64, costs, energy []float64, rate float64) LCOEResult {
	totalCost, totalEnergy := capex, 0.0
	discCost, discEnergy := capex, 0.0

	factor := 1.0
	for i := range energy {
		factor *= 1 + rate
		var c float64
		if i < len(costs) {
			c = costs[i]
		}
		totalCost += c
		totalEnergy += energy[i]
		discCost += c / factor
		discEnergy += energy[i] / factor
	}

	var res LCOEResult
	if totalEnergy > 0 {
		res.Technical = totalCost / totalEnergy
	}
	if discEnergy > 0 {
		res.Discounted = discCost / discEnergy
	}
	return res
}
