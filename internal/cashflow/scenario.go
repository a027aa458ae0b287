package cashflow

import (
	"sort"
	"strings"

	"renewable_simulator/internal/model"
)

// Scenario shifts market assumptions for a deterministic what-if run.
type Scenario struct {
	Name string `json:"name"`
	// PriceCap caps the year-1 purchase price in EUR/kWh and inflates with
	// the unadjusted energy inflation. Zero disables the cap.
	PriceCap float64 `json:"price_cap_eur_kwh"`
	// InflationAdjustment is added to the energy inflation.
	InflationAdjustment float64 `json:"inflation_adjustment"`
	// PriceFactor scales the starting purchase price.
	PriceFactor float64 `json:"price_factor"`
}

// Scenario names.
const (
	ScenarioNeutral     = "neutral"
	ScenarioPessimistic = "pessimistic"
	ScenarioBase        = "base"
	ScenarioOptimistic  = "optimistic"
)

// Scenarios lists every preset by name.
var Scenarios = map[string]Scenario{
	ScenarioNeutral:     {Name: ScenarioNeutral, PriceFactor: 1},
	ScenarioPessimistic: {Name: ScenarioPessimistic, PriceCap: 0.30, InflationAdjustment: -0.025, PriceFactor: 0.9},
	ScenarioBase:        {Name: ScenarioBase, PriceCap: 0.35, InflationAdjustment: -0.01, PriceFactor: 1.0},
	ScenarioOptimistic:  {Name: ScenarioOptimistic, PriceCap: 0.45, InflationAdjustment: 0.015, PriceFactor: 1.05},
}

// LookupScenario resolves a name, case-insensitively. Empty means neutral.
func LookupScenario(name string) (Scenario, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = ScenarioNeutral
	}
	s, ok := Scenarios[key]
	if !ok {
		return Scenario{}, model.Invalid("financial.scenario", "unknown scenario %q (want one of %s)", name, strings.Join(ScenarioNames(), ", "))
	}
	return s, nil
}

// ScenarioNames returns the preset names in sorted order.
func ScenarioNames() []string {
	names := make([]string, 0, len(Scenarios))
	for n := range Scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
