package model

// CostBreakdown resolves to a single CAPEX figure. TotalOverride wins over the
// itemized costs, which win over a per-kW benchmark.
type CostBreakdown struct {
	TotalOverride *float64 `json:"total_eur,omitempty" yaml:"total_eur"`
	Equipment     float64  `json:"equipment_eur,omitempty" yaml:"equipment_eur"`
	Installation  float64  `json:"installation_eur,omitempty" yaml:"installation_eur"`
	Permitting    float64  `json:"permitting_eur,omitempty" yaml:"permitting_eur"`
	CostPerKW     *float64 `json:"cost_per_kw_eur,omitempty" yaml:"cost_per_kw_eur"`
	// AnnualOpex replaces the percentage-of-CAPEX OPEX when set.
	AnnualOpex *float64 `json:"annual_opex_eur,omitempty" yaml:"annual_opex_eur"`
}

// Itemized reports whether any itemized cost was supplied.
func (c CostBreakdown) Itemized() bool {
	return c.Equipment != 0 || c.Installation != 0 || c.Permitting != 0
}

// Resolve returns CAPEX for an asset of capacityKW, using benchmarkPerKW
// when nothing more specific is given.
func (c CostBreakdown) Resolve(capacityKW, benchmarkPerKW float64) (float64, error) {
	switch {
	case c.TotalOverride != nil:
		if *c.TotalOverride < 0 {
			return 0, Invalid("costs.total_eur", "must not be negative, got %v", *c.TotalOverride)
		}
		return *c.TotalOverride, nil
	case c.Itemized():
		if c.Equipment < 0 || c.Installation < 0 || c.Permitting < 0 {
			return 0, Invalid("costs", "itemized costs must not be negative")
		}
		return c.Equipment + c.Installation + c.Permitting, nil
	case c.CostPerKW != nil:
		if *c.CostPerKW < 0 {
			return 0, Invalid("costs.cost_per_kw_eur", "must not be negative, got %v", *c.CostPerKW)
		}
		return *c.CostPerKW * capacityKW, nil
	default:
		return benchmarkPerKW * capacityKW, nil
	}
}
