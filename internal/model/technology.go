package model

// Technology identifies the generation asset type.
type Technology string

const (
	TechnologyWind  Technology = "wind"
	TechnologySolar Technology = "solar"
)

// TechnologyInfo holds display data and cost benchmarks for a technology.
type TechnologyInfo struct {
	Name string `json:"name"`
	// CapexPerKW is the benchmark installed cost in EUR per kW.
	CapexPerKW float64 `json:"capex_per_kw_eur"`
	// OpexPercent is annual OPEX as a fraction of CAPEX. Zero when OpexPerKW applies.
	OpexPercent float64 `json:"opex_fraction"`
	// OpexPerKW is annual OPEX in EUR per installed kW.
	OpexPerKW float64 `json:"opex_per_kw_eur"`
	// FeedInPrice is the default export price in EUR/kWh.
	FeedInPrice float64 `json:"feed_in_price_eur_kwh"`
	// SelfConsumption is the default self-consumed share of generation.
	SelfConsumption float64 `json:"self_consumption_fraction"`
}

// TechnologyCatalog maps every Technology to its benchmarks.
var TechnologyCatalog = map[Technology]TechnologyInfo{
	TechnologyWind: {
		Name:            "Wind Turbine",
		CapexPerKW:      1500,
		OpexPerKW:       45,
		FeedInPrice:     0.045,
		SelfConsumption: 0.30,
	},
	TechnologySolar: {
		Name:            "Photovoltaic",
		CapexPerKW:      1300,
		OpexPercent:     0.015,
		FeedInPrice:     0.05,
		SelfConsumption: 0.55,
	},
}

// Valid reports whether t is in the catalog.
func (t Technology) Valid() bool {
	_, ok := TechnologyCatalog[t]
	return ok
}
