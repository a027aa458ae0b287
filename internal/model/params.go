package model

// CurvePoint is one point of a manufacturer power curve.
type CurvePoint struct {
	SpeedMS float64 `json:"speed_ms" yaml:"speed_ms"`
	PowerKW float64 `json:"power_kw" yaml:"power_kw"`
}

// WindTechnicalParams describes a turbine and its siting. Zero values fall
// back to engine defaults; the turbine speeds are pointers so an explicit
// zero is kept.
type WindTechnicalParams struct {
	RatedPowerKW   float64  `json:"rated_power_kw" yaml:"rated_power_kw"`
	HubHeightM     float64  `json:"hub_height_m,omitempty" yaml:"hub_height_m"`
	RotorDiameterM float64  `json:"rotor_diameter_m,omitempty" yaml:"rotor_diameter_m"`
	CutInMS        *float64 `json:"cut_in_ms,omitempty" yaml:"cut_in_ms"`
	RatedSpeedMS   *float64 `json:"rated_speed_ms,omitempty" yaml:"rated_speed_ms"`
	CutOutMS       *float64 `json:"cut_out_ms,omitempty" yaml:"cut_out_ms"`
	WeibullK       float64  `json:"weibull_k,omitempty" yaml:"weibull_k"`
	ShearExponent  *float64 `json:"shear_exponent,omitempty" yaml:"shear_exponent"`

	// RoughnessLengthM selects the log-law profile instead of the power law.
	RoughnessLengthM float64      `json:"roughness_length_m,omitempty" yaml:"roughness_length_m"`
	AirDensity       *float64     `json:"air_density_kg_m3,omitempty" yaml:"air_density_kg_m3"`
	PowerCurve       []CurvePoint `json:"power_curve,omitempty" yaml:"power_curve"`
	WakeLoss         Rate         `json:"wake_loss,omitempty" yaml:"wake_loss"`
	Availability     Rate         `json:"availability,omitempty" yaml:"availability"`
}

// WindResource is the already-resolved wind summary for the site.
type WindResource struct {
	MeanSpeedMS      float64  `json:"mean_speed_ms" yaml:"mean_speed_ms"`
	ReferenceHeightM float64  `json:"reference_height_m,omitempty" yaml:"reference_height_m"`
	MeanTemperatureC *float64 `json:"mean_temperature_c,omitempty" yaml:"mean_temperature_c"`

	// DailySpeedsMS is a historical day-by-day record at the reference height.
	DailySpeedsMS []float64 `json:"daily_speeds_ms,omitempty" yaml:"daily_speeds_ms"`
	// SeriesID references a daily wind series preloaded by the service.
	SeriesID string `json:"series_id,omitempty" yaml:"series_id"`
}

// SolarTechnicalParams describes a PV system.
type SolarTechnicalParams struct {
	CapacityKWp      float64 `json:"capacity_kwp" yaml:"capacity_kwp"`
	TiltDeg          float64 `json:"tilt_deg" yaml:"tilt_deg"`
	AzimuthDeg       float64 `json:"azimuth_deg" yaml:"azimuth_deg"`
	Degradation      Rate    `json:"degradation,omitempty" yaml:"degradation"`
	PerformanceRatio Rate    `json:"performance_ratio,omitempty" yaml:"performance_ratio"`
	LifetimeYears    int     `json:"lifetime_years,omitempty" yaml:"lifetime_years"`
}

// SolarResource is the already-resolved irradiance summary. SpecificYield and
// MonthlyKWh come from an external source for the requested orientation.
type SolarResource struct {
	// BaseSpecificYield is the optimal-orientation yield in kWh/kWp/year.
	BaseSpecificYield float64 `json:"base_specific_yield_kwh_kwp,omitempty" yaml:"base_specific_yield_kwh_kwp"`
	// SpecificYield is an externally computed yield for the actual orientation.
	SpecificYield float64   `json:"specific_yield_kwh_kwp,omitempty" yaml:"specific_yield_kwh_kwp"`
	MonthlyKWh    []float64 `json:"monthly_kwh,omitempty" yaml:"monthly_kwh"`
	// LongTermMonthlyKWh spans the full horizon and is net of degradation.
	LongTermMonthlyKWh []float64 `json:"long_term_monthly_kwh,omitempty" yaml:"long_term_monthly_kwh"`
	SeriesID           string    `json:"series_id,omitempty" yaml:"series_id"`
}

// MarketPrice is a price statistic in EUR/kWh. SeriesID references a
// preloaded price series that fills the statistics left at zero.
type MarketPrice struct {
	Average  float64   `json:"avg_eur_kwh" yaml:"avg_eur_kwh"`
	Min      float64   `json:"min_eur_kwh,omitempty" yaml:"min_eur_kwh"`
	Max      float64   `json:"max_eur_kwh,omitempty" yaml:"max_eur_kwh"`
	Monthly  []float64 `json:"monthly_eur_kwh,omitempty" yaml:"monthly_eur_kwh"`
	SeriesID string    `json:"series_id,omitempty" yaml:"series_id"`
}

// Validate checks signs, the min/max ordering and the monthly length.
func (m MarketPrice) Validate() error {
	switch {
	case m.Average < 0 || m.Min < 0 || m.Max < 0:
		return Invalid("market", "prices must not be negative")
	case m.Max > 0 && m.Min > m.Max:
		return Invalid("market.min_eur_kwh", "min %v above max %v", m.Min, m.Max)
	case len(m.Monthly) != 0 && len(m.Monthly) != 12:
		return Invalid("market.monthly_eur_kwh", "need 12 values, got %d", len(m.Monthly))
	}
	for i, v := range m.Monthly {
		if v < 0 {
			return Invalid("market.monthly_eur_kwh", "month %d is negative", i+1)
		}
	}
	return nil
}

// EffectivePrice is the price a year of generation shaped like monthlyKWh
// earns. With a monthly curve it is the generation-weighted mean; otherwise
// it is Average.
func (m MarketPrice) EffectivePrice(monthlyKWh []float64) float64 {
	if len(m.Monthly) != 12 || len(monthlyKWh) < 12 {
		return m.Average
	}
	var weighted, total float64
	for i := 0; i < 12; i++ {
		weighted += m.Monthly[i] * monthlyKWh[i]
		total += monthlyKWh[i]
	}
	if total <= 0 {
		return m.Average
	}
	return weighted / total
}

// Corrections are optional multipliers from an external estimator. A zero
// value means no correction.
type Corrections struct {
	PerformanceRatio float64 `json:"performance_ratio_factor,omitempty" yaml:"performance_ratio_factor"`
	PriceFactor      float64 `json:"price_factor,omitempty" yaml:"price_factor"`
}

// PerformanceFactor returns the production multiplier, 1 when unset.
func (c Corrections) PerformanceFactor() float64 {
	if c.PerformanceRatio <= 0 {
		return 1
	}
	return c.PerformanceRatio
}

// PriceMultiplier returns the price multiplier, 1 when unset.
func (c Corrections) PriceMultiplier() float64 {
	if c.PriceFactor <= 0 {
		return 1
	}
	return c.PriceFactor
}

// FinancialInput is the wire form of the financial assumptions. Unset
// fields take engine defaults when resolved.
type FinancialInput struct {
	ElectricityPrice *float64 `json:"electricity_price_eur_kwh,omitempty" yaml:"electricity_price_eur_kwh"`
	FeedInPrice      *float64 `json:"feed_in_price_eur_kwh,omitempty" yaml:"feed_in_price_eur_kwh"`
	SelfConsumption  Rate     `json:"self_consumption,omitempty" yaml:"self_consumption"`
	// FirstYearRevenue implies a price per kWh when no self-consumption split applies.
	FirstYearRevenue *float64 `json:"first_year_revenue_eur,omitempty" yaml:"first_year_revenue_eur"`
	SellAll          bool     `json:"sell_all,omitempty" yaml:"sell_all"`

	EnergyInflation Rate `json:"energy_inflation,omitempty" yaml:"energy_inflation"`
	Inflation       Rate `json:"inflation,omitempty" yaml:"inflation"`
	DiscountRate    Rate `json:"discount_rate,omitempty" yaml:"discount_rate"`
	DebtRatio       Rate `json:"debt_ratio,omitempty" yaml:"debt_ratio"`
	InterestRate    Rate `json:"interest_rate,omitempty" yaml:"interest_rate"`
	LoanTermYears   *int `json:"loan_term_years,omitempty" yaml:"loan_term_years"`
	TaxRate         Rate `json:"tax_rate,omitempty" yaml:"tax_rate"`
	OpexPercent     Rate `json:"opex_percent,omitempty" yaml:"opex_percent"`
	Years           int  `json:"years,omitempty" yaml:"years"`

	Grants                  float64  `json:"grants_eur,omitempty" yaml:"grants_eur"`
	TaxDeduction            float64  `json:"tax_deduction_eur,omitempty" yaml:"tax_deduction_eur"`
	InverterReplacementYear *int     `json:"inverter_replacement_year,omitempty" yaml:"inverter_replacement_year"`
	InverterReplacementCost *float64 `json:"inverter_replacement_cost_eur,omitempty" yaml:"inverter_replacement_cost_eur"`
	Insurance               float64  `json:"insurance_eur,omitempty" yaml:"insurance_eur"`
	Lease                   float64  `json:"lease_eur,omitempty" yaml:"lease_eur"`
	AdminFee                float64  `json:"admin_fee_eur,omitempty" yaml:"admin_fee_eur"`

	Scenario string `json:"scenario,omitempty" yaml:"scenario"`
}

// WindRequest is a full wind simulation request.
type WindRequest struct {
	Location    SiteLocation        `json:"location" yaml:"location"`
	Technical   WindTechnicalParams `json:"technical" yaml:"technical"`
	Resource    WindResource        `json:"resource" yaml:"resource"`
	Market      *MarketPrice        `json:"market,omitempty" yaml:"market"`
	Financial   FinancialInput      `json:"financial" yaml:"financial"`
	Costs       CostBreakdown       `json:"costs" yaml:"costs"`
	Corrections Corrections         `json:"corrections,omitempty" yaml:"corrections"`
}

// SolarRequest is a full solar simulation request.
type SolarRequest struct {
	Location    SiteLocation         `json:"location" yaml:"location"`
	Technical   SolarTechnicalParams `json:"technical" yaml:"technical"`
	Resource    SolarResource        `json:"resource" yaml:"resource"`
	Market      *MarketPrice         `json:"market,omitempty" yaml:"market"`
	Financial   FinancialInput       `json:"financial" yaml:"financial"`
	Costs       CostBreakdown        `json:"costs" yaml:"costs"`
	Corrections Corrections          `json:"corrections,omitempty" yaml:"corrections"`
}
