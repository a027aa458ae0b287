package model

// Units on the wire:
//   - fields ending in _kwh are kWh, _eur are euros, _kw are kW
//   - fields ending in _percent are percentages (12.5 means 12.5 %)
//   - every other ratio (rates, factors, IRR) is a fraction (0.125)
// No field switches convention inside a payload.

// Status values carried by Indicator.
const (
	StatusOK            = "ok"
	StatusConverged     = "converged"
	StatusApproximate   = "approximate"
	StatusNotApplicable = "not_applicable"
	StatusTotalLoss     = "total_loss"
	StatusReached       = "reached"
	StatusBeyondHorizon = "beyond_horizon"
)

// Indicator is a metric value qualified by how it was obtained. Value is
// meaningless when Status is not_applicable or beyond_horizon.
type Indicator struct {
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

// Usable reports whether Value can be shown as a number.
func (i Indicator) Usable() bool {
	return i.Status != StatusNotApplicable && i.Status != StatusBeyondHorizon
}

// CashFlowYear is one ledger row. Year 0 carries only the initial investment.
type CashFlowYear struct {
	Year              int     `json:"year"`
	GenerationKWh     float64 `json:"generation_kwh"`
	SavingsEUR        float64 `json:"savings_eur"`
	ExportIncomeEUR   float64 `json:"export_income_eur"`
	RevenueEUR        float64 `json:"revenue_eur"`
	OpexEUR           float64 `json:"opex_eur"`
	ExtraordinaryEUR  float64 `json:"extraordinary_eur"`
	EBITDAEUR         float64 `json:"ebitda_eur"`
	DepreciationEUR   float64 `json:"depreciation_eur"`
	EBITEUR           float64 `json:"ebit_eur"`
	InterestEUR       float64 `json:"interest_eur"`
	PrincipalEUR      float64 `json:"principal_eur"`
	TaxEUR            float64 `json:"tax_eur"`
	NetIncomeEUR      float64 `json:"net_income_eur"`
	FreeCashFlowEUR   float64 `json:"fcf_project_eur"`
	EquityCashFlowEUR float64 `json:"fcf_equity_eur"`
	CumulativeEUR     float64 `json:"cumulative_equity_eur"`
	DebtBalanceEUR    float64 `json:"debt_balance_eur"`
}

// FinancialMetrics are derived from the ledger.
type FinancialMetrics struct {
	NPVProjectEUR    float64   `json:"npv_project_eur"`
	NPVEquityEUR     float64   `json:"npv_equity_eur"`
	IRRProject       Indicator `json:"irr_project"`
	IRREquity        Indicator `json:"irr_equity"`
	PaybackProject   Indicator `json:"payback_project_years"`
	PaybackEquity    Indicator `json:"payback_equity_years"`
	ROIPercent       Indicator `json:"roi_percent"`
	TotalInterestEUR float64   `json:"total_interest_eur"`
	TotalProfitEUR   float64   `json:"total_profit_eur"`
	LCOEEURPerKWh    float64   `json:"lcoe_eur_kwh"`
	DiscountedLCOE   float64   `json:"lcoe_discounted_eur_kwh"`
	DiscountRate     float64   `json:"discount_rate"`
	CostOfEquity     float64   `json:"cost_of_equity"`
}

// Summary is the headline view of a simulation.
type Summary struct {
	Technology         Technology `json:"technology"`
	FirstYearKWh       float64    `json:"first_year_generation_kwh"`
	TotalInvestmentEUR float64    `json:"total_investment_eur"`
	ROIPercent         Indicator  `json:"roi_percent"`
	PaybackYears       Indicator  `json:"payback_years"`
	NPVEUR             float64    `json:"npv_eur"`
	IRR                Indicator  `json:"irr"`
	CO2AvoidedKg       float64    `json:"co2_avoided_kg_per_year"`
}

// WindDetail holds wind-specific production diagnostics.
type WindDetail struct {
	HubSpeedMS       float64 `json:"hub_speed_ms"`
	AirDensity       float64 `json:"air_density_kg_m3"`
	WeibullK         float64 `json:"weibull_k"`
	WeibullScale     float64 `json:"weibull_scale_ms"`
	ExpectedPowerKW  float64 `json:"expected_power_kw"`
	DailyKWh         float64 `json:"daily_kwh"`
	DaysFromSeries   int     `json:"days_from_series"`
	PowerCurveSource string  `json:"power_curve_source"`
}

// SolarDetail holds solar-specific production diagnostics.
type SolarDetail struct {
	OrientationFactor float64 `json:"orientation_factor"`
	PerformanceRatio  float64 `json:"performance_ratio"`
	SpecificYield     float64 `json:"specific_yield_kwh_kwp"`
	Degradation       float64 `json:"degradation"`
	Source            string  `json:"source"`
}

// Technical is the production view of a simulation.
type Technical struct {
	CapacityKW        float64      `json:"capacity_kw"`
	GrossAnnualKWh    float64      `json:"gross_annual_kwh"`
	NetAnnualKWh      float64      `json:"net_annual_kwh"`
	LossesPercent     float64      `json:"losses_percent"`
	CapacityFactorRaw float64      `json:"capacity_factor_raw"`
	CapacityFactor    float64      `json:"capacity_factor"`
	MonthlyKWh        []float64    `json:"monthly_kwh"`
	Wind              *WindDetail  `json:"wind,omitempty"`
	Solar             *SolarDetail `json:"solar,omitempty"`
}

// Financial is the ledger view of a simulation.
type Financial struct {
	Scenario         string           `json:"scenario"`
	CapexEUR         float64          `json:"capex_eur"`
	DebtEUR          float64          `json:"debt_eur"`
	PurchasePriceEUR float64          `json:"purchase_price_eur_kwh"`
	FeedInPriceEUR   float64          `json:"feed_in_price_eur_kwh"`
	Market           *MarketPrice     `json:"market,omitempty"`
	Years            []CashFlowYear   `json:"years"`
	Metrics          FinancialMetrics `json:"metrics"`
	Warnings         []string         `json:"warnings,omitempty"`
}

// Result is the full output of one simulation.
type Result struct {
	Summary   Summary   `json:"summary"`
	Technical Technical `json:"technical"`
	Financial Financial `json:"financial"`
}
