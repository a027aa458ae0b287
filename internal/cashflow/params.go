// Package cashflow projects the yearly project-finance ledger of a
// generation asset and evaluates its metrics.
package cashflow

import (
	"fmt"

	"renewable_simulator/internal/config"
	"renewable_simulator/internal/finance"
	"renewable_simulator/internal/model"
)

// Params is the canonical, fully defaulted input of Project. Rates are fractions.
type Params struct {
	Years int
	Capex float64

	// PurchasePrice values self-consumed energy in year 1, in EUR/kWh.
	PurchasePrice float64
	// FeedInPrice values exported energy in year 1, in EUR/kWh.
	FeedInPrice float64
	// SplitRevenue enables the self-consumption split. Without it all
	// generation is sold at ImpliedPrice.
	SplitRevenue    bool
	SelfConsumption float64
	// FirstYearRevenue, when positive, implies the year-1 price per kWh.
	FirstYearRevenue float64
	// PriceFactor scales export and implied prices.
	PriceFactor float64

	EnergyInflation float64
	// PriceCapInflation grows the scenario price cap.
	PriceCapInflation float64
	Inflation         float64
	DiscountRate      float64
	CostOfEquity      float64
	DebtRatio         float64
	InterestRate      float64
	LoanTermYears     int
	TaxRate           float64

	OpexSeed  float64
	Insurance float64
	Lease     float64
	AdminFee  float64

	Grants          float64
	TaxDeduction    float64
	ReplacementYear int
	ReplacementCost float64

	Scenario Scenario
	Warnings []string
}

// ResolveContext carries what the caller already knows about the asset.
type ResolveContext struct {
	Technology model.Technology
	CapacityKW float64
	Capex      float64
	Market     *model.MarketPrice
	// MonthlyKWh shapes the weighting of a monthly market price curve.
	MonthlyKWh []float64
	// PriceFactor is an external price correction, 1 when unset.
	PriceFactor float64
	// AnnualOpex replaces the percentage OPEX when non-nil.
	AnnualOpex *float64
}

// Resolve validates in and applies every default from d.
func Resolve(in model.FinancialInput, rc ResolveContext, d config.Engine) (Params, error) {
	info, ok := model.TechnologyCatalog[rc.Technology]
	if !ok {
		return Params{}, model.Invalid("technology", "unknown technology %q", rc.Technology)
	}
	if rc.Capex < 0 {
		return Params{}, model.Invalid("costs", "CAPEX must not be negative, got %v", rc.Capex)
	}
	if rc.Market != nil {
		if err := rc.Market.Validate(); err != nil {
			return Params{}, err
		}
	}

	f := d.Financial
	p := Params{
		Years:           in.Years,
		Capex:           rc.Capex,
		EnergyInflation: in.EnergyInflation.Or(f.EnergyInflation),
		Inflation:       in.Inflation.Or(f.Inflation),
		DiscountRate:    in.DiscountRate.Or(f.DiscountRate),
		CostOfEquity:    f.CostOfEquity,
		DebtRatio:       in.DebtRatio.Or(f.DebtRatio),
		InterestRate:    in.InterestRate.Or(f.InterestRate),
		LoanTermYears:   f.LoanTermYears,
		TaxRate:         in.TaxRate.Or(f.TaxRate),
		Insurance:       in.Insurance,
		Lease:           in.Lease,
		AdminFee:        in.AdminFee,
		Grants:          in.Grants,
		TaxDeduction:    in.TaxDeduction,
		PriceFactor:     rc.PriceFactor,
	}
	if p.Years == 0 {
		p.Years = f.Years
	}
	if in.LoanTermYears != nil {
		p.LoanTermYears = *in.LoanTermYears
	}
	if p.PriceFactor <= 0 {
		p.PriceFactor = 1
	}
	if f.RealDiscountRate && !in.DiscountRate.IsSet() {
		p.DiscountRate = finance.NominalRate(p.DiscountRate, p.EnergyInflation)
	}

	scenarioName := in.Scenario
	if scenarioName == "" {
		scenarioName = f.Scenario
	}
	sc, err := LookupScenario(scenarioName)
	if err != nil {
		return Params{}, err
	}
	p.Scenario = sc

	if err := p.resolvePrices(in, rc, info, d); err != nil {
		return Params{}, err
	}
	p.resolveOpex(in, rc, info)
	p.resolveReplacement(in, rc, d.Solar)

	if err := p.validate(); err != nil {
		return Params{}, err
	}

	// Validation already rejects out-of-range ratios; the clamp keeps the
	// ledger arithmetic closed on [0,1] for values built in code.
	p.DebtRatio = clamp01(p.DebtRatio)

	p.PriceCapInflation = p.EnergyInflation
	p.EnergyInflation += sc.InflationAdjustment

	if p.DebtRatio > 0 && p.LoanTermYears == 0 {
		p.Warnings = append(p.Warnings, "loan term is 0 years: debt share financed as equity")
		p.DebtRatio = 0
	}
	if p.DebtRatio > 0 && p.LoanTermYears > p.Years {
		p.Warnings = append(p.Warnings, fmt.Sprintf("loan term of %d years outlives the %d-year horizon", p.LoanTermYears, p.Years))
	}
	return p, nil
}

func (p *Params) resolvePrices(in model.FinancialInput, rc ResolveContext, info model.TechnologyInfo, d config.Engine) error {
	switch {
	case in.ElectricityPrice != nil:
		p.PurchasePrice = *in.ElectricityPrice
	case rc.Market != nil && rc.Market.EffectivePrice(rc.MonthlyKWh) > 0:
		p.PurchasePrice = rc.Market.EffectivePrice(rc.MonthlyKWh)
	default:
		p.PurchasePrice = d.Financial.GridPrice
	}
	p.FeedInPrice = info.FeedInPrice
	if in.FeedInPrice != nil {
		p.FeedInPrice = *in.FeedInPrice
	}
	if p.PurchasePrice < 0 {
		return model.Invalid("financial.electricity_price_eur_kwh", "must not be negative, got %v", p.PurchasePrice)
	}
	if p.FeedInPrice < 0 {
		return model.Invalid("financial.feed_in_price_eur_kwh", "must not be negative, got %v", p.FeedInPrice)
	}
	p.PurchasePrice *= p.Scenario.PriceFactor
	p.FeedInPrice *= p.Scenario.PriceFactor

	if in.FirstYearRevenue != nil {
		if *in.FirstYearRevenue < 0 {
			return model.Invalid("financial.first_year_revenue_eur", "must not be negative, got %v", *in.FirstYearRevenue)
		}
		p.FirstYearRevenue = *in.FirstYearRevenue * p.Scenario.PriceFactor
	}

	switch {
	case in.SellAll:
		p.SplitRevenue = true
		p.SelfConsumption = 0
	case in.SelfConsumption.IsSet():
		p.SplitRevenue = true
		p.SelfConsumption = in.SelfConsumption.Value()
	case in.FirstYearRevenue != nil:
		p.SplitRevenue = false
	default:
		p.SplitRevenue = true
		p.SelfConsumption = info.SelfConsumption
		if rc.Technology == model.TechnologyWind && rc.CapacityKW > d.Wind.LargeTurbineKW {
			p.SelfConsumption = 0
		}
	}
	return nil
}

func (p *Params) resolveOpex(in model.FinancialInput, rc ResolveContext, info model.TechnologyInfo) {
	switch {
	case rc.AnnualOpex != nil:
		p.OpexSeed = *rc.AnnualOpex
	case in.OpexPercent.IsSet():
		p.OpexSeed = p.Capex * in.OpexPercent.Value()
	case info.OpexPerKW > 0:
		p.OpexSeed = info.OpexPerKW * rc.CapacityKW
	default:
		p.OpexSeed = p.Capex * info.OpexPercent
	}
}

func (p *Params) resolveReplacement(in model.FinancialInput, rc ResolveContext, s config.Solar) {
	if in.InverterReplacementYear != nil {
		p.ReplacementYear = *in.InverterReplacementYear
	} else if rc.Technology == model.TechnologySolar {
		p.ReplacementYear = s.InverterReplacement
	}
	if p.ReplacementYear <= 0 {
		p.ReplacementYear = 0
		return
	}
	if in.InverterReplacementCost != nil {
		p.ReplacementCost = *in.InverterReplacementCost
	} else {
		p.ReplacementCost = p.Capex * s.InverterCostShare
	}
}

func (p *Params) validate() error {
	switch {
	case p.Years < 1:
		return model.Invalid("financial.years", "horizon must be at least 1 year, got %d", p.Years)
	case p.Capex < 0:
		return model.Invalid("costs", "CAPEX must not be negative, got %v", p.Capex)
	case p.DebtRatio < 0 || p.DebtRatio > 1:
		return model.Invalid("financial.debt_ratio", "must be within [0,1], got %v", p.DebtRatio)
	case p.LoanTermYears < 0:
		return model.Invalid("financial.loan_term_years", "must not be negative, got %d", p.LoanTermYears)
	case p.InterestRate <= -1:
		return model.Invalid("financial.interest_rate", "must be above -100%%, got %v", p.InterestRate)
	case p.TaxRate < 0 || p.TaxRate > 1:
		return model.Invalid("financial.tax_rate", "must be within [0,1], got %v", p.TaxRate)
	case p.SelfConsumption < 0 || p.SelfConsumption > 1:
		return model.Invalid("financial.self_consumption", "must be within [0,1], got %v", p.SelfConsumption)
	case p.DiscountRate <= -1:
		return model.Invalid("financial.discount_rate", "must be above -100%%, got %v", p.DiscountRate)
	case p.Inflation <= -1 || p.EnergyInflation <= -1:
		return model.Invalid("financial.inflation", "must be above -100%%")
	case p.Grants < 0:
		return model.Invalid("financial.grants_eur", "must not be negative, got %v", p.Grants)
	case p.TaxDeduction < 0:
		return model.Invalid("financial.tax_deduction_eur", "must not be negative, got %v", p.TaxDeduction)
	case p.Insurance < 0 || p.Lease < 0 || p.AdminFee < 0:
		return model.Invalid("financial", "fixed annual costs must not be negative")
	case p.OpexSeed < 0:
		return model.Invalid("costs.annual_opex_eur", "must not be negative, got %v", p.OpexSeed)
	case p.ReplacementCost < 0:
		return model.Invalid("financial.inverter_replacement_cost_eur", "must not be negative, got %v", p.ReplacementCost)
	}
	return nil
}

// Debt returns the amount borrowed at year 0.
func (p Params) Debt() float64 {
	return p.Capex * p.DebtRatio
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
