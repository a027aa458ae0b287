package cashflow

import (
	"fmt"
	"math"

	"renewable_simulator/internal/energy"
	"renewable_simulator/internal/model"
)

// Ledger is the projected cash-flow table, rows 0..Years.
type Ledger struct {
	Rows     []model.CashFlowYear
	Loan     Loan
	Warnings []string
}

// ProjectFlows returns the project free cash flows, year 0 first.
func (l Ledger) ProjectFlows() []float64 {
	out := make([]float64, len(l.Rows))
	for i, r := range l.Rows {
		out[i] = r.FreeCashFlowEUR
	}
	return out
}

// EquityFlows returns the equity free cash flows, year 0 first.
func (l Ledger) EquityFlows() []float64 {
	out := make([]float64, len(l.Rows))
	for i, r := range l.Rows {
		out[i] = r.EquityCashFlowEUR
	}
	return out
}

// Generation returns the energy of years 1..N.
func (l Ledger) Generation() []float64 {
	if len(l.Rows) < 2 {
		return nil
	}
	out := make([]float64, 0, len(l.Rows)-1)
	for _, r := range l.Rows[1:] {
		out = append(out, r.GenerationKWh)
	}
	return out
}

// OperatingCosts returns OPEX plus extraordinary expense of years 1..N.
func (l Ledger) OperatingCosts() []float64 {
	if len(l.Rows) < 2 {
		return nil
	}
	out := make([]float64, 0, len(l.Rows)-1)
	for _, r := range l.Rows[1:] {
		out = append(out, r.OpexEUR+r.ExtraordinaryEUR)
	}
	return out
}

// TotalInterest sums interest over the ledger.
func (l Ledger) TotalInterest() float64 {
	var sum float64
	for _, r := range l.Rows {
		sum += r.InterestEUR
	}
	return sum
}

// Project builds the ledger for p from the generation profile. A profile
// shorter than the horizon is an error.
func Project(profile energy.Profile, p Params) (Ledger, error) {
	if p.Years < 1 {
		return Ledger{}, model.Invalid("financial.years", "horizon must be at least 1 year, got %d", p.Years)
	}
	generation, err := energy.Years(profile, p.Years)
	if err != nil {
		return Ledger{}, fmt.Errorf("projecting %d years: %w", p.Years, err)
	}

	debt := p.Debt()
	loan := Loan{Principal: debt, Rate: p.InterestRate, TermYears: p.LoanTermYears}
	schedule := loan.Schedule()

	ledger := Ledger{
		Rows:     make([]model.CashFlowYear, 0, p.Years+1),
		Loan:     loan,
		Warnings: append([]string(nil), p.Warnings...),
	}

	projectOut := -math.Max(p.Capex-p.Grants, 0)
	equityOut := -math.Max(p.Capex*(1-p.DebtRatio)-p.Grants, 0)
	ledger.Rows = append(ledger.Rows, model.CashFlowYear{
		Year:              0,
		FreeCashFlowEUR:   projectOut,
		EquityCashFlowEUR: equityOut,
		CumulativeEUR:     equityOut,
		DebtBalanceEUR:    debt,
	})

	impliedPrice := p.FeedInPrice * p.PriceFactor
	if p.FirstYearRevenue > 0 && generation[0] > 0 {
		impliedPrice = p.FirstYearRevenue / generation[0] * p.PriceFactor
	}

	depreciation := p.Capex / float64(p.Years)
	opexFixed := p.OpexSeed + p.Insurance + p.Lease + p.AdminFee
	balance := debt
	cumulative := equityOut

	for y := 1; y <= p.Years; y++ {
		gen := generation[y-1]
		energyGrowth := math.Pow(1+p.EnergyInflation, float64(y-1))

		row := model.CashFlowYear{Year: y, GenerationKWh: gen}
		if p.SplitRevenue {
			purchase := p.PurchasePrice * energyGrowth
			if p.Scenario.PriceCap > 0 {
				purchase = math.Min(purchase, p.Scenario.PriceCap*math.Pow(1+p.PriceCapInflation, float64(y-1)))
			}
			row.SavingsEUR = gen * p.SelfConsumption * purchase
			row.ExportIncomeEUR = gen * (1 - p.SelfConsumption) * p.FeedInPrice * p.PriceFactor * energyGrowth
		} else {
			row.ExportIncomeEUR = gen * impliedPrice * energyGrowth
		}
		row.RevenueEUR = row.SavingsEUR + row.ExportIncomeEUR

		row.OpexEUR = opexFixed * math.Pow(1+p.Inflation, float64(y-1))
		if p.ReplacementYear > 0 && y == p.ReplacementYear {
			row.ExtraordinaryEUR = p.ReplacementCost
		}
		row.EBITDAEUR = row.RevenueEUR - row.OpexEUR - row.ExtraordinaryEUR
		row.DepreciationEUR = depreciation
		row.EBITEUR = row.EBITDAEUR - depreciation

		if y <= len(schedule) {
			inst := schedule[y-1]
			row.InterestEUR = inst.Interest
			row.PrincipalEUR = inst.Principal
			balance = inst.Balance
		}
		row.DebtBalanceEUR = balance

		deduction := 0.0
		if y == 1 {
			deduction = p.TaxDeduction
		}
		row.TaxEUR = math.Max(0, math.Max(0, (row.EBITEUR-row.InterestEUR)*p.TaxRate)-deduction)
		taxOnEBIT := math.Max(0, math.Max(0, row.EBITEUR*p.TaxRate)-deduction)

		row.NetIncomeEUR = row.EBITEUR - row.InterestEUR - row.TaxEUR
		row.FreeCashFlowEUR = row.EBITEUR - taxOnEBIT + depreciation
		row.EquityCashFlowEUR = row.NetIncomeEUR + depreciation - row.PrincipalEUR
		cumulative += row.EquityCashFlowEUR
		row.CumulativeEUR = cumulative

		ledger.Rows = append(ledger.Rows, row)
	}
	if p.ReplacementYear > p.Years {
		ledger.Warnings = append(ledger.Warnings, fmt.Sprintf("replacement year %d is beyond the %d-year horizon", p.ReplacementYear, p.Years))
	}
	return ledger, nil
}
