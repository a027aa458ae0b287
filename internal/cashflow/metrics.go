package cashflow

import (
	"renewable_simulator/internal/finance"
	"renewable_simulator/internal/model"
)

// Evaluate derives the financial metrics of a ledger. Project flows are
// discounted at the discount rate and equity flows at the cost of equity.
func Evaluate(l Ledger, p Params) model.FinancialMetrics {
	project := l.ProjectFlows()
	equity := l.EquityFlows()

	lcoe := finance.LCOE(p.Capex, l.OperatingCosts(), l.Generation(), p.DiscountRate)

	return model.FinancialMetrics{
		NPVProjectEUR:    finance.NPV(p.DiscountRate, project),
		NPVEquityEUR:     finance.NPV(p.CostOfEquity, equity),
		IRRProject:       irrIndicator(finance.IRR(project)),
		IRREquity:        irrIndicator(finance.IRR(equity)),
		PaybackProject:   paybackIndicator(finance.Payback(project)),
		PaybackEquity:    paybackIndicator(finance.Payback(equity)),
		ROIPercent:       roiIndicator(finance.ROI(equity)),
		TotalInterestEUR: l.TotalInterest(),
		TotalProfitEUR:   finance.Sum(equity),
		LCOEEURPerKWh:    lcoe.Technical,
		DiscountedLCOE:   lcoe.Discounted,
		DiscountRate:     p.DiscountRate,
		CostOfEquity:     p.CostOfEquity,
	}
}

func irrIndicator(r finance.IRRResult) model.Indicator {
	return model.Indicator{Value: r.Rate, Status: string(r.Status)}
}

func paybackIndicator(r finance.PaybackResult) model.Indicator {
	return model.Indicator{Value: r.Years, Status: string(r.Status)}
}

func roiIndicator(r finance.ROIResult) model.Indicator {
	if !r.Applicable {
		return model.Indicator{Status: model.StatusNotApplicable}
	}
	return model.Indicator{Value: r.Percent, Status: model.StatusOK}
}
