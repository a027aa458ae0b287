// Package report renders a simulation result as an investment report.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"renewable_simulator/internal/model"
)

var renderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders r as a Markdown document.
func Markdown(title string, r model.Result) string {
	var b strings.Builder
	s := r.Summary
	t := r.Technical
	f := r.Financial

	fmt.Fprintf(&b, "# %s\n\n", title)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Technology | %s |\n", s.Technology)
	fmt.Fprintf(&b, "| Scenario | %s |\n", f.Scenario)
	fmt.Fprintf(&b, "| First-year generation | %s kWh |\n", fixed(s.FirstYearKWh, 0))
	fmt.Fprintf(&b, "| Total investment | %s EUR |\n", EUR(s.TotalInvestmentEUR))
	fmt.Fprintf(&b, "| NPV | %s EUR |\n", EUR(s.NPVEUR))
	fmt.Fprintf(&b, "| IRR | %s |\n", rate(s.IRR))
	fmt.Fprintf(&b, "| Payback | %s |\n", years(s.PaybackYears))
	fmt.Fprintf(&b, "| ROI | %s |\n", percent(s.ROIPercent))
	fmt.Fprintf(&b, "| CO2 avoided | %s kg/year |\n", fixed(s.CO2AvoidedKg, 0))
	b.WriteString("\n")

	b.WriteString("## Production\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Capacity | %s kW |\n", fixed(t.CapacityKW, 1))
	fmt.Fprintf(&b, "| Gross annual energy | %s kWh |\n", fixed(t.GrossAnnualKWh, 0))
	fmt.Fprintf(&b, "| Net annual energy | %s kWh |\n", fixed(t.NetAnnualKWh, 0))
	fmt.Fprintf(&b, "| Losses | %s %% |\n", fixed(t.LossesPercent, 1))
	fmt.Fprintf(&b, "| Capacity factor | %s %% |\n", fixed(t.CapacityFactor*100, 1))
	b.WriteString("\n")

	m := f.Metrics
	b.WriteString("## Financing\n\n")
	b.WriteString("| Metric | Project | Equity |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| NPV (EUR) | %s | %s |\n", EUR(m.NPVProjectEUR), EUR(m.NPVEquityEUR))
	fmt.Fprintf(&b, "| IRR | %s | %s |\n", rate(m.IRRProject), rate(m.IRREquity))
	fmt.Fprintf(&b, "| Payback | %s | %s |\n", years(m.PaybackProject), years(m.PaybackEquity))
	b.WriteString("\n")
	fmt.Fprintf(&b, "CAPEX %s EUR, debt %s EUR, total interest %s EUR. LCOE %s EUR/kWh.\n\n",
		EUR(f.CapexEUR), EUR(f.DebtEUR), EUR(m.TotalInterestEUR), fixed(m.LCOEEURPerKWh, 4))
	fmt.Fprintf(&b, "Purchase price %s EUR/kWh, feed-in %s EUR/kWh.", fixed(f.PurchasePriceEUR, 4), fixed(f.FeedInPriceEUR, 4))
	if mk := f.Market; mk != nil {
		fmt.Fprintf(&b, " Market average %s EUR/kWh", fixed(mk.Average, 4))
		if mk.Max > 0 {
			fmt.Fprintf(&b, ", range %s to %s", fixed(mk.Min, 4), fixed(mk.Max, 4))
		}
		if mk.SeriesID != "" {
			fmt.Fprintf(&b, " from series %s", mk.SeriesID)
		}
		b.WriteString(".")
	}
	b.WriteString("\n\n")

	if len(f.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range f.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(f.Years) > 0 {
		b.WriteString("## Cash flow\n\n")
		b.WriteString("| Year | Generation (kWh) | Revenue | OPEX | Interest | Tax | Project FCF | Equity FCF | Cumulative |\n")
		b.WriteString("|---:|---:|---:|---:|---:|---:|---:|---:|---:|\n")
		for _, y := range f.Years {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				y.Year, fixed(y.GenerationKWh, 0), EUR(y.RevenueEUR), EUR(y.OpexEUR+y.ExtraordinaryEUR),
				EUR(y.InterestEUR), EUR(y.TaxEUR), EUR(y.FreeCashFlowEUR), EUR(y.EquityCashFlowEUR), EUR(y.CumulativeEUR))
		}
	}
	return b.String()
}

// HTML renders r as an HTML fragment.
func HTML(title string, r model.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(Markdown(title, r)), &buf); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

// EUR formats an amount rounded half away from zero to cents.
func EUR(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func rate(i model.Indicator) string {
	if !i.Usable() {
		return label(i.Status)
	}
	s := fixed(i.Value*100, 2) + " %"
	if i.Status == model.StatusApproximate {
		s += " (approx.)"
	}
	return s
}

func years(i model.Indicator) string {
	if !i.Usable() {
		return label(i.Status)
	}
	return fixed(i.Value, 1) + " years"
}

func percent(i model.Indicator) string {
	if !i.Usable() {
		return label(i.Status)
	}
	return fixed(i.Value, 1) + " %"
}

func label(status string) string {
	switch status {
	case model.StatusBeyondHorizon:
		return "beyond horizon"
	case model.StatusNotApplicable:
		return "n/a"
	}
	return strings.ReplaceAll(status, "_", " ")
}
