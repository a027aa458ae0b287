package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"renewable_simulator/internal/model"
	"renewable_simulator/internal/report"
	"renewable_simulator/internal/simulator"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeResult(w io.Writer, format, title string, res model.Result) error {
	switch format {
	case "json":
		return writeJSON(w, res)
	case "text":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	s := res.Summary
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n\n", title)
	fmt.Fprintf(tw, "First-year generation\t%.0f kWh\n", s.FirstYearKWh)
	fmt.Fprintf(tw, "Capacity factor\t%.1f %%\n", res.Technical.CapacityFactor*100)
	fmt.Fprintf(tw, "Total investment\t%s EUR\n", report.EUR(s.TotalInvestmentEUR))
	fmt.Fprintf(tw, "NPV\t%s EUR\n", report.EUR(s.NPVEUR))
	fmt.Fprintf(tw, "IRR\t%s\n", indicator(s.IRR, 100, "%"))
	fmt.Fprintf(tw, "Payback\t%s\n", indicator(s.PaybackYears, 1, "years"))
	fmt.Fprintf(tw, "ROI\t%s\n", indicator(s.ROIPercent, 1, "%"))
	fmt.Fprintf(tw, "CO2 avoided\t%.0f kg/year\n", s.CO2AvoidedKg)
	for _, warn := range res.Financial.Warnings {
		fmt.Fprintf(tw, "Warning\t%s\n", warn)
	}
	return tw.Flush()
}

func writeOptimization(w io.Writer, format string, res simulator.OptimizeResult) error {
	switch format {
	case "json":
		return writeJSON(w, res)
	case "text":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	b := res.Best
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Candidates evaluated\t%d\n", len(res.Candidates))
	fmt.Fprintf(tw, "Best tilt\t%.0f°\n", b.TiltDeg)
	fmt.Fprintf(tw, "Best azimuth\t%.0f°\n", b.AzimuthDeg)
	fmt.Fprintf(tw, "Orientation factor\t%.4f\n", b.OrientationFactor)
	fmt.Fprintf(tw, "First-year generation\t%.0f kWh\n", b.FirstYearKWh)
	fmt.Fprintf(tw, "NPV\t%s EUR\n", report.EUR(b.NPVEUR))
	fmt.Fprintf(tw, "IRR\t%s\n", indicator(b.IRR, 100, "%"))
	return tw.Flush()
}

func writeReport(w io.Writer, title string, res model.Result, html bool) error {
	if !html {
		_, err := io.WriteString(w, report.Markdown(title, res))
		return err
	}
	out, err := report.HTML(title, res)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func indicator(i model.Indicator, scale float64, unit string) string {
	if !i.Usable() {
		return i.Status
	}
	return fmt.Sprintf("%.2f %s (%s)", i.Value*scale, unit, i.Status)
}
