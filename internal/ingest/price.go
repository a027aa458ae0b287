package ingest

import (
	"fmt"
	"io"
	"math"

	"renewable_simulator/internal/model"
)

// PriceParser parses market price observations in EUR/kWh.
//
// Expected format:
//
//	month,price_eur_kwh
//	2024-07,0.112
type PriceParser struct {
	SeriesID string
}

func (p *PriceParser) Parse(r io.Reader) ([]model.Sample, error) {
	samples, _, err := readCSV(r, []string{"month", "price_eur_kwh"}, p.parseRecord)
	return samples, err
}

func (p *PriceParser) parseRecord(record []string, lineNum int) ([]model.Sample, error) {
	if len(record) < 2 {
		return nil, fmt.Errorf("line %d: expected 2 fields, got %d", lineNum, len(record))
	}
	ts, err := parseMonth(record[0])
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNum, err)
	}
	price, err := parseFloat(record, 1, lineNum, "price_eur_kwh")
	if err != nil {
		return nil, err
	}
	return []model.Sample{sample(p.SeriesID, model.SeriesPrice, ts, price)}, nil
}

// PriceStats reduces price samples to the statistic the engine consumes.
// Monthly holds the mean per calendar month when every month is covered.
func PriceStats(samples []model.Sample) (model.MarketPrice, error) {
	if len(samples) == 0 {
		return model.MarketPrice{}, fmt.Errorf("no price samples")
	}

	stats := model.MarketPrice{Min: math.Inf(1), Max: math.Inf(-1)}
	var sums, counts [12]float64
	var total float64
	for _, s := range samples {
		total += s.Value
		stats.Min = math.Min(stats.Min, s.Value)
		stats.Max = math.Max(stats.Max, s.Value)
		m := s.Timestamp.Month() - 1
		sums[m] += s.Value
		counts[m]++
	}
	stats.Average = total / float64(len(samples))

	monthly := make([]float64, 12)
	for m := range monthly {
		if counts[m] == 0 {
			return stats, nil
		}
		monthly[m] = sums[m] / counts[m]
	}
	stats.Monthly = monthly
	return stats, nil
}
