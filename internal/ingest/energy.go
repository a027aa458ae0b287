package ingest

import (
	"fmt"
	"io"

	"renewable_simulator/internal/model"
)

// MonthlyEnergyParser parses a per-month generation series, typically a
// multi-year export already net of degradation.
//
// Expected format:
//
//	month,energy_kwh
//	2025-01,812.4
type MonthlyEnergyParser struct {
	SeriesID string
}

func (p *MonthlyEnergyParser) Parse(r io.Reader) ([]model.Sample, error) {
	samples, _, err := readCSV(r, []string{"month", "energy_kwh"}, p.parseRecord)
	return samples, err
}

func (p *MonthlyEnergyParser) parseRecord(record []string, lineNum int) ([]model.Sample, error) {
	if len(record) < 2 {
		return nil, fmt.Errorf("line %d: expected 2 fields, got %d", lineNum, len(record))
	}
	ts, err := parseMonth(record[0])
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNum, err)
	}
	kwh, err := parseFloat(record, 1, lineNum, "energy_kwh")
	if err != nil {
		return nil, err
	}
	if kwh < 0 {
		return nil, fmt.Errorf("line %d: negative energy %v", lineNum, kwh)
	}
	return []model.Sample{sample(p.SeriesID, model.SeriesEnergy, ts, kwh)}, nil
}
