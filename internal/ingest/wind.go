package ingest

import (
	"fmt"
	"io"
	"strings"

	"renewable_simulator/internal/model"
)

// TemperatureSuffix names the temperature series recorded next to a wind series.
const TemperatureSuffix = ".temperature"

// DailyWindParser parses day-by-day wind records at the reference height.
//
// Expected format:
//
//	date,wind_speed_ms[,temperature_c]
//	2024-01-01,6.4,8.1
type DailyWindParser struct {
	SeriesID string
}

func (p *DailyWindParser) Parse(r io.Reader) ([]model.Sample, error) {
	samples, header, err := readCSV(r, []string{"date", "wind_speed_ms"}, p.parseRecord)
	if err != nil {
		return nil, err
	}
	if len(header) > 2 && strings.TrimSpace(header[2]) != "temperature_c" {
		return nil, fmt.Errorf("expected column 2 to be %q, got %q", "temperature_c", header[2])
	}
	return samples, nil
}

func (p *DailyWindParser) parseRecord(record []string, lineNum int) ([]model.Sample, error) {
	if len(record) < 2 {
		return nil, fmt.Errorf("line %d: expected at least 2 fields, got %d", lineNum, len(record))
	}
	ts, err := parseDate(record[0])
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNum, err)
	}
	speed, err := parseFloat(record, 1, lineNum, "wind_speed_ms")
	if err != nil {
		return nil, err
	}
	if speed < 0 {
		return nil, fmt.Errorf("line %d: negative wind speed %v", lineNum, speed)
	}

	out := []model.Sample{sample(p.SeriesID, model.SeriesWindSpeed, ts, speed)}
	if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
		if temp, err := parseFloat(record, 2, lineNum, "temperature_c"); err == nil {
			out = append(out, sample(p.SeriesID+TemperatureSuffix, model.SeriesTemperature, ts, temp))
		}
	}
	return out, nil
}
