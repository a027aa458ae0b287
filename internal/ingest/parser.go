// Package ingest parses resource series from CSV exports.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"renewable_simulator/internal/model"
)

// Parser reads resource samples from a source.
type Parser interface {
	Parse(r io.Reader) ([]model.Sample, error)
}

// rowFunc turns one CSV record into zero or more samples. An error skips the row.
type rowFunc func(record []string, lineNum int) ([]model.Sample, error)

// readCSV validates the leading header columns and parses every row,
// skipping rows that fail to parse.
func readCSV(r io.Reader, expected []string, parse rowFunc) ([]model.Sample, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if err := validateHeader(header, expected); err != nil {
		return nil, nil, err
	}

	var samples []model.Sample
	lineNum := 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}

		got, err := parse(record, lineNum)
		if err != nil {
			continue
		}
		samples = append(samples, got...)
	}

	return samples, header, nil
}

func validateHeader(header, expected []string) error {
	if len(header) < len(expected) {
		return fmt.Errorf("expected at least %d columns, got %d", len(expected), len(header))
	}
	for i, col := range expected {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("expected column %d to be %q, got %q", i, col, header[i])
		}
	}
	return nil
}

func parseFloat(record []string, idx, lineNum int, name string) (float64, error) {
	if idx >= len(record) {
		return 0, fmt.Errorf("line %d: missing %s", lineNum, name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: parsing %s %q: %w", lineNum, name, record[idx], err)
	}
	return v, nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return ts.UTC(), nil
}

// parseMonth accepts YYYY-MM or a full date, truncated to the first of the month.
func parseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse("2006-01", s); err == nil {
		return ts, nil
	}
	ts, err := parseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

func sample(id string, kind model.SeriesKind, ts time.Time, v float64) model.Sample {
	return model.Sample{
		Timestamp: ts,
		SeriesID:  id,
		Kind:      kind,
		Value:     v,
		Unit:      model.SeriesCatalog[kind].Unit,
	}
}
