// Package store keeps loaded resource series and persisted simulation runs.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"renewable_simulator/internal/model"
)

// ErrNotFound is returned when a series or run does not exist.
var ErrNotFound = errors.New("not found")

// SeriesStore holds resource samples in memory, indexed by series ID.
type SeriesStore struct {
	mu      sync.RWMutex
	series  map[string]model.Series
	samples map[string][]model.Sample // keyed by series ID, sorted by timestamp
}

func NewSeriesStore() *SeriesStore {
	return &SeriesStore{
		series:  make(map[string]model.Series),
		samples: make(map[string][]model.Sample),
	}
}

// AddSeries registers a series.
func (s *SeriesStore) AddSeries(series model.Series) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[series.ID] = series
}

// AddSamples appends samples and keeps each affected series sorted. Series
// seen for the first time are registered from the catalog.
func (s *SeriesStore) AddSamples(samples []model.Sample) {
	if len(samples) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, smp := range samples {
		s.samples[smp.SeriesID] = append(s.samples[smp.SeriesID], smp)
	}

	seen := make(map[string]bool)
	for _, smp := range samples {
		if seen[smp.SeriesID] {
			continue
		}
		seen[smp.SeriesID] = true
		list := s.samples[smp.SeriesID]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Timestamp.Before(list[j].Timestamp)
		})
		if _, ok := s.series[smp.SeriesID]; !ok {
			info := model.SeriesCatalog[smp.Kind]
			s.series[smp.SeriesID] = model.Series{ID: smp.SeriesID, Name: info.Name, Kind: smp.Kind, Unit: info.Unit}
		}
	}
}

// Series returns all registered series ordered by ID.
func (s *SeriesStore) Series() []model.Series {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Series, 0, len(s.series))
	for _, series := range s.series {
		out = append(out, series)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SampleCount returns the number of samples in a series.
func (s *SeriesStore) SampleCount(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples[id])
}

// TimeRange returns the time range covered by a series.
func (s *SeriesStore) TimeRange(id string) (model.TimeRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	samples := s.samples[id]
	if len(samples) == 0 {
		return model.TimeRange{}, false
	}
	return model.TimeRange{
		Start: samples[0].Timestamp,
		End:   samples[len(samples)-1].Timestamp,
	}, true
}

// GlobalTimeRange returns the union of all series' time ranges.
func (s *SeriesStore) GlobalTimeRange() (model.TimeRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tr model.TimeRange
	first := true
	for _, samples := range s.samples {
		if len(samples) == 0 {
			continue
		}
		start, end := samples[0].Timestamp, samples[len(samples)-1].Timestamp
		if first || start.Before(tr.Start) {
			tr.Start = start
		}
		if first || end.After(tr.End) {
			tr.End = end
		}
		first = false
	}
	return tr, !first
}

// SamplesInRange returns samples between start (inclusive) and end (exclusive).
func (s *SeriesStore) SamplesInRange(id string, start, end time.Time) []model.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.samples[id]
	startIdx := sort.Search(len(all), func(i int) bool {
		return !all[i].Timestamp.Before(start)
	})
	endIdx := sort.Search(len(all), func(i int) bool {
		return !all[i].Timestamp.Before(end)
	})
	if startIdx >= endIdx {
		return nil
	}

	result := make([]model.Sample, endIdx-startIdx)
	copy(result, all[startIdx:endIdx])
	return result
}

// Samples returns a copy of every sample in a series.
func (s *SeriesStore) Samples(id string) ([]model.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, ok := s.samples[id]
	if !ok || len(all) == 0 {
		return nil, fmt.Errorf("series %q: %w", id, ErrNotFound)
	}
	out := make([]model.Sample, len(all))
	copy(out, all)
	return out, nil
}
