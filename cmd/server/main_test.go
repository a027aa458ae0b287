package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"renewable_simulator/internal/config"
	"renewable_simulator/internal/ingest"
	"renewable_simulator/internal/model"
	"renewable_simulator/internal/store"
)

func TestSeriesIDFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		filename string
		expected string
	}{
		{"simple", "wind", "madrid.csv", "wind.madrid"},
		{"upper case", "energy", "Roof_South.csv", "energy.roof_south"},
		{"spaces", "price", "spot 2024.csv", "price.spot_2024"},
		{"dotted stem", "wind", "site.a.csv", "wind.site.a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, seriesIDFromFilename(tt.prefix, tt.filename))
		})
	}
}

func TestExtendTimeRange(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	t.Run("from zero", func(t *testing.T) {
		samples := []model.Sample{
			{Timestamp: t2},
			{Timestamp: t1},
			{Timestamp: t3},
		}
		tr := extendTimeRange(model.TimeRange{}, samples)
		assert.Equal(t, t1, tr.Start)
		assert.Equal(t, t3, tr.End)
	})

	t.Run("extends existing range", func(t *testing.T) {
		tr := model.TimeRange{Start: t2, End: t2}
		tr = extendTimeRange(tr, []model.Sample{{Timestamp: t1}, {Timestamp: t3}})
		assert.Equal(t, t1, tr.Start)
		assert.Equal(t, t3, tr.End)
	})

	t.Run("empty samples", func(t *testing.T) {
		tr := model.TimeRange{Start: t1, End: t2}
		tr = extendTimeRange(tr, nil)
		assert.Equal(t, t1, tr.Start)
		assert.Equal(t, t2, tr.End)
	})
}

func TestMergeTimeRanges(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	t4 := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

	t.Run("both valid", func(t *testing.T) {
		result := mergeTimeRanges(model.TimeRange{Start: t1, End: t2}, model.TimeRange{Start: t3, End: t4})
		assert.Equal(t, t1, result.Start)
		assert.Equal(t, t4, result.End)
	})

	t.Run("a is zero", func(t *testing.T) {
		result := mergeTimeRanges(model.TimeRange{}, model.TimeRange{Start: t3, End: t4})
		assert.Equal(t, t3, result.Start)
		assert.Equal(t, t4, result.End)
	})

	t.Run("both zero", func(t *testing.T) {
		result := mergeTimeRanges(model.TimeRange{}, model.TimeRange{})
		assert.True(t, result.Start.IsZero())
		assert.True(t, result.End.IsZero())
	})

	t.Run("b starts earlier", func(t *testing.T) {
		result := mergeTimeRanges(model.TimeRange{Start: t3, End: t4}, model.TimeRange{Start: t1, End: t2})
		assert.Equal(t, t1, result.Start)
		assert.Equal(t, t4, result.End)
	})
}

func TestLoadSeriesDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "madrid.csv"),
		[]byte("date,wind_speed_ms,temperature_c\n2024-01-01,5.5,10\n2024-01-02,6.5,11\n2024-01-03,-1,12\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	s := store.NewSeriesStore()
	tr, err := loadSeriesDir(dir, "wind", func(id string) ingest.Parser {
		return &ingest.DailyWindParser{SeriesID: id}
	}, s, zap.NewNop())
	require.NoError(t, err)

	samples, err := s.Samples("wind.madrid")
	require.NoError(t, err)
	assert.Equal(t, []float64{5.5, 6.5}, model.Values(samples))
	assert.Equal(t, 2, s.SampleCount("wind.madrid.temperature"))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), tr.Start)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), tr.End)
}

func TestLoadSeriesDir_Missing(t *testing.T) {
	_, err := loadSeriesDir(filepath.Join(t.TempDir(), "absent"), "wind", func(id string) ingest.Parser {
		return &ingest.DailyWindParser{SeriesID: id}
	}, store.NewSeriesStore(), zap.NewNop())
	assert.Error(t, err)
}

func TestLoadSeriesDir_BadHeader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.csv"), []byte("when,value\n2024-01,1\n"), 0o644))

	_, err := loadSeriesDir(dir, "energy", func(id string) ingest.Parser {
		return &ingest.MonthlyEnergyParser{SeriesID: id}
	}, store.NewSeriesStore(), zap.NewNop())
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	s := config.Default().Server
	applyFlags(&s, "", "", "")
	assert.Equal(t, ":8080", s.Addr)
	assert.Equal(t, "input", s.InputDir)

	applyFlags(&s, "data", "web/build", ":9090")
	assert.Equal(t, "data", s.InputDir)
	assert.Equal(t, "web/build", s.FrontendDir)
	assert.Equal(t, ":9090", s.Addr)
}
