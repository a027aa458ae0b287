package energy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDegrading(t *testing.T) {
	p := Degrading{FirstYearKWh: 10000, Rate: 0.005}

	t.Run("first year exact", func(t *testing.T) {
		v, err := p.Annual(1)
		require.NoError(t, err)
		assert.Equal(t, 10000.0, v)
	})

	t.Run("composition", func(t *testing.T) {
		for y := 2; y <= 30; y++ {
			v, err := p.Annual(y)
			require.NoError(t, err)
			assert.InDelta(t, 10000*math.Pow(0.995, float64(y-1)), v, 1e-9)
		}
	})

	t.Run("year zero rejected", func(t *testing.T) {
		_, err := p.Annual(0)
		assert.Error(t, err)
	})

	assert.Equal(t, 0, p.Horizon())
}

func TestMonthlySeries(t *testing.T) {
	months := make([]float64, 24)
	for i := range months {
		months[i] = 100
		if i >= 12 {
			months[i] = 90
		}
	}

	s, err := NewMonthlySeries(months)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Horizon())

	y1, err := s.Annual(1)
	require.NoError(t, err)
	assert.InDelta(t, 1200, y1, 1e-9)

	y2, err := s.Annual(2)
	require.NoError(t, err)
	assert.InDelta(t, 1080, y2, 1e-9, "series values are used as-is")

	_, err = s.Annual(3)
	assert.ErrorIs(t, err, ErrBeyondSeries)
}

func TestMonthlySeries_Invalid(t *testing.T) {
	_, err := NewMonthlySeries(nil)
	assert.Error(t, err)

	_, err = NewMonthlySeries(make([]float64, 13))
	assert.Error(t, err)

	bad := make([]float64, 12)
	bad[3] = -1
	_, err = NewMonthlySeries(bad)
	assert.Error(t, err)
}

func TestYears(t *testing.T) {
	s, err := NewAnnualSeries([]float64{1000, 990, 980})
	require.NoError(t, err)

	vals, err := Years(s, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 990, 980}, vals)

	_, err = Years(s, 4)
	assert.ErrorIs(t, err, ErrBeyondSeries)

	total, err := Total(Degrading{FirstYearKWh: 100}, 25)
	require.NoError(t, err)
	assert.InDelta(t, 2500, total, 1e-9)
}

func TestNewAnnualSeries_Copies(t *testing.T) {
	in := []float64{1, 2}
	s, err := NewAnnualSeries(in)
	require.NoError(t, err)
	in[0] = 99
	v, _ := s.Annual(1)
	assert.Equal(t, 1.0, v)
}
