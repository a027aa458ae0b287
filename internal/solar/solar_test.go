package solar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"renewable_simulator/internal/model"
)

func closedFormInput() EstimateInput {
	return EstimateInput{
		CapacityKWp:       5,
		TiltDeg:           35,
		AzimuthDeg:        0,
		Degradation:       0.0055,
		PerformanceRatio:  0.85,
		BaseSpecificYield: 1700,
		Orientation:       DefaultOrientation(),
	}
}

func TestOrientationFactor(t *testing.T) {
	t.Run("optimum is exactly one", func(t *testing.T) {
		assert.Equal(t, 1.0, OrientationFactor(35, 0))
	})

	t.Run("vertical clamps to floor", func(t *testing.T) {
		assert.Equal(t, 0.6, OrientationFactor(90, 0))
	})

	t.Run("north facing clamps to floor", func(t *testing.T) {
		assert.Equal(t, 0.6, OrientationFactor(35, 180))
		assert.Equal(t, 0.6, OrientationFactor(90, -180))
	})

	t.Run("never outside bounds", func(t *testing.T) {
		for tilt := 0.0; tilt <= 90; tilt += 5 {
			for az := -180.0; az <= 180; az += 15 {
				f := OrientationFactor(tilt, az)
				assert.GreaterOrEqual(t, f, 0.6)
				assert.LessOrEqual(t, f, 1.0)
			}
		}
	})

	t.Run("symmetric in azimuth", func(t *testing.T) {
		assert.Equal(t, OrientationFactor(30, 45), OrientationFactor(30, -45))
	})

	t.Run("flat roof penalty", func(t *testing.T) {
		assert.InDelta(t, 1-1.4e-4*35*35, OrientationFactor(0, 0), 1e-12)
	})
}

func TestEstimate_ClosedForm(t *testing.T) {
	prod, err := Estimate(closedFormInput())
	require.NoError(t, err)

	assert.Equal(t, SourceClosedForm, prod.Source)
	assert.InDelta(t, 5*1700*0.85, prod.AnnualKWh, 1e-9)
	assert.Equal(t, 1.0, prod.OrientationFactor)
	assert.InDelta(t, 1700*0.85, prod.SpecificYield, 1e-9)
	assert.InDelta(t, prod.AnnualKWh, floats.Sum(prod.MonthlyKWh[:]), 1e-6)
	assert.Equal(t, 1.0, prod.CorrectionFactor)
}

func TestEstimate_OrientationLoss(t *testing.T) {
	in := closedFormInput()
	in.TiltDeg = 10
	in.AzimuthDeg = 45

	prod, err := Estimate(in)
	require.NoError(t, err)
	expectedFactor := 1 - 1.4e-4*25*25 - 2e-5*45*45
	assert.InDelta(t, expectedFactor, prod.OrientationFactor, 1e-12)
	assert.InDelta(t, 5*1700*0.85*expectedFactor, prod.AnnualKWh, 1e-9)
}

func TestEstimate_Correction(t *testing.T) {
	in := closedFormInput()
	in.CorrectionFactor = 0.95
	prod, err := Estimate(in)
	require.NoError(t, err)
	assert.InDelta(t, 5*1700*0.85*0.95, prod.AnnualKWh, 1e-9)
}

func TestEstimate_ExternalYieldTakesPrecedence(t *testing.T) {
	in := closedFormInput()
	in.SpecificYield = 1400
	in.TiltDeg = 60

	prod, err := Estimate(in)
	require.NoError(t, err)
	assert.Equal(t, SourceExternalYield, prod.Source)
	assert.InDelta(t, 7000, prod.AnnualKWh, 1e-9)
	assert.Equal(t, 1.0, prod.OrientationFactor)
}

func TestEstimate_ExternalMonthly(t *testing.T) {
	in := closedFormInput()
	in.MonthlyKWh = []float64{300, 400, 600, 700, 800, 900, 950, 850, 650, 500, 350, 280}

	prod, err := Estimate(in)
	require.NoError(t, err)
	assert.Equal(t, SourceExternalMonthly, prod.Source)
	assert.InDelta(t, 7280, prod.AnnualKWh, 1e-9)
	assert.InDelta(t, 950, prod.MonthlyKWh[6], 1e-9)
}

func TestEstimate_ZeroCapacity(t *testing.T) {
	in := closedFormInput()
	in.CapacityKWp = 0
	prod, err := Estimate(in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, prod.AnnualKWh)
	assert.Equal(t, 0.0, prod.CapacityFactor)
}

func TestEstimate_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EstimateInput)
	}{
		{"negative capacity", func(in *EstimateInput) { in.CapacityKWp = -1 }},
		{"tilt above 90", func(in *EstimateInput) { in.TiltDeg = 91 }},
		{"negative tilt", func(in *EstimateInput) { in.TiltDeg = -5 }},
		{"azimuth out of range", func(in *EstimateInput) { in.AzimuthDeg = 200 }},
		{"negative degradation", func(in *EstimateInput) { in.Degradation = -0.01 }},
		{"zero performance ratio", func(in *EstimateInput) { in.PerformanceRatio = 0 }},
		{"short monthly", func(in *EstimateInput) { in.MonthlyKWh = []float64{1, 2, 3} }},
		{"negative month", func(in *EstimateInput) {
			in.MonthlyKWh = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, -12}
		}},
		{"no data", func(in *EstimateInput) { in.BaseSpecificYield = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := closedFormInput()
			tt.mutate(&in)
			_, err := Estimate(in)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestYearEnergy(t *testing.T) {
	assert.Equal(t, 1000.0, YearEnergy(1000, 0.005, 1))
	for y := 2; y <= 25; y++ {
		assert.InDelta(t, 1000*math.Pow(0.995, float64(y-1)), YearEnergy(1000, 0.005, y), 1e-9)
	}
}

func TestProject(t *testing.T) {
	var monthly [12]float64
	for m := range monthly {
		monthly[m] = 100
	}

	out := Project(monthly, 3, 0.01)
	require.Len(t, out, 36)
	assert.Equal(t, 100.0, out[0])
	assert.InDelta(t, 99, out[12], 1e-9)
	assert.InDelta(t, 100*0.99*0.99, out[35], 1e-9)
	assert.Nil(t, Project(monthly, 0, 0.01))
}

func TestBuildMonthlyProfile(t *testing.T) {
	t.Run("normalizes breakdown", func(t *testing.T) {
		monthly := []float64{1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1}
		p := BuildMonthlyProfile(monthly, false)
		assert.InDelta(t, 1.0, floats.Sum(p.Share[:]), 1e-12)
		assert.Equal(t, 6, p.PeakMonth)
		assert.InDelta(t, 2.0/13, p.Share[6], 1e-12)
	})

	t.Run("default northern peaks in june", func(t *testing.T) {
		p := BuildMonthlyProfile(nil, false)
		assert.Equal(t, 5, p.PeakMonth)
		assert.InDelta(t, 1.0, floats.Sum(p.Share[:]), 1e-12)
		assert.Greater(t, p.Share[5], p.Share[11])
	})

	t.Run("default southern peaks in december", func(t *testing.T) {
		p := BuildMonthlyProfile(nil, true)
		assert.Equal(t, 11, p.PeakMonth)
		assert.Greater(t, p.Share[11], p.Share[5])
	})

	t.Run("zero total falls back", func(t *testing.T) {
		p := BuildMonthlyProfile(make([]float64, 12), false)
		assert.Equal(t, 5, p.PeakMonth)
	})

	t.Run("split sums to annual", func(t *testing.T) {
		split := BuildMonthlyProfile(nil, false).Split(6000)
		assert.InDelta(t, 6000, floats.Sum(split[:]), 1e-9)
	})
}
