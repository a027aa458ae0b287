package wind

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewable_simulator/internal/model"
)

func utilityTurbine() Turbine {
	return Turbine{
		RatedPowerKW: 2000,
		CutInMS:      3,
		RatedSpeedMS: 12,
		CutOutMS:     25,
	}
}

func smallTurbine() Turbine {
	return Turbine{
		RatedPowerKW:   5,
		RotorDiameterM: 4,
		CutInMS:        3,
		RatedSpeedMS:   12,
		CutOutMS:       25,
	}
}

func defaultInput(t Turbine, mean float64) EstimateInput {
	return EstimateInput{
		Turbine:  t,
		Site:     Site{MeanSpeedMS: mean, TemperatureC: 15},
		WeibullK: 2,
	}
}

func TestTurbine_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Turbine)
	}{
		{"zero rated power", func(tb *Turbine) { tb.RatedPowerKW = 0 }},
		{"negative rated power", func(tb *Turbine) { tb.RatedPowerKW = -5 }},
		{"cut-in equals rated", func(tb *Turbine) { tb.CutInMS = 12 }},
		{"cut-in above rated", func(tb *Turbine) { tb.CutInMS = 14 }},
		{"rated above cut-out", func(tb *Turbine) { tb.RatedSpeedMS = 26 }},
		{"negative cut-in", func(tb *Turbine) { tb.CutInMS = -1 }},
		{"negative rotor", func(tb *Turbine) { tb.RotorDiameterM = -1 }},
		{"negative curve point", func(tb *Turbine) { tb.Curve = []model.CurvePoint{{SpeedMS: 3, PowerKW: -1}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := utilityTurbine()
			tt.mutate(&tb)
			assert.ErrorIs(t, tb.Validate(), model.ErrInvalidInput)
		})
	}

	assert.NoError(t, utilityTurbine().Validate())
}

func TestPowerAt_Regions(t *testing.T) {
	tb := utilityTurbine()
	rho := 1.225

	assert.Equal(t, 0.0, tb.PowerAt(0, rho))
	assert.Equal(t, 0.0, tb.PowerAt(2.9, rho))
	assert.Equal(t, 2000.0, tb.PowerAt(12, rho))
	assert.Equal(t, 2000.0, tb.PowerAt(24.9, rho))
	assert.Equal(t, 0.0, tb.PowerAt(25, rho), "cut-out stops the turbine")
	assert.Equal(t, 0.0, tb.PowerAt(30, rho))

	// Cubic ramp halfway between cut-in and rated.
	assert.InDelta(t, 2000*0.125, tb.PowerAt(7.5, rho), 1e-9)
	assert.Equal(t, CurveCubic, tb.CurveSource())
}

func assertMonotonicRamp(t *testing.T, tb Turbine, rho float64) {
	t.Helper()
	prev := 0.0
	for v := tb.CutInMS; v < tb.CutOutMS; v += 0.25 {
		p := tb.PowerAt(v, rho)
		assert.GreaterOrEqual(t, p, prev, "v=%v", v)
		assert.LessOrEqual(t, p, tb.RatedPowerKW)
		prev = p
	}
}

func TestPowerAt_Physical(t *testing.T) {
	tb := smallTurbine()
	rho := 1.225
	area := math.Pi * 4

	assert.Equal(t, CurvePhysical, tb.CurveSource())
	assert.InDelta(t, 0.5*rho*area*0.35*216/1000, tb.PowerAt(6, rho), 1e-9)
	assert.Equal(t, 5.0, tb.PowerAt(12, rho))
	assertMonotonicRamp(t, tb, rho)
}

func TestPowerAt_PhysicalCapped(t *testing.T) {
	tb := Turbine{RatedPowerKW: 5, RotorDiameterM: 20, CutInMS: 3, RatedSpeedMS: 12, CutOutMS: 25}
	assert.Equal(t, 5.0, tb.PowerAt(8, 1.225))
}

func TestPowerAt_ManufacturerCurve(t *testing.T) {
	tb := utilityTurbine()
	tb.Curve = []model.CurvePoint{
		{SpeedMS: 12, PowerKW: 2000},
		{SpeedMS: 3, PowerKW: 0},
		{SpeedMS: 6, PowerKW: 400},
		{SpeedMS: 25, PowerKW: 2000},
	}

	assert.Equal(t, CurveManufacturer, tb.CurveSource())
	assert.InDelta(t, 200, tb.PowerAt(4.5, 1.225), 1e-9)
	assert.InDelta(t, 400, tb.PowerAt(6, 1.225), 1e-9)
	assert.InDelta(t, 1200, tb.PowerAt(9, 1.225), 1e-9)
	assert.Equal(t, 0.0, tb.PowerAt(25, 1.225))
}

func TestExpectedPowerKW(t *testing.T) {
	tb := utilityTurbine()

	t.Run("zero mean speed", func(t *testing.T) {
		assert.Equal(t, 0.0, ExpectedPowerKW(tb, 0, 2, 1.225, 0.5))
		assert.Equal(t, 0.0, ExpectedPowerKW(tb, -3, 2, 1.225, 0.5))
	})

	t.Run("within rated power", func(t *testing.T) {
		p := ExpectedPowerKW(tb, 7.5, 2, 1.225, 0.5)
		assert.Greater(t, p, 0.0)
		assert.Less(t, p, tb.RatedPowerKW)
	})

	t.Run("increases with wind speed", func(t *testing.T) {
		assert.Less(t, ExpectedPowerKW(tb, 5, 2, 1.225, 0.5), ExpectedPowerKW(tb, 8, 2, 1.225, 0.5))
	})

	t.Run("shape below one stays finite", func(t *testing.T) {
		p := ExpectedPowerKW(tb, 7.5, 0.8, 1.225, 0.5)
		assert.False(t, math.IsNaN(p))
		assert.False(t, math.IsInf(p, 0))
		assert.Greater(t, p, 0.0)
	})

	t.Run("step refinement converges", func(t *testing.T) {
		coarse := ExpectedPowerKW(tb, 7.5, 2, 1.225, 0.5)
		fine := ExpectedPowerKW(tb, 7.5, 2, 1.225, 0.05)
		assert.InEpsilon(t, fine, coarse, 0.02)
	})
}

func TestEstimate_UtilityScale(t *testing.T) {
	prod, err := Estimate(defaultInput(utilityTurbine(), 7.5))
	require.NoError(t, err)

	maxKWh := 2000 * hoursPerYear
	assert.Greater(t, prod.NetAnnualKWh, 0.0)
	assert.Less(t, prod.NetAnnualKWh, maxKWh)
	assert.Greater(t, prod.CapacityFactor, 0.0)
	assert.Less(t, prod.CapacityFactor, 1.0)
	assert.Equal(t, prod.CapacityFactorRaw, prod.CapacityFactor)
	assert.InDelta(t, prod.DailyKWh*365, prod.GrossAnnualKWh, 1e-6)
	assert.Equal(t, CurveCubic, prod.CurveSource)
}

func TestEstimate_ZeroWind(t *testing.T) {
	for _, mean := range []float64{0, -1, 1e-3} {
		prod, err := Estimate(defaultInput(utilityTurbine(), mean))
		require.NoError(t, err)
		assert.InDelta(t, 0, prod.NetAnnualKWh, 1e-9, "mean=%v", mean)
	}
}

func TestEstimate_SmallTurbine(t *testing.T) {
	prod, err := Estimate(defaultInput(smallTurbine(), 7.5))
	require.NoError(t, err)

	assert.Less(t, prod.NetAnnualKWh, 5*hoursPerYear)
	assert.Greater(t, prod.CapacityFactorRaw, 0.0)
	assert.Less(t, prod.CapacityFactorRaw, 1.0)
	assert.Equal(t, CurvePhysical, prod.CurveSource)
}

func TestEstimate_Losses(t *testing.T) {
	in := defaultInput(utilityTurbine(), 7.5)
	in.Losses = Losses{Wake: 0.08, Downtime: 0.04}

	prod, err := Estimate(in)
	require.NoError(t, err)
	assert.InDelta(t, 0.12, prod.LossFraction, 1e-12)
	assert.InDelta(t, prod.GrossAnnualKWh*0.88, prod.NetAnnualKWh, 1e-6)
}

func TestEstimate_HubHeightShear(t *testing.T) {
	low := defaultInput(utilityTurbine(), 6)
	low.Site.ReferenceHeightM = 10
	low.Site.HubHeightM = 10
	low.Site.ShearExponent = 0.143

	high := low
	high.Site.HubHeightM = 100

	pLow, err := Estimate(low)
	require.NoError(t, err)
	pHigh, err := Estimate(high)
	require.NoError(t, err)

	assert.InDelta(t, 6*math.Pow(10, 0.143), pHigh.HubSpeedMS, 1e-9)
	assert.Greater(t, pHigh.NetAnnualKWh, pLow.NetAnnualKWh)
}

func TestEstimate_DailySeries(t *testing.T) {
	in := defaultInput(utilityTurbine(), 7.5)
	in.Site.DailySpeedsMS = []float64{5, 7.5, 10}

	prod, err := Estimate(in)
	require.NoError(t, err)
	assert.Equal(t, 3, prod.DaysFromSeries)

	expected := 0.0
	for _, v := range in.Site.DailySpeedsMS {
		expected += ExpectedPowerKW(in.Turbine, v, 2, prod.AirDensity, DefaultStep) * 24
	}
	expected /= 3
	assert.InDelta(t, expected, prod.DailyKWh, 1e-9)
	assert.InDelta(t, expected*365, prod.GrossAnnualKWh, 1e-6)
}

func TestEstimate_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EstimateInput)
	}{
		{"cut-in above rated", func(in *EstimateInput) { in.Turbine.CutInMS = 13 }},
		{"zero shape", func(in *EstimateInput) { in.WeibullK = 0 }},
		{"negative hub", func(in *EstimateInput) { in.Site.HubHeightM = -10 }},
		{"negative day", func(in *EstimateInput) { in.Site.DailySpeedsMS = []float64{4, -1} }},
		{"wake above one", func(in *EstimateInput) { in.Losses.Wake = 1.5 }},
		{"nan mean", func(in *EstimateInput) { in.Site.MeanSpeedMS = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := defaultInput(utilityTurbine(), 7.5)
			tt.mutate(&in)
			_, err := Estimate(in)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestSeasonalSplit(t *testing.T) {
	north := SeasonalSplit(12000, false)
	south := SeasonalSplit(12000, true)

	var sumN, sumS float64
	for m := 0; m < 12; m++ {
		sumN += north[m]
		sumS += south[m]
	}
	assert.InDelta(t, 12000, sumN, 1e-6)
	assert.InDelta(t, 12000, sumS, 1e-6)
	assert.Greater(t, north[0], north[6], "northern winter is windier")
	assert.Greater(t, south[6], south[0])
}

func TestSite_Density(t *testing.T) {
	assert.Equal(t, 1.1, Site{AirDensity: 1.1}.Density())
	assert.InDelta(t, 1.225, Site{TemperatureC: 15}.Density(), 1e-3)
}

func TestLosses_Total(t *testing.T) {
	assert.InDelta(t, 0.12, Losses{Wake: 0.08, Downtime: 0.04}.Total(), 1e-12)
	assert.Equal(t, 1.0, Losses{Wake: 0.9, Downtime: 0.5}.Total())
	assert.Equal(t, 0.0, Losses{}.Total())
}

func TestEstimate_ZeroLossesKeepGross(t *testing.T) {
	prod, err := Estimate(EstimateInput{
		Turbine:  utilityTurbine(),
		Site:     Site{MeanSpeedMS: 7.5, TemperatureC: 15},
		WeibullK: 2,
	})
	require.NoError(t, err)
	assert.Greater(t, prod.NetAnnualKWh, 0.0)
	assert.Equal(t, prod.GrossAnnualKWh, prod.NetAnnualKWh)
	assert.Equal(t, 0.0, prod.LossFraction)
}
