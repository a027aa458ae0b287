package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(initial, annual float64, years int) []float64 {
	flows := make([]float64, years+1)
	flows[0] = initial
	for i := 1; i <= years; i++ {
		flows[i] = annual
	}
	return flows
}

func TestNPV(t *testing.T) {
	t.Run("zero rate is the sum", func(t *testing.T) {
		assert.InDelta(t, 15000, NPV(0, flat(-10000, 1000, 25)), 1e-9)
	})

	t.Run("discounting", func(t *testing.T) {
		flows := []float64{-100, 110}
		assert.InDelta(t, 0, NPV(0.10, flows), 1e-12)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0.0, NPV(0.05, nil))
	})
}

func TestNPVDerivative(t *testing.T) {
	flows := []float64{-1000, 300, 400, 500}
	r := 0.07
	h := 1e-6
	numeric := (NPV(r+h, flows) - NPV(r-h, flows)) / (2 * h)
	assert.InDelta(t, numeric, NPVDerivative(r, flows), 1e-4)
}

func TestIRR_NPVConsistency(t *testing.T) {
	series := map[string][]float64{
		"flat":           flat(-10000, 1000, 25),
		"short":          {-100, 60, 60},
		"growing":        {-5000, 200, 400, 800, 1600, 3200},
		"negative later": {-1000, 800, -100, 600},
		"high return":    {-100, 500},
		"low return":     {-1000, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20},
	}

	for name, flows := range series {
		t.Run(name, func(t *testing.T) {
			res := IRR(flows)
			require.Equal(t, IRRConverged, res.Status)
			assert.InDelta(t, 0, NPV(res.Rate, flows), 1e-4)
		})
	}
}

func TestIRR_KnownValue(t *testing.T) {
	res := IRR([]float64{-100, 110})
	require.Equal(t, IRRConverged, res.Status)
	assert.InDelta(t, 0.10, res.Rate, 1e-7)
}

func TestIRR_NotApplicable(t *testing.T) {
	assert.Equal(t, IRRNotApplicable, IRR([]float64{100, 200, 300}).Status)
	assert.Equal(t, IRRNotApplicable, IRR([]float64{0, 200}).Status)
	assert.Equal(t, IRRNotApplicable, IRR([]float64{-100}).Status)
	assert.Equal(t, IRRNotApplicable, IRR(nil).Status)
}

func TestIRR_TotalLoss(t *testing.T) {
	tests := map[string][]float64{
		"all negative":        {-1000, -10, -10},
		"tiny return":         {-1000, 5, 5},
		"exactly one percent": {-1000, 10},
	}

	for name, flows := range tests {
		t.Run(name, func(t *testing.T) {
			res := IRR(flows)
			assert.Equal(t, IRRTotalLoss, res.Status)
			assert.Equal(t, -0.99, res.Rate)
		})
	}
}

func TestIRR_StaysInBounds(t *testing.T) {
	res := IRR([]float64{-1, 1e6})
	assert.LessOrEqual(t, res.Rate, 100.0)
	assert.GreaterOrEqual(t, res.Rate, -0.999)
	assert.False(t, math.IsNaN(res.Rate))
}

func TestIRRFrom_Guess(t *testing.T) {
	flows := flat(-10000, 1000, 25)
	a := IRRFrom(flows, 0.01)
	b := IRRFrom(flows, 0.3)
	require.Equal(t, IRRConverged, a.Status)
	require.Equal(t, IRRConverged, b.Status)
	assert.InDelta(t, a.Rate, b.Rate, 1e-6)
}

func TestPayback_Scenario(t *testing.T) {
	res := Payback(flat(-10000, 1000, 25))
	require.Equal(t, PaybackReached, res.Status)
	assert.Equal(t, 10.0, res.Years)
}

func TestPayback_Fractional(t *testing.T) {
	res := Payback([]float64{-1000, 400, 400, 400})
	require.Equal(t, PaybackReached, res.Status)
	assert.InDelta(t, 2.5, res.Years, 1e-12)
}

func TestPayback_BeyondHorizon(t *testing.T) {
	res := Payback(flat(-10000, 100, 25))
	assert.Equal(t, PaybackBeyondHorizon, res.Status)
}

func TestPayback_NotApplicable(t *testing.T) {
	assert.Equal(t, PaybackNotApplicable, Payback([]float64{500, 100}).Status)
	assert.Equal(t, PaybackNotApplicable, Payback(nil).Status)
}

func TestPayback_Monotonic(t *testing.T) {
	base := []float64{-10000, 500, 800, -200, 1200, 1500, 1500, 1800, 2000, 2000, 2200}
	prev := Payback(base)
	require.Equal(t, PaybackReached, prev.Status)

	for step := 1; step <= 10; step++ {
		bumped := make([]float64, len(base))
		copy(bumped, base)
		for i := 1; i < len(bumped); i++ {
			if bumped[i] > 0 {
				bumped[i] += float64(step) * 150
			}
		}
		res := Payback(bumped)
		require.Equal(t, PaybackReached, res.Status)
		assert.LessOrEqual(t, res.Years, prev.Years)
		prev = res
	}
}

func TestROI(t *testing.T) {
	res := ROI(flat(-10000, 1000, 25))
	assert.True(t, res.Applicable)
	assert.InDelta(t, 150, res.Percent, 1e-9)

	assert.False(t, ROI([]float64{100, 100}).Applicable)
	assert.False(t, ROI(nil).Applicable)
}

func TestLCOE(t *testing.T) {
	t.Run("undiscounted", func(t *testing.T) {
		res := LCOE(1000, []float64{100, 100}, []float64{1000, 1000}, 0)
		assert.InDelta(t, 0.6, res.Technical, 1e-12)
		assert.InDelta(t, 0.6, res.Discounted, 1e-12)
	})

	t.Run("discounting raises cost per kwh", func(t *testing.T) {
		res := LCOE(1000, []float64{100, 100}, []float64{1000, 1000}, 0.05)
		assert.Greater(t, res.Discounted, res.Technical)
	})

	t.Run("no energy", func(t *testing.T) {
		res := LCOE(1000, nil, []float64{0, 0}, 0.05)
		assert.Equal(t, 0.0, res.Technical)
		assert.Equal(t, 0.0, res.Discounted)
	})
}

func TestNominalRate(t *testing.T) {
	assert.InDelta(t, 0.0657, NominalRate(0.05, 0.015), 1e-4)
	assert.InDelta(t, 0.05, NominalRate(0.05, 0), 1e-12)
}
