package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGamma(t *testing.T) {
	tests := []struct {
		name     string
		z        float64
		expected float64
	}{
		{"one", 1, 1},
		{"two", 2, 1},
		{"five", 5, 24},
		{"half", 0.5, math.Sqrt(math.Pi)},
		{"small", 0.1, 9.513507698668732},
		{"one and a half", 1.5, math.Sqrt(math.Pi) / 2},
		{"rayleigh shape", 1.5, 0.886226925452758},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InEpsilon(t, tt.expected, Gamma(tt.z), 1e-9)
		})
	}
}

func TestGamma_MatchesStdlib(t *testing.T) {
	for z := 0.05; z < 20; z += 0.37 {
		assert.InEpsilon(t, math.Gamma(z), Gamma(z), 1e-9, "z=%v", z)
	}
}

func TestWeibullPDF(t *testing.T) {
	t.Run("negative speed", func(t *testing.T) {
		assert.Equal(t, 0.0, WeibullPDF(-1, 2, 8))
	})

	t.Run("rayleigh closed form", func(t *testing.T) {
		v, lambda := 6.0, 8.0
		expected := (2 / lambda) * (v / lambda) * math.Exp(-(v/lambda)*(v/lambda))
		assert.InDelta(t, expected, WeibullPDF(v, 2, lambda), 1e-12)
	})

	t.Run("integrates to one", func(t *testing.T) {
		var sum float64
		step := 0.01
		for v := 0.0; v < 60; v += step {
			sum += WeibullPDF(v, 2, 8) * step
		}
		assert.InDelta(t, 1.0, sum, 1e-3)
	})

	t.Run("degenerate parameters", func(t *testing.T) {
		assert.Equal(t, 0.0, WeibullPDF(5, 0, 8))
		assert.Equal(t, 0.0, WeibullPDF(5, 2, 0))
	})
}

func TestWeibullScale(t *testing.T) {
	// For k=2, Γ(1.5) ≈ 0.8862, so λ ≈ mean / 0.8862.
	assert.InDelta(t, 7.5/0.886226925452758, WeibullScale(7.5, 2), 1e-9)
	assert.Equal(t, 0.0, WeibullScale(0, 2))
	assert.Equal(t, 0.0, WeibullScale(-3, 2))
}

func TestNewtonRaphson(t *testing.T) {
	t.Run("square root of two", func(t *testing.T) {
		f := func(x float64) float64 { return x*x - 2 }
		df := func(x float64) float64 { return 2 * x }
		res := NewtonRaphson(f, df, 1, DefaultNewtonOptions())
		require.True(t, res.Converged)
		assert.InDelta(t, math.Sqrt2, res.Root, 1e-7)
		assert.Greater(t, res.Iterations, 0)
	})

	t.Run("flat derivative stops", func(t *testing.T) {
		f := func(x float64) float64 { return 1 }
		df := func(x float64) float64 { return 0 }
		res := NewtonRaphson(f, df, 3, DefaultNewtonOptions())
		assert.False(t, res.Converged)
		assert.Equal(t, 3.0, res.Root)
	})

	t.Run("no root returns last iterate", func(t *testing.T) {
		f := func(x float64) float64 { return x*x + 1 }
		df := func(x float64) float64 { return 2 * x }
		res := NewtonRaphson(f, df, 0.5, NewtonOptions{Tol: 1e-10, MaxIter: 50})
		assert.False(t, res.Converged)
		assert.False(t, math.IsNaN(res.Root))
		assert.False(t, math.IsInf(res.Root, 0))
	})

	t.Run("bounds clamp iterates", func(t *testing.T) {
		f := func(x float64) float64 { return math.Exp(x) - 1e6 }
		df := func(x float64) float64 { return math.Exp(x) }
		res := NewtonRaphson(f, df, -50, NewtonOptions{Tol: 1e-9, MaxIter: 5, Lower: -1, Upper: 2})
		assert.GreaterOrEqual(t, res.Root, -1.0)
		assert.LessOrEqual(t, res.Root, 2.0)
	})

	t.Run("max step", func(t *testing.T) {
		f := func(x float64) float64 { return x - 100 }
		df := func(x float64) float64 { return 1 }
		res := NewtonRaphson(f, df, 0, NewtonOptions{Tol: 1e-9, MaxIter: 3, MaxStep: 10})
		assert.False(t, res.Converged)
		assert.InDelta(t, 30.0, res.Root, 1e-12)
	})
}

func TestShearPowerLaw(t *testing.T) {
	assert.InDelta(t, 5*math.Pow(8, 0.143), ShearPowerLaw(5, 10, 80, 0.143), 1e-12)
	assert.Equal(t, 5.0, ShearPowerLaw(5, 10, 0, 0.143))
	assert.Equal(t, 5.0, ShearPowerLaw(5, 10, -3, 0.143))
	assert.Equal(t, 5.0, ShearPowerLaw(5, 10, 10, 0.143))
}

func TestShearLogLaw(t *testing.T) {
	v := ShearLogLaw(5, 10, 80, 0.03)
	assert.InDelta(t, 5*math.Log(80/0.03)/math.Log(10/0.03), v, 1e-12)
	assert.Greater(t, v, 5.0)
	assert.Equal(t, 5.0, ShearLogLaw(5, 10, 0, 0.03))
	assert.Equal(t, 5.0, ShearLogLaw(5, 10, 80, 0))
}

func TestAirDensity(t *testing.T) {
	t.Run("sea level standard day", func(t *testing.T) {
		assert.InDelta(t, 1.225, AirDensity(0, 15), 1e-3)
	})

	t.Run("decreases with altitude", func(t *testing.T) {
		assert.Less(t, AirDensity(1500, 15), AirDensity(0, 15))
	})

	t.Run("colder is denser", func(t *testing.T) {
		assert.Greater(t, AirDensity(0, -10), AirDensity(0, 30))
	})

	t.Run("fallback when temperature aloft is not positive", func(t *testing.T) {
		assert.Equal(t, SeaLevelDensity, AirDensity(50000, 15))
	})

	t.Run("from pressure", func(t *testing.T) {
		assert.InDelta(t, 1.225, AirDensityFromPressure(101325, 15), 1e-3)
		assert.Equal(t, SeaLevelDensity, AirDensityFromPressure(0, 15))
	})
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.6, Clamp(0.2, 0.6, 1))
	assert.Equal(t, 1.0, Clamp(1.4, 0.6, 1))
	assert.Equal(t, 0.8, Clamp(0.8, 0.6, 1))
}

func TestNewtonRaphson_PinnedAtBound(t *testing.T) {
	f := func(x float64) float64 { return x - 10 }
	df := func(x float64) float64 { return 1 }
	res := NewtonRaphson(f, df, 0, NewtonOptions{Tol: 1e-9, MaxIter: 10, Lower: -1, Upper: 2})
	assert.False(t, res.Converged)
	assert.Equal(t, 2.0, res.Root)
}
