package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewable_simulator/internal/model"
)

func TestObserveSimulation_Outcomes(t *testing.T) {
	m := New()
	ok := model.Result{Summary: model.Summary{IRR: model.Indicator{Status: model.StatusConverged}}}

	m.ObserveSimulation(model.TechnologyWind, 10*time.Millisecond, ok, nil)
	m.ObserveSimulation(model.TechnologyWind, time.Millisecond, model.Result{}, model.Invalid("x", "bad"))
	m.ObserveSimulation(model.TechnologySolar, time.Millisecond, model.Result{}, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.simulations.WithLabelValues("wind", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.simulations.WithLabelValues("wind", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.simulations.WithLabelValues("solar", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.irrStatus.WithLabelValues(model.StatusConverged)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestObserveCacheAndCandidates(t *testing.T) {
	m := New()
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)
	m.AddCandidates(35)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheHits.WithLabelValues("miss")))
	assert.Equal(t, 35.0, testutil.ToFloat64(m.candidates))
}

func TestRegister_ServesMetrics(t *testing.T) {
	m := New()
	m.AddCandidates(3)
	mux := http.NewServeMux()
	m.Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "renewsim_optimizer_candidates_total 3"))
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.AddCandidates(1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.candidates))
}
