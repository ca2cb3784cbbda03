package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRegistryIsIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()
	assert.Same(t, first, second)
	assert.Same(t, first, GetRegistry())
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(PredictionsTotal)

	RecordPrediction(0.12)

	assert.Equal(t, before+1, testutil.ToFloat64(PredictionsTotal))
}

func TestUpdateFactorCacheStats(t *testing.T) {
	InitRegistry()

	UpdateFactorCacheStats(90, 10, 42)

	assert.Equal(t, 90.0, testutil.ToFloat64(FactorCacheHits))
	assert.Equal(t, 10.0, testutil.ToFloat64(FactorCacheMisses))
	assert.Equal(t, 42.0, testutil.ToFloat64(FactorCacheSize))
}

func TestRecordSimulationRun(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(SimulationRunsTotal.WithLabelValues("show"))

	RecordSimulationRun("show", 0.83)

	assert.Equal(t, before+1, testutil.ToFloat64(SimulationRunsTotal.WithLabelValues("show")))
	assert.Equal(t, 0.83, testutil.ToFloat64(SimulationReturnRate.WithLabelValues("show")))
}

func TestRecordBacktestProgress(t *testing.T) {
	InitRegistry()
	races := testutil.ToFloat64(BacktestRacesTotal)
	skipped := testutil.ToFloat64(BacktestRacesSkippedTotal)
	retrains := testutil.ToFloat64(BacktestRetrainsTotal)

	RecordBacktestProgress(120, 3, 6)

	assert.Equal(t, races+120, testutil.ToFloat64(BacktestRacesTotal))
	assert.Equal(t, skipped+3, testutil.ToFloat64(BacktestRacesSkippedTotal))
	assert.Equal(t, retrains+6, testutil.ToFloat64(BacktestRetrainsTotal))
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordPrediction(0.05)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "keiba_predictions_total")
}
