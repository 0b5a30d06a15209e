package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordSimulation(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(SimulationRunsTotal.WithLabelValues("martingale", "success"))
	refillsBefore := testutil.ToFloat64(RefillsTotal.WithLabelValues("martingale"))

	RecordSimulation("martingale", "success", 162, 3, 12.5)

	assert.Equal(t, before+1, testutil.ToFloat64(SimulationRunsTotal.WithLabelValues("martingale", "success")))
	assert.Equal(t, refillsBefore+3, testutil.ToFloat64(RefillsTotal.WithLabelValues("martingale")))
}

func TestRecordSimulationFailureSkipsOutcome(t *testing.T) {
	InitRegistry()

	games := testutil.ToFloat64(GamesSimulatedTotal)
	RecordSimulation("baseline", "failure", 10, 0, 0)

	assert.Equal(t, games, testutil.ToFloat64(GamesSimulatedTotal))
}

func TestRecordCacheLookup(t *testing.T) {
	InitRegistry()

	hits := testutil.ToFloat64(SeasonCacheRequestsTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(SeasonCacheRequestsTotal.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(SeasonCacheRequestsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(SeasonCacheRequestsTotal.WithLabelValues("miss")))
}

func TestSweepMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordSweepCombination("season", "success")
		RecordSweepDuration("season", 0.25)
		UpdateBestTestStat("martingale", 0.42)
		UpdateCacheItems(60)
	})
	assert.Equal(t, 0.42, testutil.ToFloat64(SweepBestTestStat.WithLabelValues("martingale")))
	assert.Equal(t, 60.0, testutil.ToFloat64(SeasonCacheItems))
}

func TestRecordSweepSeasonFailure(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(SweepSeasonFailuresTotal.WithLabelValues("team"))
	RecordSweepSeasonFailure("team")
	RecordSweepSeasonFailure("team")

	assert.Equal(t, before+2, testutil.ToFloat64(SweepSeasonFailuresTotal.WithLabelValues("team")))
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()
	RecordSweepCombination("team", "success")

	handler := Handler()
	require.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "martingale_sweep_combinations_total")
}

func BenchmarkRecordSimulation(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordSimulation("martingale", "success", 162, 1, 10)
	}
}
