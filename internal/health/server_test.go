package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/martingale-lab/internal/metrics"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func newTestServer(cfg Config) *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg.Logger = log
	if cfg.ServiceName == "" {
		cfg.ServiceName = "martingale-lab"
	}
	return NewServer(cfg)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNewServerDefaults(t *testing.T) {
	t.Setenv("HEALTH_PORT", "")
	s := NewServer(Config{})
	assert.Equal(t, "8080", s.port)
	assert.Equal(t, "/metrics", s.metricsPath)
	assert.NotNil(t, s.logger)
	assert.False(t, s.IsReady())

	t.Setenv("HEALTH_PORT", "9191")
	assert.Equal(t, "9191", NewServer(Config{}).port)
}

func TestHealthAndLive(t *testing.T) {
	s := newTestServer(Config{Version: "1.2.0"})

	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "martingale-lab", body.Service)
	assert.Equal(t, "1.2.0", body.Version)
	assert.NotEmpty(t, body.Timestamp)

	assert.Equal(t, http.StatusOK, get(t, s, "/live").Code)
}

func TestReady(t *testing.T) {
	tests := []struct {
		name     string
		ready    bool
		db       DatabasePinger
		wantCode int
		wantDB   string
	}{
		{"not marked ready", false, nil, http.StatusServiceUnavailable, ""},
		{"ready without database", true, nil, http.StatusOK, ""},
		{"ready with healthy database", true, fakePinger{}, http.StatusOK, "ok"},
		{"database down", true, fakePinger{err: errors.New("refused")}, http.StatusServiceUnavailable, "error: refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(Config{DB: tt.db})
			s.SetReady(tt.ready)

			rec := get(t, s, "/ready")
			assert.Equal(t, tt.wantCode, rec.Code)

			var body ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantDB, body.Checks["database"])
		})
	}
}

func TestStatus(t *testing.T) {
	s := newTestServer(Config{})
	assert.Equal(t, http.StatusNotFound, get(t, s, "/status").Code)

	s = newTestServer(Config{Status: func() interface{} {
		return map[string]int{"rows": 8}
	}})
	rec := get(t, s, "/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rows":8}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.InitRegistry()
	metrics.RecordCacheLookup(true)

	s := newTestServer(Config{MetricsPath: "/prom"})
	rec := get(t, s, "/prom")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "martingale_season_cache_requests_total")
}

func TestShutdownWithoutStart(t *testing.T) {
	s := newTestServer(Config{})
	assert.NoError(t, s.Shutdown())
}
