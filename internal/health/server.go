// Package health provides a lightweight HTTP server for health checks, metrics and sweep status.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/martingale-lab/internal/metrics"
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// StatusFunc reports the current simulator status for the /status endpoint.
type StatusFunc func() interface{}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Server is a lightweight HTTP server for health check endpoints.
type Server struct {
	serviceName string
	version     string
	port        string
	metricsPath string
	server      *http.Server
	logger      *logrus.Logger
	db          DatabasePinger
	status      StatusFunc
	mu          sync.RWMutex
	ready       bool
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Port        string
	MetricsPath string
	Logger      *logrus.Logger
	DB          DatabasePinger
	Status      StatusFunc
}

// NewServer creates a new health check server.
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == "" {
		port = os.Getenv("HEALTH_PORT")
	}
	if port == "" {
		port = "8080"
	}
	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}

	return &Server{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		port:        port,
		metricsPath: metricsPath,
		logger:      log,
		db:          cfg.DB,
		status:      cfg.Status,
	}
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Handler returns the routes served by the health server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/status", s.handleStatus)
	mux.Handle(s.metricsPath, metrics.Handler())
	return mux
}

// Start starts the health check server in the background.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithFields(logrus.Fields{
			"port":    s.port,
			"service": s.serviceName,
		}).Info("Health check server starting")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Health check server error")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.logger.WithError(err).Warn("Health check server shutdown failed")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the health check server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("Health check server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// handleHealth handles the /health endpoint - basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
	})
}

// handleLive handles the /live endpoint - kubernetes liveness check.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.serviceName,
	})
}

// handleReady handles the /ready endpoint - checks database connectivity.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	allHealthy := true

	if !s.IsReady() {
		allHealthy = false
		checks["service"] = "not_ready"
	} else {
		checks["service"] = "ok"
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := s.db.Ping(ctx); err != nil {
			allHealthy = false
			checks["database"] = fmt.Sprintf("error: %v", err)
		} else {
			checks["database"] = "ok"
		}
	}

	response := ReadyResponse{
		Service:  s.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}

	code := http.StatusOK
	response.Status = "ok"
	if !allHealthy {
		code = http.StatusServiceUnavailable
		response.Status = "not_ready"
	}
	s.writeJSON(w, code, response)
}

// handleStatus handles the /status endpoint - last sweep summary.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.status == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Warn("Failed to encode health response")
	}
}
