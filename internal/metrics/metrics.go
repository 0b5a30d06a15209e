// Package metrics provides the Prometheus registry for the simulator.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "martingale"

var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SimulationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_runs_total",
		Help:      "Total number of team-season simulations by policy and status",
	}, []string{"policy", "status"})
	GamesSimulatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_simulated_total",
		Help:      "Total number of games replayed by the staking engine",
	})
	RefillsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refills_total",
		Help:      "Total number of forced balance refills by policy",
	}, []string{"policy"})
	SeasonCacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "season_cache_requests_total",
		Help:      "Season cache lookups by result",
	}, []string{"result"})
)

// Gauge metrics
var (
	SeasonCacheItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "season_cache_items",
		Help:      "Number of team-seasons currently cached",
	})
)

// Histogram metrics
var (
	FinalEarnings = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "final_earnings",
		Help:      "Final cumulative earnings of simulated team-seasons",
		Buckets:   []float64{-500, -200, -100, -50, -20, 0, 20, 50, 100, 200, 500},
	}, []string{"policy"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(SimulationRunsTotal)
		registry.MustRegister(GamesSimulatedTotal)
		registry.MustRegister(RefillsTotal)
		registry.MustRegister(SeasonCacheRequestsTotal)

		registry.MustRegister(SeasonCacheItems)

		registry.MustRegister(FinalEarnings)

		registry.MustRegister(SweepCombinationsTotal)
		registry.MustRegister(SweepSeasonFailuresTotal)
		registry.MustRegister(SweepDuration)
		registry.MustRegister(SweepBestTestStat)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSimulation records one team-season simulation.
// status should be one of: "success", "failure"
func RecordSimulation(policy, status string, games, refills int, finalEarnings float64) {
	SimulationRunsTotal.WithLabelValues(policy, status).Inc()
	if status != "success" {
		return
	}
	GamesSimulatedTotal.Add(float64(games))
	RefillsTotal.WithLabelValues(policy).Add(float64(refills))
	FinalEarnings.WithLabelValues(policy).Observe(finalEarnings)
}

// RecordCacheLookup records a season cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		SeasonCacheRequestsTotal.WithLabelValues("hit").Inc()
		return
	}
	SeasonCacheRequestsTotal.WithLabelValues("miss").Inc()
}

// UpdateCacheItems updates the cached season gauge.
func UpdateCacheItems(count int) {
	SeasonCacheItems.Set(float64(count))
}
