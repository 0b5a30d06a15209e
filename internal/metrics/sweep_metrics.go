// Package metrics defines grid-search-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Sweep counter vectors
var (
	SweepCombinationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_combinations_total",
		Help:      "Parameter combinations evaluated by sweep mode and status",
	}, []string{"mode", "status"})
	SweepSeasonFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_season_failures_total",
		Help:      "Team-seasons left out of a parameter combination by sweep mode",
	}, []string{"mode"})
)

// Sweep histograms
var (
	SweepDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sweep_duration_seconds",
		Help:      "Duration of complete grid searches in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"mode"})
)

// Sweep gauges
var (
	SweepBestTestStat = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sweep_best_test_stat",
		Help:      "Highest mean/stdev test statistic found by the last season sweep",
	}, []string{"policy"})
)

// RecordSweepCombination records one evaluated parameter combination.
// status should be one of: "success", "failure"
func RecordSweepCombination(mode, status string) {
	SweepCombinationsTotal.WithLabelValues(mode, status).Inc()
}

// RecordSweepSeasonFailure records one team-season skipped within a combination.
func RecordSweepSeasonFailure(mode string) {
	SweepSeasonFailuresTotal.WithLabelValues(mode).Inc()
}

// RecordSweepDuration records how long a sweep took.
func RecordSweepDuration(mode string, durationSeconds float64) {
	SweepDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// UpdateBestTestStat updates the best test statistic gauge.
func UpdateBestTestStat(policy string, value float64) {
	SweepBestTestStat.WithLabelValues(policy).Set(value)
}
