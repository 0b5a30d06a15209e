// Package logger provides simulation-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SimulationLogger provides dedicated logging for staking simulations and sweeps.
type SimulationLogger struct {
	*logrus.Entry
}

// NewSimulationLogger creates a new simulation logger.
func NewSimulationLogger(baseLogger *logrus.Logger) *SimulationLogger {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	return &SimulationLogger{
		Entry: baseLogger.WithField("component", "simulation"),
	}
}

// LogSeasonSimulated logs the outcome of one team-season run.
func (sl *SimulationLogger) LogSeasonSimulated(seasonID, policy string, games, wins, refills int, finalEarnings float64) {
	sl.WithFields(logrus.Fields{
		"season_id":      seasonID,
		"policy":         policy,
		"games":          games,
		"wins":           wins,
		"refills":        refills,
		"final_earnings": finalEarnings,
	}).Debug("Season simulated")
}

// LogRefill logs a forced balance refill.
func (sl *SimulationLogger) LogRefill(seasonID string, game int, balanceBefore, balanceAfter, bet float64) {
	sl.WithFields(logrus.Fields{
		"season_id":      seasonID,
		"game":           game,
		"event_type":     "refill",
		"balance_before": balanceBefore,
		"balance_after":  balanceAfter,
		"bet":            bet,
	}).Trace("Balance refilled")
}

// LogCombinationCompleted logs a finished parameter combination.
func (sl *SimulationLogger) LogCombinationCompleted(mode string, baseBet, startBalance, refill float64, rows int) {
	sl.WithFields(logrus.Fields{
		"sweep_mode":    mode,
		"base_bet":      baseBet,
		"start_balance": startBalance,
		"refill":        refill,
		"rows":          rows,
	}).Debug("Parameter combination completed")
}

// LogCombinationFailed logs a parameter combination that was skipped.
func (sl *SimulationLogger) LogCombinationFailed(mode string, baseBet, startBalance, refill float64, err error) {
	sl.WithFields(logrus.Fields{
		"sweep_mode":    mode,
		"base_bet":      baseBet,
		"start_balance": startBalance,
		"refill":        refill,
		"event_type":    "combination_failed",
	}).WithError(err).Warn("Parameter combination failed")
}

// LogSeasonFailed logs a team-season left out of a parameter combination.
func (sl *SimulationLogger) LogSeasonFailed(mode, seasonID string, baseBet, startBalance, refill float64, err error) {
	sl.WithFields(logrus.Fields{
		"sweep_mode":    mode,
		"season_id":     seasonID,
		"base_bet":      baseBet,
		"start_balance": startBalance,
		"refill":        refill,
		"event_type":    "season_failed",
	}).WithError(err).Warn("Team-season skipped")
}

// LogSweepCompleted logs the end of a grid search.
func (sl *SimulationLogger) LogSweepCompleted(runID, mode string, combinations, failures, rows int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"run_id":       runID,
		"sweep_mode":   mode,
		"combinations": combinations,
		"failures":     failures,
		"rows":         rows,
		"duration_ms":  durationMs,
	}).Info("Grid search complete")
}
