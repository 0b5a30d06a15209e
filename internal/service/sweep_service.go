// Package service wires the engine, sweeper, exporter and repository into runnable workflows.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/martingale-lab/internal/backtest"
	"github.com/yourusername/martingale-lab/internal/models"
	"github.com/yourusername/martingale-lab/internal/repository"
)

// Report names used for sweep exports
const (
	ReportTeamSweep   = "grid_search_team"
	ReportSeasonSweep = "grid_search_season"
)

// SweepSummary describes the outcome of a sweep
type SweepSummary struct {
	RunID          uuid.UUID        `json:"run_id"`
	Mode           models.SweepMode `json:"mode"`
	Policy         models.Policy    `json:"policy"`
	Combinations   int              `json:"combinations"`
	Rows           int              `json:"rows"`
	Failures       int              `json:"failures"`
	SeasonFailures int              `json:"season_failures"`
	BestTestStat   *float64         `json:"best_test_stat,omitempty"`
	Files          []string         `json:"files,omitempty"`
	Persisted      bool             `json:"persisted"`
	StartedAt      time.Time        `json:"started_at"`
	FinishedAt     time.Time        `json:"finished_at"`
}

// SweepService runs grid searches and hands results to exporters and storage
type SweepService struct {
	engine   *backtest.Engine
	sweeper  *backtest.Sweeper
	exporter *backtest.Exporter
	repo     repository.SweepRunRepository
	logger   *logrus.Logger

	mu   sync.RWMutex
	last *SweepSummary
}

// NewSweepService creates a sweep service. exporter and repo may be nil.
func NewSweepService(engine *backtest.Engine, exporter *backtest.Exporter, repo repository.SweepRunRepository) *SweepService {
	return &SweepService{
		engine:   engine,
		sweeper:  backtest.NewSweeper(engine),
		exporter: exporter,
		repo:     repo,
		logger:   engine.Logger(),
	}
}

// RunConfigured runs the sweep described by the engine configuration
func (s *SweepService) RunConfigured(ctx context.Context) (*SweepSummary, error) {
	cfg := s.engine.Config()
	switch cfg.Mode {
	case models.SweepModeTeam:
		if _, err := s.RunTeam(ctx, cfg.Datasets, cfg.Grid, cfg.SweepOptions()); err != nil {
			return nil, err
		}
	case models.SweepModeSeason:
		if _, err := s.RunSeason(ctx, cfg.Datasets, cfg.Grid, cfg.SweepOptions()); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown sweep mode %q", models.ErrInvalidParameter, cfg.Mode)
	}

	summary, _ := s.LastRun()
	return &summary, nil
}

// RunTeam runs a per-team sweep, then exports and stores the rows
func (s *SweepService) RunTeam(ctx context.Context, ids []string, grid backtest.ParameterGrid, opts backtest.SweepOptions) (*backtest.TeamSweepResult, error) {
	result, err := s.sweeper.ByTeam(ctx, ids, grid, opts)
	if err != nil {
		return nil, fmt.Errorf("team sweep failed: %w", err)
	}

	summary := newSummary(result.Run, len(result.Rows), len(result.SeasonFailures))
	if s.exporter != nil {
		files, err := s.exporter.Export(ReportTeamSweep, backtest.GridSearchTable(result.Rows))
		if err != nil {
			return nil, err
		}
		summary.Files = files
	}
	if s.repo != nil {
		if err := s.repo.SaveTeamSweep(ctx, &result.Run, result.Rows); err != nil {
			return nil, fmt.Errorf("failed to store sweep %s: %w", result.Run.ID, err)
		}
		summary.Persisted = true
	}

	s.record(summary)
	return result, nil
}

// RunSeason runs a per-season statistics sweep, then exports and stores the rows
func (s *SweepService) RunSeason(ctx context.Context, ids []string, grid backtest.ParameterGrid, opts backtest.SweepOptions) (*backtest.SeasonSweepResult, error) {
	result, err := s.sweeper.BySeason(ctx, ids, grid, opts)
	if err != nil {
		return nil, fmt.Errorf("season sweep failed: %w", err)
	}

	summary := newSummary(result.Run, len(result.Rows), len(result.SeasonFailures))
	if best, ok := result.Best(); ok {
		stat := best.TestStat
		summary.BestTestStat = &stat
	}
	if s.exporter != nil {
		files, err := s.exporter.Export(ReportSeasonSweep, backtest.GridStatsTable(result.Rows))
		if err != nil {
			return nil, err
		}
		summary.Files = files
	}
	if s.repo != nil {
		if err := s.repo.SaveSeasonSweep(ctx, &result.Run, result.Rows); err != nil {
			return nil, fmt.Errorf("failed to store sweep %s: %w", result.Run.ID, err)
		}
		summary.Persisted = true
	}

	s.record(summary)
	return result, nil
}

// LastRun returns the summary of the most recent successful sweep
func (s *SweepService) LastRun() (SweepSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return SweepSummary{}, false
	}
	return *s.last, true
}

// Status reports the last sweep for the health server
func (s *SweepService) Status() interface{} {
	summary, ok := s.LastRun()
	if !ok {
		return map[string]string{"status": "no sweep has completed"}
	}
	return summary
}

func (s *SweepService) record(summary *SweepSummary) {
	s.mu.Lock()
	s.last = summary
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"run_id":    summary.RunID,
		"rows":      summary.Rows,
		"failures":  summary.Failures,
		"skipped":   summary.SeasonFailures,
		"files":     len(summary.Files),
		"persisted": summary.Persisted,
	}).Info("Sweep results published")
}

func newSummary(run models.SweepRun, rows, seasonFailures int) *SweepSummary {
	return &SweepSummary{
		RunID:          run.ID,
		Mode:           run.Mode,
		Policy:         run.Policy,
		Combinations:   run.Combinations,
		Rows:           rows,
		Failures:       run.Failures,
		SeasonFailures: seasonFailures,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
	}
}
