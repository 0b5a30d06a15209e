// Package scheduler runs parameter sweeps on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/martingale-lab/internal/service"
)

// SweepRunner runs the configured sweep
type SweepRunner interface {
	RunConfigured(ctx context.Context) (*service.SweepSummary, error)
}

// Scheduler manages scheduled sweep jobs
type Scheduler struct {
	cron            *cron.Cron
	runner          SweepRunner
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(runner SweepRunner, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		runner:          runner,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleSweep schedules the configured sweep. A zero timeout means no limit.
func (s *Scheduler) ScheduleSweep(cronExpression string, timeout time.Duration) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return 0, fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if s.runner == nil {
		return 0, fmt.Errorf("sweep runner is required")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() { s.runSweep(timeout) })
	if err != nil {
		return 0, fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled sweep job")

	return entryID, nil
}

func (s *Scheduler) runSweep(timeout time.Duration) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	s.logger.Info("Starting scheduled sweep")
	summary, err := s.runner.RunConfigured(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled sweep failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"run_id":   summary.RunID,
		"mode":     summary.Mode,
		"rows":     summary.Rows,
		"failures": summary.Failures,
	}).Info("Scheduled sweep completed")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running jobs up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopped := s.cron.Stop()
	s.isRunning = false

	select {
	case <-stopped.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	for i, id := range s.jobIDs {
		if id == jobID {
			s.jobIDs = append(s.jobIDs[:i], s.jobIDs[i+1:]...)
			break
		}
	}
	s.logger.WithField("job_id", jobID).Info("Removed job")

	return nil
}
