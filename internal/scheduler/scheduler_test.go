package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/martingale-lab/internal/models"
	"github.com/yourusername/martingale-lab/internal/service"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) RunConfigured(ctx context.Context) (*service.SweepSummary, error) {
	args := m.Called(ctx)
	summary, _ := args.Get(0).(*service.SweepSummary)
	return summary, args.Error(1)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestScheduleSweepValidation(t *testing.T) {
	s := NewScheduler(&mockRunner{}, quietLogger())

	_, err := s.ScheduleSweep("not a cron", time.Minute)
	assert.Error(t, err)

	assert.EqualError(t, s.Start(), "no jobs scheduled")

	_, err = NewScheduler(nil, quietLogger()).ScheduleSweep("@daily", 0)
	assert.Error(t, err)
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(&mockRunner{}, quietLogger())

	id, err := s.ScheduleSweep("0 3 * * *", 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, s.Entries(), 1)
	assert.True(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.False(t, s.GetNextRun().IsZero())

	_, err = s.ScheduleSweep("@hourly", 0)
	assert.Error(t, err)
	assert.Error(t, s.RemoveJob(id))

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop())

	require.NoError(t, s.RemoveJob(id))
	assert.Empty(t, s.Entries())
}

func TestRunSweepAppliesTimeout(t *testing.T) {
	runner := &mockRunner{}
	runner.On("RunConfigured", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})).Return(&service.SweepSummary{Mode: models.SweepModeSeason, Rows: 2}, nil).Once()

	s := NewScheduler(runner, quietLogger())
	s.runSweep(time.Minute)
	runner.AssertExpectations(t)
}

func TestRunSweepFailureIsLogged(t *testing.T) {
	runner := &mockRunner{}
	runner.On("RunConfigured", mock.Anything).Return(nil, errors.New("no datasets")).Once()

	s := NewScheduler(runner, quietLogger())
	assert.NotPanics(t, func() { s.runSweep(0) })
	runner.AssertExpectations(t)
}
