package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/martingale-lab/internal/models"
)

// SweepRunRepository defines the interface for grid search result access
type SweepRunRepository interface {
	SaveTeamSweep(ctx context.Context, run *models.SweepRun, rows []models.GridSearchRow) error
	SaveSeasonSweep(ctx context.Context, run *models.SweepRun, rows []models.GridStatsRow) error
	GetRun(ctx context.Context, id uuid.UUID) (*models.SweepRun, error)
	GetLatestRuns(ctx context.Context, limit int) ([]*models.SweepRun, error)
	GetTeamRows(ctx context.Context, runID uuid.UUID) ([]models.GridSearchRow, error)
	GetStatsRows(ctx context.Context, runID uuid.UUID) ([]models.GridStatsRow, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
