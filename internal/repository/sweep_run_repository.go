package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/martingale-lab/internal/database"
	"github.com/yourusername/martingale-lab/internal/models"
)

const (
	errScanSweepRun = "failed to scan sweep run: %w"
	errScanSweepRow = "failed to scan sweep row: %w"

	numericPlaces = 2
)

const insertRunQuery = `
	INSERT INTO sweep_runs (
		id, mode, policy, min_wins, datasets, combinations, failures, started_at, finished_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`

const selectRunColumns = `
	SELECT id, mode, policy, min_wins, datasets, combinations, failures, started_at, finished_at
	FROM sweep_runs
`

// PostgresSweepRunRepository implements SweepRunRepository for PostgreSQL
type PostgresSweepRunRepository struct {
	db *database.DB
}

// NewPostgresSweepRunRepository creates a new sweep run repository
func NewPostgresSweepRunRepository(db *database.DB) SweepRunRepository {
	return &PostgresSweepRunRepository{db: db}
}

// SaveTeamSweep stores a per-team run and its rows in one transaction
func (r *PostgresSweepRunRepository) SaveTeamSweep(ctx context.Context, run *models.SweepRun, rows []models.GridSearchRow) error {
	if err := validateRun(run, models.SweepModeTeam); err != nil {
		return err
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		queueRun(batch, run)
		for i, row := range rows {
			batch.Queue(`
				INSERT INTO sweep_team_rows (
					run_id, position, name, wins, base_bet, start_balance, refill, earnings
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				run.ID, i, row.Name, row.Wins,
				ToNumeric(row.BaseBet), ToNumeric(row.StartBalance), ToNumeric(row.Refill), ToNumeric(row.Earnings),
			)
		}
		return sendBatch(ctx, tx, batch)
	})
}

// SaveSeasonSweep stores a per-season run and its rows in one transaction
func (r *PostgresSweepRunRepository) SaveSeasonSweep(ctx context.Context, run *models.SweepRun, rows []models.GridStatsRow) error {
	if err := validateRun(run, models.SweepModeSeason); err != nil {
		return err
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		queueRun(batch, run)
		for i, row := range rows {
			batch.Queue(`
				INSERT INTO sweep_stats_rows (
					run_id, position, base_bet, start_balance, refill,
					earn_avg, earn_sd, pct_pos, test_stat, samples
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
				run.ID, i, ToNumeric(row.BaseBet), ToNumeric(row.StartBalance), ToNumeric(row.Refill),
				ToNumeric(row.EarnAvg), ToNumeric(row.EarnSD), ToNumeric(row.PctPos), ToNumeric(row.TestStat), row.Samples,
			)
		}
		return sendBatch(ctx, tx, batch)
	})
}

// GetRun retrieves a sweep run by ID
func (r *PostgresSweepRunRepository) GetRun(ctx context.Context, id uuid.UUID) (*models.SweepRun, error) {
	run, err := scanRun(r.db.QueryRow(ctx, selectRunColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("sweep run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf(errScanSweepRun, err)
	}
	return run, nil
}

// GetLatestRuns retrieves the most recent sweep runs
func (r *PostgresSweepRunRepository) GetLatestRuns(ctx context.Context, limit int) ([]*models.SweepRun, error) {
	rows, err := r.db.Query(ctx, selectRunColumns+` ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sweep runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SweepRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanSweepRun, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetTeamRows retrieves per-team rows of a run in insertion order
func (r *PostgresSweepRunRepository) GetTeamRows(ctx context.Context, runID uuid.UUID) ([]models.GridSearchRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, wins, base_bet, start_balance, refill, earnings
		FROM sweep_team_rows WHERE run_id = $1 ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team rows: %w", err)
	}
	defer rows.Close()

	var out []models.GridSearchRow
	for rows.Next() {
		var row models.GridSearchRow
		var baseBet, startBalance, refill, earnings decimal.Decimal
		if err := rows.Scan(&row.Name, &row.Wins, &baseBet, &startBalance, &refill, &earnings); err != nil {
			return nil, fmt.Errorf(errScanSweepRow, err)
		}
		row.BaseBet = FromNumeric(baseBet)
		row.StartBalance = FromNumeric(startBalance)
		row.Refill = FromNumeric(refill)
		row.Earnings = FromNumeric(earnings)
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetStatsRows retrieves per-season rows of a run in insertion order
func (r *PostgresSweepRunRepository) GetStatsRows(ctx context.Context, runID uuid.UUID) ([]models.GridStatsRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT base_bet, start_balance, refill, earn_avg, earn_sd, pct_pos, test_stat, samples
		FROM sweep_stats_rows WHERE run_id = $1 ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats rows: %w", err)
	}
	defer rows.Close()

	var out []models.GridStatsRow
	for rows.Next() {
		var row models.GridStatsRow
		var values [7]decimal.Decimal
		if err := rows.Scan(&values[0], &values[1], &values[2], &values[3], &values[4], &values[5], &values[6], &row.Samples); err != nil {
			return nil, fmt.Errorf(errScanSweepRow, err)
		}
		row.BaseBet = FromNumeric(values[0])
		row.StartBalance = FromNumeric(values[1])
		row.Refill = FromNumeric(values[2])
		row.EarnAvg = FromNumeric(values[3])
		row.EarnSD = FromNumeric(values[4])
		row.PctPos = FromNumeric(values[5])
		row.TestStat = FromNumeric(values[6])
		out = append(out, row)
	}
	return out, rows.Err()
}

// Delete removes a run and, by cascade, its rows
func (r *PostgresSweepRunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sweep_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sweep run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sweep run %s: %w", id, ErrNotFound)
	}
	return nil
}

// ToNumeric converts a float to a two-decimal NUMERIC value
func ToNumeric(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(numericPlaces)
}

// FromNumeric converts a NUMERIC value back to a float
func FromNumeric(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func validateRun(run *models.SweepRun, mode models.SweepMode) error {
	if run == nil {
		return fmt.Errorf("%w: sweep run is required", models.ErrInvalidParameter)
	}
	if run.ID == uuid.Nil {
		return fmt.Errorf("%w: sweep run id is required", models.ErrInvalidParameter)
	}
	if run.Mode != mode {
		return fmt.Errorf("%w: expected %s sweep, got %q", models.ErrInvalidParameter, mode, run.Mode)
	}
	return nil
}

func queueRun(batch *pgx.Batch, run *models.SweepRun) {
	batch.Queue(insertRunQuery,
		run.ID, string(run.Mode), string(run.Policy), run.MinWins, run.Datasets,
		run.Combinations, run.Failures, run.StartedAt, run.FinishedAt,
	)
}

func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to execute batch statement %d: %w", i, err)
		}
	}
	return results.Close()
}

func scanRun(row pgx.Row) (*models.SweepRun, error) {
	run := &models.SweepRun{}
	var mode, policy string
	if err := row.Scan(
		&run.ID, &mode, &policy, &run.MinWins, &run.Datasets,
		&run.Combinations, &run.Failures, &run.StartedAt, &run.FinishedAt,
	); err != nil {
		return nil, err
	}
	run.Mode = models.SweepMode(mode)
	run.Policy = models.Policy(policy)
	return run, nil
}
