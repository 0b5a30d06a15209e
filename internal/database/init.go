package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/martingale-lab/internal/config"
)

// schemaStatements create the sweep result tables when they are missing
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sweep_runs (
		id            UUID PRIMARY KEY,
		mode          TEXT NOT NULL,
		policy        TEXT NOT NULL,
		min_wins      INTEGER NOT NULL,
		datasets      TEXT[] NOT NULL,
		combinations  INTEGER NOT NULL,
		failures      INTEGER NOT NULL,
		started_at    TIMESTAMPTZ NOT NULL,
		finished_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sweep_team_rows (
		run_id         UUID NOT NULL REFERENCES sweep_runs(id) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		name           TEXT NOT NULL,
		wins           INTEGER NOT NULL,
		base_bet       NUMERIC(12,2) NOT NULL,
		start_balance  NUMERIC(12,2) NOT NULL,
		refill         NUMERIC(8,2) NOT NULL,
		earnings       NUMERIC(14,2) NOT NULL,
		PRIMARY KEY (run_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS sweep_stats_rows (
		run_id         UUID NOT NULL REFERENCES sweep_runs(id) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		base_bet       NUMERIC(12,2) NOT NULL,
		start_balance  NUMERIC(12,2) NOT NULL,
		refill         NUMERIC(8,2) NOT NULL,
		earn_avg       NUMERIC(14,2) NOT NULL,
		earn_sd        NUMERIC(14,2) NOT NULL,
		pct_pos        NUMERIC(5,2) NOT NULL,
		test_stat      NUMERIC(10,2) NOT NULL,
		samples        INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sweep_runs_started_at ON sweep_runs (started_at DESC)`,
}

// Initialize creates a database connection pool and ensures the sweep schema exists
func Initialize(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"host":     cfg.Database.Host,
			"database": cfg.Database.Name,
		}).Info("Database initialized")
	}
	return db, nil
}

// EnsureSchema creates missing sweep tables
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
