package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Column names shared by grid rows, exports and box plots
const (
	ColumnName         = "name"
	ColumnWins         = "wins"
	ColumnBaseBet      = "base_bet"
	ColumnStartBalance = "start_balance"
	ColumnRefill       = "refill"
	ColumnEarnings     = "earnings"
	ColumnEarnAvg      = "earn_avg"
	ColumnEarnSD       = "earn_sd"
	ColumnPctPos       = "pct_pos"
	ColumnTestStat     = "test_stat"
)

// TeamSummary condenses one simulated team-season
type TeamSummary struct {
	Name     string  `json:"name"`
	Wins     int     `json:"wins"`
	Earnings float64 `json:"earnings"`
}

// GridSearchRow is one team-season result tagged with its parameter combination
type GridSearchRow struct {
	Name         string  `json:"name"`
	Wins         int     `json:"wins"`
	BaseBet      float64 `json:"base_bet"`
	StartBalance float64 `json:"start_balance"`
	Refill       float64 `json:"refill"`
	Earnings     float64 `json:"earnings"`
}

// Value returns a numeric column of the row
func (r GridSearchRow) Value(column string) (float64, error) {
	switch column {
	case ColumnWins:
		return float64(r.Wins), nil
	case ColumnBaseBet:
		return r.BaseBet, nil
	case ColumnStartBalance:
		return r.StartBalance, nil
	case ColumnRefill:
		return r.Refill, nil
	case ColumnEarnings:
		return r.Earnings, nil
	default:
		return 0, fmt.Errorf("%w: unknown column %q", ErrInvalidParameter, column)
	}
}

// GridStatsRow summarises earnings across team-seasons for one parameter combination
type GridStatsRow struct {
	BaseBet      float64 `json:"base_bet"`
	StartBalance float64 `json:"start_balance"`
	Refill       float64 `json:"refill"`
	EarnAvg      float64 `json:"earn_avg"`
	EarnSD       float64 `json:"earn_sd"`
	PctPos       float64 `json:"pct_pos"`
	TestStat     float64 `json:"test_stat"`
	Samples      int     `json:"samples"`
}

// Value returns a numeric column of the row
func (r GridStatsRow) Value(column string) (float64, error) {
	switch column {
	case ColumnBaseBet:
		return r.BaseBet, nil
	case ColumnStartBalance:
		return r.StartBalance, nil
	case ColumnRefill:
		return r.Refill, nil
	case ColumnEarnAvg:
		return r.EarnAvg, nil
	case ColumnEarnSD:
		return r.EarnSD, nil
	case ColumnPctPos:
		return r.PctPos, nil
	case ColumnTestStat:
		return r.TestStat, nil
	default:
		return 0, fmt.Errorf("%w: unknown column %q", ErrInvalidParameter, column)
	}
}

// SweepMode selects the shape of grid search output
type SweepMode string

const (
	SweepModeTeam   SweepMode = "team"
	SweepModeSeason SweepMode = "season"
)

// SweepRun represents a persisted grid search run
type SweepRun struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Mode         SweepMode `db:"mode" json:"mode"`
	Policy       Policy    `db:"policy" json:"policy"`
	MinWins      int       `db:"min_wins" json:"min_wins"`
	Datasets     []string  `db:"datasets" json:"datasets"`
	Combinations int       `db:"combinations" json:"combinations"`
	Failures     int       `db:"failures" json:"failures"`
	StartedAt    time.Time `db:"started_at" json:"started_at"`
	FinishedAt   time.Time `db:"finished_at" json:"finished_at"`
}

// Duration returns how long the run took
func (r *SweepRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
