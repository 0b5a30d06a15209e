package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/martingale-lab/internal/logger"
	"github.com/yourusername/martingale-lab/internal/metrics"
	"github.com/yourusername/martingale-lab/internal/models"
)

// ParameterGrid lists the candidate values of each staking parameter
type ParameterGrid struct {
	BaseBets      []float64 `json:"base_bet"`
	StartBalances []float64 `json:"start_balance"`
	Refills       []float64 `json:"refill"`
}

// Validate checks that every axis has at least one value
func (g ParameterGrid) Validate() error {
	if len(g.BaseBets) == 0 || len(g.StartBalances) == 0 || len(g.Refills) == 0 {
		return fmt.Errorf("%w: parameter grid needs at least one base bet, start balance and refill", models.ErrInvalidParameter)
	}
	return nil
}

// Size returns the number of combinations in the grid
func (g ParameterGrid) Size() int {
	return len(g.BaseBets) * len(g.StartBalances) * len(g.Refills)
}

// Combinations returns the Cartesian product with base bet as the outermost
// axis and refill as the innermost.
func (g ParameterGrid) Combinations() []models.StakeParams {
	combos := make([]models.StakeParams, 0, g.Size())
	for _, baseBet := range g.BaseBets {
		for _, startBalance := range g.StartBalances {
			for _, refill := range g.Refills {
				combos = append(combos, models.StakeParams{
					BaseBet:      baseBet,
					StartBalance: startBalance,
					Refill:       refill,
				})
			}
		}
	}
	return combos
}

// SweepOptions controls how a grid search runs
type SweepOptions struct {
	Policy   models.Policy
	MinWins  int
	Workers  int
	FailFast bool
}

// ComboFailure records a parameter combination that produced no output
type ComboFailure struct {
	Params models.StakeParams `json:"params"`
	Err    error              `json:"-"`
}

// Error implements error
func (f ComboFailure) Error() string {
	return fmt.Sprintf("combination %s: %v", f.Params, f.Err)
}

// Unwrap exposes the underlying error
func (f ComboFailure) Unwrap() error {
	return f.Err
}

// SeasonFailure records a team-season left out of one combination
type SeasonFailure struct {
	ID     string             `json:"id"`
	Params models.StakeParams `json:"params"`
	Err    error              `json:"-"`
}

// Error implements error
func (f SeasonFailure) Error() string {
	return fmt.Sprintf("season %s at %s: %v", f.ID, f.Params, f.Err)
}

// Unwrap exposes the underlying error
func (f SeasonFailure) Unwrap() error {
	return f.Err
}

// TeamSweepResult is the output of a per-team grid search
type TeamSweepResult struct {
	Run            models.SweepRun
	Rows           []models.GridSearchRow
	Failures       []ComboFailure
	SeasonFailures []SeasonFailure
}

// SeasonSweepResult is the output of a per-season statistics grid search
type SeasonSweepResult struct {
	Run            models.SweepRun
	Rows           []models.GridStatsRow
	Failures       []ComboFailure
	SeasonFailures []SeasonFailure
}

// Best returns the row with the highest test statistic
func (r *SeasonSweepResult) Best() (models.GridStatsRow, bool) {
	if len(r.Rows) == 0 {
		return models.GridStatsRow{}, false
	}
	best := r.Rows[0]
	for _, row := range r.Rows[1:] {
		if row.TestStat > best.TestStat {
			best = row
		}
	}
	return best, true
}

// Sweeper runs parameter grid searches on top of an Engine
type Sweeper struct {
	engine    *Engine
	logger    *logrus.Logger
	simLogger *logger.SimulationLogger
}

// NewSweeper creates a sweeper bound to an engine
func NewSweeper(engine *Engine) *Sweeper {
	return &Sweeper{
		engine:    engine,
		logger:    engine.Logger(),
		simLogger: logger.NewSimulationLogger(engine.Logger()),
	}
}

// ByTeam emits one GridSearchRow per team-season that reaches MinWins, for
// every combination in grid order.
func (s *Sweeper) ByTeam(ctx context.Context, ids []string, grid ParameterGrid, opts SweepOptions) (*TeamSweepResult, error) {
	run := s.newRun(models.SweepModeTeam, ids, grid, opts)
	skipped := make([][]SeasonFailure, grid.Size())

	perCombo, failures, err := runGrid(ctx, grid, opts, s.reportFailure(models.SweepModeTeam),
		func(ctx context.Context, i int, params models.StakeParams) ([]models.GridSearchRow, error) {
			summaries, seasonFailures, err := s.summarize(ctx, models.SweepModeTeam, ids, params, opts)
			skipped[i] = seasonFailures
			if err != nil {
				return nil, err
			}
			rows := make([]models.GridSearchRow, 0, len(summaries))
			for _, summary := range summaries {
				rows = append(rows, models.GridSearchRow{
					Name:         summary.Name,
					Wins:         summary.Wins,
					BaseBet:      params.BaseBet,
					StartBalance: params.StartBalance,
					Refill:       params.Refill,
					Earnings:     summary.Earnings,
				})
			}
			metrics.RecordSweepCombination(string(models.SweepModeTeam), "success")
			s.simLogger.LogCombinationCompleted(string(models.SweepModeTeam), params.BaseBet, params.StartBalance, params.Refill, len(rows))
			return rows, nil
		})
	if err != nil {
		return nil, err
	}

	var rows []models.GridSearchRow
	for _, comboRows := range perCombo {
		rows = append(rows, comboRows...)
	}

	s.finishRun(&run, len(failures), len(rows))
	return &TeamSweepResult{Run: run, Rows: rows, Failures: failures, SeasonFailures: flatten(skipped)}, nil
}

// BySeason emits one GridStatsRow per combination summarising earnings of
// the team-seasons that reach MinWins.
func (s *Sweeper) BySeason(ctx context.Context, ids []string, grid ParameterGrid, opts SweepOptions) (*SeasonSweepResult, error) {
	run := s.newRun(models.SweepModeSeason, ids, grid, opts)
	skipped := make([][]SeasonFailure, grid.Size())

	perCombo, failures, err := runGrid(ctx, grid, opts, s.reportFailure(models.SweepModeSeason),
		func(ctx context.Context, i int, params models.StakeParams) (*models.GridStatsRow, error) {
			summaries, seasonFailures, err := s.summarize(ctx, models.SweepModeSeason, ids, params, opts)
			skipped[i] = seasonFailures
			if err != nil {
				return nil, err
			}
			stats, err := SummarizeEarnings(summaries)
			if err != nil {
				return nil, err
			}
			metrics.RecordSweepCombination(string(models.SweepModeSeason), "success")
			s.simLogger.LogCombinationCompleted(string(models.SweepModeSeason), params.BaseBet, params.StartBalance, params.Refill, 1)
			return &models.GridStatsRow{
				BaseBet:      params.BaseBet,
				StartBalance: params.StartBalance,
				Refill:       params.Refill,
				EarnAvg:      stats.Mean,
				EarnSD:       stats.StdDev,
				PctPos:       stats.PctPos,
				TestStat:     stats.TestStat,
				Samples:      stats.Samples,
			}, nil
		})
	if err != nil {
		return nil, err
	}

	rows := make([]models.GridStatsRow, 0, len(perCombo))
	for _, row := range perCombo {
		if row != nil {
			rows = append(rows, *row)
		}
	}

	result := &SeasonSweepResult{Run: run, Rows: rows, Failures: failures, SeasonFailures: flatten(skipped)}
	if best, ok := result.Best(); ok {
		metrics.UpdateBestTestStat(string(opts.Policy), best.TestStat)
	}
	s.finishRun(&result.Run, len(failures), len(rows))
	return result, nil
}

// summarize simulates every id under params. A failing team-season is left
// out and returned as a SeasonFailure unless opts.FailFast is set; the
// combination itself fails only on invalid params, cancellation, or when no
// team-season could be simulated.
func (s *Sweeper) summarize(ctx context.Context, mode models.SweepMode, ids []string, params models.StakeParams, opts SweepOptions) ([]models.TeamSummary, []SeasonFailure, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	set := models.NewSeasonSet()
	var failures []SeasonFailure
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, failures, err
		}
		result, err := s.engine.RunSeason(ctx, id, params, opts.Policy)
		if err != nil {
			if opts.FailFast || ctx.Err() != nil {
				return nil, failures, err
			}
			failures = append(failures, SeasonFailure{ID: id, Params: params, Err: err})
			metrics.RecordSweepSeasonFailure(string(mode))
			s.simLogger.LogSeasonFailed(string(mode), id, params.BaseBet, params.StartBalance, params.Refill, err)
			continue
		}
		set.Put(result)
	}
	if set.Len() == 0 {
		return nil, failures, fmt.Errorf("%w: no team-season could be simulated", models.ErrEmptyResult)
	}

	summaries, err := Aggregate(set)
	if err != nil {
		return nil, failures, err
	}
	return FilterMinWins(summaries, opts.MinWins), failures, nil
}

func flatten(perCombo [][]SeasonFailure) []SeasonFailure {
	var out []SeasonFailure
	for _, failures := range perCombo {
		out = append(out, failures...)
	}
	return out
}

func (s *Sweeper) newRun(mode models.SweepMode, ids []string, grid ParameterGrid, opts SweepOptions) models.SweepRun {
	s.logger.WithFields(logrus.Fields{
		"sweep_mode":   mode,
		"policy":       opts.Policy,
		"combinations": grid.Size(),
		"datasets":     len(ids),
		"workers":      opts.Workers,
	}).Info("Starting grid search")

	return models.SweepRun{
		ID:           uuid.New(),
		Mode:         mode,
		Policy:       opts.Policy,
		MinWins:      opts.MinWins,
		Datasets:     append([]string(nil), ids...),
		Combinations: grid.Size(),
		StartedAt:    time.Now().UTC(),
	}
}

func (s *Sweeper) finishRun(run *models.SweepRun, failures, rows int) {
	run.FinishedAt = time.Now().UTC()
	run.Failures = failures
	duration := run.Duration()
	metrics.RecordSweepDuration(string(run.Mode), duration.Seconds())
	s.simLogger.LogSweepCompleted(run.ID.String(), string(run.Mode), run.Combinations, failures, rows, float64(duration.Milliseconds()))
}

func (s *Sweeper) reportFailure(mode models.SweepMode) func(ComboFailure) {
	return func(failure ComboFailure) {
		metrics.RecordSweepCombination(string(mode), "failure")
		s.simLogger.LogCombinationFailed(string(mode), failure.Params.BaseBet, failure.Params.StartBalance, failure.Params.Refill, failure.Err)
	}
}

// runGrid evaluates fn for every grid combination on a bounded worker pool.
// Each task writes only its own slot so results come back in grid order.
func runGrid[T any](
	ctx context.Context,
	grid ParameterGrid,
	opts SweepOptions,
	onFailure func(ComboFailure),
	fn func(context.Context, int, models.StakeParams) (T, error),
) ([]T, []ComboFailure, error) {
	if err := grid.Validate(); err != nil {
		return nil, nil, err
	}

	combos := grid.Combinations()
	slots := make([]T, len(combos))
	failed := make([]*ComboFailure, len(combos))

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, params := range combos {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := fn(gctx, i, params)
			if err != nil {
				failure := ComboFailure{Params: params, Err: err}
				onFailure(failure)
				if opts.FailFast {
					return failure
				}
				failed[i] = &failure
				return nil
			}
			slots[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var failures []ComboFailure
	for _, failure := range failed {
		if failure != nil {
			failures = append(failures, *failure)
		}
	}
	return slots, failures, nil
}

// IsComboFailure reports whether err came from a single failed combination
func IsComboFailure(err error) bool {
	var failure ComboFailure
	return errors.As(err, &failure)
}
