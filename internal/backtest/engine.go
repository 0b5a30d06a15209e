package backtest

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/martingale-lab/internal/datasource"
	"github.com/yourusername/martingale-lab/internal/logger"
	"github.com/yourusername/martingale-lab/internal/metrics"
	"github.com/yourusername/martingale-lab/internal/models"
)

// Simulate replays one team-season under a staking policy. It never
// modifies records; unsorted input is replayed in ascending game order.
func Simulate(id string, records []models.GameRecord, params models.StakeParams, policy models.Policy) (*models.SeasonResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if policy != models.PolicyBaseline && policy != models.PolicyMartingale {
		return nil, fmt.Errorf("%w: unknown policy %q", models.ErrInvalidParameter, policy)
	}
	for _, record := range records {
		if record.Line == 0 {
			return nil, fmt.Errorf("%w: game %d has a zero moneyline", models.ErrInvalidParameter, record.Order)
		}
	}

	ordered := orderedRecords(records)
	state := NewSimulationState(params, policy)
	rows := make([]models.SeasonRow, 0, len(ordered))

	for _, record := range ordered {
		refilled := state.Guard()
		bet := state.CurrentBet
		payout := state.Settle(record)

		rows = append(rows, models.SeasonRow{
			GameRecord: record,
			Bet:        bet,
			Payout:     payout,
			Balance:    state.Balance,
			Earnings:   state.CumulativeEarnings,
			Refilled:   refilled,
		})
	}

	return &models.SeasonResult{
		ID:      id,
		Policy:  policy,
		Params:  params,
		Rows:    rows,
		Refills: state.Refills,
	}, nil
}

func orderedRecords(records []models.GameRecord) []models.GameRecord {
	if sort.SliceIsSorted(records, func(i, j int) bool { return records[i].Order < records[j].Order }) {
		return records
	}
	ordered := append([]models.GameRecord(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	return ordered
}

// Engine loads team-seasons and runs the staking engine over them
type Engine struct {
	config    SimulationConfig
	source    datasource.SeasonSource
	logger    *logrus.Logger
	simLogger *logger.SimulationLogger
}

// NewEngine creates a new simulation engine
func NewEngine(cfg SimulationConfig, source datasource.SeasonSource, log *logrus.Logger) (*Engine, error) {
	if source == nil {
		return nil, fmt.Errorf("season source is required")
	}
	if log == nil {
		log = logrus.New()
	}

	return &Engine{
		config:    cfg,
		source:    source,
		logger:    log,
		simLogger: logger.NewSimulationLogger(log),
	}, nil
}

// Config returns the simulation configuration
func (e *Engine) Config() SimulationConfig {
	return e.config
}

// Logger returns the engine logger
func (e *Engine) Logger() *logrus.Logger {
	return e.logger
}

// Source returns the season source
func (e *Engine) Source() datasource.SeasonSource {
	return e.source
}

// RunSeason loads and simulates a single team-season
func (e *Engine) RunSeason(ctx context.Context, id string, params models.StakeParams, policy models.Policy) (*models.SeasonResult, error) {
	records, err := e.source.LoadSeason(ctx, id)
	if err != nil {
		metrics.RecordSimulation(string(policy), "failure", 0, 0, 0)
		return nil, fmt.Errorf("failed to load season %s: %w", id, err)
	}

	result, err := Simulate(id, records, params, policy)
	if err != nil {
		metrics.RecordSimulation(string(policy), "failure", 0, 0, 0)
		return nil, fmt.Errorf("failed to simulate season %s: %w", id, err)
	}

	final, err := result.FinalEarnings()
	if err != nil {
		metrics.RecordSimulation(string(policy), "failure", 0, 0, 0)
		return nil, fmt.Errorf("season %s: %w", id, err)
	}

	previous := params.StartBalance
	for _, row := range result.Rows {
		if row.Refilled {
			e.simLogger.LogRefill(id, row.Order, previous, row.Balance-row.Payout, row.Bet)
		}
		previous = row.Balance
	}
	e.simLogger.LogSeasonSimulated(id, string(policy), len(result.Rows), result.Wins(), result.Refills, final)
	metrics.RecordSimulation(string(policy), "success", len(result.Rows), result.Refills, final)

	return result, nil
}

// RunSeasons simulates every id with the same parameters, preserving id order
func (e *Engine) RunSeasons(ctx context.Context, ids []string, params models.StakeParams, policy models.Policy) (*models.SeasonSet, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	set := models.NewSeasonSet()
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := e.RunSeason(ctx, id, params, policy)
		if err != nil {
			return nil, err
		}
		set.Put(result)
	}
	return set, nil
}

// Run performs a full run over the configured datasets and parameters
func (e *Engine) Run(ctx context.Context) (*models.SeasonSet, []models.TeamSummary, error) {
	e.logger.WithFields(logrus.Fields{
		"policy":   e.config.Policy,
		"params":   e.config.Params.String(),
		"datasets": len(e.config.Datasets),
	}).Info("Starting simulation run")

	set, err := e.RunSeasons(ctx, e.config.Datasets, e.config.Params, e.config.Policy)
	if err != nil {
		return nil, nil, err
	}
	summaries, err := Aggregate(set)
	if err != nil {
		return nil, nil, err
	}
	return set, summaries, nil
}
