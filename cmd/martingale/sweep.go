package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/martingale-lab/internal/backtest"
	"github.com/yourusername/martingale-lab/internal/config"
	"github.com/yourusername/martingale-lab/internal/database"
	"github.com/yourusername/martingale-lab/internal/models"
	"github.com/yourusername/martingale-lab/internal/repository"
	"github.com/yourusername/martingale-lab/internal/service"
)

type sweepOptions struct {
	mode          string
	policy        string
	baseBets      []float64
	startBalances []float64
	refills       []float64
	group         string
	datasets      []string
	minWins       int
	workers       int
	failFast      bool
}

func addSweepFlags(cmd *cobra.Command, opts *sweepOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.mode, "mode", "", "Sweep output: team (one row per team-season) or season (stats per combination)")
	flags.StringVar(&opts.policy, "policy", "", "Staking policy: baseline or martingale")
	flags.Float64SliceVar(&opts.baseBets, "base-bets", nil, "Base bets to sweep")
	flags.Float64SliceVar(&opts.startBalances, "start-balances", nil, "Starting balances to sweep")
	flags.Float64SliceVar(&opts.refills, "refills", nil, "Refill multiples to sweep")
	flags.StringVar(&opts.group, "group", "", "Dataset group: AL21, NL21, AL19, NL19 or ALL")
	flags.StringSliceVar(&opts.datasets, "datasets", nil, "Explicit dataset ids")
	flags.IntVar(&opts.minWins, "min-wins", 0, "Only include team-seasons with at least this many wins")
	flags.IntVar(&opts.workers, "workers", 0, "Combinations evaluated concurrently")
	flags.BoolVar(&opts.failFast, "fail-fast", false, "Abort the sweep on the first failed combination")
}

// applySweepOverrides copies explicitly set flags onto the loaded configuration
func applySweepOverrides(cmd *cobra.Command, c *config.Config, opts *sweepOptions) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		c.Sweep.Mode = strings.ToLower(opts.mode)
	}
	if flags.Changed("policy") {
		c.Simulation.Policy = strings.ToLower(opts.policy)
	}
	if flags.Changed("base-bets") {
		c.Sweep.BaseBets = opts.baseBets
	}
	if flags.Changed("start-balances") {
		c.Sweep.StartBalances = opts.startBalances
	}
	if flags.Changed("refills") {
		c.Sweep.Refills = opts.refills
	}
	if flags.Changed("group") {
		c.Data.Group = strings.ToUpper(opts.group)
	}
	if flags.Changed("datasets") {
		c.Data.Datasets = opts.datasets
	}
	if flags.Changed("min-wins") {
		c.Sweep.MinWins = opts.minWins
	}
	if flags.Changed("workers") {
		c.Sweep.Workers = opts.workers
	}
	if flags.Changed("fail-fast") {
		c.Sweep.FailFast = opts.failFast
	}
}

func newSweepCmd() *cobra.Command {
	opts := &sweepOptions{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a parameter grid search",
		RunE: func(cmd *cobra.Command, args []string) error {
			applySweepOverrides(cmd, cfg, opts)

			svc, db, err := newSweepService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(db)

			summary, err := svc.RunConfigured(cmd.Context())
			if err != nil {
				return err
			}
			printSweepSummary(cmd, summary)
			return nil
		},
	}
	addSweepFlags(cmd, opts)
	return cmd
}

// newSweepService wires the sweep service, attaching Postgres storage when
// enabled. The returned pool is nil without a database and must be closed
// by the caller otherwise.
func newSweepService(ctx context.Context) (*service.SweepService, *database.DB, error) {
	engine, simConfig, err := buildEngine()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Database.Enabled {
		return service.NewSweepService(engine, newExporter(simConfig), nil), nil, nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	db, err := database.Initialize(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return service.NewSweepService(engine, newExporter(simConfig), repos.SweepRuns), db, nil
}

func closeDB(db *database.DB) {
	if db != nil {
		db.Close()
	}
}

func printSweepSummary(cmd *cobra.Command, summary *service.SweepSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sweep %s (%s, %s)\n", summary.RunID, summary.Mode, summary.Policy)
	fmt.Fprintf(out, "Combinations: %d  Rows: %d  Failures: %d\n", summary.Combinations, summary.Rows, summary.Failures)
	if summary.SeasonFailures > 0 {
		fmt.Fprintf(out, "Skipped team-seasons: %d\n", summary.SeasonFailures)
	}
	if summary.BestTestStat != nil {
		fmt.Fprintf(out, "Best test statistic: %.2f\n", *summary.BestTestStat)
	}
	for _, file := range summary.Files {
		fmt.Fprintf(out, "Wrote %s\n", file)
	}
	if summary.Persisted {
		fmt.Fprintln(out, "Stored in database")
	}
}

// runSweepForRows runs the sweep selected by mode and returns the rows as box plot input
func runSweepForRows(ctx context.Context, svc *service.SweepService, simConfig backtest.SimulationConfig) ([]backtest.Columnar, error) {
	switch simConfig.Mode {
	case models.SweepModeTeam:
		result, err := svc.RunTeam(ctx, simConfig.Datasets, simConfig.Grid, simConfig.SweepOptions())
		if err != nil {
			return nil, err
		}
		rows := make([]backtest.Columnar, len(result.Rows))
		for i, row := range result.Rows {
			rows[i] = row
		}
		return rows, nil
	case models.SweepModeSeason:
		result, err := svc.RunSeason(ctx, simConfig.Datasets, simConfig.Grid, simConfig.SweepOptions())
		if err != nil {
			return nil, err
		}
		rows := make([]backtest.Columnar, len(result.Rows))
		for i, row := range result.Rows {
			rows[i] = row
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%w: unknown sweep mode %q", models.ErrInvalidParameter, simConfig.Mode)
	}
}
