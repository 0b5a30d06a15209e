package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/martingale-lab/internal/backtest"
	"github.com/yourusername/martingale-lab/internal/config"
)

type runOptions struct {
	policy       string
	baseBet      float64
	startBalance float64
	refill       float64
	group        string
	datasets     []string
	minWins      int
	seasons      bool
	curves       bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate every selected team-season with one set of parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyRunOverrides(cmd, cfg, opts)
			return runSimulation(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.policy, "policy", "", "Staking policy: baseline or martingale")
	flags.Float64Var(&opts.baseBet, "base-bet", 0, "Base bet")
	flags.Float64Var(&opts.startBalance, "start-balance", 0, "Starting balance")
	flags.Float64Var(&opts.refill, "refill", 0, "Refill multiple")
	flags.StringVar(&opts.group, "group", "", "Dataset group: AL21, NL21, AL19, NL19 or ALL")
	flags.StringSliceVar(&opts.datasets, "datasets", nil, "Explicit dataset ids, e.g. nyy21,bos21")
	flags.IntVar(&opts.minWins, "min-wins", 0, "Only report team-seasons with at least this many wins")
	flags.BoolVar(&opts.seasons, "seasons", false, "Export a game-by-game table for every team-season")
	flags.BoolVar(&opts.curves, "curves", false, "Export cumulative earnings curves")
	return cmd
}

// applyRunOverrides copies explicitly set flags onto the loaded configuration
func applyRunOverrides(cmd *cobra.Command, c *config.Config, opts *runOptions) {
	flags := cmd.Flags()
	if flags.Changed("policy") {
		c.Simulation.Policy = strings.ToLower(opts.policy)
	}
	if flags.Changed("base-bet") {
		c.Simulation.BaseBet = opts.baseBet
	}
	if flags.Changed("start-balance") {
		c.Simulation.StartBalance = opts.startBalance
	}
	if flags.Changed("refill") {
		c.Simulation.Refill = opts.refill
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
}

func runSimulation(cmd *cobra.Command, opts *runOptions) error {
	engine, simConfig, err := buildEngine()
	if err != nil {
		return err
	}

	set, summaries, err := engine.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	summaries = backtest.FilterMinWins(summaries, simConfig.MinWins)

	fmt.Fprint(cmd.OutOrStdout(), backtest.GenerateConsoleReport(simConfig.Policy, simConfig.Params, summaries))

	exporter := newExporter(simConfig)
	if _, err := exporter.Export("summary_"+string(simConfig.Policy), backtest.SummaryTable(summaries)); err != nil {
		return err
	}
	if opts.seasons {
		for _, result := range set.Results() {
			if _, err := exporter.Export("season_"+result.ID, backtest.SeasonTable(result)); err != nil {
				return err
			}
		}
	}
	if opts.curves {
		if err := writeCurves(simConfig.OutputDir, backtest.EarningsCurves(set)); err != nil {
			return err
		}
	}

	for _, m := range backtest.CalculateSetMetrics(set) {
		log.WithField("season_id", m.ID).Debug(m.ToJSON())
	}
	return nil
}

// writeCurves stores earnings curves as long-format CSV and as JSON
func writeCurves(dir string, curves []backtest.EarningsCurve) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	files := map[string]string{
		"earnings_curves.csv":  backtest.CurvesToCSV(curves),
		"earnings_curves.json": backtest.CurvesToJSON(curves),
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	log.WithField("curves", len(curves)).Info("Earnings curves exported")
	return nil
}
