package backtest

import (
	"fmt"

	"github.com/yourusername/martingale-lab/internal/config"
	"github.com/yourusername/martingale-lab/internal/datasource"
	"github.com/yourusername/martingale-lab/internal/models"
)

// SimulationConfig extends core config with resolved simulation settings
type SimulationConfig struct {
	Policy    models.Policy
	Params    models.StakeParams
	Datasets  []string
	Grid      ParameterGrid
	Mode      models.SweepMode
	MinWins   int
	Workers   int
	FailFast  bool
	OutputDir string
	Formats   []string
}

// FromConfig converts app config to simulation config
func FromConfig(cfg *config.Config) (SimulationConfig, error) {
	if cfg == nil {
		return SimulationConfig{}, fmt.Errorf("config is required")
	}
	policy, err := models.ParsePolicy(cfg.Simulation.Policy)
	if err != nil {
		return SimulationConfig{}, err
	}
	datasets, err := datasource.ResolveDatasets(cfg.Data.Group, cfg.Data.Datasets)
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("invalid datasets: %w", err)
	}

	sim := SimulationConfig{
		Policy: policy,
		Params: models.StakeParams{
			BaseBet:      cfg.Simulation.BaseBet,
			StartBalance: cfg.Simulation.StartBalance,
			Refill:       cfg.Simulation.Refill,
		},
		Datasets: datasets,
		Grid: ParameterGrid{
			BaseBets:      cfg.Sweep.BaseBets,
			StartBalances: cfg.Sweep.StartBalances,
			Refills:       cfg.Sweep.Refills,
		},
		Mode:      models.SweepMode(cfg.Sweep.Mode),
		MinWins:   cfg.Sweep.MinWins,
		Workers:   cfg.Sweep.Workers,
		FailFast:  cfg.Sweep.FailFast,
		OutputDir: cfg.Output.Directory,
		Formats:   cfg.Output.Formats,
	}

	return sim, sim.Validate()
}

// Validate validates simulation config parameters
func (c SimulationConfig) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if len(c.Datasets) == 0 {
		return fmt.Errorf("%w: at least one dataset is required", models.ErrInvalidParameter)
	}
	if c.Mode != models.SweepModeTeam && c.Mode != models.SweepModeSeason {
		return fmt.Errorf("%w: unknown sweep mode %q", models.ErrInvalidParameter, c.Mode)
	}
	if c.MinWins < 0 {
		return fmt.Errorf("%w: min wins cannot be negative", models.ErrInvalidParameter)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative", models.ErrInvalidParameter)
	}
	return c.Grid.Validate()
}

// SweepOptions returns the sweep options carried by the config
func (c SimulationConfig) SweepOptions() SweepOptions {
	return SweepOptions{
		Policy:   c.Policy,
		MinWins:  c.MinWins,
		Workers:  c.Workers,
		FailFast: c.FailFast,
	}
}
