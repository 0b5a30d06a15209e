// Package main provides the martingale simulator CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/martingale-lab/internal/backtest"
	"github.com/yourusername/martingale-lab/internal/config"
	"github.com/yourusername/martingale-lab/internal/datasource"
	"github.com/yourusername/martingale-lab/internal/logger"
	"github.com/yourusername/martingale-lab/internal/metrics"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	logLevel   string
	log        *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(newRunCmd(), newSweepCmd(), newBoxPlotCmd(), newDatasetsCmd(), newServeCmd())
}

var rootCmd = &cobra.Command{
	Use:     "martingale",
	Short:   "Replay baseball moneyline seasons under flat and martingale staking",
	Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if ctx == nil {
			ctx = context.Background()
		}
		secretsCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := config.LoadSecretsFromAWS(secretsCtx, cfg, region, secretName); err != nil {
			return err
		}
	}

	log = logger.NewLoggerWithOutput(cfg.App.LogLevel, cfg.App.Environment, os.Stderr)
	metrics.InitRegistry()
	return nil
}

// buildEngine validates the effective configuration and wires the engine to
// the cached CSV source.
func buildEngine() (*backtest.Engine, backtest.SimulationConfig, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, backtest.SimulationConfig{}, err
	}
	simConfig, err := backtest.FromConfig(cfg)
	if err != nil {
		return nil, simConfig, fmt.Errorf("invalid simulation config: %w", err)
	}

	source := datasource.NewFactory(cfg.Data, log).Default()
	engine, err := backtest.NewEngine(simConfig, source, log)
	if err != nil {
		return nil, simConfig, err
	}
	return engine, simConfig, nil
}

func newExporter(simConfig backtest.SimulationConfig) *backtest.Exporter {
	return backtest.NewExporter(simConfig.OutputDir, simConfig.Formats, log)
}
