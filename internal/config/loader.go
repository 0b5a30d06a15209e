// Package config provides configuration management for the martingale simulator.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "MARTINGALE"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	setDefaults(v)

	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration, falling back to defaults and the
// environment when the file does not exist.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers defaults for every key so env overrides bind on Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "martingale-lab")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("data.directory", "data")
	v.SetDefault("data.group", "ALL")
	v.SetDefault("data.cache_ttl_seconds", 600)

	v.SetDefault("simulation.policy", "martingale")
	v.SetDefault("simulation.base_bet", 4)
	v.SetDefault("simulation.start_balance", 50)
	v.SetDefault("simulation.refill", 2)

	v.SetDefault("sweep.mode", "season")
	v.SetDefault("sweep.base_bets", []float64{2, 4, 8})
	v.SetDefault("sweep.start_balances", []float64{20, 50, 100})
	v.SetDefault("sweep.refills", []float64{2, 3, 4})
	v.SetDefault("sweep.min_wins", 0)
	v.SetDefault("sweep.workers", 1)

	v.SetDefault("output.directory", "output")
	v.SetDefault("output.formats", []string{"csv"})

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 4)

	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("schedule.timeout_minutes", 60)
}
