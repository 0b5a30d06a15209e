// Package config provides configuration management for the martingale simulator.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Data       DataConfig       `mapstructure:"data" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Sweep      SweepConfig      `mapstructure:"sweep" validate:"required"`
	Output     OutputConfig     `mapstructure:"output" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DataConfig describes where team-season files live
type DataConfig struct {
	Directory       string   `mapstructure:"directory" validate:"required"`
	Datasets        []string `mapstructure:"datasets"`
	Group           string   `mapstructure:"group" validate:"omitempty,oneof=AL21 NL21 AL19 NL19 ALL"`
	CacheTTLSeconds int      `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// SimulationConfig holds the parameters of a single run
type SimulationConfig struct {
	Policy       string  `mapstructure:"policy" validate:"required,policy"`
	BaseBet      float64 `mapstructure:"base_bet" validate:"required,gt=0"`
	StartBalance float64 `mapstructure:"start_balance" validate:"gte=0"`
	Refill       float64 `mapstructure:"refill" validate:"required,gt=0"`
}

// SweepConfig describes the parameter grid and how to walk it
type SweepConfig struct {
	Mode          string    `mapstructure:"mode" validate:"required,sweepmode"`
	BaseBets      []float64 `mapstructure:"base_bets" validate:"required,min=1,dive,gt=0"`
	StartBalances []float64 `mapstructure:"start_balances" validate:"required,min=1,dive,gte=0"`
	Refills       []float64 `mapstructure:"refills" validate:"required,min=1,dive,gt=0"`
	MinWins       int       `mapstructure:"min_wins" validate:"gte=0"`
	Workers       int       `mapstructure:"workers" validate:"gte=0"`
	FailFast      bool      `mapstructure:"fail_fast"`
}

// OutputConfig controls where reports and exports are written
type OutputConfig struct {
	Directory string   `mapstructure:"directory" validate:"required"`
	Formats   []string `mapstructure:"formats" validate:"dive,oneof=csv json html"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// ScheduleConfig represents scheduled sweep configuration
type ScheduleConfig struct {
	SweepCron      string `mapstructure:"sweep_cron"`
	TimeoutMinutes int    `mapstructure:"timeout_minutes" validate:"gte=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
