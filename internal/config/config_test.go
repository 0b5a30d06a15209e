// Package config provides configuration management for the martingale simulator.
package config

import (
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	minimalConfigPath            = "testdata/minimal_config.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	appName                      = "martingale-lab"
	developmentEnv               = "development"
	testAppName                  = "test-app"
	testDBPassword               = "TEST_DB_PASSWORD"
	expandedSecretValue          = "expanded_secret_value"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != appName {
		t.Errorf("expected app name '%s', got '%s'", appName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Simulation.BaseBet != 4 || cfg.Simulation.StartBalance != 50 || cfg.Simulation.Refill != 2 {
		t.Errorf("unexpected simulation params: %+v", cfg.Simulation)
	}
	if len(cfg.Sweep.BaseBets) != 2 || cfg.Sweep.BaseBets[1] != 4 {
		t.Errorf("unexpected sweep base bets: %v", cfg.Sweep.BaseBets)
	}
	if cfg.Sweep.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Sweep.Workers)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentConfigPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("MARTINGALE_APP_NAME", testAppName)
	t.Setenv("MARTINGALE_SIMULATION_POLICY", "baseline")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
	if cfg.Simulation.Policy != "baseline" {
		t.Errorf("expected policy override, got '%s'", cfg.Simulation.Policy)
	}
}

// TestLoadConfigExpandsPlaceholders tests ${VAR} expansion inside the YAML file
func TestLoadConfigExpandsPlaceholders(t *testing.T) {
	t.Setenv(testDBPassword, expandedSecretValue)

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected expanded password, got '%s'", cfg.Database.Password)
	}
}

// TestLoadWithDefaults tests default values for a sparse file and a missing file
func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(minimalConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Simulation.Policy != "martingale" {
		t.Errorf("expected default policy, got '%s'", cfg.Simulation.Policy)
	}
	if cfg.Sweep.Mode != "season" {
		t.Errorf("expected default sweep mode, got '%s'", cfg.Sweep.Mode)
	}
	if len(cfg.Data.Datasets) != 2 {
		t.Errorf("expected datasets from file, got %v", cfg.Data.Datasets)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}

	missing, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if missing.Simulation.BaseBet != 4 {
		t.Errorf("expected default base bet 4, got %v", missing.Simulation.BaseBet)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	os.Setenv(testDBPassword, "secret")
	defer os.Unsetenv(testDBPassword)

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateRejectsBadValues tests single-field validation failures
func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{name: "environment", mutate: func(c *Config) { c.App.Environment = "invalid" }, message: "development, staging, production"},
		{name: "log level", mutate: func(c *Config) { c.App.LogLevel = "trace" }, message: "debug, info, warn, error"},
		{name: "policy", mutate: func(c *Config) { c.Simulation.Policy = "kelly" }, message: "baseline, martingale"},
		{name: "sweep mode", mutate: func(c *Config) { c.Sweep.Mode = "grid" }, message: "team, season"},
		{name: "base bet", mutate: func(c *Config) { c.Simulation.BaseBet = -1 }, message: "BaseBet"},
		{name: "refill", mutate: func(c *Config) { c.Simulation.Refill = 0 }, message: "Refill"},
		{name: "empty grid", mutate: func(c *Config) { c.Sweep.Refills = nil }, message: "Refills"},
		{name: "grid value", mutate: func(c *Config) { c.Sweep.BaseBets = []float64{2, 0} }, message: "BaseBets"},
		{name: "format", mutate: func(c *Config) { c.Output.Formats = []string{"png"} }, message: "png"},
		{name: "database host", mutate: func(c *Config) { c.Database.Host = "" }, message: "Host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(validConfigPath)
			if err != nil {
				t.Fatalf(expectedNoErrorLoadingConfig, err)
			}
			tt.mutate(cfg)

			err = Validate(cfg)
			if err == nil {
				t.Fatalf("expected validation error for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("expected error to mention %q, got %v", tt.message, err)
			}
		})
	}
}

// TestValidateCrossField tests rules spanning several sections
func TestValidateCrossField(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = "production"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected SSL requirement in production")
	}

	cfg.Database.SSLMode = "require"
	cfg.Sweep.MinWins = 200
	if err := Validate(cfg); err == nil {
		t.Fatal("expected min_wins bound violation")
	}

	cfg.Sweep.MinWins = 80
	cfg.Data.Group = ""
	cfg.Data.Datasets = nil
	if err := Validate(cfg); err == nil {
		t.Fatal("expected missing dataset selection error")
	}
}

// TestGetDatabaseDSN tests DSN formatting
func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: 5432, Name: "sim", User: "u", Password: "p", SSLMode: "disable"}}
	want := "postgres://u:p@db:5432/sim?sslmode=disable"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// TestSecretsOverlay tests parsing and applying a Secrets Manager payload
func TestSecretsOverlay(t *testing.T) {
	secrets, err := parseSecretData(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"from-aws","database_user":"sim"}`),
	})
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg := &Config{Database: DatabaseConfig{User: "local", Password: "local"}}
	overlaySecretsOnConfig(cfg, secrets)
	if cfg.Database.Password != "from-aws" || cfg.Database.User != "sim" {
		t.Errorf("expected overlay to apply, got %+v", cfg.Database)
	}

	if _, err := parseSecretData(&secretsmanager.GetSecretValueOutput{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
