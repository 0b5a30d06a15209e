// Package config provides configuration management for the martingale simulator.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxSeasonGames = 163

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("policy", validatePolicy)
	v.RegisterValidation("sweepmode", validateSweepMode)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validatePolicy(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "baseline", "martingale":
		return true
	default:
		return false
	}
}

func validateSweepMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "team", "season":
		return true
	default:
		return false
	}
}

// validateCrossField checks rules spanning more than one field
func validateCrossField(cfg *Config) error {
	if cfg.Data.Group == "" && len(cfg.Data.Datasets) == 0 {
		return fmt.Errorf("data.group or data.datasets must be set")
	}

	if cfg.Sweep.MinWins > maxSeasonGames {
		return fmt.Errorf("sweep.min_wins %d exceeds the length of a season", cfg.Sweep.MinWins)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Path != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/'")
	}

	if cfg.IsProduction() && cfg.Database.Enabled && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' is required\n", field))
		case "min", "max":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag))
		case "gt", "gte", "lt", "lte":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag))
		case "environment":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field))
		case "loglevel":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field))
		case "policy":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' must be one of: baseline, martingale\n", field))
		case "sweepmode":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' must be one of: team, season\n", field))
		case "oneof":
			errMsg.WriteString(fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value))
		default:
			errMsg.WriteString(fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag))
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg.String())
}
