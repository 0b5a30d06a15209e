package datasource

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/martingale-lab/internal/models"
)

// RecordValidator checks parsed game records before they reach the engine
type RecordValidator struct {
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewRecordValidator creates a new record validator
func NewRecordValidator(logger *logrus.Logger) *RecordValidator {
	if logger == nil {
		logger = logrus.New()
	}
	return &RecordValidator{
		validate: validator.New(),
		logger:   logger,
	}
}

// Validate checks a single record
func (v *RecordValidator) Validate(record models.GameRecord) error {
	if err := v.validate.Struct(record); err != nil {
		return fmt.Errorf("%w: game %d: %v", models.ErrInvalidRecord, record.Order, err)
	}
	return nil
}

// ValidateSeason checks every record of a season
func (v *RecordValidator) ValidateSeason(id string, records []models.GameRecord) error {
	for _, record := range records {
		if err := v.Validate(record); err != nil {
			return fmt.Errorf("season %s: %w", id, err)
		}
	}

	v.logger.WithFields(logrus.Fields{
		"season_id": id,
		"games":     len(records),
	}).Trace("Season records validated")
	return nil
}
