package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/martingale-lab/internal/models"
)

// SeasonSource defines the interface for loading team-season game records
type SeasonSource interface {
	// LoadSeason retrieves the games of one team-season in ascending game order
	LoadSeason(ctx context.Context, id string) ([]models.GameRecord, error)

	// Name returns the name of the data source
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "not_found")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes the underlying error to errors.Is and errors.As
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeNotFound    = "not_found"
	ErrCodeInvalidData = "invalid_data"
	ErrCodeIO          = "io_error"
	ErrCodeCancelled   = "cancelled"
)

// ErrEmptySeason is returned when a season file holds a header but no games
var ErrEmptySeason = errors.New("season has no games")

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
