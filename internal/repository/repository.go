package repository

import (
	"errors"
	"fmt"

	"github.com/yourusername/martingale-lab/internal/database"
)

// ErrNotFound is returned when a requested sweep run does not exist
var ErrNotFound = errors.New("record not found")

// Repositories holds all repository implementations
type Repositories struct {
	SweepRuns SweepRunRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		SweepRuns: NewPostgresSweepRunRepository(db),
	}, nil
}
