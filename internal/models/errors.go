package models

import "errors"

// Simulation errors
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrEmptyResult      = errors.New("season has no games")
	ErrInsufficientData = errors.New("insufficient data")
)

// Loader errors
var (
	ErrInvalidRecord   = errors.New("invalid game record")
	ErrDatasetNotFound = errors.New("dataset not found")
)
