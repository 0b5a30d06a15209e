package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/martingale-lab/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// CSV file data source type
	CSVSourceType SourceType = "csv"
	// Cached CSV file data source type
	CachedCSVSourceType SourceType = "cached_csv"
)

// Factory creates SeasonSource implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config config.DataConfig
}

// NewFactory creates a new data source factory
func NewFactory(cfg config.DataConfig, logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// Create creates a new data source based on the type
func (f *Factory) Create(sourceType SourceType) (SeasonSource, error) {
	switch sourceType {
	case CSVSourceType:
		return NewCSVSource(f.config.Directory, f.logger), nil
	case CachedCSVSourceType:
		return f.cached(), nil
	default:
		return nil, fmt.Errorf("unknown data source type: %s", sourceType)
	}
}

// Default returns the cached CSV source used by the CLI and sweeps
func (f *Factory) Default() SeasonSource {
	return f.cached()
}

func (f *Factory) cached() *CachedSource {
	ttl := time.Duration(f.config.CacheTTLSeconds) * time.Second
	return NewCachedSource(NewCSVSource(f.config.Directory, f.logger), ttl, f.logger)
}

// ListAvailableSources returns a list of available source types
func (f *Factory) ListAvailableSources() []SourceType {
	return []SourceType{CSVSourceType, CachedCSVSourceType}
}

// Datasets returns the configured dataset ids
func (f *Factory) Datasets() ([]string, error) {
	return ResolveDatasets(f.config.Group, f.config.Datasets)
}
