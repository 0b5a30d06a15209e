package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/martingale-lab/internal/models"
)

const (
	csvSourceName = "csv"

	columnGame          = "game"
	columnResultAndLine = "result and moneyline"
)

// CSVSource loads team-seasons from <dir>/<id>.csv files
type CSVSource struct {
	dir       string
	validator *RecordValidator
	logger    *logrus.Logger
}

// NewCSVSource creates a CSV season source rooted at dir
func NewCSVSource(dir string, logger *logrus.Logger) *CSVSource {
	if logger == nil {
		logger = logrus.New()
	}
	return &CSVSource{
		dir:       dir,
		validator: NewRecordValidator(logger),
		logger:    logger,
	}
}

// Name returns the name of the data source
func (s *CSVSource) Name() string {
	return csvSourceName
}

// Path returns the file a season id resolves to
func (s *CSVSource) Path(id string) string {
	return filepath.Join(s.dir, id+".csv")
}

// LoadSeason reads, parses and orders one team-season
func (s *CSVSource) LoadSeason(ctx context.Context, id string) ([]models.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewDataSourceError(csvSourceName, ErrCodeCancelled, id, err)
	}

	path := s.Path(id)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewDataSourceError(csvSourceName, ErrCodeNotFound, path, models.ErrDatasetNotFound)
		}
		return nil, NewDataSourceError(csvSourceName, ErrCodeIO, path, err)
	}
	defer f.Close()

	records, err := ParseSeasonCSV(f)
	if err != nil {
		return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData, path, err)
	}
	if err := s.validator.ValidateSeason(id, records); err != nil {
		return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData, path, err)
	}

	s.logger.WithFields(logrus.Fields{
		"season_id": id,
		"games":     len(records),
	}).Debug("Season loaded")

	return records, nil
}

// ParseSeasonCSV reads a season file with a "game" column and a combined
// "result and moneyline" column, returning records sorted by game number.
func ParseSeasonCSV(r io.Reader) ([]models.GameRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", models.ErrInvalidRecord)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	gameIdx, lineIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case columnGame:
			gameIdx = i
		case columnResultAndLine:
			lineIdx = i
		}
	}
	if gameIdx < 0 || lineIdx < 0 {
		return nil, fmt.Errorf("%w: header must contain %q and %q", models.ErrInvalidRecord, columnGame, columnResultAndLine)
	}

	var records []models.GameRecord
	for row := 2; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if isBlank(fields) {
			continue
		}
		if gameIdx >= len(fields) || lineIdx >= len(fields) {
			return nil, fmt.Errorf("%w: row %d has %d fields", models.ErrInvalidRecord, row, len(fields))
		}

		order, err := strconv.Atoi(strings.TrimSpace(fields[gameIdx]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d game %q", models.ErrInvalidRecord, row, fields[gameIdx])
		}
		result, line, err := models.ParseResultLine(fields[lineIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		records = append(records, models.GameRecord{Order: order, Result: result, Line: line})
	}

	if len(records) == 0 {
		return nil, ErrEmptySeason
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Order < records[j].Order
	})
	return records, nil
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
