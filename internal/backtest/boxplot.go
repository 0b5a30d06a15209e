package backtest

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/martingale-lab/internal/models"
)

// whiskerReach is the IQR multiple beyond which a value is an outlier
const whiskerReach = 1.5

// Columnar is a row whose numeric columns can be looked up by name
type Columnar interface {
	Value(column string) (float64, error)
}

// BoxStats describes the distribution of one level of a box plot
type BoxStats struct {
	Level       float64   `json:"level"`
	Count       int       `json:"count"`
	Min         float64   `json:"min"`
	Q1          float64   `json:"q1"`
	Median      float64   `json:"median"`
	Q3          float64   `json:"q3"`
	Max         float64   `json:"max"`
	WhiskerLow  float64   `json:"whisker_low"`
	WhiskerHigh float64   `json:"whisker_high"`
	Outliers    []float64 `json:"outliers,omitempty"`
}

// BoxPlot groups rows by the distinct values of groupColumn, in ascending
// order, and describes the distribution of valueColumn within each group.
func BoxPlot[T Columnar](rows []T, groupColumn, valueColumn string) ([]BoxStats, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("box plot: %w", models.ErrEmptyResult)
	}

	groups := make(map[float64][]float64)
	for i, row := range rows {
		level, err := row.Value(groupColumn)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		value, err := row.Value(valueColumn)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		groups[level] = append(groups[level], value)
	}

	levels := make([]float64, 0, len(groups))
	for level := range groups {
		levels = append(levels, level)
	}
	sort.Float64s(levels)

	stats := make([]BoxStats, 0, len(levels))
	for _, level := range levels {
		stats = append(stats, describe(level, groups[level]))
	}
	return stats, nil
}

func describe(level float64, values []float64) BoxStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	box := BoxStats{
		Level:  level,
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}

	iqr := box.Q3 - box.Q1
	lowFence := box.Q1 - whiskerReach*iqr
	highFence := box.Q3 + whiskerReach*iqr
	box.WhiskerLow = box.Q1
	box.WhiskerHigh = box.Q3
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		box.WhiskerLow = math.Min(box.WhiskerLow, v)
		box.WhiskerHigh = math.Max(box.WhiskerHigh, v)
	}
	return box
}

// Quantile returns the q-th quantile of sorted values using linear
// interpolation between closest ranks.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
