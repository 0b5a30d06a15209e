package backtest

import (
	"fmt"
	"math/big"

	"github.com/yourusername/martingale-lab/internal/models"
)

const sqrtPrecision = 256

// EarningsStats summarises final earnings across team-seasons
type EarningsStats struct {
	Mean     float64
	StdDev   float64
	PctPos   float64
	TestStat float64
	Samples  int
}

// Mean returns the arithmetic mean of values, correctly rounded
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: mean requires at least one value", models.ErrInsufficientData)
	}
	mean, _ := exactMean(values).Float64()
	return mean, nil
}

// SampleStdDev returns the sample (n-1) standard deviation of values
func SampleStdDev(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, fmt.Errorf("%w: standard deviation requires at least two values, got %d", models.ErrInsufficientData, len(values))
	}

	mean := exactMean(values)
	sumSquares := new(big.Rat)
	for _, v := range values {
		diff := new(big.Rat).Sub(ratOf(v), mean)
		sumSquares.Add(sumSquares, diff.Mul(diff, diff))
	}
	variance := sumSquares.Quo(sumSquares, new(big.Rat).SetInt64(int64(len(values)-1)))

	root := new(big.Float).SetPrec(sqrtPrecision).SetRat(variance)
	root.Sqrt(root)
	sd, _ := root.Float64()
	return sd, nil
}

func exactMean(values []float64) *big.Rat {
	sum := new(big.Rat)
	for _, v := range values {
		sum.Add(sum, ratOf(v))
	}
	return sum.Quo(sum, new(big.Rat).SetInt64(int64(len(values))))
}

func ratOf(v float64) *big.Rat {
	return new(big.Rat).SetFloat64(v)
}

// SummarizeEarnings computes the per-combination statistics of a season
// sweep. All outputs are rounded to two decimals, and the test statistic is
// computed from the rounded mean and deviation.
func SummarizeEarnings(summaries []models.TeamSummary) (EarningsStats, error) {
	if len(summaries) < 2 {
		return EarningsStats{}, fmt.Errorf("%w: need at least two team-seasons, got %d", models.ErrInsufficientData, len(summaries))
	}

	earnings := make([]float64, len(summaries))
	positive := 0
	for i, summary := range summaries {
		earnings[i] = summary.Earnings
		if summary.Earnings > 0 {
			positive++
		}
	}

	mean, err := Mean(earnings)
	if err != nil {
		return EarningsStats{}, err
	}
	sd, err := SampleStdDev(earnings)
	if err != nil {
		return EarningsStats{}, err
	}

	avg := Round2(mean)
	dev := Round2(sd)
	if dev == 0 {
		return EarningsStats{}, fmt.Errorf("%w: earnings have zero deviation", models.ErrInsufficientData)
	}

	return EarningsStats{
		Mean:     avg,
		StdDev:   dev,
		PctPos:   Round2(float64(100*positive) / float64(len(summaries))),
		TestStat: Round2(avg / dev),
		Samples:  len(summaries),
	}, nil
}
