package backtest

import (
	"encoding/json"

	"github.com/yourusername/martingale-lab/internal/models"
)

// SeasonMetrics represents the performance of one simulated team-season
type SeasonMetrics struct {
	ID                  string  `json:"id"`
	Games               int     `json:"games"`
	Wins                int     `json:"wins"`
	Losses              int     `json:"losses"`
	WinRate             float64 `json:"win_rate"`
	UnderdogWins        int     `json:"underdog_wins"`
	FinalEarnings       float64 `json:"final_earnings"`
	PeakEarnings        float64 `json:"peak_earnings"`
	LowestEarnings      float64 `json:"lowest_earnings"`
	MaxDrawdown         float64 `json:"max_drawdown"`
	LargestBet          float64 `json:"largest_bet"`
	LargestWin          float64 `json:"largest_win"`
	LargestLoss         float64 `json:"largest_loss"`
	LongestLosingStreak int     `json:"longest_losing_streak"`
	Refills             int     `json:"refills"`
}

// CalculateMetrics calculates metrics from a season result
func CalculateMetrics(result *models.SeasonResult) SeasonMetrics {
	if result == nil {
		return SeasonMetrics{}
	}
	metrics := SeasonMetrics{
		ID:      result.ID,
		Games:   len(result.Rows),
		Refills: result.Refills,
	}
	if len(result.Rows) == 0 {
		return metrics
	}

	streak := 0
	peak := 0.0
	for i, row := range result.Rows {
		if row.Result.IsWin() {
			metrics.Wins++
			streak = 0
			if row.IsUnderdog() {
				metrics.UnderdogWins++
			}
		} else {
			metrics.Losses++
			streak++
			if streak > metrics.LongestLosingStreak {
				metrics.LongestLosingStreak = streak
			}
		}

		if i == 0 || row.Earnings > metrics.PeakEarnings {
			metrics.PeakEarnings = row.Earnings
		}
		if i == 0 || row.Earnings < metrics.LowestEarnings {
			metrics.LowestEarnings = row.Earnings
		}
		if row.Earnings > peak {
			peak = row.Earnings
		}
		if drawdown := peak - row.Earnings; drawdown > metrics.MaxDrawdown {
			metrics.MaxDrawdown = drawdown
		}

		if row.Bet > metrics.LargestBet {
			metrics.LargestBet = row.Bet
		}
		if row.Payout > metrics.LargestWin {
			metrics.LargestWin = row.Payout
		}
		if row.Payout < metrics.LargestLoss {
			metrics.LargestLoss = row.Payout
		}
	}

	metrics.FinalEarnings = result.Rows[len(result.Rows)-1].Earnings
	metrics.WinRate = float64(metrics.Wins) / float64(metrics.Games)
	return metrics
}

// CalculateSetMetrics calculates metrics for every season of a set, in set order
func CalculateSetMetrics(set *models.SeasonSet) []SeasonMetrics {
	if set == nil {
		return nil
	}
	out := make([]SeasonMetrics, 0, set.Len())
	for _, result := range set.Results() {
		out = append(out, CalculateMetrics(result))
	}
	return out
}

// ToJSON exports metrics to JSON
func (m SeasonMetrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}
