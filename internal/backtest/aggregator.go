package backtest

import (
	"fmt"
	"sort"

	"github.com/yourusername/martingale-lab/internal/models"
)

// Aggregate condenses every season of a set into a TeamSummary, ordered by
// ascending wins. Ties keep the set's insertion order.
func Aggregate(set *models.SeasonSet) ([]models.TeamSummary, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: season set is nil", models.ErrInvalidParameter)
	}

	summaries := make([]models.TeamSummary, 0, set.Len())
	for _, result := range set.Results() {
		earnings, err := result.FinalEarnings()
		if err != nil {
			return nil, fmt.Errorf("season %s: %w", result.ID, err)
		}
		summaries = append(summaries, models.TeamSummary{
			Name:     result.ID,
			Wins:     result.Wins(),
			Earnings: earnings,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Wins < summaries[j].Wins
	})
	return summaries, nil
}

// FilterMinWins keeps summaries with at least minWins wins, preserving order
func FilterMinWins(summaries []models.TeamSummary, minWins int) []models.TeamSummary {
	kept := make([]models.TeamSummary, 0, len(summaries))
	for _, summary := range summaries {
		if summary.Wins >= minWins {
			kept = append(kept, summary)
		}
	}
	return kept
}
