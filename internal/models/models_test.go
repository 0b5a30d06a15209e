package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultLine(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		result Result
		line   int
	}{
		{name: "underdog win with separator", field: "W +150", result: ResultWin, line: 150},
		{name: "favorite loss with separator", field: "L -110", result: ResultLoss, line: -110},
		{name: "compact form", field: "W+150", result: ResultWin, line: 150},
		{name: "compact favorite", field: "L-125", result: ResultLoss, line: -125},
		{name: "unsigned line", field: "W 105", result: ResultWin, line: 105},
		{name: "lower case marker", field: "w-200", result: ResultWin, line: -200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, line, err := ParseResultLine(tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.result, result)
			assert.Equal(t, tt.line, line)
		})
	}
}

func TestParseResultLineRejectsMalformed(t *testing.T) {
	for _, field := range []string{"", "W", "T +100", "W +abc", "L /"} {
		_, _, err := ParseResultLine(field)
		assert.True(t, errors.Is(err, ErrInvalidRecord), "field %q", field)
	}
}

func TestParsePolicy(t *testing.T) {
	policy, err := ParsePolicy(" Martingale ")
	require.NoError(t, err)
	assert.Equal(t, PolicyMartingale, policy)

	_, err = ParsePolicy("kelly")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestStakeParamsValidate(t *testing.T) {
	assert.NoError(t, StakeParams{BaseBet: 4, StartBalance: 50, Refill: 2}.Validate())
	assert.ErrorIs(t, StakeParams{BaseBet: 0, Refill: 2}.Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, StakeParams{BaseBet: -1, Refill: 2}.Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, StakeParams{BaseBet: 4, Refill: 0}.Validate(), ErrInvalidParameter)

	nonFinite := []StakeParams{
		{BaseBet: math.NaN(), StartBalance: 50, Refill: 2},
		{BaseBet: math.Inf(1), StartBalance: 50, Refill: 2},
		{BaseBet: 4, StartBalance: 50, Refill: math.NaN()},
		{BaseBet: 4, StartBalance: 50, Refill: math.Inf(1)},
		{BaseBet: 4, StartBalance: math.NaN(), Refill: 2},
		{BaseBet: 4, StartBalance: math.Inf(-1), Refill: 2},
		{BaseBet: 4, StartBalance: 50, Refill: 2000},
	}
	for _, params := range nonFinite {
		assert.ErrorIs(t, params.Validate(), ErrInvalidParameter, params.String())
	}
	assert.NoError(t, StakeParams{BaseBet: 1, StartBalance: 0, Refill: 60}.Validate())
}

func TestSeasonSetPreservesInsertionOrder(t *testing.T) {
	set := NewSeasonSet()
	set.Put(&SeasonResult{ID: "nyy21"})
	set.Put(&SeasonResult{ID: "bos21"})
	set.Put(&SeasonResult{ID: "atl19"})
	set.Put(&SeasonResult{ID: "bos21", Refills: 3})

	assert.Equal(t, []string{"nyy21", "bos21", "atl19"}, set.IDs())
	assert.Equal(t, 3, set.Len())

	bos, ok := set.Get("bos21")
	require.True(t, ok)
	assert.Equal(t, 3, bos.Refills)

	results := set.Results()
	require.Len(t, results, 3)
	assert.Equal(t, "atl19", results[2].ID)
}

func TestSeasonResultSummary(t *testing.T) {
	season := &SeasonResult{Rows: []SeasonRow{
		{GameRecord: GameRecord{Order: 1, Result: ResultWin, Line: 120}, Earnings: 4.8},
		{GameRecord: GameRecord{Order: 2, Result: ResultLoss, Line: -110}, Earnings: 0.8},
		{GameRecord: GameRecord{Order: 3, Result: ResultWin, Line: -150}, Earnings: 3.47},
	}}
	assert.Equal(t, 2, season.Wins())

	final, err := season.FinalEarnings()
	require.NoError(t, err)
	assert.Equal(t, 3.47, final)

	_, err = (&SeasonResult{}).FinalEarnings()
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestGridRowValue(t *testing.T) {
	row := GridSearchRow{Name: "det21", Wins: 77, BaseBet: 4, StartBalance: 50, Refill: 2, Earnings: -12.5}
	v, err := row.Value(ColumnWins)
	require.NoError(t, err)
	assert.Equal(t, 77.0, v)

	_, err = row.Value(ColumnTestStat)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	stats := GridStatsRow{TestStat: 0.42}
	v, err = stats.Value(ColumnTestStat)
	require.NoError(t, err)
	assert.Equal(t, 0.42, v)
}
