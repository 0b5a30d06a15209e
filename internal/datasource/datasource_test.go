package datasource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/martingale-lab/internal/config"
	"github.com/yourusername/martingale-lab/internal/models"
)

const sampleSeason = `game,result and moneyline
3,L -110
1,W +150
2,W -200
`

func writeSeason(t *testing.T, dir, id, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".csv"), []byte(body), 0o600))
}

func TestParseSeasonCSVSortsByGame(t *testing.T) {
	records, err := ParseSeasonCSV(strings.NewReader(sampleSeason))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, models.GameRecord{Order: 1, Result: models.ResultWin, Line: 150}, records[0])
	assert.Equal(t, models.GameRecord{Order: 2, Result: models.ResultWin, Line: -200}, records[1])
	assert.Equal(t, models.GameRecord{Order: 3, Result: models.ResultLoss, Line: -110}, records[2])
}

func TestParseSeasonCSVExtraColumns(t *testing.T) {
	body := "date,Game,opponent,Result and Moneyline\n2021-04-01,1,TOR,W+120\n\n2021-04-02,2,TOR,L-105\n"
	records, err := ParseSeasonCSV(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 120, records[0].Line)
	assert.Equal(t, models.ResultLoss, records[1].Result)
}

func TestParseSeasonCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"empty file", "", models.ErrInvalidRecord},
		{"missing column", "game,result\n1,W\n", models.ErrInvalidRecord},
		{"bad game number", "game,result and moneyline\nx,W +100\n", models.ErrInvalidRecord},
		{"bad marker", "game,result and moneyline\n1,T +100\n", models.ErrInvalidRecord},
		{"bad line", "game,result and moneyline\n1,W abc\n", models.ErrInvalidRecord},
		{"header only", "game,result and moneyline\n", ErrEmptySeason},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeasonCSV(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCSVSourceLoadSeason(t *testing.T) {
	dir := t.TempDir()
	writeSeason(t, dir, "nyy21", sampleSeason)

	source := NewCSVSource(dir, nil)
	assert.Equal(t, "csv", source.Name())

	records, err := source.LoadSeason(context.Background(), "nyy21")
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, 1, records[0].Order)
}

func TestCSVSourceMissingFile(t *testing.T) {
	source := NewCSVSource(t.TempDir(), nil)

	_, err := source.LoadSeason(context.Background(), "bos21")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDatasetNotFound)

	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeNotFound, dsErr.Code)
}

func TestCSVSourceRejectsZeroLine(t *testing.T) {
	dir := t.TempDir()
	writeSeason(t, dir, "tex21", "game,result and moneyline\n1,W +0\n")

	_, err := NewCSVSource(dir, nil).LoadSeason(context.Background(), "tex21")
	assert.ErrorIs(t, err, models.ErrInvalidRecord)
}

func TestCSVSourceCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSVSource(t.TempDir(), nil).LoadSeason(ctx, "nyy21")
	assert.ErrorIs(t, err, context.Canceled)
}

type countingSource struct {
	inner SeasonSource
	calls atomic.Int32
}

func (c *countingSource) LoadSeason(ctx context.Context, id string) ([]models.GameRecord, error) {
	c.calls.Add(1)
	return c.inner.LoadSeason(ctx, id)
}

func (c *countingSource) Name() string { return "counting" }

func TestCachedSourceLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	writeSeason(t, dir, "nyy21", sampleSeason)

	counting := &countingSource{inner: NewCSVSource(dir, nil)}
	cached := NewCachedSource(counting, 0, nil)
	assert.Equal(t, "cached_counting", cached.Name())

	first, err := cached.LoadSeason(context.Background(), "nyy21")
	require.NoError(t, err)
	first[0].Line = 999

	second, err := cached.LoadSeason(context.Background(), "nyy21")
	require.NoError(t, err)

	assert.Equal(t, int32(1), counting.calls.Load())
	assert.Equal(t, 150, second[0].Line, "callers must not be able to mutate cached records")
	assert.Equal(t, 1, cached.Len())

	cached.Invalidate("nyy21")
	assert.Equal(t, 0, cached.Len())
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	counting := &countingSource{inner: NewCSVSource(t.TempDir(), nil)}
	cached := NewCachedSource(counting, 0, nil)

	_, err := cached.LoadSeason(context.Background(), "missing")
	require.Error(t, err)
	_, err = cached.LoadSeason(context.Background(), "missing")
	require.Error(t, err)

	assert.Equal(t, int32(2), counting.calls.Load())
}

func TestDatasets(t *testing.T) {
	assert.Len(t, Datasets("AL21"), 15)
	assert.Len(t, Datasets("nl19"), 15)
	assert.Len(t, Datasets(GroupAll), 60)
	assert.Len(t, Datasets(""), 60)

	all := Datasets(GroupAll)
	assert.Equal(t, "det21", all[0])
	assert.Equal(t, "ari19", all[len(all)-1])
}

func TestResolveDatasets(t *testing.T) {
	ids, err := ResolveDatasets("AL21", []string{"nyy21", " bos21 ", "nyy21"})
	require.NoError(t, err)
	assert.Equal(t, []string{"nyy21", "bos21"}, ids)

	ids, err = ResolveDatasets("NL21", nil)
	require.NoError(t, err)
	assert.Equal(t, Datasets("NL21"), ids)

	_, err = ResolveDatasets("", []string{""})
	assert.Error(t, err)
}

func TestLeagueOfAndColor(t *testing.T) {
	tests := []struct {
		id     string
		league League
		color  string
	}{
		{"nyy21", LeagueAL21, "r"},
		{"lad21", LeagueNL21, "b"},
		{"hou19", LeagueAL19, "darkorange"},
		{"atl19", LeagueNL19, "darkviolet"},
		{"nyy98", LeagueOther, "g"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			league := LeagueOf(tt.id)
			assert.Equal(t, tt.league, league)
			assert.Equal(t, tt.color, league.Color())
		})
	}
}

func TestFactoryCreate(t *testing.T) {
	factory := NewFactory(config.DataConfig{Directory: t.TempDir(), Group: "AL19"}, nil)

	csvSource, err := factory.Create(CSVSourceType)
	require.NoError(t, err)
	assert.IsType(t, &CSVSource{}, csvSource)

	assert.IsType(t, &CachedSource{}, factory.Default())

	_, err = factory.Create("betfair")
	assert.Error(t, err)

	ids, err := factory.Datasets()
	require.NoError(t, err)
	assert.Equal(t, Datasets("AL19"), ids)
}

func TestFactoryDefaultIsCachedCSV(t *testing.T) {
	dir := t.TempDir()
	writeSeason(t, dir, "nyy21", "game,result and moneyline\n1,W +100\n2,L -120\n")
	factory := NewFactory(config.DataConfig{Directory: dir, CacheTTLSeconds: 60}, nil)

	source := factory.Default()
	require.NotNil(t, source)
	assert.Equal(t, string(CachedCSVSourceType), source.Name())

	records, err := source.LoadSeason(context.Background(), "nyy21")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	cached, ok := source.(*CachedSource)
	require.True(t, ok)
	assert.Equal(t, 1, cached.Len())
}
