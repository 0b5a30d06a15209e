package datasource

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/martingale-lab/internal/metrics"
	"github.com/yourusername/martingale-lab/internal/models"
)

// CachedSource memoizes parsed seasons so a sweep reads each file once
type CachedSource struct {
	source SeasonSource
	cache  *cache.Cache
	logger *logrus.Logger
}

// NewCachedSource wraps source with an in-memory cache. A ttl of zero keeps
// entries for the life of the process.
func NewCachedSource(source SeasonSource, ttl time.Duration, logger *logrus.Logger) *CachedSource {
	if logger == nil {
		logger = logrus.New()
	}
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = 2 * ttl
	}
	return &CachedSource{
		source: source,
		cache:  cache.New(expiration, cleanup),
		logger: logger,
	}
}

// Name returns the name of the wrapped data source
func (c *CachedSource) Name() string {
	return "cached_" + c.source.Name()
}

// LoadSeason returns a copy of the cached season, loading it on a miss
func (c *CachedSource) LoadSeason(ctx context.Context, id string) ([]models.GameRecord, error) {
	if cached, found := c.cache.Get(id); found {
		metrics.RecordCacheLookup(true)
		return cloneRecords(cached.([]models.GameRecord)), nil
	}
	metrics.RecordCacheLookup(false)

	records, err := c.source.LoadSeason(ctx, id)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(id, cloneRecords(records))
	metrics.UpdateCacheItems(c.cache.ItemCount())
	c.logger.WithField("season_id", id).Trace("Season cached")

	return records, nil
}

// Invalidate drops one season from the cache
func (c *CachedSource) Invalidate(id string) {
	c.cache.Delete(id)
	metrics.UpdateCacheItems(c.cache.ItemCount())
}

// Flush drops every cached season
func (c *CachedSource) Flush() {
	c.cache.Flush()
	metrics.UpdateCacheItems(0)
}

// Len returns the number of cached seasons
func (c *CachedSource) Len() int {
	return c.cache.ItemCount()
}

func cloneRecords(records []models.GameRecord) []models.GameRecord {
	return append([]models.GameRecord(nil), records...)
}
