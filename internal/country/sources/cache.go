package sources

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"countryapi/internal/country/models"
)

const rateCacheKey = "countries:rates:" + BaseCurrency

// RateFetcher is satisfied by RateClient and CachedRateClient.
type RateFetcher interface {
	FetchRates(ctx context.Context) (models.RateTable, error)
}

// RateCache is the subset of the go-redis client the cache uses.
type RateCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CachedRateClient serves rate tables from Redis while they are fresh and
// falls through to the upstream source otherwise. Cache faults are logged and
// never fail a fetch; upstream faults are returned unchanged.
type CachedRateClient struct {
	next   RateFetcher
	cache  RateCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRateClient decorates next with a Redis cache holding tables for ttl.
func NewCachedRateClient(next RateFetcher, cache RateCache, ttl time.Duration, logger *slog.Logger) *CachedRateClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRateClient{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedRateClient) FetchRates(ctx context.Context) (models.RateTable, error) {
	if table, ok := c.load(ctx); ok {
		return table, nil
	}

	table, err := c.next.FetchRates(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, table)
	return table, nil
}

func (c *CachedRateClient) load(ctx context.Context) (models.RateTable, bool) {
	raw, err := c.cache.Get(ctx, rateCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "rate cache read failed", "error", err)
		}
		return nil, false
	}
	var table models.RateTable
	if err := json.Unmarshal(raw, &table); err != nil || len(table) == 0 {
		c.logger.WarnContext(ctx, "discarding unreadable rate cache entry", "error", err)
		return nil, false
	}
	return table, true
}

func (c *CachedRateClient) store(ctx context.Context, table models.RateTable) {
	raw, err := json.Marshal(table)
	if err != nil {
		c.logger.WarnContext(ctx, "rate cache encode failed", "error", err)
		return
	}
	if err := c.cache.Set(ctx, rateCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "rate cache write failed", "error", err)
	}
}
