package sources

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countryapi/internal/country/models"
)

type stubRates struct {
	table models.RateTable
	err   error
	calls int
}

func (s *stubRates) FetchRates(context.Context) (models.RateTable, error) {
	s.calls++
	return s.table, s.err
}

type fakeCache struct {
	values  map[string]string
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func (f *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if f.getErr != nil {
		cmd.SetErr(f.getErr)
		return cmd
	}
	v, ok := f.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)
	if f.setErr != nil {
		cmd.SetErr(f.setErr)
		return cmd
	}
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = string(value.([]byte))
	f.lastTTL = expiration
	cmd.SetVal("OK")
	return cmd
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCachedRateClient(t *testing.T) {
	ctx := context.Background()

	t.Run("miss fetches upstream and stores the table", func(t *testing.T) {
		upstream := &stubRates{table: models.RateTable{"EUR": 0.9}}
		cache := &fakeCache{}
		c := NewCachedRateClient(upstream, cache, time.Hour, discardLogger())

		table, err := c.FetchRates(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.9, table["EUR"])
		assert.Equal(t, 1, upstream.calls)
		assert.Equal(t, time.Hour, cache.lastTTL)
		assert.JSONEq(t, `{"EUR":0.9}`, cache.values[rateCacheKey])
	})

	t.Run("hit skips upstream", func(t *testing.T) {
		upstream := &stubRates{}
		cache := &fakeCache{values: map[string]string{rateCacheKey: `{"GBP":0.8}`}}
		c := NewCachedRateClient(upstream, cache, time.Hour, discardLogger())

		table, err := c.FetchRates(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.8, table["GBP"])
		assert.Zero(t, upstream.calls)
	})

	t.Run("cache faults fall through to upstream", func(t *testing.T) {
		upstream := &stubRates{table: models.RateTable{"EUR": 0.9}}
		cache := &fakeCache{getErr: errors.New("connection reset"), setErr: errors.New("connection reset")}
		c := NewCachedRateClient(upstream, cache, time.Hour, discardLogger())

		table, err := c.FetchRates(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.9, table["EUR"])
	})

	t.Run("corrupt entry is ignored", func(t *testing.T) {
		upstream := &stubRates{table: models.RateTable{"EUR": 0.9}}
		cache := &fakeCache{values: map[string]string{rateCacheKey: `garbage`}}
		c := NewCachedRateClient(upstream, cache, time.Hour, discardLogger())

		_, err := c.FetchRates(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, upstream.calls)
	})

	t.Run("upstream failure is returned unchanged", func(t *testing.T) {
		srcErr := &SourceError{Source: SourceRates, Err: errors.New("timeout")}
		upstream := &stubRates{err: srcErr}
		c := NewCachedRateClient(upstream, &fakeCache{}, time.Hour, discardLogger())

		_, err := c.FetchRates(ctx)
		assert.Same(t, srcErr, err)
	})
}
