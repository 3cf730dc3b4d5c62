// Package cache puts a Redis fast-path in front of the geocode and
// distance-matrix caches the pipeline calls on every run, so repeated
// queries for the same address or coordinate pair skip both the
// external oracle and the Postgres round trip.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	redis "github.com/redis/go-redis/v9"

	"gpsnav/internal/geo"
	"gpsnav/internal/model"
	"gpsnav/internal/store"
)

const (
	geocodePrefix  = "geocode:"
	distancePrefix = "distance:"
	entryTTL       = 30 * 24 * time.Hour
)

// RedisCache wraps a store.Store with a Redis read-through layer. Misses
// fall through to the wrapped store and backfill Redis on the way out.
type RedisCache struct {
	rdb  *redis.Client
	next store.Store
}

func NewFromEnv(next store.Store) (*RedisCache, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisCache{rdb: redis.NewClient(opt), next: next}, nil
}

func (c *RedisCache) GetGeocode(ctx context.Context, address string) (geo.GeocodeResult, bool, error) {
	key := geocodePrefix + address
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var res geo.GeocodeResult
		if jsonErr := json.Unmarshal(raw, &res); jsonErr == nil {
			return res, true, nil
		}
	}
	res, ok, err := c.next.GetGeocode(ctx, address)
	if err != nil || !ok {
		return res, ok, err
	}
	c.backfill(ctx, key, res)
	return res, true, nil
}

func (c *RedisCache) PutGeocode(ctx context.Context, address string, result geo.GeocodeResult) error {
	if err := c.next.PutGeocode(ctx, address, result); err != nil {
		return err
	}
	c.backfill(ctx, geocodePrefix+address, result)
	return nil
}

func (c *RedisCache) GetDistance(ctx context.Context, key string) (store.DistancePairResult, bool, error) {
	rkey := distancePrefix + key
	raw, err := c.rdb.Get(ctx, rkey).Bytes()
	if err == nil {
		var res store.DistancePairResult
		if jsonErr := json.Unmarshal(raw, &res); jsonErr == nil {
			return res, true, nil
		}
	}
	res, ok, err := c.next.GetDistance(ctx, key)
	if err != nil || !ok {
		return res, ok, err
	}
	c.backfill(ctx, rkey, res)
	return res, true, nil
}

func (c *RedisCache) PutDistance(ctx context.Context, key string, result store.DistancePairResult) error {
	if err := c.next.PutDistance(ctx, key, result); err != nil {
		return err
	}
	c.backfill(ctx, distancePrefix+key, result)
	return nil
}

func (c *RedisCache) backfill(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, data, entryTTL).Err()
}

// Weekly-solution snapshots and optimizer config are run-scoped, not
// looked up per coordinate pair, so they pass through to the wrapped
// store without a Redis fast path.

func (c *RedisCache) SaveWeeklySolution(ctx context.Context, runID string, sol model.WeeklySolution) error {
	return c.next.SaveWeeklySolution(ctx, runID, sol)
}

func (c *RedisCache) ListWeeklySolutions(ctx context.Context, runID string) ([]model.WeeklySolution, error) {
	return c.next.ListWeeklySolutions(ctx, runID)
}

func (c *RedisCache) GetOptimizerConfig(ctx context.Context, key string) (map[string]any, error) {
	return c.next.GetOptimizerConfig(ctx, key)
}

func (c *RedisCache) SaveOptimizerConfig(ctx context.Context, key string, cfg map[string]any) error {
	return c.next.SaveOptimizerConfig(ctx, key, cfg)
}
