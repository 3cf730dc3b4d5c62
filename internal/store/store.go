// Package store persists the geocode cache, distance-pair cache,
// optimizer config, and weekly-solution snapshots the pipeline produces.
// Store is intentionally small: this pipeline has no multi-tenant HTTP
// API, only a cache/snapshot persistence need between runs.
package store

import (
	"context"
	"errors"

	"gpsnav/internal/geo"
	"gpsnav/internal/model"
)

var ErrNotFound = errors.New("not found")

// DistancePairResult is an alias for geo.DistanceResult so any Store
// implementation automatically satisfies geo.DistanceCache and can be
// wrapped directly by a geo.CachingOracle, without internal/geo needing
// to import this package back.
type DistancePairResult = geo.DistanceResult

// Store is the persistence interface the pipeline depends on.
type Store interface {
	geo.GeocodeCache
	geo.DistanceCache

	SaveWeeklySolution(ctx context.Context, runID string, sol model.WeeklySolution) error
	ListWeeklySolutions(ctx context.Context, runID string) ([]model.WeeklySolution, error)

	GetOptimizerConfig(ctx context.Context, key string) (map[string]any, error)
	SaveOptimizerConfig(ctx context.Context, key string, cfg map[string]any) error
}

// DistanceCacheKey matches the source guide's "%.6f,%.6f|%.6f,%.6f" format
// so a cache populated against either implementation stays compatible.
// It delegates to geo.DistanceCacheKey, the canonical implementation.
func DistanceCacheKey(lat1, lon1, lat2, lon2 float64) string {
	return geo.DistanceCacheKey(lat1, lon1, lat2, lon2)
}
