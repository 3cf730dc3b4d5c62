package geo

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Pair is one cell request/response of a distance-matrix batch.
type Pair struct {
	OriginLat, OriginLon float64
	DestLat, DestLon     float64
}

// PairResult is one resolved cell: driving distance (km) and time (min).
type PairResult struct {
	DistKm  float64
	TimeMin int
	Ok      bool // false if the oracle could not resolve this cell
}

// batchSize is the collaborator-enforced limit: at most 10x10 pairs per
// request (spec §5, §6).
const batchSize = 10

// Oracle resolves driving distance/time for batches of origin/destination
// pairs. Implementations must tolerate partial failure: an unresolved
// cell comes back with Ok == false rather than an error, so the caller
// can fall back per-cell.
type Oracle interface {
	// BatchDistances resolves up to batchSize*batchSize pairs per call;
	// callers are responsible for chunking larger requests.
	BatchDistances(ctx context.Context, pairs []Pair) ([]PairResult, error)
}

// HaversineOracle never calls out; every cell is Haversine x RoadFactor
// with time derived from averageSpeedKmh. It is always available and is
// the terminal fallback tier.
type HaversineOracle struct {
	AverageSpeedKmh float64
}

func (h HaversineOracle) BatchDistances(_ context.Context, pairs []Pair) ([]PairResult, error) {
	speed := h.AverageSpeedKmh
	if speed <= 0 {
		speed = 40
	}
	out := make([]PairResult, len(pairs))
	for i, p := range pairs {
		d := RoadDistanceKm(p.OriginLat, p.OriginLon, p.DestLat, p.DestLon)
		t := int(d/speed*60 + 0.5)
		out[i] = PairResult{DistKm: d, TimeMin: t, Ok: true}
	}
	return out, nil
}

// RateLimitedOracle wraps another Oracle with a token-bucket limiter,
// for the free-tier fallback service named in the source guide.
type RateLimitedOracle struct {
	Inner   Oracle
	Limiter *rate.Limiter
}

// NewRateLimitedOracle paces calls at the given requests-per-second rate.
func NewRateLimitedOracle(inner Oracle, rps float64, burst int) *RateLimitedOracle {
	return &RateLimitedOracle{Inner: inner, Limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *RateLimitedOracle) BatchDistances(ctx context.Context, pairs []Pair) ([]PairResult, error) {
	if err := r.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return r.Inner.BatchDistances(ctx, pairs)
}

// FallbackOracle tries Primary first; any cell it fails to resolve (Ok ==
// false) or any call-level error is patched from Fallback, which must
// never itself fail (HaversineOracle satisfies this). degraded is set
// true if any cell needed the fallback, per the OracleFailure taxonomy.
type FallbackOracle struct {
	Primary  Oracle
	Fallback Oracle
}

func (f FallbackOracle) BatchDistances(ctx context.Context, pairs []Pair) ([]PairResult, []bool, error) {
	degraded := make([]bool, len(pairs))
	primary, err := f.Primary.BatchDistances(ctx, pairs)
	if err != nil {
		primary = make([]PairResult, len(pairs))
		for i := range degraded {
			degraded[i] = true
		}
	}
	missing := []Pair{}
	missingIdx := []int{}
	for i, r := range primary {
		if !r.Ok {
			degraded[i] = true
			missing = append(missing, pairs[i])
			missingIdx = append(missingIdx, i)
		}
	}
	if len(missing) > 0 {
		fb, ferr := f.Fallback.BatchDistances(ctx, missing)
		if ferr != nil {
			return nil, nil, fmt.Errorf("fallback oracle: %w", ferr)
		}
		for j, idx := range missingIdx {
			primary[idx] = fb[j]
		}
	}
	return primary, degraded, nil
}

// DistanceResult is one cached distance-matrix cell.
type DistanceResult struct {
	DistKm  float64
	TimeMin int
}

// DistanceCache is the minimal persistence seam a caching oracle needs;
// internal/store and internal/cache both satisfy it.
type DistanceCache interface {
	GetDistance(ctx context.Context, key string) (DistanceResult, bool, error)
	PutDistance(ctx context.Context, key string, result DistanceResult) error
}

// DistanceCacheKey matches the source guide's "%.6f,%.6f|%.6f,%.6f" format
// so a cache populated against either implementation stays compatible.
func DistanceCacheKey(originLat, originLon, destLat, destLon float64) string {
	return fmt.Sprintf("%.6f,%.6f|%.6f,%.6f", originLat, originLon, destLat, destLon)
}

// CachingOracle checks Cache before calling Inner, writing every
// newly-resolved cell back so a repeated pipeline run against a warm
// cache skips the oracle entirely for pairs it has already seen.
type CachingOracle struct {
	Cache DistanceCache
	Inner Oracle
}

func NewCachingOracle(cache DistanceCache, inner Oracle) *CachingOracle {
	return &CachingOracle{Cache: cache, Inner: inner}
}

func (c *CachingOracle) BatchDistances(ctx context.Context, pairs []Pair) ([]PairResult, error) {
	out := make([]PairResult, len(pairs))
	var missPairs []Pair
	var missIdx []int

	for i, p := range pairs {
		key := DistanceCacheKey(p.OriginLat, p.OriginLon, p.DestLat, p.DestLon)
		if cached, ok, err := c.Cache.GetDistance(ctx, key); err == nil && ok {
			out[i] = PairResult{DistKm: cached.DistKm, TimeMin: cached.TimeMin, Ok: true}
			continue
		}
		missPairs = append(missPairs, p)
		missIdx = append(missIdx, i)
	}

	if len(missPairs) == 0 {
		return out, nil
	}

	resolved, err := c.Inner.BatchDistances(ctx, missPairs)
	if err != nil {
		return nil, err
	}
	for j, i := range missIdx {
		out[i] = resolved[j]
		if resolved[j].Ok {
			key := DistanceCacheKey(pairs[i].OriginLat, pairs[i].OriginLon, pairs[i].DestLat, pairs[i].DestLon)
			_ = c.Cache.PutDistance(ctx, key, DistanceResult{DistKm: resolved[j].DistKm, TimeMin: resolved[j].TimeMin})
		}
	}
	return out, nil
}

// timeout is the implicit oracle timeout of at least tens of seconds per
// batch (spec §5).
const timeout = 30 * time.Second
