package geo

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"gpsnav/internal/model"
)

// GeocodeResult is what the geocoding collaborator hands back to the core.
type GeocodeResult struct {
	Coord    model.Coord
	Resolved bool
	Source   string // "cache", "primary", "fallback"
}

// Geocoder resolves an address string to a coordinate, consulting a
// cache first. The core consumes only GeocodeResult; it never sees which
// tier answered.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (GeocodeResult, error)
}

// CachingGeocoder checks Cache before calling Primary, then Fallback
// (rate-limited, per the source guide's free-tier service), recording
// new resolutions back into Cache.
type CachingGeocoder struct {
	Cache    GeocodeCache
	Primary  Geocoder
	Fallback Geocoder
	Limiter  *rate.Limiter
}

// GeocodeCache is the minimal persistence seam a caching geocoder needs;
// internal/store and internal/cache both satisfy it.
type GeocodeCache interface {
	GetGeocode(ctx context.Context, address string) (GeocodeResult, bool, error)
	PutGeocode(ctx context.Context, address string, result GeocodeResult) error
}

func NewCachingGeocoder(cache GeocodeCache, primary, fallback Geocoder, rps float64, burst int) *CachingGeocoder {
	return &CachingGeocoder{Cache: cache, Primary: primary, Fallback: fallback, Limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (g *CachingGeocoder) Geocode(ctx context.Context, address string) (GeocodeResult, error) {
	if cached, ok, err := g.Cache.GetGeocode(ctx, address); err == nil && ok {
		cached.Source = "cache"
		return cached, nil
	}
	if g.Primary != nil {
		if res, err := g.Primary.Geocode(ctx, address); err == nil && res.Resolved {
			res.Source = "primary"
			_ = g.Cache.PutGeocode(ctx, address, res)
			return res, nil
		}
	}
	if g.Fallback != nil {
		if g.Limiter != nil {
			if err := g.Limiter.Wait(ctx); err != nil {
				return GeocodeResult{}, fmt.Errorf("geocode rate limiter: %w", err)
			}
		}
		if res, err := g.Fallback.Geocode(ctx, address); err == nil && res.Resolved {
			res.Source = "fallback"
			_ = g.Cache.PutGeocode(ctx, address, res)
			return res, nil
		}
	}
	return GeocodeResult{Resolved: false}, &model.GeocodingFailure{Reason: "all geocoding tiers exhausted for address " + address}
}

// NullGeocoder always fails. cmd/optimizer uses it as the only tier behind
// the cache, with or without --skip-geocode, so only the cache is
// consulted (a miss surfaces as a GeocodingFailure for that site).
type NullGeocoder struct{}

func (NullGeocoder) Geocode(_ context.Context, address string) (GeocodeResult, error) {
	return GeocodeResult{Resolved: false}, &model.GeocodingFailure{Reason: "no live geocoder configured and no cache entry for " + address}
}
