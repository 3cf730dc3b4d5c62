package geo

import (
	"context"
	"sync"
	"testing"

	"gpsnav/internal/model"
)

type fakeCache struct {
	mu    sync.Mutex
	store map[string]GeocodeResult
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string]GeocodeResult{}} }

func (c *fakeCache) GetGeocode(_ context.Context, address string) (GeocodeResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.store[address]
	return r, ok, nil
}

func (c *fakeCache) PutGeocode(_ context.Context, address string, result GeocodeResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[address] = result
	return nil
}

type fakeGeocoder struct {
	result GeocodeResult
	err    error
}

func (g fakeGeocoder) Geocode(_ context.Context, _ string) (GeocodeResult, error) {
	return g.result, g.err
}

func TestCachingGeocoderReturnsCacheHitWithoutCallingPrimary(t *testing.T) {
	cache := newFakeCache()
	want := GeocodeResult{Coord: model.Coord{Lat: 1, Lon: 2}, Resolved: true}
	_ = cache.PutGeocode(context.Background(), "addr", want)

	primary := fakeGeocoder{err: errAlwaysFails{}}
	g := NewCachingGeocoder(cache, primary, NullGeocoder{}, 100, 10)

	got, err := g.Geocode(context.Background(), "addr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Coord != want.Coord || got.Source != "cache" {
		t.Fatalf("want cached result, got %+v", got)
	}
}

func TestCachingGeocoderFallsBackWhenPrimaryFails(t *testing.T) {
	cache := newFakeCache()
	primary := fakeGeocoder{err: errAlwaysFails{}}
	fallback := fakeGeocoder{result: GeocodeResult{Coord: model.Coord{Lat: 3, Lon: 4}, Resolved: true}}
	g := NewCachingGeocoder(cache, primary, fallback, 100, 10)

	got, err := g.Geocode(context.Background(), "addr2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source != "fallback" {
		t.Fatalf("want fallback source, got %s", got.Source)
	}
	if cached, ok, _ := cache.GetGeocode(context.Background(), "addr2"); !ok || cached.Coord != got.Coord {
		t.Fatalf("expected fallback result to be written back to cache")
	}
}

func TestCachingGeocoderReturnsGeocodingFailureWhenAllTiersFail(t *testing.T) {
	cache := newFakeCache()
	g := NewCachingGeocoder(cache, nil, NullGeocoder{}, 100, 10)

	_, err := g.Geocode(context.Background(), "nowhere")
	if err == nil {
		t.Fatalf("expected error when no tier resolves the address")
	}
	if _, ok := err.(*model.GeocodingFailure); !ok {
		t.Fatalf("want *model.GeocodingFailure, got %T", err)
	}
}

type errAlwaysFails struct{}

func (errAlwaysFails) Error() string { return "primary always fails" }
