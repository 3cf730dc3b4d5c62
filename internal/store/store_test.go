package store

import (
	"context"
	"testing"

	"gpsnav/internal/geo"
	"gpsnav/internal/model"
)

func TestDistanceCacheKeyFormat(t *testing.T) {
	got := DistanceCacheKey(44.389355, -79.690331, 43.223029, -79.855567)
	want := "44.389355,-79.690331|43.223029,-79.855567"
	if got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestMemoryGeocodeRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if _, ok, _ := m.GetGeocode(ctx, "123 Main St"); ok {
		t.Fatalf("expected miss before put")
	}
	want := geo.GeocodeResult{Coord: model.Coord{Lat: 1, Lon: 2}, Resolved: true, Source: "test"}
	if err := m.PutGeocode(ctx, "123 Main St", want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, _ := m.GetGeocode(ctx, "123 Main St")
	if !ok || got != want {
		t.Fatalf("want %+v, got %+v (ok=%v)", want, got, ok)
	}
}

func TestMemoryDistanceRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	key := DistanceCacheKey(1, 2, 3, 4)
	want := DistancePairResult{DistKm: 12.5, TimeMin: 20}
	if err := m.PutDistance(ctx, key, want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, _ := m.GetDistance(ctx, key)
	if !ok || got != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestMemoryWeeklySolutionsAccumulate(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.SaveWeeklySolution(ctx, "run1", model.WeeklySolution{DepotKey: "wh"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := m.SaveWeeklySolution(ctx, "run1", model.WeeklySolution{DepotKey: "barrie"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := m.ListWeeklySolutions(ctx, "run1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 solutions, got %d", len(out))
	}
}

func TestMemoryOptimizerConfigMissReturnsErrNotFound(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if _, err := m.GetOptimizerConfig(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
