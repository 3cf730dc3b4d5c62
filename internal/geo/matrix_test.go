package geo

import (
	"context"
	"testing"
)

func TestHaversineKmZeroForSamePoint(t *testing.T) {
	d := HaversineKm(43.7, -79.4, 43.7, -79.4)
	if d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
}

func TestRoadDistanceAppliesFactor(t *testing.T) {
	h := HaversineKm(43.0, -79.0, 44.0, -80.0)
	r := RoadDistanceKm(43.0, -79.0, 44.0, -80.0)
	if r <= h {
		t.Fatalf("expected road distance %v to exceed haversine %v", r, h)
	}
	want := h * RoadFactor
	if diff := want - r; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected %v, got %v", want, r)
	}
}

func TestBuildDiagonalZero(t *testing.T) {
	points := []Point{{Lat: 43.7, Lon: -79.4}, {Lat: 44.0, Lon: -79.0}, {Lat: 43.9, Lon: -79.2}}
	m, err := Build(context.Background(), points, HaversineOracle{AverageSpeedKmh: 40}, 0.39, 24.0, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range points {
		if m.DistKm[i][i] != 0 || m.TimeMin[i][i] != 0 || m.ArcCostCents[i][i] != 0 {
			t.Fatalf("diagonal not zero at %d", i)
		}
	}
}

func TestBuildEmptyPoints(t *testing.T) {
	m, err := Build(context.Background(), nil, HaversineOracle{}, 0.39, 24.0, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.DistKm) != 0 {
		t.Fatalf("expected empty matrices")
	}
}

func TestArcCostMatchesScenario1(t *testing.T) {
	// Single daily site, 10km from depot, per spec scenario 1:
	// arc_cost_cents ~= round(20*0.39*100) + round((30/60)*24*100) for a
	// round trip of 20km and 30 minutes total drive.
	got := arcCostCents(20, 30, 0.39, 24.0)
	want := 780 + 1200
	if got != want {
		t.Fatalf("want %d, got %d", want, got)
	}
}
