package geo

import (
	"context"
	"errors"
	"testing"
)

type staticOracle struct {
	results []PairResult
	err     error
}

func (s staticOracle) BatchDistances(_ context.Context, pairs []Pair) ([]PairResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func TestFallbackOracleUsesPrimaryWhenOk(t *testing.T) {
	primary := staticOracle{results: []PairResult{{DistKm: 10, TimeMin: 15, Ok: true}}}
	fb := FallbackOracle{Primary: primary, Fallback: HaversineOracle{AverageSpeedKmh: 40}}

	results, degraded, err := fb.BatchDistances(context.Background(), []Pair{{OriginLat: 1, OriginLon: 1, DestLat: 2, DestLon: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if degraded[0] {
		t.Fatalf("expected no degradation when primary resolves the cell")
	}
	if results[0].DistKm != 10 {
		t.Fatalf("want primary's distance, got %v", results[0])
	}
}

func TestFallbackOraclePatchesUnresolvedCells(t *testing.T) {
	primary := staticOracle{results: []PairResult{{Ok: false}}}
	fb := FallbackOracle{Primary: primary, Fallback: HaversineOracle{AverageSpeedKmh: 40}}

	results, degraded, err := fb.BatchDistances(context.Background(), []Pair{{OriginLat: 0, OriginLon: 0, DestLat: 0, DestLon: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !degraded[0] {
		t.Fatalf("expected degradation when primary cannot resolve the cell")
	}
	if results[0].DistKm <= 0 {
		t.Fatalf("expected a positive Haversine fallback distance, got %v", results[0])
	}
}

func TestFallbackOraclePatchesOnPrimaryError(t *testing.T) {
	primary := staticOracle{err: errors.New("primary unreachable")}
	fb := FallbackOracle{Primary: primary, Fallback: HaversineOracle{AverageSpeedKmh: 40}}

	results, degraded, err := fb.BatchDistances(context.Background(), []Pair{{OriginLat: 0, OriginLon: 0, DestLat: 0, DestLon: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !degraded[0] || results[0].DistKm <= 0 {
		t.Fatalf("expected a degraded, fallback-resolved cell, got degraded=%v results=%v", degraded, results)
	}
}

func TestHaversineOracleAlwaysOk(t *testing.T) {
	h := HaversineOracle{AverageSpeedKmh: 40}
	results, err := h.BatchDistances(context.Background(), []Pair{{OriginLat: 43.65, OriginLon: -79.38, DestLat: 43.70, DestLon: -79.40}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !results[0].Ok {
		t.Fatalf("HaversineOracle must always resolve")
	}
}
