package store

import (
	"context"
	"sync"

	"gpsnav/internal/geo"
	"gpsnav/internal/model"
)

// Memory is an in-memory Store, used whenever DATABASE_URL is unset.
type Memory struct {
	mu        sync.Mutex
	geocode   map[string]geo.GeocodeResult
	distance  map[string]DistancePairResult
	solutions map[string][]model.WeeklySolution
	configs   map[string]map[string]any
}

func NewMemory() *Memory {
	return &Memory{
		geocode:   map[string]geo.GeocodeResult{},
		distance:  map[string]DistancePairResult{},
		solutions: map[string][]model.WeeklySolution{},
		configs:   map[string]map[string]any{},
	}
}

func (m *Memory) GetGeocode(_ context.Context, address string) (geo.GeocodeResult, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.geocode[address]
	return r, ok, nil
}

func (m *Memory) PutGeocode(_ context.Context, address string, result geo.GeocodeResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.geocode[address] = result
	return nil
}

func (m *Memory) GetDistance(_ context.Context, key string) (DistancePairResult, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.distance[key]
	return r, ok, nil
}

func (m *Memory) PutDistance(_ context.Context, key string, result DistancePairResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.distance[key] = result
	return nil
}

func (m *Memory) SaveWeeklySolution(_ context.Context, runID string, sol model.WeeklySolution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solutions[runID] = append(m.solutions[runID], sol)
	return nil
}

func (m *Memory) ListWeeklySolutions(_ context.Context, runID string) ([]model.WeeklySolution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.WeeklySolution, len(m.solutions[runID]))
	copy(out, m.solutions[runID])
	return out, nil
}

func (m *Memory) GetOptimizerConfig(_ context.Context, key string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.configs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cfg, nil
}

func (m *Memory) SaveOptimizerConfig(_ context.Context, key string, cfg map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[key] = cfg
	return nil
}
