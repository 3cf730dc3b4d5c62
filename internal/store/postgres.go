package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"gpsnav/internal/geo"
	"gpsnav/internal/model"
)

// Postgres persists the geocode/distance caches and weekly-solution
// snapshots across runs, so repeated pipeline invocations against a warm
// cache avoid re-resolving addresses or re-requesting distance cells.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Migrate creates the tables this package needs if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL,
			resolved BOOLEAN NOT NULL,
			source TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS distance_cache (
			cache_key TEXT PRIMARY KEY,
			dist_km DOUBLE PRECISION NOT NULL,
			time_min INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS weekly_solutions (
			run_id TEXT NOT NULL,
			depot_key TEXT NOT NULL,
			solution JSONB NOT NULL,
			PRIMARY KEY (run_id, depot_key)
		)`,
		`CREATE TABLE IF NOT EXISTS optimizer_config (
			config_key TEXT PRIMARY KEY,
			config JSONB NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (p *Postgres) GetGeocode(ctx context.Context, address string) (geo.GeocodeResult, bool, error) {
	var res geo.GeocodeResult
	row := p.db.QueryRowContext(ctx, `SELECT lat, lon, resolved, source FROM geocode_cache WHERE address=$1`, address)
	err := row.Scan(&res.Coord.Lat, &res.Coord.Lon, &res.Resolved, &res.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return res, false, nil
	}
	if err != nil {
		return res, false, err
	}
	return res, true, nil
}

func (p *Postgres) PutGeocode(ctx context.Context, address string, result geo.GeocodeResult) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO geocode_cache (address, lat, lon, resolved, source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (address) DO UPDATE SET lat=$2, lon=$3, resolved=$4, source=$5
	`, address, result.Coord.Lat, result.Coord.Lon, result.Resolved, result.Source)
	return err
}

func (p *Postgres) GetDistance(ctx context.Context, key string) (DistancePairResult, bool, error) {
	var res DistancePairResult
	row := p.db.QueryRowContext(ctx, `SELECT dist_km, time_min FROM distance_cache WHERE cache_key=$1`, key)
	err := row.Scan(&res.DistKm, &res.TimeMin)
	if errors.Is(err, sql.ErrNoRows) {
		return res, false, nil
	}
	if err != nil {
		return res, false, err
	}
	return res, true, nil
}

func (p *Postgres) PutDistance(ctx context.Context, key string, result DistancePairResult) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO distance_cache (cache_key, dist_km, time_min)
		VALUES ($1, $2, $3)
		ON CONFLICT (cache_key) DO UPDATE SET dist_km=$2, time_min=$3
	`, key, result.DistKm, result.TimeMin)
	return err
}

func (p *Postgres) SaveWeeklySolution(ctx context.Context, runID string, sol model.WeeklySolution) error {
	data, err := json.Marshal(sol)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO weekly_solutions (run_id, depot_key, solution)
		VALUES ($1, $2, $3)
		ON CONFLICT (run_id, depot_key) DO UPDATE SET solution=$3
	`, runID, sol.DepotKey, data)
	return err
}

func (p *Postgres) ListWeeklySolutions(ctx context.Context, runID string) ([]model.WeeklySolution, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT solution FROM weekly_solutions WHERE run_id=$1 ORDER BY depot_key`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WeeklySolution
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var sol model.WeeklySolution
		if err := json.Unmarshal(raw, &sol); err != nil {
			return nil, err
		}
		out = append(out, sol)
	}
	return out, rows.Err()
}

func (p *Postgres) GetOptimizerConfig(ctx context.Context, key string) (map[string]any, error) {
	var raw []byte
	row := p.db.QueryRowContext(ctx, `SELECT config FROM optimizer_config WHERE config_key=$1`, key)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var cfg map[string]any
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (p *Postgres) SaveOptimizerConfig(ctx context.Context, key string, cfg map[string]any) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO optimizer_config (config_key, config)
		VALUES ($1, $2)
		ON CONFLICT (config_key) DO UPDATE SET config=$2
	`, key, data)
	return err
}
