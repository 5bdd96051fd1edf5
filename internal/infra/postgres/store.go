// Package postgres implements the state store on PostgreSQL using a
// pgx connection pool and a single JSONB table.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lernpfad/lernpfad/internal/infra/metrics"
)

const driverName = "postgres"

// Config holds PostgreSQL connection configuration.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DefaultConfig returns pool defaults; DSN must be filled in.
func DefaultConfig() Config {
	return Config{
		MaxConns:        10,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}

// Store implements domain.StateStore on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// Open creates the pool, verifies connectivity and runs migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS learner_state (
			user_id    TEXT        NOT NULL,
			key        TEXT        NOT NULL,
			value      JSONB       NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_learner_state_updated ON learner_state(updated_at)`,
	}
	for _, m := range migrations {
		if _, err := s.pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// Load decodes the value stored for (userID, key) into v.
func (s *Store) Load(ctx context.Context, userID, key string, v any) (found bool, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(driverName, "load", start, err) }()

	var raw []byte
	err = s.pool.QueryRow(ctx,
		`SELECT value FROM learner_state WHERE user_id = $1 AND key = $2`, userID, key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err = json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", userID, key, err)
	}
	return true, nil
}

// Save upserts the value stored for (userID, key).
func (s *Store) Save(ctx context.Context, userID, key string, v any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(driverName, "save", start, err) }()

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", userID, key, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO learner_state (user_id, key, value, updated_at) VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		userID, key, raw,
	)
	return err
}

// Delete removes the value stored for (userID, key).
func (s *Store) Delete(ctx context.Context, userID, key string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(driverName, "delete", start, err) }()

	_, err = s.pool.Exec(ctx, `DELETE FROM learner_state WHERE user_id = $1 AND key = $2`, userID, key)
	return err
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
