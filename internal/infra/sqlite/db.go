// Package sqlite provides the embedded SQLite state store for lernpfad.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/lernpfad/lernpfad/internal/infra/metrics"
)

const driverName = "sqlite"

// DB wraps a SQLite connection with WAL mode and migrations.
// It implements domain.StateStore.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Per-learner state blobs (engagement, vuca-state, achievements, ...)
		`CREATE TABLE IF NOT EXISTS state (
			user_id    TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_state_updated ON state(updated_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── State Store ────────────────────────────────────────────────────────────

// Load decodes the value stored for (userID, key) into v.
func (d *DB) Load(ctx context.Context, userID, key string, v any) (found bool, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(driverName, "load", start, err) }()

	var raw string
	err = d.db.QueryRowContext(ctx,
		`SELECT value FROM state WHERE user_id = ? AND key = ?`, userID, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err = json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", userID, key, err)
	}
	return true, nil
}

// Save replaces the value stored for (userID, key).
func (d *DB) Save(ctx context.Context, userID, key string, v any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(driverName, "save", start, err) }()

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", userID, key, err)
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO state (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		userID, key, string(raw), time.Now().Unix(),
	)
	return err
}

// Delete removes the value stored for (userID, key).
func (d *DB) Delete(ctx context.Context, userID, key string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(driverName, "delete", start, err) }()

	_, err = d.db.ExecContext(ctx, `DELETE FROM state WHERE user_id = ? AND key = ?`, userID, key)
	return err
}

// Users returns every learner with saved state, ordered by id.
func (d *DB) Users(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM state ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
