// Package redis implements the state store on Redis. Each learner gets
// one hash; each state key is a field holding a JSON document.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lernpfad/lernpfad/internal/infra/metrics"
)

const driverName = "redis"

// Config holds Redis connection configuration.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string // namespace for all keys, e.g. "lernpfad:"

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		KeyPrefix:    "lernpfad:",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Store implements domain.StateStore on a Redis client.
type Store struct {
	client *redis.Client
	prefix string
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return New(client, cfg.KeyPrefix), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) userKey(userID string) string {
	return s.prefix + "state:" + userID
}

// Load decodes the field key of the learner's hash into v.
func (s *Store) Load(ctx context.Context, userID, key string, v any) (found bool, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(driverName, "load", start, err) }()

	raw, err := s.client.HGet(ctx, s.userKey(userID), key).Bytes()
	if errors.Is(err, redis.Nil) {
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

// Save replaces the field key of the learner's hash.
func (s *Store) Save(ctx context.Context, userID, key string, v any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(driverName, "save", start, err) }()

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", userID, key, err)
	}
	return s.client.HSet(ctx, s.userKey(userID), key, raw).Err()
}

// Delete removes the field key from the learner's hash.
func (s *Store) Delete(ctx context.Context, userID, key string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(driverName, "delete", start, err) }()

	return s.client.HDel(ctx, s.userKey(userID), key).Err()
}

// Ping checks Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
