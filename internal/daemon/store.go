package daemon

import (
	"context"
	"fmt"

	"github.com/lernpfad/lernpfad/internal/domain"
	"github.com/lernpfad/lernpfad/internal/infra/postgres"
	"github.com/lernpfad/lernpfad/internal/infra/redis"
	"github.com/lernpfad/lernpfad/internal/infra/sqlite"
)

// OpenStore opens the state store selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg StorageConfig) (domain.StateStore, error) {
	switch cfg.Driver {
	case "", "sqlite":
		dir := cfg.Dir
		if dir == "" {
			dir = lernpfadHome()
		}
		db, err := sqlite.Open(dir)
		if err != nil {
			return nil, err
		}
		return db, nil

	case "redis":
		rc := redis.DefaultConfig()
		if cfg.RedisAddr != "" {
			rc.Addr = cfg.RedisAddr
		}
		rc.Password = cfg.RedisPassword
		rc.DB = cfg.RedisDB
		if cfg.KeyPrefix != "" {
			rc.KeyPrefix = cfg.KeyPrefix
		}
		rs, err := redis.Open(ctx, rc)
		if err != nil {
			return nil, err
		}
		return rs, nil

	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("storage: postgres driver needs postgres_dsn")
		}
		pc := postgres.DefaultConfig()
		pc.DSN = cfg.PostgresDSN
		ps, err := postgres.Open(ctx, pc)
		if err != nil {
			return nil, err
		}
		return ps, nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStorageDriver, cfg.Driver)
	}
}
