// Package bootstrap wires the process runtime: database, schema, Redis and
// the token revocation store.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"studysmarter/internal/cache"
	"studysmarter/internal/config"
	"studysmarter/internal/database"
	"studysmarter/internal/middleware"
	"studysmarter/internal/revocation"
	"studysmarter/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoUsers bool
}

// Runtime holds the long-lived dependencies handed to the server.
type Runtime struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Revocations revocation.Store
}

// InitRuntime connects to the database, applies the schema, connects to
// Redis when configured and selects the revocation store. Seeding only
// happens when opts asks for it.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := database.ApplySchema(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if opts.SeedDemoUsers {
		n, err := seed.DemoUsers(ctx, db)
		if err != nil {
			_ = database.Close(db)
			return nil, err
		}
		middleware.Logger.Info("demo users seeded", slog.Int("created", n))
	}

	rt := &Runtime{DB: db}
	rt.Redis, rt.Revocations = selectRevocationStore(ctx, cfg)
	return rt, nil
}

// selectRevocationStore returns the Redis-backed store when configured and
// reachable, and the in-memory store otherwise. The Redis client is also
// returned when only rate limiting can use it.
func selectRevocationStore(ctx context.Context, cfg *config.Config) (*redis.Client, revocation.Store) {
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			middleware.Logger.Warn("redis unavailable", slog.String("error", err.Error()))
		} else {
			rdb = client
		}
	}

	if cfg.RevocationBackend == "redis" {
		if rdb != nil {
			return rdb, revocation.NewRedisStore(rdb)
		}
		middleware.Logger.Warn("falling back to in-memory token revocation; revoked tokens will not be shared across instances or survive restarts")
	}
	return rdb, revocation.NewMemoryStore()
}
