package bootstrap

import (
	"fmt"

	"bookden/internal/cache"
	"bookden/internal/config"
	"bookden/internal/database"
	"bookden/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedCatalog upserts the built-in book catalog after the schema is ready.
	SeedCatalog bool
}

// InitRuntime connects to DB (applying the configured schema policy) and
// Redis, and optionally seeds the built-in book catalog. The Redis client may
// be nil if unreachable; callers are expected to degrade gracefully.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedCatalog {
		if err := seed.Catalog(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in book catalog: %w", err)
		}
	}

	return db, r, nil
}
