// Package bootstrap wires up runtime dependencies shared by the server and
// the CLI tools.
package bootstrap

import (
	"fmt"

	"abusebin/internal/cache"
	"abusebin/internal/config"
	"abusebin/internal/database"
	"abusebin/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedBuiltIns ensures the built-in super admin accounts and the pinned
	// welcome paste exist.
	SeedBuiltIns bool
}

// InitRuntime connects to the database and Redis and optionally runs
// built-in seeding. The Redis client is nil when the cache is unreachable;
// the application degrades gracefully without it.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedBuiltIns {
		if err := seed.SuperAdmins(db, cfg.AdminSeedPassword); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in admins: %w", err)
		}
	}

	return db, r, nil
}
