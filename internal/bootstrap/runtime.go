// Package bootstrap wires up runtime dependencies shared by the server and
// CLI commands.
package bootstrap

import (
	"context"
	"fmt"

	"pickmypit/internal/cache"
	"pickmypit/internal/config"
	"pickmypit/internal/database"
	"pickmypit/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// ApplySchema runs the configured schema policy after connecting.
	ApplySchema bool
	// InstallTaxonomy installs the built-in species and breeds.
	InstallTaxonomy bool
}

// InitRuntime connects to the database and Redis and prepares the schema.
// Redis being down is not fatal; cache.GetClient returns nil and callers
// degrade to uncached operation.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return nil, nil, fmt.Errorf("schema apply failed: %w", err)
		}
	}
	if opts.InstallTaxonomy {
		if err := seed.EnsureTaxonomy(db); err != nil {
			return nil, nil, fmt.Errorf("taxonomy install failed: %w", err)
		}
	}
	if cfg.DevBootstrapAdmin {
		if err := seed.BootstrapAdmin(db, cfg.DevAdminEmail, cfg.DevAdminPassword); err != nil {
			return nil, nil, fmt.Errorf("admin bootstrap failed: %w", err)
		}
	}

	cache.InitRedis(cfg.RedisURL)
	return db, cache.GetClient(), nil
}
