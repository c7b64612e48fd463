package bootstrap

import (
	"fmt"
	"log"

	"yanjihub/internal/cache"
	"yanjihub/internal/config"
	"yanjihub/internal/database"
	"yanjihub/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	// Connect DB
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	ensureDevAdminHash(cfg)

	if opts.SeedDemoData {
		factory := seed.NewFactory(db, seed.Options{PostsPerCategory: 3, CommentsPerPost: 2})
		if err := factory.Run(); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

// ensureDevAdminHash fills in a development admin password so the admin
// panel works out of the box. Production requires an explicit hash and is
// rejected by config validation without one.
func ensureDevAdminHash(cfg *config.Config) {
	if cfg.AdminPasswordHash != "" {
		return
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("WARNING: could not generate development admin hash: %v", err)
		return
	}
	cfg.AdminPasswordHash = string(hash)
	log.Println("Development admin password set to \"admin\"")
}
