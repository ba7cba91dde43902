// Package bootstrap wires the database and cache a process needs at startup.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Runtime holds the shared dependencies of the server and the CLIs.
// Redis is nil when the cache fell back to memory.
type Runtime struct {
	DB    *gorm.DB
	Cache *cache.Aside
	Redis *redis.Client
}

// InitRuntime connects to the database and the cache and creates the
// development root admin when configured.
func InitRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	aside, rdb := NewCache(cfg)

	if err := ensureDevRootAdmin(ctx, cfg, db); err != nil {
		return nil, fmt.Errorf("failed to bootstrap development root admin: %w", err)
	}

	return &Runtime{DB: db, Cache: aside, Redis: rdb}, nil
}

// NewCache prefers Redis and falls back to a bounded in-process store when
// Redis cannot be reached.
func NewCache(cfg *config.Config) (*cache.Aside, *redis.Client) {
	store, err := cache.NewRedisStore(cfg.RedisURL)
	if err != nil {
		middleware.Logger.Warn("redis unavailable, using in-memory cache",
			slog.String("redis_url", cfg.RedisURL),
			slog.String("error", err.Error()),
		)
		return cache.NewAside(cache.NewMemoryStore(cfg.CacheMemorySize, cfg.CacheTTL()), cfg.CacheTTL()), nil
	}
	return cache.NewAside(store, cfg.CacheTTL()), store.Client()
}

// Close releases everything InitRuntime opened.
func (r *Runtime) Close() error {
	cacheErr := r.Cache.Close()
	if err := database.Close(r.DB); err != nil {
		return err
	}
	return cacheErr
}

func ensureDevRootAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || cfg.DevRootPassword == "" {
		return nil
	}

	username := strings.TrimSpace(cfg.DevRootUsername)
	if username == "" {
		username = "inkwellroot"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevRootEmail))
	if email == "" {
		email = "root@inkwell.local"
	}

	users := repository.NewUserRepository(db)
	root, err := users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if root != nil {
		if root.IsAdmin() {
			return nil
		}
		return users.UpdateFields(ctx, root.ID, map[string]any{"role": models.RoleAdmin})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.DevRootPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}
	if err := users.Create(ctx, &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}); err != nil {
		return err
	}
	middleware.Logger.Info("development root admin created", slog.String("username", username))
	return nil
}
