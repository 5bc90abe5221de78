// Package bootstrap wires configuration, storage, and telemetry for process
// entry points.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/Thintalltom/Paperless-Audit/internal/cache"
	"github.com/Thintalltom/Paperless-Audit/internal/config"
	"github.com/Thintalltom/Paperless-Audit/internal/database"
	"github.com/Thintalltom/Paperless-Audit/internal/observability"
	"github.com/Thintalltom/Paperless-Audit/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// Runtime holds initialized process-wide dependencies.
type Runtime struct {
	Config          *config.Config
	DB              *gorm.DB
	Redis           *redis.Client
	tracingShutdown func(context.Context) error
}

// InitRuntime loads configuration, connects to the database and Redis, starts
// tracing, and optionally seeds demo data.
func InitRuntime(opts Options) (*Runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	tracingShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "paperless-audit-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May result in a nil client if unreachable; the API degrades gracefully.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData {
		seeder := seed.NewSeeder(db, seed.Options{})
		if err := seeder.Run(); err != nil {
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return &Runtime{
		Config:          cfg,
		DB:              db,
		Redis:           r,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Shutdown releases runtime resources.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r.tracingShutdown != nil {
		if err := r.tracingShutdown(ctx); err != nil {
			log.Printf("tracing shutdown error: %v", err)
		}
	}

	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			log.Printf("redis close error: %v", err)
		}
	}

	if r.DB != nil {
		sqlDB, err := r.DB.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
