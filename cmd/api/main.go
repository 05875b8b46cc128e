package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/codesign-connect/codesign-backend/config"
	"github.com/codesign-connect/codesign-backend/internal/bootstrap"
	"github.com/codesign-connect/codesign-backend/internal/platform/logger"
)

const serviceName = "codesign-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	if err := bootstrap.RunMigrations(cfg.Database.DSN); err != nil {
		logg.Fatal("migrations", "error", err)
	}

	ctx := context.Background()
	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
	if err != nil {
		logg.Fatal("open db", "error", err)
	}
	defer pool.Close()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			// cache is an optimization, not a dependency
			logg.Warn("redis unavailable, user cache disabled", "addr", cfg.Redis.Addr, "error", err)
			rdb = nil
		}
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Log:         logg,
		DB:          pool,
		Redis:       rdb,
		JWTSecret:   cfg.Auth.JWTSecret,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	logg.Info("listening", "port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logg.Fatal("server", "error", err)
	}
}
