package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/migrate"
	"storefront/internal/seed"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg.LogLevel, "seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, 2)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	stores := app.PostgresStores(pool, nil, logger)
	services := app.NewServices(stores, cfg.SessionTTL, logger)
	if err := seed.Apply(ctx, stores.Products, services.User, logger); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied")
}
