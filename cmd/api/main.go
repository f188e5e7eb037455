package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/migrate"
	"storefront/internal/seed"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg.LogLevel, "api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	var pinger httpserver.Pinger
	var stores app.Stores
	switch cfg.StoreBackend {
	case "memory":
		stores = app.MemoryStores()
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
		if err != nil {
			logger.Fatal("connect to db", zap.Error(err))
		}
		defer pool.Close()

		if err := migrate.Apply(ctx, pool); err != nil {
			logger.Fatal("apply migrations", zap.Error(err))
		}

		var rdb *redis.Client
		if cfg.RedisAddr != "" {
			rdb, err = db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
			if err != nil {
				logger.Fatal("connect to redis", zap.Error(err))
			}
			defer rdb.Close()
		} else {
			logger.Warn("REDIS_ADDR not set, sessions are kept in process")
		}
		stores = app.PostgresStores(pool, rdb, logger)
		pinger = pool
	default:
		logger.Fatal("unknown store backend", zap.String("backend", cfg.StoreBackend))
	}

	services := app.NewServices(stores, cfg.SessionTTL, logger)

	if cfg.StoreBackend == "memory" || cfg.SeedOnStart {
		if err := seed.Apply(ctx, stores.Products, services.User, logger); err != nil {
			logger.Fatal("seed store", zap.Error(err))
		}
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, pinger, services.Deps(cfg.CORSOrigins))
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr), zap.String("backend", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
