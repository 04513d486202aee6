package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "bidpilot/internal/adapter/http"
	"bidpilot/internal/adapter/liads"
	"bidpilot/internal/adapter/postgres"
	"bidpilot/internal/adapter/redisstore"
	"bidpilot/internal/adapter/usecase"
	"bidpilot/internal/config"
	"bidpilot/internal/core/port"
	"bidpilot/internal/db"
)

// main is the entry point of the bid optimizer. It loads configuration,
// optionally runs database migrations, wires the ledger/settings backend
// selected once at startup, then starts the HTTP server. On receiving a
// termination signal it gracefully shuts down the server.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(cfg.Log.Handler(os.Stdout))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The durable backend for the cooldown ledger and settings store is
	// chosen once here; "none" runs the engine without cooldown tracking.
	var (
		ledger   port.CooldownLedger = port.NopLedger{}
		settings port.SettingsStore  = port.NopSettings{}
	)
	switch cfg.Store.Backend {
	case "postgres":
		if cfg.Psql.RunMigrations {
			if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
				logger.Error("migration error", slog.Any("error", err))
			} else {
				logger.Info("migrations applied successfully")
			}
		}
		pool, err := db.NewPostgresPool(ctx, cfg.Psql)
		if err != nil {
			logger.Error("database connection error", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		ledger = postgres.NewLedgerRepository(pool)
		settings = postgres.NewSettingsRepository(pool)
	case "redis":
		rdb, err := db.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Error("redis connection error", slog.Any("error", err))
			os.Exit(1)
		}
		defer rdb.Close()
		ledger = redisstore.NewLedger(rdb)
		settings = redisstore.NewSettings(rdb)
	case "none":
		logger.Warn("no store backend configured, cooldown tracking disabled")
	default:
		logger.Error("unknown store backend", slog.String("backend", cfg.Store.Backend))
		os.Exit(1)
	}

	api := liads.NewClient(cfg.Ads.BaseURL, cfg.Ads.Timeout)
	svc := usecase.NewOptimizer(api, ledger, settings, logger, cfg.Ads.DefaultCurrency)
	sessions := httpadapter.NewSessionResolver(cfg.Auth)

	handler := httpadapter.NewHandler(svc, sessions, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
