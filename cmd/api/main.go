// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

// Command api is the entry point for the v-Tube HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when configured (relation count cache).
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Dhirajsah18/v-Tube/internal/api"
	"github.com/Dhirajsah18/v-Tube/internal/content"
	"github.com/Dhirajsah18/v-Tube/internal/platform/config"
	"github.com/Dhirajsah18/v-Tube/internal/platform/constants"
	"github.com/Dhirajsah18/v-Tube/internal/platform/guard"
	"github.com/Dhirajsah18/v-Tube/internal/platform/middleware"
	"github.com/Dhirajsah18/v-Tube/internal/platform/migration"
	pgstore "github.com/Dhirajsah18/v-Tube/internal/platform/postgres"
	redisstore "github.com/Dhirajsah18/v-Tube/internal/platform/redis"
	"github.com/Dhirajsah18/v-Tube/internal/platform/sec"
	"github.com/Dhirajsah18/v-Tube/internal/social/relation"
	"github.com/Dhirajsah18/v-Tube/internal/users/account"
	"github.com/Dhirajsah18/v-Tube/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Built before config so that config errors are already structured JSON.
	var level slog.LevelVar
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: &level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		level.Set(slog.LevelDebug)
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("count_cache", cfg.CacheEnabled()),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	var countCache relation.CountCache

	if cfg.CacheEnabled() {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("redis_client_closing")
			if cerr := rdb.Close(); cerr != nil {
				log.Warn("redis_client_close_failed", slog.Any("error", cerr))
			}
		}()
		countCache = relation.NewRedisCountCache(rdb, cfg.CountCacheTTL)
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(sec.TokenConfig{
		AccessSigningKey:  []byte(cfg.AccessTokenSecret),
		RefreshSigningKey: []byte(cfg.RefreshTokenSecret),
		AccessTokenTTL:    cfg.AccessTokenTTL,
		RefreshTokenTTL:   cfg.RefreshTokenTTL,
		Issuer:            constants.AuthIssuer,
	})
	must(log, err, "initialize token service")

	// ── 7. Probes ─────────────────────────────────────────────────────────
	dependencies := api.HealthDependencies{
		Database: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
	}
	if rdb != nil {
		dependencies.Cache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}
	liveness, readiness := api.NewHealthHandlers(dependencies, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	contentRepository := content.NewRepository(pool)

	authService := auth.NewService(userRepository, tokens)
	relationService := relation.NewService(
		relation.NewRepository(pool),
		content.NewTargetResolver(contentRepository, userRepository),
		countCache,
	)
	accountService := account.NewService(userRepository, relationService)
	contentService := content.NewService(contentRepository, relationService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, cfg.CookieSecure),
		Account:   account.NewHandler(accountService),
		Relation:  relation.NewHandler(relationService),
		Content:   content.NewHandler(contentService),
	}

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(rootCtx)

	server := api.NewServer(cfg, log, guard.New(tokens), limiter, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("http_server_failed", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("http_server_draining", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("http_server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("http_server_stopped")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failed",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
