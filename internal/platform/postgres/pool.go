// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package postgres owns the pgx connection pool behind the credential,
relation and content stores.

Stores never see *pgxpool.Pool directly. They take a [Querier], which both the
pool and pgxmock satisfy.
*/
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dhirajsah18/v-Tube/internal/platform/constants"
)

// Querier is the statement surface a store needs. Every store operation is a
// single statement, so no transaction handle is exposed.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pinger is implemented by *pgxpool.Pool and by pgxmock pools.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Settings tunes the pool. The zero value is not usable; start from [DefaultSettings].
type Settings struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration

	// StatementTimeout is applied to every new session. Zero leaves the
	// server default in place.
	StatementTimeout time.Duration
}

// DefaultSettings sizes the pool for a single API instance.
func DefaultSettings() Settings {
	return Settings{
		MaxConns:          25,
		MinConns:          5,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   10 * time.Minute,
		HealthCheckPeriod: time.Minute,
		ConnectTimeout:    5 * time.Second,
		StatementTimeout:  constants.GlobalRequestTimeout,
	}
}

const pingTimeout = 2 * time.Second

/*
NewPool parses dsn, applies [DefaultSettings] and pings once before returning.

Parameters:
  - ctx: bounds the initial connect and ping
  - dsn: libpq keyword string or postgres:// URL
  - logger: receives the connected event

Returns:
  - *pgxpool.Pool: ready for use, closed again on any error
  - err: invalid DSN or unreachable server
*/
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := ParseConfig(dsn, DefaultSettings())
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, poolConfig.ConnConfig.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres_pool_create_failed: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)

	return pool, nil
}

// ParseConfig turns dsn into a pool configuration carrying settings.
func ParseConfig(dsn string, settings Settings) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres_invalid_dsn: %w", err)
	}

	poolConfig.MaxConns = settings.MaxConns
	poolConfig.MinConns = settings.MinConns
	poolConfig.MaxConnLifetime = settings.MaxConnLifetime
	poolConfig.MaxConnIdleTime = settings.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = settings.HealthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = settings.ConnectTimeout

	// Runtime parameters travel in the startup packet, so no extra round trip
	// per connection is needed.
	if settings.StatementTimeout > 0 {
		poolConfig.ConnConfig.RuntimeParams["statement_timeout"] =
			fmt.Sprintf("%d", settings.StatementTimeout.Milliseconds())
	}

	return poolConfig, nil
}

// Ping checks connectivity within a short deadline derived from ctx.
func Ping(ctx context.Context, pool Pinger) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres_ping_failed: %w", err)
	}

	return nil
}
