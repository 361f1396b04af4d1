// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package redis connects the optional relation count cache.

Like and subscriber counts are derived data. PostgreSQL stays authoritative
and the API runs unchanged, only slower, when no Redis URL is configured.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by every go-redis client flavour.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// A cache that answers slowly is worse than no cache, so every timeout is short.
const (
	poolSize     = 10
	minIdleConns = 2
	dialTimeout  = 3 * time.Second
	ioTimeout    = 500 * time.Millisecond
	pingTimeout  = 2 * time.Second
)

// Options parses redisURL and applies the cache tuning on top.
func Options(redisURL string) (*redis.Options, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis_invalid_url: %w", err)
	}

	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.MaxRetries = 1
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	return options, nil
}

/*
NewClient builds a client from redisURL and pings it once.

Returns:
  - *redis.Client: connected client, owned by the caller
  - err: invalid URL or unreachable server
*/
func NewClient(ctx context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := Options(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)

	return client, nil
}

// Ping checks connectivity within a short deadline derived from ctx.
func Ping(ctx context.Context, client Pinger) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis_ping_failed: %w", err)
	}

	return nil
}
