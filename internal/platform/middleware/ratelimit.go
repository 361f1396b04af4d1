// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/constants"
	"github.com/Dhirajsah18/v-Tube/internal/platform/respond"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

/*
RateLimiter throttles callers with one token bucket per client IP.

Buckets are created lazily and swept by [RateLimiter.Run] once idle for
[constants.RateLimitClientTTL]. The bucket table is guarded by a single mutex.
*/
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
}

// NewRateLimiter allows rps sustained requests per second and bursts of burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// Run sweeps idle buckets until context is cancelled. Start it in its own goroutine.
func (limiter *RateLimiter) Run(context context.Context) {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			limiter.sweep(now)
		case <-context.Done():
			return
		}
	}
}

// Allow takes one token from the bucket of client and reports whether it had any.
func (limiter *RateLimiter) Allow(client string) bool {
	now := time.Now()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	entry, ok := limiter.buckets[client]
	if !ok {
		entry = &bucket{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.buckets[client] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

func (limiter *RateLimiter) sweep(now time.Time) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for client, entry := range limiter.buckets {
		if now.Sub(entry.lastSeen) > constants.RateLimitClientTTL {
			delete(limiter.buckets, client)
		}
	}
}

// Middleware answers 429 with a Retry-After hint once the caller's bucket is empty.
func (limiter *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if limiter.Allow(RealIP(request)) {
			next.ServeHTTP(writer, request)
			return
		}

		writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(constants.RateLimitRetryAfterSeconds))
		respond.Error(writer, request, apperr.RateLimited(constants.RateLimitRetryAfterSeconds))
	})
}
