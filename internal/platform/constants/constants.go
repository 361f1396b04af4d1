// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package constants holds the fixed values shared across the vtube API layers.

Anything an operator may want to tune lives in config instead. What remains
here is wire vocabulary (cookie names, headers, cache prefixes) and the
timing defaults the HTTP server is built around.
*/
package constants

import "time"

// AppName tags every log line emitted by the process.
const AppName = "vtube-api"

// # HTTP Server

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// GlobalRequestTimeout bounds a single request, handlers included.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the drain window for in-flight requests.
	ShutdownTimeout = 30 * time.Second
)

// # Probes

const (
	LivenessPath  = "/health"
	ReadinessPath = "/ready"
)

// # Rate Limiting

const (
	// A client bucket idle longer than RateLimitClientTTL is dropped on the
	// next sweep.
	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 3 * time.Minute

	// RateLimitRetryAfterSeconds is advertised on every 429.
	RateLimitRetryAfterSeconds = 1
)

// # Sessions

const (
	AuthIssuer = "vtube.app"

	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"

	// The refresh cookie is only ever sent to the auth routes.
	AccessTokenCookiePath  = "/api/v1"
	RefreshTokenCookiePath = "/api/v1/auth"
)

// # Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"

	// MaxRequestIDLength caps client supplied correlation ids.
	MaxRequestIDLength = 64
)

// # Cache Keys

// RedisPrefixRelationCount namespaces derived relation counts,
// e.g. "relation:count:target:video:<id>".
const RedisPrefixRelationCount = "relation:count:"

// RedisPrefixRelationCountVersion namespaces the invalidation generation of
// each count key. A write-back is dropped when the generation moved after the
// read that produced it.
const RedisPrefixRelationCountVersion = "relation:count_version:"

// RelationCountVersionTTL bounds how long a generation outlives its last
// invalidation. It must exceed the time a count load can take.
const RelationCountVersionTTL = 24 * time.Hour
