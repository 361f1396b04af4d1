// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

// Package ctxutil stores the per-request values (request id, logger, caller claims)
// in [context.Context].
//
// Keys are an unexported type, so only this package can read or write them.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/Dhirajsah18/v-Tube/internal/platform/sec"
)

type key int

const (
	keyRequestID key = iota
	keyLogger
	keyCaller
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// GetRequestID retrieves the request ID, or an empty string.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, keyLogger, logger)
}

// WithLogAttrs derives the request logger with extra attributes.
func WithLogAttrs(ctx context.Context, attrs ...any) context.Context {
	return WithLogger(ctx, GetLogger(ctx).With(attrs...))
}

// GetLogger retrieves the request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(keyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity & Access

// WithAuthUser returns a new context carrying the verified caller claims.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, keyCaller, user)
}

// GetAuthUser retrieves the caller claims, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(keyCaller).(*sec.AuthClaims)
	return claims
}

// CallerID returns the authenticated user id, or an empty string for anonymous requests.
func CallerID(ctx context.Context) string {
	if claims := GetAuthUser(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}
