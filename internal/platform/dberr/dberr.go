// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Classification
//
//   - pgx.ErrNoRows            -> NotFound(resource)
//   - SQLSTATE 23505 (unique)  -> Conflict
//   - SQLSTATE 23514 (check)   -> InvalidOperation
//   - timeouts / dial failures -> Unavailable (retryable)
//   - anything else            -> Internal
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint violations reported by PostgreSQL
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(resource + " already exists").WithCause(err)
		case pgerrcode.CheckViolation:
			return apperr.InvalidOperation(resource + " violates a domain constraint").WithCause(err)
		case pgerrcode.QueryCanceled, pgerrcode.AdminShutdown, pgerrcode.CannotConnectNow:
			return apperr.Unavailable(err)
		}
	}

	// 3. Store timeouts and outages are retryable by the caller
	if IsUnavailable(err) {
		return apperr.Unavailable(err)
	}

	return apperr.Internal(fmt.Errorf("%s: %w", resource, err))
}

// IsUnavailable reports whether err signals a timeout or a lost connection.
func IsUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}

	var connectError *pgconn.ConnectError
	return errors.As(err, &connectError)
}
