// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package apperr is the error taxonomy shared by every layer of the API.

Services return an [*AppError] for every failure a client can act on. The
respond package turns it into the JSON error envelope with the HTTP status
the code maps to. Anything else reaching the transport becomes
INTERNAL_ERROR.

Cause is kept for server logs and never serialized.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Codes

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidOperation  = "INVALID_OPERATION"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeTokenInvalid      = "TOKEN_INVALID"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL_ERROR"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
)

var statusByCode = map[string]int{
	CodeValidation:        http.StatusBadRequest,
	CodeInvalidOperation:  http.StatusBadRequest,
	CodeUnauthorized:      http.StatusUnauthorized,
	CodeInvalidCredential: http.StatusUnauthorized,
	CodeTokenInvalid:      http.StatusUnauthorized,
	CodeForbidden:         http.StatusForbidden,
	CodeNotFound:          http.StatusNotFound,
	CodeConflict:          http.StatusConflict,
	CodeRateLimited:       http.StatusTooManyRequests,
	CodeInternal:          http.StatusInternalServerError,
	CodeUnavailable:       http.StatusServiceUnavailable,
}

// StatusOf returns the HTTP status for code, or 500 for an unknown code.
func StatusOf(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// # Types

// AppError is a classified failure with a client-safe message.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError names one request field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: StatusOf(code)}
}

// Error returns the client-safe message only.
func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a copy carrying cause. The receiver is left untouched.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Client Errors

// ValidationError reports malformed input, optionally per field.
func ValidationError(message string, details ...FieldError) *AppError {
	err := newError(CodeValidation, message)
	err.Details = details
	return err
}

// InvalidInput is [ValidationError] under the name used for bad identifiers.
func InvalidInput(message string, details ...FieldError) *AppError {
	return ValidationError(message, details...)
}

// InvalidOperation rejects a well-formed request the domain forbids, such as
// subscribing to one's own channel.
func InvalidOperation(message string) *AppError {
	return newError(CodeInvalidOperation, message)
}

// Unauthorized reports a missing credential.
func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message)
}

// InvalidCredential reports a password that does not match.
func InvalidCredential(message string) *AppError {
	return newError(CodeInvalidCredential, message)
}

// TokenInvalid reports a token failing its signature, expiry, kind or stored digest check.
func TokenInvalid(message string) *AppError {
	return newError(CodeTokenInvalid, message)
}

// Forbidden reports an authenticated caller acting on something it does not own.
func Forbidden(message string) *AppError {
	return newError(CodeForbidden, message)
}

// NotFound produces "<resource> not found", e.g. NotFound("Video").
func NotFound(resource string) *AppError {
	return newError(CodeNotFound, resource+" not found")
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *AppError {
	return newError(CodeConflict, message)
}

// RateLimited asks the client to back off for retryAfterSeconds.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(CodeRateLimited, fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// # Server Errors

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	err := newError(CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// Unavailable marks a retryable store outage or timeout.
func Unavailable(cause error) *AppError {
	err := newError(CodeUnavailable, "Service temporarily unavailable, please retry")
	err.Cause = cause
	return err
}

// # Inspection

// As returns the first [*AppError] in the chain of err, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// HasCode reports whether the first [*AppError] in the chain of err carries code.
func HasCode(err error, code string) bool {
	appError := As(err)
	return appError != nil && appError.Code == code
}
