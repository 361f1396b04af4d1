// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

// Package respond writes every API response through one JSON envelope.
//
// Success bodies are {"data": ...} (plus "meta" for listings). Error bodies
// are {"error", "code", "details", "request_id"}; only [apperr.AppError] text
// ever reaches the client.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/ctxutil"
	"github.com/Dhirajsah18/v-Tube/pkg/pagination"
)

// SuccessEnvelope is the JSON envelope for successful single-resource responses.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope is the JSON envelope for paginated list responses.
type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Error     string              `json:"error"`
	Code      string              `json:"code"`
	Details   []apperr.FieldError `json:"details,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// JSON writes payload with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// Data wraps data in the success envelope with an explicit status.
func Data(writer http.ResponseWriter, statusCode int, data any) {
	JSON(writer, statusCode, SuccessEnvelope{Data: data})
}

// OK writes a 200 response.
func OK(writer http.ResponseWriter, data any) {
	Data(writer, http.StatusOK, data)
}

// Created writes a 201 response.
func Created(writer http.ResponseWriter, data any) {
	Data(writer, http.StatusCreated, data)
}

// Paginated writes a 200 response with a metadata block.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
Error converts any error into the error envelope.

Errors outside the [apperr] taxonomy become INTERNAL_ERROR. Every 5xx is
logged with its cause; 4xx responses are not logged here.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	context := request.Context()
	requestID := ctxutil.GetRequestID(context)

	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(context).ErrorContext(context, "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", requestID),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:     appError.Message,
		Code:      appError.Code,
		Details:   appError.Details,
		RequestID: requestID,
	})
}
