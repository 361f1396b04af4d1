// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package request reads inputs off an *http.Request for the handlers.

It covers path parameters, the two session token transports (Authorization
header and cookies), strict JSON bodies and the authenticated caller.
Bodies are capped at 1 MiB and unknown fields are rejected.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/constants"
	"github.com/Dhirajsah18/v-Tube/internal/platform/ctxutil"
	"github.com/Dhirajsah18/v-Tube/internal/platform/validate"
)

const maxBodyBytes = 1 << 20

// # Body

// DecodeJSON decodes the body into target and fails with
// [validate.ErrInvalidJSON] on an empty, malformed or oversized body.
func DecodeJSON(request *http.Request, target any) error {
	return decode(request, target, false)
}

// DecodeOptionalJSON is [DecodeJSON] for endpoints whose body may be absent.
func DecodeOptionalJSON(request *http.Request, target any) error {
	return decode(request, target, true)
}

func decode(request *http.Request, target any, optional bool) error {
	if request.Body == nil || request.Body == http.NoBody {
		if optional {
			return nil
		}
		return validate.ErrInvalidJSON
	}

	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	err := decoder.Decode(target)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return nil
	}
	return validate.ErrInvalidJSON
}

// # Path

// Param returns the chi URL parameter name, or "".
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// # Session Tokens

// AccessToken prefers "Authorization: Bearer <token>" over the access cookie.
// It returns "" when neither carries a token.
func AccessToken(request *http.Request) string {
	if token, ok := strings.CutPrefix(request.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

// RefreshToken prefers a non-empty refresh cookie over bodyValue.
func RefreshToken(request *http.Request, bodyValue string) string {
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return strings.TrimSpace(bodyValue)
}

// # Caller

// RequiredUserID returns the authenticated caller's id, or Unauthorized for an
// anonymous request.
func RequiredUserID(request *http.Request) (string, error) {
	callerID := ctxutil.CallerID(request.Context())
	if callerID == "" {
		return "", apperr.Unauthorized("Authentication required")
	}
	return callerID, nil
}
