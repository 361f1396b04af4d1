// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/ctxutil"
	requestutil "github.com/Dhirajsah18/v-Tube/internal/platform/request"
	"github.com/Dhirajsah18/v-Tube/internal/platform/respond"
	"github.com/Dhirajsah18/v-Tube/internal/platform/sec"
)

// Authorizer turns a presented access token into caller claims.
//
// # Why an interface?
//
// Defining Authorizer here decouples the middleware from [guard.Guard],
// allowing stubs during unit testing.
type Authorizer interface {
	Authorize(accessToken string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the access token of the request.
//
// # Flow
//  1. Read 'Authorization: Bearer <token>', falling back to the access cookie.
//  2. If absent, request proceeds as anonymous.
//  3. If present, authorize it via [Authorizer]. A rejected token leaves the
//     request anonymous so public routes (login, refresh) still work with a stale
//     cookie; protected routes then fail in [RequireAuth].
//  4. Inject [*sec.AuthClaims] and a user-scoped logger into the request context.
func Authenticate(authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token := requestutil.AccessToken(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := authorizer.Authorize(token)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "access_token_rejected",
					slog.Any("error", err),
				)
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithLogAttrs(ctx, slog.String("user_id", claims.UserID))

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated with 401.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
