// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhirajsah18/v-Tube/internal/api"
	"github.com/Dhirajsah18/v-Tube/internal/content"
	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/config"
	"github.com/Dhirajsah18/v-Tube/internal/platform/constants"
	"github.com/Dhirajsah18/v-Tube/internal/platform/guard"
	"github.com/Dhirajsah18/v-Tube/internal/platform/middleware"
	"github.com/Dhirajsah18/v-Tube/internal/platform/respond"
	"github.com/Dhirajsah18/v-Tube/internal/platform/sec"
	"github.com/Dhirajsah18/v-Tube/internal/social/relation"
	"github.com/Dhirajsah18/v-Tube/internal/users/account"
	"github.com/Dhirajsah18/v-Tube/internal/users/auth"
)

// newTestServer wires the real handler graph over a pgxmock pool that
// expects no statements.
func newTestServer(t *testing.T, deps api.HealthDependencies) (http.Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tokens, err := sec.NewTokenService(sec.TokenConfig{
		AccessSigningKey:  []byte("server-access"),
		RefreshSigningKey: []byte("server-refresh"),
		AccessTokenTTL:    time.Minute,
		RefreshTokenTTL:   time.Hour,
		Issuer:            "vtube.test",
	})
	require.NoError(t, err)

	users := auth.NewUserRepository(pool)
	contents := content.NewRepository(pool)
	relations := relation.NewService(relation.NewRepository(pool), content.NewTargetResolver(contents, users), nil)

	liveness, readiness := api.NewHealthHandlers(deps, logger)
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(auth.NewService(users, tokens), false),
		Account:   account.NewHandler(account.NewService(users, relations)),
		Relation:  relation.NewHandler(relations),
		Content:   content.NewHandler(content.NewService(contents, relations)),
	}

	cfg := &config.Config{ServerPort: "0", Environment: "development"}
	server := api.NewServer(cfg, logger, guard.New(tokens), middleware.NewRateLimiter(1000, 1000), handlers)
	return server.Handler(), pool
}

func get(handler http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestServer_Probes checks liveness and both readiness outcomes.
*/
func TestServer_Probes(t *testing.T) {
	healthy, _ := newTestServer(t, api.HealthDependencies{
		Database: func(context.Context) error { return nil },
	})

	recorder := get(healthy, http.MethodGet, constants.LivenessPath, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, recorder.Header().Get(constants.HeaderXRequestID), 36)

	recorder = get(healthy, http.MethodGet, constants.ReadinessPath, "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	degraded, _ := newTestServer(t, api.HealthDependencies{
		Database: func(context.Context) error { return nil },
		Cache:    func(context.Context) error { return errors.New("redis down") },
	})

	recorder = get(degraded, http.MethodGet, constants.ReadinessPath, "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var envelope struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name string `json:"name"`
				OK   bool   `json:"ok"`
			} `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	assert.Equal(t, "degraded", envelope.Data.Status)
	require.Len(t, envelope.Data.Checks, 2)
	assert.True(t, envelope.Data.Checks[0].OK)
	assert.False(t, envelope.Data.Checks[1].OK)
}

/*
TestServer_ProtectedGroupsRequireAuth rejects anonymous callers before any store is touched.
*/
func TestServer_ProtectedGroupsRequireAuth(t *testing.T) {
	handler, pool := newTestServer(t, api.HealthDependencies{})

	protected := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodPatch, "/api/v1/users/me"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodPost, "/api/v1/likes/videos/0190b6a2-8f4e-7c3a-9d1e-2b3c4d5e6f70"},
		{http.MethodGet, "/api/v1/likes/videos"},
		{http.MethodPost, "/api/v1/subscriptions/channels/0190b6a2-8f4e-7c3a-9d1e-2b3c4d5e6f70"},
		{http.MethodDelete, "/api/v1/videos/0190b6a2-8f4e-7c3a-9d1e-2b3c4d5e6f70"},
		{http.MethodDelete, "/api/v1/playlists/0190b6a2-8f4e-7c3a-9d1e-2b3c4d5e6f70"},
	}

	for _, route := range protected {
		recorder := get(handler, route.method, route.path, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, route.path)

		var envelope respond.ErrorEnvelope
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
		assert.Equal(t, apperr.CodeUnauthorized, envelope.Code, route.path)
		assert.NotEmpty(t, envelope.RequestID, route.path)
	}

	assert.NoError(t, pool.ExpectationsWereMet())
}

/*
TestServer_RoutingFallbacks covers unknown paths and malformed bodies.
*/
func TestServer_RoutingFallbacks(t *testing.T) {
	handler, _ := newTestServer(t, api.HealthDependencies{})

	assert.Equal(t, http.StatusNotFound, get(handler, http.MethodGet, "/api/v1/nowhere", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, get(handler, http.MethodGet, "/api/v1/auth/login", "").Code)
	assert.Equal(t, http.StatusBadRequest, get(handler, http.MethodPost, "/api/v1/auth/login", `{"email":`).Code)
}
