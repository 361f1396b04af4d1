// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhirajsah18/v-Tube/internal/platform/constants"
	"github.com/Dhirajsah18/v-Tube/internal/platform/guard"
	"github.com/Dhirajsah18/v-Tube/internal/platform/middleware"
	"github.com/Dhirajsah18/v-Tube/internal/platform/sec"
	"github.com/Dhirajsah18/v-Tube/internal/users/auth"
)

type sessionBody struct {
	Data struct {
		AccessToken  string    `json:"access_token"`
		RefreshToken string    `json:"refresh_token"`
		User         auth.User `json:"user"`
	} `json:"data"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	tokens, err := sec.NewTokenService(sec.TokenConfig{
		AccessSigningKey:  []byte("http-access-key"),
		RefreshSigningKey: []byte("http-refresh-key"),
		AccessTokenTTL:    15 * time.Minute,
		RefreshTokenTTL:   24 * time.Hour,
		Issuer:            "vtube.test",
	})
	require.NoError(t, err)

	service := auth.NewService(newMemoryUserRepository(), tokens)
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(guard.New(tokens)))
	router.Mount("/auth", auth.NewHandler(service, false).Routes())
	return router
}

func post(router http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func cookieNamed(recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

const registerBody = `{"username":"alice","email":"alice@example.com","password":"s3cret-pass","full_name":"Alice"}`

/*
TestHandler_RegisterHidesSecrets never leaks the password hash or refresh digest.
*/
func TestHandler_RegisterHidesSecrets(t *testing.T) {
	router := newTestRouter(t)

	recorder := post(router, "/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "passwordhash")
	assert.NotContains(t, recorder.Body.String(), "PasswordHash")
	assert.NotContains(t, recorder.Body.String(), "RefreshTokenHash")

	recorder = post(router, "/auth/register", registerBody)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

/*
TestHandler_LoginRefreshLogout drives the full cookie-based session lifecycle.
*/
func TestHandler_LoginRefreshLogout(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, post(router, "/auth/register", registerBody).Code)

	// ── 1. Login sets both cookies ──
	recorder := post(router, "/auth/login", `{"email":"alice@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var login sessionBody
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&login))
	assert.NotEmpty(t, login.Data.AccessToken)
	assert.Equal(t, "alice", login.Data.User.Username)

	accessCookie := cookieNamed(recorder, constants.AccessTokenCookieName)
	refreshCookie := cookieNamed(recorder, constants.RefreshTokenCookieName)
	require.NotNil(t, accessCookie)
	require.NotNil(t, refreshCookie)
	assert.True(t, refreshCookie.HttpOnly)
	assert.Equal(t, login.Data.RefreshToken, refreshCookie.Value)

	// ── 2. Refresh through the cookie, then replay through the body ──
	recorder = post(router, "/auth/refresh", "", refreshCookie)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = post(router, "/auth/refresh", `{"refresh_token":"`+login.Data.RefreshToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// ── 3. Logout requires authentication ──
	assert.Equal(t, http.StatusUnauthorized, post(router, "/auth/logout", "").Code)

	recorder = post(router, "/auth/logout", "", accessCookie)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	cleared := cookieNamed(recorder, constants.RefreshTokenCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

/*
TestHandler_LoginErrors maps the failure kinds to their statuses.
*/
func TestHandler_LoginErrors(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, post(router, "/auth/register", registerBody).Code)

	assert.Equal(t, http.StatusNotFound, post(router, "/auth/login", `{"login":"ghost","password":"s3cret-pass"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(router, "/auth/login", `{"login":"alice","password":"nope-nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(router, "/auth/login", `{"login":`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(router, "/auth/refresh", "").Code)
}
