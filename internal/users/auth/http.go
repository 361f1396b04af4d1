// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dhirajsah18/v-Tube/internal/platform/constants"
	"github.com/Dhirajsah18/v-Tube/internal/platform/middleware"
	requestutil "github.com/Dhirajsah18/v-Tube/internal/platform/request"
	"github.com/Dhirajsah18/v-Tube/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler owns the session entry points and is the only place that
// writes or clears the token cookies.
type Handler struct {
	authService  *Service
	cookieSecure bool
}

// NewHandler constructs a new [Handler] with its service dependency.
//
// cookieSecure sets the Secure attribute on token cookies; disable it only for
// plain-HTTP local development.
func NewHandler(service *Service, cookieSecure bool) *Handler {
	return &Handler{authService: service, cookieSecure: cookieSecure}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register        : Creates a new account.
//   - POST /login           : Issues an access/refresh pair.
//   - POST /refresh         : Rotates the refresh token.
//   - POST /logout          : Revokes the refresh token (auth).
//   - POST /change-password : Replaces the password (auth).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	CoverURL  string `json:"cover_url"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Response:
  - 201: User: Created user profile
  - 400: VALIDATION_ERROR: Bad input or validation failure
  - 409: CONFLICT: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Request:
  - Body: loginRequest ("login", or "email"/"username", plus "password")

Response:
  - 200: Both tokens and the user profile; both tokens are also set as cookies
  - 401: INVALID_CREDENTIAL: Wrong password
  - 404: NOT_FOUND: No such identity
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	login := input.Login
	if login == "" {
		login = input.Email
	}
	if login == "" {
		login = input.Username
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)

	respond.OK(writer, sessionPayload(session))
}

/*
Refresh rotates the refresh token.

POST /api/v1/auth/refresh

Description: Reads the refresh token from the cookie, falling back to the
"refresh_token" body field, and issues a new pair.

Response:
  - 200: New access and refresh tokens
  - 401: UNAUTHORIZED when missing, TOKEN_INVALID when rejected
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Refresh(request.Context(), requestutil.RefreshToken(request, input.RefreshToken))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)

	respond.OK(writer, sessionPayload(session))
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Response:
  - 204: No Content: Refresh token revoked, cookies cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSessionCookies(writer)
	respond.NoContent(writer)
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/auth/change-password

Response:
  - 200: Success: Password changed; refresh cookie cleared
  - 400: VALIDATION_ERROR: Weak password or validation failure
  - 401: INVALID_CREDENTIAL: Old password mismatch
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), userID, input.OldPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearCookie(writer, constants.RefreshTokenCookieName, constants.RefreshTokenCookiePath)

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}

// # Cookie Transport

func sessionPayload(session *Session) map[string]any {
	return map[string]any{
		FieldAccessToken:  session.AccessToken,
		FieldRefreshToken: session.RefreshToken,
		FieldTokenType:    "Bearer",
		FieldExpiresIn:    int64(time.Until(session.AccessTokenExpiresAt) / time.Second),
		FieldUser:         session.User,
	}
}

func (handler *Handler) setSessionCookies(writer http.ResponseWriter, session *Session) {
	handler.setCookie(writer, constants.AccessTokenCookieName, session.AccessToken,
		constants.AccessTokenCookiePath, session.AccessTokenExpiresAt)
	handler.setCookie(writer, constants.RefreshTokenCookieName, session.RefreshToken,
		constants.RefreshTokenCookiePath, session.RefreshTokenExpiresAt)
}

func (handler *Handler) clearSessionCookies(writer http.ResponseWriter) {
	handler.clearCookie(writer, constants.AccessTokenCookieName, constants.AccessTokenCookiePath)
	handler.clearCookie(writer, constants.RefreshTokenCookieName, constants.RefreshTokenCookiePath)
}

func (handler *Handler) setCookie(writer http.ResponseWriter, name, value, path string, expires time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		Secure:   handler.cookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (handler *Handler) clearCookie(writer http.ResponseWriter, name, path string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		Secure:   handler.cookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
