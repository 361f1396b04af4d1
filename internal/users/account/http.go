// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dhirajsah18/v-Tube/internal/platform/ctxutil"
	"github.com/Dhirajsah18/v-Tube/internal/platform/middleware"
	requestutil "github.com/Dhirajsah18/v-Tube/internal/platform/request"
	"github.com/Dhirajsah18/v-Tube/internal/platform/respond"
)

// Handler implements the HTTP layer for account management and channel pages.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// UserRoutes returns the authenticated "/users" endpoints.
func (handler *Handler) UserRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)

	return router
}

// ChannelRoutes returns the public "/channels" endpoints.
func (handler *Handler) ChannelRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{username}", handler.getChannelProfile)
	return router
}

/*
GET /api/v1/users/me.

Response:
  - 200: User: The caller's record
  - 401: UNAUTHORIZED: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetCurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for account updates.
type updateMeRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

/*
PATCH /api/v1/users/me.

Response:
  - 200: User: The updated record
  - 400: VALIDATION_ERROR: Invalid input data
  - 409: CONFLICT: Email already registered
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateAccountDetails(request.Context(), userID, UpdateAccountInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
GET /api/v1/channels/{username}.

Response:
  - 200: ChannelProfile: Channel with derived counts
  - 404: NOT_FOUND: Channel not found
*/
func (handler *Handler) getChannelProfile(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.accountService.GetChannelProfile(
		request.Context(), requestutil.Param(request, "username"), ctxutil.CallerID(request.Context()),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
