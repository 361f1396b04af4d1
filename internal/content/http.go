// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dhirajsah18/v-Tube/internal/platform/middleware"
	requestutil "github.com/Dhirajsah18/v-Tube/internal/platform/request"
	"github.com/Dhirajsah18/v-Tube/internal/platform/respond"
)

// Handler implements the ownership-guarded content endpoints.
type Handler struct {
	contentService *Service
}

// NewHandler constructs a new content [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{contentService: service}
}

// Routes returns the endpoints of one content kind, e.g. mounted at "/videos".
func (handler *Handler) Routes(kind Kind) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Delete("/{id}", handler.delete(kind))

	return router
}

/*
DELETE /api/v1/{videos|comments|tweets|playlists}/{id}.

Response:
  - 204: Removed
  - 403: FORBIDDEN: Caller is not the owner
  - 404: NOT_FOUND: No such resource
*/
func (handler *Handler) delete(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		callerID, err := requestutil.RequiredUserID(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.contentService.Delete(request.Context(), callerID, kind, requestutil.Param(request, "id")); err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.NoContent(writer)
	}
}
