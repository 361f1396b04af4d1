// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package relation

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dhirajsah18/v-Tube/internal/platform/middleware"
	requestutil "github.com/Dhirajsah18/v-Tube/internal/platform/request"
	"github.com/Dhirajsah18/v-Tube/internal/platform/respond"
	"github.com/Dhirajsah18/v-Tube/pkg/pagination"
	"github.com/Dhirajsah18/v-Tube/pkg/slice"
)

// Handler implements the HTTP layer for likes and subscriptions.
type Handler struct {
	relationService *Service
}

// NewHandler constructs a new relation [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{relationService: service}
}

// LikeRoutes returns the "/likes" endpoints. All of them require authentication.
func (handler *Handler) LikeRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/videos/{videoID}", handler.toggle(KindVideo, "videoID"))
	router.Post("/comments/{commentID}", handler.toggle(KindComment, "commentID"))
	router.Post("/tweets/{tweetID}", handler.toggle(KindTweet, "tweetID"))
	router.Get("/videos", handler.listLikedVideos)

	return router
}

// SubscriptionRoutes returns the "/subscriptions" endpoints.
func (handler *Handler) SubscriptionRoutes() chi.Router {
	router := chi.NewRouter()

	// Public listings
	router.Get("/channels/{channelID}/subscribers", handler.listSubscribers)
	router.Get("/users/{subscriberID}", handler.listSubscriptions)

	// Protected toggle
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/channels/{channelID}", handler.toggle(KindChannel, "channelID"))
	})

	return router
}

/*
toggle builds the handler for POST /likes/{kind}/{id} and POST /subscriptions/channels/{id}.

Response:
  - 201: ToggleResult: Relation created
  - 200: ToggleResult: Relation removed
  - 400: VALIDATION_ERROR / INVALID_OPERATION: Bad id or self-subscription
  - 404: NOT_FOUND: Target does not exist
*/
func (handler *Handler) toggle(kind Kind, param string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		actorID, err := requestutil.RequiredUserID(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		result, err := handler.relationService.Toggle(request.Context(), actorID, kind, requestutil.Param(request, param))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if result.State == StateCreated {
			respond.Created(writer, result)
			return
		}

		respond.OK(writer, result)
	}
}

// # Listings

type likedVideo struct {
	VideoID string    `json:"video_id"`
	LikedAt time.Time `json:"liked_at"`
}

type subscriber struct {
	SubscriberID string    `json:"subscriber_id"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

type subscription struct {
	ChannelID    string    `json:"channel_id"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// GET /api/v1/likes/videos
func (handler *Handler) listLikedVideos(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	relations, meta, err := handler.relationService.ListByActor(request.Context(), actorID, KindVideo, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, slice.Map(relations, func(relation *Relation) likedVideo {
		return likedVideo{VideoID: relation.TargetID, LikedAt: relation.CreatedAt}
	}), meta)
}

// GET /api/v1/subscriptions/channels/{channelID}/subscribers
func (handler *Handler) listSubscribers(writer http.ResponseWriter, request *http.Request) {
	relations, meta, err := handler.relationService.ListByTarget(
		request.Context(), KindChannel, requestutil.Param(request, "channelID"), pagination.FromRequest(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, slice.Map(relations, func(relation *Relation) subscriber {
		return subscriber{SubscriberID: relation.ActorID, SubscribedAt: relation.CreatedAt}
	}), meta)
}

// GET /api/v1/subscriptions/users/{subscriberID}
func (handler *Handler) listSubscriptions(writer http.ResponseWriter, request *http.Request) {
	relations, meta, err := handler.relationService.ListByActor(
		request.Context(), requestutil.Param(request, "subscriberID"), KindChannel, pagination.FromRequest(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, slice.Map(relations, func(relation *Relation) subscription {
		return subscription{ChannelID: relation.TargetID, SubscribedAt: relation.CreatedAt}
	}), meta)
}
