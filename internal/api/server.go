// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package api is the HTTP composition root: it assembles the middleware chain,
the probe endpoints and every domain route group behind one chi router.

Route map (all under /api/v1 except the probes):

	/auth           session lifecycle
	/users          the caller's own account
	/channels       public channel pages
	/likes          like toggles and liked videos
	/subscriptions  subscription toggles and listings
	/videos /comments /tweets /playlists  owner-only removal
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Dhirajsah18/v-Tube/internal/content"
	"github.com/Dhirajsah18/v-Tube/internal/platform/config"
	"github.com/Dhirajsah18/v-Tube/internal/platform/constants"
	"github.com/Dhirajsah18/v-Tube/internal/platform/middleware"
	"github.com/Dhirajsah18/v-Tube/internal/social/relation"
	"github.com/Dhirajsah18/v-Tube/internal/users/account"
	"github.com/Dhirajsah18/v-Tube/internal/users/auth"
)

// Handlers carries one handler set per route group, built in main.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	Auth     *auth.Handler
	Account  *account.Handler
	Relation *relation.Handler
	Content  *content.Handler
}

// Server couples the router with the listening [http.Server].
type Server struct {
	httpServer *http.Server
	router     http.Handler
	log        *slog.Logger
}

/*
NewServer builds the router and the listener configuration.

The chain runs outermost first: correlation and access logging wrap
everything, including throttled and panicking requests.
*/
func NewServer(cfg *config.Config, log *slog.Logger, authorizer middleware.Authorizer, limiter *middleware.RateLimiter, h Handlers) *Server {
	router := newRouter(cfg, log, authorizer, limiter, h)

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		},
	}
}

func newRouter(cfg *config.Config, log *slog.Logger, authorizer middleware.Authorizer, limiter *middleware.RateLimiter, h Handlers) chi.Router {
	router := chi.NewRouter()

	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(log),
		chimw.Timeout(constants.GlobalRequestTimeout),
		limiter.Middleware,
		middleware.PanicRecovery(log),
		middleware.Authenticate(authorizer),
		middleware.CORS(cfg, cfg.AllowedOriginSuffix),
		chimw.CleanPath,
	)

	router.Get(constants.LivenessPath, h.Liveness)
	router.Get(constants.ReadinessPath, h.Readiness)

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Mount("/auth", h.Auth.Routes())
		v1.Mount("/users", h.Account.UserRoutes())
		v1.Mount("/channels", h.Account.ChannelRoutes())
		v1.Mount("/likes", h.Relation.LikeRoutes())
		v1.Mount("/subscriptions", h.Relation.SubscriptionRoutes())

		for prefix, kind := range map[string]content.Kind{
			"/videos":    content.KindVideo,
			"/comments":  content.KindComment,
			"/tweets":    content.KindTweet,
			"/playlists": content.KindPlaylist,
		} {
			v1.Mount(prefix, h.Content.Routes(kind))
		}
	})

	return router
}

// Handler exposes the router without a listener.
func (server *Server) Handler() http.Handler {
	return server.router
}

// ListenAndServe blocks until the listener fails or [Server.Shutdown] is called.
func (server *Server) ListenAndServe() error {
	server.log.Info("http_server_listening", slog.String("addr", server.httpServer.Addr))
	return server.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits up to timeout for in-flight requests.
func (server *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return server.httpServer.Shutdown(ctx)
}
