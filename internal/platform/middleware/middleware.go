// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package middleware provides the cross-cutting HTTP processing chain.

Every request passes, in order, through correlation (RequestID), access
logging (StructuredLogger), throttling ([RateLimiter]), panic recovery,
credential resolution (Authenticate) and CORS. Route groups that need an
identity add RequireAuth on top.

Domain handlers therefore only ever see requests that carry a request id and
a request scoped logger, and optionally an authenticated caller.
*/
package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"
	"unicode"

	"github.com/Dhirajsah18/v-Tube/internal/platform/apperr"
	"github.com/Dhirajsah18/v-Tube/internal/platform/constants"
	"github.com/Dhirajsah18/v-Tube/internal/platform/ctxutil"
	"github.com/Dhirajsah18/v-Tube/internal/platform/respond"
	"github.com/Dhirajsah18/v-Tube/pkg/uuid"
)

// # Request Tracing

/*
RequestID attaches a correlation id to the request context and echoes it in
the X-Request-ID response header.

A client supplied id is kept when it is short and printable. Anything else is
replaced with a fresh UUIDv7 so it can never pollute log lines.
*/
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if !acceptableRequestID(requestID) {
				requestID = uuid.New()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

func acceptableRequestID(id string) bool {
	if id == "" || len(id) > constants.MaxRequestIDLength {
		return false
	}
	for _, r := range id {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) || r == ' ' {
			return false
		}
	}
	return true
}

// # Access Logging

type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (recorder *statusRecorder) WriteHeader(code int) {
	if !recorder.written {
		recorder.status = code
		recorder.written = true
	}
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *statusRecorder) Write(body []byte) (int, error) {
	recorder.written = true
	return recorder.ResponseWriter.Write(body)
}

/*
StructuredLogger derives a request scoped logger, stores it in the context
and emits one "http_request_finished" line when the handler returns.

Level follows the status: Error for 5xx, Warn for 4xx, Info otherwise.
Successful probe hits are logged at Debug to keep orchestrator noise out of
the default output.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startedAt := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			requestLogger.Log(ctx, accessLevel(request.URL.Path, recorder.status), "http_request_finished",
				slog.Int("status", recorder.status),
				slog.Int64("latency_ms", time.Since(startedAt).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			)
		})
	}
}

func accessLevel(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case path == constants.LivenessPath || path == constants.ReadinessPath:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// # Recovery

/*
PanicRecovery turns a panicking handler into a 500 INTERNAL_ERROR envelope.

The panic value and stack are logged through the request logger when one is
present, otherwise through logger.
*/
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				// Let net/http abort the connection as it normally would.
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				requestLogger := logger
				if scoped := ctxutil.GetLogger(request.Context()); scoped != slog.Default() {
					requestLogger = scoped
				}
				requestLogger.ErrorContext(request.Context(), "panic_recovered",
					slog.Any("panic", recovered),
					slog.String("stack", string(debug.Stack())),
				)

				respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig is the slice of configuration the CORS middleware reads.
type AppConfig interface {
	IsDevelopment() bool
}

const (
	corsAllowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders  = "Accept, Content-Type, Content-Length, Authorization, X-Request-ID"
	corsExposeHeaders = "Content-Length, X-Request-ID"
	corsMaxAgeSeconds = "300"
)

/*
CORS echoes allowed origins with credentials enabled and short-circuits
pre-flight requests with 204.

Development allows every origin. Otherwise only origins ending in
allowedOriginSuffix pass, and an empty suffix allows none.
*/
func CORS(cfg AppConfig, allowedOriginSuffix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			allowed := cfg.IsDevelopment() ||
				(allowedOriginSuffix != "" && strings.HasSuffix(origin, allowedOriginSuffix))

			if allowed {
				header := writer.Header()
				header.Add("Vary", constants.HeaderOrigin)
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", corsAllowMethods)
				header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				header.Set("Access-Control-Expose-Headers", corsExposeHeaders)
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", corsMaxAgeSeconds)
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Helpers

/*
RealIP returns the client address used for rate limiting and access logs.

X-Real-IP wins, then the first X-Forwarded-For hop, then the socket peer.
Header values that do not parse as an IP are ignored.
*/
func RealIP(request *http.Request) string {
	if ip := parseIP(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := parseIP(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

func parseIP(raw string) string {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil {
		return ""
	}
	return ip.String()
}
