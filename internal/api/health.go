// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dhirajsah18/v-Tube/internal/platform/respond"
)

// Check probes one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

// HealthDependencies lists what /ready probes.
type HealthDependencies struct {
	Database Check

	// Cache is nil when the count cache is disabled.
	Cache Check
}

// readinessTimeout bounds one /ready call across all checks.
const readinessTimeout = 3 * time.Second

type probeResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type readinessReport struct {
	Status string        `json:"status"`
	Checks []probeResult `json:"checks"`
}

type namedCheck struct {
	name  string
	check Check
}

// NewHealthHandlers builds the liveness and readiness probe handlers.
//
// Liveness never touches a dependency. Readiness answers 503 with the
// per-dependency report when any check fails.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	checks := make([]namedCheck, 0, 2)
	if deps.Database != nil {
		checks = append(checks, namedCheck{name: "postgres", check: deps.Database})
	}
	if deps.Cache != nil {
		checks = append(checks, namedCheck{name: "redis", check: deps.Cache})
	}

	liveness = func(writer http.ResponseWriter, request *http.Request) {
		respond.OK(writer, map[string]string{"status": "ok"})
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
		defer cancel()

		report := readinessReport{Status: "ready", Checks: make([]probeResult, 0, len(checks))}
		for _, dependency := range checks {
			result := probeResult{Name: dependency.name, OK: true}
			if err := dependency.check(ctx); err != nil {
				result.OK = false
				result.Error = err.Error()
				report.Status = "degraded"
				logger.ErrorContext(ctx, "readiness_check_failed",
					slog.String("dependency", dependency.name),
					slog.Any("error", err),
				)
			}
			report.Checks = append(report.Checks, result)
		}

		if report.Status != "ready" {
			respond.Data(writer, http.StatusServiceUnavailable, report)
			return
		}
		respond.OK(writer, report)
	}

	return liveness, readiness
}
