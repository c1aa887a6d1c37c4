// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/questwise/internal/logging"
	"github.com/tomtom215/questwise/internal/models"
)

// readinessTimeout bounds the store ping in the readiness probe.
const readinessTimeout = 2 * time.Second

// Root handles GET / with the fixed banner the backend checks for.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.RootResponse{Message: models.RootMessage})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, models.HealthStatus{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 503 when the artifact store cannot be reached. An untrained
// model is still ready: /train must be reachable to fix it.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	health := models.HealthStatus{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
		Checks:  map[string]string{},
	}

	status := h.model.Status()
	if status.Trained {
		health.Checks["model"] = "trained"
	} else {
		health.Checks["model"] = "untrained"
	}

	if err := h.model.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("store", status.Store).Msg("readiness check failed")
		health.Status = "unavailable"
		health.Checks["store"] = "unreachable"
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status: models.StatusError,
			Data:   health,
			Metadata: models.Metadata{
				Timestamp: time.Now(),
			},
			Error: &models.APIError{
				Code:    "STORE_UNAVAILABLE",
				Message: "artifact store is not reachable",
			},
		})
		return
	}

	health.Checks["store"] = "ok"
	respondSuccess(w, health, start)
}
