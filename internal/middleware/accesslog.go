// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/questwise/internal/logging"
)

// AccessLog writes one info line per request and a warning for requests
// slower than slowThreshold. A zero threshold disables the warning.
// It must run after RequestID so lines carry the request ID.
func AccessLog(slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			logger := logging.Ctx(r.Context())
			event := logger.Info()
			msg := "request completed"
			if slowThreshold > 0 && duration > slowThreshold {
				event = logger.Warn().Dur("threshold", slowThreshold)
				msg = "slow request"
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.statusCode).
				Dur("duration", duration).
				Msg(msg)
		})
	}
}
