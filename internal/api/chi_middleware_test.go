// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/questwise/internal/config"
	"github.com/tomtom215/questwise/internal/recommend"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChiMiddleware_CORS(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"https://quests.example.com"},
		CORSAllowedMethods: []string{"GET", "POST"},
		CORSAllowedHeaders: []string{"Content-Type"},
	})
	h := m.CORS()(okHandler())

	tests := []struct {
		name       string
		origin     string
		wantHeader string
	}{
		{name: "allowed origin", origin: "https://quests.example.com", wantHeader: "https://quests.example.com"},
		{name: "foreign origin", origin: "https://evil.example.com", wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodOptions, "/recommend", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", "POST")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

func TestChiMiddleware_RateLimit(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(&ChiMiddlewareConfig{
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	})
	r := chi.NewRouter()
	r.With(m.RateLimit()).Get("/limited", okHandler().ServeHTTP)

	var codes []int
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	if fmt.Sprint(codes) != fmt.Sprint(want) {
		t.Errorf("status codes = %v, want %v", codes, want)
	}
}

func TestChiMiddleware_RateLimitDisabled(t *testing.T) {
	t.Parallel()

	m := NewChiMiddlewareFromConfig(config.SecurityConfig{
		CORSOrigins:       []string{"*"},
		RateLimitReqs:     1,
		RateLimitWindow:   time.Minute,
		RateLimitDisabled: true,
	})
	h := m.RateLimit()(okHandler())

	for i := range 5 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}
}

func TestClassifyEngineError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantClient bool
	}{
		{"not trained", recommend.ErrModelNotTrained, 400, "MODEL_NOT_TRAINED", true},
		{"wrapped not trained", fmt.Errorf("recommend: %w", recommend.ErrModelNotTrained), 400, "MODEL_NOT_TRAINED", true},
		{"invalid", &recommend.InvalidInputError{Field: "userId", Reason: "empty"}, 400, "INVALID_INPUT", true},
		{"mismatch", &recommend.FeatureMismatchError{Expected: 3, Actual: 2}, 500, "FEATURE_MISMATCH", false},
		{"storage", &recommend.StorageError{Op: "load", Err: errors.New("eof")}, 500, "STORAGE_ERROR", false},
		{"transform", &recommend.TransformError{Stage: "scale", Err: errors.New("nan")}, 500, "TRANSFORM_FAILED", false},
		{"deadline", context.DeadlineExceeded, 503, "TIMEOUT", false},
		{"other", errors.New("boom"), 500, "INTERNAL_ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classifyEngineError(tt.err)
			if got.status != tt.wantStatus || got.code != tt.wantCode || got.clientFault != tt.wantClient {
				t.Errorf("classifyEngineError() = %+v, want {%d %s %v}", got, tt.wantStatus, tt.wantCode, tt.wantClient)
			}
		})
	}
}

func TestStatusErrorBody(t *testing.T) {
	t.Parallel()

	status, body := statusErrorBody(&recommend.FeatureMismatchError{Expected: 5, Actual: 4}, "error generating recommendations")
	if status != http.StatusInternalServerError {
		t.Errorf("status = %d", status)
	}
	if body.Message != "error generating recommendations" || body.Detail == "" || body.Code != "FEATURE_MISMATCH" {
		t.Errorf("body = %+v", body)
	}

	status, body = statusErrorBody(recommend.ErrModelNotTrained, "error generating recommendations")
	if status != http.StatusBadRequest || body.Message != recommend.ErrModelNotTrained.Error() || body.Detail != "" {
		t.Errorf("client fault: status = %d, body = %+v", status, body)
	}
}
