// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"time"

	"github.com/tomtom215/questwise/internal/insurance"
	"github.com/tomtom215/questwise/internal/recommend"
)

// Trainer fits and publishes a recommendation bundle.
type Trainer interface {
	Train(ctx context.Context, activities []recommend.ActivityRecord, userFeatures []recommend.UserFeatures) (*recommend.TrainResult, error)
}

// Recommender ranks quests against the published bundle.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.RecommendRequest) ([]recommend.Recommendation, error)
}

// ModelState reports on the published bundle and its store.
type ModelState interface {
	Status() recommend.Status
	Ping(ctx context.Context) error
}

// Predictor prices an insurance applicant.
type Predictor interface {
	Predict(a *insurance.Applicant) (*insurance.Prediction, error)
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: Response and decoding helpers
//   - handlers_health.go: Root, liveness and readiness
//   - handlers_insurance.go: POST /predict
//   - handlers_recommend.go: POST /train, POST /recommend, GET /api/v1/model
type Handler struct {
	trainer      Trainer
	recommender  Recommender
	model        ModelState
	predictor    Predictor
	version      string
	trainTimeout time.Duration
	startTime    time.Time
}

// HandlerDeps groups the components the handlers call.
type HandlerDeps struct {
	Trainer     Trainer
	Recommender Recommender
	Model       ModelState
	Predictor   Predictor

	// Version is reported by the health endpoints.
	Version string

	// TrainTimeout bounds a /train request. Zero leaves the request
	// context alone; the trainer applies its own deadline as well.
	TrainTimeout time.Duration
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(api.HandlerDeps{
//	    Trainer:     trainer,
//	    Recommender: recommender,
//	    Model:       artifacts,
//	    Predictor:   scorer,
//	})
//	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))
//	http.ListenAndServe(":8000", router.SetupChi())
func NewHandler(deps HandlerDeps) *Handler {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		trainer:      deps.Trainer,
		recommender:  deps.Recommender,
		model:        deps.Model,
		predictor:    deps.Predictor,
		version:      version,
		trainTimeout: deps.TrainTimeout,
		startTime:    time.Now(),
	}
}
