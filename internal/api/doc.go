// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package api provides the HTTP layer of the questwise ML service.

Routes:

ML endpoints (flat bodies, consumed by the quest backend):
  - GET  /           banner: {"message": "ml service is running!"}
  - POST /predict    insurance cost and reward eligibility
  - POST /train      fit and publish a recommendation bundle
  - POST /recommend  rank quests for a user

Operational endpoints (models.APIResponse envelope):
  - GET /health/live   liveness probe
  - GET /health/ready  readiness probe, 503 when the artifact store is unreachable
  - GET /api/v1/model  status of the published bundle
  - GET /metrics       Prometheus exposition

Error mapping for /train and /recommend:

	ErrModelNotTrained      400 MODEL_NOT_TRAINED
	*InvalidInputError      400 INVALID_INPUT
	*FeatureMismatchError   500 FEATURE_MISMATCH
	*StorageError           500 STORAGE_ERROR
	*TransformError         500 TRANSFORM_FAILED

Client errors echo the error text in message. Server errors carry a fixed
message and the cause in detail.

Middleware stack (chi): request ID, real IP, panic recovery, access log,
CORS, then per-group Prometheus instrumentation and httprate limits.

Usage Example:

	handler := api.NewHandler(api.HandlerDeps{
	    Trainer:     trainer,
	    Recommender: recommender,
	    Model:       artifacts,
	    Predictor:   scorer,
	    Version:     version,
	})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
