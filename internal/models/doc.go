// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package models defines the HTTP request and response types of the ML service.

Model Categories:

1. ML endpoint bodies (flat shapes consumed by the quest backend):
  - PredictRequest / PredictResponse / PredictErrorResponse: POST /predict
  - TrainRequest / TrainResponse: POST /train
  - RecommendRequest / RecommendResponse: POST /recommend
  - StatusErrorResponse: failure body of /train and /recommend

2. Operational envelope:
  - APIResponse: Standard response wrapper for /health/* and /api/v1/*
  - APIError: Error details
  - Metadata: Response metadata (timestamp, query time)
  - HealthStatus: Probe payload

JSON field names follow the backend contract: snake_case for the insurance
applicant, camelCase for the quest engine.
*/
package models
