// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

import (
	"time"
)

// APIResponse is the envelope used by the operational endpoints
// (/health/*, /api/v1/*). The ML endpoints keep their own flat shapes, see
// ml.go.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"trained": true, "version": 4, "quest_count": 12},
//	  "metadata": {
//	    "timestamp": "2026-03-02T12:00:00Z",
//	    "query_time_ms": 0
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "STORE_UNAVAILABLE",
//	    "message": "artifact store is not reachable"
//	  },
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Time spent producing the payload, in milliseconds
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Fields:
//   - Code: Machine-readable error code (e.g., "VALIDATION_ERROR", "FEATURE_MISMATCH")
//   - Message: Human-readable error message
//   - Details: Additional context (field names, constraints, etc.)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of the liveness and readiness probes.
type HealthStatus struct {
	Status  string            `json:"status"` // "ok" or "unavailable"
	Version string            `json:"version"`
	Uptime  float64           `json:"uptime_seconds"`
	Checks  map[string]string `json:"checks,omitempty"`
}
