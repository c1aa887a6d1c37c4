// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto
and exposed at /metrics:

	curl http://localhost:8000/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Requests in flight (gauge)
  - api_rate_limit_hits_total: Rate limited requests (counter)

Model Metrics:
  - questwise_training_runs_total: Training runs (counter)
    Labels: result
  - questwise_training_duration_seconds: Training duration (histogram)
  - questwise_model_version, questwise_model_samples,
    questwise_model_dimensionality: Shape of the served bundle (gauges)
  - questwise_model_last_published_timestamp: Last publish or reload (gauge)

Inference Metrics:
  - questwise_recommendation_requests_total: Recommendation calls (counter)
    Labels: result
  - questwise_recommendation_duration_seconds: Recommendation latency (histogram)
  - questwise_feature_mismatch_total: Schema drift at inference (counter)
  - questwise_predictions_total: Insurance predictions (counter)
    Labels: eligibility
  - questwise_prediction_duration_seconds: Prediction latency (histogram)

Storage Metrics:
  - questwise_store_operation_duration_seconds (histogram)
    Labels: store, operation
  - questwise_store_operation_errors_total (counter)
    Labels: store, operation
  - questwise_bundle_sync_total: Sync checks (counter)
    Labels: result

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels name, result (counter)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total: Labels name, from_state, to_state

ML Client Metrics:
  - questwise_mlclient_requests_total: Labels endpoint, result (counter)
  - questwise_mlclient_request_duration_seconds: Labels endpoint (histogram)
  - questwise_mlclient_fallbacks_total (counter)

# Result Labels

Result labels come from ResultLabel. Errors that implement
MetricLabel() string name their own label, so the recommend package's
error types appear as invalid_input, not_trained, feature_mismatch and
storage without this package importing them.

# Thread Safety

All recording functions are safe for concurrent use.
*/
package metrics
