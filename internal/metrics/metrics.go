// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Training runs and the published model
// - Recommendation and prediction requests
// - Artifact store operations
// - Circuit breakers and the outbound ML client

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Training Metrics
	TrainingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questwise_training_runs_total",
			Help: "Total number of training runs",
		},
		[]string{"result"}, // see ResultLabel
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "questwise_training_duration_seconds",
			Help:    "Training run duration in seconds, including persistence",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
		},
	)

	// Model Metrics
	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "questwise_model_version",
			Help: "Version of the published artifact bundle",
		},
	)

	ModelSamples = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "questwise_model_samples",
			Help: "Number of users in the published neighbor index",
		},
	)

	ModelDimensionality = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "questwise_model_dimensionality",
			Help: "Feature vector length of the published neighbor index",
		},
	)

	ModelLastPublished = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "questwise_model_last_published_timestamp",
			Help: "Unix timestamp of the last bundle publish or reload",
		},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questwise_recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"result"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "questwise_recommendation_duration_seconds",
			Help:    "Recommendation latency in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	FeatureMismatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "questwise_feature_mismatch_total",
			Help: "Inference vectors whose length did not match the trained model",
		},
	)

	// Insurance Metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questwise_predictions_total",
			Help: "Total number of insurance cost predictions",
		},
		[]string{"eligibility"}, // eligibility: "eligible", "not_eligible", "error"
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "questwise_prediction_duration_seconds",
			Help:    "Insurance prediction latency in seconds",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
		},
	)

	// Artifact Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "questwise_store_operation_duration_seconds",
			Help:    "Artifact store operation latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"store", "operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questwise_store_operation_errors_total",
			Help: "Total number of failed artifact store operations",
		},
		[]string{"store", "operation"},
	)

	BundleSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questwise_bundle_sync_total",
			Help: "Bundle sync checks against the artifact store",
		},
		[]string{"result"}, // result: "reloaded", "unchanged", "error"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// ML Client Metrics
	MLClientRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questwise_mlclient_requests_total",
			Help: "Outbound ML service calls",
		},
		[]string{"endpoint", "result"},
	)

	MLClientDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "questwise_mlclient_request_duration_seconds",
			Help:    "Outbound ML service call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	MLClientFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "questwise_mlclient_fallbacks_total",
			Help: "Recommendation calls answered by the active-quest fallback",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// labeled is implemented by errors that name their own result label.
type labeled interface {
	MetricLabel() string
}

// ResultLabel maps an outcome to a low-cardinality result label:
// "success" for nil, the error's MetricLabel when it has one, and
// "error" otherwise.
func ResultLabel(err error) string {
	if err == nil {
		return "success"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var l labeled
	if errors.As(err, &l) {
		return l.MetricLabel()
	}
	return "error"
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordTraining records one training run.
func RecordTraining(duration time.Duration, err error) {
	TrainingDuration.Observe(duration.Seconds())
	TrainingRunsTotal.WithLabelValues(ResultLabel(err)).Inc()
}

// SetModelInfo publishes the shape of the currently served bundle.
func SetModelInfo(version int64, samples, dimensionality int) {
	ModelVersion.Set(float64(version))
	ModelSamples.Set(float64(samples))
	ModelDimensionality.Set(float64(dimensionality))
	ModelLastPublished.Set(float64(time.Now().Unix()))
}

// RecordRecommendation records one recommendation request.
func RecordRecommendation(duration time.Duration, err error) {
	RecommendationDuration.Observe(duration.Seconds())
	RecommendationRequests.WithLabelValues(ResultLabel(err)).Inc()
}

// RecordFeatureMismatch counts a schema drift detected at inference.
func RecordFeatureMismatch() {
	FeatureMismatches.Inc()
}

// RecordPrediction records one insurance prediction.
func RecordPrediction(duration time.Duration, eligible bool, err error) {
	PredictionDuration.Observe(duration.Seconds())
	switch {
	case err != nil:
		PredictionsTotal.WithLabelValues("error").Inc()
	case eligible:
		PredictionsTotal.WithLabelValues("eligible").Inc()
	default:
		PredictionsTotal.WithLabelValues("not_eligible").Inc()
	}
}

// RecordStoreOperation records an artifact store call.
func RecordStoreOperation(store, operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(store, operation).Inc()
	}
}

// RecordBundleSync records one sync check. result is "reloaded",
// "unchanged" or "error".
func RecordBundleSync(result string) {
	BundleSyncs.WithLabelValues(result).Inc()
}

// RecordMLClientRequest records an outbound ML service call.
func RecordMLClientRequest(endpoint string, duration time.Duration, err error) {
	MLClientDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	result := "success"
	if err != nil {
		result = "error"
	}
	MLClientRequests.WithLabelValues(endpoint, result).Inc()
}

// RecordMLClientFallback counts a recommendation served by the fallback.
func RecordMLClientFallback() {
	MLClientFallbacks.Inc()
}

// SetAppInfo publishes build information.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}
