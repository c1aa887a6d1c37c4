// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package middleware provides chi-compatible HTTP middleware.

Key Components:

  - RequestID: request ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge keyed by route pattern
  - AccessLog: per-request debug line plus slow request warnings
  - Compression: gzip for clients that accept it

Middleware Stack:

The router installs them in this order, after CORS and rate limiting:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(middleware.Compression)

RequestID runs first so every later log line carries request_id.
PrometheusMetrics reads the chi route pattern after the handler returns,
so it must be installed with r.Use on the router rather than wrapped
around it.
*/
package middleware
