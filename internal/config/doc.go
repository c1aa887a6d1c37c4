// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package config provides centralized configuration management for the
questwise ML service.

# Configuration Sources

Configuration is layered with Koanf. Later sources override earlier ones:

 1. Built-in defaults
 2. YAML config file: CONFIG_PATH, ./config.yaml or /etc/questwise/config.yaml
 3. .env file (DOTENV_PATH, default ./.env); never overrides variables already set
 4. Environment variables

Only the environment variables listed below are read. Anything else in the
environment is ignored.

# Configuration Structure

  - ServerConfig: HTTP listener, timeouts and access log threshold
  - LoggingConfig: zerolog level, format and caller information
  - SecurityConfig: CORS origins and per-IP rate limiting
  - RecommendConfig: neighbor search, training deadline and bundle sync
  - StoreConfig: artifact store backend (file, badger, redis)
  - InsuranceConfig: cost model file, threshold and CEL eligibility rule

# Environment Variables

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT or PORT: Listen port (default: 8000)
  - HTTP_TIMEOUT: Request timeout (default: 30s)
  - SHUTDOWN_TIMEOUT: Graceful shutdown deadline (default: 15s)
  - SLOW_REQUEST_THRESHOLD: Access log warn threshold (default: 1s)

Security:
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQS: Requests per window per IP (default: 100)
  - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
  - DISABLE_RATE_LIMIT: Turn rate limiting off (default: false)

Recommendation engine and artifact store: see RecommendConfig and StoreConfig.

Insurance:
  - INSURANCE_MODEL_PATH: YAML coefficient file (default: built-in model)
  - INSURANCE_COST_THRESHOLD: cost_threshold seen by the rule (default: 20000)
  - INSURANCE_ELIGIBILITY_RULE: CEL expression (default: built-in rule)

# Example config.yaml

	server:
	  port: 8000
	recommend:
	  max_neighbors: 5
	  store:
	    backend: redis
	    redis_addr: redis:6379
	insurance:
	  cost_threshold: 18000

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config
