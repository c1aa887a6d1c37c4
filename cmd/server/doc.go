// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package main is the entry point for the questwise ML service.

The service answers the quest backend: insurance cost prediction with
reward eligibility, and quest recommendations from a nearest-neighbour
model trained on user activity.

# Application Architecture

	RootSupervisor ("questwise")
	├── ModelSupervisor ("model-layer")
	│   └── Bundle sync (load on startup, poll the artifact store)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with .env, environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Artifact store: file, badger or redis, optionally behind a circuit breaker
 4. Recommendation: artifacts holder, trainer, recommender
 5. Insurance: cost model, CEL eligibility rule, scorer
 6. Supervisor Tree: Suture v4 process supervision
 7. HTTP Server: Chi router with middleware stack

# Configuration

	Priority: Environment variables > .env file > Config file > Defaults

Core environment variables:

	# Server
	PORT=8000                        # HTTP server port
	LOG_LEVEL=info                   # trace, debug, info, warn, error
	LOG_FORMAT=json                  # json or console

	# Recommendation
	RECOMMEND_MAX_NEIGHBORS=5
	RECOMMEND_TOP_N=5
	RECOMMEND_SYNC_INTERVAL=30s      # 0 disables polling

	# Artifact store
	MODEL_STORE_BACKEND=file         # file, badger or redis
	MODEL_STORE_PATH=/data/models
	MODEL_KEEP_VERSIONS=3
	REDIS_ADDR=redis:6379            # redis backend only

	# Insurance
	INSURANCE_MODEL_PATH=            # YAML coefficients, empty for built-in
	INSURANCE_COST_THRESHOLD=20000
	INSURANCE_ELIGIBILITY_RULE=      # CEL expression, empty for built-in

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for
SHUTDOWN_TIMEOUT, then the artifact store is closed.

# Example Usage

	MODEL_STORE_BACKEND=badger MODEL_STORE_PATH=/var/lib/questwise ./questwise

	docker run -d -p 8000:8000 -v models:/data/models ghcr.io/tomtom215/questwise
*/
package main
