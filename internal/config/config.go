// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"net"
	"strconv"
	"time"
)

// Store backends accepted by recommend.store.backend.
const (
	StoreBackendFile   = "file"
	StoreBackendBadger = "badger"
	StoreBackendRedis  = "redis"
)

// Config holds all service configuration. Values are layered by
// LoadWithKoanf: defaults, then the config file, then environment variables.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Security  SecurityConfig  `koanf:"security"`
	Recommend RecommendConfig `koanf:"recommend"`
	Insurance InsuranceConfig `koanf:"insurance"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"` // Read/write timeout for non-training requests

	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// SlowRequestThreshold is the latency above which the access log
	// records a request at warn level.
	SlowRequestThreshold time.Duration `koanf:"slow_request_threshold"`
}

// LoggingConfig holds structured logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// RecommendConfig holds the training and recommendation engine settings.
//
// Environment Variables:
//   - RECOMMEND_MAX_NEIGHBORS: Upper bound on k for the neighbor query (default: 5)
//   - RECOMMEND_TOP_N: Recommendations returned per request (default: 5)
//   - RECOMMEND_TRAIN_TIMEOUT: Training run deadline (default: 5m)
//   - RECOMMEND_PARALLEL_THRESHOLD: Sample count above which queries fan out (default: 2048)
//   - RECOMMEND_SYNC_INTERVAL: Store poll interval, 0 disables (default: 30s)
//   - RECOMMEND_LOAD_ON_STARTUP: Load the persisted bundle at startup (default: true)
type RecommendConfig struct {
	MaxNeighbors      int           `koanf:"max_neighbors"`
	TopN              int           `koanf:"top_n"`
	TrainTimeout      time.Duration `koanf:"train_timeout"`
	ParallelThreshold int           `koanf:"parallel_threshold"`
	SyncInterval      time.Duration `koanf:"sync_interval"`
	LoadOnStartup     bool          `koanf:"load_on_startup"`

	Store StoreConfig `koanf:"store"`
}

// StoreConfig selects and configures the artifact store.
//
// Environment Variables:
//   - MODEL_STORE_BACKEND: file, badger or redis (default: file)
//   - MODEL_STORE_PATH: Directory for the file and badger backends (default: /data/models)
//   - MODEL_KEEP_VERSIONS: Bundle versions retained (default: 3)
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_KEY_PREFIX: redis backend settings
//   - MODEL_STORE_CIRCUIT_BREAKER: Guard the store with a circuit breaker (default: true)
type StoreConfig struct {
	Backend      string `koanf:"backend"`
	Path         string `koanf:"path"` // Empty path with the badger backend runs in memory
	KeepVersions int    `koanf:"keep_versions"`

	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`

	CircuitBreaker bool `koanf:"circuit_breaker"`
}

// InsuranceConfig configures the cost model and eligibility rule.
type InsuranceConfig struct {
	// ModelPath is a YAML coefficient file. Empty uses the built-in model.
	ModelPath string `koanf:"model_path"`

	// CostThreshold is exposed to the rule as cost_threshold.
	CostThreshold float64 `koanf:"cost_threshold"`

	// EligibilityRule is a CEL expression. Empty uses the built-in rule.
	EligibilityRule string `koanf:"eligibility_rule"`
}

// Load reads configuration from defaults, the config file, the .env file
// and environment variables.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
