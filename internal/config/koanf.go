// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/questwise/config.yaml",
	"/etc/questwise/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the location of the .env file.
const DotEnvPathEnvVar = "DOTENV_PATH"

// defaultDotEnvPath is read when DOTENV_PATH is unset. A missing file is not an error.
const defaultDotEnvPath = ".env"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                 8000,
			Host:                 "0.0.0.0",
			Timeout:              30 * time.Second,
			ShutdownTimeout:      15 * time.Second,
			SlowRequestThreshold: time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Recommend: RecommendConfig{
			MaxNeighbors:      5,
			TopN:              5,
			TrainTimeout:      5 * time.Minute,
			ParallelThreshold: 2048,
			SyncInterval:      30 * time.Second,
			LoadOnStartup:     true,
			Store: StoreConfig{
				Backend:        StoreBackendFile,
				Path:           "/data/models",
				KeepVersions:   3,
				RedisAddr:      "",
				RedisDB:        0,
				RedisKeyPrefix: "questwise:model:",
				CircuitBreaker: true,
			},
		},
		Insurance: InsuranceConfig{
			ModelPath:       "",
			CostThreshold:   20000,
			EligibilityRule: "",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources.
// Configuration is loaded in the following order (later sources override earlier):
//  1. Default values (from defaultConfig())
//  2. Config file (config.yaml, if exists)
//  3. .env file (only for variables not already set in the environment)
//  4. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Merge .env into the process environment
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	// Layer 4: Load environment variables (highest priority)
	// HTTP_PORT -> server.port
	// MODEL_STORE_BACKEND -> recommend.store.backend
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadDotEnv loads KEY=value pairs into the process environment. Variables
// that are already set keep their value. The default .env may be absent;
// an explicit DOTENV_PATH must exist.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	explicit := path != ""
	if !explicit {
		path = defaultDotEnvPath
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load env file %s: %w", path, err)
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's a string, split by comma
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"port":                   "server.port",
	"http_port":              "server.port",
	"http_host":              "server.host",
	"http_timeout":           "server.timeout",
	"shutdown_timeout":       "server.shutdown_timeout",
	"slow_request_threshold": "server.slow_request_threshold",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Security
	"cors_origins":       "security.cors_origins",
	"rate_limit_reqs":    "security.rate_limit_reqs",
	"rate_limit_window":  "security.rate_limit_window",
	"disable_rate_limit": "security.rate_limit_disabled",

	// Recommendation engine
	"recommend_max_neighbors":      "recommend.max_neighbors",
	"recommend_top_n":              "recommend.top_n",
	"recommend_train_timeout":      "recommend.train_timeout",
	"recommend_parallel_threshold": "recommend.parallel_threshold",
	"recommend_sync_interval":      "recommend.sync_interval",
	"recommend_load_on_startup":    "recommend.load_on_startup",

	// Artifact store
	"model_store_backend":         "recommend.store.backend",
	"model_store_path":            "recommend.store.path",
	"model_keep_versions":         "recommend.store.keep_versions",
	"model_store_circuit_breaker": "recommend.store.circuit_breaker",
	"redis_addr":                  "recommend.store.redis_addr",
	"redis_password":              "recommend.store.redis_password",
	"redis_db":                    "recommend.store.redis_db",
	"redis_key_prefix":            "recommend.store.redis_key_prefix",

	// Insurance
	"insurance_model_path":       "insurance.model_path",
	"insurance_cost_threshold":   "insurance.cost_threshold",
	"insurance_eligibility_rule": "insurance.eligibility_rule",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - LOG_LEVEL -> logging.level
//   - MODEL_STORE_BACKEND -> recommend.store.backend
//   - INSURANCE_COST_THRESHOLD -> insurance.cost_threshold
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
