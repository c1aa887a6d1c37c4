// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	return c.validateInsurance()
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}

	format := strings.ToLower(c.Logging.Format)
	if format != "json" && format != "console" {
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}

// validateSecurity validates CORS and rate limit settings
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
	}
	return nil
}

// validateRecommend validates the recommendation engine settings
func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.MaxNeighbors < 1 {
		return fmt.Errorf("RECOMMEND_MAX_NEIGHBORS must be positive, got %d", r.MaxNeighbors)
	}
	if r.TopN < 1 {
		return fmt.Errorf("RECOMMEND_TOP_N must be positive, got %d", r.TopN)
	}
	if r.TrainTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_TRAIN_TIMEOUT must be positive, got %s", r.TrainTimeout)
	}
	if r.ParallelThreshold < 1 {
		return fmt.Errorf("RECOMMEND_PARALLEL_THRESHOLD must be positive, got %d", r.ParallelThreshold)
	}
	if r.SyncInterval < 0 {
		return fmt.Errorf("RECOMMEND_SYNC_INTERVAL must not be negative, got %s", r.SyncInterval)
	}
	return nil
}

// validateStore validates the artifact store selection
func (c *Config) validateStore() error {
	s := &c.Recommend.Store
	switch s.Backend {
	case StoreBackendFile:
		if s.Path == "" {
			return fmt.Errorf("MODEL_STORE_PATH is required when MODEL_STORE_BACKEND=file")
		}
	case StoreBackendBadger:
		// empty path runs in memory
	case StoreBackendRedis:
		if s.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when MODEL_STORE_BACKEND=redis")
		}
		if s.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must not be negative, got %d", s.RedisDB)
		}
	default:
		return fmt.Errorf("MODEL_STORE_BACKEND must be one of file, badger, redis, got %q", s.Backend)
	}

	if s.KeepVersions < 1 {
		return fmt.Errorf("MODEL_KEEP_VERSIONS must be at least 1, got %d", s.KeepVersions)
	}
	return nil
}

// validateInsurance validates the insurance scoring settings. The rule and
// model file are compiled at startup, not here.
func (c *Config) validateInsurance() error {
	if c.Insurance.CostThreshold <= 0 {
		return fmt.Errorf("INSURANCE_COST_THRESHOLD must be positive, got %v", c.Insurance.CostThreshold)
	}
	return nil
}
