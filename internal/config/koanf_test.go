// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// cleanEnv clears the process environment and moves into an empty directory
// so no stray config.yaml or .env is picked up. Both are restored afterwards.
func cleanEnv(t *testing.T) string {
	t.Helper()
	saved := os.Environ()
	os.Clearenv()
	t.Cleanup(func() {
		os.Clearenv()
		for _, kv := range saved {
			if k, v, ok := strings.Cut(kv, "="); ok {
				_ = os.Setenv(k, v)
			}
		}
	})

	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Recommend.MaxNeighbors != 5 || cfg.Recommend.TopN != 5 {
		t.Errorf("Recommend k/topN = %d/%d, want 5/5", cfg.Recommend.MaxNeighbors, cfg.Recommend.TopN)
	}
	if cfg.Recommend.TrainTimeout != 5*time.Minute {
		t.Errorf("Recommend.TrainTimeout = %v, want 5m", cfg.Recommend.TrainTimeout)
	}
	if !cfg.Recommend.LoadOnStartup {
		t.Error("Recommend.LoadOnStartup should be true by default")
	}
	if cfg.Recommend.Store.Backend != StoreBackendFile {
		t.Errorf("Store.Backend = %q, want file", cfg.Recommend.Store.Backend)
	}
	if cfg.Recommend.Store.KeepVersions != 3 {
		t.Errorf("Store.KeepVersions = %d, want 3", cfg.Recommend.Store.KeepVersions)
	}
	if cfg.Insurance.CostThreshold != 20000 {
		t.Errorf("Insurance.CostThreshold = %v, want 20000", cfg.Insurance.CostThreshold)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"*"}) {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

// TestEnvTransformFunc verifies env var name mapping
func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"RECOMMEND_TOP_N", "recommend.top_n"},
		{"MODEL_STORE_BACKEND", "recommend.store.backend"},
		{"REDIS_ADDR", "recommend.store.redis_addr"},
		{"INSURANCE_ELIGIBILITY_RULE", "insurance.eligibility_rule"},
		{"model_keep_versions", "recommend.store.keep_versions"},
		{"HOME", ""},
		{"PATH", ""},
		{"RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	dir := cleanEnv(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty string", got)
	}

	writeFile(t, filepath.Join(dir, "config.yaml"), "server:\n  port: 9000\n")
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}

	custom := filepath.Join(dir, "custom.yaml")
	writeFile(t, custom, "server:\n  port: 9001\n")
	t.Setenv(ConfigPathEnvVar, custom)
	if got := findConfigFile(); got != custom {
		t.Errorf("findConfigFile() = %q, want %q", got, custom)
	}

	// A missing CONFIG_PATH falls back to the default search
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "absent.yaml"))
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	cleanEnv(t)

	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RECOMMEND_SYNC_INTERVAL", "2m")
	t.Setenv("RECOMMEND_LOAD_ON_STARTUP", "false")
	t.Setenv("MODEL_STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("INSURANCE_COST_THRESHOLD", "18500.5")
	t.Setenv("UNRELATED_SETTING", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Recommend.SyncInterval != 2*time.Minute {
		t.Errorf("SyncInterval = %v, want 2m", cfg.Recommend.SyncInterval)
	}
	if cfg.Recommend.LoadOnStartup {
		t.Error("LoadOnStartup = true, want false")
	}
	if cfg.Recommend.Store.Backend != StoreBackendRedis || cfg.Recommend.Store.RedisAddr != "redis:6379" || cfg.Recommend.Store.RedisDB != 2 {
		t.Errorf("Store = %+v", cfg.Recommend.Store)
	}
	if cfg.Insurance.CostThreshold != 18500.5 {
		t.Errorf("CostThreshold = %v, want 18500.5", cfg.Insurance.CostThreshold)
	}

	// Defaults survive for unset values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Recommend.Store.KeepVersions != 3 {
		t.Errorf("KeepVersions = %d, want 3 (default)", cfg.Recommend.Store.KeepVersions)
	}
}

// TestLoadWithKoanfConfigFile tests loading configuration from a YAML file
func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := cleanEnv(t)

	writeFile(t, filepath.Join(dir, "config.yaml"), `
server:
  port: 8100
logging:
  format: console
security:
  cors_origins:
    - https://quests.example
recommend:
  top_n: 8
  train_timeout: 90s
  store:
    backend: badger
    path: ""
insurance:
  eligibility_rule: "predicted_cost < cost_threshold"
`)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8100 {
		t.Errorf("Server.Port = %d, want 8100", cfg.Server.Port)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"https://quests.example"}) {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Recommend.TopN != 8 || cfg.Recommend.TrainTimeout != 90*time.Second {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Recommend.Store.Backend != StoreBackendBadger || cfg.Recommend.Store.Path != "" {
		t.Errorf("Store = %+v, want in-memory badger", cfg.Recommend.Store)
	}
	if cfg.Insurance.EligibilityRule != "predicted_cost < cost_threshold" {
		t.Errorf("EligibilityRule = %q", cfg.Insurance.EligibilityRule)
	}
}

// TestLoadWithKoanfEnvOverridesFile verifies precedence: env > file > defaults
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	dir := cleanEnv(t)

	path := filepath.Join(dir, "questwise.yaml")
	writeFile(t, path, "server:\n  port: 8100\nrecommend:\n  top_n: 8\n")
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "8200")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 8200 {
		t.Errorf("Server.Port = %d, want 8200 from env", cfg.Server.Port)
	}
	if cfg.Recommend.TopN != 8 {
		t.Errorf("TopN = %d, want 8 from file", cfg.Recommend.TopN)
	}
	if cfg.Recommend.MaxNeighbors != 5 {
		t.Errorf("MaxNeighbors = %d, want 5 from defaults", cfg.Recommend.MaxNeighbors)
	}
}

// TestLoadWithKoanfDotEnv verifies .env handling
func TestLoadWithKoanfDotEnv(t *testing.T) {
	t.Run("default .env fills unset variables only", func(t *testing.T) {
		dir := cleanEnv(t)
		writeFile(t, filepath.Join(dir, ".env"), "HTTP_PORT=8300\nLOG_LEVEL=debug\n")
		t.Setenv("LOG_LEVEL", "warn")

		cfg, err := LoadWithKoanf()
		if err != nil {
			t.Fatalf("LoadWithKoanf() error = %v", err)
		}
		if cfg.Server.Port != 8300 {
			t.Errorf("Server.Port = %d, want 8300 from .env", cfg.Server.Port)
		}
		if cfg.Logging.Level != "warn" {
			t.Errorf("Logging.Level = %q, want warn from environment", cfg.Logging.Level)
		}
	})

	t.Run("DOTENV_PATH", func(t *testing.T) {
		dir := cleanEnv(t)
		path := filepath.Join(dir, "service.env")
		writeFile(t, path, "RECOMMEND_TOP_N=9\n")
		t.Setenv(DotEnvPathEnvVar, path)

		cfg, err := LoadWithKoanf()
		if err != nil {
			t.Fatalf("LoadWithKoanf() error = %v", err)
		}
		if cfg.Recommend.TopN != 9 {
			t.Errorf("TopN = %d, want 9", cfg.Recommend.TopN)
		}
	})

	t.Run("missing DOTENV_PATH is an error", func(t *testing.T) {
		dir := cleanEnv(t)
		t.Setenv(DotEnvPathEnvVar, filepath.Join(dir, "absent.env"))

		if _, err := LoadWithKoanf(); err == nil {
			t.Fatal("LoadWithKoanf() should fail for a missing DOTENV_PATH")
		}
	})
}

// TestLoadWithKoanfValidation verifies that invalid layered values are rejected
func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "port out of range",
			env:     map[string]string{"HTTP_PORT": "70000"},
			wantErr: "HTTP_PORT",
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"MODEL_STORE_BACKEND": "s3"},
			wantErr: "MODEL_STORE_BACKEND",
		},
		{
			name:    "redis without address",
			env:     map[string]string{"MODEL_STORE_BACKEND": "redis"},
			wantErr: "REDIS_ADDR",
		},
		{
			name:    "zero neighbors",
			env:     map[string]string{"RECOMMEND_MAX_NEIGHBORS": "0"},
			wantErr: "RECOMMEND_MAX_NEIGHBORS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() should have failed")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfigAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "0.0.0.0", Port: 8000}
	if got := s.Addr(); got != "0.0.0.0:8000" {
		t.Errorf("Addr() = %q", got)
	}
	s = ServerConfig{Host: "::1", Port: 9000}
	if got := s.Addr(); got != "[::1]:9000" {
		t.Errorf("Addr() = %q", got)
	}
}
