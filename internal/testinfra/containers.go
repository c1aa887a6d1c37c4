// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

//go:build integration

package testinfra

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// RequireDocker skips the test in -short mode or when no Docker daemon
// answers.
func RequireDocker(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}
	if !dockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

func dockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "info").Run() == nil
}

// StartRedis starts a redis container for the lifetime of the test and
// returns its address.
func StartRedis(t *testing.T, opts ...RedisOption) *RedisContainer {
	t.Helper()
	RequireDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	redisC, err := NewRedisContainer(ctx, opts...)
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() { terminate(t, redisC) })
	return redisC
}

func terminate(t *testing.T, container testcontainers.Container) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := container.Terminate(ctx); err != nil {
		t.Logf("Warning: failed to terminate container: %v", err)
	}
}
