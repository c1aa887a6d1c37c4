// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package testinfra provides container fixtures for integration tests.
//
// Everything here is behind the integration build tag and uses
// testcontainers-go:
//
//	//go:build integration
//
//	func TestRedisStore(t *testing.T) {
//	    redisC := testinfra.StartRedis(t)
//	    store, err := storage.NewRedisStore(ctx, storage.RedisConfig{Addr: redisC.Addr}, logger)
//	    ...
//	}
//
// Tests skip when Docker is unavailable or -short is set. The first run
// pulls images; later runs use the local cache.
package testinfra
