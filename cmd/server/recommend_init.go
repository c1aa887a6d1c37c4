// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/questwise/internal/breaker"
	"github.com/tomtom215/questwise/internal/config"
	"github.com/tomtom215/questwise/internal/recommend"
	"github.com/tomtom215/questwise/internal/recommend/storage"
	"github.com/tomtom215/questwise/internal/supervisor/services"
)

// RecommendComponents holds all recommendation-related components.
type RecommendComponents struct {
	Store       recommend.ArtifactStore
	Artifacts   *recommend.Artifacts
	Trainer     *recommend.Trainer
	Recommender *recommend.Recommender
	Sync        *services.BundleSyncService
}

// initRecommend opens the artifact store and builds the engine around it.
// The persisted bundle is loaded by the sync service once the tree starts.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*RecommendComponents, error) {
	engineCfg := buildEngineConfig(cfg)
	if err := engineCfg.Validate(); err != nil {
		return nil, err
	}

	store, err := openArtifactStore(ctx, cfg.Recommend.Store, logger)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("store", store.Name()).
		Int("max_neighbors", engineCfg.MaxNeighbors).
		Int("top_n", engineCfg.TopN).
		Dur("sync_interval", cfg.Recommend.SyncInterval).
		Bool("load_on_startup", cfg.Recommend.LoadOnStartup).
		Msg("initializing recommendation engine")

	artifacts := recommend.NewArtifacts(store, logger)
	sync := services.NewBundleSyncService(artifacts, services.BundleSyncConfig{
		LoadOnStartup: cfg.Recommend.LoadOnStartup,
		SyncInterval:  cfg.Recommend.SyncInterval,
	}, logger)

	return &RecommendComponents{
		Store:       store,
		Artifacts:   artifacts,
		Trainer:     recommend.NewTrainer(engineCfg, artifacts, logger),
		Recommender: recommend.NewRecommender(engineCfg, artifacts, nil, logger),
		Sync:        sync,
	}, nil
}

// buildEngineConfig maps the recommend config section onto the engine.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	engineCfg := recommend.DefaultConfig()
	if cfg.Recommend.MaxNeighbors > 0 {
		engineCfg.MaxNeighbors = cfg.Recommend.MaxNeighbors
	}
	if cfg.Recommend.TopN > 0 {
		engineCfg.TopN = cfg.Recommend.TopN
	}
	if cfg.Recommend.TrainTimeout > 0 {
		engineCfg.TrainTimeout = cfg.Recommend.TrainTimeout
	}
	if cfg.Recommend.ParallelThreshold > 0 {
		engineCfg.ParallelThreshold = cfg.Recommend.ParallelThreshold
	}
	return engineCfg
}

// openArtifactStore selects the backend and optionally wraps it in a
// circuit breaker.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func openArtifactStore(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (recommend.ArtifactStore, error) {
	var (
		store recommend.ArtifactStore
		err   error
	)

	switch cfg.Backend {
	case config.StoreBackendFile, "":
		store, err = storage.NewFileStore(cfg.Path, cfg.KeepVersions, logger)
	case config.StoreBackendBadger:
		store, err = storage.OpenBadgerStore(cfg.Path, cfg.KeepVersions, logger)
	case config.StoreBackendRedis:
		store, err = storage.NewRedisStore(ctx, storage.RedisConfig{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			KeyPrefix:    cfg.RedisKeyPrefix,
			KeepVersions: cfg.KeepVersions,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown artifact store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s artifact store: %w", cfg.Backend, err)
	}

	if cfg.CircuitBreaker {
		store = storage.NewBreakerStore(store, breaker.DefaultConfig())
	}
	return store, nil
}
