// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/questwise/internal/metrics"
)

// BundleReloader installs the newest persisted artifact bundle.
// Satisfied by *recommend.Artifacts.
type BundleReloader interface {
	Reload(ctx context.Context) (bool, error)
}

// BundleSyncConfig holds configuration for the bundle sync service.
type BundleSyncConfig struct {
	// LoadOnStartup loads the persisted bundle before the first tick.
	LoadOnStartup bool

	// SyncInterval is how often the store is polled for a newer bundle.
	// Zero disables polling.
	SyncInterval time.Duration

	// SyncTimeout bounds a single reload. Default: 2m
	SyncTimeout time.Duration
}

// BundleSyncService keeps the served bundle in step with the artifact
// store, so replicas pick up a bundle trained on another instance.
type BundleSyncService struct {
	reloader BundleReloader
	config   BundleSyncConfig
	logger   zerolog.Logger
	name     string
}

// NewBundleSyncService creates a new bundle sync service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBundleSyncService(reloader BundleReloader, cfg BundleSyncConfig, logger zerolog.Logger) *BundleSyncService {
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = 2 * time.Minute
	}
	return &BundleSyncService{
		reloader: reloader,
		config:   cfg,
		logger:   logger.With().Str("service", "bundle-sync").Logger(),
		name:     "bundle-sync-service",
	}
}

// Serve implements the suture.Service interface.
func (s *BundleSyncService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("load_on_startup", s.config.LoadOnStartup).
		Dur("sync_interval", s.config.SyncInterval).
		Msg("bundle sync service starting")

	if s.config.LoadOnStartup {
		s.sync(ctx)
	}

	if s.config.SyncInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("bundle sync service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.sync(ctx)
		}
	}
}

// sync performs one reload check. Failures keep the current bundle and
// are retried on the next tick.
func (s *BundleSyncService) sync(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, s.config.SyncTimeout)
	defer cancel()

	reloaded, err := s.reloader.Reload(syncCtx)
	switch {
	case err != nil:
		metrics.RecordBundleSync("error")
		s.logger.Warn().Err(err).Msg("bundle reload failed, keeping current bundle")
	case reloaded:
		metrics.RecordBundleSync("reloaded")
	default:
		metrics.RecordBundleSync("unchanged")
		s.logger.Debug().Msg("artifact store has no newer bundle")
	}
}

// String returns the service name for logging.
func (s *BundleSyncService) String() string {
	return s.name
}
