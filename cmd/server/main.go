// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/questwise/internal/api"
	"github.com/tomtom215/questwise/internal/config"
	"github.com/tomtom215/questwise/internal/logging"
	"github.com/tomtom215/questwise/internal/metrics"
	"github.com/tomtom215/questwise/internal/supervisor"
	"github.com/tomtom215/questwise/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "questwise",
	})

	logging.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Str("store_backend", cfg.Recommend.Store.Backend).
		Msg("Starting questwise ML service")

	metrics.SetAppInfo(version, runtime.Version())
	startTime := time.Now()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rec, err := initRecommend(ctx, cfg, logging.Component("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}
	defer func() {
		if err := rec.Store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing artifact store")
		}
	}()

	scorer, err := initInsurance(cfg, logging.Component("insurance"))
	if err != nil {
		_ = rec.Store.Close()
		logging.Fatal().Err(err).Msg("Failed to initialize insurance scorer")
	}

	handler := api.NewHandler(api.HandlerDeps{
		Trainer:      rec.Trainer,
		Recommender:  rec.Recommender,
		Model:        rec.Artifacts,
		Predictor:    scorer,
		Version:      version,
		TrainTimeout: cfg.Recommend.TrainTimeout,
	})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))
	router.SetSlowRequestThreshold(cfg.Server.SlowRequestThreshold)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Training a large activity log can outlast the request timeout.
		WriteTimeout: max(cfg.Server.Timeout, cfg.Recommend.TrainTimeout),
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLoggerFor("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		_ = rec.Store.Close()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddModelService(rec.Sync)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Component("http")))

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().
		Dur("uptime", time.Since(startTime)).
		Msg("Application stopped gracefully")
}
