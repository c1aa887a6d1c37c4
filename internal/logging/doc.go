// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package logging provides centralized zerolog-based logging.
//
// The global logger is configured once from config.LoggingConfig:
//
//	logging.Init(logging.Config{
//	    Level:  cfg.Logging.Level,
//	    Format: cfg.Logging.Format,
//	    Caller: cfg.Logging.Caller,
//	})
//	logging.Info().Str("addr", addr).Msg("Server starting")
//
// Long-lived components take a zerolog.Logger in their constructor and
// get it from Component, which adds a component field:
//
//	trainer := recommend.NewTrainer(cfg, artifacts, logging.Component("trainer"))
//
// HTTP handlers log through Ctx so the request ID set by the request ID
// middleware is attached:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("training rejected")
//
// SlogHandler bridges zerolog to log/slog for libraries that only accept
// a *slog.Logger, such as sutureslog in the supervisor tree.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// event is never written.
package logging
