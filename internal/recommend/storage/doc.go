// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package storage persists recommendation artifact bundles.
//
// # Storage Format
//
// A bundle is split into three artifacts plus a manifest:
//
//	model.gob.gz     gob + gzip of the neighbor index
//	encoder.gob.gz   gob + gzip of the fitted categorical encoder
//	schema.json      quest ordering, feature schema and training user ids
//	manifest.json    version, timestamps, shape and SHA-256 of each artifact
//
// Checksums are verified on load; a mismatch fails the load rather than
// installing a bundle whose parts came from different training runs.
//
// # Backends
//
// Every backend implements recommend.ArtifactStore and switches versions
// atomically:
//
//   - FileStore: one directory per version, renamed into place, then the
//     CURRENT pointer file is replaced.
//   - BadgerStore: all keys written in one badger transaction.
//   - RedisStore: all keys written in one MULTI/EXEC, for multi-replica
//     deployments.
//
// BreakerStore wraps any backend with a circuit breaker.
//
// # Directory Structure
//
//	/data/models/
//	  CURRENT          <- "3"
//	  v1/
//	  v2/
//	  v3/
package storage
