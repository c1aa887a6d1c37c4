// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package services provides suture.Service wrappers for questwise components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer so suture's event log can name it.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - http.ErrServerClosed is treated as a clean stop

Bundle Sync (BundleSyncService):
  - Loads the persisted artifact bundle at startup
  - Polls the artifact store every SyncInterval and installs newer bundles
  - A failed reload keeps the current bundle and is retried on the next tick

# Error Handling

Serve returns ctx.Err() on cancellation and a wrapped error on failure,
which suture answers with a restart under the tree's backoff policy.
*/
package services
