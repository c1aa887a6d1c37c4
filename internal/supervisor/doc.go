// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package supervisor provides process supervision for questwise using suture v4.

# Overview

	RootSupervisor ("questwise")
	├── ModelSupervisor ("model-layer")
	│   └── BundleSyncService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted by its layer supervisor. After
FailureThreshold failures (decaying at FailureDecay per second) the layer
backs off for FailureBackoff before trying again.

Supervisor events are logged through sutureslog into the zerolog-backed
slog handler from the logging package.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLoggerFor("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddModelService(services.NewBundleSyncService(artifacts, syncCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

See the services subpackage for the wrappers.
*/
package supervisor
