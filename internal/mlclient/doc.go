// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package mlclient is the quest backend's client for the ML service.
//
// Calls are paced by a token bucket and run through a circuit breaker
// named "ml-service". 4xx responses do not count toward tripping it.
// Recommend never fails on a service outage: it degrades to the first
// active quests the user has not completed and counts the fallback in
// questwise_mlclient_fallbacks_total.
//
//	client := mlclient.New(mlclient.Config{BaseURL: os.Getenv("ML_SERVICE_URL")}, logger)
//	quests, _ := client.Recommend(ctx, user, activeQuests)
package mlclient
