// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// memStore is an in-memory ArtifactStore for tests.
type memStore struct {
	mu      sync.Mutex
	bundle  *Bundle
	saves   int
	saveErr error
	loadErr error
}

func (m *memStore) Name() string { return "memory" }

func (m *memStore) Save(_ context.Context, b *Bundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.bundle = b
	m.saves++
	return nil
}

func (m *memStore) Load(_ context.Context) (*Bundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.bundle == nil {
		return nil, ErrNoArtifacts
	}
	return m.bundle, nil
}

func (m *memStore) LatestVersion(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return 0, m.loadErr
	}
	if m.bundle == nil {
		return 0, nil
	}
	return m.bundle.Version, nil
}

func (m *memStore) Close() error { return nil }

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func boolPtr(b bool) *bool {
	return &b
}

func activity(user, quest string, completed bool) ActivityRecord {
	return ActivityRecord{UserID: user, QuestID: quest, Completed: boolPtr(completed)}
}

// newTestPipeline wires a trainer and recommender over one in-memory store.
func newTestPipeline(cfg *Config) (*memStore, *Artifacts, *Trainer, *Recommender) {
	store := &memStore{}
	artifacts := NewArtifacts(store, testLogger())
	return store, artifacts, NewTrainer(cfg, artifacts, testLogger()), NewRecommender(cfg, artifacts, nil, testLogger())
}
