// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package storage

import (
	"context"
	"errors"

	"github.com/tomtom215/questwise/internal/breaker"
	"github.com/tomtom215/questwise/internal/recommend"
)

// BreakerStore guards a remote artifact store with a circuit breaker so a
// dead backend fails fast instead of stalling training and sync.
type BreakerStore struct {
	inner recommend.ArtifactStore
	cb    *breaker.Breaker
}

// NewBreakerStore wraps inner. An empty store and caller cancellation do
// not count as backend failures.
func NewBreakerStore(inner recommend.ArtifactStore, cfg breaker.Config) *BreakerStore {
	name := "artifact-store-" + inner.Name()
	return &BreakerStore{
		inner: inner,
		cb: breaker.New(name, cfg, func(err error) bool {
			return err == nil ||
				errors.Is(err, recommend.ErrNoArtifacts) ||
				errors.Is(err, context.Canceled)
		}),
	}
}

// Name reports the wrapped backend.
func (s *BreakerStore) Name() string { return s.inner.Name() }

// Save implements recommend.ArtifactStore.
func (s *BreakerStore) Save(ctx context.Context, b *recommend.Bundle) error {
	return breaker.Do(s.cb, func() error {
		return s.inner.Save(ctx, b)
	})
}

// Load implements recommend.ArtifactStore.
func (s *BreakerStore) Load(ctx context.Context) (*recommend.Bundle, error) {
	return breaker.Call(s.cb, func() (*recommend.Bundle, error) {
		return s.inner.Load(ctx)
	})
}

// LatestVersion implements recommend.ArtifactStore.
func (s *BreakerStore) LatestVersion(ctx context.Context) (int64, error) {
	return breaker.Call(s.cb, func() (int64, error) {
		return s.inner.LatestVersion(ctx)
	})
}

// Close closes the wrapped store.
func (s *BreakerStore) Close() error { return s.inner.Close() }

// State returns the breaker state.
func (s *BreakerStore) State() string { return s.cb.State() }
