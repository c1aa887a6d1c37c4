// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/questwise/internal/features"
	"github.com/tomtom215/questwise/internal/metrics"
)

// Bundle is everything one training run produces. A published bundle is
// never modified; retraining replaces it wholesale.
type Bundle struct {
	Version   int64
	TrainedAt time.Time
	Schema    Schema
	Encoder   *features.CategoricalEncoder
	Index     *Index
	// UserIDs[i] is the user behind Index row i.
	UserIDs []string
}

// Builder returns the vector builder bound to this bundle's schema.
func (b *Bundle) Builder() VectorBuilder {
	return VectorBuilder{Schema: b.Schema, Encoder: b.Encoder, Dim: b.Index.Dimensionality()}
}

// Validate checks that the parts of the bundle agree with each other.
func (b *Bundle) Validate() error {
	if b.Index == nil || b.Encoder == nil {
		return errors.New("bundle is missing index or encoder")
	}
	if !b.Encoder.Fitted {
		return errors.New("bundle encoder is not fitted")
	}
	if !slices.Equal(b.Encoder.Columns, b.Schema.Categorical) {
		return fmt.Errorf("encoder columns %v do not match categorical schema %v", b.Encoder.Columns, b.Schema.Categorical)
	}
	want := len(b.Schema.QuestIDs) + len(b.Schema.Numerical) + b.Encoder.Width()
	if want != b.Index.Dimensionality() {
		return &FeatureMismatchError{Expected: b.Index.Dimensionality(), Actual: want}
	}
	if len(b.UserIDs) != b.Index.SampleCount() {
		return fmt.Errorf("bundle has %d user ids for %d samples", len(b.UserIDs), b.Index.SampleCount())
	}
	return nil
}

// Status summarizes the bundle for status endpoints.
func (b *Bundle) Status() Status {
	return Status{
		Trained:             true,
		Version:             b.Version,
		TrainedAt:           b.TrainedAt,
		QuestCount:          len(b.Schema.QuestIDs),
		SampleCount:         b.Index.SampleCount(),
		Dimensionality:      b.Index.Dimensionality(),
		NumericalFeatures:   b.Schema.Numerical,
		CategoricalFeatures: b.Schema.Categorical,
	}
}

// ArtifactStore persists bundles. Save must replace the previous bundle
// as a single unit: a concurrent or later Load sees either the old bundle
// or the new one, never a mix.
type ArtifactStore interface {
	Name() string
	Save(ctx context.Context, b *Bundle) error
	// Load returns ErrNoArtifacts when nothing has been saved.
	Load(ctx context.Context) (*Bundle, error)
	// LatestVersion returns 0 when nothing has been saved.
	LatestVersion(ctx context.Context) (int64, error)
	Close() error
}

// Artifacts owns the published bundle. Readers take a snapshot with
// Current and keep using it for the whole request; writers are
// serialized and swap the pointer only after the bundle is persisted.
type Artifacts struct {
	store   ArtifactStore
	logger  zerolog.Logger
	current atomic.Pointer[Bundle]
	writeMu chan struct{}
}

// NewArtifacts creates an empty holder backed by store.
//
//nolint:gocritic // logger passed by value for zerolog chaining
func NewArtifacts(store ArtifactStore, logger zerolog.Logger) *Artifacts {
	return &Artifacts{
		store:   store,
		logger:  logger.With().Str("component", "artifacts").Logger(),
		writeMu: make(chan struct{}, 1),
	}
}

// Current returns the published bundle, or nil before the first training.
func (a *Artifacts) Current() *Bundle {
	return a.current.Load()
}

// Status describes the published bundle.
func (a *Artifacts) Status() Status {
	st := Status{}
	if b := a.Current(); b != nil {
		st = b.Status()
	}
	st.Store = a.store.Name()
	return st
}

// Ping checks that the artifact store is reachable.
func (a *Artifacts) Ping(ctx context.Context) error {
	if _, err := a.store.LatestVersion(ctx); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

func (a *Artifacts) lock(ctx context.Context) error {
	select {
	case a.writeMu <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for artifact write lock: %w", ctx.Err())
	}
}

func (a *Artifacts) unlock() {
	<-a.writeMu
}

// Publish assigns the next version to b, persists it and makes it current.
// If persisting fails the current bundle is left in place.
func (a *Artifacts) Publish(ctx context.Context, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return &TransformError{Stage: "bundle validation", Err: err}
	}
	if err := a.lock(ctx); err != nil {
		return err
	}
	defer a.unlock()

	latest, err := a.store.LatestVersion(ctx)
	if err != nil {
		return &StorageError{Op: "version", Err: err}
	}
	if cur := a.Current(); cur != nil && cur.Version > latest {
		latest = cur.Version
	}
	b.Version = latest + 1

	start := time.Now()
	err = a.store.Save(ctx, b)
	metrics.RecordStoreOperation(a.store.Name(), "save", time.Since(start), err)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	a.swap(b)
	return nil
}

// Reload loads the persisted bundle if it is newer than the current one.
// It reports whether a new bundle was installed.
func (a *Artifacts) Reload(ctx context.Context) (bool, error) {
	if err := a.lock(ctx); err != nil {
		return false, err
	}
	defer a.unlock()

	latest, err := a.store.LatestVersion(ctx)
	if err != nil {
		return false, &StorageError{Op: "version", Err: err}
	}
	if latest == 0 {
		return false, nil
	}
	if cur := a.Current(); cur != nil && cur.Version >= latest {
		return false, nil
	}

	start := time.Now()
	b, err := a.store.Load(ctx)
	metrics.RecordStoreOperation(a.store.Name(), "load", time.Since(start), err)
	if errors.Is(err, ErrNoArtifacts) {
		return false, nil
	}
	if err != nil {
		return false, &StorageError{Op: "load", Err: err}
	}
	if err := b.Validate(); err != nil {
		return false, &StorageError{Op: "load", Err: fmt.Errorf("persisted bundle v%d is inconsistent: %w", b.Version, err)}
	}

	a.swap(b)
	return true, nil
}

func (a *Artifacts) swap(b *Bundle) {
	a.current.Store(b)
	metrics.SetModelInfo(b.Version, b.Index.SampleCount(), b.Index.Dimensionality())
	a.logger.Info().
		Int64("version", b.Version).
		Int("quests", len(b.Schema.QuestIDs)).
		Int("samples", b.Index.SampleCount()).
		Int("dimensionality", b.Index.Dimensionality()).
		Str("store", a.store.Name()).
		Msg("artifact bundle published")
}
