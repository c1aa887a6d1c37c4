// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package storage

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/questwise/internal/breaker"
	"github.com/tomtom215/questwise/internal/features"
	"github.com/tomtom215/questwise/internal/recommend"
)

// trainedBundle returns a bundle with quests [q1 q2], numerical [age] and
// categorical [gender].
func trainedBundle(t *testing.T, version int64) *recommend.Bundle {
	t.Helper()

	enc := features.NewCategoricalEncoder()
	if err := enc.Fit([]string{"gender"}, [][]string{{"f"}, {"m"}, {""}}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	ix, err := recommend.FitIndex([][]float64{
		{1, 0, 30, 0, 0, 1},
		{0, 1, 25, 0, 1, 0},
		{1, 1, 40, 1, 0, 0},
	})
	if err != nil {
		t.Fatalf("FitIndex() error = %v", err)
	}
	return &recommend.Bundle{
		Version:   version,
		TrainedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Schema: recommend.Schema{
			QuestIDs:    []string{"q1", "q2"},
			Numerical:   []string{"age"},
			Categorical: []string{"gender"},
		},
		Encoder: enc,
		Index:   ix,
		UserIDs: []string{"u1", "u2", "u3"},
	}
}

// neighborsOf queries the bundle the way the recommender does.
func neighborsOf(t *testing.T, b *recommend.Bundle) []recommend.Neighbor {
	t.Helper()

	vec, err := b.Builder().Build(recommend.NewQuestSet("q1"), recommend.UserFeatures{"age": 31, "gender": "m"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	n, err := b.Index.KNeighbors(context.Background(), vec, 3, 0)
	if err != nil {
		t.Fatalf("KNeighbors() error = %v", err)
	}
	return n
}

// exerciseStore runs the contract every ArtifactStore must satisfy.
func exerciseStore(t *testing.T, store recommend.ArtifactStore) {
	t.Helper()
	ctx := context.Background()

	v, err := store.LatestVersion(ctx)
	if err != nil || v != 0 {
		t.Fatalf("LatestVersion() on empty store = %d, %v, want 0, nil", v, err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, recommend.ErrNoArtifacts) {
		t.Fatalf("Load() on empty store error = %v, want ErrNoArtifacts", err)
	}

	for version := int64(1); version <= 4; version++ {
		if err := store.Save(ctx, trainedBundle(t, version)); err != nil {
			t.Fatalf("Save(v%d) error = %v", version, err)
		}
	}

	v, err = store.LatestVersion(ctx)
	if err != nil || v != 4 {
		t.Fatalf("LatestVersion() = %d, %v, want 4, nil", v, err)
	}

	want := trainedBundle(t, 4)
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("loaded bundle invalid: %v", err)
	}
	if got.Version != 4 || !got.TrainedAt.Equal(want.TrainedAt) {
		t.Errorf("loaded Version/TrainedAt = %d/%v", got.Version, got.TrainedAt)
	}
	if !reflect.DeepEqual(got.Schema, want.Schema) {
		t.Errorf("Schema = %+v, want %+v", got.Schema, want.Schema)
	}
	if !reflect.DeepEqual(got.UserIDs, want.UserIDs) {
		t.Errorf("UserIDs = %v, want %v", got.UserIDs, want.UserIDs)
	}
	if !reflect.DeepEqual(got.Encoder.FeatureNames(), want.Encoder.FeatureNames()) {
		t.Errorf("encoder features = %v, want %v", got.Encoder.FeatureNames(), want.Encoder.FeatureNames())
	}
	if !reflect.DeepEqual(neighborsOf(t, got), neighborsOf(t, want)) {
		t.Errorf("neighbors after reload = %v, want %v", neighborsOf(t, got), neighborsOf(t, want))
	}
}

func TestFileStore_Contract(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir(), 2, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	exerciseStore(t, store)

	versions, err := store.Versions()
	if err != nil {
		t.Fatalf("Versions() error = %v", err)
	}
	if want := []int64{4, 3}; !reflect.DeepEqual(versions, want) {
		t.Errorf("Versions() after prune = %v, want %v", versions, want)
	}
}

func TestBadgerStore_Contract(t *testing.T) {
	t.Parallel()

	store, err := OpenBadgerStore("", 2, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	exerciseStore(t, store)

	var versions []string
	err = store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(badgerVersionPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			if strings.HasSuffix(key, "/"+PartModel) {
				versions = append(versions, key)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	want := []string{"bundle/v3/" + PartModel, "bundle/v4/" + PartModel}
	if !reflect.DeepEqual(versions, want) {
		t.Errorf("stored model keys after prune = %v, want %v", versions, want)
	}
}

func TestBreakerStore_Contract(t *testing.T) {
	t.Parallel()

	inner, err := NewFileStore(t.TempDir(), 3, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	store := NewBreakerStore(inner, breaker.DefaultConfig())
	exerciseStore(t, store)

	if store.Name() != "file" || store.State() != "closed" {
		t.Errorf("Name/State = %s/%s", store.Name(), store.State())
	}
}
