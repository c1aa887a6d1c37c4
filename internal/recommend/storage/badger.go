// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/questwise/internal/recommend"
)

// Key prefixes for badger storage.
const (
	badgerManifestKey   = "bundle/manifest"
	badgerVersionPrefix = "bundle/v"
)

// BadgerStore keeps bundles in an embedded badger database. One Update
// transaction writes all parts and switches the manifest.
type BadgerStore struct {
	db     *badger.DB
	keep   int
	owned  bool
	logger zerolog.Logger
}

// OpenBadgerStore opens (or creates) a badger database at path. An empty
// path opens an in-memory database.
//
//nolint:gocritic // logger passed by value for zerolog chaining
func OpenBadgerStore(path string, keepVersions int, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	s := NewBadgerStoreFromDB(db, keepVersions, logger)
	s.owned = true
	return s, nil
}

// NewBadgerStoreFromDB wraps an already open database. Close leaves db open.
//
//nolint:gocritic // logger passed by value for zerolog chaining
func NewBadgerStoreFromDB(db *badger.DB, keepVersions int, logger zerolog.Logger) *BadgerStore {
	if keepVersions < 1 {
		keepVersions = 1
	}
	return &BadgerStore{
		db:     db,
		keep:   keepVersions,
		logger: logger.With().Str("store", "badger").Logger(),
	}
}

// Name implements recommend.ArtifactStore.
func (s *BadgerStore) Name() string { return "badger" }

// Save writes all parts of the bundle and the manifest in one transaction,
// then drops versions beyond the keep limit.
func (s *BadgerStore) Save(ctx context.Context, b *recommend.Bundle) error {
	enc, err := Encode(b)
	if err != nil {
		return err
	}
	manifest, err := MarshalManifest(&enc.Manifest)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, name := range Parts {
			if err := txn.Set(partKey(b.Version, name), enc.Parts[name]); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
		}
		if err := txn.Set([]byte(badgerManifestKey), manifest); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}

		stale, err := staleVersions(txn, b.Version, s.keep)
		if err != nil {
			return err
		}
		for _, v := range stale {
			for _, name := range Parts {
				if err := txn.Delete(partKey(v, name)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("prune version %d: %w", v, err)
				}
			}
		}
		return nil
	})
}

// Load reads the bundle the manifest points to.
func (s *BadgerStore) Load(ctx context.Context) (*recommend.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		m     *Manifest
		parts = make(map[string][]byte, len(Parts))
	)
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		m, err = readManifest(txn)
		if err != nil {
			return err
		}
		for _, name := range Parts {
			item, err := txn.Get(partKey(m.Version, name))
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			parts[name] = data
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Decode(m, parts)
}

// LatestVersion returns the manifest version, or 0.
func (s *BadgerStore) LatestVersion(_ context.Context) (int64, error) {
	var version int64
	err := s.db.View(func(txn *badger.Txn) error {
		m, err := readManifest(txn)
		if errors.Is(err, recommend.ErrNoArtifacts) {
			return nil
		}
		if err != nil {
			return err
		}
		version = m.Version
		return nil
	})
	return version, err
}

// Close closes the database if this store opened it.
func (s *BadgerStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

func readManifest(txn *badger.Txn) (*Manifest, error) {
	item, err := txn.Get([]byte(badgerManifestKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, recommend.ErrNoArtifacts
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m *Manifest
	err = item.Value(func(val []byte) error {
		var err error
		m, err = UnmarshalManifest(val)
		return err
	})
	return m, err
}

// staleVersions lists stored versions older than the newest keep,
// counting current as the newest.
func staleVersions(txn *badger.Txn, current int64, keep int) ([]int64, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(badgerVersionPrefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	seen := map[int64]struct{}{current: {}}
	for it.Rewind(); it.Valid(); it.Next() {
		key := string(it.Item().Key())
		rest := strings.TrimPrefix(key, badgerVersionPrefix)
		num, _, ok := strings.Cut(rest, "/")
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			continue
		}
		seen[v] = struct{}{}
	}

	versions := make([]int64, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sortDesc(versions)

	var stale []int64
	for i := keep; i < len(versions); i++ {
		if versions[i] != current {
			stale = append(stale, versions[i])
		}
	}
	return stale, nil
}

func partKey(version int64, name string) []byte {
	return []byte(badgerVersionPrefix + strconv.FormatInt(version, 10) + "/" + name)
}
