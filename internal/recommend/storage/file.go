// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/questwise/internal/recommend"
)

const (
	currentFile   = "CURRENT"
	tmpDirPrefix  = ".tmp-"
	versionPrefix = "v"
)

// FileStore keeps each bundle version in its own directory:
//
//	{baseDir}/v{N}/model.gob.gz
//	{baseDir}/v{N}/encoder.gob.gz
//	{baseDir}/v{N}/schema.json
//	{baseDir}/v{N}/manifest.json
//	{baseDir}/CURRENT             -> "N"
//
// A version directory is fully written under a temporary name and renamed
// into place before CURRENT is switched, so readers never observe a
// partially written bundle.
type FileStore struct {
	baseDir string
	keep    int
	logger  zerolog.Logger
	mu      sync.Mutex
}

// NewFileStore creates the directory if needed and removes leftovers from
// interrupted writes.
//
//nolint:gocritic // logger passed by value for zerolog chaining
func NewFileStore(baseDir string, keepVersions int, logger zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	if keepVersions < 1 {
		keepVersions = 1
	}

	s := &FileStore{
		baseDir: baseDir,
		keep:    keepVersions,
		logger:  logger.With().Str("store", "file").Str("path", baseDir).Logger(),
	}

	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("scan storage directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), tmpDirPrefix) {
			_ = os.RemoveAll(filepath.Join(baseDir, e.Name())) //nolint:errcheck // best-effort cleanup
		}
	}
	return s, nil
}

// Name implements recommend.ArtifactStore.
func (s *FileStore) Name() string { return "file" }

// Save writes the bundle as a new version and makes it current.
func (s *FileStore) Save(ctx context.Context, b *recommend.Bundle) error {
	enc, err := Encode(b)
	if err != nil {
		return err
	}
	manifest, err := MarshalManifest(&enc.Manifest)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tmp := filepath.Join(s.baseDir, fmt.Sprintf("%s%s%d", tmpDirPrefix, versionPrefix, b.Version))
	if err := os.RemoveAll(tmp); err != nil {
		return fmt.Errorf("clear temp directory: %w", err)
	}
	if err := os.MkdirAll(tmp, 0o750); err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}

	for _, name := range Parts {
		if err := writeFileSync(filepath.Join(tmp, name), enc.Parts[name]); err != nil {
			_ = os.RemoveAll(tmp) //nolint:errcheck // best-effort cleanup
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := writeFileSync(filepath.Join(tmp, ManifestName), manifest); err != nil {
		_ = os.RemoveAll(tmp) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("write manifest: %w", err)
	}

	final := s.versionDir(b.Version)
	if err := os.RemoveAll(final); err != nil {
		return fmt.Errorf("clear version directory: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("publish version directory: %w", err)
	}
	if err := s.writeCurrent(b.Version); err != nil {
		return err
	}

	s.prune(b.Version)
	return nil
}

// Load reads the version CURRENT points to.
func (s *FileStore) Load(ctx context.Context) (*recommend.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, err := s.readCurrent()
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, recommend.ErrNoArtifacts
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := s.versionDir(version)
	raw, err := os.ReadFile(filepath.Join(dir, ManifestName)) //nolint:gosec // path is built from the store directory
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := UnmarshalManifest(raw)
	if err != nil {
		return nil, err
	}

	parts := make(map[string][]byte, len(Parts))
	for _, name := range Parts {
		data, err := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec // path is built from the store directory
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		parts[name] = data
	}
	return Decode(m, parts)
}

// LatestVersion returns the version CURRENT points to, or 0.
func (s *FileStore) LatestVersion(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCurrent()
}

// Versions lists the version directories on disk, newest first.
func (s *FileStore) Versions() ([]int64, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var versions []int64
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if v, ok := parseVersionDir(e.Name()); ok {
			versions = append(versions, v)
		}
	}
	sortDesc(versions)
	return versions, nil
}

// Close implements recommend.ArtifactStore.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) versionDir(version int64) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s%d", versionPrefix, version))
}

func (s *FileStore) readCurrent() (int64, error) {
	raw, err := os.ReadFile(filepath.Join(s.baseDir, currentFile)) //nolint:gosec // path is built from the store directory
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", currentFile, err)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("corrupt %s file: %q", currentFile, raw)
	}
	return v, nil
}

func (s *FileStore) writeCurrent(version int64) error {
	tmp := filepath.Join(s.baseDir, currentFile+".tmp")
	if err := writeFileSync(tmp, []byte(strconv.FormatInt(version, 10)+"\n")); err != nil {
		return fmt.Errorf("write %s: %w", currentFile, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.baseDir, currentFile)); err != nil {
		return fmt.Errorf("switch %s: %w", currentFile, err)
	}
	return nil
}

// prune removes all but the newest keep versions. current is never removed.
func (s *FileStore) prune(current int64) {
	versions, err := s.Versions()
	if err != nil {
		s.logger.Warn().Err(err).Msg("prune skipped")
		return
	}
	for i := s.keep; i < len(versions); i++ {
		if versions[i] == current {
			continue
		}
		if err := os.RemoveAll(s.versionDir(versions[i])); err != nil {
			s.logger.Warn().Err(err).Int64("version", versions[i]).Msg("failed to prune bundle version")
		}
	}
}

func parseVersionDir(name string) (int64, bool) {
	if !strings.HasPrefix(name, versionPrefix) {
		return 0, false
	}
	v, err := strconv.ParseInt(name[len(versionPrefix):], 10, 64)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

func sortDesc(versions []int64) {
	sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640) //nolint:gosec // path is built from the store directory
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close() //nolint:errcheck // sync error takes precedence
		return err
	}
	return f.Close()
}
