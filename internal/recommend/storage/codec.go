// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/questwise/internal/features"
	"github.com/tomtom215/questwise/internal/recommend"
)

// Artifact names. Every backend stores exactly these parts plus the
// manifest for each version.
const (
	PartModel    = "model.gob.gz"
	PartEncoder  = "encoder.gob.gz"
	PartSchema   = "schema.json"
	ManifestName = "manifest.json"
)

// Parts lists the artifact names in write order.
var Parts = []string{PartModel, PartEncoder, PartSchema}

// Manifest describes one persisted bundle.
type Manifest struct {
	Version        int64             `json:"version"`
	TrainedAt      time.Time         `json:"trained_at"`
	SavedAt        time.Time         `json:"saved_at"`
	SampleCount    int               `json:"sample_count"`
	Dimensionality int               `json:"dimensionality"`
	Checksums      map[string]string `json:"checksums"`
	SizeBytes      int64             `json:"size_bytes"`
}

// schemaDocument is the JSON form of the schema artifact.
type schemaDocument struct {
	QuestIDs    []string `json:"quest_ids"`
	Numerical   []string `json:"numerical"`
	Categorical []string `json:"categorical"`
	UserIDs     []string `json:"user_ids"`
}

// Encoded is a bundle split into its stored parts.
type Encoded struct {
	Manifest Manifest
	Parts    map[string][]byte
}

// Encode serializes a bundle and fills in the manifest checksums.
func Encode(b *recommend.Bundle) (*Encoded, error) {
	model, err := gobGzip(b.Index)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	encoder, err := gobGzip(b.Encoder)
	if err != nil {
		return nil, fmt.Errorf("encode encoder: %w", err)
	}
	schema, err := json.Marshal(schemaDocument{
		QuestIDs:    b.Schema.QuestIDs,
		Numerical:   b.Schema.Numerical,
		Categorical: b.Schema.Categorical,
		UserIDs:     b.UserIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}

	parts := map[string][]byte{
		PartModel:   model,
		PartEncoder: encoder,
		PartSchema:  schema,
	}
	m := Manifest{
		Version:        b.Version,
		TrainedAt:      b.TrainedAt,
		SavedAt:        time.Now().UTC(),
		SampleCount:    b.Index.SampleCount(),
		Dimensionality: b.Index.Dimensionality(),
		Checksums:      make(map[string]string, len(parts)),
	}
	for name, data := range parts {
		m.Checksums[name] = checksum(data)
		m.SizeBytes += int64(len(data))
	}

	return &Encoded{Manifest: m, Parts: parts}, nil
}

// Decode verifies every part against the manifest and rebuilds the bundle.
func Decode(m *Manifest, parts map[string][]byte) (*recommend.Bundle, error) {
	for _, name := range Parts {
		data, ok := parts[name]
		if !ok {
			return nil, fmt.Errorf("artifact %s missing for version %d", name, m.Version)
		}
		if got := checksum(data); got != m.Checksums[name] {
			return nil, fmt.Errorf("artifact %s checksum mismatch: expected %s, got %s", name, m.Checksums[name], got)
		}
	}

	var index recommend.Index
	if err := gunzipGob(parts[PartModel], &index); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	var enc features.CategoricalEncoder
	if err := gunzipGob(parts[PartEncoder], &enc); err != nil {
		return nil, fmt.Errorf("decode encoder: %w", err)
	}
	var doc schemaDocument
	if err := json.Unmarshal(parts[PartSchema], &doc); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}

	if index.SampleCount() != m.SampleCount || index.Dimensionality() != m.Dimensionality {
		return nil, fmt.Errorf("model shape %dx%d does not match manifest %dx%d",
			index.SampleCount(), index.Dimensionality(), m.SampleCount, m.Dimensionality)
	}

	return &recommend.Bundle{
		Version:   m.Version,
		TrainedAt: m.TrainedAt,
		Schema: recommend.Schema{
			QuestIDs:    nonNil(doc.QuestIDs),
			Numerical:   nonNil(doc.Numerical),
			Categorical: nonNil(doc.Categorical),
		},
		Encoder: &enc,
		Index:   &index,
		UserIDs: nonNil(doc.UserIDs),
	}, nil
}

// MarshalManifest encodes a manifest as JSON.
func MarshalManifest(m *Manifest) ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalManifest decodes a manifest.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version < 1 {
		return nil, fmt.Errorf("manifest has invalid version %d", m.Version)
	}
	return &m, nil
}

func gobGzip(v any) ([]byte, error) {
	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	if err := gob.NewEncoder(gzw).Encode(v); err != nil {
		return nil, err
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}
	return buf.Bytes(), nil
}

func gunzipGob(data []byte, target any) error {
	gzr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return fmt.Errorf("read decompressed data: %w", err)
	}
	return gob.NewDecoder(bytes.NewReader(raw)).Decode(target)
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// nonNil keeps empty lists as empty slices after a JSON round trip of null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
