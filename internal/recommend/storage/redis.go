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
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/questwise/internal/recommend"
)

// RedisConfig configures the redis artifact store.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string
	KeepVersions int
}

// RedisStore keeps bundles in redis so several replicas can share one
// trained model. Parts and the manifest are written in a single MULTI/EXEC.
//
// Keys, relative to KeyPrefix:
//
//	manifest            JSON manifest of the current version
//	versions            sorted set of stored versions
//	v{N}/{part}         artifact bytes
type RedisStore struct {
	client *redis.Client
	prefix string
	keep   int
	logger zerolog.Logger
}

// NewRedisStore connects to redis and verifies the connection.
//
//nolint:gocritic // logger passed by value for zerolog chaining
func NewRedisStore(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // connection error takes precedence
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreFromClient(client, cfg.KeyPrefix, cfg.KeepVersions, logger), nil
}

// NewRedisStoreFromClient wraps an existing client. Close closes it.
//
//nolint:gocritic // logger passed by value for zerolog chaining
func NewRedisStoreFromClient(client *redis.Client, prefix string, keepVersions int, logger zerolog.Logger) *RedisStore {
	if keepVersions < 1 {
		keepVersions = 1
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		keep:   keepVersions,
		logger: logger.With().Str("store", "redis").Logger(),
	}
}

// Name implements recommend.ArtifactStore.
func (s *RedisStore) Name() string { return "redis" }

// Save writes the parts, registers the version and switches the manifest
// in one transaction. Versions beyond the keep limit are removed in the
// same transaction.
func (s *RedisStore) Save(ctx context.Context, b *recommend.Bundle) error {
	enc, err := Encode(b)
	if err != nil {
		return err
	}
	manifest, err := MarshalManifest(&enc.Manifest)
	if err != nil {
		return err
	}

	stored, err := s.client.ZRevRange(ctx, s.key("versions"), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("list versions: %w", err)
	}
	var stale []int64
	kept := 1 // the version being written
	for _, member := range stored {
		v, err := strconv.ParseInt(member, 10, 64)
		if err != nil || v == b.Version {
			continue
		}
		if kept < s.keep {
			kept++
			continue
		}
		stale = append(stale, v)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, name := range Parts {
			pipe.Set(ctx, s.partKey(b.Version, name), enc.Parts[name], 0)
		}
		pipe.ZAdd(ctx, s.key("versions"), redis.Z{Score: float64(b.Version), Member: strconv.FormatInt(b.Version, 10)})
		pipe.Set(ctx, s.key("manifest"), manifest, 0)
		for _, v := range stale {
			for _, name := range Parts {
				pipe.Del(ctx, s.partKey(v, name))
			}
			pipe.ZRem(ctx, s.key("versions"), strconv.FormatInt(v, 10))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write bundle v%d: %w", b.Version, err)
	}
	return nil
}

// Load reads the manifest and then all parts with one MGET.
func (s *RedisStore) Load(ctx context.Context) (*recommend.Bundle, error) {
	m, err := s.manifest(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(Parts))
	for i, name := range Parts {
		keys[i] = s.partKey(m.Version, name)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read parts: %w", err)
	}

	parts := make(map[string][]byte, len(Parts))
	for i, name := range Parts {
		str, ok := vals[i].(string)
		if !ok {
			return nil, fmt.Errorf("artifact %s missing for version %d", name, m.Version)
		}
		parts[name] = []byte(str)
	}
	return Decode(m, parts)
}

// LatestVersion returns the manifest version, or 0.
func (s *RedisStore) LatestVersion(ctx context.Context) (int64, error) {
	m, err := s.manifest(ctx)
	if errors.Is(err, recommend.ErrNoArtifacts) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return m.Version, nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) manifest(ctx context.Context) (*Manifest, error) {
	raw, err := s.client.Get(ctx, s.key("manifest")).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, recommend.ErrNoArtifacts
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return UnmarshalManifest(raw)
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

func (s *RedisStore) partKey(version int64, name string) string {
	return s.prefix + "v" + strconv.FormatInt(version, 10) + "/" + name
}
