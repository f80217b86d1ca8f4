// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads oscar.toml, the store's on-disk configuration:
// data/fast root directories, per-kind shard overrides, and the
// optional S3 backend credentials. Layout and loading mirror
// modules/zeta/config's toml.DecodeFile approach.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ssc-oscar/oscar-go/modules/shard"
)

// ShardOverride lets oscar.toml replace a single data kind's path
// template or prefix-bit count without redefining the whole registry.
type ShardOverride struct {
	Path       string `toml:"path"`
	PrefixBits int    `toml:"prefix_bits"`
	UseFNV     bool   `toml:"use_fnv,omitempty"`
}

// S3Config carries the optional object-storage backend's credentials
// and bucket layout. Like Backend, it is decoded but not used when a
// store is built.
type S3Config struct {
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Prefix    string `toml:"prefix,omitempty"`
	Endpoint  string `toml:"endpoint,omitempty"`
	AccessKey string `toml:"access_key,omitempty"`
	SecretKey string `toml:"secret_key,omitempty"`
}

// Config is the decoded form of oscar.toml.
type Config struct {
	DataRoot string `toml:"data_root"`
	FastRoot string `toml:"fast_root"`

	// Backend names the store's byte source: "local" (default) or
	// "s3". See modules/store.Backend. Neither oscarctl nor oscar-serve
	// reads it: both build the store with the default local backend.
	Backend string `toml:"backend,omitempty"`
	S3      *S3Config `toml:"s3,omitempty"`

	// LegacyCommitBlobs opts into the deprecated commit->blob relation
	// (see modules/store.WithLegacyCommitBlobs).
	LegacyCommitBlobs bool `toml:"legacy_commit_blobs,omitempty"`

	// ContentCacheMaxCost bounds the optional ristretto content cache,
	// in bytes; zero disables caching.
	ContentCacheMaxCost int64 `toml:"content_cache_max_cost,omitempty"`

	Shards map[string]ShardOverride `toml:"shards,omitempty"`
}

// Load decodes path into a Config. A missing file is not an error: the
// caller gets a zero Config, matching LoadGlobal's "no config yet"
// tolerance in the teacher's config package.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &cfg, nil
}

// Registry builds a shard.Registry from the default table, then applies
// any per-kind overrides from the config file.
func (c *Config) Registry() shard.Registry {
	reg := shard.DefaultRegistry(c.DataRoot, c.FastRoot)
	for kind, override := range c.Shards {
		tmpl := reg[shard.Kind(kind)]
		if override.Path != "" {
			tmpl.Path = override.Path
		}
		tmpl.PrefixBits = override.PrefixBits
		tmpl.UseFNV = override.UseFNV
		reg[shard.Kind(kind)] = tmpl
	}
	return reg
}
