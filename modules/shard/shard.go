// Package shard resolves a data kind and a key into the on-disk shard
// file that holds it: a path template bound at configuration time to a
// prefix bit-length, and either the first byte of a binary SHA (git
// object kinds) or an FNV-1a hash of the key (derived kinds).
package shard

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Kind names one of the data kinds bound to a path template in a
// Registry (e.g. "commit_random", "blob_offset", "project_commits").
type Kind string

// Template binds a Kind to its path template and prefix bit-length.
type Template struct {
	// Path is the on-disk path template; "{key}" is replaced with the
	// decimal shard index.
	Path string
	// PrefixBits is one of {0, 3, 4, 5, 7}: the number of low bits of the
	// prefix that select the shard.
	PrefixBits int
	// UseFNV selects FNV-1a-of-key sharding (derived kinds: files,
	// projects, authors) instead of first-byte-of-SHA sharding (git
	// objects).
	UseFNV bool
}

// ShardCount returns 2^PrefixBits, the number of shards for this kind.
func (t Template) ShardCount() int {
	return 1 << uint(t.PrefixBits)
}

// Registry maps data kinds to their templates, built once at store
// construction time from the default table or a config file.
type Registry map[Kind]Template

// Index computes the shard index for a binary SHA (git object kinds).
func Index(prefixBits int, firstByte byte) int {
	return int(firstByte) & (1<<uint(prefixBits) - 1)
}

// IndexFNV computes the shard index for a derived-kind key using the
// low PrefixBits bits of its 32-bit FNV-1a hash.
func IndexFNV(prefixBits int, key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) & (1<<uint(prefixBits) - 1)
}

// Resolve returns the on-disk path for the shard holding key under kind.
// binSHA is the binary (not hex) SHA for git-object kinds; it is ignored
// for FNV-sharded kinds.
func (r Registry) Resolve(kind Kind, key string, binSHA []byte) (string, error) {
	tmpl, ok := r[kind]
	if !ok {
		return "", fmt.Errorf("shard: unknown data kind %q", kind)
	}
	var idx int
	if tmpl.UseFNV {
		idx = IndexFNV(tmpl.PrefixBits, key)
	} else {
		if len(binSHA) == 0 {
			return "", fmt.Errorf("shard: kind %q requires a binary SHA", kind)
		}
		idx = Index(tmpl.PrefixBits, binSHA[0])
	}
	return strings.Replace(tmpl.Path, "{key}", strconv.Itoa(idx), 1), nil
}

// ResolveIndex returns the on-disk path for shard index idx under kind
// directly, without hashing a key. Used by class-level enumeration,
// which must open every shard of a kind in turn rather than look up one
// key's shard.
func (r Registry) ResolveIndex(kind Kind, idx int) (string, error) {
	tmpl, ok := r[kind]
	if !ok {
		return "", fmt.Errorf("shard: unknown data kind %q", kind)
	}
	return strings.Replace(tmpl.Path, "{key}", strconv.Itoa(idx), 1), nil
}
