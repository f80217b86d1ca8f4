// Package oscar provides the entity layer: Blob, Tree, Commit, Tag,
// File, Author and Project, each a thin, lazily-populated facade over
// the lower-level store/hashfile/gitwire/blobstore machinery. Every
// relation accessor here mirrors a cached_property in WoC's oscar.py,
// with "not found" translated to an empty result and content-read
// failures propagated as hard errors.
package oscar

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ssc-oscar/oscar-go/modules/hashfile"
	"github.com/ssc-oscar/oscar-go/modules/lzf"
	"github.com/ssc-oscar/oscar-go/modules/shalist"
	"github.com/ssc-oscar/oscar-go/modules/shard"
	"github.com/ssc-oscar/oscar-go/modules/store"
)

// GitHubMergeButton is the bot author name Project iteration filters
// out, matching oscar.py's hardcoded skip.
const GitHubMergeButton = "GitHub Merge Button <merge-button@github.com>"

// Engine is the entry point for constructing entities; it holds the
// handle pool every entity reads through.
type Engine struct {
	store *store.Store
}

// New wraps a configured store.Store as an Engine.
func New(s *store.Store) *Engine { return &Engine{store: s} }

// Store exposes the underlying handle pool, e.g. for building a
// blobstore.Read call directly.
func (e *Engine) Store() *store.Store { return e.store }

// lazy is a single-writer cached value, the Go recasting of oscar.py's
// cached_property decorator: computed at most once, on first access,
// and shared by every later accessor on the same entity instance.
type lazy[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (l *lazy[T]) get(compute func() (T, error)) (T, error) {
	l.once.Do(func() { l.val, l.err = compute() })
	return l.val, l.err
}

// relationKey returns the byte key a relation lookup should use: the
// natural key for FNV-sharded (derived) kinds, the binary SHA for
// SHA-sharded (git object) kinds.
func relationKey(tmpl shard.Template, key string, binSHA []byte) []byte {
	if tmpl.UseFNV {
		return []byte(key)
	}
	return binSHA
}

// readSHAList reads a relation whose value is a raw concatenation of
// 20-byte SHAs (no LZF framing), e.g. commit_children, project_commits.
func readSHAList(e *Engine, kind shard.Kind, key string, binSHA []byte) ([]string, error) {
	tmpl, ok := e.store.Template(kind)
	if !ok {
		return nil, fmt.Errorf("oscar: unknown relation %q", kind)
	}
	rd, err := e.store.HashFile(kind, key, binSHA)
	if err != nil {
		return nil, err
	}
	raw, err := rd.Get(relationKey(tmpl, key, binSHA))
	if errors.Is(err, hashfile.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return shalist.Unpack(raw)
}

// readSemicolonList reads a relation whose value is LZF-framed,
// semicolon-delimited text, e.g. commit_projects, author_projects. The
// sentinel entry "EMPTY" and blank entries are dropped, matching
// oscar.py's filter.
func readSemicolonList(e *Engine, kind shard.Kind, key string, binSHA []byte) ([]string, error) {
	tmpl, ok := e.store.Template(kind)
	if !ok {
		return nil, fmt.Errorf("oscar: unknown relation %q", kind)
	}
	rd, err := e.store.HashFile(kind, key, binSHA)
	if err != nil {
		return nil, err
	}
	raw, err := rd.Get(relationKey(tmpl, key, binSHA))
	if errors.Is(err, hashfile.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := lzf.Decode(raw)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var out []string
	for _, part := range strings.Split(string(data), ";") {
		if part != "" && part != "EMPTY" {
			out = append(out, part)
		}
	}
	return out, nil
}

// readPlainSemicolonPair reads a relation stored as raw (unframed)
// semicolon-delimited text, used only by commit_time_author.
func readPlainSemicolonPair(e *Engine, kind shard.Kind, key string, binSHA []byte) ([]string, error) {
	tmpl, ok := e.store.Template(kind)
	if !ok {
		return nil, fmt.Errorf("oscar: unknown relation %q", kind)
	}
	rd, err := e.store.HashFile(kind, key, binSHA)
	if err != nil {
		return nil, err
	}
	raw, err := rd.Get(relationKey(tmpl, key, binSHA))
	if errors.Is(err, hashfile.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return strings.Split(string(raw), ";"), nil
}

// decodeHexOrBin normalizes a 40-char hex or 20-byte binary SHA into
// both forms, matching GitObject.__init__'s dual acceptance.
func decodeHexOrBin(sha string) (hexSHA string, binSHA []byte, err error) {
	switch len(sha) {
	case 40:
		bin, err := hex.DecodeString(sha)
		if err != nil {
			return "", nil, fmt.Errorf("oscar: invalid hex SHA %q: %w", sha, err)
		}
		return sha, bin, nil
	case 20:
		return hex.EncodeToString([]byte(sha)), []byte(sha), nil
	default:
		return "", nil, fmt.Errorf("oscar: invalid SHA length %d", len(sha))
	}
}
