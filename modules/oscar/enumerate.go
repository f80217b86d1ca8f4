package oscar

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ssc-oscar/oscar-go/modules/objscan"
	"github.com/ssc-oscar/oscar-go/modules/shard"
)

// AllCommits sequentially scans every commit ever observed in the
// dataset, the entity-level counterpart of oscar.py's GitObject.all():
// one Commit per record, in on-disk shard order. onProgress may be nil.
func (e *Engine) AllCommits(onProgress objscan.ProgressFunc) func(yield func(*Commit, error) bool) {
	return allObjects(e, shard.KindCommitSequentialIdx, shard.KindCommitSequentialBin, onProgress,
		func(sha string) (*Commit, error) { return e.Commit(sha) })
}

// AllTrees is AllCommits' tree equivalent.
func (e *Engine) AllTrees(onProgress objscan.ProgressFunc) func(yield func(*Tree, error) bool) {
	return allObjects(e, shard.KindTreeSequentialIdx, shard.KindTreeSequentialBin, onProgress,
		func(sha string) (*Tree, error) { return e.Tree(sha) })
}

func allObjects[T any](e *Engine, idxKind, binKind shard.Kind, onProgress objscan.ProgressFunc, build func(sha string) (T, error)) func(yield func(T, error) bool) {
	return func(yield func(T, error) bool) {
		for rec, err := range objscan.Scan(e.store, idxKind, binKind, onProgress) {
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			obj, err := build(rec.SHA)
			if !yield(obj, err) {
				return
			}
		}
	}
}

// AllProjects enumerates every project URI that has ever appeared in
// the project_commits relation, the entity-level counterpart of
// oscar.py's _Base.all() walking every shard with an empty-prefix
// tch_keys call.
func (e *Engine) AllProjects() func(yield func(*Project, error) bool) {
	return func(yield func(*Project, error) bool) {
		for key, err := range allDerivedKeys(e, shard.KindProjectCommits) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(e.Project(key), nil) {
				return
			}
		}
	}
}

// AllAuthors enumerates every author identity that has ever appeared in
// the author_commits relation.
func (e *Engine) AllAuthors() func(yield func(*Author, error) bool) {
	return func(yield func(*Author, error) bool) {
		for key, err := range allDerivedKeys(e, shard.KindAuthorCommits) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(e.Author(key), nil) {
				return
			}
		}
	}
}

// AllFiles enumerates every file path that has ever appeared in the
// file_commits relation.
func (e *Engine) AllFiles() func(yield func(*File, error) bool) {
	return func(yield func(*File, error) bool) {
		for key, err := range allDerivedKeys(e, shard.KindFileCommits) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(e.File(key), nil) {
				return
			}
		}
	}
}

// allDerivedKeys walks every shard of an FNV-keyed relation and yields
// each distinct key it holds, built on hashfile.Reader.PrefixScan with
// an empty prefix (a full-shard scan) rather than a random lookup. A
// shard file that doesn't exist yet is treated as empty, matching
// objscan's leniency for sparse sequential-scan shards.
func allDerivedKeys(e *Engine, kind shard.Kind) func(yield func(string, error) bool) {
	return func(yield func(string, error) bool) {
		tmpl, ok := e.store.Template(kind)
		if !ok {
			yield("", fmt.Errorf("oscar: unknown relation %q", kind))
			return
		}
		for idx := 0; idx < tmpl.ShardCount(); idx++ {
			rd, err := e.store.HashFileAtShard(kind, idx)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				yield("", err)
				return
			}
			for key := range rd.PrefixScan(nil) {
				if !yield(string(key), nil) {
					return
				}
			}
		}
	}
}
