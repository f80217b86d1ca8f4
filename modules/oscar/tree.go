package oscar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ssc-oscar/oscar-go/modules/gitwire"
	"github.com/ssc-oscar/oscar-go/modules/hashfile"
	"github.com/ssc-oscar/oscar-go/modules/lzf"
	"github.com/ssc-oscar/oscar-go/modules/shard"
)

// ErrObjectNotFound is returned when a git object's content is absent
// from the random-access hash for its type, mirroring oscar.py's
// ObjectNotFound.
var ErrObjectNotFound = errors.New("oscar: object not found")

// Tree is a git tree object: a flat listing of (mode, name, child SHA)
// triples. Iteration is not recursive; see Traverse for that.
type Tree struct {
	engine *Engine
	sha    string
	binSHA []byte

	entries lazy[[]gitwire.Entry]
}

// Tree constructs a Tree handle for sha.
func (e *Engine) Tree(sha string) (*Tree, error) {
	hexSHA, binSHA, err := decodeHexOrBin(sha)
	if err != nil {
		return nil, err
	}
	return &Tree{engine: e, sha: hexSHA, binSHA: binSHA}, nil
}

// SHA returns the tree's 40-char hex SHA.
func (t *Tree) SHA() string { return t.sha }

func (t *Tree) rawContent() ([]byte, error) {
	rd, err := t.engine.store.HashFile(shard.KindTreeRandom, t.sha, t.binSHA)
	if err != nil {
		return nil, err
	}
	raw, err := rd.Get(t.binSHA)
	if errors.Is(err, hashfile.ErrNotFound) {
		return nil, fmt.Errorf("%w: tree %s", ErrObjectNotFound, t.sha)
	}
	if err != nil {
		return nil, err
	}
	return lzf.Decode(raw)
}

// Entries returns the tree's direct (non-recursive) entries, in
// on-disk order.
func (t *Tree) Entries() ([]gitwire.Entry, error) {
	return t.entries.get(func() ([]gitwire.Entry, error) {
		content, err := t.rawContent()
		if err != nil {
			return nil, err
		}
		return gitwire.ParseTree(content)
	})
}

// Len returns the number of files under the tree, including files in
// subtrees but not the subtrees themselves (len(Tree.files) in oscar.py).
func (t *Tree) Len() (int, error) {
	files, err := t.Files()
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// ErrCyclicTree is returned when a subtree SHA appears among its own
// ancestors during a recursive Traverse, guarding against a corrupt or
// adversarial tree object causing unbounded recursion.
var ErrCyclicTree = errors.New("oscar: cyclic tree structure")

// Traverse recursively walks the tree, yielding every entry including
// those of nested subtrees; filenames carry their full path from the
// tree root, "/"-joined.
func (t *Tree) Traverse() ([]gitwire.Entry, error) {
	return t.traverse(map[string]struct{}{})
}

func (t *Tree) traverse(ancestors map[string]struct{}) ([]gitwire.Entry, error) {
	if _, ok := ancestors[t.sha]; ok {
		return nil, fmt.Errorf("%w: %s", ErrCyclicTree, t.sha)
	}
	ancestors[t.sha] = struct{}{}
	defer delete(ancestors, t.sha)

	entries, err := t.Entries()
	if err != nil {
		return nil, err
	}
	var out []gitwire.Entry
	for _, e := range entries {
		out = append(out, e)
		if e.IsSubdir {
			sub, err := t.engine.Tree(e.SHA)
			if err != nil {
				return nil, err
			}
			children, err := sub.traverse(ancestors)
			if err != nil {
				return nil, err
			}
			for _, c := range children {
				out = append(out, gitwire.Entry{
					Mode:     c.Mode,
					Name:     e.Name + "/" + c.Name,
					SHA:      c.SHA,
					IsSubdir: c.IsSubdir,
				})
			}
		}
	}
	return out, nil
}

// Files returns every non-subtree path in the tree (recursive), mapped
// to its blob SHA.
func (t *Tree) Files() (map[string]string, error) {
	entries, err := t.Traverse()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		if !e.IsSubdir {
			out[e.Name] = e.SHA
		}
	}
	return out, nil
}

// BlobSHAs returns every file content SHA under the tree, including
// files in subdirectories, in Files() map-iteration order (not
// guaranteed stable across calls).
func (t *Tree) BlobSHAs() ([]string, error) {
	files, err := t.Files()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(files))
	for _, sha := range files {
		out = append(out, sha)
	}
	return out, nil
}

// Blobs resolves BlobSHAs into Blob handles.
func (t *Tree) Blobs() ([]*Blob, error) {
	shas, err := t.BlobSHAs()
	if err != nil {
		return nil, err
	}
	out := make([]*Blob, 0, len(shas))
	for _, sha := range shas {
		b, err := t.engine.Blob(sha)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Contains reports whether path (a file, "/"-joined from the tree
// root) or SHA (a blob's 40-char hex SHA) is present under the tree.
func (t *Tree) Contains(pathOrSHA string) (bool, error) {
	files, err := t.Files()
	if err != nil {
		return false, err
	}
	if _, ok := files[pathOrSHA]; ok {
		return true, nil
	}
	if len(pathOrSHA) == 40 {
		for _, sha := range files {
			if strings.EqualFold(sha, pathOrSHA) {
				return true, nil
			}
		}
	}
	return false, nil
}
