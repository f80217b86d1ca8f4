package gitwire

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrMalformedTree is returned when a tree object's content cannot be
// split into mode/name/hash triples cleanly.
var ErrMalformedTree = errors.New("gitwire: malformed tree object")

// Entry is one line of a tree object: a file mode, a name (not a full
// path), and the 40-char hex SHA of the blob or subtree it names.
// Subtrees always carry mode "40000".
type Entry struct {
	Mode     string
	Name     string
	SHA      string
	IsSubdir bool
}

const subtreeMode = "40000"

// ParseTree walks a tree object's decompressed bytes, yielding one
// Entry per mode/name/hash triple in on-disk order. Format: mode (ASCII
// decimal) SP name NUL 20-byte binary hash, repeated with no
// separators. This is a direct reimplementation of Tree.__iter__'s
// byte-offset walk.
func ParseTree(content []byte) ([]Entry, error) {
	var entries []Entry
	i := 0
	n := len(content)
	for i < n {
		start := i
		for i < n && content[i] != ' ' {
			i++
		}
		if i >= n {
			return nil, fmt.Errorf("%w: missing mode separator", ErrMalformedTree)
		}
		mode := string(content[start:i])
		i++ // skip the space

		start = i
		for i < n && content[i] != 0 {
			i++
		}
		if i >= n {
			return nil, fmt.Errorf("%w: missing name terminator", ErrMalformedTree)
		}
		name := string(content[start:i])
		i++ // skip the NUL

		if i+20 > n {
			return nil, fmt.Errorf("%w: truncated hash for %q", ErrMalformedTree, name)
		}
		sha := hex.EncodeToString(content[i : i+20])
		i += 20

		entries = append(entries, Entry{Mode: mode, Name: name, SHA: sha, IsSubdir: mode == subtreeMode})
	}
	return entries, nil
}
