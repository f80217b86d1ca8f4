package oscar

import (
	"errors"
	"fmt"
	"time"

	"github.com/ssc-oscar/oscar-go/modules/gitwire"
	"github.com/ssc-oscar/oscar-go/modules/hashfile"
	"github.com/ssc-oscar/oscar-go/modules/lzf"
	"github.com/ssc-oscar/oscar-go/modules/shard"
)

// Commit is a git commit object. Its header fields (tree, parents,
// author/committer identity and timestamps, message, signature) are
// parsed together on first access to any one of them, matching
// oscar.py's __getattr__ bulk-parse.
type Commit struct {
	engine *Engine
	sha    string
	binSHA []byte

	header      lazy[*gitwire.Commit]
	childSHAs   lazy[[]string]
	projectName lazy[[]string]
	changedFile lazy[[]string]
	legacyBlobs lazy[[]string]
	headSHAs    lazy[[]string]
}

// Commit constructs a Commit handle for sha.
func (e *Engine) Commit(sha string) (*Commit, error) {
	hexSHA, binSHA, err := decodeHexOrBin(sha)
	if err != nil {
		return nil, err
	}
	return &Commit{engine: e, sha: hexSHA, binSHA: binSHA}, nil
}

// SHA returns the commit's 40-char hex SHA.
func (c *Commit) SHA() string { return c.sha }

// Engine returns the engine this commit was resolved through.
func (c *Commit) Engine() *Engine { return c.engine }

func (c *Commit) parsed() (*gitwire.Commit, error) {
	return c.header.get(func() (*gitwire.Commit, error) {
		rd, err := c.engine.store.HashFile(shard.KindCommitRandom, c.sha, c.binSHA)
		if err != nil {
			return nil, err
		}
		raw, err := rd.Get(c.binSHA)
		if errors.Is(err, hashfile.ErrNotFound) {
			return nil, fmt.Errorf("%w: commit %s", ErrObjectNotFound, c.sha)
		}
		if err != nil {
			return nil, err
		}
		content, err := lzf.Decode(raw)
		if err != nil {
			return nil, err
		}
		return gitwire.ParseCommit(content, time.Now())
	})
}

// Tree returns the commit's root Tree.
func (c *Commit) Tree() (*Tree, error) {
	h, err := c.parsed()
	if err != nil {
		return nil, err
	}
	return c.engine.Tree(h.TreeSHA)
}

// ParentSHAs returns the commit's parent SHAs, in header order.
func (c *Commit) ParentSHAs() ([]string, error) {
	h, err := c.parsed()
	if err != nil {
		return nil, err
	}
	return h.ParentSHAs, nil
}

// Parents resolves ParentSHAs into Commit handles.
func (c *Commit) Parents() ([]*Commit, error) {
	shas, err := c.ParentSHAs()
	if err != nil {
		return nil, err
	}
	out := make([]*Commit, 0, len(shas))
	for _, sha := range shas {
		p, err := c.engine.Commit(sha)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Author returns the "Name <email>" author identity.
func (c *Commit) Author() (string, error) {
	h, err := c.parsed()
	if err != nil {
		return "", err
	}
	return h.Author, nil
}

// AuthoredAt returns the authored timestamp, or gitwire.UnknownTime if
// it could not be trusted (malformed, or claims to be in the future).
func (c *Commit) AuthoredAt() (time.Time, error) {
	h, err := c.parsed()
	if err != nil {
		return gitwire.UnknownTime, err
	}
	return h.AuthoredAt, nil
}

// Committer returns the "Name <email>" committer identity.
func (c *Commit) Committer() (string, error) {
	h, err := c.parsed()
	if err != nil {
		return "", err
	}
	return h.Committer, nil
}

// CommittedAt returns the committed timestamp, or gitwire.UnknownTime.
func (c *Commit) CommittedAt() (time.Time, error) {
	h, err := c.parsed()
	if err != nil {
		return gitwire.UnknownTime, err
	}
	return h.CommittedAt, nil
}

// Signature returns the commit's PGP signature block, or "" if absent.
func (c *Commit) Signature() (string, error) {
	h, err := c.parsed()
	if err != nil {
		return "", err
	}
	return h.Signature, nil
}

// Message returns the first line of the commit message.
func (c *Commit) Message() (string, error) {
	h, err := c.parsed()
	if err != nil {
		return "", err
	}
	return h.Message, nil
}

// FullMessage returns the complete commit message.
func (c *Commit) FullMessage() (string, error) {
	h, err := c.parsed()
	if err != nil {
		return "", err
	}
	return h.FullMessage, nil
}

// ChildSHAs returns the SHAs of commits whose first or later parent is
// this commit (the reverse of ParentSHAs).
func (c *Commit) ChildSHAs() ([]string, error) {
	return c.childSHAs.get(func() ([]string, error) {
		return readSHAList(c.engine, shard.KindCommitChildren, c.sha, c.binSHA)
	})
}

// Children resolves ChildSHAs into Commit handles.
func (c *Commit) Children() ([]*Commit, error) {
	shas, err := c.ChildSHAs()
	if err != nil {
		return nil, err
	}
	out := make([]*Commit, 0, len(shas))
	for _, sha := range shas {
		ch, err := c.engine.Commit(sha)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, nil
}

// ProjectNames returns the URIs of every project this commit is
// reachable from.
func (c *Commit) ProjectNames() ([]string, error) {
	return c.projectName.get(func() ([]string, error) {
		return readSemicolonList(c.engine, shard.KindCommitProjects, c.sha, c.binSHA)
	})
}

// Projects resolves ProjectNames into Project handles.
func (c *Commit) Projects() ([]*Project, error) {
	names, err := c.ProjectNames()
	if err != nil {
		return nil, err
	}
	out := make([]*Project, 0, len(names))
	for _, name := range names {
		out = append(out, c.engine.Project(name))
	}
	return out, nil
}

// ChangedFileNames returns the names of files this commit changed
// relative to its first parent.
func (c *Commit) ChangedFileNames() ([]string, error) {
	return c.changedFile.get(func() ([]string, error) {
		return readSemicolonList(c.engine, shard.KindCommitFiles, c.sha, c.binSHA)
	})
}

// FilesChanged resolves ChangedFileNames into File handles.
func (c *Commit) FilesChanged() ([]*File, error) {
	names, err := c.ChangedFileNames()
	if err != nil {
		return nil, err
	}
	out := make([]*File, 0, len(names))
	for _, name := range names {
		out = append(out, c.engine.File(name))
	}
	return out, nil
}

// BlobSHAs returns every blob SHA under the commit's tree (the
// accurate, tree-walking source, not the legacy relation below).
func (c *Commit) BlobSHAs() ([]string, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	return tree.BlobSHAs()
}

// Blobs resolves BlobSHAs into Blob handles.
func (c *Commit) Blobs() ([]*Blob, error) {
	shas, err := c.BlobSHAs()
	if err != nil {
		return nil, err
	}
	out := make([]*Blob, 0, len(shas))
	for _, sha := range shas {
		b, err := c.engine.Blob(sha)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// LegacyBlobSHAs returns the commit_blobs relation, which is known to
// miss every first file in every tree. It is only populated when the
// Engine's Store was built with store.WithLegacyCommitBlobs(true);
// otherwise it always returns an empty result without touching disk.
func (c *Commit) LegacyBlobSHAs() ([]string, error) {
	if !c.engine.store.LegacyCommitBlobs() {
		return nil, nil
	}
	return c.legacyBlobs.get(func() ([]string, error) {
		return readSHAList(c.engine, shard.KindCommitBlobs, c.sha, c.binSHA)
	})
}

// HeadSHAs returns the commit_head relation: the set of commits this
// one is a parent-complement head candidate for. Project.Head does not
// read it: it derives heads from the project's own commits.
func (c *Commit) HeadSHAs() ([]string, error) {
	return c.headSHAs.get(func() ([]string, error) {
		return readSHAList(c.engine, shard.KindCommitHead, c.sha, c.binSHA)
	})
}
