package oscar

import (
	"github.com/ssc-oscar/oscar-go/modules/blobstore"
	"github.com/ssc-oscar/oscar-go/modules/shard"
)

// Blob is immutable file content, identified by the SHA-1 of
// "blob <len>\x00<bytes>".
type Blob struct {
	engine *Engine
	sha    string
	binSHA []byte

	position lazy[blobstore.Position]
	content  lazy[[]byte]
	commits  lazy[[]string]
	authors  lazy[[]string]
	files    lazy[[]string]
}

// Blob constructs a Blob handle for sha (40-char hex or 20-byte binary).
func (e *Engine) Blob(sha string) (*Blob, error) {
	hexSHA, binSHA, err := decodeHexOrBin(sha)
	if err != nil {
		return nil, err
	}
	return &Blob{engine: e, sha: hexSHA, binSHA: binSHA}, nil
}

// SHA returns the blob's 40-char hex SHA.
func (b *Blob) SHA() string { return b.sha }

// Position returns the blob's (offset, length) within its packed data
// shard, without reading or decompressing its content.
func (b *Blob) Position() (blobstore.Position, error) {
	return b.position.get(func() (blobstore.Position, error) {
		return blobstore.Locate(b.engine.store, b.sha, b.binSHA)
	})
}

// Len returns the blob's on-disk compressed length, mirroring
// Blob.__len__ (which reports position length, not decompressed size).
func (b *Blob) Len() (int, error) {
	pos, err := b.Position()
	if err != nil {
		return 0, err
	}
	return pos.Length, nil
}

// Content returns the blob's decompressed bytes. It is not cached on
// the Store by default (fresh handle per read), matching oscar.py's
// explicit thread-safety note; caching happens only here, per-instance.
func (b *Blob) Content() ([]byte, error) {
	return b.content.get(func() ([]byte, error) {
		return blobstore.Read(b.engine.store, b.sha, b.binSHA)
	})
}

// CommitSHAs returns the SHAs of commits that added, modified, or
// removed this blob.
func (b *Blob) CommitSHAs() ([]string, error) {
	return b.commits.get(func() ([]string, error) {
		return readSHAList(b.engine, shard.KindBlobCommits, b.sha, b.binSHA)
	})
}

// Commits resolves CommitSHAs into Commit handles.
func (b *Blob) Commits() ([]*Commit, error) {
	shas, err := b.CommitSHAs()
	if err != nil {
		return nil, err
	}
	out := make([]*Commit, 0, len(shas))
	for _, sha := range shas {
		c, err := b.engine.Commit(sha)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// AuthorNames returns the names of authors who have committed this blob.
func (b *Blob) AuthorNames() ([]string, error) {
	return b.authors.get(func() ([]string, error) {
		return readSemicolonList(b.engine, shard.KindBlobAuthors, b.sha, b.binSHA)
	})
}

// FileNames returns the file names this blob's content has appeared
// under.
func (b *Blob) FileNames() ([]string, error) {
	return b.files.get(func() ([]string, error) {
		return readSemicolonList(b.engine, shard.KindBlobFiles, b.sha, b.binSHA)
	})
}
