package oscar_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssc-oscar/oscar-go/modules/hashfile"
	"github.com/ssc-oscar/oscar-go/modules/shard"
	"github.com/ssc-oscar/oscar-go/modules/store"
)

func sha(b byte) []byte { return bytes.Repeat([]byte{b}, 20) }

func passthrough(content []byte) []byte { return append([]byte{0x00}, content...) }

func treeEntry(mode, name string, blobSHA []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(mode)
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteByte(0)
	buf.Write(blobSHA)
	return buf.Bytes()
}

func concat(chunks ...[]byte) []byte {
	var out []byte
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func commitContent(treeSHA string, parents []string, author, committer, message string) []byte {
	var buf bytes.Buffer
	buf.WriteString("tree " + treeSHA + "\n")
	for _, p := range parents {
		buf.WriteString("parent " + p + "\n")
	}
	buf.WriteString("author " + author + "\n")
	buf.WriteString("committer " + committer + "\n")
	buf.WriteString("\n" + message)
	return buf.Bytes()
}

func encodeBER(values ...uint64) []byte {
	var out []byte
	for _, v := range values {
		var group []byte
		group = append(group, byte(v&0x7f))
		v >>= 7
		for v > 0 {
			group = append(group, byte(v&0x7f)|0x80)
			v >>= 7
		}
		for i, j := 0, len(group)-1; i < j; i, j = i+1, j-1 {
			group[i], group[j] = group[j], group[i]
		}
		out = append(out, group...)
	}
	return out
}

// fixture accumulates hashfile entries for an arbitrary set of relation
// kinds and flushes them into a real on-disk store, the same pattern
// oscar/diff's tests use.
type fixture struct {
	dir      string
	registry shard.Registry
	hashes   map[shard.Kind][]hashfile.Entry
	blobData bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	return &fixture{
		dir:    dir,
		hashes: map[shard.Kind][]hashfile.Entry{},
		registry: shard.Registry{
			shard.KindCommitRandom:     {Path: filepath.Join(dir, "commit.{key}.tch"), PrefixBits: 0},
			shard.KindTreeRandom:       {Path: filepath.Join(dir, "tree.{key}.tch"), PrefixBits: 0},
			shard.KindBlobOffset:       {Path: filepath.Join(dir, "blob_offset.{key}.tch"), PrefixBits: 0},
			shard.KindBlobData:         {Path: filepath.Join(dir, "blob_data.bin"), PrefixBits: 0},
			shard.KindCommitProjects:   {Path: filepath.Join(dir, "c2p.{key}.tch"), PrefixBits: 0},
			shard.KindCommitChildren:   {Path: filepath.Join(dir, "c2cc.{key}.tch"), PrefixBits: 0},
			shard.KindCommitFiles:      {Path: filepath.Join(dir, "c2f.{key}.tch"), PrefixBits: 0},
			shard.KindCommitBlobs:      {Path: filepath.Join(dir, "c2b.{key}.tch"), PrefixBits: 0},
			shard.KindCommitHead:       {Path: filepath.Join(dir, "c2h.{key}.tch"), PrefixBits: 0},
			shard.KindProjectCommits:   {Path: filepath.Join(dir, "p2c.{key}.tch"), PrefixBits: 0, UseFNV: true},
			shard.KindProjectAuthors:   {Path: filepath.Join(dir, "p2a.{key}.tch"), PrefixBits: 0, UseFNV: true},
			shard.KindAuthorCommits:    {Path: filepath.Join(dir, "a2c.{key}.tch"), PrefixBits: 0, UseFNV: true},
			shard.KindAuthorProjects:   {Path: filepath.Join(dir, "a2p.{key}.tch"), PrefixBits: 0, UseFNV: true},
			shard.KindBlobCommits:      {Path: filepath.Join(dir, "b2c.{key}.tch"), PrefixBits: 0},
			shard.KindBlobAuthors:      {Path: filepath.Join(dir, "b2a.{key}.tch"), PrefixBits: 0},
			shard.KindBlobFiles:        {Path: filepath.Join(dir, "b2f.{key}.tch"), PrefixBits: 0},
			shard.KindFileCommits:      {Path: filepath.Join(dir, "f2c.{key}.tch"), PrefixBits: 0, UseFNV: true},
		},
	}
}

func (fx *fixture) putHash(kind shard.Kind, key []byte, value []byte) {
	fx.hashes[kind] = append(fx.hashes[kind], hashfile.Entry{Key: key, Value: value})
}

func (fx *fixture) putBlob(binSHA []byte, content []byte) {
	frame := passthrough(content)
	fx.hashes[shard.KindBlobOffset] = append(fx.hashes[shard.KindBlobOffset],
		hashfile.Entry{Key: binSHA, Value: encodeBER(uint64(fx.blobData.Len()), uint64(len(frame)))})
	fx.blobData.Write(frame)
}

func (fx *fixture) build(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	// Every hash kind in the registry gets a shard file, empty when
	// nothing was put under it, so an absent key is looked up in a real
	// shard (not found) rather than in a missing file (open error).
	for kind := range fx.registry {
		if _, ok := fx.hashes[kind]; !ok && kind != shard.KindBlobData {
			fx.hashes[kind] = nil
		}
	}
	for kind, entries := range fx.hashes {
		path, err := fx.registry.Resolve(kind, "", []byte{0})
		require.NoError(t, err)
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, hashfile.Write(f, entries))
		require.NoError(t, f.Close())
	}
	require.NoError(t, os.WriteFile(fx.registry[shard.KindBlobData].Path, fx.blobData.Bytes(), 0o644))

	allOpts := append([]store.Option{store.WithRegistry(fx.registry)}, opts...)
	return store.New(fx.dir, fx.dir, allOpts...)
}
