package httpserver_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssc-oscar/oscar-go/modules/hashfile"
	"github.com/ssc-oscar/oscar-go/modules/oscar"
	"github.com/ssc-oscar/oscar-go/modules/shard"
	"github.com/ssc-oscar/oscar-go/modules/store"
	"github.com/ssc-oscar/oscar-go/pkg/httpserver"
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

// newTestServer builds a one-commit, one-tree, one-blob store and wraps
// it in an httpserver.Server, mirroring cmd/explorer's test-server shape.
func newTestServer(t *testing.T) (*httptest.Server, string, string, string) {
	t.Helper()
	dir := t.TempDir()
	registry := shard.Registry{
		shard.KindCommitRandom: {Path: filepath.Join(dir, "commit.tch"), PrefixBits: 0},
		shard.KindTreeRandom:   {Path: filepath.Join(dir, "tree.tch"), PrefixBits: 0},
		shard.KindBlobOffset:   {Path: filepath.Join(dir, "blob_offset.tch"), PrefixBits: 0},
		shard.KindBlobData:     {Path: filepath.Join(dir, "blob_data.bin"), PrefixBits: 0},
	}

	blobSHA := sha(0x01)
	blobContent := []byte("hello world\n")
	blobFrame := passthrough(blobContent)

	treeSHA := sha(0x10)
	treeContent := passthrough(treeEntry("100644", "hello.txt", blobSHA))

	commitSHA := sha(0x20)
	commitContent := passthrough([]byte(
		"tree " + hex.EncodeToString(treeSHA) + "\n" +
			"author Jane Dev <jane@example.com> 1600000000 +0000\n" +
			"committer Jane Dev <jane@example.com> 1600000000 +0000\n" +
			"\ninitial\n"))

	write := func(path string, entries []hashfile.Entry) {
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, hashfile.Write(f, entries))
		require.NoError(t, f.Close())
	}
	write(registry[shard.KindCommitRandom].Path, []hashfile.Entry{{Key: commitSHA, Value: commitContent}})
	write(registry[shard.KindTreeRandom].Path, []hashfile.Entry{{Key: treeSHA, Value: treeContent}})
	write(registry[shard.KindBlobOffset].Path, []hashfile.Entry{
		{Key: blobSHA, Value: encodeBER(0, uint64(len(blobFrame)))},
	})
	require.NoError(t, os.WriteFile(registry[shard.KindBlobData].Path, blobFrame, 0o644))

	s := store.New(dir, dir, store.WithRegistry(registry))
	t.Cleanup(func() { _ = s.Close() })

	e := oscar.New(s)
	srv := httptest.NewServer(httpserver.New(e, nil).Handler())
	t.Cleanup(srv.Close)

	return srv, hex.EncodeToString(commitSHA), hex.EncodeToString(treeSHA), hex.EncodeToString(blobSHA)
}

func TestHandleHealthz(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleCommit(t *testing.T) {
	srv, commitSHA, treeSHA, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/commits/" + commitSHA)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, commitSHA, got["sha"])
	require.Equal(t, "initial", got["message"])
	_ = treeSHA
}

func TestHandleCommitNotFound(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/commits/" + hex.EncodeToString(sha(0xff)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleCommitBadSHA(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/commits/not-a-sha")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleTree(t *testing.T) {
	srv, _, treeSHA, blobSHA := newTestServer(t)
	resp, err := http.Get(srv.URL + "/trees/" + treeSHA)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	require.Equal(t, "hello.txt", got[0]["name"])
	require.Equal(t, blobSHA, got[0]["sha"])
}

func TestHandleBlob(t *testing.T) {
	srv, _, _, blobSHA := newTestServer(t)
	resp, err := http.Get(srv.URL + "/blobs/" + blobSHA)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	require.Equal(t, "hello world\n", string(body[:n]))
}

func TestHandleDiffSelfIsEmpty(t *testing.T) {
	srv, commitSHA, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/diff/" + commitSHA + "/" + commitSHA)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Empty(t, got)
}
