package blobstore_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssc-oscar/oscar-go/modules/ber"
	"github.com/ssc-oscar/oscar-go/modules/blobstore"
	"github.com/ssc-oscar/oscar-go/modules/hashfile"
	"github.com/ssc-oscar/oscar-go/modules/shard"
	"github.com/ssc-oscar/oscar-go/modules/store"
)

// encodeBER packs offset and length the way the producing pipeline's
// unber/BER-encoded offset records do: each value as a 7-bit
// continuation-terminated big-endian group.
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

func setupStore(t *testing.T, hexSHA string, binSHA []byte, offset int64, compressed []byte) *store.Store {
	t.Helper()
	dir := t.TempDir()
	registry := shard.Registry{
		shard.KindBlobOffset: {Path: filepath.Join(dir, "blob_offset.tch"), PrefixBits: 0},
		shard.KindBlobData:   {Path: filepath.Join(dir, "blob_data.bin"), PrefixBits: 0},
	}

	f, err := os.Create(filepath.Join(dir, "blob_offset.tch"))
	require.NoError(t, err)
	require.NoError(t, hashfile.Write(f, []hashfile.Entry{
		{Key: binSHA, Value: encodeBER(uint64(offset), uint64(len(compressed)))},
	}))
	require.NoError(t, f.Close())

	pad := make([]byte, offset)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob_data.bin"), append(pad, compressed...), 0o644))

	return store.New(dir, dir, store.WithRegistry(registry))
}

func TestLocateAndRead(t *testing.T) {
	binSHA := bytes.Repeat([]byte{0xAB}, 20)
	content := []byte("hello, world!")
	frame := append([]byte{0x00}, content...) // passthrough LZF frame

	s := setupStore(t, "sha", binSHA, 5, frame)
	defer s.Close()

	pos, err := blobstore.Locate(s, "sha", binSHA)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos.Offset)
	assert.Equal(t, len(frame), pos.Length)

	got, err := blobstore.Read(s, "sha", binSHA)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLocateNotFound(t *testing.T) {
	binSHA := bytes.Repeat([]byte{0xCD}, 20)
	s := setupStore(t, "sha", binSHA, 0, []byte{0x00})
	defer s.Close()

	_, err := blobstore.Locate(s, "sha", bytes.Repeat([]byte{0xEE}, 20))
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestLen(t *testing.T) {
	binSHA := bytes.Repeat([]byte{0x11}, 20)
	frame := []byte{0x00, 'a', 'b', 'c'}
	s := setupStore(t, "sha", binSHA, 0, frame)
	defer s.Close()

	n, err := blobstore.Len(s, "sha", binSHA)
	require.NoError(t, err)
	assert.Equal(t, len(frame), n)
}
