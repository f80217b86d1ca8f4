package objscan_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssc-oscar/oscar-go/modules/objscan"
	"github.com/ssc-oscar/oscar-go/modules/shard"
	"github.com/ssc-oscar/oscar-go/modules/store"
)

func writeShard(t *testing.T, dir string, shardIdx int, lines []string, records [][]byte) {
	t.Helper()
	idxPath := filepath.Join(dir, fmt.Sprintf("commit_%d.idx", shardIdx))
	binPath := filepath.Join(dir, fmt.Sprintf("commit_%d.bin", shardIdx))

	var idxContent []byte
	for _, l := range lines {
		idxContent = append(idxContent, []byte(l+"\n")...)
	}
	require.NoError(t, os.WriteFile(idxPath, idxContent, 0o644))

	var binContent []byte
	for _, r := range records {
		binContent = append(binContent, r...)
	}
	require.NoError(t, os.WriteFile(binPath, binContent, 0o644))
}

func TestScanYieldsRecordsInOrder(t *testing.T) {
	dir := t.TempDir()
	registry := shard.Registry{
		shard.KindCommitSequentialIdx: {Path: filepath.Join(dir, "commit_{key}.idx"), PrefixBits: 1},
		shard.KindCommitSequentialBin: {Path: filepath.Join(dir, "commit_{key}.bin"), PrefixBits: 1},
	}
	s := store.New(dir, dir, store.WithRegistry(registry))
	defer s.Close()

	frameA := []byte{0x00, 'a', 'b', 'c'} // passthrough LZF, uncompressed "abc"
	frameB := []byte{0x00, 'x', 'y'}

	writeShard(t, dir, 0, []string{
		fmt.Sprintf("0;0;%d;shaAAA", len(frameA)),
		fmt.Sprintf("1;%d;%d;shaBBB", len(frameA), len(frameB)),
	}, [][]byte{frameA, frameB})
	writeShard(t, dir, 1, nil, nil)

	var got []objscan.Record
	for rec, err := range objscan.Scan(s, shard.KindCommitSequentialIdx, shard.KindCommitSequentialBin, nil) {
		require.NoError(t, err)
		got = append(got, rec)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "shaAAA", got[0].SHA)
	assert.Equal(t, []byte("abc"), got[0].Content)
	assert.Equal(t, "shaBBB", got[1].SHA)
	assert.Equal(t, []byte("xy"), got[1].Content)
}

func TestScanFiveFieldBlobGrammar(t *testing.T) {
	dir := t.TempDir()
	registry := shard.Registry{
		shard.KindCommitSequentialIdx: {Path: filepath.Join(dir, "commit_{key}.idx"), PrefixBits: 0},
		shard.KindCommitSequentialBin: {Path: filepath.Join(dir, "commit_{key}.bin"), PrefixBits: 0},
	}
	s := store.New(dir, dir, store.WithRegistry(registry))
	defer s.Close()

	frame := []byte{0x00, 'z'}
	writeShard(t, dir, 0, []string{
		fmt.Sprintf("0;0;%d;9999;shaBLOB", len(frame)),
	}, [][]byte{frame})

	var got []objscan.Record
	for rec, err := range objscan.Scan(s, shard.KindCommitSequentialIdx, shard.KindCommitSequentialBin, nil) {
		require.NoError(t, err)
		got = append(got, rec)
	}
	require.Len(t, got, 1)
	assert.Equal(t, "shaBLOB", got[0].SHA)
	assert.Equal(t, []byte("z"), got[0].Content)
}

func TestScanMissingShardIsSkipped(t *testing.T) {
	dir := t.TempDir()
	registry := shard.Registry{
		shard.KindCommitSequentialIdx: {Path: filepath.Join(dir, "commit_{key}.idx"), PrefixBits: 0},
		shard.KindCommitSequentialBin: {Path: filepath.Join(dir, "commit_{key}.bin"), PrefixBits: 0},
	}
	s := store.New(dir, dir, store.WithRegistry(registry))
	defer s.Close()

	var got []objscan.Record
	for rec, err := range objscan.Scan(s, shard.KindCommitSequentialIdx, shard.KindCommitSequentialBin, nil) {
		require.NoError(t, err)
		got = append(got, rec)
	}
	assert.Empty(t, got)
}
