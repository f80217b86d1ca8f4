package hashfile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, entries []Entry) *Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entries))
	rd, err := Open(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return rd
}

func TestGetRoundTrip(t *testing.T) {
	rd := build(t, []Entry{
		{Key: []byte("test_key"), Value: []byte{0x00, 0x01, 0x02, 0x03}},
		{Key: []byte("another"), Value: []byte("hello")},
	})
	assert.Equal(t, 2, rd.Count())

	v, err := rd.Get([]byte("test_key"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0x02, 0x03}, v)

	v, err = rd.Get([]byte("another"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), v)
}

func TestGetNotFound(t *testing.T) {
	rd := build(t, []Entry{{Key: []byte("a"), Value: []byte("1")}})
	_, err := rd.Get([]byte("zzz"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetEmptyFile(t *testing.T) {
	rd := build(t, nil)
	_, err := rd.Get([]byte("anything"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrefixScan(t *testing.T) {
	rd := build(t, []Entry{
		{Key: []byte("abc1"), Value: []byte("1")},
		{Key: []byte("abc2"), Value: []byte("2")},
		{Key: []byte("xyz"), Value: []byte("3")},
	})
	var keys []string
	for k, v := range rd.PrefixScan([]byte("abc")) {
		keys = append(keys, string(k)+"="+string(v))
	}
	assert.ElementsMatch(t, []string{"abc1=1", "abc2=2"}, keys)
}

func TestPrefixScanEmptyPrefixYieldsAll(t *testing.T) {
	rd := build(t, []Entry{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
	})
	count := 0
	for range rd.PrefixScan(nil) {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestOpenBadMagic(t *testing.T) {
	_, err := Open(bytes.NewReader([]byte("not a hash file at all!!")))
	assert.ErrorIs(t, err, ErrBadMagic)
}
