// Package blobstore resolves a blob's on-disk position (offset, length)
// and reads its decompressed content. It composes modules/store's
// handle pool for the position lookup with a bounded read of the
// packed data file, matching the offset/length bookkeeping in oscar.py's
// Blob.position/Blob.data.
package blobstore

import (
	"errors"
	"fmt"

	"github.com/ssc-oscar/oscar-go/modules/ber"
	"github.com/ssc-oscar/oscar-go/modules/hashfile"
	"github.com/ssc-oscar/oscar-go/modules/lzf"
	"github.com/ssc-oscar/oscar-go/modules/shard"
	"github.com/ssc-oscar/oscar-go/modules/store"
)

// ErrNotFound is returned when a blob's SHA is absent from the offset
// index (a bad or unknown SHA).
var ErrNotFound = errors.New("blobstore: blob not found")

// Position is the (offset, length) of a blob's compressed bytes within
// its packed data shard.
type Position struct {
	Offset int64
	Length int
}

// Locate returns the on-disk position of the blob identified by hexSHA
// (its binary form is binSHA).
func Locate(s *store.Store, hexSHA string, binSHA []byte) (Position, error) {
	rd, err := s.HashFile(shard.KindBlobOffset, hexSHA, binSHA)
	if err != nil {
		return Position{}, fmt.Errorf("blobstore: %w", err)
	}
	raw, err := rd.Get(binSHA)
	if err != nil {
		if errors.Is(err, hashfile.ErrNotFound) {
			return Position{}, ErrNotFound
		}
		return Position{}, fmt.Errorf("blobstore: %w", err)
	}
	vals, err := ber.Decode(raw)
	if err != nil || len(vals) < 2 {
		return Position{}, fmt.Errorf("blobstore: malformed offset record for %s", hexSHA)
	}
	return Position{Offset: int64(vals[0]), Length: int(vals[1])}, nil
}

// Read returns the decompressed content of the blob identified by
// hexSHA/binSHA. Per the original implementation's thread-safety note,
// the packed data file is opened, read, and closed on every call unless
// the Store was built with store.WithPooledBlobHandles.
func Read(s *store.Store, hexSHA string, binSHA []byte) ([]byte, error) {
	pos, err := Locate(s, hexSHA, binSHA)
	if err != nil {
		return nil, err
	}
	path, err := s.ResolvePath(shard.KindBlobData, hexSHA, binSHA)
	if err != nil {
		return nil, fmt.Errorf("blobstore: %w", err)
	}
	raw, err := s.ReadBlobSegment(path, pos.Offset, pos.Length)
	if err != nil {
		return nil, fmt.Errorf("blobstore: %w", err)
	}
	content, err := lzf.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("blobstore: decompress %s: %w", hexSHA, err)
	}
	return content, nil
}

// Len returns the blob's stored (compressed) segment length from its
// offset record, without reading its content, matching Blob.__len__'s
// reliance on position alone.
func Len(s *store.Store, hexSHA string, binSHA []byte) (int, error) {
	pos, err := Locate(s, hexSHA, binSHA)
	if err != nil {
		return 0, err
	}
	return pos.Length, nil
}
