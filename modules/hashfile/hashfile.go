// Package hashfile reads the sharded on-disk hash-table format this
// repository defines in place of WoC's real Tokyo Cabinet files (no Go
// binding for Tokyo Cabinet exists, so the on-disk layout below is a
// from-scratch format, not a reimplementation of libtokyocabinet). It
// supports random key lookup and prefix scan, both read-only and safe
// for concurrent readers once opened, mirroring the "no-lock mode"
// contract the real format is read in.
//
// On-disk layout:
//
//	header:  magic "OSCH" (4B) | version uint32 BE (4B) | count uint32 BE (4B)
//	fanout:  256 x uint32 BE — cumulative record count for keys whose
//	         first byte is <= the fanout index
//	offsets: count x uint64 BE — byte offset of each record, sorted by key
//	records: keylen uint32 BE | key | vallen uint32 BE | value, back to back
//
// The fanout + offsets split (rather than fixed-width records) mirrors
// the bisection technique in the teacher's pack index
// (modules/zeta/backend/pack/index.go): nameAt reads just the key at a
// candidate offset to narrow the search; entryAt reads the full record
// only once the key is found.
package hashfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	magic = [4]byte{'O', 'S', 'C', 'H'}

	// ErrNotFound is returned when the requested key is absent from the
	// shard. Relation-valued accessors built on this package translate it
	// to an empty result; content-valued accessors propagate it.
	ErrNotFound = errors.New("hashfile: key not found")
	// ErrBadMagic is returned when a file does not start with the
	// expected header magic.
	ErrBadMagic = errors.New("hashfile: not a hash file (bad magic)")
	// ErrUnsupportedVersion is returned for a header version this reader
	// does not understand.
	ErrUnsupportedVersion = errors.New("hashfile: unsupported version")

	currentVersion uint32 = 1
)

const (
	headerWidth = 12
	fanoutEntries = 256
	fanoutWidth   = fanoutEntries * 4
)

// Reader is a random-access reader over one shard of a hash file.
type Reader struct {
	r       io.ReaderAt
	count   int
	fanout  [fanoutEntries]uint32
	offsets []int64 // parsed in full on Open; count entries
}

// Open parses the header, fanout table, and offset table from r. It does
// not read any record bytes eagerly.
func Open(r io.ReaderAt) (*Reader, error) {
	hdr := make([]byte, headerWidth)
	if _, err := r.ReadAt(hdr, 0); err != nil {
		return nil, fmt.Errorf("hashfile: read header: %w", err)
	}
	if !bytes.Equal(hdr[:4], magic[:]) {
		return nil, ErrBadMagic
	}
	version := binary.BigEndian.Uint32(hdr[4:8])
	if version != currentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	count := int(binary.BigEndian.Uint32(hdr[8:12]))

	fanoutBuf := make([]byte, fanoutWidth)
	if _, err := r.ReadAt(fanoutBuf, headerWidth); err != nil {
		return nil, fmt.Errorf("hashfile: read fanout: %w", err)
	}

	offsetsBuf := make([]byte, count*8)
	if count > 0 {
		if _, err := r.ReadAt(offsetsBuf, headerWidth+fanoutWidth); err != nil {
			return nil, fmt.Errorf("hashfile: read offsets: %w", err)
		}
	}

	rd := &Reader{r: r, count: count, offsets: make([]int64, count)}
	for i := 0; i < fanoutEntries; i++ {
		rd.fanout[i] = binary.BigEndian.Uint32(fanoutBuf[i*4:])
	}
	for i := 0; i < count; i++ {
		rd.offsets[i] = int64(binary.BigEndian.Uint64(offsetsBuf[i*8:]))
	}
	return rd, nil
}

// Count returns the number of records in this shard.
func (rd *Reader) Count() int { return rd.count }

// bounds returns the [left, right) record-index range that could contain
// a key starting with the given first byte, using the fanout table.
func (rd *Reader) bounds(firstByte byte) (int, int) {
	left := 0
	if firstByte > 0 {
		left = int(rd.fanout[firstByte-1])
	}
	right := rd.count
	if firstByte < 255 {
		right = int(rd.fanout[firstByte])
	}
	return left, right
}

// nameAt reads just the key stored at record index i.
func (rd *Reader) nameAt(i int) ([]byte, error) {
	off := rd.offsets[i]
	var lenBuf [4]byte
	if _, err := rd.r.ReadAt(lenBuf[:], off); err != nil {
		return nil, fmt.Errorf("hashfile: read key length: %w", err)
	}
	keyLen := binary.BigEndian.Uint32(lenBuf[:])
	key := make([]byte, keyLen)
	if keyLen > 0 {
		if _, err := rd.r.ReadAt(key, off+4); err != nil {
			return nil, fmt.Errorf("hashfile: read key: %w", err)
		}
	}
	return key, nil
}

// entryAt reads the full (key, value) record at index i.
func (rd *Reader) entryAt(i int) (key, value []byte, err error) {
	off := rd.offsets[i]
	key, err = rd.nameAt(i)
	if err != nil {
		return nil, nil, err
	}
	var lenBuf [4]byte
	valOff := off + 4 + int64(len(key))
	if _, err := rd.r.ReadAt(lenBuf[:], valOff); err != nil {
		return nil, nil, fmt.Errorf("hashfile: read value length: %w", err)
	}
	valLen := binary.BigEndian.Uint32(lenBuf[:])
	value = make([]byte, valLen)
	if valLen > 0 {
		if _, err := rd.r.ReadAt(value, valOff+4); err != nil {
			return nil, nil, fmt.Errorf("hashfile: read value: %w", err)
		}
	}
	return key, value, nil
}

// Get performs a binary-search lookup of key within the shard bounded by
// the fanout table, returning ErrNotFound if absent.
func (rd *Reader) Get(key []byte) ([]byte, error) {
	if rd.count == 0 {
		return nil, ErrNotFound
	}
	var first byte
	if len(key) > 0 {
		first = key[0]
	}
	left, right := rd.bounds(first)
	for left < right {
		mid := left + (right-left)/2
		got, err := rd.nameAt(mid)
		if err != nil {
			return nil, err
		}
		switch bytes.Compare(key, got) {
		case 0:
			_, value, err := rd.entryAt(mid)
			return value, err
		case -1:
			right = mid
		default:
			left = mid + 1
		}
	}
	return nil, ErrNotFound
}

// PrefixScan lazily yields every (key, value) pair whose key starts with
// prefix, in this shard's on-disk order (ascending key order). Ordering
// across shards is the caller's responsibility.
func (rd *Reader) PrefixScan(prefix []byte) func(yield func(key, value []byte) bool) {
	return func(yield func(key, value []byte) bool) {
		if rd.count == 0 {
			return
		}
		var first byte
		if len(prefix) > 0 {
			first = prefix[0]
		}
		left, right := 0, rd.count
		if len(prefix) > 0 {
			left, right = rd.bounds(first)
		}
		// Find the first record index >= prefix within [left, right).
		lo, hi := left, right
		for lo < hi {
			mid := lo + (hi-lo)/2
			got, err := rd.nameAt(mid)
			if err != nil {
				return
			}
			if bytes.Compare(got, prefix) < 0 {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		for i := lo; i < rd.count; i++ {
			key, err := rd.nameAt(i)
			if err != nil {
				return
			}
			if !bytes.HasPrefix(key, prefix) {
				return
			}
			_, value, err := rd.entryAt(i)
			if err != nil {
				return
			}
			if !yield(key, value) {
				return
			}
		}
	}
}
