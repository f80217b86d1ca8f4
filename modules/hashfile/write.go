package hashfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"
)

// Entry is one (key, value) pair to be written to a hash file.
type Entry struct {
	Key   []byte
	Value []byte
}

// Write serializes entries (sorted by key as a side effect) to w in the
// format documented on Reader. It exists to build fixtures for this
// package's own tests and for every other package that reads shard
// files in tests (hashfile is the only writer this repository ships —
// production shard files come from the external pipeline).
func Write(w io.Writer, entries []Entry) error {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i].Key, sorted[j].Key) < 0 })

	var fanout [fanoutEntries]uint32
	for _, e := range sorted {
		var first byte
		if len(e.Key) > 0 {
			first = e.Key[0]
		}
		for b := int(first); b < fanoutEntries; b++ {
			fanout[b]++
		}
	}

	hdr := make([]byte, headerWidth)
	copy(hdr[:4], magic[:])
	binary.BigEndian.PutUint32(hdr[4:8], currentVersion)
	binary.BigEndian.PutUint32(hdr[8:12], uint32(len(sorted)))
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	fanoutBuf := make([]byte, fanoutWidth)
	for i, v := range fanout {
		binary.BigEndian.PutUint32(fanoutBuf[i*4:], v)
	}
	if _, err := w.Write(fanoutBuf); err != nil {
		return err
	}

	offset := int64(headerWidth + fanoutWidth + len(sorted)*8)
	offsetsBuf := make([]byte, len(sorted)*8)
	var recordsBuf bytes.Buffer
	for i, e := range sorted {
		binary.BigEndian.PutUint64(offsetsBuf[i*8:], uint64(offset))

		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(e.Key)))
		recordsBuf.Write(lenBuf[:])
		recordsBuf.Write(e.Key)
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(e.Value)))
		recordsBuf.Write(lenBuf[:])
		recordsBuf.Write(e.Value)

		offset += 4 + int64(len(e.Key)) + 4 + int64(len(e.Value))
	}
	if _, err := w.Write(offsetsBuf); err != nil {
		return err
	}
	_, err := w.Write(recordsBuf.Bytes())
	return err
}
