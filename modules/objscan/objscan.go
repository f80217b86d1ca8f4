// Package objscan implements the sequential shard scan: walking every
// {kind}_{shard}.idx/.bin pair in turn and yielding each object's SHA
// and decompressed content, in on-disk order. This is how the engine
// enumerates "every commit ever observed" without a random-access
// index, grounded on oscar.py's GitObject.all().
package objscan

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ssc-oscar/oscar-go/modules/lzf"
	"github.com/ssc-oscar/oscar-go/modules/shard"
	"github.com/ssc-oscar/oscar-go/modules/store"
)

// Record is one object surfaced by a sequential scan.
type Record struct {
	SHA     string // 40-char hex
	Content []byte // decompressed
}

// ProgressFunc is called once per shard, before it is scanned, with the
// shard index and total shard count. Implementations typically drive a
// progress bar (see cmd/oscarctl); it is never required.
type ProgressFunc func(shardIndex, shardCount int)

// Scan walks every shard of idxKind/binKind (e.g.
// shard.KindCommitSequentialIdx / shard.KindCommitSequentialBin) in
// order and yields every record across every shard, in on-disk order
// within each shard. The scan stops and returns an error immediately if
// any shard is malformed; onProgress may be nil.
func Scan(s *store.Store, idxKind, binKind shard.Kind, onProgress ProgressFunc) func(yield func(Record, error) bool) {
	return func(yield func(Record, error) bool) {
		registry := s.Registry()
		idxTmpl, ok := registry[idxKind]
		if !ok {
			yield(Record{}, fmt.Errorf("objscan: unknown index kind %q", idxKind))
			return
		}
		binTmpl, ok := registry[binKind]
		if !ok {
			yield(Record{}, fmt.Errorf("objscan: unknown data kind %q", binKind))
			return
		}
		shardCount := idxTmpl.ShardCount()
		for i := 0; i < shardCount; i++ {
			if onProgress != nil {
				onProgress(i, shardCount)
			}
			idxPath, err := registry.Resolve(idxKind, "", []byte{byte(i)})
			if err != nil {
				yield(Record{}, err)
				return
			}
			binPath, err := registry.Resolve(binKind, "", []byte{byte(i)})
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !scanShard(s, idxPath, binPath, yield) {
				return
			}
		}
	}
}

func scanShard(s *store.Store, idxPath, binPath string, yield func(Record, error) bool) bool {
	idxFile, err := s.Backend().OpenSequential(idxPath)
	if err != nil {
		// A missing shard is not an error: shard ranges are sparse by
		// construction (not every prefix has data yet).
		return true
	}
	defer idxFile.Close()

	binFile, err := s.Backend().OpenSequential(binPath)
	if err != nil {
		yield(Record{}, fmt.Errorf("objscan: open %s: %w", binPath, err))
		return false
	}
	defer binFile.Close()

	scanner := bufio.NewScanner(idxFile)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) < 4 {
			yield(Record{}, fmt.Errorf("objscan: malformed index line in %s: %q", idxPath, line))
			return false
		}
		var compLenField, shaField string
		if len(fields) > 4 {
			compLenField, shaField = fields[2], fields[4]
		} else {
			compLenField, shaField = fields[2], fields[3]
		}
		compLen, err := strconv.Atoi(compLenField)
		if err != nil {
			yield(Record{}, fmt.Errorf("objscan: bad compressed length in %s: %q", idxPath, line))
			return false
		}
		raw := make([]byte, compLen)
		if _, err := io.ReadFull(binFile, raw); err != nil {
			yield(Record{}, fmt.Errorf("objscan: read %d bytes from %s: %w", compLen, binPath, err))
			return false
		}
		content, err := lzf.Decode(raw)
		if err != nil {
			yield(Record{}, fmt.Errorf("objscan: decompress record %s in %s: %w", shaField, idxPath, err))
			return false
		}
		if !yield(Record{SHA: shaField, Content: content}, nil) {
			return false
		}
	}
	if err := scanner.Err(); err != nil {
		yield(Record{}, fmt.Errorf("objscan: read %s: %w", idxPath, err))
		return false
	}
	return true
}
