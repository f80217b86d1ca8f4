package store

import "io"

// Backend is the pluggable I/O source for shard files: local filesystem
// by default, optionally S3 (see s3_backend.go) for deployments that
// distribute shards across object storage rather than local disk.
type Backend interface {
	// OpenRandom opens path for random-access reads (hash files, packed
	// blob data). The returned ReadAtCloser must support concurrent
	// ReadAt calls.
	OpenRandom(path string) (ReadAtCloser, error)
	// OpenSequential opens path for a single forward read pass (the
	// sequential-scan .idx/.bin pairs).
	OpenSequential(path string) (io.ReadCloser, error)
}

// ReadAtCloser is the capability the handle pool caches: concurrent
// random reads plus explicit close at process exit.
type ReadAtCloser interface {
	io.ReaderAt
	io.Closer
}
