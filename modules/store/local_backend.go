package store

import (
	"io"
	"os"
)

// LocalBackend reads shard files from the local filesystem. It is the
// default Backend and the one every engine-level test runs against.
type LocalBackend struct{}

func (LocalBackend) OpenRandom(path string) (ReadAtCloser, error) {
	return os.Open(path)
}

func (LocalBackend) OpenSequential(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
