package token

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by backends when a key has no stored value.
var ErrNotFound = errors.New("token: value not found")

// Backend is one physical place a credential can live. Availability is a
// runtime property and must be re-checked per call, not cached at startup.
type Backend interface {
	Available() bool
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// fileBackend persists values as one file per key under a directory. Keys
// may contain characters that are not legal in file names (the legacy key
// does), so they are path-escaped.
type fileBackend struct {
	dir string
}

func newFileBackend(dir string) *fileBackend {
	return &fileBackend{dir: dir}
}

func (b *fileBackend) Available() bool {
	return b.dir != ""
}

func (b *fileBackend) path(key string) string {
	return filepath.Join(b.dir, url.PathEscape(key))
}

func (b *fileBackend) Get(key string) (string, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(data), nil
}

func (b *fileBackend) Set(key, value string) error {
	if err := os.MkdirAll(b.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(b.path(key), []byte(value), 0o600)
}

func (b *fileBackend) Delete(key string) error {
	err := os.Remove(b.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
