package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the output lock.
var ErrLocked = errors.New("output is locked by another process")

// Written describes a file produced by WriteLocked.
type Written struct {
	Path   string
	Size   int64
	SHA256 string
}

// LockPath returns the lock file guarding path.
func LockPath(path string) string {
	return path + ".lock"
}

// WriteLocked produces path atomically: write fills a temp file in the same
// directory, which is synced and renamed over path while <path>.lock is held.
// The temp file is removed on any failure, leaving an existing path intact.
func WriteLocked(path string, mode os.FileMode, write func(io.Writer) error) (Written, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Written{}, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(LockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return Written{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return Written{}, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return Written{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	hasher := sha256.New()
	counter := &countingWriter{}
	if err := write(io.MultiWriter(tmp, hasher, counter)); err != nil {
		return Written{}, err
	}
	if err := tmp.Sync(); err != nil {
		return Written{}, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Written{}, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return Written{}, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return Written{}, fmt.Errorf("rename into place: %w", err)
	}
	committed = true

	return Written{Path: path, Size: counter.n, SHA256: hex.EncodeToString(hasher.Sum(nil))}, nil
}

// WriteFileLocked is WriteLocked for an in-memory payload.
func WriteFileLocked(path string, data []byte, mode os.FileMode) (Written, error) {
	return WriteLocked(path, mode, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
