package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
)

func TestWriteFileLocked(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.esp")

	content := []byte("hello world")
	written, err := WriteFileLocked(path, content, 0o644)
	if err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
	sum := sha256.Sum256(content)
	if written.SHA256 != hex.EncodeToString(sum[:]) {
		t.Fatalf("unexpected digest %s", written.SHA256)
	}
	if written.Size != int64(len(content)) {
		t.Fatalf("unexpected size %d", written.Size)
	}
}

func TestWriteLockedKeepsExistingFileOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.esp")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	_, err := WriteLocked(path, 0o644, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "old" {
		t.Fatalf("expected old content to survive, got %q", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteLockedRefusesWhenLocked(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.esp")

	held := flock.New(LockPath(path))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-lock failed: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	_, err = WriteFileLocked(path, []byte("data"), 0o644)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output, stat err=%v", statErr)
	}
}
