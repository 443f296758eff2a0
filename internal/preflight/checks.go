package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"companionforge/internal/catalog"
	"companionforge/internal/content"
	"companionforge/internal/fileutil"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputUnlocked verifies that no other build holds the output lock.
func CheckOutputUnlocked(path string) Result {
	const name = "Output lock"

	lockPath := fileutil.LockPath(path)
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		return Result{Name: name, Passed: true, Detail: "free"}
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", lockPath, err)}
	}
	if !ok {
		return Result{Name: name, Detail: fmt.Sprintf("%s (held by another build)", lockPath)}
	}
	_ = lock.Unlock()
	return Result{Name: name, Passed: true, Detail: "free"}
}

// CheckCatalog opens the catalog read-only and reports its size.
func CheckCatalog(ctx context.Context, path string) Result {
	const name = "Catalog"

	store, err := catalog.Open(ctx, path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()

	counts, err := store.Counts(ctx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	order, err := store.LoadOrder(ctx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: catalog is empty)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d records across %d plugins", total, len(order))}
}

// CheckManifest loads the content manifest, or the embedded default when
// path is empty.
func CheckManifest(path string) Result {
	const name = "Manifest"

	m, err := content.Load(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	source := "embedded default"
	if strings.TrimSpace(path) != "" {
		source = path
	}
	stats := m.Stats()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d stages, %d scenes, %d topics)", source, stats.Stages, stats.Scenes, stats.Topics)}
}
