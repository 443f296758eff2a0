package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"companionforge/internal/testsupport"
)

func writeListing(t *testing.T, dir string) string {
	t.Helper()
	data, err := toml.Marshal(testsupport.GameListing())
	if err != nil {
		t.Fatalf("marshal listing: %v", err)
	}
	path := filepath.Join(dir, "listing.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write listing: %v", err)
	}
	return path
}

func TestCatalogImportThenShow(t *testing.T) {
	env := setupCLITestEnv(t)
	listing := writeListing(t, env.baseDir)

	stdout, _, err := runCLI(t, []string{"catalog", "import", listing}, env.configPath)
	if err != nil {
		t.Fatalf("catalog import: %v", err)
	}
	requireContains(t, stdout, "Imported ")
	requireContains(t, stdout, env.cfg.Paths.CatalogDB)

	stdout, _, err = runCLI(t, []string{"catalog", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog show: %v", err)
	}
	requireContains(t, stdout, "Load order: "+testsupport.BaseGame+", "+testsupport.Expansion)
	requireContains(t, stdout, "Voice Type")
	requireContains(t, stdout, "Total")

	stdout, _, err = runCLI(t, []string{"catalog", "show", "--kind", "race"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog show --kind: %v", err)
	}
	requireContains(t, stdout, "HumanRace")
	requireContains(t, stdout, testsupport.BaseGame)
}

func TestCatalogImportedDatabaseBuilds(t *testing.T) {
	env := setupCLITestEnv(t)
	listing := writeListing(t, env.baseDir)

	if _, _, err := runCLI(t, []string{"catalog", "import", listing}, env.configPath); err != nil {
		t.Fatalf("catalog import: %v", err)
	}
	if _, _, err := runCLI(t, []string{"build", "--no-scripts"}, env.configPath); err != nil {
		t.Fatalf("build after import: %v", err)
	}
	if _, err := os.Stat(env.cfg.PluginPath()); err != nil {
		t.Fatalf("expected package: %v", err)
	}
}

func TestCatalogImportRejectsMissingListing(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"catalog", "import", filepath.Join(env.baseDir, "missing.toml")}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing listing")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestCatalogShowWithoutCatalogFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"catalog", "show"}, env.configPath)
	if err == nil {
		t.Fatal("expected error when the catalog was never imported")
	}
	requireContains(t, err.Error(), "catalog import")
}
