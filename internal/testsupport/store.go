package testsupport

import (
	"context"
	"testing"

	"companionforge/internal/assembly"
	"companionforge/internal/catalog"
	"companionforge/internal/content"
	"companionforge/internal/formid"
)

// DefaultPlugin is the package name used by test builds.
const DefaultPlugin = "CompanionGemini.esp"

// Manifest returns the embedded default manifest.
func Manifest(t testing.TB) *content.Manifest {
	t.Helper()

	m, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	return m
}

// BuildOptions returns assembly options for the default manifest against c.
func BuildOptions(t testing.TB, c catalog.Catalog) assembly.Options {
	t.Helper()

	return assembly.Options{
		Plugin:      DefaultPlugin,
		FirstFormID: formid.FirstLocal,
		Manifest:    Manifest(t),
		Catalog:     c,
	}
}

// MustBuild assembles and validates the default package against the full
// game listing.
func MustBuild(t testing.TB) *assembly.Result {
	t.Helper()

	res, err := assembly.Build(context.Background(), BuildOptions(t, Catalog(t, GameListing())))
	if err != nil {
		t.Fatalf("assembly.Build: %v", err)
	}
	return res
}
