package testsupport

import (
	"path/filepath"
	"testing"

	"companionforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CatalogDB = filepath.Join(base, "catalog.db")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPluginName overrides the package file name.
func WithPluginName(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Plugin.Name = name
	}
}

// WithMastersOrder overrides the masters ordering policy.
func WithMastersOrder(order string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Plugin.MastersOrder = order
	}
}

// WithManifest points the build at a manifest file.
func WithManifest(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Content.Manifest = path
	}
}

// WithSeededCatalog writes GameListing into the config's catalog database.
func WithSeededCatalog() ConfigOption {
	return func(b *configBuilder) {
		SeedCatalog(b.t, b.cfg.Paths.CatalogDB, GameListing())
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
