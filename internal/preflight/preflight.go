package preflight

import (
	"context"

	"companionforge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckOutputUnlocked(cfg.PluginPath()),
		CheckCatalog(ctx, cfg.Paths.CatalogDB),
		CheckManifest(cfg.Content.Manifest),
	}
	if cfg.Plugin.WriteScriptSource {
		results = append(results, CheckDirectoryAccess("Script source directory", cfg.ScriptSourceDir()))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
