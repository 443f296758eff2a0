package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"companionforge/internal/content"
	"companionforge/internal/faults"
	"companionforge/internal/guardrail"
	"companionforge/internal/plugin"
	"companionforge/internal/testsupport"
)

func TestBuildWritesPackageAndScriptSource(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSeededCatalog())

	stdout, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, stdout, "Build ID")
	requireContains(t, stdout, env.cfg.PluginPath())
	requireContains(t, stdout, "COMGemini")
	requireContains(t, stdout, testsupport.BaseGame)

	got, err := os.ReadFile(env.cfg.PluginPath())
	if err != nil {
		t.Fatalf("read package: %v", err)
	}
	res := testsupport.MustBuild(t)
	want, err := plugin.Encode(context.Background(), res.Package,
		plugin.LoadOrder(testsupport.GameListing().LoadOrder), plugin.WithAuthor(env.cfg.Plugin.Author))
	if err != nil {
		t.Fatalf("plugin.Encode: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("package bytes differ from an in-memory build (%d vs %d bytes)", len(got), len(want))
	}

	entries, err := os.ReadDir(env.cfg.ScriptSourceDir())
	if err != nil {
		t.Fatalf("read script dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one script source, got %d", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "QF_COMGemini_") || filepath.Ext(name) != ".psc" {
		t.Fatalf("unexpected script source name %q", name)
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSeededCatalog())

	if _, _, err := runCLI(t, []string{"build", "--no-scripts"}, env.configPath); err != nil {
		t.Fatalf("first build: %v", err)
	}
	first, err := os.ReadFile(env.cfg.PluginPath())
	if err != nil {
		t.Fatalf("read package: %v", err)
	}
	if _, _, err := runCLI(t, []string{"build", "--no-scripts"}, env.configPath); err != nil {
		t.Fatalf("second build: %v", err)
	}
	second, err := os.ReadFile(env.cfg.PluginPath())
	if err != nil {
		t.Fatalf("read package: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical bytes across builds")
	}
	if _, err := os.Stat(env.cfg.ScriptSourceDir()); err == nil {
		entries, _ := os.ReadDir(env.cfg.ScriptSourceDir())
		if len(entries) != 0 {
			t.Fatalf("expected no script sources with --no-scripts, got %d", len(entries))
		}
	}
}

func TestBuildFailsPreflightWithoutCatalog(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if faults.ExitCode(err) != 2 {
		t.Fatalf("expected exit code 2, got %d", faults.ExitCode(err))
	}
	requireContains(t, err.Error(), "catalog")
	if _, statErr := os.Stat(env.cfg.PluginPath()); !os.IsNotExist(statErr) {
		t.Fatalf("expected no package, stat err %v", statErr)
	}
}

func TestBuildReportsSingleViolation(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, func(m *content.Manifest) {
		m.Quest.Priority = 71
	})
	env := setupCLITestEnv(t, testsupport.WithSeededCatalog(), testsupport.WithManifest(manifest))

	_, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err == nil {
		t.Fatal("expected guardrail violation")
	}
	var violation *guardrail.Violation
	if !errors.As(err, &violation) {
		t.Fatalf("expected *guardrail.Violation, got %T: %v", err, err)
	}
	if violation.Check != "quest-priority" {
		t.Fatalf("expected quest-priority, got %q", violation.Check)
	}
	requireContains(t, err.Error(), "quest priority must equal 70, found 71")
	if strings.Contains(err.Error(), "\n") {
		t.Fatalf("expected a single line, got %q", err.Error())
	}
	if faults.ExitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %d", faults.ExitCode(err))
	}
	if _, statErr := os.Stat(env.cfg.PluginPath()); !os.IsNotExist(statErr) {
		t.Fatalf("expected no package after violation, stat err %v", statErr)
	}
}

func TestBuildViolationReachesStderrOnce(t *testing.T) {
	manifest := writeManifest(t, t.TempDir(), func(m *content.Manifest) {
		m.Quest.Priority = 71
	})
	env := setupCLITestEnv(t, testsupport.WithSeededCatalog(), testsupport.WithManifest(manifest))

	_, stderr, err := runCLI(t, []string{"--log-level", "debug", "build"}, env.configPath)
	if err == nil {
		t.Fatal("expected guardrail violation")
	}
	// main prints the returned error as the final stderr line.
	report := stderr + err.Error() + "\n"
	const message = "quest priority must equal 70, found 71"
	if n := strings.Count(report, message); n != 1 {
		t.Fatalf("expected violation reported once, got %d in %q", n, report)
	}
}
