package faults_test

import (
	"errors"
	"strings"
	"testing"

	"companionforge/internal/faults"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := faults.Wrap(faults.ErrEmit, "emit", "rename", "failed", base)
	if !errors.Is(err, faults.ErrEmit) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"emit", "rename", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := faults.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, faults.ErrConstruction) {
		t.Fatalf("expected construction marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "build failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKindAndExitCode(t *testing.T) {
	cases := []struct {
		err  error
		kind string
		code int
	}{
		{nil, "", 0},
		{faults.Wrap(faults.ErrRequiredMissing, "resolve", "race", "HumanRace", nil), "required-missing", 1},
		{faults.Wrap(faults.ErrGuardrail, "validate", "", "", nil), "guardrail", 1},
		{faults.Wrap(faults.ErrConfiguration, "config", "", "bad", nil), "configuration", 2},
		{errors.New("plain"), "error", 1},
	}
	for _, tc := range cases {
		if got := faults.Kind(tc.err); got != tc.kind {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.kind)
		}
		if got := faults.ExitCode(tc.err); got != tc.code {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.code)
		}
	}
}
