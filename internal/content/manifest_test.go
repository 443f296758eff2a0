package content_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"companionforge/internal/content"
)

func TestDefaultManifestCarriesFullStageTable(t *testing.T) {
	m, err := content.Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	if got := len(m.Quest.Stages); got != 53 {
		t.Fatalf("expected 53 stages, got %d", got)
	}
	seen := make(map[int]bool)
	for _, s := range m.Quest.Stages {
		if seen[s.Index] {
			t.Fatalf("duplicate stage index %d", s.Index)
		}
		seen[s.Index] = true
		if s.Note == "" {
			t.Fatalf("stage %d has an empty note", s.Index)
		}
	}
	if m.Quest.Priority != 70 || m.Greeting.Priority != 50 {
		t.Fatalf("unexpected priorities quest=%d greeting=%d", m.Quest.Priority, m.Greeting.Priority)
	}
	if len(m.Scenes) != 2 || m.Scenes[1].Phases[0].CompleteStage == nil || *m.Scenes[1].Phases[0].CompleteStage != 90 {
		t.Fatalf("unexpected scenes %+v", m.Scenes)
	}
	if m.QuestScript.Properties[0].Alias == nil || *m.QuestScript.Properties[0].Alias != 0 {
		t.Fatalf("expected alias property first, got %+v", m.QuestScript.Properties[0])
	}
	stats := m.Stats()
	if stats.Topics != 11 || stats.Greetings != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestLoadYAMLMatchesDefault(t *testing.T) {
	want, err := content.Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	data, err := yaml.Marshal(want)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	path := filepath.Join(t.TempDir(), "companion.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	got, err := content.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatal("yaml manifest differs from the embedded default")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[quest]\npriorty = 70\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := content.Load(path); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	m, err := content.Load("  ")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if m.Quest.EditorID != "COMGemini" {
		t.Fatalf("unexpected quest %q", m.Quest.EditorID)
	}
}

func TestNameMatch(t *testing.T) {
	match := content.NameMatch{Contains: []string{"Eyes", "Human"}, Excludes: []string{"Blind"}}
	tests := []struct {
		edid string
		want bool
	}{
		{"FemaleEyesHumanBrown", true},
		{"BlindEyesHuman", false},
		{"FemaleEyesGhoul", false},
	}
	for _, tt := range tests {
		if got := match.Matches(tt.edid); got != tt.want {
			t.Fatalf("Matches(%q) = %v, want %v", tt.edid, got, tt.want)
		}
	}
	if (content.NameMatch{}).Matches("anything") {
		t.Fatal("empty match must not match")
	}
}
