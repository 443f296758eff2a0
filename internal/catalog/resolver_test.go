package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"companionforge/internal/catalog"
	"companionforge/internal/faults"
	"companionforge/internal/formid"
	"companionforge/internal/logging"
	"companionforge/internal/record"
)

func newResolver() *catalog.Resolver {
	mem := catalog.NewMemory("Skyrim.esm").Add(
		catalog.Entry{ID: formid.New("Skyrim.esm", 0x13746), Kind: record.KindRace, EditorID: "NordRace"},
		catalog.Entry{ID: formid.New("Skyrim.esm", 0x20), Kind: record.KindHeadPart, EditorID: "HairFemale01"},
		catalog.Entry{ID: formid.New("Skyrim.esm", 0x21), Kind: record.KindHeadPart, EditorID: "BlindEyesHuman"},
		catalog.Entry{ID: formid.New("Skyrim.esm", 0x22), Kind: record.KindHeadPart, EditorID: "FemaleEyesHumanBrown"},
	)
	return catalog.NewResolver(mem, logging.NewNop())
}

func TestRequiredMissingNamesKindAndEditorID(t *testing.T) {
	r := newResolver()
	_, err := r.Required(context.Background(), record.KindVoiceType, "FemaleYoungEager")
	if !errors.Is(err, faults.ErrRequiredMissing) {
		t.Fatalf("expected required-missing marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "voice_type") || !strings.Contains(err.Error(), "FemaleYoungEager") {
		t.Fatalf("error must name kind and editor id: %v", err)
	}

	res, err := r.Required(context.Background(), record.KindRace, "NordRace")
	if err != nil || !res.Found() {
		t.Fatalf("expected NordRace to resolve: %v", err)
	}
	if res.Ref() == nil || res.Ref().Target != record.KindRace {
		t.Fatalf("unexpected placeholder %+v", res.Ref())
	}
}

func TestOptionalFallsBackThroughChain(t *testing.T) {
	r := newResolver()
	res, err := r.Optional(context.Background(), record.KindHeadPart, "HairFemale03", "HairFemale01")
	if err != nil {
		t.Fatalf("Optional returned error: %v", err)
	}
	if !res.Found() || res.Entry().EditorID != "HairFemale01" {
		t.Fatalf("expected fallback to HairFemale01, got %+v", res.Entry())
	}

	miss, err := r.Optional(context.Background(), record.KindPerk, "LightFoot")
	if err != nil {
		t.Fatalf("optional miss must not error: %v", err)
	}
	if miss.Found() || !miss.ID().IsZero() || miss.Ref() != nil {
		t.Fatalf("expected NotFound, got %+v", miss)
	}
}

func TestMatchUsesPredicate(t *testing.T) {
	r := newResolver()
	res, err := r.Match(context.Background(), record.KindHeadPart, "human eyes", func(edid string) bool {
		return strings.Contains(edid, "Eyes") && strings.Contains(edid, "Human") && !strings.Contains(edid, "Blind")
	})
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}
	if res.Entry().EditorID != "FemaleEyesHumanBrown" {
		t.Fatalf("unexpected match %q", res.Entry().EditorID)
	}
}

func TestRequiredMissingSuggestsNearMatches(t *testing.T) {
	r := newResolver()
	_, err := r.Required(context.Background(), record.KindRace, "NordRac")
	if !errors.Is(err, faults.ErrRequiredMissing) {
		t.Fatalf("expected required-missing marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "did you mean NordRace?") {
		t.Fatalf("expected suggestion in %v", err)
	}

	_, err = r.Required(context.Background(), record.KindRace, "Zzz")
	if strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("unexpected suggestion in %v", err)
	}
}
