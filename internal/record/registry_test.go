package record_test

import (
	"errors"
	"testing"

	"companionforge/internal/faults"
	"companionforge/internal/formid"
	"companionforge/internal/record"
)

func id(local uint32) formid.ID { return formid.New("Test.esp", local) }

func TestRegistryIndexesNestedRecords(t *testing.T) {
	reg := record.NewRegistry()
	topic := &record.Topic{
		Header: record.Header{FormID: id(0x800), Editor: "Greeting"},
		Groups: []*record.ResponseGroup{
			{Header: record.Header{FormID: id(0x801)}, Responses: []string{"Hi"}},
			{Header: record.Header{FormID: id(0x802)}, Responses: []string{"Hey"}},
		},
	}
	if err := reg.Add(topic); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !reg.Has(id(0x802)) {
		t.Fatal("expected nested group to be indexed")
	}
	if got := len(reg.Records()); got != 1 {
		t.Fatalf("expected 1 top-level record, got %d", got)
	}
	if reg.Len() != 3 {
		t.Fatalf("expected 3 indexed records, got %d", reg.Len())
	}
	rec, ok := reg.ByEditorID("Greeting")
	if !ok || rec.ID() != id(0x800) {
		t.Fatalf("unexpected editor id lookup: %v %v", rec, ok)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := record.NewRegistry()
	if err := reg.Add(&record.Location{Header: record.Header{FormID: id(0x800), Editor: "Home"}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := reg.Add(&record.Location{Header: record.Header{FormID: id(0x800), Editor: "Other"}})
	if !errors.Is(err, faults.ErrConstruction) {
		t.Fatalf("expected construction error for duplicate id, got %v", err)
	}
	err = reg.Add(&record.Location{Header: record.Header{FormID: id(0x801), Editor: "Home"}})
	if !errors.Is(err, faults.ErrConstruction) {
		t.Fatalf("expected construction error for duplicate editor id, got %v", err)
	}
	if reg.Has(id(0x801)) {
		t.Fatal("failed Add must not leave partial state")
	}
}

func TestRegistryExternalPlaceholdersAreShared(t *testing.T) {
	reg := record.NewRegistry()
	ext := &record.ExternalRef{Header: record.Header{FormID: formid.New("Fallout4.esm", 0x13746), Editor: "HumanRace"}, Target: record.KindRace}
	for i := 0; i < 2; i++ {
		if err := reg.AddExternal(ext); err != nil {
			t.Fatalf("AddExternal %d: %v", i, err)
		}
	}
	if len(reg.Records()) != 1 {
		t.Fatalf("expected a single placeholder, got %d", len(reg.Records()))
	}
}

func TestRegistrySeal(t *testing.T) {
	reg := record.NewRegistry()
	reg.Seal()
	err := reg.Add(&record.Location{Header: record.Header{FormID: id(0x800)}})
	if !errors.Is(err, record.ErrSealed) {
		t.Fatalf("expected ErrSealed, got %v", err)
	}
}

func TestPackageMastersFollowRegistrationOrder(t *testing.T) {
	pkg := record.NewPackage("Test.esp")
	for _, ext := range []*record.ExternalRef{
		{Header: record.Header{FormID: formid.New("DLCRobot.esm", 0x1), Editor: "A"}},
		{Header: record.Header{FormID: formid.New("Fallout4.esm", 0x2), Editor: "B"}},
		{Header: record.Header{FormID: formid.New("DLCRobot.esm", 0x3), Editor: "C"}},
	} {
		if err := pkg.Registry.AddExternal(ext); err != nil {
			t.Fatalf("AddExternal: %v", err)
		}
	}
	masters := pkg.Masters()
	if len(masters) != 2 || masters[0] != "DLCRobot.esm" || masters[1] != "Fallout4.esm" {
		t.Fatalf("unexpected masters %v", masters)
	}
}
