package testsupport

import (
	"context"
	"testing"

	"companionforge/internal/catalog"
)

const (
	// BaseGame is the master every seeded record lives in.
	BaseGame = "Fallout4.esm"
	// Expansion overrides one seeded record to exercise load-order priority.
	Expansion = "DLCRobot.esm"
)

type seed struct {
	kind, editorID, local string
}

// required lists the records the default manifest cannot build without.
var required = []seed{
	{"race", "HumanRace", "013746"},
	{"voice_type", "FemaleEvenToned", "013ADD"},
	{"faction", "CurrentCompanionFaction", "023C01"},
	{"faction", "HasBeenCompanionFaction", "075D56"},
	{"faction", "PotentialCompanionFaction", "01EC1A"},
	{"faction", "Voices_CompanionsFaction", "0C1D70"},
	{"quest", "Followers", "0289E4"},
}

var optional = []seed{
	{"head_part", "HairFemale01", "0A3E4B"},
	{"head_part", "FemaleEyesHumanBlind", "1B2F31"},
	{"head_part", "FemaleEyesHumanLightBlue", "03A68B"},
	{"class", "ZeroSPECIALclass", "1CE2A0"},
	{"combat_style", "csCompPiper", "0BBFE1"},
	{"actor_value", "SpeedMult", "0002DA"},
	{"actor_value", "CA_TemporaryAngerLevel", "0A1B7E"},
	{"actor_value", "Experience", "0002C9"},
	{"actor_value", "CA_HasItemForPlayer", "0A1B80"},
	{"quest", "CompanionTutorial", "0D0AF3"},
	{"global", "MQComplete", "0D1BC6"},
	{"global", "CA_00", "0A1B68"},
	{"global", "CA_T6_Infatuation", "0A1B6F"},
	{"keyword", "CA_Event_Murder", "0A13E2"},
	{"keyword", "CA_CustomEvent_PiperDislikes", "0F0CA8"},
	{"keyword", "CA_CustomEvent_PiperHates", "0F0CA9"},
	{"keyword", "CA_CustomEvent_PiperLikes", "0F0CAA"},
	{"keyword", "CA_CustomEvent_PiperLoves", "0F0CAB"},
	{"keyword", "PlayerCanStimpak", "1E5E5F"},
	{"perk", "CompanionPiperPerk", "1C1BE9"},
	{"message", "COMPiperMaxApprovalMessage", "1C1BEC"},
}

func listing(seeds ...[]seed) catalog.Listing {
	l := catalog.Listing{LoadOrder: []string{BaseGame, Expansion}}
	for _, group := range seeds {
		for _, s := range group {
			l.Records = append(l.Records, catalog.ListingRecord{
				Kind:     s.kind,
				EditorID: s.editorID,
				FormID:   s.local + ":" + BaseGame,
			})
		}
	}
	// The expansion redefines the voice type; it wins by load order.
	l.Records = append(l.Records, catalog.ListingRecord{
		Kind:      "voice_type",
		EditorID:  "FemaleEvenToned",
		FormID:    "013ADD:" + BaseGame,
		DefinedIn: Expansion,
	})
	return l
}

// GameListing returns a listing defining every record the default manifest
// names, required and optional.
func GameListing() catalog.Listing {
	return listing(required, optional)
}

// RequiredListing returns a listing with only the required records, so every
// optional feature is omitted.
func RequiredListing() catalog.Listing {
	return listing(required)
}

// Catalog returns an in-memory catalog built from listing.
func Catalog(t testing.TB, l catalog.Listing) *catalog.Memory {
	t.Helper()

	mem, err := l.Memory()
	if err != nil {
		t.Fatalf("listing.Memory: %v", err)
	}
	return mem
}

// SeedCatalog creates a SQLite catalog at path filled with listing.
func SeedCatalog(t testing.TB, path string, l catalog.Listing) {
	t.Helper()

	store, err := catalog.Create(context.Background(), path)
	if err != nil {
		t.Fatalf("catalog.Create: %v", err)
	}
	defer store.Close()
	if _, err := store.Import(context.Background(), l); err != nil {
		t.Fatalf("store.Import: %v", err)
	}
}

// MustOpenCatalog seeds a SQLite catalog in a temp dir and opens it
// read-only, registering cleanup.
func MustOpenCatalog(t testing.TB, l catalog.Listing) *catalog.Store {
	t.Helper()

	path := t.TempDir() + "/catalog.db"
	SeedCatalog(t, path, l)
	store, err := catalog.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
