package assembly_test

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"

	"companionforge/internal/assembly"
	"companionforge/internal/catalog"
	"companionforge/internal/faults"
	"companionforge/internal/formid"
	"companionforge/internal/guardrail"
	"companionforge/internal/papyrus"
	"companionforge/internal/record"
	"companionforge/internal/testsupport"
)

func TestBuildDefaultManifest(t *testing.T) {
	res := testsupport.MustBuild(t)

	if res.Quest == nil || res.Quest.EditorID() != "COMGemini" {
		t.Fatalf("unexpected quest %+v", res.Quest)
	}
	if got := len(res.Quest.Stages); got != 53 {
		t.Fatalf("expected 53 stages, got %d", got)
	}
	if res.Quest.Priority != 70 {
		t.Fatalf("expected priority 70, got %d", res.Quest.Priority)
	}
	if len(res.Quest.Conditions) != 1 || !res.Quest.Conditions[0].IsAliasLock(0) {
		t.Fatalf("expected alias lock condition, got %v", res.Quest.Conditions)
	}
	if len(res.Omitted) != 0 {
		t.Fatalf("expected nothing omitted with full catalog, got %v", res.Omitted)
	}
	if !res.Report.Passed() {
		t.Fatalf("expected passing report, got %+v", res.Report)
	}
	if !res.Package.Registry.Sealed() {
		t.Fatal("expected sealed registry")
	}
	if got := res.Package.Masters(); !reflect.DeepEqual(got, []string{testsupport.BaseGame}) {
		t.Fatalf("unexpected masters %v", got)
	}
}

func TestBuildAllocatesInDependencyOrder(t *testing.T) {
	res := testsupport.MustBuild(t)

	first := formid.New(testsupport.DefaultPlugin, formid.FirstLocal)
	if res.Actor.ID() != first {
		t.Fatalf("expected actor to take the first id %s, got %s", first, res.Actor.ID())
	}
	// actor, location, cell, two placed refs, then the quest.
	if want := formid.New(testsupport.DefaultPlugin, formid.FirstLocal+5); res.Quest.ID() != want {
		t.Fatalf("expected quest id %s, got %s", want, res.Quest.ID())
	}
	// 3 + 2 placed + quest + 10 topics * 2 + 2 scenes + greeting + 3 groups.
	if res.Issued != 32 {
		t.Fatalf("expected 32 identifiers, got %d", res.Issued)
	}
	alias, ok := res.Quest.Alias(0)
	if !ok || alias.Actor != res.Actor.ID() {
		t.Fatalf("expected alias 0 bound to actor, got %+v", alias)
	}
	if len(res.Quest.Scenes) != 2 || len(res.Quest.Topics) != 11 {
		t.Fatalf("expected 2 scenes and 11 topics, got %d and %d", len(res.Quest.Scenes), len(res.Quest.Topics))
	}
	greeting, ok := res.Package.Registry.Get(res.Quest.Topics[0])
	if !ok || greeting.EditorID() != "COMGeminiGreeting" {
		t.Fatalf("expected greeting as first quest topic, got %v", greeting)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a := testsupport.MustBuild(t)
	b := testsupport.MustBuild(t)

	if !reflect.DeepEqual(a.Package.Registry.Records(), b.Package.Registry.Records()) {
		t.Fatal("expected identical records across builds")
	}
}

func TestBuildLinksScenesAndGreeting(t *testing.T) {
	res := testsupport.MustBuild(t)

	var pickup, dismiss *record.Scene
	for _, s := range res.Package.Scenes() {
		switch s.EditorID() {
		case "COMGeminiPickup":
			pickup = s
		case "COMGeminiDismiss":
			dismiss = s
		}
	}
	if pickup == nil || dismiss == nil {
		t.Fatal("expected both scenes")
	}
	if pickup.Quest != res.Quest.ID() {
		t.Fatalf("expected pickup scene owned by quest")
	}
	if pickup.Phases[0].CompleteStage != 80 || dismiss.Phases[0].CompleteStage != 90 {
		t.Fatalf("unexpected phase stages %v %v", pickup.Phases, dismiss.Phases)
	}
	action := pickup.Actions[0]
	for slot, id := range action.Responses {
		if id.IsZero() {
			t.Fatalf("expected slot %d to be filled", slot)
		}
	}
	npcPos, _ := res.Package.Registry.Get(action.Responses[record.Slot(record.SpeakerNPC, record.SentimentPositive)])
	if npcPos.EditorID() != "COMGemini_NpcPos" {
		t.Fatalf("unexpected npc positive topic %s", npcPos.EditorID())
	}

	var greeting *record.Topic
	for _, topic := range res.Package.Topics() {
		if topic.Role == record.RoleGreeting {
			greeting = topic
		}
	}
	if greeting == nil || len(greeting.Groups) != 3 {
		t.Fatalf("expected greeting with three groups, got %+v", greeting)
	}
	if greeting.Groups[0].StartScene != pickup.ID() || greeting.Groups[0].Flags&record.ResponseStartSceneOnEnd == 0 {
		t.Fatalf("unexpected first group %+v", greeting.Groups[0])
	}
	last := greeting.Groups[2]
	if last.StartScene != dismiss.ID() || last.StartPhase != "Loop01" {
		t.Fatalf("unexpected last group %+v", last)
	}
	if len(last.Conditions) != 2 || last.Conditions[0].Function != record.FuncGetInFaction {
		t.Fatalf("unexpected conditions %v", last.Conditions)
	}
}

func TestBuildBindsScripts(t *testing.T) {
	res := testsupport.MustBuild(t)

	qs := res.Quest.Script
	if qs == nil {
		t.Fatal("expected quest script binding")
	}
	if want := papyrus.ScriptName("COMGemini", res.Quest.ID()); qs.Schema.Script != want {
		t.Fatalf("expected script %s, got %s", want, qs.Schema.Script)
	}
	target, ok := qs.Lookup("Alias_Dogmeat")
	if !ok || target.Record != res.Quest.ID() || target.Alias != 2 {
		t.Fatalf("unexpected Alias_Dogmeat target %+v", target)
	}
	if len(qs.Fragments) != 2 || qs.Fragments[0].Name != "Fragment_Stage_0080_Item_00" {
		t.Fatalf("unexpected fragments %+v", qs.Fragments)
	}

	as := res.Actor.Script
	if as == nil || as.Schema.Script != "CompanionActorScript" {
		t.Fatalf("unexpected actor binding %+v", as)
	}
	if len(as.Entries) != 17 {
		t.Fatalf("expected all 17 actor properties bound, got %d", len(as.Entries))
	}
	home, _ := as.Lookup("HomeLocation")
	loc, _ := res.Package.Registry.ByEditorID("GeminiHomeLocation")
	if home.Record != loc.ID() {
		t.Fatalf("expected HomeLocation bound to package location")
	}
}

func TestBuildOmitsOptionalFeatures(t *testing.T) {
	opts := testsupport.BuildOptions(t, testsupport.Catalog(t, testsupport.RequiredListing()))
	res, err := assembly.Build(context.Background(), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Actor.HeadParts) != 0 {
		t.Fatalf("expected no head parts, got %v", res.Actor.HeadParts)
	}
	if !res.Actor.Class.IsZero() || !res.Actor.CombatStyle.IsZero() || len(res.Actor.Properties) != 0 {
		t.Fatalf("expected optional actor fields empty, got %+v", res.Actor)
	}
	for _, feature := range []string{"hair", "eyes", "class", "combat style", "actor value SpeedMult"} {
		if !slices.Contains(res.Omitted, feature) {
			t.Fatalf("expected %q omitted, got %v", feature, res.Omitted)
		}
	}
	// Only the two package-sourced properties remain on the actor script.
	if got := len(res.Actor.Script.Entries); got != 2 {
		t.Fatalf("expected 2 bound actor properties, got %d", got)
	}
}

func TestBuildHairFallsBackAlongChain(t *testing.T) {
	res := testsupport.MustBuild(t)

	hair, ok := res.Package.Registry.Get(res.Actor.HeadParts[0])
	if !ok {
		t.Fatal("expected hair placeholder")
	}
	if hair.EditorID() != "HairFemale01" {
		t.Fatalf("expected fallback hair, got %s", hair.EditorID())
	}
	eyes, _ := res.Package.Registry.Get(res.Actor.HeadParts[1])
	if strings.Contains(eyes.EditorID(), "Blind") {
		t.Fatalf("expected non-blind eyes, got %s", eyes.EditorID())
	}
}

func TestBuildFailsOnMissingRequired(t *testing.T) {
	listing := testsupport.GameListing()
	listing.Records = slices.DeleteFunc(listing.Records, func(r catalog.ListingRecord) bool {
		return r.EditorID == "HumanRace"
	})
	opts := testsupport.BuildOptions(t, testsupport.Catalog(t, listing))

	res, err := assembly.Build(context.Background(), opts)
	if res != nil {
		t.Fatal("expected no result")
	}
	if !errors.Is(err, faults.ErrRequiredMissing) {
		t.Fatalf("expected ErrRequiredMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), "HumanRace") {
		t.Fatalf("expected error to name the record, got %v", err)
	}
}

func TestBuildReturnsGuardrailViolation(t *testing.T) {
	opts := testsupport.BuildOptions(t, testsupport.Catalog(t, testsupport.GameListing()))
	opts.Manifest.Quest.Priority = 60

	res, err := assembly.Build(context.Background(), opts)
	if res != nil {
		t.Fatal("expected no result on violation")
	}
	var v *guardrail.Violation
	if !errors.As(err, &v) || !errors.Is(err, faults.ErrGuardrail) {
		t.Fatalf("expected guardrail violation, got %v", err)
	}
	if v.Message != "quest priority must equal 70, found 60" {
		t.Fatalf("unexpected message %q", v.Message)
	}
}

func TestAssembleSkipsValidation(t *testing.T) {
	opts := testsupport.BuildOptions(t, testsupport.Catalog(t, testsupport.GameListing()))
	opts.Manifest.Quest.Stages = opts.Manifest.Quest.Stages[:10]

	res, err := assembly.Assemble(context.Background(), opts)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	report, err := assembly.Validate(context.Background(), res, opts)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.Passed() {
		t.Fatal("expected failing report")
	}
	if report.Violation.Message != "quest is missing stages, expected 53, found 10" {
		t.Fatalf("unexpected message %q", report.Violation.Message)
	}
}

func TestBuildRejectsManifestErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*assembly.Options)
		want   error
	}{
		{
			name:   "unknown quest flag",
			mutate: func(o *assembly.Options) { o.Manifest.Quest.Flags = append(o.Manifest.Quest.Flags, "Bogus") },
			want:   faults.ErrConstruction,
		},
		{
			name:   "unknown scene topic",
			mutate: func(o *assembly.Options) { o.Manifest.Scenes[0].Actions[0].NPC.Positive = "Nope" },
			want:   faults.ErrDanglingReference,
		},
		{
			name:   "unknown start scene",
			mutate: func(o *assembly.Options) { o.Manifest.Greeting.Responses[0].StartScene = "Nope" },
			want:   faults.ErrDanglingReference,
		},
		{
			name:   "fragment on undefined stage",
			mutate: func(o *assembly.Options) { o.Manifest.QuestScript.Fragments[0].Stage = 81 },
			want:   faults.ErrDanglingReference,
		},
		{
			name:   "unknown package property",
			mutate: func(o *assembly.Options) { o.Manifest.ActorScript.Properties[3].Package = "Nope" },
			want:   faults.ErrDanglingReference,
		},
		{
			name:   "faction rank above int8",
			mutate: func(o *assembly.Options) { o.Manifest.Actor.Factions[0].Rank = 200 },
			want:   faults.ErrConstruction,
		},
		{
			name:   "faction rank below int8",
			mutate: func(o *assembly.Options) { o.Manifest.Actor.Factions[0].Rank = -129 },
			want:   faults.ErrConstruction,
		},
		{
			name:   "namespace exhausted",
			mutate: func(o *assembly.Options) { o.FirstFormID = formid.MaxLocal - 4 },
			want:   faults.ErrNamespaceExhausted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testsupport.BuildOptions(t, testsupport.Catalog(t, testsupport.GameListing()))
			tt.mutate(&opts)
			if _, err := assembly.Build(context.Background(), opts); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBuildAgainstSQLiteCatalog(t *testing.T) {
	store := testsupport.MustOpenCatalog(t, testsupport.GameListing())
	memory := testsupport.MustBuild(t)

	res, err := assembly.Build(context.Background(), testsupport.BuildOptions(t, store))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(res.Package.Registry.Records(), memory.Package.Registry.Records()) {
		t.Fatal("expected sqlite and memory catalogs to produce the same package")
	}
}
