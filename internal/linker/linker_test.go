package linker_test

import (
	"errors"
	"testing"

	"companionforge/internal/builder"
	"companionforge/internal/faults"
	"companionforge/internal/formid"
	"companionforge/internal/linker"
	"companionforge/internal/record"
)

const plugin = "CompanionGemini.esp"

func id(local uint32) formid.ID { return formid.New(plugin, local) }

type fixture struct {
	reg   *record.Registry
	link  *linker.Linker
	actor formid.ID
	quest formid.ID
	scene formid.ID
	topic formid.ID
	group formid.ID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	reg := record.NewRegistry()
	f := fixture{reg: reg, link: linker.New(reg), actor: id(0x800), quest: id(0x801), scene: id(0x802), topic: id(0x803), group: id(0x804)}

	actor, err := builder.Actor(f.actor, builder.ActorSpec{EditorID: "CompanionGemini", Race: formid.New("Fallout4.esm", 1), Voice: formid.New("Fallout4.esm", 2)})
	mustAdd(t, reg, actor, err)
	quest, err := builder.Quest(f.quest, builder.QuestSpec{
		EditorID: "COMGemini",
		Stages:   []builder.StageSpec{{Index: 80, Notes: []string{"Gemini recruited."}}},
		Aliases:  []builder.AliasSpec{{ID: 0, Name: "Gemini"}},
	})
	mustAdd(t, reg, quest, err)
	scene, err := builder.Scene(f.scene, builder.SceneSpec{
		EditorID: "COMGeminiPickup",
		Phases:   []record.Phase{{Name: "Loop01", CompleteStage: 80}},
		Actors:   []record.SceneActor{{Alias: 0}},
		Actions:  []builder.ActionSpec{{Alias: 0, StartPhase: "Loop01", EndPhase: "Loop01"}},
	})
	mustAdd(t, reg, scene, err)
	topic, err := builder.Topic(f.topic, builder.Greeting("COMGeminiGreeting", []builder.GroupSpec{{ID: f.group, Responses: []string{"Hey."}}}))
	mustAdd(t, reg, topic, err)
	return f
}

func mustAdd(t *testing.T, reg *record.Registry, rec record.Record, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("build %T: %v", rec, err)
	}
	if err := reg.Add(rec); err != nil {
		t.Fatalf("register %s: %v", rec.EditorID(), err)
	}
}

func TestLinkerWiresRelationships(t *testing.T) {
	f := newFixture(t)
	steps := []func() error{
		func() error { return f.link.SceneBelongsTo(f.scene, f.quest) },
		func() error { return f.link.TopicBelongsTo(f.topic, f.quest) },
		func() error { return f.link.QuestOwnsScene(f.quest, f.scene) },
		func() error { return f.link.QuestOwnsScene(f.quest, f.scene) },
		func() error { return f.link.QuestOwnsTopic(f.quest, f.topic) },
		func() error { return f.link.AliasBindsActor(f.quest, 0, f.actor) },
		func() error { return f.link.ResponseStartsScene(f.group, f.scene, "Loop01") },
		func() error {
			return f.link.ActionSpeaks(f.scene, 1, record.SpeakerNPC, record.SentimentQuestion, f.topic)
		},
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	rec, _ := f.reg.Get(f.quest)
	q := rec.(*record.Quest)
	if len(q.Scenes) != 1 || q.Scenes[0] != f.scene {
		t.Fatalf("expected scene linked once, got %v", q.Scenes)
	}
	if q.Aliases[0].Actor != f.actor {
		t.Fatalf("alias not bound: %+v", q.Aliases[0])
	}
	rec, _ = f.reg.Get(f.scene)
	s := rec.(*record.Scene)
	if s.Quest != f.quest || s.Actions[0].Responses[record.Slot(record.SpeakerNPC, record.SentimentQuestion)] != f.topic {
		t.Fatalf("scene not wired: %+v", s)
	}
	rec, _ = f.reg.Get(f.group)
	g := rec.(*record.ResponseGroup)
	if g.StartScene != f.scene || g.StartPhase != "Loop01" {
		t.Fatalf("group not wired: %+v", g)
	}
}

func TestLinkerRejectsForwardReferences(t *testing.T) {
	f := newFixture(t)
	unregistered := id(0x900)
	tests := []struct {
		name string
		call func() error
	}{
		{"scene", func() error { return f.link.QuestOwnsScene(f.quest, unregistered) }},
		{"topic owner", func() error { return f.link.TopicBelongsTo(f.topic, unregistered) }},
		{"actor", func() error { return f.link.AliasBindsActor(f.quest, 0, unregistered) }},
		{"alias", func() error { return f.link.AliasBindsActor(f.quest, 5, f.actor) }},
		{"phase", func() error { return f.link.ResponseStartsScene(f.group, f.scene, "Loop09") }},
		{"action", func() error {
			return f.link.ActionSpeaks(f.scene, 2, record.SpeakerPlayer, record.SentimentPositive, f.topic)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, faults.ErrDanglingReference) {
				t.Fatalf("expected dangling reference, got %v", err)
			}
		})
	}
}

func TestLinkerRejectsWrongKinds(t *testing.T) {
	f := newFixture(t)
	if err := f.link.QuestOwnsScene(f.quest, f.topic); !errors.Is(err, faults.ErrConstruction) {
		t.Fatalf("expected kind mismatch, got %v", err)
	}
}

func TestBindScriptChecksTargets(t *testing.T) {
	f := newFixture(t)
	schema := record.BindingSchema{Script: "Fragments:Quests:QF_COMGemini_00000801", Keys: []record.KeySpec{
		{Key: "Alias_Gemini", Type: "ReferenceAlias", Required: true},
		{Key: "Followers", Type: "FollowersScript", Required: true},
	}}

	bad := record.NewBinding(schema)
	if err := bad.Bind("Alias_Gemini", record.AliasTarget(f.quest, 3)); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if err := f.link.BindScript(f.quest, bad); !errors.Is(err, faults.ErrDanglingReference) {
		t.Fatalf("expected unknown alias error, got %v", err)
	}

	missing := record.NewBinding(schema)
	_ = missing.Bind("Followers", record.RecordTarget(formid.New("Fallout4.esm", 0x289E4)))
	if err := f.link.BindScript(f.quest, missing); !errors.Is(err, faults.ErrDanglingReference) {
		t.Fatalf("expected unregistered target error, got %v", err)
	}

	good := record.NewBinding(schema)
	_ = good.Bind("Alias_Gemini", record.AliasTarget(f.quest, 0))
	if err := f.link.BindScript(f.quest, good); err != nil {
		t.Fatalf("BindScript returned error: %v", err)
	}
	rec, _ := f.reg.Get(f.quest)
	if rec.(*record.Quest).Script != good {
		t.Fatal("expected binding attached to quest")
	}
}

func TestLinkerFailsAfterSeal(t *testing.T) {
	f := newFixture(t)
	f.reg.Seal()
	if err := f.link.QuestOwnsScene(f.quest, f.scene); !errors.Is(err, record.ErrSealed) {
		t.Fatalf("expected sealed error, got %v", err)
	}
	if err := f.link.BindScript(f.actor, record.NewBinding(record.BindingSchema{})); !errors.Is(err, record.ErrSealed) {
		t.Fatalf("expected sealed error, got %v", err)
	}
}
