package papyrus_test

import (
	"strings"
	"testing"

	"companionforge/internal/formid"
	"companionforge/internal/papyrus"
	"companionforge/internal/record"
)

func questWithBinding(t *testing.T) *record.Quest {
	t.Helper()
	id := formid.New("CompanionGemini.esp", 0x80F)
	q := &record.Quest{Header: record.Header{FormID: id, Editor: "COMGemini"}}
	q.Script = record.NewBinding(record.BindingSchema{
		Script: papyrus.ScriptName("COMGemini", id),
		Keys: []record.KeySpec{
			{Key: "Alias_Gemini", Type: "ReferenceAlias", Required: true},
			{Key: "Followers", Type: "FollowersScript", Required: true},
		},
	})
	q.Script.Fragments = []record.Fragment{
		{Stage: 80, Name: papyrus.FragmentName(80), Code: "FollowersScript.GetScript().SetCompanion(Alias_Gemini.GetActorReference())"},
		{Stage: 90, Name: papyrus.FragmentName(90), Code: "FollowersScript.GetScript().DismissCompanion(Alias_Gemini.GetActorReference())\n"},
	}
	return q
}

func TestRenderProducesFragmentScript(t *testing.T) {
	got, err := papyrus.Render(questWithBinding(t))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	want := strings.Join([]string{
		";BEGIN FRAGMENT CODE",
		"Scriptname Fragments:Quests:QF_COMGemini_0000080F Extends Quest Hidden Const",
		"",
		";BEGIN FRAGMENT Fragment_Stage_0080_Item_00",
		"Function Fragment_Stage_0080_Item_00()",
		";BEGIN CODE",
		"FollowersScript.GetScript().SetCompanion(Alias_Gemini.GetActorReference())",
		";END CODE",
		"EndFunction",
		";END FRAGMENT",
		"",
		";BEGIN FRAGMENT Fragment_Stage_0090_Item_00",
		"Function Fragment_Stage_0090_Item_00()",
		";BEGIN CODE",
		"FollowersScript.GetScript().DismissCompanion(Alias_Gemini.GetActorReference())",
		";END CODE",
		"EndFunction",
		";END FRAGMENT",
		"",
		"ReferenceAlias Property Alias_Gemini Auto Const Mandatory",
		"FollowersScript Property Followers Auto Const Mandatory",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected script:\n%s\nwant:\n%s", got, want)
	}
}

func TestFileNameUsesQuestIdentifier(t *testing.T) {
	if got := papyrus.FileName(questWithBinding(t)); got != "QF_COMGemini_0000080F.psc" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestRenderRejectsMismatchedBinding(t *testing.T) {
	q := questWithBinding(t)
	q.Script.Schema.Script = "Fragments:Quests:QF_Other_00000001"
	if _, err := papyrus.Render(q); err == nil {
		t.Fatal("expected mismatch error")
	}
	q.Script = nil
	if _, err := papyrus.Render(q); err == nil {
		t.Fatal("expected missing binding error")
	}
}
