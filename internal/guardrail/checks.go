package guardrail

import (
	"companionforge/internal/record"
)

// Values every companion quest and greeting must carry.
const (
	RequiredQuestPriority    = 70
	RequiredStageCount       = 53
	LockedAlias              = 0
	RequiredGreetingPriority = 50
)

// RequiredQuestFlags must all be set on every quest.
const RequiredQuestFlags = record.QuestStartEnabled | record.QuestRunOnce

// Default returns the built-in checks in evaluation order.
func Default() []Check {
	return []Check{
		{Name: "quest-priority", Run: questPriority},
		{Name: "quest-flags", Run: questFlags},
		{Name: "quest-lock-condition", Run: questLockCondition},
		{Name: "quest-stage-count", Run: questStageCount},
		{Name: "stage-log-entries", Run: stageLogEntries},
		{Name: "greeting-topics", Run: greetingTopics},
		{Name: "stage-index-unique", Run: stageIndexUnique},
		{Name: "alias-id-unique", Run: aliasIDUnique},
		{Name: "scene-phase-ranges", Run: scenePhaseRanges},
		{Name: "scene-stage-targets", Run: sceneStageTargets},
		{Name: "script-bindings", Run: scriptBindings},
		{Name: "referential-integrity", Run: referentialIntegrity},
	}
}

func questPriority(pkg *record.Package) Outcome {
	for _, q := range pkg.Quests() {
		if q.Priority != RequiredQuestPriority {
			return Fail(q, "quest priority must equal %d, found %d", RequiredQuestPriority, q.Priority)
		}
	}
	return Pass()
}

func questFlags(pkg *record.Package) Outcome {
	for _, q := range pkg.Quests() {
		if !q.Flags.Has(RequiredQuestFlags) {
			missing := RequiredQuestFlags &^ q.Flags
			return Fail(q, "quest flags must include %s, missing %s", RequiredQuestFlags, missing)
		}
	}
	return Pass()
}

func questLockCondition(pkg *record.Package) Outcome {
	want := record.AliasLock(LockedAlias)
	for _, q := range pkg.Quests() {
		locked := false
		for _, c := range q.Conditions {
			if c.IsAliasLock(LockedAlias) {
				locked = true
				break
			}
		}
		if !locked {
			return Fail(q, "quest dialogue conditions must include %s", want)
		}
	}
	return Pass()
}

func questStageCount(pkg *record.Package) Outcome {
	for _, q := range pkg.Quests() {
		if len(q.Stages) < RequiredStageCount {
			return Fail(q, "quest is missing stages, expected %d, found %d", RequiredStageCount, len(q.Stages))
		}
	}
	return Pass()
}

func stageLogEntries(pkg *record.Package) Outcome {
	for _, q := range pkg.Quests() {
		for _, s := range q.Stages {
			if n := len(s.LogEntries); n != 1 {
				return Fail(q, "stage %d must have exactly one log entry, found %d", s.Index, n)
			}
			if s.LogEntries[0].Note == "" {
				return Fail(q, "stage %d log entry note must not be empty", s.Index)
			}
		}
	}
	return Pass()
}

func greetingTopics(pkg *record.Package) Outcome {
	for _, t := range pkg.Topics() {
		if t.Role != record.RoleGreeting {
			continue
		}
		switch {
		case t.Priority != RequiredGreetingPriority:
			return Fail(t, "greeting topic priority must equal %d, found %d", RequiredGreetingPriority, t.Priority)
		case t.Subtype != record.SubtypeGreeting:
			return Fail(t, "greeting topic subtype must be %s, found %s", record.SubtypeGreeting, t.Subtype)
		case t.Category != record.CategoryMisc:
			return Fail(t, "greeting topic category must be %s, found %s", record.CategoryMisc, t.Category)
		case !t.Branch.IsZero():
			return Fail(t, "greeting topic must not have a branch")
		}
	}
	return Pass()
}

func stageIndexUnique(pkg *record.Package) Outcome {
	for _, q := range pkg.Quests() {
		seen := make(map[int]struct{}, len(q.Stages))
		for _, s := range q.Stages {
			if _, dup := seen[s.Index]; dup {
				return Fail(q, "stage index %d is used more than once", s.Index)
			}
			seen[s.Index] = struct{}{}
		}
	}
	return Pass()
}

func aliasIDUnique(pkg *record.Package) Outcome {
	for _, q := range pkg.Quests() {
		seen := make(map[int]struct{}, len(q.Aliases))
		for _, a := range q.Aliases {
			if _, dup := seen[a.ID]; dup {
				return Fail(q, "alias id %d is used more than once", a.ID)
			}
			seen[a.ID] = struct{}{}
		}
	}
	return Pass()
}

func scenePhaseRanges(pkg *record.Package) Outcome {
	for _, s := range pkg.Scenes() {
		if len(s.Phases) == 0 {
			return Fail(s, "scene has no phases")
		}
		last := len(s.Phases) - 1
		for _, a := range s.Actions {
			if a.StartPhase < 0 || a.EndPhase > last || a.StartPhase > a.EndPhase {
				return Fail(s, "action %d phase range [%d, %d] is outside phases [0, %d]", a.Index, a.StartPhase, a.EndPhase, last)
			}
		}
	}
	return Pass()
}

func sceneStageTargets(pkg *record.Package) Outcome {
	for _, s := range pkg.Scenes() {
		rec, ok := pkg.Registry.Get(s.Quest)
		q, isQuest := rec.(*record.Quest)
		if !ok || !isQuest {
			return Fail(s, "scene must belong to a quest of the package, found %s", s.Quest)
		}
		for _, p := range s.Phases {
			if p.CompleteStage == record.NoStage {
				continue
			}
			if _, ok := q.Stage(p.CompleteStage); !ok {
				return Fail(s, "phase %s completes stage %d which quest %s does not define", p.Name, p.CompleteStage, q.EditorID())
			}
		}
	}
	return Pass()
}

func scriptBindings(pkg *record.Package) Outcome {
	for _, rec := range pkg.Owned() {
		var binding *record.ScriptBinding
		switch r := rec.(type) {
		case *record.Quest:
			binding = r.Script
		case *record.Actor:
			binding = r.Script
		}
		if binding == nil {
			continue
		}
		if missing := binding.Missing(); len(missing) > 0 {
			return Fail(rec, "script %s is missing required property %s", binding.Schema.Script, missing[0])
		}
	}
	return Pass()
}

func referentialIntegrity(pkg *record.Package) Outcome {
	for _, rec := range pkg.Registry.Records() {
		for _, ref := range rec.Refs() {
			if !pkg.Registry.Has(ref.Target) {
				return Fail(rec, "%s points at %s which is not registered", ref.Field, ref.Target)
			}
		}
	}
	return Pass()
}
