package builder

import (
	"sort"
	"strings"

	"companionforge/internal/formid"
	"companionforge/internal/record"
)

// StageSpec is one quest stage with its journal notes.
type StageSpec struct {
	Index int
	Notes []string
}

// AliasSpec is one quest alias. A zero Actor leaves the alias to be filled
// at runtime or bound later by the linker.
type AliasSpec struct {
	ID    int
	Name  string
	Actor formid.ID
	Flags record.AliasFlag
}

// QuestSpec holds the inputs of a quest. Scenes, topics and the script
// binding are attached by the linker.
type QuestSpec struct {
	EditorID   string
	Name       string
	Priority   int
	Flags      record.QuestFlag
	Stages     []StageSpec
	Aliases    []AliasSpec
	Conditions []record.Condition
}

// Quest builds a quest. Stages are ordered by index and aliases by id.
func Quest(id formid.ID, spec QuestSpec) (*record.Quest, error) {
	h, err := header(record.KindQuest, id, spec.EditorID)
	if err != nil {
		return nil, err
	}
	q := &record.Quest{
		Header:     h,
		Name:       spec.Name,
		Priority:   spec.Priority,
		Flags:      spec.Flags,
		Conditions: append([]record.Condition(nil), spec.Conditions...),
	}

	indices := make(map[int]struct{}, len(spec.Stages))
	for _, s := range spec.Stages {
		if _, dup := indices[s.Index]; dup {
			return nil, invalid(record.KindQuest, h.Editor, "stage index %d is used twice", s.Index)
		}
		if s.Index < 0 {
			return nil, invalid(record.KindQuest, h.Editor, "stage index %d is negative", s.Index)
		}
		indices[s.Index] = struct{}{}
		stage := record.Stage{Index: s.Index}
		for _, note := range s.Notes {
			stage.LogEntries = append(stage.LogEntries, record.LogEntry{Note: note})
		}
		q.Stages = append(q.Stages, stage)
	}
	sort.SliceStable(q.Stages, func(i, j int) bool { return q.Stages[i].Index < q.Stages[j].Index })

	ids := make(map[int]struct{}, len(spec.Aliases))
	for _, a := range spec.Aliases {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, invalid(record.KindQuest, h.Editor, "alias %d has no name", a.ID)
		}
		if a.ID < 0 {
			return nil, invalid(record.KindQuest, h.Editor, "alias %q has negative id %d", name, a.ID)
		}
		if _, dup := ids[a.ID]; dup {
			return nil, invalid(record.KindQuest, h.Editor, "alias id %d is used twice", a.ID)
		}
		ids[a.ID] = struct{}{}
		q.Aliases = append(q.Aliases, record.Alias{ID: a.ID, Name: name, Actor: a.Actor, Flags: a.Flags})
	}
	sort.SliceStable(q.Aliases, func(i, j int) bool { return q.Aliases[i].ID < q.Aliases[j].ID })

	for _, c := range q.Conditions {
		if c.Function == record.FuncGetIsAliasRef {
			if _, ok := ids[c.Param]; !ok {
				return nil, invalid(record.KindQuest, h.Editor, "condition %s names an unknown alias", c)
			}
		}
	}
	return q, nil
}
