package builder

import (
	"strings"

	"companionforge/internal/formid"
	"companionforge/internal/record"
)

// ActionSpec is a player dialogue action. Phases are named; response
// topics are wired by the linker.
type ActionSpec struct {
	Alias      int
	StartPhase string
	EndPhase   string
	Flags      record.ActionFlag
}

// SceneSpec holds the inputs of a scene.
type SceneSpec struct {
	EditorID string
	Flags    uint32
	Phases   []record.Phase
	Actors   []record.SceneActor
	Actions  []ActionSpec
}

// Scene builds a scene. Actions are numbered from 1 in input order.
func Scene(id formid.ID, spec SceneSpec) (*record.Scene, error) {
	h, err := header(record.KindScene, id, spec.EditorID)
	if err != nil {
		return nil, err
	}
	if len(spec.Phases) == 0 {
		return nil, invalid(record.KindScene, h.Editor, "at least one phase is required")
	}
	s := &record.Scene{Header: h, Flags: spec.Flags}

	names := make(map[string]struct{}, len(spec.Phases))
	for i, p := range spec.Phases {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, invalid(record.KindScene, h.Editor, "phase %d has no name", i)
		}
		if _, dup := names[name]; dup {
			return nil, invalid(record.KindScene, h.Editor, "phase %q is declared twice", name)
		}
		names[name] = struct{}{}
		s.Phases = append(s.Phases, record.Phase{Name: name, CompleteStage: p.CompleteStage})
	}

	actors := make(map[int]struct{}, len(spec.Actors))
	for _, a := range spec.Actors {
		if _, dup := actors[a.Alias]; dup {
			return nil, invalid(record.KindScene, h.Editor, "alias %d participates twice", a.Alias)
		}
		actors[a.Alias] = struct{}{}
		s.Actors = append(s.Actors, a)
	}

	for i, a := range spec.Actions {
		start, ok := s.PhaseIndex(a.StartPhase)
		if !ok {
			return nil, invalid(record.KindScene, h.Editor, "action %d starts in unknown phase %q", i+1, a.StartPhase)
		}
		end, ok := s.PhaseIndex(a.EndPhase)
		if !ok {
			return nil, invalid(record.KindScene, h.Editor, "action %d ends in unknown phase %q", i+1, a.EndPhase)
		}
		if end < start {
			return nil, invalid(record.KindScene, h.Editor, "action %d ends before it starts", i+1)
		}
		if _, ok := actors[a.Alias]; !ok {
			return nil, invalid(record.KindScene, h.Editor, "action %d is spoken by alias %d which is not a scene actor", i+1, a.Alias)
		}
		s.Actions = append(s.Actions, record.Action{
			Index:      i + 1,
			Alias:      a.Alias,
			StartPhase: start,
			EndPhase:   end,
			Flags:      a.Flags,
		})
	}
	return s, nil
}
