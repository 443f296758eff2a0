package builder

import (
	"companionforge/internal/formid"
	"companionforge/internal/record"
)

// ActorSpec holds the resolved inputs of an actor. Zero optional ids are
// omitted from the record.
type ActorSpec struct {
	EditorID    string
	Name        string
	Race        formid.ID
	Voice       formid.ID
	Flags       record.ActorFlag
	Class       formid.ID
	CombatStyle formid.ID
	HeadParts   []formid.ID
	Factions    []record.FactionRank
	Properties  []record.PropertyOverride
}

// Actor builds the companion base record.
func Actor(id formid.ID, spec ActorSpec) (*record.Actor, error) {
	h, err := header(record.KindActor, id, spec.EditorID)
	if err != nil {
		return nil, err
	}
	if spec.Race.IsZero() {
		return nil, invalid(record.KindActor, h.Editor, "race is required")
	}
	if spec.Voice.IsZero() {
		return nil, invalid(record.KindActor, h.Editor, "voice type is required")
	}

	a := &record.Actor{
		Header:      h,
		Name:        spec.Name,
		Race:        spec.Race,
		Voice:       spec.Voice,
		Flags:       spec.Flags,
		Class:       spec.Class,
		CombatStyle: spec.CombatStyle,
	}
	for _, hp := range spec.HeadParts {
		if !hp.IsZero() {
			a.HeadParts = append(a.HeadParts, hp)
		}
	}
	seen := make(map[formid.ID]struct{}, len(spec.Factions))
	for _, f := range spec.Factions {
		if f.Faction.IsZero() {
			return nil, invalid(record.KindActor, h.Editor, "faction membership without faction")
		}
		if _, dup := seen[f.Faction]; dup {
			return nil, invalid(record.KindActor, h.Editor, "faction %s listed twice", f.Faction)
		}
		seen[f.Faction] = struct{}{}
		a.Factions = append(a.Factions, f)
	}
	for _, p := range spec.Properties {
		if p.ActorValue.IsZero() {
			return nil, invalid(record.KindActor, h.Editor, "property override without actor value")
		}
		a.Properties = append(a.Properties, p)
	}
	return a, nil
}
