package record

import (
	"fmt"

	"companionforge/internal/formid"
)

// ActorFlag is the actor configuration bit set.
type ActorFlag uint32

const (
	ActorFemale        ActorFlag = 1 << 0
	ActorEssential     ActorFlag = 1 << 1
	ActorAutoCalcStats ActorFlag = 1 << 4
	ActorUnique        ActorFlag = 1 << 5
)

// Has reports whether every bit of flag is set.
func (f ActorFlag) Has(flag ActorFlag) bool { return f&flag == flag }

// FactionRank places an actor in a faction at a rank; -1 means a member
// that is currently not counted.
type FactionRank struct {
	Faction formid.ID
	Rank    int8
}

// PropertyOverride overrides an actor value on the base record.
type PropertyOverride struct {
	ActorValue formid.ID
	Value      float32
}

// Actor is a non-player character base record.
type Actor struct {
	Header
	Name        string
	Race        formid.ID
	Voice       formid.ID
	Flags       ActorFlag
	Class       formid.ID
	CombatStyle formid.ID
	HeadParts   []formid.ID
	Factions    []FactionRank
	Properties  []PropertyOverride
	Script      *ScriptBinding
}

func (a *Actor) Kind() Kind { return KindActor }

func (a *Actor) Refs() []Ref {
	var l refList
	l.add("race", a.Race)
	l.add("voice", a.Voice)
	l.add("class", a.Class)
	l.add("combat_style", a.CombatStyle)
	for i, hp := range a.HeadParts {
		l.add(fmt.Sprintf("head_parts[%d]", i), hp)
	}
	for i, f := range a.Factions {
		l.add(fmt.Sprintf("factions[%d]", i), f.Faction)
	}
	for i, p := range a.Properties {
		l.add(fmt.Sprintf("properties[%d]", i), p.ActorValue)
	}
	bindingRefs(&l, a.Script)
	return l
}
