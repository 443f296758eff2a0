package record

import (
	"fmt"
	"strings"
)

// Kind enumerates record variants, both package-owned and catalog-resolved.
type Kind int

const (
	KindUnknown Kind = iota
	KindActor
	KindLocation
	KindCell
	KindPlaced
	KindQuest
	KindScene
	KindTopic
	KindResponseGroup
	KindExternal

	KindRace
	KindVoiceType
	KindHeadPart
	KindFaction
	KindActorValue
	KindGlobal
	KindKeyword
	KindPerk
	KindMessage
	KindClass
	KindCombatStyle
	KindStatic
)

type kindInfo struct {
	name      string
	signature string
}

var kinds = map[Kind]kindInfo{
	KindActor:         {"actor", "NPC_"},
	KindLocation:      {"location", "LCTN"},
	KindCell:          {"cell", "CELL"},
	KindPlaced:        {"placed", "REFR"},
	KindQuest:         {"quest", "QUST"},
	KindScene:         {"scene", "SCEN"},
	KindTopic:         {"topic", "DIAL"},
	KindResponseGroup: {"response_group", "INFO"},
	KindExternal:      {"external", "EXTR"},
	KindRace:          {"race", "RACE"},
	KindVoiceType:     {"voice_type", "VTYP"},
	KindHeadPart:      {"head_part", "HDPT"},
	KindFaction:       {"faction", "FACT"},
	KindActorValue:    {"actor_value", "AVIF"},
	KindGlobal:        {"global", "GLOB"},
	KindKeyword:       {"keyword", "KYWD"},
	KindPerk:          {"perk", "PERK"},
	KindMessage:       {"message", "MESG"},
	KindClass:         {"class", "CLAS"},
	KindCombatStyle:   {"combat_style", "CSTY"},
	KindStatic:        {"static", "STAT"},
}

// String returns the lowercase kind name used in the catalog and logs.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "unknown"
}

// Signature returns the four-character record type written by the emitter.
func (k Kind) Signature() string {
	if info, ok := kinds[k]; ok {
		return info.signature
	}
	return "????"
}

// ParseKind maps a kind name or signature back to its Kind.
func ParseKind(value string) (Kind, error) {
	trimmed := strings.TrimSpace(value)
	lower := strings.ToLower(trimmed)
	for kind, info := range kinds {
		if info.name == lower || info.signature == strings.ToUpper(trimmed) {
			return kind, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown record kind %q", value)
}
