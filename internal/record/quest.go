package record

import (
	"fmt"
	"strings"

	"companionforge/internal/formid"
)

// QuestFlag is the quest behaviour bit set.
type QuestFlag uint32

const (
	QuestStartGameEnabled    QuestFlag = 1 << 0
	QuestAllowRepeatedStages QuestFlag = 1 << 3
	QuestStartEnabled        QuestFlag = 1 << 4
	QuestRunOnce             QuestFlag = 1 << 8
	QuestAddIdleTopicToHello QuestFlag = 1 << 13
)

var questFlagNames = []struct {
	flag QuestFlag
	name string
}{
	{QuestStartGameEnabled, "StartGameEnabled"},
	{QuestAllowRepeatedStages, "AllowRepeatedStages"},
	{QuestStartEnabled, "StartEnabled"},
	{QuestRunOnce, "RunOnce"},
	{QuestAddIdleTopicToHello, "AddIdleTopicToHello"},
}

// Has reports whether every bit of flag is set.
func (f QuestFlag) Has(flag QuestFlag) bool { return f&flag == flag }

// String lists the set flags joined by "|", or "none".
func (f QuestFlag) String() string {
	var parts []string
	rest := f
	for _, n := range questFlagNames {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%X", uint32(rest)))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseQuestFlag maps a flag name to its bit.
func ParseQuestFlag(name string) (QuestFlag, error) {
	for _, n := range questFlagNames {
		if strings.EqualFold(n.name, strings.TrimSpace(name)) {
			return n.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown quest flag %q", name)
}

// AliasFlag is the reference-alias bit set.
type AliasFlag uint32

const (
	AliasOptional            AliasFlag = 1 << 1
	AliasQuestObject         AliasFlag = 1 << 2
	AliasAllowDead           AliasFlag = 1 << 3
	AliasAllowDisabled       AliasFlag = 1 << 6
	AliasExternalAliasLinked AliasFlag = 1 << 11
)

var aliasFlagNames = []struct {
	flag AliasFlag
	name string
}{
	{AliasOptional, "Optional"},
	{AliasQuestObject, "QuestObject"},
	{AliasAllowDead, "AllowDead"},
	{AliasAllowDisabled, "AllowDisabled"},
	{AliasExternalAliasLinked, "ExternalAliasLinked"},
}

// ParseAliasFlag maps a flag name to its bit.
func ParseAliasFlag(name string) (AliasFlag, error) {
	for _, n := range aliasFlagNames {
		if strings.EqualFold(n.name, strings.TrimSpace(name)) {
			return n.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown alias flag %q", name)
}

// LogEntry is one journal note attached to a stage.
type LogEntry struct {
	Note       string
	Conditions []Condition
}

// Stage is a quest checkpoint.
type Stage struct {
	Index      int
	LogEntries []LogEntry
}

// Alias is a numbered slot of a quest. Actor is zero when the slot is filled
// externally at runtime.
type Alias struct {
	ID    int
	Name  string
	Actor formid.ID
	Flags AliasFlag
}

// External reports whether the alias is filled at runtime.
func (a Alias) External() bool { return a.Actor.IsZero() }

// Quest is the root of the quest-owned sub-graph.
type Quest struct {
	Header
	Name       string
	Priority   int
	Flags      QuestFlag
	Stages     []Stage
	Aliases    []Alias
	Scenes     []formid.ID
	Topics     []formid.ID
	Conditions []Condition
	Script     *ScriptBinding
}

func (q *Quest) Kind() Kind { return KindQuest }

// Stage returns the stage with index.
func (q *Quest) Stage(index int) (Stage, bool) {
	for _, s := range q.Stages {
		if s.Index == index {
			return s, true
		}
	}
	return Stage{}, false
}

// Alias returns the alias with id.
func (q *Quest) Alias(id int) (Alias, bool) {
	for _, a := range q.Aliases {
		if a.ID == id {
			return a, true
		}
	}
	return Alias{}, false
}

func (q *Quest) Refs() []Ref {
	var l refList
	for _, a := range q.Aliases {
		l.add(fmt.Sprintf("aliases[%d].actor", a.ID), a.Actor)
	}
	for i, id := range q.Scenes {
		l.add(fmt.Sprintf("scenes[%d]", i), id)
	}
	for i, id := range q.Topics {
		l.add(fmt.Sprintf("topics[%d]", i), id)
	}
	conditionRefs(&l, "conditions", q.Conditions)
	for _, s := range q.Stages {
		for j, e := range s.LogEntries {
			conditionRefs(&l, fmt.Sprintf("stages[%d].log[%d].conditions", s.Index, j), e.Conditions)
		}
	}
	bindingRefs(&l, q.Script)
	return l
}
