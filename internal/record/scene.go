package record

import (
	"fmt"

	"companionforge/internal/formid"
)

// NoStage marks a phase that does not move the owning quest.
const NoStage = -1

// Phase is one ordered step of a scene. CompleteStage is the quest stage set
// when the phase ends, or NoStage.
type Phase struct {
	Name          string
	CompleteStage int
}

// SceneActorFlag controls how a participant ends or pauses the scene.
type SceneActorFlag uint32

const (
	SceneActorDeathEnd      SceneActorFlag = 1 << 1
	SceneActorCombatEnd     SceneActorFlag = 1 << 2
	SceneActorDialoguePause SceneActorFlag = 1 << 3
)

// SceneActor is a participant, referenced by quest alias id.
type SceneActor struct {
	Alias int
	Flags SceneActorFlag
}

// Speaker is who delivers a response slot.
type Speaker int

const (
	SpeakerPlayer Speaker = iota
	SpeakerNPC
)

func (s Speaker) String() string {
	if s == SpeakerPlayer {
		return "player"
	}
	return "npc"
}

// Sentiment is the tone of a response slot.
type Sentiment int

const (
	SentimentPositive Sentiment = iota
	SentimentNegative
	SentimentNeutral
	SentimentQuestion
)

func (s Sentiment) String() string {
	switch s {
	case SentimentPositive:
		return "positive"
	case SentimentNegative:
		return "negative"
	case SentimentNeutral:
		return "neutral"
	default:
		return "question"
	}
}

// Sentiments lists every sentiment in slot order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral, SentimentQuestion}

// SlotCount is the number of response slots of a dialogue action.
const SlotCount = 8

// Slot returns the response slot index for speaker and sentiment.
func Slot(speaker Speaker, sentiment Sentiment) int {
	return int(speaker)*len(Sentiments) + int(sentiment)
}

// ActionFlag controls camera and head tracking during a dialogue action.
type ActionFlag uint32

const (
	ActionFaceTarget          ActionFlag = 1 << 15
	ActionHeadtrackPlayer     ActionFlag = 1 << 17
	ActionCameraSpeakerTarget ActionFlag = 1 << 21
)

// Action is a player-dialogue action spanning [StartPhase, EndPhase].
// Responses holds one topic per slot; see Slot.
type Action struct {
	Index      int
	Alias      int
	StartPhase int
	EndPhase   int
	Flags      ActionFlag
	Responses  [SlotCount]formid.ID
}

// Scene is an ordered set of phases with dialogue actions.
type Scene struct {
	Header
	Quest   formid.ID
	Flags   uint32
	Phases  []Phase
	Actors  []SceneActor
	Actions []Action
}

func (s *Scene) Kind() Kind { return KindScene }

// PhaseIndex returns the position of the named phase.
func (s *Scene) PhaseIndex(name string) (int, bool) {
	for i, p := range s.Phases {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}

func (s *Scene) Refs() []Ref {
	var l refList
	l.add("quest", s.Quest)
	for _, a := range s.Actions {
		for slot, id := range a.Responses {
			speaker := Speaker(slot / len(Sentiments))
			sentiment := Sentiments[slot%len(Sentiments)]
			l.add(fmt.Sprintf("actions[%d].%s_%s", a.Index, speaker, sentiment), id)
		}
	}
	return l
}
