package record

import (
	"fmt"

	"companionforge/internal/formid"
)

// TopicRole is what a topic is for within the package.
type TopicRole int

const (
	RoleConversation TopicRole = iota
	RoleGreeting
	RoleScene
)

func (r TopicRole) String() string {
	switch r {
	case RoleGreeting:
		return "greeting"
	case RoleScene:
		return "scene"
	default:
		return "conversation"
	}
}

// Category is the engine's dialogue topic category.
type Category int

const (
	CategoryTopic Category = iota
	CategoryFavor
	CategoryScene
	CategoryCombat
	CategoryFavors
	CategoryDetection
	CategoryService
	CategoryMisc
)

var categoryNames = []string{"Topic", "Favor", "Scene", "Combat", "Favors", "Detection", "Service", "Misc"}

func (c Category) String() string {
	if int(c) >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Subtype is the engine's dialogue topic subtype.
type Subtype int

const (
	SubtypeCustom Subtype = iota
	SubtypeScene
	SubtypeGreeting
)

func (s Subtype) String() string {
	switch s {
	case SubtypeCustom:
		return "Custom"
	case SubtypeScene:
		return "Scene"
	case SubtypeGreeting:
		return "Greeting"
	default:
		return fmt.Sprintf("Subtype(%d)", int(s))
	}
}

// Code returns the four-letter subtype name written alongside the subtype.
func (s Subtype) Code() string {
	switch s {
	case SubtypeScene:
		return "SCEN"
	case SubtypeGreeting:
		return "GREE"
	default:
		return "CUST"
	}
}

// ResponseFlag is the response group bit set.
type ResponseFlag uint32

const (
	ResponseStartSceneOnEnd ResponseFlag = 1 << 2
)

// ResponseGroup is one response entry of a topic.
type ResponseGroup struct {
	Header
	Responses  []string
	Prompt     string
	Conditions []Condition
	Flags      ResponseFlag
	StartScene formid.ID
	StartPhase string
}

func (g *ResponseGroup) Kind() Kind { return KindResponseGroup }

func (g *ResponseGroup) Refs() []Ref {
	var l refList
	conditionRefs(&l, "conditions", g.Conditions)
	l.add("start_scene", g.StartScene)
	return l
}

// Topic is a dialogue topic owned by a quest.
type Topic struct {
	Header
	Role     TopicRole
	Category Category
	Subtype  Subtype
	Priority int
	Quest    formid.ID
	Branch   formid.ID
	Groups   []*ResponseGroup
}

func (t *Topic) Kind() Kind { return KindTopic }

func (t *Topic) Refs() []Ref {
	var l refList
	l.add("quest", t.Quest)
	l.add("branch", t.Branch)
	for _, g := range t.Groups {
		for _, r := range g.Refs() {
			l = append(l, Ref{Field: fmt.Sprintf("groups[%s].%s", g.FormID, r.Field), Target: r.Target})
		}
	}
	return l
}

func (t *Topic) Children() []Record {
	out := make([]Record, 0, len(t.Groups))
	for _, g := range t.Groups {
		out = append(out, g)
	}
	return out
}
