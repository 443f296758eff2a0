package builder

import (
	"strings"

	"companionforge/internal/formid"
	"companionforge/internal/record"
)

// Priorities and categories the engine expects per topic role.
const (
	GreetingPriority = 50
	ScenePriority    = 50
)

// GroupSpec holds the inputs of a response group. Scene triggers are wired
// by the linker.
type GroupSpec struct {
	ID         formid.ID
	EditorID   string
	Responses  []string
	Prompt     string
	Conditions []record.Condition
	Flags      record.ResponseFlag
}

// ResponseGroup builds one response group.
func ResponseGroup(spec GroupSpec) (*record.ResponseGroup, error) {
	if spec.ID.IsZero() {
		return nil, invalid(record.KindResponseGroup, spec.EditorID, "identifier is required")
	}
	g := &record.ResponseGroup{
		Header:     record.Header{FormID: spec.ID, Editor: strings.TrimSpace(spec.EditorID)},
		Prompt:     spec.Prompt,
		Conditions: append([]record.Condition(nil), spec.Conditions...),
		Flags:      spec.Flags,
	}
	for _, line := range spec.Responses {
		if strings.TrimSpace(line) == "" {
			continue
		}
		g.Responses = append(g.Responses, line)
	}
	if len(g.Responses) == 0 {
		return nil, invalid(record.KindResponseGroup, spec.ID.String(), "response text is required")
	}
	return g, nil
}

// TopicSpec holds the inputs of a topic. The owning quest is attached by
// the linker.
type TopicSpec struct {
	EditorID string
	Role     record.TopicRole
	Category record.Category
	Subtype  record.Subtype
	Priority int
	Groups   []GroupSpec
}

// Topic builds a topic with its response groups in input order.
func Topic(id formid.ID, spec TopicSpec) (*record.Topic, error) {
	h, err := header(record.KindTopic, id, spec.EditorID)
	if err != nil {
		return nil, err
	}
	if len(spec.Groups) == 0 {
		return nil, invalid(record.KindTopic, h.Editor, "at least one response group is required")
	}
	t := &record.Topic{
		Header:   h,
		Role:     spec.Role,
		Category: spec.Category,
		Subtype:  spec.Subtype,
		Priority: spec.Priority,
	}
	for _, gs := range spec.Groups {
		g, err := ResponseGroup(gs)
		if err != nil {
			return nil, err
		}
		t.Groups = append(t.Groups, g)
	}
	return t, nil
}

// SceneLine returns the spec of a single-line scene topic.
func SceneLine(editorID string, group formid.ID, text string) TopicSpec {
	return TopicSpec{
		EditorID: editorID,
		Role:     record.RoleScene,
		Category: record.CategoryScene,
		Subtype:  record.SubtypeScene,
		Priority: ScenePriority,
		Groups:   []GroupSpec{{ID: group, Responses: []string{text}}},
	}
}

// Greeting returns the spec of a greeting topic with the expected category,
// subtype and priority.
func Greeting(editorID string, groups []GroupSpec) TopicSpec {
	return TopicSpec{
		EditorID: editorID,
		Role:     record.RoleGreeting,
		Category: record.CategoryMisc,
		Subtype:  record.SubtypeGreeting,
		Priority: GreetingPriority,
		Groups:   groups,
	}
}
