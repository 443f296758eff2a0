package linker

import (
	"fmt"

	"companionforge/internal/faults"
	"companionforge/internal/formid"
	"companionforge/internal/record"
)

// Linker wires relationships between records of one registry.
type Linker struct {
	reg *record.Registry
}

// New returns a linker over reg.
func New(reg *record.Registry) *Linker {
	return &Linker{reg: reg}
}

func dangling(relation string, id formid.ID) error {
	return faults.Wrap(faults.ErrDanglingReference, "link", relation,
		fmt.Sprintf("%s is not registered", id), nil)
}

func mismatch(relation string, rec record.Record, want record.Kind) error {
	return faults.Wrap(faults.ErrConstruction, "link", relation,
		fmt.Sprintf("%s (%s) is a %s, expected %s", rec.EditorID(), rec.ID(), rec.Kind(), want), nil)
}

// lookup returns the registered record of type T with id.
func lookup[T record.Record](l *Linker, relation string, id formid.ID, want record.Kind) (T, error) {
	var zero T
	rec, ok := l.reg.Get(id)
	if !ok {
		return zero, dangling(relation, id)
	}
	typed, ok := rec.(T)
	if !ok {
		return zero, mismatch(relation, rec, want)
	}
	return typed, nil
}

// target checks that id is registered, whatever its kind.
func (l *Linker) target(relation string, id formid.ID) error {
	if !l.reg.Has(id) {
		return dangling(relation, id)
	}
	return nil
}

func (l *Linker) writable() error {
	if l.reg.Sealed() {
		return record.ErrSealed
	}
	return nil
}

// QuestOwnsScene appends scene to the quest's scene list.
func (l *Linker) QuestOwnsScene(quest, scene formid.ID) error {
	if err := l.writable(); err != nil {
		return err
	}
	q, err := lookup[*record.Quest](l, "quest owns scene", quest, record.KindQuest)
	if err != nil {
		return err
	}
	if _, err := lookup[*record.Scene](l, "quest owns scene", scene, record.KindScene); err != nil {
		return err
	}
	q.Scenes = appendOnce(q.Scenes, scene)
	return nil
}

// QuestOwnsTopic appends topic to the quest's topic list.
func (l *Linker) QuestOwnsTopic(quest, topic formid.ID) error {
	if err := l.writable(); err != nil {
		return err
	}
	q, err := lookup[*record.Quest](l, "quest owns topic", quest, record.KindQuest)
	if err != nil {
		return err
	}
	if _, err := lookup[*record.Topic](l, "quest owns topic", topic, record.KindTopic); err != nil {
		return err
	}
	q.Topics = appendOnce(q.Topics, topic)
	return nil
}

// SceneBelongsTo sets the owning quest of scene.
func (l *Linker) SceneBelongsTo(scene, quest formid.ID) error {
	if err := l.writable(); err != nil {
		return err
	}
	s, err := lookup[*record.Scene](l, "scene belongs to", scene, record.KindScene)
	if err != nil {
		return err
	}
	if _, err := lookup[*record.Quest](l, "scene belongs to", quest, record.KindQuest); err != nil {
		return err
	}
	s.Quest = quest
	return nil
}

// TopicBelongsTo sets the owning quest of topic.
func (l *Linker) TopicBelongsTo(topic, quest formid.ID) error {
	if err := l.writable(); err != nil {
		return err
	}
	t, err := lookup[*record.Topic](l, "topic belongs to", topic, record.KindTopic)
	if err != nil {
		return err
	}
	if _, err := lookup[*record.Quest](l, "topic belongs to", quest, record.KindQuest); err != nil {
		return err
	}
	t.Quest = quest
	return nil
}

// AliasBindsActor binds actor into the alias of quest.
func (l *Linker) AliasBindsActor(quest formid.ID, alias int, actor formid.ID) error {
	if err := l.writable(); err != nil {
		return err
	}
	q, err := lookup[*record.Quest](l, "alias binds actor", quest, record.KindQuest)
	if err != nil {
		return err
	}
	if _, err := lookup[*record.Actor](l, "alias binds actor", actor, record.KindActor); err != nil {
		return err
	}
	for i := range q.Aliases {
		if q.Aliases[i].ID == alias {
			q.Aliases[i].Actor = actor
			return nil
		}
	}
	return faults.Wrap(faults.ErrDanglingReference, "link", "alias binds actor",
		fmt.Sprintf("quest %s has no alias %d", q.EditorID(), alias), nil)
}

// ResponseStartsScene makes group start scene, optionally at the named phase.
func (l *Linker) ResponseStartsScene(group, scene formid.ID, phase string) error {
	if err := l.writable(); err != nil {
		return err
	}
	g, err := lookup[*record.ResponseGroup](l, "response starts scene", group, record.KindResponseGroup)
	if err != nil {
		return err
	}
	s, err := lookup[*record.Scene](l, "response starts scene", scene, record.KindScene)
	if err != nil {
		return err
	}
	if phase != "" {
		if _, ok := s.PhaseIndex(phase); !ok {
			return faults.Wrap(faults.ErrDanglingReference, "link", "response starts scene",
				fmt.Sprintf("scene %s has no phase %q", s.EditorID(), phase), nil)
		}
	}
	g.StartScene = scene
	g.StartPhase = phase
	return nil
}

// ActionSpeaks fills one response slot of a scene action with topic.
func (l *Linker) ActionSpeaks(scene formid.ID, action int, speaker record.Speaker, sentiment record.Sentiment, topic formid.ID) error {
	if err := l.writable(); err != nil {
		return err
	}
	s, err := lookup[*record.Scene](l, "action speaks", scene, record.KindScene)
	if err != nil {
		return err
	}
	if _, err := lookup[*record.Topic](l, "action speaks", topic, record.KindTopic); err != nil {
		return err
	}
	for i := range s.Actions {
		if s.Actions[i].Index == action {
			s.Actions[i].Responses[record.Slot(speaker, sentiment)] = topic
			return nil
		}
	}
	return faults.Wrap(faults.ErrDanglingReference, "link", "action speaks",
		fmt.Sprintf("scene %s has no action %d", s.EditorID(), action), nil)
}

// BindScript attaches binding to owner, an actor or a quest. Every bound
// target must be registered; alias targets must name an alias of their
// quest.
func (l *Linker) BindScript(owner formid.ID, binding *record.ScriptBinding) error {
	if err := l.writable(); err != nil {
		return err
	}
	rec, ok := l.reg.Get(owner)
	if !ok {
		return dangling("bind script", owner)
	}
	for _, e := range binding.Entries {
		relation := "bind script " + string(e.Key)
		if e.Target.Alias == record.NoAlias {
			if err := l.target(relation, e.Target.Record); err != nil {
				return err
			}
			continue
		}
		q, err := lookup[*record.Quest](l, relation, e.Target.Record, record.KindQuest)
		if err != nil {
			return err
		}
		if _, ok := q.Alias(e.Target.Alias); !ok {
			return faults.Wrap(faults.ErrDanglingReference, "link", relation,
				fmt.Sprintf("quest %s has no alias %d", q.EditorID(), e.Target.Alias), nil)
		}
	}
	switch owner := rec.(type) {
	case *record.Quest:
		owner.Script = binding
	case *record.Actor:
		owner.Script = binding
	default:
		return mismatch("bind script", rec, record.KindActor)
	}
	return nil
}

func appendOnce(ids []formid.ID, id formid.ID) []formid.ID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
