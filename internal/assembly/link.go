package assembly

import (
	"context"
	"fmt"

	"companionforge/internal/content"
	"companionforge/internal/faults"
	"companionforge/internal/logging"
	"companionforge/internal/papyrus"
	"companionforge/internal/record"
)

func (p *pass) bind(ctx context.Context) error {
	if err := p.linkQuest(); err != nil {
		return err
	}
	if err := p.linkScenes(); err != nil {
		return err
	}
	if err := p.linkGreeting(); err != nil {
		return err
	}
	if err := p.bindQuestScript(); err != nil {
		return err
	}
	if err := p.bindActorScript(); err != nil {
		return err
	}
	p.log(ctx).Info("records linked",
		logging.String(logging.FieldRecord, p.quest.EditorID()),
		logging.Int("scenes", len(p.quest.Scenes)),
		logging.Int("topics", len(p.quest.Topics)),
	)
	return nil
}

func (p *pass) linkQuest() error {
	quest := p.quest.ID()
	for _, a := range p.m.Quest.Aliases {
		if !a.Actor {
			continue
		}
		if err := p.link.AliasBindsActor(quest, a.ID, p.actor.ID()); err != nil {
			return err
		}
	}
	if err := p.link.TopicBelongsTo(p.greeting.ID(), quest); err != nil {
		return err
	}
	if err := p.link.QuestOwnsTopic(quest, p.greeting.ID()); err != nil {
		return err
	}
	for _, t := range p.m.Topics {
		id := p.topics[t.EditorID].ID()
		if err := p.link.TopicBelongsTo(id, quest); err != nil {
			return err
		}
		if err := p.link.QuestOwnsTopic(quest, id); err != nil {
			return err
		}
	}
	for _, s := range p.m.Scenes {
		id := p.scenes[s.EditorID].ID()
		if err := p.link.SceneBelongsTo(id, quest); err != nil {
			return err
		}
		if err := p.link.QuestOwnsScene(quest, id); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) linkScenes() error {
	for _, s := range p.m.Scenes {
		scene := p.scenes[s.EditorID]
		for i, a := range s.Actions {
			index := i + 1
			for _, side := range []struct {
				speaker record.Speaker
				set     content.ResponseSet
			}{
				{record.SpeakerPlayer, a.Player},
				{record.SpeakerNPC, a.NPC},
			} {
				names := []string{side.set.Positive, side.set.Negative, side.set.Neutral, side.set.Question}
				for j, sentiment := range record.Sentiments {
					topic, err := p.topicID(s.EditorID, names[j])
					if err != nil {
						return err
					}
					if topic.IsZero() {
						continue
					}
					if err := p.link.ActionSpeaks(scene.ID(), index, side.speaker, sentiment, topic); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (p *pass) linkGreeting() error {
	for i, r := range p.m.Greeting.Responses {
		if r.StartScene == "" {
			continue
		}
		scene, ok := p.scenes[r.StartScene]
		if !ok {
			return faults.Wrap(faults.ErrDanglingReference, "link", p.greeting.EditorID(),
				fmt.Sprintf("response %d starts unknown scene %q", i, r.StartScene), nil)
		}
		if err := p.link.ResponseStartsScene(p.plan.groups[i], scene.ID(), r.StartPhase); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) bindQuestScript() error {
	qs := p.m.QuestScript
	if len(qs.Properties) == 0 && len(qs.Fragments) == 0 {
		return nil
	}
	schema := record.BindingSchema{Script: papyrus.ScriptName(p.quest.EditorID(), p.quest.ID())}
	binding, err := p.binding(schema, qs.Properties)
	if err != nil {
		return err
	}
	for _, f := range qs.Fragments {
		if _, ok := p.quest.Stage(f.Stage); !ok {
			return faults.Wrap(faults.ErrDanglingReference, "link", schema.Script,
				fmt.Sprintf("fragment targets undefined stage %d", f.Stage), nil)
		}
		binding.Fragments = append(binding.Fragments, record.Fragment{
			Stage: f.Stage,
			Name:  papyrus.FragmentName(f.Stage),
			Code:  f.Code,
		})
	}
	return p.link.BindScript(p.quest.ID(), binding)
}

func (p *pass) bindActorScript() error {
	as := p.m.ActorScript
	if as.Script == "" {
		return nil
	}
	binding, err := p.binding(record.BindingSchema{Script: as.Script}, as.Properties)
	if err != nil {
		return err
	}
	return p.link.BindScript(p.actor.ID(), binding)
}

// binding declares every property in schema and binds those whose source
// resolved. Optional catalog properties that missed stay unbound.
func (p *pass) binding(schema record.BindingSchema, props []content.ScriptProperty) (*record.ScriptBinding, error) {
	for _, prop := range props {
		schema.Keys = append(schema.Keys, record.KeySpec{
			Key:      record.BindingKey(prop.Key),
			Type:     prop.Type,
			Required: prop.Required,
		})
	}
	b := record.NewBinding(schema)
	for _, prop := range props {
		target, ok, err := p.target(schema.Script, prop)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := b.Bind(record.BindingKey(prop.Key), target); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (p *pass) target(script string, prop content.ScriptProperty) (record.Target, bool, error) {
	switch prop.Source() {
	case "alias":
		return record.AliasTarget(p.quest.ID(), *prop.Alias), true, nil
	case "package":
		rec, ok := p.pkg.Registry.ByEditorID(prop.Package)
		if !ok {
			return record.Target{}, false, faults.Wrap(faults.ErrDanglingReference, "link", script,
				fmt.Sprintf("property %s names unknown package record %q", prop.Key, prop.Package), nil)
		}
		return record.RecordTarget(rec.ID()), true, nil
	case "catalog":
		kind, err := record.ParseKind(prop.Kind)
		if err != nil {
			return record.Target{}, false, err
		}
		id := p.ref(kind, prop.Catalog)
		if id.IsZero() {
			return record.Target{}, false, nil
		}
		return record.RecordTarget(id), true, nil
	default:
		return record.Target{}, false, faults.Wrap(faults.ErrConstruction, "link", script,
			fmt.Sprintf("property %s has no source", prop.Key), nil)
	}
}
