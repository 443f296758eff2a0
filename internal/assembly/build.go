package assembly

import (
	"context"
	"fmt"
	"math"

	"companionforge/internal/builder"
	"companionforge/internal/faults"
	"companionforge/internal/formid"
	"companionforge/internal/logging"
	"companionforge/internal/record"
)

// plan holds the identifiers allocated up front, in allocation order.
type plan struct {
	actor    formid.ID
	location formid.ID
	cell     formid.ID
	placed   []formid.ID
	quest    formid.ID
	topics   []formid.ID
	lines    []formid.ID
	scenes   []formid.ID
	greeting formid.ID
	groups   []formid.ID
}

func (p *pass) next(n int) ([]formid.ID, error) {
	ids := make([]formid.ID, 0, n)
	for range n {
		id, err := p.alloc.Next()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// allocate hands out every identifier of the package. The order is fixed so
// the same manifest and catalog always produce the same identifiers.
func (p *pass) allocate() (*plan, error) {
	head, err := p.next(3)
	if err != nil {
		return nil, err
	}
	pl := &plan{actor: head[0], location: head[1], cell: head[2]}
	if pl.placed, err = p.next(len(p.m.Cell.Placed)); err != nil {
		return nil, err
	}
	quest, err := p.next(1)
	if err != nil {
		return nil, err
	}
	pl.quest = quest[0]
	for range p.m.Topics {
		pair, err := p.next(2)
		if err != nil {
			return nil, err
		}
		pl.topics = append(pl.topics, pair[0])
		pl.lines = append(pl.lines, pair[1])
	}
	if pl.scenes, err = p.next(len(p.m.Scenes)); err != nil {
		return nil, err
	}
	greeting, err := p.next(1 + len(p.m.Greeting.Responses))
	if err != nil {
		return nil, err
	}
	pl.greeting, pl.groups = greeting[0], greeting[1:]
	return pl, nil
}

func (p *pass) build(ctx context.Context) error {
	pl, err := p.allocate()
	if err != nil {
		return err
	}
	p.plan = pl
	for _, step := range []func() error{
		p.buildActor,
		p.buildWorld,
		p.buildQuest,
		p.buildTopics,
		p.buildScenes,
		p.buildGreeting,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	p.log(ctx).Info("records built",
		logging.Int("records", len(p.pkg.Owned())),
		logging.Int("identifiers", p.alloc.Issued()),
	)
	return nil
}

func (p *pass) buildActor() error {
	a := p.m.Actor
	flags, err := parseFlags(a.Flags, table("actor", actorFlags))
	if err != nil {
		return p.manifestError("actor", a.EditorID, err)
	}
	spec := builder.ActorSpec{
		EditorID:    a.EditorID,
		Name:        a.Name,
		Race:        p.ref(record.KindRace, a.Race),
		Voice:       p.ref(record.KindVoiceType, a.Voice),
		Flags:       flags,
		Class:       p.ref(record.KindClass, a.Class),
		CombatStyle: p.ref(record.KindCombatStyle, a.CombatStyle),
		HeadParts: []formid.ID{
			p.ref(record.KindHeadPart, "hair"),
			p.ref(record.KindHeadPart, "eyes"),
		},
	}
	for _, f := range a.Factions {
		if f.Rank < math.MinInt8 || f.Rank > math.MaxInt8 {
			return p.manifestError("actor", a.EditorID,
				fmt.Errorf("faction %s rank %d outside %d..%d", f.Faction, f.Rank, math.MinInt8, math.MaxInt8))
		}
		spec.Factions = append(spec.Factions, record.FactionRank{
			Faction: p.ref(record.KindFaction, f.Faction),
			Rank:    int8(f.Rank),
		})
	}
	for _, prop := range a.Properties {
		av := p.ref(record.KindActorValue, prop.ActorValue)
		if av.IsZero() {
			continue
		}
		spec.Properties = append(spec.Properties, record.PropertyOverride{ActorValue: av, Value: prop.Value})
	}
	actor, err := builder.Actor(p.plan.actor, spec)
	if err != nil {
		return err
	}
	p.actor = actor
	return p.register(actor)
}

func (p *pass) buildWorld() error {
	loc, err := builder.Location(p.plan.location, p.m.Location.EditorID, p.m.Location.Name)
	if err != nil {
		return err
	}
	if err := p.register(loc); err != nil {
		return err
	}
	c := p.m.Cell
	spec := builder.CellSpec{
		EditorID: c.EditorID,
		Name:     c.Name,
		Interior: c.Interior,
		Location: p.plan.location,
	}
	for i, placed := range c.Placed {
		ps := builder.PlacedSpec{
			ID:                p.plan.placed[i],
			EditorID:          placed.EditorID,
			Actor:             placed.Actor,
			InitiallyDisabled: placed.InitiallyDisabled,
		}
		if placed.Actor {
			ps.Base = p.plan.actor
		} else if placed.BaseFormID != "" {
			base, err := formid.Parse(placed.BaseFormID)
			if err != nil {
				return p.manifestError("cell", c.EditorID, err)
			}
			ps.Base = base
		}
		spec.Placed = append(spec.Placed, ps)
	}
	cell, err := builder.Cell(p.plan.cell, spec)
	if err != nil {
		return err
	}
	return p.register(cell)
}

func (p *pass) buildQuest() error {
	q := p.m.Quest
	flags, err := parseFlags(q.Flags, record.ParseQuestFlag)
	if err != nil {
		return p.manifestError("quest", q.EditorID, err)
	}
	spec := builder.QuestSpec{
		EditorID:   q.EditorID,
		Name:       q.Name,
		Priority:   q.Priority,
		Flags:      flags,
		Conditions: []record.Condition{record.AliasLock(q.LockAlias)},
	}
	for _, s := range q.Stages {
		spec.Stages = append(spec.Stages, builder.StageSpec{Index: s.Index, Notes: []string{s.Note}})
	}
	for _, a := range q.Aliases {
		aflags, err := parseFlags(a.Flags, record.ParseAliasFlag)
		if err != nil {
			return p.manifestError("quest", q.EditorID, fmt.Errorf("alias %d: %w", a.ID, err))
		}
		spec.Aliases = append(spec.Aliases, builder.AliasSpec{ID: a.ID, Name: a.Name, Flags: aflags})
	}
	quest, err := builder.Quest(p.plan.quest, spec)
	if err != nil {
		return err
	}
	p.quest = quest
	return p.register(quest)
}

func (p *pass) buildTopics() error {
	for i, t := range p.m.Topics {
		topic, err := builder.Topic(p.plan.topics[i], builder.SceneLine(t.EditorID, p.plan.lines[i], t.Text))
		if err != nil {
			return err
		}
		if err := p.register(topic); err != nil {
			return err
		}
		p.topics[t.EditorID] = topic
	}
	return nil
}

func (p *pass) buildScenes() error {
	for i, s := range p.m.Scenes {
		spec := builder.SceneSpec{EditorID: s.EditorID, Flags: s.Flags}
		for _, ph := range s.Phases {
			stage := record.NoStage
			if ph.CompleteStage != nil {
				stage = *ph.CompleteStage
			}
			spec.Phases = append(spec.Phases, record.Phase{Name: ph.Name, CompleteStage: stage})
		}
		for _, a := range s.Actors {
			flags, err := parseFlags(a.Flags, table("scene actor", sceneActorFlags))
			if err != nil {
				return p.manifestError("scene", s.EditorID, err)
			}
			spec.Actors = append(spec.Actors, record.SceneActor{Alias: a.Alias, Flags: flags})
		}
		for _, a := range s.Actions {
			flags, err := parseFlags(a.Flags, table("action", actionFlags))
			if err != nil {
				return p.manifestError("scene", s.EditorID, err)
			}
			spec.Actions = append(spec.Actions, builder.ActionSpec{
				Alias:      a.Alias,
				StartPhase: a.StartPhase,
				EndPhase:   a.EndPhase,
				Flags:      flags,
			})
		}
		scene, err := builder.Scene(p.plan.scenes[i], spec)
		if err != nil {
			return err
		}
		if err := p.register(scene); err != nil {
			return err
		}
		p.scenes[s.EditorID] = scene
	}
	return nil
}

func (p *pass) buildGreeting() error {
	g := p.m.Greeting
	groups := make([]builder.GroupSpec, 0, len(g.Responses))
	for i, r := range g.Responses {
		gs := builder.GroupSpec{
			ID:        p.plan.groups[i],
			EditorID:  r.EditorID,
			Responses: []string{r.Text},
			Prompt:    r.Prompt,
		}
		for _, c := range r.Conditions {
			gs.Conditions = append(gs.Conditions, record.InFaction(p.ref(record.KindFaction, c.Faction), c.Value))
		}
		if r.StartSceneOnEnd {
			gs.Flags |= record.ResponseStartSceneOnEnd
		}
		groups = append(groups, gs)
	}
	spec := builder.Greeting(g.EditorID, groups)
	if g.Priority != 0 {
		spec.Priority = g.Priority
	}
	topic, err := builder.Topic(p.plan.greeting, spec)
	if err != nil {
		return err
	}
	p.greeting = topic
	return p.register(topic)
}

func (p *pass) manifestError(section, editorID string, err error) error {
	return faults.Wrap(faults.ErrConstruction, "build", section, editorID, err)
}

// topicID returns the scene topic named by editorID, or the zero ID for an
// empty name.
func (p *pass) topicID(scene, editorID string) (formid.ID, error) {
	if editorID == "" {
		return formid.ID{}, nil
	}
	t, ok := p.topics[editorID]
	if !ok {
		return formid.ID{}, faults.Wrap(faults.ErrDanglingReference, "link", scene,
			fmt.Sprintf("scene topic %q is not defined", editorID), nil)
	}
	return t.ID(), nil
}
