package assembly

import (
	"context"
	"strings"

	"companionforge/internal/catalog"
	"companionforge/internal/content"
	"companionforge/internal/faults"
	"companionforge/internal/formid"
	"companionforge/internal/logging"
	"companionforge/internal/record"
)

func refKey(kind record.Kind, editorID string) string {
	return kind.String() + ":" + editorID
}

// ref returns the identifier resolved for kind/editorID, or the zero ID
// when the lookup was optional and missed.
func (p *pass) ref(kind record.Kind, editorID string) formid.ID {
	return p.refs[refKey(kind, editorID)]
}

func (p *pass) keep(kind record.Kind, key string, res catalog.Resolution) error {
	if err := p.pkg.Registry.AddExternal(res.Ref()); err != nil {
		return err
	}
	p.refs[refKey(kind, key)] = res.ID()
	return nil
}

func (p *pass) required(ctx context.Context, kind record.Kind, editorID string) error {
	if _, done := p.refs[refKey(kind, editorID)]; done {
		return nil
	}
	res, err := p.resolver.Required(ctx, kind, editorID)
	if err != nil {
		return err
	}
	return p.keep(kind, editorID, res)
}

// optional resolves the first name of chain and stores it under key. A miss
// records feature as omitted.
func (p *pass) optional(ctx context.Context, kind record.Kind, key, feature string, chain ...string) error {
	if _, done := p.refs[refKey(kind, key)]; done {
		return nil
	}
	res, err := p.resolver.Optional(ctx, kind, chain...)
	if err != nil {
		return err
	}
	if !res.Found() {
		p.omit(ctx, feature)
		return nil
	}
	return p.keep(kind, key, res)
}

func (p *pass) omit(ctx context.Context, feature string) {
	p.omitted = append(p.omitted, feature)
	p.log(ctx).Debug("optional feature omitted", logging.String("feature", feature))
}

func (p *pass) resolve(ctx context.Context) error {
	a := p.m.Actor
	if err := p.required(ctx, record.KindRace, a.Race); err != nil {
		return err
	}
	if err := p.required(ctx, record.KindVoiceType, a.Voice); err != nil {
		return err
	}
	for _, f := range a.Factions {
		if err := p.required(ctx, record.KindFaction, f.Faction); err != nil {
			return err
		}
	}
	for _, r := range p.m.Greeting.Responses {
		for _, c := range r.Conditions {
			if err := p.required(ctx, record.KindFaction, c.Faction); err != nil {
				return err
			}
		}
	}

	if len(a.Hair) > 0 {
		if err := p.optional(ctx, record.KindHeadPart, "hair", "hair", a.Hair...); err != nil {
			return err
		}
	}
	if !a.Eyes.Empty() {
		res, err := p.resolver.Match(ctx, record.KindHeadPart, a.Eyes.String(), a.Eyes.Matches)
		if err != nil {
			return err
		}
		if res.Found() {
			if err := p.keep(record.KindHeadPart, "eyes", res); err != nil {
				return err
			}
		} else {
			p.omit(ctx, "eyes")
		}
	}
	if a.Class != "" {
		if err := p.optional(ctx, record.KindClass, a.Class, "class", a.Class); err != nil {
			return err
		}
	}
	if a.CombatStyle != "" {
		if err := p.optional(ctx, record.KindCombatStyle, a.CombatStyle, "combat style", a.CombatStyle); err != nil {
			return err
		}
	}
	for _, prop := range a.Properties {
		if err := p.optional(ctx, record.KindActorValue, prop.ActorValue, "actor value "+prop.ActorValue, prop.ActorValue); err != nil {
			return err
		}
	}

	for _, placed := range p.m.Cell.Placed {
		if placed.Actor || strings.TrimSpace(placed.BaseFormID) == "" {
			continue
		}
		if err := p.fixedBase(placed.BaseFormID); err != nil {
			return err
		}
	}

	if err := p.resolveScript(ctx, "quest script", p.m.QuestScript.Properties); err != nil {
		return err
	}
	if err := p.resolveScript(ctx, "actor script", p.m.ActorScript.Properties); err != nil {
		return err
	}

	p.log(ctx).Info("catalog records resolved",
		logging.Int("resolved", len(p.pkg.Externals())),
		logging.Int("omitted", len(p.omitted)),
	)
	return nil
}

// fixedBase registers a placeholder for a base record named by form id
// rather than editor id.
func (p *pass) fixedBase(raw string) error {
	id, err := formid.Parse(raw)
	if err != nil {
		return faults.Wrap(faults.ErrConstruction, "resolve", "placed base", raw, err)
	}
	return p.pkg.Registry.AddExternal(&record.ExternalRef{
		Header: record.Header{FormID: id},
		Target: record.KindStatic,
	})
}

func (p *pass) resolveScript(ctx context.Context, owner string, props []content.ScriptProperty) error {
	for _, prop := range props {
		if prop.Source() != "catalog" {
			continue
		}
		kind, err := record.ParseKind(prop.Kind)
		if err != nil {
			return faults.Wrap(faults.ErrConstruction, "resolve", owner, "property "+prop.Key, err)
		}
		if prop.Required {
			err = p.required(ctx, kind, prop.Catalog)
		} else {
			err = p.optional(ctx, kind, prop.Catalog, owner+" property "+prop.Key, prop.Catalog)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
