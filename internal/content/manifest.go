package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed companion.toml
var defaultManifest []byte

// Manifest is the complete content table of one companion package.
type Manifest struct {
	Actor       Actor        `toml:"actor" yaml:"actor"`
	Location    Location     `toml:"location" yaml:"location"`
	Cell        Cell         `toml:"cell" yaml:"cell"`
	Quest       Quest        `toml:"quest" yaml:"quest"`
	Topics      []SceneTopic `toml:"topics" yaml:"topics"`
	Scenes      []Scene      `toml:"scenes" yaml:"scenes"`
	Greeting    Greeting     `toml:"greeting" yaml:"greeting"`
	QuestScript QuestScript  `toml:"quest_script" yaml:"quest_script"`
	ActorScript ActorScript  `toml:"actor_script" yaml:"actor_script"`
}

// Actor describes the companion base record. Race and Voice are required
// catalog lookups; Hair is a fallback chain and Eyes a name match, both
// optional.
type Actor struct {
	EditorID    string     `toml:"editor_id" yaml:"editor_id"`
	Name        string     `toml:"name" yaml:"name"`
	Race        string     `toml:"race" yaml:"race"`
	Voice       string     `toml:"voice" yaml:"voice"`
	Flags       []string   `toml:"flags" yaml:"flags"`
	Hair        []string   `toml:"hair" yaml:"hair"`
	Eyes        NameMatch  `toml:"eyes" yaml:"eyes"`
	Class       string     `toml:"class" yaml:"class"`
	CombatStyle string     `toml:"combat_style" yaml:"combat_style"`
	Factions    []Faction  `toml:"factions" yaml:"factions"`
	Properties  []Property `toml:"properties" yaml:"properties"`
}

// NameMatch selects the first catalog record whose editor id contains every
// Contains fragment and none of the Excludes fragments.
type NameMatch struct {
	Contains []string `toml:"contains" yaml:"contains"`
	Excludes []string `toml:"excludes" yaml:"excludes"`
}

// Empty reports whether no match is configured.
func (m NameMatch) Empty() bool { return len(m.Contains) == 0 }

// Matches applies the match to an editor id.
func (m NameMatch) Matches(editorID string) bool {
	if m.Empty() {
		return false
	}
	for _, c := range m.Contains {
		if !strings.Contains(editorID, c) {
			return false
		}
	}
	for _, x := range m.Excludes {
		if strings.Contains(editorID, x) {
			return false
		}
	}
	return true
}

// String describes the match for logs.
func (m NameMatch) String() string {
	s := "+" + strings.Join(m.Contains, "+")
	for _, x := range m.Excludes {
		s += " -" + x
	}
	return s
}

// Faction is a required faction membership.
type Faction struct {
	Faction string `toml:"faction" yaml:"faction"`
	Rank    int    `toml:"rank" yaml:"rank"`
}

// Property is an optional actor value override.
type Property struct {
	ActorValue string  `toml:"actor_value" yaml:"actor_value"`
	Value      float32 `toml:"value" yaml:"value"`
}

type Location struct {
	EditorID string `toml:"editor_id" yaml:"editor_id"`
	Name     string `toml:"name" yaml:"name"`
}

type Cell struct {
	EditorID string   `toml:"editor_id" yaml:"editor_id"`
	Name     string   `toml:"name" yaml:"name"`
	Interior bool     `toml:"interior" yaml:"interior"`
	Placed   []Placed `toml:"placed" yaml:"placed"`
}

// Placed is a temporary reference of the cell. Actor places the companion;
// otherwise BaseFormID names the base record directly ("067A40:Fallout4.esm").
type Placed struct {
	EditorID          string `toml:"editor_id" yaml:"editor_id"`
	Actor             bool   `toml:"actor" yaml:"actor"`
	BaseFormID        string `toml:"base_form_id" yaml:"base_form_id"`
	InitiallyDisabled bool   `toml:"initially_disabled" yaml:"initially_disabled"`
}

type Quest struct {
	EditorID  string   `toml:"editor_id" yaml:"editor_id"`
	Name      string   `toml:"name" yaml:"name"`
	Priority  int      `toml:"priority" yaml:"priority"`
	Flags     []string `toml:"flags" yaml:"flags"`
	LockAlias int      `toml:"lock_alias" yaml:"lock_alias"`
	Aliases   []Alias  `toml:"aliases" yaml:"aliases"`
	Stages    []Stage  `toml:"stages" yaml:"stages"`
}

// Alias is a quest slot. Actor binds the companion into it; otherwise it is
// filled at runtime.
type Alias struct {
	ID    int      `toml:"id" yaml:"id"`
	Name  string   `toml:"name" yaml:"name"`
	Actor bool     `toml:"actor" yaml:"actor"`
	Flags []string `toml:"flags" yaml:"flags"`
}

type Stage struct {
	Index int    `toml:"index" yaml:"index"`
	Note  string `toml:"note" yaml:"note"`
}

// SceneTopic is a single-line topic spoken inside a scene action.
type SceneTopic struct {
	EditorID string `toml:"editor_id" yaml:"editor_id"`
	Text     string `toml:"text" yaml:"text"`
}

type Scene struct {
	EditorID string       `toml:"editor_id" yaml:"editor_id"`
	Flags    uint32       `toml:"flags" yaml:"flags"`
	Phases   []Phase      `toml:"phases" yaml:"phases"`
	Actors   []SceneActor `toml:"actors" yaml:"actors"`
	Actions  []Action     `toml:"actions" yaml:"actions"`
}

// Phase optionally moves the quest to CompleteStage when it ends.
type Phase struct {
	Name          string `toml:"name" yaml:"name"`
	CompleteStage *int   `toml:"complete_stage" yaml:"complete_stage"`
}

type SceneActor struct {
	Alias int      `toml:"alias" yaml:"alias"`
	Flags []string `toml:"flags" yaml:"flags"`
}

// Action is a player dialogue action; the response sets name scene topics
// by editor id.
type Action struct {
	Alias      int         `toml:"alias" yaml:"alias"`
	StartPhase string      `toml:"start_phase" yaml:"start_phase"`
	EndPhase   string      `toml:"end_phase" yaml:"end_phase"`
	Flags      []string    `toml:"flags" yaml:"flags"`
	Player     ResponseSet `toml:"player" yaml:"player"`
	NPC        ResponseSet `toml:"npc" yaml:"npc"`
}

type ResponseSet struct {
	Positive string `toml:"positive" yaml:"positive"`
	Negative string `toml:"negative" yaml:"negative"`
	Neutral  string `toml:"neutral" yaml:"neutral"`
	Question string `toml:"question" yaml:"question"`
}

// Greeting is the companion's hello topic.
type Greeting struct {
	EditorID  string             `toml:"editor_id" yaml:"editor_id"`
	Priority  int                `toml:"priority" yaml:"priority"`
	Responses []GreetingResponse `toml:"responses" yaml:"responses"`
}

type GreetingResponse struct {
	EditorID        string             `toml:"editor_id" yaml:"editor_id"`
	Text            string             `toml:"text" yaml:"text"`
	Prompt          string             `toml:"prompt" yaml:"prompt"`
	StartScene      string             `toml:"start_scene" yaml:"start_scene"`
	StartPhase      string             `toml:"start_phase" yaml:"start_phase"`
	StartSceneOnEnd bool               `toml:"start_scene_on_end" yaml:"start_scene_on_end"`
	Conditions      []FactionCondition `toml:"conditions" yaml:"conditions"`
}

// FactionCondition is GetInFaction(Faction) == Value.
type FactionCondition struct {
	Faction string  `toml:"faction" yaml:"faction"`
	Value   float32 `toml:"value" yaml:"value"`
}

// QuestScript declares the quest fragment script's properties and stage
// fragments.
type QuestScript struct {
	Properties []ScriptProperty `toml:"properties" yaml:"properties"`
	Fragments  []Fragment       `toml:"fragments" yaml:"fragments"`
}

type ActorScript struct {
	Script     string           `toml:"script" yaml:"script"`
	Properties []ScriptProperty `toml:"properties" yaml:"properties"`
}

// ScriptProperty binds one script key. Exactly one source is set: Alias (a
// quest alias id), Package (an editor id of a package record) or Catalog
// with Kind (a catalog lookup).
type ScriptProperty struct {
	Key      string `toml:"key" yaml:"key"`
	Type     string `toml:"type" yaml:"type"`
	Alias    *int   `toml:"alias" yaml:"alias"`
	Package  string `toml:"package" yaml:"package"`
	Catalog  string `toml:"catalog" yaml:"catalog"`
	Kind     string `toml:"kind" yaml:"kind"`
	Required bool   `toml:"required" yaml:"required"`
}

// Source names where the property value comes from.
func (p ScriptProperty) Source() string {
	switch {
	case p.Alias != nil:
		return "alias"
	case p.Package != "":
		return "package"
	case p.Catalog != "":
		return "catalog"
	default:
		return ""
	}
}

type Fragment struct {
	Stage int    `toml:"stage" yaml:"stage"`
	Code  string `toml:"code" yaml:"code"`
}

// Default returns the embedded companion manifest.
func Default() (*Manifest, error) {
	m, err := decodeTOML(defaultManifest)
	if err != nil {
		return nil, fmt.Errorf("embedded manifest: %w", err)
	}
	return m, nil
}

// Load reads a manifest; the extension picks TOML or YAML. An empty path
// returns Default.
func Load(path string) (*Manifest, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m *Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		m, err = decodeTOML(data)
	case ".yaml", ".yml":
		m, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("manifest %s: unsupported extension (want .toml, .yaml or .yml)", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

func decodeTOML(data []byte) (*Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func decodeYAML(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Stats summarizes the manifest for inspect output.
type Stats struct {
	Stages    int
	Aliases   int
	Scenes    int
	Topics    int
	Greetings int
}

func (m *Manifest) Stats() Stats {
	return Stats{
		Stages:    len(m.Quest.Stages),
		Aliases:   len(m.Quest.Aliases),
		Scenes:    len(m.Scenes),
		Topics:    len(m.Topics) + 1,
		Greetings: len(m.Greeting.Responses),
	}
}
