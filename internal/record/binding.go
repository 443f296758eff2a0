package record

import (
	"fmt"

	"companionforge/internal/faults"
	"companionforge/internal/formid"
)

// NoAlias marks a binding target that refers to a record rather than a quest alias.
const NoAlias = -1

// BindingKey names one property of an externally compiled script.
type BindingKey string

// Target is what a binding key resolves to: a record, or an alias of a quest
// when Alias is not NoAlias.
type Target struct {
	Record formid.ID
	Alias  int
}

// RecordTarget points a key at a record.
func RecordTarget(id formid.ID) Target { return Target{Record: id, Alias: NoAlias} }

// AliasTarget points a key at alias of quest.
func AliasTarget(quest formid.ID, alias int) Target { return Target{Record: quest, Alias: alias} }

// KeySpec declares one key of a binding schema.
type KeySpec struct {
	Key      BindingKey
	Type     string
	Required bool
}

// BindingSchema declares the keys a script accepts, in emission order.
type BindingSchema struct {
	Script string
	Keys   []KeySpec
}

// Spec returns the declaration for key.
func (s BindingSchema) Spec(key BindingKey) (KeySpec, bool) {
	for _, k := range s.Keys {
		if k.Key == key {
			return k, true
		}
	}
	return KeySpec{}, false
}

// BindingEntry is one bound key.
type BindingEntry struct {
	Key    BindingKey
	Target Target
}

// Fragment binds a quest stage to a named function of the generated
// fragment script.
type Fragment struct {
	Stage int
	Name  string
	Code  string
}

// ScriptBinding is an ordered key → reference table handed to external
// script logic. Entries follow schema order.
type ScriptBinding struct {
	Schema    BindingSchema
	Entries   []BindingEntry
	Fragments []Fragment
}

// NewBinding returns an empty binding for schema.
func NewBinding(schema BindingSchema) *ScriptBinding {
	return &ScriptBinding{Schema: schema}
}

// Bind records key → target. Keys outside the schema and repeated keys are
// construction errors. Entries are kept in schema order regardless of call
// order.
func (b *ScriptBinding) Bind(key BindingKey, target Target) error {
	if _, ok := b.Schema.Spec(key); !ok {
		return faults.Wrap(faults.ErrConstruction, "bind", b.Schema.Script,
			fmt.Sprintf("key %q is not declared by the schema", key), nil)
	}
	if _, ok := b.Lookup(key); ok {
		return faults.Wrap(faults.ErrConstruction, "bind", b.Schema.Script,
			fmt.Sprintf("key %q bound twice", key), nil)
	}
	if target.Record.IsZero() {
		return faults.Wrap(faults.ErrConstruction, "bind", b.Schema.Script,
			fmt.Sprintf("key %q bound to an empty reference", key), nil)
	}
	entry := BindingEntry{Key: key, Target: target}
	pos := b.schemaPos(key)
	insert := len(b.Entries)
	for i, e := range b.Entries {
		if b.schemaPos(e.Key) > pos {
			insert = i
			break
		}
	}
	b.Entries = append(b.Entries, BindingEntry{})
	copy(b.Entries[insert+1:], b.Entries[insert:])
	b.Entries[insert] = entry
	return nil
}

// Lookup returns the target bound to key.
func (b *ScriptBinding) Lookup(key BindingKey) (Target, bool) {
	for _, e := range b.Entries {
		if e.Key == key {
			return e.Target, true
		}
	}
	return Target{}, false
}

// Missing lists required schema keys that are not bound, in schema order.
func (b *ScriptBinding) Missing() []BindingKey {
	var missing []BindingKey
	for _, k := range b.Schema.Keys {
		if !k.Required {
			continue
		}
		if _, ok := b.Lookup(k.Key); !ok {
			missing = append(missing, k.Key)
		}
	}
	return missing
}

func (b *ScriptBinding) schemaPos(key BindingKey) int {
	for i, k := range b.Schema.Keys {
		if k.Key == key {
			return i
		}
	}
	return len(b.Schema.Keys)
}

func bindingRefs(l *refList, b *ScriptBinding) {
	if b == nil {
		return
	}
	for _, e := range b.Entries {
		l.add("script."+string(e.Key), e.Target.Record)
	}
}
