package record

import "companionforge/internal/formid"

// Record is the common surface of every entity in a package.
type Record interface {
	ID() formid.ID
	EditorID() string
	Kind() Kind
	// Refs lists every identifier this record points at, including those held
	// by nested sub-structures.
	Refs() []Ref
}

// Parent is implemented by records that own nested records with their own
// identifiers (response groups under a topic, placed references in a cell).
type Parent interface {
	Children() []Record
}

// Ref is one outgoing reference from a record.
type Ref struct {
	Field  string
	Target formid.ID
}

// Header carries the identity shared by all records.
type Header struct {
	FormID formid.ID
	Editor string
}

// ID returns the record identifier.
func (h Header) ID() formid.ID { return h.FormID }

// EditorID returns the human-readable editor id.
func (h Header) EditorID() string { return h.Editor }

// refList accumulates non-zero references.
type refList []Ref

func (l *refList) add(field string, id formid.ID) {
	if id.IsZero() {
		return
	}
	*l = append(*l, Ref{Field: field, Target: id})
}

// ExternalRef is a placeholder for a record resolved from the external
// catalog. Target is the kind the catalog reported.
type ExternalRef struct {
	Header
	Target Kind
}

func (e *ExternalRef) Kind() Kind { return KindExternal }

func (e *ExternalRef) Refs() []Ref { return nil }
