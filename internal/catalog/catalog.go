package catalog

import (
	"context"

	"companionforge/internal/formid"
	"companionforge/internal/record"
)

// Entry is one winning definition in the catalog.
type Entry struct {
	ID        formid.ID
	Kind      record.Kind
	EditorID  string
	DefinedIn string
}

// Placeholder converts the entry into the registry placeholder used by builds.
func (e Entry) Placeholder() *record.ExternalRef {
	return &record.ExternalRef{
		Header: record.Header{FormID: e.ID, Editor: e.EditorID},
		Target: e.Kind,
	}
}

// Catalog is the read-only view of the external content universe.
type Catalog interface {
	// Lookup returns the highest-priority definition of editorID for kind.
	Lookup(ctx context.Context, kind record.Kind, editorID string) (Entry, bool, error)
	// List returns the winning overrides of kind, highest priority first and
	// then by editor id.
	List(ctx context.Context, kind record.Kind) ([]Entry, error)
	// LoadOrder returns plugin names, lowest priority first.
	LoadOrder(ctx context.Context) ([]string, error)
}
