package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"companionforge/internal/faults"
	"companionforge/internal/formid"
	"companionforge/internal/logging"
	"companionforge/internal/record"
	"companionforge/internal/textutil"
)

// Resolution is the outcome of a catalog lookup. A zero Resolution is
// NotFound.
type Resolution struct {
	entry Entry
	found bool
	query string
}

// Found reports whether the lookup matched a record.
func (r Resolution) Found() bool { return r.found }

// Entry returns the matched definition; it is zero when not found.
func (r Resolution) Entry() Entry { return r.entry }

// ID returns the matched identifier, or the zero ID when not found.
func (r Resolution) ID() formid.ID {
	if !r.found {
		return formid.ID{}
	}
	return r.entry.ID
}

// Ref returns the registry placeholder for the match, or nil when not found.
func (r Resolution) Ref() *record.ExternalRef {
	if !r.found {
		return nil
	}
	return r.entry.Placeholder()
}

// Query names what was looked up, for log lines.
func (r Resolution) Query() string { return r.query }

// Resolver answers typed lookups against a Catalog. Callers choose per lookup
// whether a miss is fatal (Required) or degrades (Optional).
type Resolver struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewResolver wraps c. A nil logger discards output.
func NewResolver(c Catalog, logger *slog.Logger) *Resolver {
	return &Resolver{catalog: c, logger: logging.NewComponentLogger(logger, "resolver")}
}

// Resolve looks up one editor id.
func (r *Resolver) Resolve(ctx context.Context, kind record.Kind, editorID string) (Resolution, error) {
	entry, ok, err := r.catalog.Lookup(ctx, kind, editorID)
	if err != nil {
		return Resolution{}, err
	}
	res := Resolution{entry: entry, found: ok, query: editorID}
	if ok {
		r.logger.Debug("record resolved",
			logging.String(logging.FieldKind, kind.String()),
			logging.String(logging.FieldRecord, editorID),
			logging.String(logging.FieldFormID, entry.ID.String()),
		)
	}
	return res, nil
}

// Required resolves editorID and fails with faults.ErrRequiredMissing when
// the catalog does not define it.
func (r *Resolver) Required(ctx context.Context, kind record.Kind, editorID string) (Resolution, error) {
	res, err := r.Resolve(ctx, kind, editorID)
	if err != nil {
		return Resolution{}, faults.Wrap(faults.ErrRequiredMissing, "resolve", kind.String(), editorID, err)
	}
	if !res.Found() {
		msg := fmt.Sprintf("%s %q not found in catalog", kind, editorID)
		if hints := r.suggest(ctx, kind, editorID); len(hints) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(hints, ", "))
		}
		return Resolution{}, faults.Wrap(faults.ErrRequiredMissing, "resolve", kind.String(), msg, nil)
	}
	return res, nil
}

// suggest lists catalog editor ids of kind that resemble editorID.
func (r *Resolver) suggest(ctx context.Context, kind record.Kind, editorID string) []string {
	entries, err := r.catalog.List(ctx, kind)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.EditorID)
	}
	return textutil.Closest(editorID, names, textutil.SuggestionThreshold, 3)
}

// Optional returns the first name of the fallback chain the catalog defines.
// A complete miss is NotFound, never an error.
func (r *Resolver) Optional(ctx context.Context, kind record.Kind, names ...string) (Resolution, error) {
	for _, name := range names {
		res, err := r.Resolve(ctx, kind, name)
		if err != nil {
			return Resolution{}, err
		}
		if res.Found() {
			return res, nil
		}
	}
	r.logger.Debug("optional record not found",
		logging.String(logging.FieldKind, kind.String()),
		logging.String(logging.FieldRecord, strings.Join(names, ",")),
	)
	return Resolution{query: strings.Join(names, "|")}, nil
}

// Match returns the first winning definition of kind whose editor id satisfies
// pred, in catalog list order.
func (r *Resolver) Match(ctx context.Context, kind record.Kind, label string, pred func(editorID string) bool) (Resolution, error) {
	entries, err := r.catalog.List(ctx, kind)
	if err != nil {
		return Resolution{}, err
	}
	for _, e := range entries {
		if pred(e.EditorID) {
			return Resolution{entry: e, found: true, query: label}, nil
		}
	}
	r.logger.Debug("no record matched",
		logging.String(logging.FieldKind, kind.String()),
		logging.String(logging.FieldRecord, label),
	)
	return Resolution{query: label}, nil
}
