package record

import (
	"errors"
	"fmt"

	"companionforge/internal/faults"
	"companionforge/internal/formid"
)

// ErrSealed is returned when a sealed registry is asked to change.
var ErrSealed = errors.New("registry sealed")

// Registry owns every record of a package in registration order. Nested
// records (response groups, placed references) are indexed by id but listed
// only through their parent.
type Registry struct {
	order    []Record
	byID     map[formid.ID]Record
	byEditor map[string]formid.ID
	sealed   bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[formid.ID]Record),
		byEditor: make(map[string]formid.ID),
	}
}

// Add registers rec and its children. Duplicate identifiers and duplicate
// package editor ids are construction errors.
func (r *Registry) Add(rec Record) error {
	if r.sealed {
		return ErrSealed
	}
	if rec == nil || rec.ID().IsZero() {
		return faults.Wrap(faults.ErrConstruction, "register", "", "record without identifier", nil)
	}
	pending := []Record{rec}
	if parent, ok := rec.(Parent); ok {
		pending = append(pending, parent.Children()...)
	}
	seen := make(map[formid.ID]struct{}, len(pending))
	for _, p := range pending {
		if p.ID().IsZero() {
			return faults.Wrap(faults.ErrConstruction, "register", rec.EditorID(),
				fmt.Sprintf("nested %s without identifier", p.Kind()), nil)
		}
		if _, dup := seen[p.ID()]; dup {
			return r.duplicateID(p)
		}
		seen[p.ID()] = struct{}{}
		if _, exists := r.byID[p.ID()]; exists {
			return r.duplicateID(p)
		}
		if edid := p.EditorID(); edid != "" && p.Kind() != KindExternal {
			if other, exists := r.byEditor[edid]; exists {
				return faults.Wrap(faults.ErrConstruction, "register", edid,
					fmt.Sprintf("editor id already used by %s", other), nil)
			}
		}
	}
	for _, p := range pending {
		r.byID[p.ID()] = p
		if edid := p.EditorID(); edid != "" && p.Kind() != KindExternal {
			r.byEditor[edid] = p.ID()
		}
	}
	r.order = append(r.order, rec)
	return nil
}

// AddExternal registers a catalog placeholder. Registering the same
// identifier twice is a no-op so several lookups may share one placeholder.
func (r *Registry) AddExternal(ref *ExternalRef) error {
	if existing, ok := r.byID[ref.ID()]; ok {
		if existing.Kind() == KindExternal {
			return nil
		}
		return r.duplicateID(ref)
	}
	return r.Add(ref)
}

func (r *Registry) duplicateID(rec Record) error {
	return faults.Wrap(faults.ErrConstruction, "register", rec.EditorID(),
		fmt.Sprintf("identifier %s already registered", rec.ID()), nil)
}

// Get returns the record with id, nested records included.
func (r *Registry) Get(id formid.ID) (Record, bool) {
	rec, ok := r.byID[id]
	return rec, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id formid.ID) bool {
	_, ok := r.byID[id]
	return ok
}

// ByEditorID returns the package record registered under edid.
func (r *Registry) ByEditorID(edid string) (Record, bool) {
	id, ok := r.byEditor[edid]
	if !ok {
		return nil, false
	}
	return r.byID[id], true
}

// Records returns top-level records in registration order.
func (r *Registry) Records() []Record {
	out := make([]Record, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of indexed records, nested records included.
func (r *Registry) Len() int {
	return len(r.byID)
}

// Seal freezes the registry. Linking and registration fail afterwards.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Collect returns the top-level records of type T in registration order.
func Collect[T Record](r *Registry) []T {
	var out []T
	for _, rec := range r.order {
		if typed, ok := rec.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}
