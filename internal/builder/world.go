package builder

import (
	"companionforge/internal/formid"
	"companionforge/internal/record"
)

// Location builds a named location.
func Location(id formid.ID, editorID, name string) (*record.Location, error) {
	h, err := header(record.KindLocation, id, editorID)
	if err != nil {
		return nil, err
	}
	return &record.Location{Header: h, Name: name}, nil
}

// PlacedSpec describes one temporary reference of a cell. EditorID may be
// empty for scenery.
type PlacedSpec struct {
	ID                formid.ID
	EditorID          string
	Base              formid.ID
	Actor             bool
	InitiallyDisabled bool
}

// CellSpec describes an interior cell.
type CellSpec struct {
	EditorID string
	Name     string
	Interior bool
	Location formid.ID
	Placed   []PlacedSpec
}

// Cell builds a cell together with its placed references.
func Cell(id formid.ID, spec CellSpec) (*record.Cell, error) {
	h, err := header(record.KindCell, id, spec.EditorID)
	if err != nil {
		return nil, err
	}
	c := &record.Cell{Header: h, Name: spec.Name, Interior: spec.Interior, Location: spec.Location}
	for i, p := range spec.Placed {
		if p.ID.IsZero() {
			return nil, invalid(record.KindCell, h.Editor, "placed[%d] has no identifier", i)
		}
		if p.Base.IsZero() {
			return nil, invalid(record.KindCell, h.Editor, "placed[%d] has no base record", i)
		}
		c.Placed = append(c.Placed, &record.Placed{
			Header:            record.Header{FormID: p.ID, Editor: p.EditorID},
			Base:              p.Base,
			Actor:             p.Actor,
			InitiallyDisabled: p.InitiallyDisabled,
		})
	}
	return c, nil
}
