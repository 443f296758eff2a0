package builder

import (
	"fmt"
	"strings"

	"companionforge/internal/faults"
	"companionforge/internal/formid"
	"companionforge/internal/record"
)

func invalid(kind record.Kind, editorID, format string, args ...any) error {
	return faults.Wrap(faults.ErrConstruction, "build", kind.String()+" "+editorID, fmt.Sprintf(format, args...), nil)
}

func header(kind record.Kind, id formid.ID, editorID string) (record.Header, error) {
	editorID = strings.TrimSpace(editorID)
	if id.IsZero() {
		return record.Header{}, invalid(kind, editorID, "identifier is required")
	}
	if editorID == "" {
		return record.Header{}, invalid(kind, id.String(), "editor id is required")
	}
	return record.Header{FormID: id, Editor: editorID}, nil
}
