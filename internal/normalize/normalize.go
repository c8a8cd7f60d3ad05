// Package normalize converts the remote API's heterogeneous relation shapes
// into the canonical identifier form used everywhere else in the application.
package normalize

import (
	"github.com/danielolaszy/orbit/pkg/models"
)

// Identifier extracts a canonical identifier string from a value the remote
// may return as a bare string, an embedded object, or null. Decoded JSON
// objects arrive here as map[string]any. The empty string is the canonical
// rendering of "no identifier": any unrecognized shape degrades to it rather
// than producing an error.
func Identifier(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if id, ok := val["id"].(string); ok {
			return id
		}
		return ""
	default:
		return ""
	}
}

// WorkItem produces the canonical work item for a raw record as returned by
// the remote API. The module reference is resolved from the embedded "module"
// field first, falling back to the flat "module_id". The state reference is
// resolved the same way and written to both State and StateID, so consumers
// can inspect either field for the same answer.
//
// The function is total and idempotent: it never fails, and normalizing an
// already-normalized record yields an identical record.
func WorkItem(raw models.RawWorkItem) models.WorkItem {
	module := Identifier(raw.Module)
	if module == "" {
		module = raw.ModuleID
	}

	state := Identifier(raw.State)
	if state == "" {
		state = raw.StateID
	}

	return models.WorkItem{
		ID:                  raw.ID,
		Name:                raw.Name,
		DescriptionHTML:     raw.DescriptionHTML,
		DescriptionStripped: raw.DescriptionStripped,
		State:               state,
		StateID:             state,
		Priority:            raw.Priority,
		Module:              module,
		ModuleID:            raw.ModuleID,
		ProjectID:           raw.ProjectID,
		Identifier:          raw.Identifier,
	}
}
