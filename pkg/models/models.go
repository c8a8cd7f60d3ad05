// Package models defines data structures shared across the application.
package models

import (
	"time"
)

// Project represents a top-level workspace container in Plane. Projects are
// fetched as a list from the remote and never mutated locally.
type Project struct {
	// ID is the remote identifier of the project
	ID string `json:"id"`

	// Name is the human-readable project name
	Name string `json:"name"`

	// Identifier is the short project key (e.g. "WEB"), when the remote provides one
	Identifier string `json:"identifier,omitempty"`
}

// Module represents a grouping of work items within a project, roughly an
// iteration or feature bucket.
type Module struct {
	// ID is the remote identifier of the module
	ID string `json:"id"`

	// Name is the module's title
	Name string `json:"name"`

	// Status is the module's lifecycle status (e.g. "planned", "in-progress")
	Status string `json:"status,omitempty"`

	// StartDate is the module's start date in the remote's date format
	StartDate string `json:"start_date,omitempty"`

	// TargetDate is the module's target completion date
	TargetDate string `json:"target_date,omitempty"`

	// Description is the module's free-form description
	Description string `json:"description,omitempty"`

	// ProjectID is the identifier of the owning project
	ProjectID string `json:"project_id,omitempty"`
}

// State represents a named workflow stage (e.g. "Todo", "Done") that work
// items can occupy.
type State struct {
	// ID is the remote identifier of the state
	ID string `json:"id"`

	// Name is the state's display name
	Name string `json:"name"`

	// Group is the state's category (e.g. "backlog", "started", "completed")
	Group string `json:"group,omitempty"`

	// Color is the display color assigned to the state
	Color string `json:"color,omitempty"`
}

// WorkItem is the canonical representation of a single task/issue record.
// The Module, State and StateID fields are always a bare identifier string or
// empty, never an embedded object; the normalize package enforces this
// regardless of the shape the remote returned.
type WorkItem struct {
	// ID is the remote identifier of the work item
	ID string `json:"id"`

	// Name is the work item's title
	Name string `json:"name"`

	// DescriptionHTML is the rich-text body as returned by the remote
	DescriptionHTML string `json:"description_html,omitempty"`

	// DescriptionStripped is the plain-text body
	DescriptionStripped string `json:"description_stripped,omitempty"`

	// State is the identifier of the workflow state, or empty when unset.
	// Always equal to StateID after normalization.
	State string `json:"state,omitempty"`

	// StateID mirrors State so consumers can inspect either field
	StateID string `json:"state_id,omitempty"`

	// Priority is the work item's priority (e.g. "urgent", "high", "none")
	Priority string `json:"priority,omitempty"`

	// Module is the identifier of the associated module, or empty when the
	// item is unassigned
	Module string `json:"module,omitempty"`

	// ModuleID is the flat module reference as carried by the remote
	ModuleID string `json:"module_id,omitempty"`

	// ProjectID is the identifier of the owning project
	ProjectID string `json:"project_id,omitempty"`

	// Identifier is the human-readable item key (e.g. "WEB-42"), when provided
	Identifier string `json:"identifier,omitempty"`
}

// RawWorkItem is the wire shape of a work item as returned by the remote API.
// The remote is inconsistent about relations: Module and State may each be a
// bare identifier string, an embedded object carrying an "id" field, or null.
// All other fields pass through to WorkItem unchanged.
type RawWorkItem struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	DescriptionHTML     string `json:"description_html,omitempty"`
	DescriptionStripped string `json:"description_stripped,omitempty"`
	State               any    `json:"state,omitempty"`
	StateID             string `json:"state_id,omitempty"`
	Priority            string `json:"priority,omitempty"`
	Module              any    `json:"module,omitempty"`
	ModuleID            string `json:"module_id,omitempty"`
	ProjectID           string `json:"project_id,omitempty"`
	Identifier          string `json:"identifier,omitempty"`
}

// ProjectCache holds everything cached for one project. It is fully replaced
// on sync and partially patched on single-record upserts.
type ProjectCache struct {
	// Modules is the project's module list in remote order
	Modules []Module `json:"modules"`

	// WorkItems is the project's full work-item collection, normalized
	WorkItems []WorkItem `json:"workItems"`

	// States is the project's workflow state list in remote order
	States []State `json:"states"`

	// LastSync is the time of the last successful full sync, zero if never synced
	LastSync time.Time `json:"lastSync,omitempty"`
}

// Cache is the process-wide cached picture of the workspace, keyed by project
// identifier. It is loaded from persistent storage at startup and saved back
// after every mutation.
type Cache struct {
	// Projects maps a project identifier to its cached data
	Projects map[string]ProjectCache `json:"projects"`

	// SelectedProjectID is the project implicitly targeted by commands that
	// don't name one
	SelectedProjectID string `json:"selectedProjectId,omitempty"`
}
