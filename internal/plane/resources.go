package plane

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/danielolaszy/orbit/internal/logging"
	"github.com/danielolaszy/orbit/pkg/models"
)

// ListProjects retrieves every project in the workspace.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	records, err := c.listPages(ctx, c.workspacePath("projects"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	return decodeRecords[models.Project](c.workspacePath("projects"), records), nil
}

// ListModules retrieves every module of a project.
func (c *Client) ListModules(ctx context.Context, projectID string) ([]models.Module, error) {
	path := c.projectPath(projectID, "modules")
	records, err := c.listPages(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch modules for project %s: %w", projectID, err)
	}
	return decodeRecords[models.Module](path, records), nil
}

// ListStates retrieves every workflow state of a project.
func (c *Client) ListStates(ctx context.Context, projectID string) ([]models.State, error) {
	path := c.projectPath(projectID, "states")
	records, err := c.listPages(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch states for project %s: %w", projectID, err)
	}
	return decodeRecords[models.State](path, records), nil
}

// ListWorkItems retrieves a project's work items in their raw wire shape.
// When moduleID is non-empty the list is filtered to that module; when empty
// the remote returns the unfiltered ("unassigned") view.
func (c *Client) ListWorkItems(ctx context.Context, projectID, moduleID string) ([]models.RawWorkItem, error) {
	path := c.projectPath(projectID, "issues")

	var query url.Values
	if moduleID != "" {
		query = url.Values{"module": []string{moduleID}}
	}

	records, err := c.listPages(ctx, path, query)
	if err != nil {
		if moduleID != "" {
			return nil, fmt.Errorf("failed to fetch work items for module %s: %w", moduleID, err)
		}
		return nil, fmt.Errorf("failed to fetch work items for project %s: %w", projectID, err)
	}

	logging.Debug("fetched work items",
		"project_id", projectID,
		"module_id", moduleID,
		"count", len(records))

	return decodeRecords[models.RawWorkItem](path, records), nil
}

// CreateWorkItem creates a work item from a subset of writable fields and
// returns the full record as stored by the remote.
func (c *Client) CreateWorkItem(ctx context.Context, projectID string, fields map[string]any) (models.RawWorkItem, error) {
	data, err := c.do(ctx, http.MethodPost, c.projectPath(projectID, "issues"), nil, fields)
	if err != nil {
		return models.RawWorkItem{}, fmt.Errorf("failed to create work item: %w", err)
	}

	var item models.RawWorkItem
	if err := json.Unmarshal(data, &item); err != nil {
		return models.RawWorkItem{}, fmt.Errorf("failed to decode created work item: %v", err)
	}
	return item, nil
}

// UpdateWorkItem updates an existing work item and returns the full updated
// record as stored by the remote.
func (c *Client) UpdateWorkItem(ctx context.Context, projectID, itemID string, fields map[string]any) (models.RawWorkItem, error) {
	path := c.projectPath(projectID, "issues") + itemID + "/"
	data, err := c.do(ctx, http.MethodPatch, path, nil, fields)
	if err != nil {
		return models.RawWorkItem{}, fmt.Errorf("failed to update work item %s: %w", itemID, err)
	}

	var item models.RawWorkItem
	if err := json.Unmarshal(data, &item); err != nil {
		return models.RawWorkItem{}, fmt.Errorf("failed to decode updated work item: %v", err)
	}
	return item, nil
}

// CreateModule creates a module from a subset of writable fields and returns
// the full record as stored by the remote.
func (c *Client) CreateModule(ctx context.Context, projectID string, fields map[string]any) (models.Module, error) {
	data, err := c.do(ctx, http.MethodPost, c.projectPath(projectID, "modules"), nil, fields)
	if err != nil {
		return models.Module{}, fmt.Errorf("failed to create module: %w", err)
	}

	var module models.Module
	if err := json.Unmarshal(data, &module); err != nil {
		return models.Module{}, fmt.Errorf("failed to decode created module: %v", err)
	}
	return module, nil
}

// UpdateModule updates an existing module and returns the full updated record
// as stored by the remote.
func (c *Client) UpdateModule(ctx context.Context, projectID, moduleID string, fields map[string]any) (models.Module, error) {
	path := c.projectPath(projectID, "modules") + moduleID + "/"
	data, err := c.do(ctx, http.MethodPatch, path, nil, fields)
	if err != nil {
		return models.Module{}, fmt.Errorf("failed to update module %s: %w", moduleID, err)
	}

	var module models.Module
	if err := json.Unmarshal(data, &module); err != nil {
		return models.Module{}, fmt.Errorf("failed to decode updated module: %v", err)
	}
	return module, nil
}
