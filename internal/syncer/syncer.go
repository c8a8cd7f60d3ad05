// Package syncer rebuilds a project's cached picture from the remote and
// applies single-record edits without a full resync.
package syncer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielolaszy/orbit/internal/cache"
	"github.com/danielolaszy/orbit/internal/logging"
	"github.com/danielolaszy/orbit/internal/normalize"
	"github.com/danielolaszy/orbit/internal/plane"
	"github.com/danielolaszy/orbit/pkg/models"
)

// Syncer sequences the remote calls needed to rebuild one project's full
// picture and is, together with the upsert paths below, the only writer of
// the cache store.
type Syncer struct {
	client *plane.Client
	store  *cache.Store
}

// New creates a Syncer over the given client and cache store.
func New(client *plane.Client, store *cache.Store) *Syncer {
	return &Syncer{client: client, store: store}
}

// Sync rebuilds the cached picture of one project: modules and states are
// fetched concurrently, then work items are fetched per module (concurrently)
// plus one unfiltered "unassigned" fetch, everything is normalized, and the
// project's cache entry is replaced in a single atomic write that also marks
// the project as selected and persists the cache.
//
// Any fetch failure aborts the whole sync before the cache is touched, so the
// project's previous entry survives a mid-sync failure intact. There are no
// automatic retries.
func (s *Syncer) Sync(ctx context.Context, projectID string) error {
	if projectID == "" {
		return fmt.Errorf("no project selected")
	}

	logging.Info("starting sync", "project_id", projectID)
	start := time.Now()

	// Modules and states first; the module list drives the item fan-out.
	var modules []models.Module
	var states []models.State

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		modules, err = s.client.ListModules(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		states, err = s.client.ListStates(gctx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	// Fan out one item fetch per module plus the unassigned fetch. Results
	// are collected per slot so the concatenation order below is stable.
	perModule := make([][]models.RawWorkItem, len(modules))
	var unassigned []models.RawWorkItem

	g, gctx = errgroup.WithContext(ctx)
	for i, module := range modules {
		i, module := i, module
		g.Go(func() error {
			items, err := s.client.ListWorkItems(gctx, projectID, module.ID)
			if err != nil {
				return err
			}
			// A module-scoped query is ground truth for membership: stamp the
			// module id over whatever the item itself carries.
			for j := range items {
				items[j].Module = module.ID
			}
			perModule[i] = items
			return nil
		})
	}
	g.Go(func() error {
		var err error
		unassigned, err = s.client.ListWorkItems(gctx, projectID, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	// Unassigned items first, then the per-module lists in module order.
	// Duplicates across the two views are kept as-is; the remote's answer is
	// not second-guessed here.
	raw := make([]models.RawWorkItem, 0, len(unassigned))
	raw = append(raw, unassigned...)
	for _, items := range perModule {
		raw = append(raw, items...)
	}

	workItems := make([]models.WorkItem, 0, len(raw))
	for _, record := range raw {
		workItems = append(workItems, normalize.WorkItem(record))
	}

	entry := models.ProjectCache{
		Modules:   modules,
		WorkItems: workItems,
		States:    states,
		LastSync:  time.Now(),
	}
	if err := s.store.ReplaceProject(projectID, entry); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	logging.Info("sync complete",
		"project_id", projectID,
		"modules", len(modules),
		"work_items", len(workItems),
		"states", len(states),
		"duration", time.Since(start))
	return nil
}

// UpsertWorkItem writes a work item to the remote (create when existingID is
// empty, update otherwise), normalizes the returned record, and merges it
// into the project's cached collection. The cache is only touched after the
// remote write succeeds.
func (s *Syncer) UpsertWorkItem(ctx context.Context, projectID string, fields map[string]any, existingID string) (models.WorkItem, error) {
	projectID, err := s.resolveProject(projectID)
	if err != nil {
		return models.WorkItem{}, err
	}

	var raw models.RawWorkItem
	if existingID == "" {
		raw, err = s.client.CreateWorkItem(ctx, projectID, fields)
	} else {
		raw, err = s.client.UpdateWorkItem(ctx, projectID, existingID, fields)
	}
	if err != nil {
		return models.WorkItem{}, err
	}

	item := normalize.WorkItem(raw)
	if err := s.store.UpsertWorkItem(projectID, item); err != nil {
		return models.WorkItem{}, err
	}

	logging.Debug("merged work item into cache",
		"project_id", projectID,
		"item_id", item.ID)
	return item, nil
}

// UpsertModule writes a module to the remote (create when existingID is
// empty, update otherwise) and merges the result into the project's cached
// collection. The cache is only touched after the remote write succeeds.
func (s *Syncer) UpsertModule(ctx context.Context, projectID string, fields map[string]any, existingID string) (models.Module, error) {
	projectID, err := s.resolveProject(projectID)
	if err != nil {
		return models.Module{}, err
	}

	var module models.Module
	if existingID == "" {
		module, err = s.client.CreateModule(ctx, projectID, fields)
	} else {
		module, err = s.client.UpdateModule(ctx, projectID, existingID, fields)
	}
	if err != nil {
		return models.Module{}, err
	}

	if err := s.store.UpsertModule(projectID, module); err != nil {
		return models.Module{}, err
	}
	return module, nil
}

// resolveProject falls back to the selected project when none is named.
func (s *Syncer) resolveProject(projectID string) (string, error) {
	if projectID != "" {
		return projectID, nil
	}
	if selected := s.store.SelectedProjectID(); selected != "" {
		return selected, nil
	}
	return "", fmt.Errorf("no project selected: run 'orbit sync --project <id>' first or pass --project")
}
