// Package cache owns the local mirror of the remote workspace: a keyed
// mapping from project identifier to that project's cached modules, work
// items and workflow states, plus the selected-project pointer.
package cache

import (
	"fmt"
	"sync"

	"github.com/danielolaszy/orbit/internal/logging"
	"github.com/danielolaszy/orbit/pkg/models"
)

// Persister durably stores and restores the whole cache blob. The store does
// not care about the storage medium.
type Persister interface {
	// Save durably stores the cache blob.
	Save(cache models.Cache) error

	// Load restores the cache blob, returning (nil, nil) when none has been
	// stored yet.
	Load() (*models.Cache, error)
}

// Store is the exclusive owner of all cached project entries. The sync path
// writes via ReplaceProject and the local-edit path writes via the upsert
// methods; everything else only receives read-only snapshots.
//
// All state is guarded by a mutex: concurrent upserts never lose an update
// and no reader observes a partially replaced project entry.
type Store struct {
	mu        sync.RWMutex
	cache     models.Cache
	persister Persister
	onChange  func()
}

// NewStore creates a store backed by the given persister, restoring the
// previously persisted cache or starting from an empty one.
func NewStore(persister Persister) (*Store, error) {
	loaded, err := persister.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	cache := models.Cache{Projects: map[string]models.ProjectCache{}}
	if loaded != nil {
		cache = *loaded
		if cache.Projects == nil {
			cache.Projects = map[string]models.ProjectCache{}
		}
		logging.Debug("restored cache",
			"projects", len(cache.Projects),
			"selected_project", cache.SelectedProjectID)
	}

	return &Store{cache: cache, persister: persister}, nil
}

// OnChange registers a callback fired after every successful cache mutation.
// The callback carries no payload; it only signals that something changed.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// SelectedProjectID returns the project implicitly targeted by reads that
// don't name one, or empty if no project has been synced yet.
func (s *Store) SelectedProjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.SelectedProjectID
}

// ProjectData returns a snapshot of the cached data for the requested
// project, falling back to the selected project when projectID is empty. It
// never fails: if nothing is cached yet it returns an empty-shaped entry with
// non-nil collections.
func (s *Store) ProjectData(projectID string) models.ProjectCache {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if projectID == "" {
		projectID = s.cache.SelectedProjectID
	}

	entry, ok := s.cache.Projects[projectID]
	if !ok {
		return models.ProjectCache{
			Modules:   []models.Module{},
			WorkItems: []models.WorkItem{},
			States:    []models.State{},
		}
	}

	return copyProjectCache(entry)
}

// ReplaceProject atomically replaces a project's whole cache entry, marks the
// project as selected, and persists the cache.
func (s *Store) ReplaceProject(projectID string, entry models.ProjectCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Projects[projectID] = entry
	s.cache.SelectedProjectID = projectID

	return s.persistAndNotifyLocked()
}

// UpsertWorkItem merges one work item into a project's cached collection and
// persists the cache. Used after a remote create/update so a single edit
// doesn't pay for a full resync.
func (s *Store) UpsertWorkItem(projectID string, item models.WorkItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.cache.Projects[projectID]
	entry.WorkItems = UpsertWorkItem(entry.WorkItems, item)
	s.cache.Projects[projectID] = entry

	return s.persistAndNotifyLocked()
}

// UpsertModule merges one module into a project's cached collection and
// persists the cache.
func (s *Store) UpsertModule(projectID string, module models.Module) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.cache.Projects[projectID]
	entry.Modules = UpsertModule(entry.Modules, module)
	s.cache.Projects[projectID] = entry

	return s.persistAndNotifyLocked()
}

// persistAndNotifyLocked saves the cache and fires the change callback.
// Callers must hold the write lock.
func (s *Store) persistAndNotifyLocked() error {
	if err := s.persister.Save(s.cache); err != nil {
		return fmt.Errorf("failed to persist cache: %w", err)
	}
	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

// copyProjectCache returns a snapshot whose collections are detached from the
// store's own slices.
func copyProjectCache(entry models.ProjectCache) models.ProjectCache {
	snapshot := models.ProjectCache{
		Modules:   make([]models.Module, len(entry.Modules)),
		WorkItems: make([]models.WorkItem, len(entry.WorkItems)),
		States:    make([]models.State, len(entry.States)),
		LastSync:  entry.LastSync,
	}
	copy(snapshot.Modules, entry.Modules)
	copy(snapshot.WorkItems, entry.WorkItems)
	copy(snapshot.States, entry.States)
	return snapshot
}
