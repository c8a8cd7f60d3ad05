package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/orbit/internal/cache"
	"github.com/danielolaszy/orbit/internal/config"
	"github.com/danielolaszy/orbit/internal/plane"
)

// fakeRemote serves a minimal Plane API for one project.
type fakeRemote struct {
	modules    string
	states     string
	moduleItem map[string]string // module id -> issues response
	unassigned string
	statusFail bool
	createResp string
}

func (f *fakeRemote) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/workspaces/acme/projects/p1/modules/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, f.modules)
	})
	mux.HandleFunc("/api/v1/workspaces/acme/projects/p1/states/", func(w http.ResponseWriter, r *http.Request) {
		if f.statusFail {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error": "states unavailable"}`)
			return
		}
		fmt.Fprint(w, f.states)
	})
	mux.HandleFunc("/api/v1/workspaces/acme/projects/p1/issues/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, f.createResp)
			return
		}
		if moduleID := r.URL.Query().Get("module"); moduleID != "" {
			body, ok := f.moduleItem[moduleID]
			require.True(t, ok, "unexpected module filter %q", moduleID)
			fmt.Fprint(w, body)
			return
		}
		fmt.Fprint(w, f.unassigned)
	})
	return mux
}

// newTestSyncer wires a syncer against the fake remote, backed by a real
// file persister in a temp dir.
func newTestSyncer(t *testing.T, remote *fakeRemote) (*Syncer, *cache.Store) {
	server := httptest.NewServer(remote.handler(t))
	t.Cleanup(server.Close)

	client := plane.NewClientWithConfig(&config.Config{
		Plane: config.PlaneConfig{
			BaseURL:   server.URL,
			APIKey:    "test-key",
			Workspace: "acme",
		},
	})

	store, err := cache.NewStore(cache.NewFilePersister(filepath.Join(t.TempDir(), "cache.json")))
	require.NoError(t, err)

	return New(client, store), store
}

func TestSyncEndToEnd(t *testing.T) {
	remote := &fakeRemote{
		modules: `{"results": [{"id": "m1", "name": "Sprint 1", "project_id": "p1"}], "next_page_results": false}`,
		states:  `[{"id": "s1", "name": "Todo", "group": "backlog"}]`,
		moduleItem: map[string]string{
			"m1": `{"results": [{"id": "i1", "name": "A", "state": "s1", "project_id": "p1"}], "next_page_results": false}`,
		},
		unassigned: `{"results": [], "next_page_results": false}`,
	}

	syncer, store := newTestSyncer(t, remote)
	require.NoError(t, syncer.Sync(context.Background(), "p1"))

	data := store.ProjectData("p1")

	require.Len(t, data.Modules, 1)
	assert.Equal(t, "m1", data.Modules[0].ID)

	require.Len(t, data.States, 1)
	assert.Equal(t, "Todo", data.States[0].Name)

	require.Len(t, data.WorkItems, 1)
	item := data.WorkItems[0]
	assert.Equal(t, "i1", item.ID)
	assert.Equal(t, "m1", item.Module)
	assert.Equal(t, "s1", item.State)
	assert.Equal(t, "s1", item.StateID)

	assert.False(t, data.LastSync.IsZero())
	assert.Equal(t, "p1", store.SelectedProjectID())
}

func TestSyncStampsModuleMembership(t *testing.T) {
	// The item embeds a different module reference; the module-scoped query
	// it came from is ground truth and wins.
	remote := &fakeRemote{
		modules: `{"results": [{"id": "m1", "name": "Sprint 1"}], "next_page_results": false}`,
		states:  `[]`,
		moduleItem: map[string]string{
			"m1": `{"results": [{"id": "i1", "name": "A", "module": {"id": "stale"}}], "next_page_results": false}`,
		},
		unassigned: `{"results": [], "next_page_results": false}`,
	}

	syncer, store := newTestSyncer(t, remote)
	require.NoError(t, syncer.Sync(context.Background(), "p1"))

	items := store.ProjectData("p1").WorkItems
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].Module)
}

func TestSyncOrdersUnassignedFirst(t *testing.T) {
	remote := &fakeRemote{
		modules: `{"results": [{"id": "m1", "name": "Sprint 1"}], "next_page_results": false}`,
		states:  `[]`,
		moduleItem: map[string]string{
			"m1": `{"results": [{"id": "i2", "name": "Scoped"}], "next_page_results": false}`,
		},
		unassigned: `{"results": [{"id": "i1", "name": "Loose"}], "next_page_results": false}`,
	}

	syncer, store := newTestSyncer(t, remote)
	require.NoError(t, syncer.Sync(context.Background(), "p1"))

	items := store.ProjectData("p1").WorkItems
	require.Len(t, items, 2)
	assert.Equal(t, "i1", items[0].ID)
	assert.Equal(t, "i2", items[1].ID)
}

func TestSyncFailureLeavesCacheIntact(t *testing.T) {
	remote := &fakeRemote{
		modules: `{"results": [{"id": "m1", "name": "Sprint 1"}], "next_page_results": false}`,
		states:  `[{"id": "s1", "name": "Todo"}]`,
		moduleItem: map[string]string{
			"m1": `{"results": [], "next_page_results": false}`,
		},
		unassigned: `{"results": [], "next_page_results": false}`,
	}

	syncer, store := newTestSyncer(t, remote)

	// First sync succeeds and seeds the cache.
	require.NoError(t, syncer.Sync(context.Background(), "p1"))
	before := store.ProjectData("p1")

	// Second sync fails on the state fetch.
	remote.statusFail = true
	err := syncer.Sync(context.Background(), "p1")
	require.Error(t, err)

	var apiErr *plane.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)

	// The previously cached entry is untouched.
	after := store.ProjectData("p1")
	assert.Equal(t, before.Modules, after.Modules)
	assert.Equal(t, before.States, after.States)
	assert.Equal(t, before.LastSync, after.LastSync)
}

func TestSyncRequiresProject(t *testing.T) {
	syncer, _ := newTestSyncer(t, &fakeRemote{})
	assert.Error(t, syncer.Sync(context.Background(), ""))
}

func TestUpsertWorkItemCreateEndToEnd(t *testing.T) {
	remote := &fakeRemote{
		createResp: `{"id": "srv-1", "name": "Task", "state": {"id": "s1"}, "project_id": "p1"}`,
	}

	syncer, store := newTestSyncer(t, remote)
	item, err := syncer.UpsertWorkItem(context.Background(), "p1", map[string]any{"name": "Task"}, "")

	require.NoError(t, err)
	assert.Equal(t, "srv-1", item.ID)
	assert.Equal(t, "s1", item.State)
	assert.Equal(t, "s1", item.StateID)

	items := store.ProjectData("p1").WorkItems
	require.Len(t, items, 1)
	assert.Equal(t, "srv-1", items[0].ID)
}

func TestUpsertWorkItemRemoteFailureLeavesCacheUnmodified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail": "name required"}`)
	}))
	t.Cleanup(server.Close)

	client := plane.NewClientWithConfig(&config.Config{
		Plane: config.PlaneConfig{BaseURL: server.URL, APIKey: "k", Workspace: "acme"},
	})
	store, err := cache.NewStore(cache.NewFilePersister(filepath.Join(t.TempDir(), "cache.json")))
	require.NoError(t, err)
	syncer := New(client, store)

	_, err = syncer.UpsertWorkItem(context.Background(), "p1", map[string]any{}, "")
	require.Error(t, err)

	// The merge only happens after the remote write succeeds.
	assert.Empty(t, store.ProjectData("p1").WorkItems)
}

func TestUpsertFallsBackToSelectedProject(t *testing.T) {
	remote := &fakeRemote{
		modules:    `{"results": [], "next_page_results": false}`,
		states:     `[]`,
		moduleItem: map[string]string{},
		unassigned: `{"results": [], "next_page_results": false}`,
		createResp: `{"id": "srv-2", "name": "Task", "project_id": "p1"}`,
	}

	syncer, store := newTestSyncer(t, remote)
	require.NoError(t, syncer.Sync(context.Background(), "p1"))

	// No explicit project: the selected one from the sync is used.
	item, err := syncer.UpsertWorkItem(context.Background(), "", map[string]any{"name": "Task"}, "")
	require.NoError(t, err)
	assert.Equal(t, "srv-2", item.ID)
	require.Len(t, store.ProjectData("p1").WorkItems, 1)
}

func TestUpsertRequiresResolvableProject(t *testing.T) {
	syncer, _ := newTestSyncer(t, &fakeRemote{})

	_, err := syncer.UpsertWorkItem(context.Background(), "", map[string]any{"name": "Task"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no project selected")
}

func TestUpsertModuleUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/workspaces/acme/projects/p1/modules/m1/", r.URL.Path)

		var fields map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		fmt.Fprintf(w, `{"id": "m1", "name": %q}`, fields["name"])
	}))
	t.Cleanup(server.Close)

	client := plane.NewClientWithConfig(&config.Config{
		Plane: config.PlaneConfig{BaseURL: server.URL, APIKey: "k", Workspace: "acme"},
	})
	store, err := cache.NewStore(cache.NewFilePersister(filepath.Join(t.TempDir(), "cache.json")))
	require.NoError(t, err)
	syncer := New(client, store)

	module, err := syncer.UpsertModule(context.Background(), "p1", map[string]any{"name": "Sprint One"}, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Sprint One", module.Name)

	modules := store.ProjectData("p1").Modules
	require.Len(t, modules, 1)
	assert.Equal(t, "Sprint One", modules[0].Name)
}
