// Package cmd provides the command-line interface for the Orbit CLI tool.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/orbit/internal/cache"
	"github.com/danielolaszy/orbit/internal/config"
	"github.com/danielolaszy/orbit/internal/logging"
	"github.com/danielolaszy/orbit/internal/plane"
	"github.com/danielolaszy/orbit/internal/syncer"
)

var rootCmd = &cobra.Command{
	Use:   "orbit",
	Short: "Orbit mirrors a Plane workspace into a local cache",
	Long: `Orbit is a CLI tool that mirrors a remote Plane workspace (projects,
modules, work items, workflow states) into a local cache, and lets you create
and update work items and modules without paying for a full resync per edit.

All commands that read cached data work offline; commands that talk to the
remote need PLANE_API_KEY (or PLANE_ACCESS_TOKEN) and PLANE_WORKSPACE set.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add persistent flags that will be available to all commands
	rootCmd.PersistentFlags().StringP("project", "p", "", "Plane project id (defaults to the last synced project)")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(moduleCmd)
}

// newSyncer wires a syncer from environment configuration: validated Plane
// credentials, an authenticated client, and a cache store restored from disk.
func newSyncer() (*syncer.Syncer, *cache.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	client := plane.NewClientWithConfig(cfg)

	store, err := cache.NewStore(cache.NewFilePersister(cfg.Cache.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache: %w", err)
	}
	store.OnChange(func() {
		logging.Debug("cache updated")
	})

	return syncer.New(client, store), store, nil
}

// openStore opens the cache store without requiring API credentials, for
// read-only commands that never touch the remote.
func openStore() (*cache.Store, error) {
	store, err := cache.NewStore(cache.NewFilePersister(config.CachePath()))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return store, nil
}
