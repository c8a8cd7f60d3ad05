package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the local cache for a project",
	Long: `Rebuild the local cached picture of one Plane project.

This command fetches the project's modules and workflow states, then every
module's work items plus the unassigned ones, normalizes all records, and
atomically replaces the project's cache entry. The synced project becomes the
default target for subsequent commands.

A failed sync never damages the cache: the previously cached entry is left
untouched and the error is reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := cmd.Flags().GetString("project")
		if err != nil {
			return err
		}

		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return err
		}

		s, store, err := newSyncer()
		if err != nil {
			return err
		}

		if project == "" {
			project = store.SelectedProjectID()
		}
		if project == "" {
			return fmt.Errorf("no project selected: pass --project (run 'orbit projects' to list them)")
		}

		if err := s.Sync(cmd.Context(), project); err != nil {
			return fmt.Errorf("sync failed for project '%s': %w", project, err)
		}

		if !quiet {
			data := store.ProjectData(project)
			fmt.Printf("Synced project '%s': %d modules, %d work items, %d states\n",
				project, len(data.Modules), len(data.WorkItems), len(data.States))
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolP("quiet", "q", false, "Suppress the success notice")
}
