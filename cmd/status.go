package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is cached for a project",
	Long: `Display the cached picture of a project: module, work item and state
counts, plus the time of the last successful sync.

This command never touches the remote and works without API credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := cmd.Flags().GetString("project")
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}

		if project == "" {
			project = store.SelectedProjectID()
		}
		if project == "" {
			fmt.Println("Nothing cached yet. Run 'orbit sync --project <id>' first.")
			return nil
		}

		data := store.ProjectData(project)

		fmt.Printf("Project: %s\n", project)
		fmt.Printf("- Modules: %d\n", len(data.Modules))
		fmt.Printf("- Work items: %d\n", len(data.WorkItems))
		fmt.Printf("- States: %d\n", len(data.States))
		if data.LastSync.IsZero() {
			fmt.Println("- Last sync: never")
		} else {
			fmt.Printf("- Last sync: %s\n", data.LastSync.Format("2006-01-02 15:04:05"))
		}

		// Group cached items by workflow state for a quick board-like view.
		if len(data.States) > 0 && len(data.WorkItems) > 0 {
			byState := make(map[string]int)
			for _, item := range data.WorkItems {
				byState[item.StateID]++
			}

			fmt.Println("\nWork items by state:")
			for _, state := range data.States {
				fmt.Printf("- %s: %d\n", state.Name, byState[state.ID])
			}
			if unresolved := byState[""]; unresolved > 0 {
				fmt.Printf("- (no state): %d\n", unresolved)
			}
		}

		return nil
	},
}
