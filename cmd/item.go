package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Create or update work items",
	Long: `Create or update a work item in the remote project and merge the result
into the local cache, without triggering a full resync.`,
}

var itemCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a work item",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return err
		}
		if name == "" {
			return fmt.Errorf("name flag is required")
		}

		project, err := cmd.Flags().GetString("project")
		if err != nil {
			return err
		}

		s, _, err := newSyncer()
		if err != nil {
			return err
		}

		item, err := s.UpsertWorkItem(cmd.Context(), project, itemFields(cmd), "")
		if err != nil {
			return fmt.Errorf("failed to create work item: %w", err)
		}

		fmt.Printf("Created work item %s: %s\n", item.ID, item.Name)
		return nil
	},
}

var itemUpdateCmd = &cobra.Command{
	Use:   "update <item-id>",
	Short: "Update a work item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := itemFields(cmd)
		if len(fields) == 0 {
			return fmt.Errorf("nothing to update: pass at least one field flag")
		}

		project, err := cmd.Flags().GetString("project")
		if err != nil {
			return err
		}

		s, _, err := newSyncer()
		if err != nil {
			return err
		}

		item, err := s.UpsertWorkItem(cmd.Context(), project, fields, args[0])
		if err != nil {
			return fmt.Errorf("failed to update work item '%s': %w", args[0], err)
		}

		fmt.Printf("Updated work item %s: %s\n", item.ID, item.Name)
		return nil
	},
}

// itemFields collects the writable work-item fields from the flags the user
// actually set, so updates only send what changed.
func itemFields(cmd *cobra.Command) map[string]any {
	fields := map[string]any{}
	for flag, field := range map[string]string{
		"name":        "name",
		"description": "description_html",
		"state":       "state",
		"module":      "module",
		"priority":    "priority",
	} {
		if cmd.Flags().Changed(flag) {
			value, _ := cmd.Flags().GetString(flag)
			fields[field] = value
		}
	}
	return fields
}

func init() {
	for _, cmd := range []*cobra.Command{itemCreateCmd, itemUpdateCmd} {
		cmd.Flags().StringP("name", "n", "", "Work item title")
		cmd.Flags().StringP("description", "d", "", "Work item description (HTML)")
		cmd.Flags().StringP("state", "s", "", "Workflow state id")
		cmd.Flags().StringP("module", "m", "", "Module id to assign the item to")
		cmd.Flags().String("priority", "", "Priority (urgent, high, medium, low, none)")
		itemCmd.AddCommand(cmd)
	}
}
