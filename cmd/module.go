package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moduleCmd = &cobra.Command{
	Use:   "module",
	Short: "Create or update modules",
	Long: `Create or update a module in the remote project and merge the result
into the local cache, without triggering a full resync.`,
}

var moduleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a module",
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

		module, err := s.UpsertModule(cmd.Context(), project, moduleFields(cmd), "")
		if err != nil {
			return fmt.Errorf("failed to create module: %w", err)
		}

		fmt.Printf("Created module %s: %s\n", module.ID, module.Name)
		return nil
	},
}

var moduleUpdateCmd = &cobra.Command{
	Use:   "update <module-id>",
	Short: "Update a module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := moduleFields(cmd)
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

		module, err := s.UpsertModule(cmd.Context(), project, fields, args[0])
		if err != nil {
			return fmt.Errorf("failed to update module '%s': %w", args[0], err)
		}

		fmt.Printf("Updated module %s: %s\n", module.ID, module.Name)
		return nil
	},
}

// moduleFields collects the writable module fields from the flags the user
// actually set.
func moduleFields(cmd *cobra.Command) map[string]any {
	fields := map[string]any{}
	for flag, field := range map[string]string{
		"name":        "name",
		"description": "description",
		"status":      "status",
		"start-date":  "start_date",
		"target-date": "target_date",
	} {
		if cmd.Flags().Changed(flag) {
			value, _ := cmd.Flags().GetString(flag)
			fields[field] = value
		}
	}
	return fields
}

func init() {
	for _, cmd := range []*cobra.Command{moduleCreateCmd, moduleUpdateCmd} {
		cmd.Flags().StringP("name", "n", "", "Module name")
		cmd.Flags().StringP("description", "d", "", "Module description")
		cmd.Flags().String("status", "", "Module status (planned, in-progress, completed)")
		cmd.Flags().String("start-date", "", "Start date (YYYY-MM-DD)")
		cmd.Flags().String("target-date", "", "Target date (YYYY-MM-DD)")
		moduleCmd.AddCommand(cmd)
	}
}
