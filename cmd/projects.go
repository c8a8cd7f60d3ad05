package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/orbit/internal/plane"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects in the workspace",
	Long: `List every project in the configured Plane workspace, with the project
id to pass to 'orbit sync --project'. This command reads from the remote and
does not touch the local cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := plane.NewClient()
		if err != nil {
			return fmt.Errorf("failed to initialize plane client: %w", err)
		}

		projects, err := client.ListProjects(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		if len(projects) == 0 {
			fmt.Println("No projects found in the workspace")
			return nil
		}

		for _, project := range projects {
			if project.Identifier != "" {
				fmt.Printf("%s  [%s] %s\n", project.ID, project.Identifier, project.Name)
			} else {
				fmt.Printf("%s  %s\n", project.ID, project.Name)
			}
		}
		return nil
	},
}
