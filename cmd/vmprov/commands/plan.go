package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/vmprov/cmd/vmprov/handlers"
)

// Plan returns the command that prints what apply would run.
func Plan() *cobra.Command {
	var opts handlers.PlanOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Validate the config files and print the commands apply would run",
		Long: `Validate azure.conf and gcp.conf and print every command apply would run.

Nothing is executed and no audit files are written. Checks that depend on
the cloud, such as whether a resource group exists, are shown as the
commands that would perform them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), opts)
		},
	}

	settingsFlags(cmd, &opts.SettingsPath, &opts.WorkDir)

	return cmd
}
