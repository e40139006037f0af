// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing
// and flag binding. Command execution is delegated to handler functions in
// the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the vmprov CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vmprov",
		Short:         "Provision Azure and GCP virtual machines from config files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Apply())
	cmd.AddCommand(Plan())
	cmd.AddCommand(Doctor())
	cmd.AddCommand(Version())

	return cmd
}

// settingsFlags binds the flags shared by apply and plan.
func settingsFlags(cmd *cobra.Command, settingsPath, workDir *string) {
	cmd.Flags().StringVarP(settingsPath, "settings", "s", "", "Path to settings file (default: vmprov.yaml in the work directory)")
	cmd.Flags().StringVarP(workDir, "dir", "d", "", "Directory holding azure.conf and gcp.conf (default: current directory)")
}
