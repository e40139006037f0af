package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/vmprov/cmd/vmprov/handlers"
)

// Apply returns the command that provisions every declared VM.
//
// Optional flags:
//
//	--yes, -y: Run creation commands without asking
//	--settings, -s: Path to settings file
//	--dir, -d: Directory holding the provider files
//
// Environment variables:
//
//	VMPROV_*: Override any settings file value (e.g. VMPROV_AZURE_CLI)
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create the VMs declared in azure.conf and gcp.conf",
		Long: `Create the VMs declared in azure.conf and gcp.conf.

Azure declarations are processed first, then GCP. Each VM creation command
is shown and must be confirmed; declining stops the run. Firewall rules for
port entries are created as soon as they are read.

A successful run writes an audit record (VMcreation_<timestamp>) and
timestamped copies of both files to the work directory.

Examples:
  # Provision from the current directory
  vmprov apply

  # Provision from another directory without prompting
  vmprov apply -d ./vms --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.AutoApprove, "yes", "y", false, "Run creation commands without confirmation")
	settingsFlags(cmd, &opts.SettingsPath, &opts.WorkDir)

	return cmd
}
