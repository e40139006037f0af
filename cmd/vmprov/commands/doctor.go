package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/vmprov/cmd/vmprov/handlers"
)

// Doctor returns the command for checking the local setup.
//
// Optional flags:
//
//	--settings, -s: Path to settings file
//	--dir, -d: Directory holding the provider files
//	--json: Output in JSON format
func Doctor() *cobra.Command {
	var opts handlers.DoctorOptions

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the provider CLIs and config files are in place",
		Long: `Check that az and gcloud are installed and that azure.conf and
gcp.conf exist in the work directory.

Examples:
  # Check the current directory
  vmprov doctor

  # Machine-readable output
  vmprov doctor --json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Doctor(opts)
		},
	}

	settingsFlags(cmd, &opts.SettingsPath, &opts.WorkDir)
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}
