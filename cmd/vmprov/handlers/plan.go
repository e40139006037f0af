package handlers

import (
	"context"

	"github.com/imamik/vmprov/internal/provisioning"
	"github.com/imamik/vmprov/internal/ui/prompt"
	"github.com/imamik/vmprov/internal/ui/report"
)

// PlanOptions are the flags of the plan command.
type PlanOptions struct {
	SettingsPath string
	WorkDir      string
}

// Plan reads and validates both provider files and prints every command
// Apply would run, without running any of them.
func Plan(ctx context.Context, opts PlanOptions) error {
	settings, err := loadSettings(opts.SettingsPath, opts.WorkDir)
	if err != nil {
		return err
	}

	observer := newObserver().WithFields(map[string]string{"run": newRunID()})
	renderer := report.NewRenderer(output, prompt.IsTerminal(output))
	renderer.Section("Commands apply would run:")

	return provisioning.Run(ctx, targets(settings), provisioning.NewPlanDispatcher(renderer, observer), observer, nil)
}
