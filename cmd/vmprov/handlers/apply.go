// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/vmprov/internal/audit"
	"github.com/imamik/vmprov/internal/config"
	"github.com/imamik/vmprov/internal/platform/shell"
	"github.com/imamik/vmprov/internal/provider"
	"github.com/imamik/vmprov/internal/provisioning"
	"github.com/imamik/vmprov/internal/ui/prompt"
	"github.com/imamik/vmprov/internal/ui/report"
	"github.com/imamik/vmprov/internal/util/prerequisites"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadSettings resolves settings from flags, file and environment.
	loadSettings = config.Load

	// loadIdentity reads the operator from the environment.
	loadIdentity = config.LoadIdentity

	// checkProviderPrereqs verifies the provider CLIs are installed.
	checkProviderPrereqs = prerequisites.CheckProviders

	// newRunner creates the command runner.
	newRunner = func() shell.Runner {
		return shell.NewExecRunner()
	}

	// newGate creates the confirmation gate.
	newGate = func(autoApprove bool) provisioning.Gate {
		return prompt.New(os.Stdin, os.Stdout, autoApprove)
	}

	// newObserver creates the run's observer.
	newObserver = func() provisioning.Observer {
		return provisioning.NewConsoleObserver()
	}

	// newRunID identifies a run in log lines.
	newRunID = uuid.NewString

	// now is the clock used for audit timestamps.
	now = time.Now

	// output receives prompts and result tables.
	output io.Writer = os.Stdout
)

// ApplyOptions are the flags of the apply command.
type ApplyOptions struct {
	SettingsPath string
	WorkDir      string
	AutoApprove  bool
}

// Apply provisions every VM declared in the Azure and GCP files.
//
// The workflow:
//  1. Resolves settings and checks that az and gcloud are installed
//  2. Processes the Azure file, then the GCP file, one declaration at a time
//  3. Writes the audit record and archives both files once everything succeeded
//
// A declined confirmation or any validation error stops the run before the
// audit step. Run counters are written to the metrics file either way.
func Apply(ctx context.Context, opts ApplyOptions) error {
	settings, err := loadSettings(opts.SettingsPath, opts.WorkDir)
	if err != nil {
		return err
	}
	if err := checkProviderPrereqs(settings.AzureCLI, settings.GCloudCLI).Error(); err != nil {
		return err
	}
	identity, err := loadIdentity()
	if err != nil {
		return err
	}

	observer := newObserver().WithFields(map[string]string{"run": newRunID()})
	metrics := provisioning.NewMetrics()
	defer writeMetrics(observer, metrics, settings)

	renderer := report.NewRenderer(output, prompt.IsTerminal(output))
	dispatcher := provisioning.NewDispatcher(newRunner(), newGate(opts.AutoApprove), renderer, observer, metrics)
	recorder := audit.NewRecorder(identity.Operator())

	if err := provisioning.Run(ctx, targets(settings), dispatcher, observer, recorder); err != nil {
		return err
	}

	res, err := recorder.Flush(settings.WorkDir, settings.AuditPrefix, []string{settings.AzurePath(), settings.GCPPath()}, now())
	if err != nil {
		return err
	}
	observer.Event(provisioning.Event{
		Type:     provisioning.EventAuditWritten,
		Phase:    "audit",
		Resource: res.Record,
		Message:  fmt.Sprintf("recorded %d declaration(s), archived %d file(s)", len(recorder.Entries()), len(res.Archives)),
	})
	return nil
}

// targets pairs each provider with its file, in processing order.
func targets(s *config.Settings) []provisioning.Target {
	providers := provider.All(provider.Options{AzureCLI: s.AzureCLI, GCloudCLI: s.GCloudCLI})
	files := []string{s.AzurePath(), s.GCPPath()}

	out := make([]provisioning.Target, len(providers))
	for i, p := range providers {
		out[i] = provisioning.Target{Provider: p, File: files[i]}
	}
	return out
}

func writeMetrics(observer provisioning.Observer, metrics *provisioning.Metrics, s *config.Settings) {
	if err := metrics.WriteTextfile(s.MetricsPath()); err != nil {
		observer.Printf("Warning: %v", err)
	}
}
