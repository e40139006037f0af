package provisioning

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/vmprov/internal/fault"
	"github.com/imamik/vmprov/internal/platform/shell"
	"github.com/imamik/vmprov/internal/provider"
	"github.com/imamik/vmprov/internal/ui/report"
	"github.com/imamik/vmprov/internal/vmconf"
)

// Gate asks the operator before a creation command runs.
type Gate interface {
	Confirm(ctx context.Context, cmd shell.Command) (bool, error)
}

// Dispatcher runs the commands a session produces.
//
// Creation commands go through the Gate and their output is rendered.
// Auxiliary commands run without confirmation and their output is
// discarded. In plan mode nothing runs; every command is printed instead.
type Dispatcher struct {
	runner   shell.Runner
	gate     Gate
	report   *report.Renderer
	observer Observer
	metrics  *Metrics
	plan     bool
}

// NewDispatcher creates a Dispatcher that executes commands.
func NewDispatcher(runner shell.Runner, gate Gate, renderer *report.Renderer, observer Observer, metrics *Metrics) *Dispatcher {
	return &Dispatcher{
		runner:   runner,
		gate:     gate,
		report:   renderer,
		observer: observer,
		metrics:  metrics,
	}
}

// NewPlanDispatcher creates a Dispatcher that only prints commands.
func NewPlanDispatcher(renderer *report.Renderer, observer Observer) *Dispatcher {
	return &Dispatcher{
		report:   renderer,
		observer: observer,
		plan:     true,
	}
}

// WithObserver returns a copy of d that logs through observer.
func (d *Dispatcher) WithObserver(observer Observer) *Dispatcher {
	c := *d
	c.observer = observer
	return &c
}

// Planning reports whether the dispatcher is in plan mode.
func (d *Dispatcher) Planning() bool {
	return d.plan
}

// Auxiliary runs a fire-and-forget command. Failures are logged, never
// returned, unless the context was cancelled.
func (d *Dispatcher) Auxiliary(ctx context.Context, phase string, cmd shell.Command) error {
	line := cmd.String()
	if d.plan {
		d.report.Planned(KindAuxiliary, line)
		return nil
	}

	LogCommand(d.observer, phase, KindAuxiliary, line)
	res, err := d.runner.Run(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		d.metrics.RecordCommand(phase, KindAuxiliary, false)
		LogCommandFailed(d.observer, phase, KindAuxiliary, line, err.Error())
		return nil
	}
	if res.Failed() {
		d.metrics.RecordCommand(phase, KindAuxiliary, false)
		LogCommandFailed(d.observer, phase, KindAuxiliary, line, fmt.Sprintf("exit status %d", res.ExitCode))
		return nil
	}
	d.metrics.RecordCommand(phase, KindAuxiliary, true)
	return nil
}

// Ensure makes sure a prerequisite exists, creating it when absent.
// Running it twice is harmless: the second check finds the resource.
func (d *Dispatcher) Ensure(ctx context.Context, phase, tag string, p provider.Prerequisite) error {
	if d.plan {
		d.report.Planned(KindPrerequisite, p.Check.String())
		d.report.Planned(KindPrerequisite, p.Create.String()+"  # only if absent")
		return nil
	}

	res, err := d.run(ctx, phase, KindPrerequisite, p.Check)
	if err != nil {
		return prerequisiteError(tag, p, "failed to check", err)
	}
	exists, err := p.Exists(res.Output)
	if err != nil {
		return prerequisiteError(tag, p, "failed to check", err)
	}
	if exists {
		LogPrerequisite(d.observer, phase, p.Resource, false)
		return nil
	}

	if _, err := d.run(ctx, phase, KindPrerequisite, p.Create); err != nil {
		return prerequisiteError(tag, p, "failed to create", err)
	}
	LogPrerequisite(d.observer, phase, p.Resource, true)
	return nil
}

// Primary confirms and runs a VM creation command and renders its result.
//
// A declined confirmation returns a fault.KindUserDeclined error. A command
// that fails still has its output rendered and is not an error.
func (d *Dispatcher) Primary(ctx context.Context, p provider.Provider, decl *vmconf.Declaration, cmd shell.Command) error {
	phase := p.Spec().DisplayName
	line := cmd.String()
	if d.plan {
		d.report.Planned(KindPrimary, line)
		return nil
	}

	confirmed, err := d.gate.Confirm(ctx, cmd)
	if err != nil {
		return fmt.Errorf("confirmation for %s failed: %w", decl.Tag, err)
	}
	if !confirmed {
		return &fault.Error{Kind: fault.KindUserDeclined, Msg: "execution declined, exiting", Tag: decl.Tag}
	}

	d.metrics.RecordDeclaration(phase)
	LogCommand(d.observer, phase, KindPrimary, line)

	res, err := d.runner.Run(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		d.metrics.RecordCommand(phase, KindPrimary, false)
		LogCommandFailed(d.observer, phase, KindPrimary, line, err.Error())
		d.report.Raw([]byte(err.Error()))
		return nil
	}

	d.metrics.RecordCommand(phase, KindPrimary, !res.Failed())
	if res.Failed() {
		LogCommandFailed(d.observer, phase, KindPrimary, line, fmt.Sprintf("exit status %d", res.ExitCode))
	}

	summary, err := p.Summarize(decl, res.Output)
	switch {
	case err != nil:
		LogWarning(d.observer, phase, decl.Tag, fmt.Sprintf("showing raw output: %v", err))
		d.report.Raw(res.Output)
	case summary == nil:
		d.report.Raw(res.Output)
	default:
		d.report.Table(summary)
	}
	return nil
}

// run executes a command whose failure is fatal to the caller.
func (d *Dispatcher) run(ctx context.Context, phase, kind string, cmd shell.Command) (shell.Result, error) {
	LogCommand(d.observer, phase, kind, cmd.String())
	res, err := d.runner.Run(ctx, cmd)
	if err != nil {
		d.metrics.RecordCommand(phase, kind, false)
		return res, err
	}
	if res.Failed() {
		d.metrics.RecordCommand(phase, kind, false)
		return res, fmt.Errorf("%s exited with status %d: %s", cmd.Name, res.ExitCode, strings.TrimSpace(string(res.Output)))
	}
	d.metrics.RecordCommand(phase, kind, true)
	return res, nil
}

func prerequisiteError(tag string, p provider.Prerequisite, action string, err error) error {
	return &fault.Error{
		Kind: fault.KindProviderPrerequisite,
		Msg:  fmt.Sprintf("%s %s", action, p.Resource),
		Tag:  tag,
		Err:  err,
	}
}
