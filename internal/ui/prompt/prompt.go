// Package prompt implements the confirmation gate shown before a VM
// creation command runs.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/imamik/vmprov/internal/platform/shell"
	"github.com/imamik/vmprov/internal/provisioning"
)

// LinePrompt is the question asked by the line gate.
const LinePrompt = "y/n? ('n' will exit program): "

// New picks a gate for the given streams. autoApprove skips the question.
// A terminal gets an interactive form; anything else gets the line prompt.
func New(in io.Reader, out io.Writer, autoApprove bool) provisioning.Gate {
	if autoApprove {
		return AutoApprove{Out: out}
	}
	if IsTerminal(in) && IsTerminal(out) {
		return &FormGate{Out: out}
	}
	return NewLineGate(in, out)
}

// IsTerminal reports whether v is an *os.File attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func announce(out io.Writer, cmd shell.Command) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Would you like to execute the command: "+cmd.String())
	fmt.Fprintln(out)
}

// LineGate reads a y/n answer from a line-oriented stream. Only "y"
// (case-insensitive) confirms; end of input declines.
type LineGate struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineGate creates a LineGate reading from in and writing to out.
func NewLineGate(in io.Reader, out io.Writer) *LineGate {
	return &LineGate{in: bufio.NewReader(in), out: out}
}

// Confirm implements provisioning.Gate.
func (g *LineGate) Confirm(ctx context.Context, cmd shell.Command) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	announce(g.out, cmd)
	fmt.Fprint(g.out, LinePrompt)

	answer, err := g.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "y", nil
}

// FormGate asks with an interactive huh confirm.
type FormGate struct {
	Out io.Writer
}

// Confirm implements provisioning.Gate.
func (g *FormGate) Confirm(ctx context.Context, cmd shell.Command) (bool, error) {
	announce(g.Out, cmd)

	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Execute this command?").
				Description("Declining exits without processing further declarations").
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).RunWithContext(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return confirmed, nil
}

// AutoApprove confirms every command. The command is still announced.
type AutoApprove struct {
	Out io.Writer
}

// Confirm implements provisioning.Gate.
func (a AutoApprove) Confirm(ctx context.Context, cmd shell.Command) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a.Out != nil {
		fmt.Fprintln(a.Out, "Executing: "+cmd.String())
	}
	return true, nil
}
