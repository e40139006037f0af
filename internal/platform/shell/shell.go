// Package shell runs provider CLI commands.
//
// Commands are argument lists handed to the operating system directly and
// are never interpreted by a shell. String renders a quoted form for
// prompts and logs only.
package shell

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/alessio/shellescape"
)

// Command is a program and its arguments.
type Command struct {
	Name string
	Args []string
}

// New creates a Command.
func New(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Argv returns the full argument vector including the program name.
func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, c.Name)
	return append(argv, c.Args...)
}

// String renders the command with POSIX shell quoting.
func (c Command) String() string {
	return shellescape.QuoteCommand(c.Argv())
}

// Result is the outcome of a command that was started.
type Result struct {
	Output   []byte // combined stdout and stderr
	ExitCode int
}

// Failed reports a non-zero exit.
func (r Result) Failed() bool {
	return r.ExitCode != 0
}

// Runner executes commands.
type Runner interface {
	// Run executes cmd and waits for it. A non-zero exit is reported in the
	// Result, not as an error; the error is reserved for commands that could
	// not be started or were cancelled.
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	// #nosec G204 - arguments are passed as a list, never through a shell
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	output, err := c.CombinedOutput()
	if err == nil {
		return Result{Output: output}, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{Output: output}, fmt.Errorf("%s interrupted: %w", cmd.Name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{Output: output, ExitCode: exitErr.ExitCode()}, nil
	}

	return Result{Output: output, ExitCode: -1}, fmt.Errorf("failed to run %s: %w", cmd.Name, err)
}
