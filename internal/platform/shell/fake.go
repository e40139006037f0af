package shell

import (
	"context"
	"strings"
)

// FakeRunner is a Runner for tests. It records every command and answers
// from Responses, keyed by the command's String form. Commands without a
// response succeed with empty output.
type FakeRunner struct {
	Responses map[string]Result
	Errors    map[string]error

	// Fallback, when set, answers commands missing from Responses.
	Fallback func(cmd Command) (Result, error)

	Calls []Command
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Responses: make(map[string]Result),
		Errors:    make(map[string]error),
	}
}

// Respond registers a successful output for the command rendered as line.
func (f *FakeRunner) Respond(line, output string) {
	f.Responses[line] = Result{Output: []byte(output)}
}

// Run implements Runner.
func (f *FakeRunner) Run(_ context.Context, cmd Command) (Result, error) {
	f.Calls = append(f.Calls, cmd)
	key := cmd.String()
	if err, ok := f.Errors[key]; ok {
		return Result{ExitCode: -1}, err
	}
	if res, ok := f.Responses[key]; ok {
		return res, nil
	}
	if f.Fallback != nil {
		return f.Fallback(cmd)
	}
	return Result{}, nil
}

// Lines returns the String form of every recorded call.
func (f *FakeRunner) Lines() []string {
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.String()
	}
	return lines
}

// Ran reports whether any recorded call starts with prefix.
func (f *FakeRunner) Ran(prefix string) bool {
	for _, line := range f.Lines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
