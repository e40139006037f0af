// Package main is the entry point for the vmprov CLI.
//
// vmprov reads azure.conf and gcp.conf, validates every declared VM, and
// creates them through the az and gcloud CLIs after asking for
// confirmation. A successful run leaves an audit record and timestamped
// copies of both files in the work directory.
//
// Commands: apply, plan, doctor, version.
//
// For detailed usage information, run:
//
//	vmprov --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/imamik/vmprov/cmd/vmprov/commands"
	"github.com/imamik/vmprov/internal/fault"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(fault.ExitCode(err))
	}
}
