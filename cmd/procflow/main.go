// Package main is the entry point for the procflow CLI.
//
// procflow is a command-line tool for orchestrating Google Cloud Dataproc
// resources: clusters, jobs, workflow templates, and serverless batch
// workloads. Every command is stateless; the service is the single source
// of truth and commands re-read state rather than caching it.
//
// Commands: cluster, job, template, batch, version.
//
// For detailed usage information, run:
//
//	procflow --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/procflow-io/procflow/cmd/procflow/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// An interrupt cancels the command context so long-running waits can
	// clean up remote work before exiting.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
