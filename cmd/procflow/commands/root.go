// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/procflow-io/procflow/cmd/procflow/handlers"
)

// Root returns the root command for the procflow CLI.
//
// The root command serves as the entry point and parent for all
// subcommands. Profile and location flags are persistent so every
// subcommand shares them.
func Root() *cobra.Command {
	var common handlers.Common

	cmd := &cobra.Command{
		Use:   "procflow",
		Short: "Orchestrate Dataproc clusters, jobs, templates, and batches",
	}

	cmd.PersistentFlags().StringVarP(&common.ConfigPath, "config", "c", "", "Path to the profile file")
	cmd.PersistentFlags().StringVar(&common.Project, "project", "", "Project ID (overrides the profile)")
	cmd.PersistentFlags().StringVar(&common.Region, "region", "", "Region (overrides the profile)")
	cmd.PersistentFlags().BoolVarP(&common.Verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(Cluster(&common))
	cmd.AddCommand(Job(&common))
	cmd.AddCommand(Template(&common))
	cmd.AddCommand(Batch(&common))
	cmd.AddCommand(Version())

	return cmd
}
