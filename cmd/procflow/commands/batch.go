package commands

import (
	"github.com/spf13/cobra"

	"github.com/procflow-io/procflow/cmd/procflow/handlers"
)

// Batch returns the serverless batch command group.
func Batch(common *handlers.Common) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Manage serverless batch workloads",
	}

	cmd.AddCommand(batchCreate(common))
	cmd.AddCommand(batchDelete(common))
	cmd.AddCommand(batchGet(common))
	cmd.AddCommand(batchList(common))

	return cmd
}

// batchCreate returns the batch create command.
func batchCreate(common *handlers.Common) *cobra.Command {
	opts := handlers.BatchCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create BATCH_ID",
		Short: "Create a batch workload and wait for it to finish",
		Long: `Create a serverless batch workload from a protojson Batch spec and
wait for it to reach a terminal state. If a batch with the same ID
already exists, the existing workload is adopted and awaited instead.

Example:
  procflow -c profile.yaml batch create nightly-etl --spec batch.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Common = *common
			opts.BatchID = args[0]
			return handlers.BatchCreate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.SpecFile, "spec", "", "Path to a protojson Batch document (required)")
	cmd.Flags().StringToStringVar(&opts.Labels, "label", nil, "Labels to apply (key=value)")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

// batchDelete returns the batch delete command.
func batchDelete(common *handlers.Common) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete BATCH_ID",
		Short: "Delete a batch workload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.BatchDelete(cmd.Context(), handlers.BatchDeleteOptions{
				Common:  *common,
				BatchID: args[0],
			})
		},
	}
	return cmd
}

// batchGet returns the batch get command.
func batchGet(common *handlers.Common) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get BATCH_ID",
		Short: "Print a batch workload as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.BatchGet(cmd.Context(), handlers.BatchGetOptions{
				Common:  *common,
				BatchID: args[0],
			})
		},
	}
	return cmd
}

// batchList returns the batch list command.
func batchList(common *handlers.Common) *cobra.Command {
	opts := handlers.BatchListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List batch workloads in the region",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Common = *common
			return handlers.BatchList(cmd.Context(), opts)
		},
	}

	cmd.Flags().Int32Var(&opts.PageSize, "page-size", 0, "Page size (0 for the service default)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "Server-side filter expression")

	return cmd
}
