package commands

import (
	"github.com/spf13/cobra"

	"github.com/procflow-io/procflow/cmd/procflow/handlers"
)

// Cluster returns the cluster command group.
func Cluster(common *handlers.Common) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Manage Dataproc clusters",
	}

	cmd.AddCommand(clusterCreate(common))
	cmd.AddCommand(clusterDelete(common))
	cmd.AddCommand(clusterDiagnose(common))
	cmd.AddCommand(clusterUpdate(common))

	return cmd
}

// clusterCreate returns the cluster create command.
//
// The cluster shape comes either from a protojson spec file or from the
// flat shape flags. A name collision with an existing cluster is resolved
// per the --use-if-exists and --delete-on-error flags.
func clusterCreate(common *handlers.Common) *cobra.Command {
	opts := handlers.ClusterCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a cluster",
		Long: `Create a Dataproc cluster and wait for it to be running.

When a cluster with the same name already exists:
  - with --use-if-exists, a RUNNING cluster is reused as-is
  - with --delete-on-error, a cluster stuck in ERROR state is deleted
    and the create is retried once
  - otherwise the collision is an error

Example:
  procflow -c profile.yaml cluster create analytics --num-workers 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Common = *common
			opts.ClusterName = args[0]
			return handlers.ClusterCreate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.SpecFile, "spec", "", "Path to a protojson ClusterConfig document")
	cmd.Flags().Int32Var(&opts.NumMasters, "num-masters", 1, "Number of master nodes")
	cmd.Flags().Int32Var(&opts.NumWorkers, "num-workers", 2, "Number of worker nodes (0 for single-node)")
	cmd.Flags().Int32Var(&opts.NumSecondaryWorkers, "num-secondary-workers", 0, "Number of preemptible workers")
	cmd.Flags().StringVar(&opts.MasterMachineType, "master-machine-type", "", "Master machine type")
	cmd.Flags().StringVar(&opts.WorkerMachineType, "worker-machine-type", "", "Worker machine type")
	cmd.Flags().StringVar(&opts.ImageVersion, "image-version", "", "Image version")
	cmd.Flags().StringVar(&opts.Zone, "zone", "", "Compute zone")
	cmd.Flags().StringVar(&opts.StorageBucket, "bucket", "", "Staging bucket")
	cmd.Flags().StringToStringVar(&opts.Labels, "label", nil, "Labels to apply (key=value)")
	cmd.Flags().BoolVar(&opts.UseIfExists, "use-if-exists", false, "Reuse an existing RUNNING cluster with this name")
	cmd.Flags().BoolVar(&opts.DeleteOnError, "delete-on-error", false, "Delete and recreate an existing cluster stuck in ERROR")

	return cmd
}

// clusterDelete returns the cluster delete command.
func clusterDelete(common *handlers.Common) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a cluster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ClusterDelete(cmd.Context(), handlers.ClusterDeleteOptions{
				Common:      *common,
				ClusterName: args[0],
			})
		},
	}
	return cmd
}

// clusterDiagnose returns the cluster diagnose command.
func clusterDiagnose(common *handlers.Common) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose NAME",
		Short: "Capture a diagnostic bundle for a cluster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ClusterDiagnose(cmd.Context(), handlers.ClusterDiagnoseOptions{
				Common:      *common,
				ClusterName: args[0],
			})
		},
	}
	return cmd
}

// clusterUpdate returns the cluster update command.
func clusterUpdate(common *handlers.Common) *cobra.Command {
	opts := handlers.ClusterUpdateOptions{}

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Apply a masked update to a cluster",
		Long: `Update a cluster from a protojson Cluster spec restricted to the
given field-mask paths.

Example:
  procflow -c profile.yaml cluster update analytics \
    --spec resize.json --path config.worker_config.num_instances`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Common = *common
			opts.ClusterName = args[0]
			return handlers.ClusterUpdate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.SpecFile, "spec", "", "Path to a protojson Cluster document (required)")
	cmd.Flags().StringArrayVar(&opts.UpdatePaths, "path", nil, "Field-mask path to apply (repeatable, required)")
	cmd.Flags().DurationVar(&opts.GracefulDecommission, "graceful-decommission", 0, "Graceful decommission timeout for removed workers")
	_ = cmd.MarkFlagRequired("spec")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}
