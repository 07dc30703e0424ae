package operator

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/go-logr/logr"

	"github.com/procflow-io/procflow/internal/dataproc"
	"github.com/procflow-io/procflow/internal/links"
	"github.com/procflow-io/procflow/internal/metrics"
	"github.com/procflow-io/procflow/internal/reconcile"
)

// CreateCluster creates a cluster, resolving name collisions per the
// conflict policy.
type CreateCluster struct {
	Clusters dataproc.ClusterService

	Project     string
	Region      string
	ClusterName string

	// Config describes a compute-based cluster. Exactly one of Config and
	// VirtualClusterConfig may be set.
	Config *dataprocpb.ClusterConfig

	// VirtualClusterConfig describes a cluster running on GKE.
	VirtualClusterConfig *dataprocpb.VirtualClusterConfig

	Labels    map[string]string
	RequestID string
	Policy    reconcile.ConflictPolicy

	Log   logr.Logger
	Links LinkRecorder
}

// Execute runs the create and returns the authoritative cluster record.
func (o *CreateCluster) Execute(ctx context.Context) (cluster *dataprocpb.Cluster, err error) {
	defer func() { metrics.CountOperatorCall("create_cluster", callResult(err)) }()

	if err := o.validate(); err != nil {
		return nil, err
	}

	spec := &dataprocpb.Cluster{
		ProjectId:            o.Project,
		ClusterName:          o.ClusterName,
		Config:               o.Config,
		VirtualClusterConfig: o.VirtualClusterConfig,
		Labels:               o.Labels,
	}

	r := reconcile.New(o.Clusters, o.Project, o.Region, o.Policy, o.Log)
	outcome, cluster, err := r.Create(ctx, spec, o.RequestID)
	if err != nil {
		return nil, err
	}

	o.Log.Info("Cluster ready", "cluster", o.ClusterName, "outcome", outcome.String())
	record(o.Links, o.ClusterName, links.Cluster(o.Project, o.Region, o.ClusterName))
	return cluster, nil
}

func (o *CreateCluster) validate() error {
	if err := requireLocation(o.Project, o.Region); err != nil {
		return err
	}
	if o.ClusterName == "" {
		return fmt.Errorf("cluster name is required")
	}
	if o.Config != nil && o.VirtualClusterConfig != nil {
		return fmt.Errorf("config and virtual cluster config are mutually exclusive")
	}
	return nil
}

// DeleteCluster deletes a cluster and waits for the deletion to complete.
type DeleteCluster struct {
	Clusters dataproc.ClusterService

	Project     string
	Region      string
	ClusterName string

	Log logr.Logger
}

// Execute runs the delete. Deleting an absent cluster is not an error.
func (o *DeleteCluster) Execute(ctx context.Context) (err error) {
	defer func() { metrics.CountOperatorCall("delete_cluster", callResult(err)) }()

	if err := requireLocation(o.Project, o.Region); err != nil {
		return err
	}

	err = o.Clusters.DeleteCluster(ctx, o.Project, o.Region, o.ClusterName)
	if dataproc.IsNotFound(err) {
		o.Log.Info("Cluster already gone", "cluster", o.ClusterName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete cluster %s: %w", o.ClusterName, err)
	}

	o.Log.Info("Cluster deleted", "cluster", o.ClusterName)
	return nil
}

// DiagnoseCluster captures a diagnostic bundle for a cluster.
type DiagnoseCluster struct {
	Clusters dataproc.ClusterService

	Project     string
	Region      string
	ClusterName string

	Log   logr.Logger
	Links LinkRecorder
}

// Execute captures the bundle and returns its output URI.
func (o *DiagnoseCluster) Execute(ctx context.Context) (uri string, err error) {
	defer func() { metrics.CountOperatorCall("diagnose_cluster", callResult(err)) }()

	if err := requireLocation(o.Project, o.Region); err != nil {
		return "", err
	}

	uri, err = o.Clusters.DiagnoseCluster(ctx, o.Project, o.Region, o.ClusterName)
	if err != nil {
		return "", fmt.Errorf("failed to diagnose cluster %s: %w", o.ClusterName, err)
	}

	o.Log.Info("Cluster diagnostics captured", "cluster", o.ClusterName, "outputURI", uri)
	record(o.Links, o.ClusterName, links.Cluster(o.Project, o.Region, o.ClusterName))
	return uri, nil
}

// UpdateCluster applies a partial cluster spec restricted to field-mask paths.
type UpdateCluster struct {
	Clusters dataproc.ClusterService

	Project     string
	Region      string
	ClusterName string

	Cluster              *dataprocpb.Cluster
	UpdatePaths          []string
	GracefulDecommission time.Duration
	RequestID            string

	Log   logr.Logger
	Links LinkRecorder
}

// Execute runs the update and returns the updated record.
func (o *UpdateCluster) Execute(ctx context.Context) (cluster *dataprocpb.Cluster, err error) {
	defer func() { metrics.CountOperatorCall("update_cluster", callResult(err)) }()

	if err := requireLocation(o.Project, o.Region); err != nil {
		return nil, err
	}
	if o.Cluster == nil {
		return nil, fmt.Errorf("cluster spec is required")
	}
	if len(o.UpdatePaths) == 0 {
		return nil, fmt.Errorf("update paths are required")
	}

	spec := o.Cluster
	if spec.GetClusterName() == "" {
		spec.ClusterName = o.ClusterName
	}

	cluster, err = o.Clusters.UpdateCluster(ctx, o.Project, o.Region, spec, o.UpdatePaths, o.GracefulDecommission, o.RequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cluster %s: %w", o.ClusterName, err)
	}

	o.Log.Info("Cluster updated", "cluster", o.ClusterName, "paths", o.UpdatePaths)
	record(o.Links, o.ClusterName, links.Cluster(o.Project, o.Region, o.ClusterName))
	return cluster, nil
}

// ScaleCluster resizes the primary and secondary worker groups.
//
// Deprecated: use UpdateCluster with explicit update paths. Kept for
// compatibility with older task definitions.
type ScaleCluster struct {
	Clusters dataproc.ClusterService

	Project     string
	Region      string
	ClusterName string

	NumWorkers           int32
	NumSecondaryWorkers  int32
	GracefulDecommission time.Duration

	Log   logr.Logger
	Links LinkRecorder
}

// Execute rewrites the scale request as a masked update.
func (o *ScaleCluster) Execute(ctx context.Context) (*dataprocpb.Cluster, error) {
	o.Log.Info("ScaleCluster is deprecated, use UpdateCluster instead")

	update := &UpdateCluster{
		Clusters:    o.Clusters,
		Project:     o.Project,
		Region:      o.Region,
		ClusterName: o.ClusterName,
		Cluster: &dataprocpb.Cluster{
			ClusterName: o.ClusterName,
			Config: &dataprocpb.ClusterConfig{
				WorkerConfig: &dataprocpb.InstanceGroupConfig{
					NumInstances: o.NumWorkers,
				},
				SecondaryWorkerConfig: &dataprocpb.InstanceGroupConfig{
					NumInstances: o.NumSecondaryWorkers,
				},
			},
		},
		UpdatePaths: []string{
			"config.worker_config.num_instances",
			"config.secondary_worker_config.num_instances",
		},
		GracefulDecommission: o.GracefulDecommission,
		Log:                  o.Log,
		Links:                o.Links,
	}
	return update.Execute(ctx)
}
