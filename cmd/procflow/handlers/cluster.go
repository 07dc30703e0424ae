package handlers

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/google/uuid"

	"github.com/procflow-io/procflow/internal/config"
	"github.com/procflow-io/procflow/internal/operator"
	"github.com/procflow-io/procflow/internal/reconcile"
)

// ClusterCreateOptions parameterizes the cluster create command.
type ClusterCreateOptions struct {
	Common

	ClusterName string

	// SpecFile is a protojson ClusterConfig document. When set, the flat
	// shape flags below are ignored.
	SpecFile string

	NumMasters          int32
	NumWorkers          int32
	NumSecondaryWorkers int32
	MasterMachineType   string
	WorkerMachineType   string
	ImageVersion        string
	Zone                string
	StorageBucket       string

	Labels map[string]string

	UseIfExists   bool
	DeleteOnError bool
}

// conflictPolicy builds the reconciliation policy from the create flags and
// the retry tuning in the environment (PROCFLOW_RETRY_*).
func (o ClusterCreateOptions) conflictPolicy(t *config.Timeouts) reconcile.ConflictPolicy {
	return reconcile.ConflictPolicy{
		UseIfExists:        o.UseIfExists,
		DeleteOnError:      o.DeleteOnError,
		DeletePollAttempts: t.RetryMaxAttempts,
		PollInitialDelay:   t.RetryInitialDelay,
	}
}

// ClusterCreate handles the cluster create command.
func ClusterCreate(ctx context.Context, opts ClusterCreateOptions) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	log, err := opts.logger()
	if err != nil {
		return err
	}

	var clusterCfg *dataprocpb.ClusterConfig
	if opts.SpecFile != "" {
		clusterCfg = &dataprocpb.ClusterConfig{}
		if err := readSpec(opts.SpecFile, clusterCfg); err != nil {
			return err
		}
	} else {
		builder := &operator.ClusterConfigBuilder{
			NumMasters:          opts.NumMasters,
			NumWorkers:          opts.NumWorkers,
			NumSecondaryWorkers: opts.NumSecondaryWorkers,
			MasterMachineType:   opts.MasterMachineType,
			WorkerMachineType:   opts.WorkerMachineType,
			ImageVersion:        opts.ImageVersion,
			ZoneURI:             opts.Zone,
			StorageBucket:       opts.StorageBucket,
		}
		clusterCfg, err = builder.Build()
		if err != nil {
			return err
		}
	}

	client, closeClient, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient() //nolint:errcheck

	op := &operator.CreateCluster{
		Clusters:    client.Clusters(),
		Project:     cfg.ProjectID,
		Region:      cfg.Region,
		ClusterName: opts.ClusterName,
		Config:      clusterCfg,
		Labels:      mergeLabels(cfg.Labels, opts.Labels),
		RequestID:   uuid.NewString(),
		Policy:      opts.conflictPolicy(config.LoadTimeouts()),
		Log:         log,
		Links:       printLink,
	}

	cluster, err := op.Execute(ctx)
	if err != nil {
		return fmt.Errorf("cluster create failed: %w", err)
	}

	fmt.Printf("Cluster %s is %s\n", cluster.GetClusterName(), cluster.GetStatus().GetState())
	return nil
}

// ClusterDeleteOptions parameterizes the cluster delete command.
type ClusterDeleteOptions struct {
	Common
	ClusterName string
}

// ClusterDelete handles the cluster delete command.
func ClusterDelete(ctx context.Context, opts ClusterDeleteOptions) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	log, err := opts.logger()
	if err != nil {
		return err
	}

	client, closeClient, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient() //nolint:errcheck

	op := &operator.DeleteCluster{
		Clusters:    client.Clusters(),
		Project:     cfg.ProjectID,
		Region:      cfg.Region,
		ClusterName: opts.ClusterName,
		Log:         log,
	}
	if err := op.Execute(ctx); err != nil {
		return fmt.Errorf("cluster delete failed: %w", err)
	}

	fmt.Printf("Cluster %s deleted\n", opts.ClusterName)
	return nil
}

// ClusterDiagnoseOptions parameterizes the cluster diagnose command.
type ClusterDiagnoseOptions struct {
	Common
	ClusterName string
}

// ClusterDiagnose handles the cluster diagnose command.
func ClusterDiagnose(ctx context.Context, opts ClusterDiagnoseOptions) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	log, err := opts.logger()
	if err != nil {
		return err
	}

	client, closeClient, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient() //nolint:errcheck

	op := &operator.DiagnoseCluster{
		Clusters:    client.Clusters(),
		Project:     cfg.ProjectID,
		Region:      cfg.Region,
		ClusterName: opts.ClusterName,
		Log:         log,
		Links:       printLink,
	}
	uri, err := op.Execute(ctx)
	if err != nil {
		return fmt.Errorf("cluster diagnose failed: %w", err)
	}

	fmt.Printf("Diagnostic bundle: %s\n", uri)
	return nil
}

// ClusterUpdateOptions parameterizes the cluster update command.
type ClusterUpdateOptions struct {
	Common

	ClusterName string

	// SpecFile is a protojson Cluster document holding the fields to
	// change. UpdatePaths restricts which of them are applied.
	SpecFile    string
	UpdatePaths []string

	GracefulDecommission time.Duration
}

// ClusterUpdate handles the cluster update command.
func ClusterUpdate(ctx context.Context, opts ClusterUpdateOptions) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	log, err := opts.logger()
	if err != nil {
		return err
	}

	spec := &dataprocpb.Cluster{}
	if err := readSpec(opts.SpecFile, spec); err != nil {
		return err
	}

	client, closeClient, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient() //nolint:errcheck

	op := &operator.UpdateCluster{
		Clusters:             client.Clusters(),
		Project:              cfg.ProjectID,
		Region:               cfg.Region,
		ClusterName:          opts.ClusterName,
		Cluster:              spec,
		UpdatePaths:          opts.UpdatePaths,
		GracefulDecommission: opts.GracefulDecommission,
		RequestID:            uuid.NewString(),
		Log:                  log,
		Links:                printLink,
	}
	cluster, err := op.Execute(ctx)
	if err != nil {
		return fmt.Errorf("cluster update failed: %w", err)
	}

	fmt.Printf("Cluster %s updated\n", cluster.GetClusterName())
	return nil
}
