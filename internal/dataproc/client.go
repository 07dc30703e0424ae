// Package dataproc provides a wrapper around the Cloud Dataproc API.
package dataproc

import (
	"context"
	"time"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
)

// ClusterService defines cluster lifecycle operations.
// It abstracts the underlying generated API client.
type ClusterService interface {
	// CreateCluster creates a cluster and waits for the operation to
	// complete. A collision with an existing cluster of the same name
	// surfaces as an AlreadyExists error (see IsAlreadyExists).
	CreateCluster(ctx context.Context, project, region string, cluster *dataprocpb.Cluster, requestID string) (*dataprocpb.Cluster, error)

	// GetCluster fetches the current cluster record. A missing record
	// surfaces as a NotFound error (see IsNotFound).
	GetCluster(ctx context.Context, project, region, name string) (*dataprocpb.Cluster, error)

	// DeleteCluster deletes the cluster and waits for the operation to
	// complete.
	DeleteCluster(ctx context.Context, project, region, name string) error

	// DiagnoseCluster captures a diagnostic bundle for the cluster and
	// returns the output URI of the bundle.
	DiagnoseCluster(ctx context.Context, project, region, name string) (string, error)

	// UpdateCluster applies the given cluster spec to the named cluster,
	// restricted to the field-mask paths, and waits for completion.
	UpdateCluster(ctx context.Context, project, region string, cluster *dataprocpb.Cluster, updatePaths []string, gracefulDecommission time.Duration, requestID string) (*dataprocpb.Cluster, error)
}

// JobService defines job submission and tracking operations.
type JobService interface {
	// SubmitJob submits a job without waiting for it to finish.
	SubmitJob(ctx context.Context, project, region string, job *dataprocpb.Job, requestID string) (*dataprocpb.Job, error)

	// GetJob fetches the current job record.
	GetJob(ctx context.Context, project, region, jobID string) (*dataprocpb.Job, error)

	// CancelJob requests cancellation of a running job.
	CancelJob(ctx context.Context, project, region, jobID string) (*dataprocpb.Job, error)

	// WaitJob polls the job until it reaches a terminal state.
	WaitJob(ctx context.Context, project, region, jobID string, pollInterval time.Duration) (*dataprocpb.Job, error)
}

// BatchService defines serverless batch operations.
type BatchService interface {
	// CreateBatch creates a batch workload and waits for the operation to
	// complete. A collision with an existing batch of the same ID surfaces
	// as an AlreadyExists error.
	CreateBatch(ctx context.Context, project, region string, batch *dataprocpb.Batch, batchID, requestID string) (*dataprocpb.Batch, error)

	// GetBatch fetches the current batch record.
	GetBatch(ctx context.Context, project, region, batchID string) (*dataprocpb.Batch, error)

	// DeleteBatch deletes the batch workload.
	DeleteBatch(ctx context.Context, project, region, batchID string) error

	// ListBatches lists batch workloads in the region, newest first.
	ListBatches(ctx context.Context, project, region string, pageSize int32, filter string) ([]*dataprocpb.Batch, error)

	// WaitBatch polls the batch until it reaches a terminal state.
	WaitBatch(ctx context.Context, project, region, batchID string, pollInterval time.Duration) (*dataprocpb.Batch, error)
}

// WorkflowService defines workflow template operations.
type WorkflowService interface {
	// InstantiateWorkflowTemplate instantiates a stored template and waits
	// for the resulting workflow to finish. It returns the workflow ID.
	InstantiateWorkflowTemplate(ctx context.Context, project, region, templateID string, version int32, parameters map[string]string, requestID string) (string, error)

	// InstantiateInlineWorkflowTemplate instantiates an ad-hoc template and
	// waits for the resulting workflow to finish. It returns the workflow ID.
	InstantiateInlineWorkflowTemplate(ctx context.Context, project, region string, template *dataprocpb.WorkflowTemplate, requestID string) (string, error)

	// CreateWorkflowTemplate stores a template for later instantiation.
	CreateWorkflowTemplate(ctx context.Context, project, region string, template *dataprocpb.WorkflowTemplate) (*dataprocpb.WorkflowTemplate, error)
}

// Client bundles the per-resource services.
type Client interface {
	Clusters() ClusterService
	Jobs() JobService
	Batches() BatchService
	Workflows() WorkflowService
}

// RegionPath returns the parent resource path for region-scoped resources.
func RegionPath(project, region string) string {
	return "projects/" + project + "/locations/" + region
}

// BatchPath returns the fully qualified resource name of a batch.
func BatchPath(project, region, batchID string) string {
	return RegionPath(project, region) + "/batches/" + batchID
}

// TemplatePath returns the fully qualified resource name of a workflow template.
func TemplatePath(project, region, templateID string) string {
	return RegionPath(project, region) + "/workflowTemplates/" + templateID
}
