package dataproc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/dataproc/v2/apiv1"
	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/fieldmaskpb"

	"github.com/procflow-io/procflow/internal/config"
)

// RealClient implements Client using the generated Cloud Dataproc clients.
// All mutating calls wait for their long-running operations to complete
// before returning.
type RealClient struct {
	clusters  *dataproc.ClusterControllerClient
	jobs      *dataproc.JobControllerClient
	batches   *dataproc.BatchControllerClient
	workflows *dataproc.WorkflowTemplateClient
	timeouts  *config.Timeouts
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// NewRealClient creates a RealClient whose generated clients talk to the
// regional Dataproc endpoint. apiOpts carry the resolved credentials.
func NewRealClient(ctx context.Context, region string, apiOpts []option.ClientOption, opts ...ClientOption) (*RealClient, error) {
	endpoint := fmt.Sprintf("%s-dataproc.googleapis.com:443", region)
	apiOpts = append([]option.ClientOption{option.WithEndpoint(endpoint)}, apiOpts...)

	clusters, err := dataproc.NewClusterControllerClient(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster controller client: %w", err)
	}
	jobs, err := dataproc.NewJobControllerClient(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create job controller client: %w", err)
	}
	batches, err := dataproc.NewBatchControllerClient(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch controller client: %w", err)
	}
	workflows, err := dataproc.NewWorkflowTemplateClient(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow template client: %w", err)
	}

	c := &RealClient{
		clusters:  clusters,
		jobs:      jobs,
		batches:   batches,
		workflows: workflows,
		timeouts:  config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases all underlying client connections.
func (c *RealClient) Close() error {
	var firstErr error
	for _, closer := range []interface{ Close() error }{c.clusters, c.jobs, c.batches, c.workflows} {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *RealClient) Clusters() ClusterService   { return c }
func (c *RealClient) Jobs() JobService           { return c }
func (c *RealClient) Batches() BatchService      { return c }
func (c *RealClient) Workflows() WorkflowService { return c }

// CreateCluster creates a cluster and waits for the operation to complete.
func (c *RealClient) CreateCluster(ctx context.Context, project, region string, cluster *dataprocpb.Cluster, requestID string) (*dataprocpb.Cluster, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ClusterCreate)
	defer cancel()

	op, err := c.clusters.CreateCluster(ctx, &dataprocpb.CreateClusterRequest{
		ProjectId: project,
		Region:    region,
		Cluster:   cluster,
		RequestId: requestID,
	})
	if err != nil {
		return nil, err
	}
	return op.Wait(ctx)
}

// GetCluster fetches the current cluster record.
func (c *RealClient) GetCluster(ctx context.Context, project, region, name string) (*dataprocpb.Cluster, error) {
	return c.clusters.GetCluster(ctx, &dataprocpb.GetClusterRequest{
		ProjectId:   project,
		Region:      region,
		ClusterName: name,
	})
}

// DeleteCluster deletes the cluster and waits for the operation to complete.
func (c *RealClient) DeleteCluster(ctx context.Context, project, region, name string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ClusterDelete)
	defer cancel()

	op, err := c.clusters.DeleteCluster(ctx, &dataprocpb.DeleteClusterRequest{
		ProjectId:   project,
		Region:      region,
		ClusterName: name,
	})
	if err != nil {
		return err
	}
	return op.Wait(ctx)
}

// DiagnoseCluster captures a diagnostic bundle and returns its output URI.
func (c *RealClient) DiagnoseCluster(ctx context.Context, project, region, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Diagnose)
	defer cancel()

	op, err := c.clusters.DiagnoseCluster(ctx, &dataprocpb.DiagnoseClusterRequest{
		ProjectId:   project,
		Region:      region,
		ClusterName: name,
	})
	if err != nil {
		return "", err
	}
	results, err := op.Wait(ctx)
	if err != nil {
		return "", err
	}
	return results.GetOutputUri(), nil
}

// UpdateCluster applies the cluster spec restricted to the field-mask paths.
func (c *RealClient) UpdateCluster(ctx context.Context, project, region string, cluster *dataprocpb.Cluster, updatePaths []string, gracefulDecommission time.Duration, requestID string) (*dataprocpb.Cluster, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ClusterCreate)
	defer cancel()

	req := &dataprocpb.UpdateClusterRequest{
		ProjectId:   project,
		Region:      region,
		ClusterName: cluster.GetClusterName(),
		Cluster:     cluster,
		UpdateMask:  &fieldmaskpb.FieldMask{Paths: updatePaths},
		RequestId:   requestID,
	}
	if gracefulDecommission > 0 {
		req.GracefulDecommissionTimeout = durationpb.New(gracefulDecommission)
	}

	op, err := c.clusters.UpdateCluster(ctx, req)
	if err != nil {
		return nil, err
	}
	return op.Wait(ctx)
}

// SubmitJob submits a job without waiting for it to finish.
func (c *RealClient) SubmitJob(ctx context.Context, project, region string, job *dataprocpb.Job, requestID string) (*dataprocpb.Job, error) {
	return c.jobs.SubmitJob(ctx, &dataprocpb.SubmitJobRequest{
		ProjectId: project,
		Region:    region,
		Job:       job,
		RequestId: requestID,
	})
}

// GetJob fetches the current job record.
func (c *RealClient) GetJob(ctx context.Context, project, region, jobID string) (*dataprocpb.Job, error) {
	return c.jobs.GetJob(ctx, &dataprocpb.GetJobRequest{
		ProjectId: project,
		Region:    region,
		JobId:     jobID,
	})
}

// CancelJob requests cancellation of a running job.
func (c *RealClient) CancelJob(ctx context.Context, project, region, jobID string) (*dataprocpb.Job, error) {
	return c.jobs.CancelJob(ctx, &dataprocpb.CancelJobRequest{
		ProjectId: project,
		Region:    region,
		JobId:     jobID,
	})
}

// WaitJob polls the job until it reaches a terminal state.
func (c *RealClient) WaitJob(ctx context.Context, project, region, jobID string, pollInterval time.Duration) (*dataprocpb.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.JobWait)
	defer cancel()

	for {
		job, err := c.GetJob(ctx, project, region, jobID)
		if err != nil {
			return nil, err
		}
		if jobTerminal(job.GetStatus().GetState()) {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for job %s: %w", jobID, ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}

func jobTerminal(state dataprocpb.JobStatus_State) bool {
	switch state {
	case dataprocpb.JobStatus_DONE, dataprocpb.JobStatus_ERROR, dataprocpb.JobStatus_CANCELLED:
		return true
	default:
		return false
	}
}

// CreateBatch creates a batch workload and waits for the operation to complete.
func (c *RealClient) CreateBatch(ctx context.Context, project, region string, batch *dataprocpb.Batch, batchID, requestID string) (*dataprocpb.Batch, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.BatchWait)
	defer cancel()

	op, err := c.batches.CreateBatch(ctx, &dataprocpb.CreateBatchRequest{
		Parent:    RegionPath(project, region),
		Batch:     batch,
		BatchId:   batchID,
		RequestId: requestID,
	})
	if err != nil {
		return nil, err
	}
	return op.Wait(ctx)
}

// GetBatch fetches the current batch record.
func (c *RealClient) GetBatch(ctx context.Context, project, region, batchID string) (*dataprocpb.Batch, error) {
	return c.batches.GetBatch(ctx, &dataprocpb.GetBatchRequest{
		Name: BatchPath(project, region, batchID),
	})
}

// DeleteBatch deletes the batch workload.
func (c *RealClient) DeleteBatch(ctx context.Context, project, region, batchID string) error {
	return c.batches.DeleteBatch(ctx, &dataprocpb.DeleteBatchRequest{
		Name: BatchPath(project, region, batchID),
	})
}

// ListBatches lists batch workloads in the region.
func (c *RealClient) ListBatches(ctx context.Context, project, region string, pageSize int32, filter string) ([]*dataprocpb.Batch, error) {
	it := c.batches.ListBatches(ctx, &dataprocpb.ListBatchesRequest{
		Parent:   RegionPath(project, region),
		PageSize: pageSize,
		Filter:   filter,
	})

	var batches []*dataprocpb.Batch
	for {
		batch, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// WaitBatch polls the batch until it reaches a terminal state.
func (c *RealClient) WaitBatch(ctx context.Context, project, region, batchID string, pollInterval time.Duration) (*dataprocpb.Batch, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.BatchWait)
	defer cancel()

	for {
		batch, err := c.GetBatch(ctx, project, region, batchID)
		if err != nil {
			return nil, err
		}
		if batchTerminal(batch.GetState()) {
			return batch, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for batch %s: %w", batchID, ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}

func batchTerminal(state dataprocpb.Batch_State) bool {
	switch state {
	case dataprocpb.Batch_SUCCEEDED, dataprocpb.Batch_FAILED, dataprocpb.Batch_CANCELLED:
		return true
	default:
		return false
	}
}

// InstantiateWorkflowTemplate instantiates a stored template and waits for
// the workflow to finish.
func (c *RealClient) InstantiateWorkflowTemplate(ctx context.Context, project, region, templateID string, version int32, parameters map[string]string, requestID string) (string, error) {
	op, err := c.workflows.InstantiateWorkflowTemplate(ctx, &dataprocpb.InstantiateWorkflowTemplateRequest{
		Name:       TemplatePath(project, region, templateID),
		Version:    version,
		Parameters: parameters,
		RequestId:  requestID,
	})
	if err != nil {
		return "", err
	}
	workflowID := operationID(op.Name())
	if err := op.Wait(ctx); err != nil {
		return workflowID, err
	}
	return workflowID, nil
}

// InstantiateInlineWorkflowTemplate instantiates an ad-hoc template and waits
// for the workflow to finish.
func (c *RealClient) InstantiateInlineWorkflowTemplate(ctx context.Context, project, region string, template *dataprocpb.WorkflowTemplate, requestID string) (string, error) {
	op, err := c.workflows.InstantiateInlineWorkflowTemplate(ctx, &dataprocpb.InstantiateInlineWorkflowTemplateRequest{
		Parent:    RegionPath(project, region),
		Template:  template,
		RequestId: requestID,
	})
	if err != nil {
		return "", err
	}
	workflowID := operationID(op.Name())
	if err := op.Wait(ctx); err != nil {
		return workflowID, err
	}
	return workflowID, nil
}

// CreateWorkflowTemplate stores a template for later instantiation.
func (c *RealClient) CreateWorkflowTemplate(ctx context.Context, project, region string, template *dataprocpb.WorkflowTemplate) (*dataprocpb.WorkflowTemplate, error) {
	return c.workflows.CreateWorkflowTemplate(ctx, &dataprocpb.CreateWorkflowTemplateRequest{
		Parent:   RegionPath(project, region),
		Template: template,
	})
}

// operationID extracts the trailing ID segment from an operation name like
// "projects/p/regions/r/operations/8b727f3b-...".
func operationID(name string) string {
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
