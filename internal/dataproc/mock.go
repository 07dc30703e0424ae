package dataproc

import (
	"context"
	"time"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
)

// MockClient is a mock implementation of Client.
type MockClient struct {
	ClusterSvc  *MockClusterService
	JobSvc      *MockJobService
	BatchSvc    *MockBatchService
	WorkflowSvc *MockWorkflowService
}

func (m *MockClient) Clusters() ClusterService {
	return m.ClusterSvc
}

func (m *MockClient) Jobs() JobService {
	return m.JobSvc
}

func (m *MockClient) Batches() BatchService {
	return m.BatchSvc
}

func (m *MockClient) Workflows() WorkflowService {
	return m.WorkflowSvc
}

type MockClusterService struct {
	CreateClusterFunc   func(ctx context.Context, project, region string, cluster *dataprocpb.Cluster, requestID string) (*dataprocpb.Cluster, error)
	GetClusterFunc      func(ctx context.Context, project, region, name string) (*dataprocpb.Cluster, error)
	DeleteClusterFunc   func(ctx context.Context, project, region, name string) error
	DiagnoseClusterFunc func(ctx context.Context, project, region, name string) (string, error)
	UpdateClusterFunc   func(ctx context.Context, project, region string, cluster *dataprocpb.Cluster, updatePaths []string, gracefulDecommission time.Duration, requestID string) (*dataprocpb.Cluster, error)
}

func (m *MockClusterService) CreateCluster(ctx context.Context, project, region string, cluster *dataprocpb.Cluster, requestID string) (*dataprocpb.Cluster, error) {
	return m.CreateClusterFunc(ctx, project, region, cluster, requestID)
}

func (m *MockClusterService) GetCluster(ctx context.Context, project, region, name string) (*dataprocpb.Cluster, error) {
	return m.GetClusterFunc(ctx, project, region, name)
}

func (m *MockClusterService) DeleteCluster(ctx context.Context, project, region, name string) error {
	return m.DeleteClusterFunc(ctx, project, region, name)
}

func (m *MockClusterService) DiagnoseCluster(ctx context.Context, project, region, name string) (string, error) {
	return m.DiagnoseClusterFunc(ctx, project, region, name)
}

func (m *MockClusterService) UpdateCluster(ctx context.Context, project, region string, cluster *dataprocpb.Cluster, updatePaths []string, gracefulDecommission time.Duration, requestID string) (*dataprocpb.Cluster, error) {
	return m.UpdateClusterFunc(ctx, project, region, cluster, updatePaths, gracefulDecommission, requestID)
}

type MockJobService struct {
	SubmitJobFunc func(ctx context.Context, project, region string, job *dataprocpb.Job, requestID string) (*dataprocpb.Job, error)
	GetJobFunc    func(ctx context.Context, project, region, jobID string) (*dataprocpb.Job, error)
	CancelJobFunc func(ctx context.Context, project, region, jobID string) (*dataprocpb.Job, error)
	WaitJobFunc   func(ctx context.Context, project, region, jobID string, pollInterval time.Duration) (*dataprocpb.Job, error)
}

func (m *MockJobService) SubmitJob(ctx context.Context, project, region string, job *dataprocpb.Job, requestID string) (*dataprocpb.Job, error) {
	return m.SubmitJobFunc(ctx, project, region, job, requestID)
}

func (m *MockJobService) GetJob(ctx context.Context, project, region, jobID string) (*dataprocpb.Job, error) {
	return m.GetJobFunc(ctx, project, region, jobID)
}

func (m *MockJobService) CancelJob(ctx context.Context, project, region, jobID string) (*dataprocpb.Job, error) {
	return m.CancelJobFunc(ctx, project, region, jobID)
}

func (m *MockJobService) WaitJob(ctx context.Context, project, region, jobID string, pollInterval time.Duration) (*dataprocpb.Job, error) {
	return m.WaitJobFunc(ctx, project, region, jobID, pollInterval)
}

type MockBatchService struct {
	CreateBatchFunc func(ctx context.Context, project, region string, batch *dataprocpb.Batch, batchID, requestID string) (*dataprocpb.Batch, error)
	GetBatchFunc    func(ctx context.Context, project, region, batchID string) (*dataprocpb.Batch, error)
	DeleteBatchFunc func(ctx context.Context, project, region, batchID string) error
	ListBatchesFunc func(ctx context.Context, project, region string, pageSize int32, filter string) ([]*dataprocpb.Batch, error)
	WaitBatchFunc   func(ctx context.Context, project, region, batchID string, pollInterval time.Duration) (*dataprocpb.Batch, error)
}

func (m *MockBatchService) CreateBatch(ctx context.Context, project, region string, batch *dataprocpb.Batch, batchID, requestID string) (*dataprocpb.Batch, error) {
	return m.CreateBatchFunc(ctx, project, region, batch, batchID, requestID)
}

func (m *MockBatchService) GetBatch(ctx context.Context, project, region, batchID string) (*dataprocpb.Batch, error) {
	return m.GetBatchFunc(ctx, project, region, batchID)
}

func (m *MockBatchService) DeleteBatch(ctx context.Context, project, region, batchID string) error {
	return m.DeleteBatchFunc(ctx, project, region, batchID)
}

func (m *MockBatchService) ListBatches(ctx context.Context, project, region string, pageSize int32, filter string) ([]*dataprocpb.Batch, error) {
	return m.ListBatchesFunc(ctx, project, region, pageSize, filter)
}

func (m *MockBatchService) WaitBatch(ctx context.Context, project, region, batchID string, pollInterval time.Duration) (*dataprocpb.Batch, error) {
	return m.WaitBatchFunc(ctx, project, region, batchID, pollInterval)
}

type MockWorkflowService struct {
	InstantiateWorkflowTemplateFunc       func(ctx context.Context, project, region, templateID string, version int32, parameters map[string]string, requestID string) (string, error)
	InstantiateInlineWorkflowTemplateFunc func(ctx context.Context, project, region string, template *dataprocpb.WorkflowTemplate, requestID string) (string, error)
	CreateWorkflowTemplateFunc            func(ctx context.Context, project, region string, template *dataprocpb.WorkflowTemplate) (*dataprocpb.WorkflowTemplate, error)
}

func (m *MockWorkflowService) InstantiateWorkflowTemplate(ctx context.Context, project, region, templateID string, version int32, parameters map[string]string, requestID string) (string, error) {
	return m.InstantiateWorkflowTemplateFunc(ctx, project, region, templateID, version, parameters, requestID)
}

func (m *MockWorkflowService) InstantiateInlineWorkflowTemplate(ctx context.Context, project, region string, template *dataprocpb.WorkflowTemplate, requestID string) (string, error) {
	return m.InstantiateInlineWorkflowTemplateFunc(ctx, project, region, template, requestID)
}

func (m *MockWorkflowService) CreateWorkflowTemplate(ctx context.Context, project, region string, template *dataprocpb.WorkflowTemplate) (*dataprocpb.WorkflowTemplate, error) {
	return m.CreateWorkflowTemplateFunc(ctx, project, region, template)
}
