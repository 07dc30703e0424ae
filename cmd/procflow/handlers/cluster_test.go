package handlers

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/procflow-io/procflow/internal/config"
	"github.com/procflow-io/procflow/internal/dataproc"
)

func testCommon() Common {
	return Common{Project: "test-project", Region: "test-location"}
}

func TestClusterCreate(t *testing.T) {
	var gotName string
	withMockClient(t, &dataproc.MockClient{
		ClusterSvc: &dataproc.MockClusterService{
			CreateClusterFunc: func(_ context.Context, _, _ string, cluster *dataprocpb.Cluster, requestID string) (*dataprocpb.Cluster, error) {
				gotName = cluster.GetClusterName()
				assert.NotEmpty(t, requestID)
				assert.Equal(t, int32(2), cluster.GetConfig().GetWorkerConfig().GetNumInstances())
				cluster.Status = &dataprocpb.ClusterStatus{State: dataprocpb.ClusterStatus_RUNNING}
				return cluster, nil
			},
		},
	})

	err := ClusterCreate(context.Background(), ClusterCreateOptions{
		Common:      testCommon(),
		ClusterName: "analytics",
		NumWorkers:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, "analytics", gotName)
}

func TestClusterCreate_ReusesExisting(t *testing.T) {
	withMockClient(t, &dataproc.MockClient{
		ClusterSvc: &dataproc.MockClusterService{
			CreateClusterFunc: func(_ context.Context, _, _ string, _ *dataprocpb.Cluster, _ string) (*dataprocpb.Cluster, error) {
				return nil, status.Error(codes.AlreadyExists, "cluster exists")
			},
			GetClusterFunc: func(_ context.Context, _, _, name string) (*dataprocpb.Cluster, error) {
				return &dataprocpb.Cluster{
					ClusterName: name,
					Status:      &dataprocpb.ClusterStatus{State: dataprocpb.ClusterStatus_RUNNING},
				}, nil
			},
		},
	})

	err := ClusterCreate(context.Background(), ClusterCreateOptions{
		Common:      testCommon(),
		ClusterName: "analytics",
		UseIfExists: true,
	})
	require.NoError(t, err)
}

func TestClusterCreate_ConflictWithoutReuse(t *testing.T) {
	withMockClient(t, &dataproc.MockClient{
		ClusterSvc: &dataproc.MockClusterService{
			CreateClusterFunc: func(_ context.Context, _, _ string, _ *dataprocpb.Cluster, _ string) (*dataprocpb.Cluster, error) {
				return nil, status.Error(codes.AlreadyExists, "cluster exists")
			},
		},
	})

	err := ClusterCreate(context.Background(), ClusterCreateOptions{
		Common:      testCommon(),
		ClusterName: "analytics",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster create failed")
}

func TestClusterCreate_PolicyFromEnvironment(t *testing.T) {
	t.Setenv("PROCFLOW_RETRY_MAX_ATTEMPTS", "3")
	t.Setenv("PROCFLOW_RETRY_INITIAL_DELAY", "25ms")

	opts := ClusterCreateOptions{UseIfExists: true, DeleteOnError: true}
	policy := opts.conflictPolicy(config.LoadTimeouts())

	assert.True(t, policy.UseIfExists)
	assert.True(t, policy.DeleteOnError)
	assert.Equal(t, 3, policy.DeletePollAttempts)
	assert.Equal(t, 25*time.Millisecond, policy.PollInitialDelay)
}

func TestClusterCreate_DeletePollHonorsEnvTuning(t *testing.T) {
	// With the default 10s initial delay this test would stall; the env
	// override must reach the reconciler's deletion poll for it to pass.
	t.Setenv("PROCFLOW_RETRY_INITIAL_DELAY", "1ms")
	t.Setenv("PROCFLOW_RETRY_MAX_ATTEMPTS", "5")

	createCalls := 0
	getCalls := 0
	withMockClient(t, &dataproc.MockClient{
		ClusterSvc: &dataproc.MockClusterService{
			CreateClusterFunc: func(_ context.Context, _, _ string, cluster *dataprocpb.Cluster, _ string) (*dataprocpb.Cluster, error) {
				createCalls++
				if createCalls == 1 {
					return nil, status.Error(codes.AlreadyExists, "cluster exists")
				}
				cluster.Status = &dataprocpb.ClusterStatus{State: dataprocpb.ClusterStatus_RUNNING}
				return cluster, nil
			},
			GetClusterFunc: func(_ context.Context, _, _, name string) (*dataprocpb.Cluster, error) {
				getCalls++
				if getCalls <= 2 {
					return &dataprocpb.Cluster{
						ClusterName: name,
						Status:      &dataprocpb.ClusterStatus{State: dataprocpb.ClusterStatus_DELETING},
					}, nil
				}
				return nil, status.Error(codes.NotFound, "gone")
			},
		},
	})

	err := ClusterCreate(context.Background(), ClusterCreateOptions{
		Common:      testCommon(),
		ClusterName: "analytics",
		UseIfExists: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, createCalls)
	assert.Equal(t, 3, getCalls)
}

func TestClusterDelete(t *testing.T) {
	deleted := false
	withMockClient(t, &dataproc.MockClient{
		ClusterSvc: &dataproc.MockClusterService{
			DeleteClusterFunc: func(_ context.Context, _, _, name string) error {
				assert.Equal(t, "analytics", name)
				deleted = true
				return nil
			},
		},
	})

	err := ClusterDelete(context.Background(), ClusterDeleteOptions{
		Common:      testCommon(),
		ClusterName: "analytics",
	})
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestClusterDiagnose(t *testing.T) {
	withMockClient(t, &dataproc.MockClient{
		ClusterSvc: &dataproc.MockClusterService{
			DiagnoseClusterFunc: func(_ context.Context, _, _, _ string) (string, error) {
				return "gs://diag-bucket/output", nil
			},
		},
	})

	err := ClusterDiagnose(context.Background(), ClusterDiagnoseOptions{
		Common:      testCommon(),
		ClusterName: "analytics",
	})
	require.NoError(t, err)
}
