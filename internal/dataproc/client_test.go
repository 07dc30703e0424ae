package dataproc

import (
	"testing"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/stretchr/testify/assert"
)

func TestResourcePaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "projects/test-project/locations/test-location",
		RegionPath("test-project", "test-location"))
	assert.Equal(t, "projects/test-project/locations/test-location/batches/test-batch-id",
		BatchPath("test-project", "test-location", "test-batch-id"))
	assert.Equal(t, "projects/test-project/locations/test-location/workflowTemplates/template_id",
		TemplatePath("test-project", "test-location", "template_id"))
}

func TestOperationID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "test-workflow",
		operationID("projects/test-project/regions/test-location/operations/test-workflow"))
	assert.Equal(t, "bare-id", operationID("bare-id"))
}

func TestJobTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, jobTerminal(dataprocpb.JobStatus_DONE))
	assert.True(t, jobTerminal(dataprocpb.JobStatus_ERROR))
	assert.True(t, jobTerminal(dataprocpb.JobStatus_CANCELLED))
	assert.False(t, jobTerminal(dataprocpb.JobStatus_RUNNING))
	assert.False(t, jobTerminal(dataprocpb.JobStatus_PENDING))
}

func TestBatchTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, batchTerminal(dataprocpb.Batch_SUCCEEDED))
	assert.True(t, batchTerminal(dataprocpb.Batch_FAILED))
	assert.True(t, batchTerminal(dataprocpb.Batch_CANCELLED))
	assert.False(t, batchTerminal(dataprocpb.Batch_RUNNING))
	assert.False(t, batchTerminal(dataprocpb.Batch_PENDING))
}
