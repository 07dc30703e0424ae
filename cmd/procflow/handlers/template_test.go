package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procflow-io/procflow/internal/dataproc"
)

func writeTemplateSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.json")
	spec := `{"id": "etl-template", "jobs": [{"stepId": "count", "hiveJob": {"queryList": {"queries": ["SELECT 1"]}}}]}`
	require.NoError(t, os.WriteFile(path, []byte(spec), 0o600))
	return path
}

func TestTemplateInstantiate(t *testing.T) {
	withMockClient(t, &dataproc.MockClient{
		WorkflowSvc: &dataproc.MockWorkflowService{
			InstantiateWorkflowTemplateFunc: func(_ context.Context, _, _, templateID string, version int32, parameters map[string]string, requestID string) (string, error) {
				assert.Equal(t, "etl-template", templateID)
				assert.Equal(t, int32(3), version)
				assert.Equal(t, map[string]string{"CLUSTER": "analytics"}, parameters)
				assert.NotEmpty(t, requestID)
				return "workflow-1", nil
			},
		},
	})

	err := TemplateInstantiate(context.Background(), TemplateInstantiateOptions{
		Common:     testCommon(),
		TemplateID: "etl-template",
		Version:    3,
		Parameters: map[string]string{"CLUSTER": "analytics"},
	})
	require.NoError(t, err)
}

func TestTemplateInstantiate_WorkflowFailure(t *testing.T) {
	withMockClient(t, &dataproc.MockClient{
		WorkflowSvc: &dataproc.MockWorkflowService{
			InstantiateWorkflowTemplateFunc: func(_ context.Context, _, _, _ string, _ int32, _ map[string]string, _ string) (string, error) {
				return "workflow-1", errors.New("workflow failed")
			},
		},
	})

	err := TemplateInstantiate(context.Background(), TemplateInstantiateOptions{
		Common:     testCommon(),
		TemplateID: "etl-template",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template instantiate failed")
}

func TestTemplateInstantiateInline(t *testing.T) {
	withMockClient(t, &dataproc.MockClient{
		WorkflowSvc: &dataproc.MockWorkflowService{
			InstantiateInlineWorkflowTemplateFunc: func(_ context.Context, project, region string, template *dataprocpb.WorkflowTemplate, _ string) (string, error) {
				assert.Equal(t, "test-project", project)
				assert.Equal(t, "test-location", region)
				assert.Equal(t, "etl-template", template.GetId())
				require.Len(t, template.GetJobs(), 1)
				assert.Equal(t, "count", template.GetJobs()[0].GetStepId())
				return "workflow-inline-1", nil
			},
		},
	})

	err := TemplateInstantiateInline(context.Background(), TemplateInstantiateInlineOptions{
		Common:   testCommon(),
		SpecFile: writeTemplateSpec(t),
	})
	require.NoError(t, err)
}

func TestTemplateInstantiateInline_MissingSpecFile(t *testing.T) {
	err := TemplateInstantiateInline(context.Background(), TemplateInstantiateInlineOptions{
		Common:   testCommon(),
		SpecFile: filepath.Join(t.TempDir(), "absent.json"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read spec")
}

func TestTemplateCreate(t *testing.T) {
	withMockClient(t, &dataproc.MockClient{
		WorkflowSvc: &dataproc.MockWorkflowService{
			CreateWorkflowTemplateFunc: func(_ context.Context, _, _ string, template *dataprocpb.WorkflowTemplate) (*dataprocpb.WorkflowTemplate, error) {
				stored := &dataprocpb.WorkflowTemplate{Id: template.GetId(), Version: 1}
				return stored, nil
			},
		},
	})

	err := TemplateCreate(context.Background(), TemplateCreateOptions{
		Common:   testCommon(),
		SpecFile: writeTemplateSpec(t),
	})
	require.NoError(t, err)
}
