package operator

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procflow-io/procflow/internal/dataproc"
)

const testTemplateID = "template_id"

func TestInstantiateWorkflowTemplate_Execute(t *testing.T) {
	t.Parallel()

	params := map[string]string{"CLUSTER_NAME": testCluster}
	svc := &dataproc.MockWorkflowService{
		InstantiateWorkflowTemplateFunc: func(_ context.Context, project, region, templateID string, version int32, parameters map[string]string, requestID string) (string, error) {
			assert.Equal(t, testProject, project)
			assert.Equal(t, testRegion, region)
			assert.Equal(t, testTemplateID, templateID)
			assert.Equal(t, int32(2), version)
			assert.Equal(t, params, parameters)
			assert.Equal(t, "request_id_uuid", requestID)
			return "workflow-abc123", nil
		},
	}

	rec := &recordedLinks{}
	op := &InstantiateWorkflowTemplate{
		Workflows:  svc,
		Project:    testProject,
		Region:     testRegion,
		TemplateID: testTemplateID,
		Version:    2,
		Parameters: params,
		RequestID:  "request_id_uuid",
		Log:        logr.Discard(),
		Links:      rec.recorder(),
	}

	workflowID, err := op.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "workflow-abc123", workflowID)
	require.Len(t, rec.urls, 1)
	assert.Equal(t,
		"https://console.cloud.google.com/dataproc/workflows/instances/test-location/workflow-abc123?project=test-project",
		rec.urls[0])
}

func TestInstantiateWorkflowTemplate_MissingTemplateID(t *testing.T) {
	t.Parallel()

	op := &InstantiateWorkflowTemplate{
		Project: testProject,
		Region:  testRegion,
		Log:     logr.Discard(),
	}

	_, err := op.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template ID is required")
}

func TestInstantiateWorkflowTemplate_RecordsLinkOnFailure(t *testing.T) {
	t.Parallel()

	svc := &dataproc.MockWorkflowService{
		InstantiateWorkflowTemplateFunc: func(_ context.Context, _, _, _ string, _ int32, _ map[string]string, _ string) (string, error) {
			// The workflow started but finished in a failed state; the ID is
			// still known and the link must still be published.
			return "workflow-abc123", errors.New("workflow failed")
		},
	}

	rec := &recordedLinks{}
	op := &InstantiateWorkflowTemplate{
		Workflows:  svc,
		Project:    testProject,
		Region:     testRegion,
		TemplateID: testTemplateID,
		Log:        logr.Discard(),
		Links:      rec.recorder(),
	}

	_, err := op.Execute(context.Background())
	require.Error(t, err)
	assert.Len(t, rec.urls, 1)
}

func TestInstantiateInlineWorkflowTemplate_Execute(t *testing.T) {
	t.Parallel()

	tmpl := &dataprocpb.WorkflowTemplate{Id: testTemplateID}
	svc := &dataproc.MockWorkflowService{
		InstantiateInlineWorkflowTemplateFunc: func(_ context.Context, project, region string, template *dataprocpb.WorkflowTemplate, requestID string) (string, error) {
			assert.Equal(t, testProject, project)
			assert.Equal(t, testRegion, region)
			assert.Equal(t, tmpl, template)
			assert.Equal(t, "request_id_uuid", requestID)
			return "workflow-inline-1", nil
		},
	}

	op := &InstantiateInlineWorkflowTemplate{
		Workflows: svc,
		Project:   testProject,
		Region:    testRegion,
		Template:  tmpl,
		RequestID: "request_id_uuid",
		Log:       logr.Discard(),
	}

	workflowID, err := op.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "workflow-inline-1", workflowID)
}

func TestInstantiateInlineWorkflowTemplate_MissingTemplate(t *testing.T) {
	t.Parallel()

	op := &InstantiateInlineWorkflowTemplate{
		Project: testProject,
		Region:  testRegion,
		Log:     logr.Discard(),
	}

	_, err := op.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template is required")
}

func TestCreateWorkflowTemplate_Execute(t *testing.T) {
	t.Parallel()

	tmpl := &dataprocpb.WorkflowTemplate{Id: testTemplateID}
	svc := &dataproc.MockWorkflowService{
		CreateWorkflowTemplateFunc: func(_ context.Context, project, region string, template *dataprocpb.WorkflowTemplate) (*dataprocpb.WorkflowTemplate, error) {
			assert.Equal(t, testProject, project)
			assert.Equal(t, testRegion, region)
			stored := &dataprocpb.WorkflowTemplate{
				Id:      template.GetId(),
				Name:    dataproc.TemplatePath(project, region, template.GetId()),
				Version: 1,
			}
			return stored, nil
		},
	}

	op := &CreateWorkflowTemplate{
		Workflows: svc,
		Project:   testProject,
		Region:    testRegion,
		Template:  tmpl,
		Log:       logr.Discard(),
	}

	stored, err := op.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), stored.GetVersion())
	assert.Equal(t, "projects/test-project/locations/test-location/workflowTemplates/template_id", stored.GetName())
}

func TestCreateWorkflowTemplate_ServiceError(t *testing.T) {
	t.Parallel()

	svc := &dataproc.MockWorkflowService{
		CreateWorkflowTemplateFunc: func(_ context.Context, _, _ string, _ *dataprocpb.WorkflowTemplate) (*dataprocpb.WorkflowTemplate, error) {
			return nil, errors.New("permission denied")
		},
	}

	op := &CreateWorkflowTemplate{
		Workflows: svc,
		Project:   testProject,
		Region:    testRegion,
		Template:  &dataprocpb.WorkflowTemplate{Id: testTemplateID},
		Log:       logr.Discard(),
	}

	_, err := op.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}
