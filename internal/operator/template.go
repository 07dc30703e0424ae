package operator

import (
	"context"
	"fmt"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/go-logr/logr"

	"github.com/procflow-io/procflow/internal/dataproc"
	"github.com/procflow-io/procflow/internal/links"
	"github.com/procflow-io/procflow/internal/metrics"
)

// InstantiateWorkflowTemplate runs a stored workflow template and waits for
// the resulting workflow to finish.
type InstantiateWorkflowTemplate struct {
	Workflows dataproc.WorkflowService

	Project    string
	Region     string
	TemplateID string
	Version    int32
	Parameters map[string]string
	RequestID  string

	Log   logr.Logger
	Links LinkRecorder
}

// Execute instantiates the template and returns the workflow ID.
func (o *InstantiateWorkflowTemplate) Execute(ctx context.Context) (workflowID string, err error) {
	defer func() { metrics.CountOperatorCall("instantiate_workflow", callResult(err)) }()

	if err := requireLocation(o.Project, o.Region); err != nil {
		return "", err
	}
	if o.TemplateID == "" {
		return "", fmt.Errorf("template ID is required")
	}

	o.Log.Info("Instantiating workflow template", "template", o.TemplateID)
	workflowID, err = o.Workflows.InstantiateWorkflowTemplate(ctx, o.Project, o.Region, o.TemplateID, o.Version, o.Parameters, o.RequestID)
	if workflowID != "" {
		record(o.Links, workflowID, links.Workflow(o.Project, o.Region, workflowID))
	}
	if err != nil {
		return workflowID, fmt.Errorf("failed to instantiate workflow template %s: %w", o.TemplateID, err)
	}

	o.Log.Info("Workflow finished", "workflowID", workflowID)
	return workflowID, nil
}

// InstantiateInlineWorkflowTemplate runs an ad-hoc workflow template and
// waits for the resulting workflow to finish.
type InstantiateInlineWorkflowTemplate struct {
	Workflows dataproc.WorkflowService

	Project   string
	Region    string
	Template  *dataprocpb.WorkflowTemplate
	RequestID string

	Log   logr.Logger
	Links LinkRecorder
}

// Execute instantiates the inline template and returns the workflow ID.
func (o *InstantiateInlineWorkflowTemplate) Execute(ctx context.Context) (workflowID string, err error) {
	defer func() { metrics.CountOperatorCall("instantiate_inline_workflow", callResult(err)) }()

	if err := requireLocation(o.Project, o.Region); err != nil {
		return "", err
	}
	if o.Template == nil {
		return "", fmt.Errorf("template is required")
	}

	o.Log.Info("Instantiating inline workflow template", "template", o.Template.GetId())
	workflowID, err = o.Workflows.InstantiateInlineWorkflowTemplate(ctx, o.Project, o.Region, o.Template, o.RequestID)
	if workflowID != "" {
		record(o.Links, workflowID, links.Workflow(o.Project, o.Region, workflowID))
	}
	if err != nil {
		return workflowID, fmt.Errorf("failed to instantiate inline workflow template: %w", err)
	}

	o.Log.Info("Workflow finished", "workflowID", workflowID)
	return workflowID, nil
}

// CreateWorkflowTemplate stores a workflow template for later instantiation.
type CreateWorkflowTemplate struct {
	Workflows dataproc.WorkflowService

	Project  string
	Region   string
	Template *dataprocpb.WorkflowTemplate

	Log logr.Logger
}

// Execute stores the template and returns the stored record.
func (o *CreateWorkflowTemplate) Execute(ctx context.Context) (template *dataprocpb.WorkflowTemplate, err error) {
	defer func() { metrics.CountOperatorCall("create_workflow_template", callResult(err)) }()

	if err := requireLocation(o.Project, o.Region); err != nil {
		return nil, err
	}
	if o.Template == nil {
		return nil, fmt.Errorf("template is required")
	}

	template, err = o.Workflows.CreateWorkflowTemplate(ctx, o.Project, o.Region, o.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow template %s: %w", o.Template.GetId(), err)
	}

	o.Log.Info("Workflow template created", "template", template.GetId())
	return template, nil
}
