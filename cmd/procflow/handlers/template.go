package handlers

import (
	"context"
	"fmt"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/google/uuid"

	"github.com/procflow-io/procflow/internal/operator"
)

// TemplateInstantiateOptions parameterizes the template instantiate command.
type TemplateInstantiateOptions struct {
	Common

	TemplateID string
	Version    int32
	Parameters map[string]string
}

// TemplateInstantiate handles the template instantiate command.
func TemplateInstantiate(ctx context.Context, opts TemplateInstantiateOptions) error {
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

	op := &operator.InstantiateWorkflowTemplate{
		Workflows:  client.Workflows(),
		Project:    cfg.ProjectID,
		Region:     cfg.Region,
		TemplateID: opts.TemplateID,
		Version:    opts.Version,
		Parameters: opts.Parameters,
		RequestID:  uuid.NewString(),
		Log:        log,
		Links:      printLink,
	}
	workflowID, err := op.Execute(ctx)
	if err != nil {
		return fmt.Errorf("template instantiate failed: %w", err)
	}

	fmt.Printf("Workflow %s finished\n", workflowID)
	return nil
}

// TemplateInstantiateInlineOptions parameterizes the inline instantiation
// command.
type TemplateInstantiateInlineOptions struct {
	Common

	// SpecFile is a protojson WorkflowTemplate document.
	SpecFile string
}

// TemplateInstantiateInline handles the template instantiate-inline command.
func TemplateInstantiateInline(ctx context.Context, opts TemplateInstantiateInlineOptions) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	log, err := opts.logger()
	if err != nil {
		return err
	}

	template := &dataprocpb.WorkflowTemplate{}
	if err := readSpec(opts.SpecFile, template); err != nil {
		return err
	}

	client, closeClient, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient() //nolint:errcheck

	op := &operator.InstantiateInlineWorkflowTemplate{
		Workflows: client.Workflows(),
		Project:   cfg.ProjectID,
		Region:    cfg.Region,
		Template:  template,
		RequestID: uuid.NewString(),
		Log:       log,
		Links:     printLink,
	}
	workflowID, err := op.Execute(ctx)
	if err != nil {
		return fmt.Errorf("template instantiate-inline failed: %w", err)
	}

	fmt.Printf("Workflow %s finished\n", workflowID)
	return nil
}

// TemplateCreateOptions parameterizes the template create command.
type TemplateCreateOptions struct {
	Common

	// SpecFile is a protojson WorkflowTemplate document.
	SpecFile string
}

// TemplateCreate handles the template create command.
func TemplateCreate(ctx context.Context, opts TemplateCreateOptions) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	log, err := opts.logger()
	if err != nil {
		return err
	}

	template := &dataprocpb.WorkflowTemplate{}
	if err := readSpec(opts.SpecFile, template); err != nil {
		return err
	}

	client, closeClient, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient() //nolint:errcheck

	op := &operator.CreateWorkflowTemplate{
		Workflows: client.Workflows(),
		Project:   cfg.ProjectID,
		Region:    cfg.Region,
		Template:  template,
		Log:       log,
	}
	stored, err := op.Execute(ctx)
	if err != nil {
		return fmt.Errorf("template create failed: %w", err)
	}

	fmt.Printf("Template %s created at version %d\n", stored.GetId(), stored.GetVersion())
	return nil
}
