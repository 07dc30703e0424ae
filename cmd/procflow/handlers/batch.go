package handlers

import (
	"context"
	"fmt"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/google/uuid"

	"github.com/procflow-io/procflow/internal/operator"
)

// BatchCreateOptions parameterizes the batch create command.
type BatchCreateOptions struct {
	Common

	BatchID string

	// SpecFile is a protojson Batch document.
	SpecFile string

	Labels map[string]string
}

// BatchCreate handles the batch create command.
func BatchCreate(ctx context.Context, opts BatchCreateOptions) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	log, err := opts.logger()
	if err != nil {
		return err
	}

	batch := &dataprocpb.Batch{}
	if err := readSpec(opts.SpecFile, batch); err != nil {
		return err
	}
	batch.Labels = mergeLabels(cfg.Labels, mergeLabels(batch.GetLabels(), opts.Labels))

	client, closeClient, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient() //nolint:errcheck

	op := &operator.CreateBatch{
		Batches:   client.Batches(),
		Project:   cfg.ProjectID,
		Region:    cfg.Region,
		Batch:     batch,
		BatchID:   opts.BatchID,
		RequestID: uuid.NewString(),
		Log:       log,
		Links:     printLink,
	}
	final, err := op.Execute(ctx)
	if err != nil {
		return fmt.Errorf("batch create failed: %w", err)
	}

	fmt.Printf("Batch %s is %s\n", opts.BatchID, final.GetState())
	return nil
}

// BatchDeleteOptions parameterizes the batch delete command.
type BatchDeleteOptions struct {
	Common
	BatchID string
}

// BatchDelete handles the batch delete command.
func BatchDelete(ctx context.Context, opts BatchDeleteOptions) error {
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

	op := &operator.DeleteBatch{
		Batches: client.Batches(),
		Project: cfg.ProjectID,
		Region:  cfg.Region,
		BatchID: opts.BatchID,
		Log:     log,
	}
	if err := op.Execute(ctx); err != nil {
		return fmt.Errorf("batch delete failed: %w", err)
	}

	fmt.Printf("Batch %s deleted\n", opts.BatchID)
	return nil
}

// BatchGetOptions parameterizes the batch get command.
type BatchGetOptions struct {
	Common
	BatchID string
}

// BatchGet handles the batch get command.
func BatchGet(ctx context.Context, opts BatchGetOptions) error {
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

	op := &operator.GetBatch{
		Batches: client.Batches(),
		Project: cfg.ProjectID,
		Region:  cfg.Region,
		BatchID: opts.BatchID,
		Log:     log,
		Links:   printLink,
	}
	batch, err := op.Execute(ctx)
	if err != nil {
		return fmt.Errorf("batch get failed: %w", err)
	}

	printSpec(batch)
	return nil
}

// BatchListOptions parameterizes the batch list command.
type BatchListOptions struct {
	Common

	PageSize int32
	Filter   string
}

// BatchList handles the batch list command.
func BatchList(ctx context.Context, opts BatchListOptions) error {
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

	op := &operator.ListBatches{
		Batches:  client.Batches(),
		Project:  cfg.ProjectID,
		Region:   cfg.Region,
		PageSize: opts.PageSize,
		Filter:   opts.Filter,
		Log:      log,
	}
	batches, err := op.Execute(ctx)
	if err != nil {
		return fmt.Errorf("batch list failed: %w", err)
	}

	for _, b := range batches {
		fmt.Printf("%s\t%s\n", b.GetName(), b.GetState())
	}
	return nil
}
