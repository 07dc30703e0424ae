package operator

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/go-logr/logr"

	"github.com/procflow-io/procflow/internal/dataproc"
	"github.com/procflow-io/procflow/internal/links"
	"github.com/procflow-io/procflow/internal/metrics"
)

const defaultBatchPollInterval = 5 * time.Second

// CreateBatch creates a serverless batch workload and waits for it to reach
// a terminal state.
type CreateBatch struct {
	Batches dataproc.BatchService

	Project string
	Region  string

	Batch     *dataprocpb.Batch
	BatchID   string
	RequestID string

	PollInterval time.Duration

	Log   logr.Logger
	Links LinkRecorder
}

// Execute creates the batch. When the batch ID collides with an existing
// batch, the existing workload is adopted and awaited instead; its terminal
// state then decides success. A FAILED or CANCELLED terminal state is an
// error either way.
func (o *CreateBatch) Execute(ctx context.Context) (batch *dataprocpb.Batch, err error) {
	defer func() { metrics.CountOperatorCall("create_batch", callResult(err)) }()

	if err := requireLocation(o.Project, o.Region); err != nil {
		return nil, err
	}
	if o.Batch == nil {
		return nil, fmt.Errorf("batch is required")
	}

	interval := o.PollInterval
	if interval <= 0 {
		interval = defaultBatchPollInterval
	}

	batch, err = o.Batches.CreateBatch(ctx, o.Project, o.Region, o.Batch, o.BatchID, o.RequestID)
	if dataproc.IsAlreadyExists(err) {
		o.Log.Info("Batch already exists, waiting for it", "batchID", o.BatchID)
		batch, err = o.Batches.WaitBatch(ctx, o.Project, o.Region, o.BatchID, interval)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create batch %s: %w", o.BatchID, err)
	}

	record(o.Links, o.BatchID, links.Batch(o.Project, o.Region, o.BatchID))

	switch state := batch.GetState(); state {
	case dataprocpb.Batch_FAILED:
		return nil, fmt.Errorf("batch %s failed: %s", o.BatchID, batch.GetStateMessage())
	case dataprocpb.Batch_CANCELLED:
		return nil, fmt.Errorf("batch %s was cancelled: %s", o.BatchID, batch.GetStateMessage())
	default:
		o.Log.Info("Batch finished", "batchID", o.BatchID, "state", state.String())
		return batch, nil
	}
}

// DeleteBatch deletes a batch workload.
type DeleteBatch struct {
	Batches dataproc.BatchService

	Project string
	Region  string
	BatchID string

	Log logr.Logger
}

// Execute runs the delete.
func (o *DeleteBatch) Execute(ctx context.Context) (err error) {
	defer func() { metrics.CountOperatorCall("delete_batch", callResult(err)) }()

	if err := requireLocation(o.Project, o.Region); err != nil {
		return err
	}

	if err = o.Batches.DeleteBatch(ctx, o.Project, o.Region, o.BatchID); err != nil {
		return fmt.Errorf("failed to delete batch %s: %w", o.BatchID, err)
	}

	o.Log.Info("Batch deleted", "batchID", o.BatchID)
	return nil
}

// GetBatch fetches a batch workload.
type GetBatch struct {
	Batches dataproc.BatchService

	Project string
	Region  string
	BatchID string

	Log   logr.Logger
	Links LinkRecorder
}

// Execute fetches the batch record.
func (o *GetBatch) Execute(ctx context.Context) (batch *dataprocpb.Batch, err error) {
	defer func() { metrics.CountOperatorCall("get_batch", callResult(err)) }()

	if err := requireLocation(o.Project, o.Region); err != nil {
		return nil, err
	}

	batch, err = o.Batches.GetBatch(ctx, o.Project, o.Region, o.BatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get batch %s: %w", o.BatchID, err)
	}

	record(o.Links, o.BatchID, links.Batch(o.Project, o.Region, o.BatchID))
	return batch, nil
}

// ListBatches lists the batch workloads in a region.
type ListBatches struct {
	Batches dataproc.BatchService

	Project  string
	Region   string
	PageSize int32
	Filter   string

	Log logr.Logger
}

// Execute lists the batches.
func (o *ListBatches) Execute(ctx context.Context) (batches []*dataprocpb.Batch, err error) {
	defer func() { metrics.CountOperatorCall("list_batches", callResult(err)) }()

	if err := requireLocation(o.Project, o.Region); err != nil {
		return nil, err
	}

	batches, err = o.Batches.ListBatches(ctx, o.Project, o.Region, o.PageSize, o.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}
