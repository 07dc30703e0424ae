// Package reconcile resolves cluster-create conflicts.
//
// A create call that collides with an existing cluster of the same name is
// not necessarily a failure: the existing cluster may be reusable, stuck in
// an error state, or mid-deletion. The reconciler inspects the live record
// and decides whether to reuse it, wait it out, or surface the conflict.
// Ownership of the record stays with the service; every decision is preceded
// by a fresh read.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/dataproc/v2/apiv1/dataprocpb"
	"github.com/go-logr/logr"

	"github.com/procflow-io/procflow/internal/dataproc"
	"github.com/procflow-io/procflow/internal/metrics"
	"github.com/procflow-io/procflow/internal/util/retry"
)

// Outcome is the result of a create reconciliation.
type Outcome int

const (
	// OutcomeCreated means the cluster was created by this reconciliation.
	OutcomeCreated Outcome = iota
	// OutcomeReusedExisting means a running cluster of the same name was
	// adopted instead of creating a new one.
	OutcomeReusedExisting
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeReusedExisting:
		return "reused_existing"
	default:
		return "unknown"
	}
}

// ConflictPolicy configures how an "already exists" collision is resolved.
type ConflictPolicy struct {
	// UseIfExists allows reusing a RUNNING cluster instead of failing.
	UseIfExists bool

	// DeleteOnError allows deleting an ERROR-state cluster and retrying
	// the create.
	DeleteOnError bool

	// MaxCreateAttempts bounds the total number of create calls,
	// including the initial one. Zero means the default of 2 (one retry).
	MaxCreateAttempts int

	// DeletePollAttempts bounds the number of polls while an existing
	// cluster is DELETING. Zero means the default of 10.
	DeletePollAttempts int

	// PollInitialDelay is the first backoff delay between deletion polls.
	PollInitialDelay time.Duration

	// PollMaxDelay caps the backoff delay between deletion polls.
	PollMaxDelay time.Duration
}

func (p ConflictPolicy) withDefaults() ConflictPolicy {
	if p.MaxCreateAttempts <= 0 {
		p.MaxCreateAttempts = 2
	}
	if p.DeletePollAttempts <= 0 {
		p.DeletePollAttempts = 10
	}
	if p.PollInitialDelay <= 0 {
		p.PollInitialDelay = 10 * time.Second
	}
	if p.PollMaxDelay <= 0 {
		p.PollMaxDelay = 5 * time.Minute
	}
	return p
}

// ConflictError is a terminal, unresolvable cluster name conflict.
type ConflictError struct {
	Cluster string
	State   dataprocpb.ClusterStatus_State
	Reason  string
	Err     error
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("cluster %s conflict (state %s): %s", e.Cluster, e.State, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// ErrRetryExhausted is returned when the create or deletion-poll ceiling is
// reached without resolution.
var ErrRetryExhausted = errors.New("retry ceiling reached")

// errStillDeleting is internal control flow for the deletion poll loop.
var errStillDeleting = errors.New("cluster still deleting")

// Reconciler resolves cluster-create conflicts for one project/region.
type Reconciler struct {
	clusters dataproc.ClusterService
	project  string
	region   string
	policy   ConflictPolicy
	log      logr.Logger
}

// New creates a Reconciler.
func New(clusters dataproc.ClusterService, project, region string, policy ConflictPolicy, log logr.Logger) *Reconciler {
	return &Reconciler{
		clusters: clusters,
		project:  project,
		region:   region,
		policy:   policy.withDefaults(),
		log:      log.WithValues("project", project, "region", region),
	}
}

// Create attempts to create the cluster, resolving name collisions per the
// configured policy. It returns the outcome and the authoritative cluster
// record (newly created or reused).
func (r *Reconciler) Create(ctx context.Context, cluster *dataprocpb.Cluster, requestID string) (Outcome, *dataprocpb.Cluster, error) {
	name := cluster.GetClusterName()
	start := time.Now()

	for attempt := 1; attempt <= r.policy.MaxCreateAttempts; attempt++ {
		created, err := r.clusters.CreateCluster(ctx, r.project, r.region, cluster, requestID)
		if err == nil {
			metrics.ObserveReconcile(OutcomeCreated.String(), time.Since(start))
			return OutcomeCreated, created, nil
		}
		if !dataproc.IsAlreadyExists(err) {
			metrics.ObserveReconcile("error", time.Since(start))
			return 0, nil, fmt.Errorf("failed to create cluster %s: %w", name, err)
		}

		r.log.Info("Cluster already exists, resolving conflict", "cluster", name, "attempt", attempt)
		reused, resolveErr := r.resolveConflict(ctx, name, err)
		if resolveErr != nil {
			metrics.ObserveReconcile("conflict", time.Since(start))
			return 0, nil, resolveErr
		}
		if reused != nil {
			metrics.ObserveReconcile(OutcomeReusedExisting.String(), time.Since(start))
			return OutcomeReusedExisting, reused, nil
		}
		// Conflict cleared (record gone); loop retries the create.
	}

	metrics.ObserveReconcile("exhausted", time.Since(start))
	return 0, nil, fmt.Errorf("creating cluster %s after %d attempts: %w", name, r.policy.MaxCreateAttempts, ErrRetryExhausted)
}

// resolveConflict inspects the existing cluster and applies the policy.
// A non-nil cluster return means "reuse this record"; a nil, nil return
// means "the conflict cleared, retry the create".
func (r *Reconciler) resolveConflict(ctx context.Context, name string, conflictErr error) (*dataprocpb.Cluster, error) {
	if !r.policy.UseIfExists {
		return nil, &ConflictError{
			Cluster: name,
			Reason:  "reuse of existing clusters is disabled",
			Err:     conflictErr,
		}
	}

	existing, err := r.clusters.GetCluster(ctx, r.project, r.region, name)
	if dataproc.IsNotFound(err) {
		// The record vanished between the create collision and the
		// re-read; the deletion completed and the create can be retried.
		r.log.Info("Conflicting cluster vanished, retrying create", "cluster", name)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conflicting cluster %s: %w", name, err)
	}

	state := existing.GetStatus().GetState()
	switch state {
	case dataprocpb.ClusterStatus_RUNNING:
		r.log.Info("Reusing existing running cluster", "cluster", name)
		return existing, nil

	case dataprocpb.ClusterStatus_ERROR:
		if !r.policy.DeleteOnError {
			return nil, &ConflictError{
				Cluster: name,
				State:   state,
				Reason:  "existing cluster is in error state and delete_on_error is disabled",
			}
		}
		r.captureDiagnostics(ctx, name)
		r.log.Info("Deleting existing cluster in error state", "cluster", name)
		if err := r.clusters.DeleteCluster(ctx, r.project, r.region, name); err != nil {
			return nil, fmt.Errorf("failed to delete cluster %s in error state: %w", name, err)
		}
		if err := r.waitForDeletion(ctx, name); err != nil {
			return nil, err
		}
		return nil, nil

	case dataprocpb.ClusterStatus_DELETING:
		r.log.Info("Existing cluster is deleting, waiting", "cluster", name)
		if err := r.waitForDeletion(ctx, name); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, &ConflictError{
			Cluster: name,
			State:   state,
			Reason:  "existing cluster is in an unexpected state",
		}
	}
}

// captureDiagnostics grabs a diagnostic bundle for the cluster. Best-effort:
// a failure here is logged and never blocks the reconciliation.
func (r *Reconciler) captureDiagnostics(ctx context.Context, name string) {
	uri, err := r.clusters.DiagnoseCluster(ctx, r.project, r.region, name)
	if err != nil {
		r.log.Error(err, "Failed to capture cluster diagnostics", "cluster", name)
		return
	}
	r.log.Info("Captured cluster diagnostics", "cluster", name, "outputURI", uri)
}

// waitForDeletion polls the cluster record on an exponential backoff schedule
// until it reports not-found. A terminal non-deleting state surfaces as a
// ConflictError; reaching the poll ceiling surfaces ErrRetryExhausted.
func (r *Reconciler) waitForDeletion(ctx context.Context, name string) error {
	err := retry.WithExponentialBackoff(ctx, func() error {
		metrics.CountDeletePoll()
		existing, err := r.clusters.GetCluster(ctx, r.project, r.region, name)
		if dataproc.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return retry.Fatal(fmt.Errorf("failed to poll cluster %s: %w", name, err))
		}
		state := existing.GetStatus().GetState()
		if state == dataprocpb.ClusterStatus_DELETING {
			return errStillDeleting
		}
		return retry.Fatal(&ConflictError{
			Cluster: name,
			State:   state,
			Reason:  "cluster left the deleting state unexpectedly",
		})
	},
		retry.WithMaxRetries(r.policy.DeletePollAttempts),
		retry.WithInitialDelay(r.policy.PollInitialDelay),
		retry.WithMaxDelay(r.policy.PollMaxDelay),
		retry.WithOnRetry(func(attempt int, delay time.Duration) {
			r.log.V(1).Info("Cluster still deleting", "cluster", name, "attempt", attempt, "nextPoll", delay)
		}))

	if err == nil {
		return nil
	}
	if errors.Is(err, errStillDeleting) {
		return fmt.Errorf("cluster %s still deleting after %d polls: %w", name, r.policy.DeletePollAttempts+1, ErrRetryExhausted)
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict
	}
	return err
}
