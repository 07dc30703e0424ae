package dataproc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// IsAlreadyExists checks if an error indicates a resource name collision.
// This is the trigger for the create-conflict reconciliation flow.
func IsAlreadyExists(err error) bool {
	return isGRPCCode(err, codes.AlreadyExists)
}

// IsNotFound checks if an error indicates a resource was not found.
// During deletion polling this is the expected terminal signal, not a failure.
func IsNotFound(err error) bool {
	return isGRPCCode(err, codes.NotFound)
}

// IsRetryable checks if an error is transient and worth retrying.
func IsRetryable(err error) bool {
	return isGRPCCode(err,
		codes.Unavailable,
		codes.DeadlineExceeded,
		codes.Aborted,
		codes.ResourceExhausted,
	)
}

// isGRPCCode checks if the error carries a gRPC status with one of the given codes.
// The status may sit anywhere in the wrap chain.
func isGRPCCode(err error, targets ...codes.Code) bool {
	if err == nil {
		return false
	}

	var gs interface{ GRPCStatus() *status.Status }
	if !errors.As(err, &gs) {
		return false
	}

	code := gs.GRPCStatus().Code()
	for _, target := range targets {
		if code == target {
			return true
		}
	}
	return false
}
