package dataproc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsAlreadyExists(t *testing.T) {
	t.Parallel()

	assert.True(t, IsAlreadyExists(status.Error(codes.AlreadyExists, "cluster exists")))
	assert.False(t, IsAlreadyExists(status.Error(codes.NotFound, "no cluster")))
	assert.False(t, IsAlreadyExists(errors.New("plain error")))
	assert.False(t, IsAlreadyExists(nil))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFound(status.Error(codes.NotFound, "no cluster")))
	assert.False(t, IsNotFound(status.Error(codes.AlreadyExists, "cluster exists")))
	assert.False(t, IsNotFound(nil))
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRetryable(status.Error(codes.Unavailable, "backend down")))
	assert.True(t, IsRetryable(status.Error(codes.Aborted, "conflict")))
	assert.False(t, IsRetryable(status.Error(codes.InvalidArgument, "bad region")))
	assert.False(t, IsRetryable(nil))
}

func TestIsGRPCCode_WrappedStatus(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("create failed: %w", status.Error(codes.AlreadyExists, "cluster exists"))
	assert.True(t, IsAlreadyExists(wrapped))

	deeplyWrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", status.Error(codes.NotFound, "gone")))
	assert.True(t, IsNotFound(deeplyWrapped))
}
