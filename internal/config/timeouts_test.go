package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	timeouts := LoadTimeouts()

	assert.Equal(t, 30*time.Minute, timeouts.ClusterCreate)
	assert.Equal(t, 15*time.Minute, timeouts.ClusterDelete)
	assert.Equal(t, 60*time.Minute, timeouts.JobWait)
	assert.Equal(t, 10, timeouts.RetryMaxAttempts)
	assert.Equal(t, 10*time.Second, timeouts.RetryInitialDelay)
}

func TestLoadTimeouts_EnvOverride(t *testing.T) {
	t.Setenv("PROCFLOW_TIMEOUT_CLUSTER_CREATE", "90s")
	t.Setenv("PROCFLOW_RETRY_MAX_ATTEMPTS", "3")

	timeouts := LoadTimeouts()

	assert.Equal(t, 90*time.Second, timeouts.ClusterCreate)
	assert.Equal(t, 3, timeouts.RetryMaxAttempts)
}

func TestLoadTimeouts_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("PROCFLOW_TIMEOUT_JOB_WAIT", "not-a-duration")
	t.Setenv("PROCFLOW_RETRY_MAX_ATTEMPTS", "many")

	timeouts := LoadTimeouts()

	assert.Equal(t, 60*time.Minute, timeouts.JobWait)
	assert.Equal(t, 10, timeouts.RetryMaxAttempts)
}

func TestTestTimeouts_Short(t *testing.T) {
	t.Parallel()

	timeouts := TestTimeouts()
	assert.LessOrEqual(t, timeouts.ClusterCreate, 5*time.Second)
	assert.LessOrEqual(t, timeouts.RetryInitialDelay, time.Millisecond)
}
