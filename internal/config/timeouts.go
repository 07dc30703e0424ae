package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	ClusterCreate     time.Duration // Timeout for cluster creation operations
	ClusterDelete     time.Duration // Timeout for cluster deletion operations
	JobWait           time.Duration // Timeout for waiting on job completion
	BatchWait         time.Duration // Timeout for waiting on batch completion
	Diagnose          time.Duration // Timeout for diagnostic capture
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - PROCFLOW_TIMEOUT_CLUSTER_CREATE (default: 30m)
//   - PROCFLOW_TIMEOUT_CLUSTER_DELETE (default: 15m)
//   - PROCFLOW_TIMEOUT_JOB_WAIT (default: 60m)
//   - PROCFLOW_TIMEOUT_BATCH_WAIT (default: 60m)
//   - PROCFLOW_TIMEOUT_DIAGNOSE (default: 10m)
//   - PROCFLOW_RETRY_MAX_ATTEMPTS (default: 10)
//   - PROCFLOW_RETRY_INITIAL_DELAY (default: 10s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ClusterCreate:     parseDuration("PROCFLOW_TIMEOUT_CLUSTER_CREATE", 30*time.Minute),
		ClusterDelete:     parseDuration("PROCFLOW_TIMEOUT_CLUSTER_DELETE", 15*time.Minute),
		JobWait:           parseDuration("PROCFLOW_TIMEOUT_JOB_WAIT", 60*time.Minute),
		BatchWait:         parseDuration("PROCFLOW_TIMEOUT_BATCH_WAIT", 60*time.Minute),
		Diagnose:          parseDuration("PROCFLOW_TIMEOUT_DIAGNOSE", 10*time.Minute),
		RetryMaxAttempts:  parseInt("PROCFLOW_RETRY_MAX_ATTEMPTS", 10),
		RetryInitialDelay: parseDuration("PROCFLOW_RETRY_INITIAL_DELAY", 10*time.Second),
	}
}

// TestTimeouts returns aggressively short timeouts for use in tests.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		ClusterCreate:     5 * time.Second,
		ClusterDelete:     5 * time.Second,
		JobWait:           5 * time.Second,
		BatchWait:         5 * time.Second,
		Diagnose:          5 * time.Second,
		RetryMaxAttempts:  2,
		RetryInitialDelay: 1 * time.Millisecond,
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return n
}
