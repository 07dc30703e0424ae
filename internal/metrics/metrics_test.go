package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveReconcile(t *testing.T) {
	before := testutil.ToFloat64(reconcileTotal.WithLabelValues("created"))

	ObserveReconcile("created", 250*time.Millisecond)

	after := testutil.ToFloat64(reconcileTotal.WithLabelValues("created"))
	assert.Equal(t, before+1, after)
}

func TestCountDeletePoll(t *testing.T) {
	before := testutil.ToFloat64(deletePollsTotal)

	CountDeletePoll()
	CountDeletePoll()

	assert.Equal(t, before+2, testutil.ToFloat64(deletePollsTotal))
}

func TestCountOperatorCall(t *testing.T) {
	before := testutil.ToFloat64(operatorCallsTotal.WithLabelValues("submit_job", "error"))

	CountOperatorCall("submit_job", "error")

	assert.Equal(t, before+1, testutil.ToFloat64(operatorCallsTotal.WithLabelValues("submit_job", "error")))
}
