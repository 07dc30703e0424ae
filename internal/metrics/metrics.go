// Package metrics exposes Prometheus metrics for operator and reconciler activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Reconciliation metrics
	reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procflow",
			Subsystem: "reconcile",
			Name:      "cluster_create_total",
			Help:      "Total number of cluster create reconciliations by result",
		},
		[]string{"result"},
	)

	reconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "procflow",
			Subsystem: "reconcile",
			Name:      "cluster_create_duration_seconds",
			Help:      "Duration of cluster create reconciliation in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7m
		},
		[]string{"result"},
	)

	deletePollsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "procflow",
			Subsystem: "reconcile",
			Name:      "delete_polls_total",
			Help:      "Total number of polls issued while waiting for cluster deletion",
		},
	)

	// Operator metrics
	operatorCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procflow",
			Subsystem: "operator",
			Name:      "calls_total",
			Help:      "Total number of operator executions by operator and result",
		},
		[]string{"operator", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		reconcileTotal,
		reconcileDuration,
		deletePollsTotal,
		operatorCallsTotal,
	)
}

// ObserveReconcile records the result and duration of one reconciliation.
func ObserveReconcile(result string, elapsed time.Duration) {
	reconcileTotal.WithLabelValues(result).Inc()
	reconcileDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

// CountDeletePoll records one deletion poll attempt.
func CountDeletePoll() {
	deletePollsTotal.Inc()
}

// CountOperatorCall records one operator execution.
func CountOperatorCall(operator, result string) {
	operatorCallsTotal.WithLabelValues(operator, result).Inc()
}
