package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProjectOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "project_operations_total",
			Help:      "Total number of project service operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	ProjectWriteConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "project_write_conflicts_total",
			Help:      "Total number of optimistic write conflicts on project aggregates",
		},
		[]string{"operation"},
	)

	ProjectAggregateBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "project_aggregate_bytes",
			Help:      "Encoded size of project aggregates written to storage",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		},
	)
)
