// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for the rsvideo console.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Records tracks the current length of the in-memory record list.
	Records = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rsvideo_records",
		Help: "Current number of video records in the store.",
	})

	// MutationsTotal counts store mutations by operation and outcome.
	// outcome is "persisted", "pending" (applied but save failed), or
	// "rejected" (validation or not-found).
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rsvideo_mutations_total",
		Help: "Total store mutations, by operation and outcome.",
	}, []string{"op", "outcome"})

	// GatewayOpsTotal counts persistence gateway calls by operation and result.
	GatewayOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rsvideo_gateway_ops_total",
		Help: "Total persistence gateway operations, by operation and result.",
	}, []string{"op", "result"})

	// GatewayOpSeconds observes gateway call latency.
	GatewayOpSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rsvideo_gateway_op_seconds",
		Help:    "Latency of persistence gateway operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	// ExpiryTransitionsTotal counts records crossing from active to expired.
	ExpiryTransitionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rsvideo_expiry_transitions_total",
		Help: "Total active-to-expired transitions observed by the watcher.",
	})

	// BatchRejectedTotal counts batch imports rejected for line errors.
	BatchRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rsvideo_batch_rejected_total",
		Help: "Total batch imports rejected because a line failed to parse.",
	})
)

// RecordMutation increments the mutation counter.
func RecordMutation(op, outcome string) {
	MutationsTotal.WithLabelValues(op, outcome).Inc()
}

// SetRecordCount updates the record gauge.
func SetRecordCount(n int) {
	Records.Set(float64(n))
}

// ObserveGatewayOp records one gateway call.
func ObserveGatewayOp(op string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	GatewayOpsTotal.WithLabelValues(op, result).Inc()
	GatewayOpSeconds.WithLabelValues(op).Observe(d.Seconds())
}
