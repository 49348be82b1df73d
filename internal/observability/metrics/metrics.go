// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "tourops_"

var (
	// HTTPRequestDuration observes request latency per route and status.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// SequenceAllocationsTotal counts issued day-scoped codes per prefix.
	SequenceAllocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "sequence_allocations_total",
			Help: "Issued booking/voucher codes",
		},
		[]string{"prefix"},
	)

	// SequenceRetriesTotal counts internal retries of the allocator.
	SequenceRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metricPrefix + "sequence_retries_total",
			Help: "Internal allocator retries after lost races",
		},
	)

	// RateConflictsTotal counts rejected overlaps and dirty-data resolver hits.
	RateConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metricPrefix + "rate_conflicts_total",
			Help: "Rate period overlap rejections and resolve-time conflicts",
		},
	)

	// BookingRecomputesTotal counts booking totals recomputations.
	BookingRecomputesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metricPrefix + "booking_recomputes_total",
			Help: "Booking financial totals recomputations",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		SequenceAllocationsTotal,
		SequenceRetriesTotal,
		RateConflictsTotal,
		BookingRecomputesTotal,
	)
}
