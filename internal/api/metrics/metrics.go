// Package metrics defines and registers the custom Prometheus metrics of the
// tracker API. It is the single source of truth for metric names, labels, and
// help strings.
//
// All collectors are registered with the default registry through promauto
// when the package is imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracker"

// ── Ingest metrics ────────────────────────────────────────────────────────────

// PointsIngestedTotal counts points that were verified and stored.
var PointsIngestedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "points_ingested_total",
		Help:      "Total number of tracking points stored.",
	},
)

// IngestRejectedTotal counts ingest requests that did not produce a point.
// Label:
//   - reason: "validation", "unauthorized", "rate_limited" or "error"
var IngestRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_rejected_total",
		Help:      "Total number of rejected ingest requests, by reason.",
	},
	[]string{"reason"},
)

// ── Query metrics ─────────────────────────────────────────────────────────────

// TripQueryDuration measures active trip resolution, storage read included.
var TripQueryDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "trip_query_duration_seconds",
		Help:      "Duration of active trip queries.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ActiveTripPoints records how many points each trip query returned.
var ActiveTripPoints = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "active_trip_points",
		Help:      "Number of points returned per active trip query.",
		Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 2000, 5000, 10000},
	},
)

// ── Identity metrics ──────────────────────────────────────────────────────────

// IdentitiesRegisteredTotal counts issued credentials.
var IdentitiesRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identities_registered_total",
		Help:      "Total number of identities registered.",
	},
)
