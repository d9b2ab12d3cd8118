package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReservationTransitions counts committed state changes by operation and resulting status.
	ReservationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservations",
			Name:      "transitions_total",
			Help:      "The total number of committed reservation state transitions",
		},
		[]string{"operation", "status"},
	)

	// ReservationRejections counts operations rejected with a domain or concurrency error.
	ReservationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservations",
			Name:      "rejections_total",
			Help:      "The total number of rejected reservation operations",
		},
		[]string{"operation", "kind"},
	)

	// SeatsHeld tracks seats moved in (reserve) and out (release) of run inventory.
	SeatsHeld = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "seats_total",
			Help:      "Seats reserved from or released back to vehicle runs",
		},
		[]string{"direction"},
	)

	SweepExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sweeper",
			Name:      "expired_total",
			Help:      "Reservations force-expired by the sweeper",
		},
	)

	SweepSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sweeper",
			Name:      "skipped_total",
			Help:      "Reservations the sweeper failed to expire, by reason",
		},
		[]string{"reason"},
	)

	// SweepDuration The time spent on one sweep tick (summary with quantiles 0.5, 0.9, and 0.99)
	SweepDuration = promauto.NewSummary(
		prometheus.SummaryOpts{
			Namespace:  "sweeper",
			Name:       "tick_duration_seconds",
			Help:       "The time spent on one sweep tick",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
	)
)
