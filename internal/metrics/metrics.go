package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlaceOrderDuration tracks checkout latency end to end, including
	// the pricing dry run and the commit transaction.
	PlaceOrderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_place_duration_seconds",
			Help:    "Duration of order placement requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"status"},
	)

	// OrdersRejected counts checkouts refused before commit, by reason.
	OrdersRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_rejected_total",
			Help: "Number of rejected order placements by reason",
		},
		[]string{"reason"},
	)
)

func RecordPlaceOrderDuration(status string, duration float64) {
	PlaceOrderDuration.WithLabelValues(status).Observe(duration)
}

func RecordOrderRejected(reason string) {
	OrdersRejected.WithLabelValues(reason).Inc()
}
