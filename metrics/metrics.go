package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the scan pipeline and webhook delivery.
var (
	ScansSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scans_submitted_total",
			Help: "Total number of raw decode events submitted to the pipeline",
		},
	)

	ScansAcceptedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scans_accepted_total",
			Help: "Total number of decode events that produced a scan record",
		},
	)

	ScansDeduplicatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scans_deduplicated_total",
			Help: "Total number of decode events dropped by the debouncer",
		},
	)

	ScansThrottledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scans_throttled_total",
			Help: "Total number of decode events rejected by the throttle gate",
		},
	)

	DeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Total number of webhook delivery attempts by outcome",
		},
		[]string{"status"},
	)

	DeliveryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_delivery_duration_seconds",
			Help:    "Duration of webhook delivery attempts",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all Prometheus metrics.
func Register() {
	prometheus.MustRegister(ScansSubmittedTotal)
	prometheus.MustRegister(ScansAcceptedTotal)
	prometheus.MustRegister(ScansDeduplicatedTotal)
	prometheus.MustRegister(ScansThrottledTotal)
	prometheus.MustRegister(DeliveriesTotal)
	prometheus.MustRegister(DeliveryDuration)
}
