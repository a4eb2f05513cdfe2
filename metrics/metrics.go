// Package metrics declares the Prometheus collectors of the assistant
// service. They register with the default registry on import:
//   - pharmly_http_requests_total, pharmly_http_request_duration_seconds,
//     pharmly_http_requests_in_flight for the HTTP surface
//   - pharmly_assistant_intent_total per classified intent
//   - pharmly_bridge_order_total and
//     pharmly_bridge_prescription_verification_total for remote calls
//   - pharmly_catalog_medicines and pharmly_catalog_refresh_total
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "pharmly"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served",
		},
	)

	RateLimiterClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limiter_clients",
			Help:      "Client buckets currently tracked by the rate limiter",
		},
	)

	IntentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_intent_total",
			Help:      "Chat utterances by classified intent",
		},
		[]string{"intent"},
	)

	OrderTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_order_total",
			Help:      "Order placements by result (success, failure or rejected)",
		},
		[]string{"result"},
	)

	PrescriptionVerificationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_prescription_verification_total",
			Help:      "Prescription verifications by backend outcome (confirmed or optimistic)",
		},
		[]string{"backend"},
	)

	CatalogMedicines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_medicines",
			Help:      "Medicines in the current catalog",
		},
	)

	CatalogRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_refresh_total",
			Help:      "Catalog refresh attempts by source used",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestsInFlight,
		RateLimiterClients,
		IntentTotal,
		OrderTotal,
		PrescriptionVerificationTotal,
		CatalogMedicines,
		CatalogRefreshTotal,
	)
}
