// Package metrics defines the Prometheus instrumentation for the delivery API.
// Counters are registered at package load via promauto and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DeliveriesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spoedpakketjes_deliveries_created_total",
		Help: "Total number of deliveries successfully created.",
	})

	StatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spoedpakketjes_delivery_status_updates_total",
		Help: "Total number of delivery status transitions, by target status.",
	},
		[]string{"status"},
	)

	EstimatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spoedpakketjes_estimates_total",
		Help: "Total number of price estimates computed.",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spoedpakketjes_http_requests_total",
		Help: "Total number of HTTP requests handled, by method and status code.",
	},
		[]string{"method", "code"},
	)
)
