package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_events_published_total",
		Help: "Outbound payment events published to the bus, by topic.",
	}, []string{"topic"})

	SagasStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_sagas_started_total",
		Help: "Payment sagas started from order validation events, by payment method.",
	}, []string{"method"})

	SweptPayments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_sweep_failed_total",
		Help: "Overdue pending payments forced to FAILED by the sweep, by payment method.",
	}, []string{"method"})

	ProviderRequestFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_provider_request_failures_total",
		Help: "Failed outbound provider registration attempts, including retried ones.",
	})
)
