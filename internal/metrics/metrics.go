// Package metrics exposes the server's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SimulationsTotal counts projection computations by kind and source
	// ("computed" or "cache").
	SimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "financasgo_simulations_total",
			Help: "Projection computations by kind and result source.",
		},
		[]string{"kind", "source"},
	)

	// WebhookEvents counts billing webhook deliveries by outcome.
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "financasgo_webhook_events_total",
			Help: "Mercado Pago webhook deliveries by outcome.",
		},
		[]string{"outcome"},
	)

	// SubscriptionTransitions counts user subscription status changes applied
	// by the webhook processor.
	SubscriptionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "financasgo_subscription_transitions_total",
			Help: "User subscription status transitions.",
		},
		[]string{"status"},
	)
)
