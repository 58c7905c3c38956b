package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OrderMetrics holds the counters of the order and payment lifecycle.
type OrderMetrics struct {
	OrdersCreatedTotal     *prometheus.CounterVec
	OrderTransitionsTotal  *prometheus.CounterVec
	PaymentCallbacksTotal  *prometheus.CounterVec
	GatewayRequestDuration *prometheus.HistogramVec
	OutboxPublishedTotal   *prometheus.CounterVec
	AdminOverridesTotal    prometheus.Counter
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	factory := promauto.With(reg)

	return &OrderMetrics{
		OrdersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Orders created at checkout",
			},
			[]string{"currency"},
		),

		OrderTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transitions_total",
				Help: "Order state transitions",
			},
			[]string{"from", "to", "trigger"},
		),

		PaymentCallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_callbacks_total",
				Help: "Gateway callbacks by outcome",
			},
			[]string{"outcome"},
		),

		GatewayRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_token_request_duration_seconds",
				Help:    "Latency of hosted payment token requests",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms, 100ms, 200ms...
			},
			[]string{"result"},
		),

		OutboxPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outbox_events_published_total",
				Help: "Outbox events relayed to the publisher",
			},
			[]string{"event_type", "result"},
		),

		AdminOverridesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "order_admin_overrides_total",
				Help: "Administrative order overrides",
			},
		),
	}
}
