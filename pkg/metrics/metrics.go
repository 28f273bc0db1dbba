package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type EngineMetrics struct {
	OrdersReceived *prometheus.CounterVec
	OrdersRejected *prometheus.CounterVec
	OrdersCanceled *prometheus.CounterVec
	TradesExecuted *prometheus.CounterVec
	TradedVolume   *prometheus.CounterVec
	RestingOrders  *prometheus.GaugeVec
	PendingStops   *prometheus.GaugeVec
	SubmitLatency  *prometheus.HistogramVec
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	factory := promauto.With(reg)

	return &EngineMetrics{
		OrdersReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "matching_engine",
			Name:      "orders_received_total",
			Help:      "Orders received, by symbol and type.",
		}, []string{"symbol", "type"}),
		OrdersRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "matching_engine",
			Name:      "orders_rejected_total",
			Help:      "Orders rejected, by reason.",
		}, []string{"reason"}),
		OrdersCanceled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "matching_engine",
			Name:      "orders_canceled_total",
			Help:      "Orders canceled, by symbol.",
		}, []string{"symbol"}),
		TradesExecuted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "matching_engine",
			Name:      "trades_executed_total",
			Help:      "Trades executed, by symbol.",
		}, []string{"symbol"}),
		TradedVolume: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "matching_engine",
			Name:      "traded_volume_total",
			Help:      "Total traded base quantity, by symbol.",
		}, []string{"symbol"}),
		RestingOrders: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "matching_engine",
			Name:      "resting_orders",
			Help:      "Orders currently resting on the book, by symbol.",
		}, []string{"symbol"}),
		PendingStops: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "matching_engine",
			Name:      "pending_conditional_orders",
			Help:      "Conditional orders waiting for their trigger, by symbol.",
		}, []string{"symbol"}),
		SubmitLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "matching_engine",
			Name:      "submit_latency_seconds",
			Help:      "Order submission latency, matching included.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"symbol"}),
	}
}
