// Package metrics provides Prometheus metrics for the Drip service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhooksTotal tracks processed webhook deliveries by outcome
	WebhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drip",
			Subsystem: "webhook",
			Name:      "deliveries_total",
			Help:      "Total number of webhook deliveries by model, event and status",
		},
		[]string{"model", "event", "status"},
	)

	// WebhookDuration tracks end to end webhook handling duration
	WebhookDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "drip",
			Subsystem: "webhook",
			Name:      "duration_seconds",
			Help:      "Duration of webhook handling in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	// RehydrationsTotal tracks CMS entry fetches by outcome
	RehydrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drip",
			Subsystem: "strapi",
			Name:      "fetches_total",
			Help:      "Total number of CMS entry fetches by model and status",
		},
		[]string{"model", "status"},
	)

	// RehydrationDuration tracks CMS entry fetch duration
	RehydrationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "drip",
			Subsystem: "strapi",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of CMS entry fetches in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	// ProjectionsTotal tracks projection writes by outcome
	ProjectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drip",
			Subsystem: "projection",
			Name:      "writes_total",
			Help:      "Total number of projection writes by model, operation and status",
		},
		[]string{"model", "operation", "status"},
	)

	// KafkaMessagesPublished tracks sync events published to Kafka
	KafkaMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drip",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of messages published to Kafka",
		},
		[]string{"topic", "status"},
	)
)

// RecordWebhook records a webhook delivery metric
func RecordWebhook(model, event, status string, durationSeconds float64) {
	WebhooksTotal.WithLabelValues(model, event, status).Inc()
	WebhookDuration.WithLabelValues(model).Observe(durationSeconds)
}

// RecordRehydration records a CMS entry fetch metric
func RecordRehydration(model, status string, durationSeconds float64) {
	RehydrationsTotal.WithLabelValues(model, status).Inc()
	RehydrationDuration.WithLabelValues(model).Observe(durationSeconds)
}

// RecordProjection records a projection write metric
func RecordProjection(model, operation, status string) {
	ProjectionsTotal.WithLabelValues(model, operation, status).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt
func RecordKafkaPublish(topic, status string) {
	KafkaMessagesPublished.WithLabelValues(topic, status).Inc()
}
