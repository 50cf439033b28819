// Package metrics registers the Prometheus collectors for event processing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Event outcomes recorded by the bridge.
const (
	OutcomeProcessed  = "processed"
	OutcomeRetried    = "retried"
	OutcomeDeadLetter = "dead_letter"
	OutcomeFailed     = "failed"
)

// Bridge holds the collectors of the event bridge.
type Bridge struct {
	events   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewBridge creates the bridge collectors and registers them with reg. A nil
// reg leaves them unregistered, which suits tests.
func NewBridge(reg prometheus.Registerer) *Bridge {
	b := &Bridge{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "bridge",
			Name:      "events_total",
			Help:      "Events handled by the bridge, by topic, event type and outcome.",
		}, []string{"topic", "type", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shop",
			Subsystem: "bridge",
			Name:      "event_duration_seconds",
			Help:      "Time spent handling one event, retries included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"topic", "type"}),
	}
	if reg != nil {
		reg.MustRegister(b.events, b.duration)
	}
	return b
}

// Observe records one handled event.
func (b *Bridge) Observe(topic, eventType, outcome string, elapsed time.Duration) {
	b.events.WithLabelValues(topic, eventType, outcome).Inc()
	b.duration.WithLabelValues(topic, eventType).Observe(elapsed.Seconds())
}

// Retried counts one retry of an event.
func (b *Bridge) Retried(topic, eventType string) {
	b.events.WithLabelValues(topic, eventType, OutcomeRetried).Inc()
}
