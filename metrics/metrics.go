// Package metrics provides Prometheus metrics export for the
// interpretation pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records pipeline metrics and serves them over HTTP.
type Collector struct {
	registry *prometheus.Registry

	interpretLatency *prometheus.HistogramVec
	intentTotal      *prometheus.CounterVec
	commandTotal     *prometheus.CounterVec
	queueDepth       prometheus.Gauge
	remindersFired   prometheus.Counter
	deliveryErrors   prometheus.Counter
}

// Config configures the collector.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for the interpret latency histogram (in seconds)
	LatencyBuckets []float64
}

// New creates a collector and registers its metrics.
func New(cfg Config) *Collector {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	buckets := cfg.LatencyBuckets
	if len(buckets) == 0 {
		buckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}
	}

	c := &Collector{
		registry: registry,
		interpretLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "natasha",
			Name:      "interpret_duration_seconds",
			Help:      "Latency of the classify/extract/dispatch path.",
			Buckets:   buckets,
		}, []string{"outcome"}),
		intentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "natasha",
			Name:      "intents_total",
			Help:      "Classified intents by tag.",
		}, []string{"intent"}),
		commandTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "natasha",
			Name:      "commands_total",
			Help:      "Dispatched commands by id.",
		}, []string{"command"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "natasha",
			Name:      "response_queue_depth",
			Help:      "Responses waiting for delivery.",
		}),
		remindersFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "natasha",
			Name:      "reminders_fired_total",
			Help:      "Reminder and timer entries fired.",
		}),
		deliveryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "natasha",
			Name:      "delivery_errors_total",
			Help:      "Failed response deliveries.",
		}),
	}

	registry.MustRegister(
		c.interpretLatency,
		c.intentTotal,
		c.commandTotal,
		c.queueDepth,
		c.remindersFired,
		c.deliveryErrors,
	)
	return c
}

// ObserveInterpret records one pass through the interpretation path.
func (c *Collector) ObserveInterpret(outcome string, elapsed time.Duration) {
	c.interpretLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// CountIntent increments the classified-intent counter.
func (c *Collector) CountIntent(intent string) {
	c.intentTotal.WithLabelValues(intent).Inc()
}

// CountCommand increments the dispatched-command counter.
func (c *Collector) CountCommand(command string) {
	c.commandTotal.WithLabelValues(command).Inc()
}

// SetQueueDepth updates the response queue depth gauge.
func (c *Collector) SetQueueDepth(depth int) {
	c.queueDepth.Set(float64(depth))
}

// CountReminderFired increments the fired-reminder counter.
func (c *Collector) CountReminderFired() {
	c.remindersFired.Inc()
}

// CountDeliveryError increments the failed-delivery counter.
func (c *Collector) CountDeliveryError() {
	c.deliveryErrors.Inc()
}

// Handler returns the HTTP handler exposing the registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
