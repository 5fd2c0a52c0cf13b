// Package metrics exposes Prometheus collectors for the quoting service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cotizador"

// Recorder owns a private registry so tests and multiple servers in one
// process never collide on registration. A nil *Recorder is a no-op.
type Recorder struct {
	registry *prometheus.Registry

	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	quotes     prometheus.Counter
	quoteArea  prometheus.Histogram
	documents  *prometheus.CounterVec
	sessions   prometheus.Gauge
	reloads    *prometheus.CounterVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Handled operations by name and result.",
		}, []string{"operation", "result"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Operation latency by name.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		quotes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_computed_total",
			Help:      "Quotes computed successfully.",
		}),
		quoteArea: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_total_area_square_meters",
			Help:      "Total built area of computed quotes.",
			Buckets:   []float64{50, 75, 100, 125, 150, 200, 250, 300},
		}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rendered_total",
			Help:      "PDF documents by renderer and result.",
		}, []string{"renderer", "result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chat_sessions",
			Help:      "Live conversation sessions.",
		}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_updates_total",
			Help:      "Catalog replacements by result.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.operations, r.durations, r.quotes, r.quoteArea, r.documents, r.sessions, r.reloads,
	)
	return r
}

// Observe records an operation outcome.
func (r *Recorder) Observe(operation string, success bool, duration time.Duration) {
	if r == nil || operation == "" {
		return
	}
	r.operations.WithLabelValues(operation, result(success)).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (r *Recorder) QuoteComputed(totalArea float64) {
	if r == nil {
		return
	}
	r.quotes.Inc()
	r.quoteArea.Observe(totalArea)
}

func (r *Recorder) DocumentRendered(renderer string, success bool) {
	if r == nil {
		return
	}
	if renderer == "" {
		renderer = "none"
	}
	r.documents.WithLabelValues(renderer, result(success)).Inc()
}

func (r *Recorder) SetSessions(n int) {
	if r == nil {
		return
	}
	r.sessions.Set(float64(n))
}

func (r *Recorder) CatalogUpdated(success bool) {
	if r == nil {
		return
	}
	r.reloads.WithLabelValues(result(success)).Inc()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
