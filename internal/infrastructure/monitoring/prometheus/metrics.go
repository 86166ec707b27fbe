// Package prometheus registers and serves the portal's metrics. All metrics
// live on a private registry so tests can build isolated instances.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "epr_portal"

var httpDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Metrics holds every metric the portal exposes.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OrchestrationRunsTotal  *prometheus.CounterVec
	AutoSubmissionsTotal    *prometheus.CounterVec
	PaymentInitiationsTotal *prometheus.CounterVec
}

// NewMetrics builds and registers the portal metrics on a fresh registry,
// alongside the standard process and Go runtime collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   httpDurationBuckets,
		}, []string{"method", "route"}),
		OrchestrationRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orchestration_runs_total",
			Help:      "Orchestration invocations, by journey and outcome.",
		}, []string{"journey", "outcome"}),
		AutoSubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_submissions_total",
			Help:      "Applications auto-submitted with nothing outstanding.",
		}, []string{"journey"}),
		PaymentInitiationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_initiations_total",
			Help:      "Payment hand-overs to the provider, by journey and result.",
		}, []string{"journey", "result"}),
	}
	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrchestrationRunsTotal,
		m.AutoSubmissionsTotal,
		m.PaymentInitiationsTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// RecordHTTPRequest observes one served request. route is the registered
// route pattern, not the raw URL, to keep cardinality bounded.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// JourneyMetrics is the per-journey view handed to an orchestrator. It
// satisfies the application layer's metrics port.
type JourneyMetrics struct {
	journey string
	m       *Metrics
}

// Journey returns the metrics view for one orchestration journey, e.g.
// "registration" or "resubmission".
func (m *Metrics) Journey(name string) *JourneyMetrics {
	return &JourneyMetrics{journey: name, m: m}
}

func (j *JourneyMetrics) OrchestrationRun(outcome string) {
	j.m.OrchestrationRunsTotal.WithLabelValues(j.journey, outcome).Inc()
}

func (j *JourneyMetrics) AutoSubmission() {
	j.m.AutoSubmissionsTotal.WithLabelValues(j.journey).Inc()
}

func (j *JourneyMetrics) PaymentInitiation(result string) {
	j.m.PaymentInitiationsTotal.WithLabelValues(j.journey, result).Inc()
}
