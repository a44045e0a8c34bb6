package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	transitionTotal *prometheus.CounterVec
	stateEntities   *prometheus.GaugeVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	transitionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_transitions_total",
		Help: "State transitions applied, by entity and operation",
	}, []string{"entity", "op"})

	stateEntities := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "state_entities",
		Help: "Current number of entities per collection",
	}, []string{"collection"})

	registry.MustRegister(requestDuration, requestTotal, transitionTotal, stateEntities)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		transitionTotal: transitionTotal,
		stateEntities:   stateEntities,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	return m.handler
}

// ObserveHTTPRequest records one completed request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveTransition counts one applied state transition.
func (m *MetricsService) ObserveTransition(entity, op string) {
	m.transitionTotal.WithLabelValues(entity, op).Inc()
}

// SetCollectionSizes records the current collection sizes.
func (m *MetricsService) SetCollectionSizes(students, subjects, timeEntries int) {
	m.stateEntities.WithLabelValues("students").Set(float64(students))
	m.stateEntities.WithLabelValues("subjects").Set(float64(subjects))
	m.stateEntities.WithLabelValues("timeEntries").Set(float64(timeEntries))
}
