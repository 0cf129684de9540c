package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientMetrics instruments the outbound side of the workspace API client.
// All methods are nil-safe so the gateway can run with metrics disabled.
type ClientMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	pollsTotal        *prometheus.CounterVec
	chatMessagesTotal *prometheus.CounterVec
	uploadsTotal      *prometheus.CounterVec
}

func NewClientMetrics(service string) *ClientMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "juriscli",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total outbound API requests by endpoint and status.",
		},
		[]string{"service", "method", "endpoint", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "juriscli",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Outbound API request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "juriscli",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight outbound requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	pollsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "juriscli",
			Subsystem: "detail",
			Name:      "polls_total",
			Help:      "Total silent document status polls by outcome.",
		},
		[]string{"service", "outcome"},
	)
	chatMessagesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "juriscli",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Total chat messages exchanged by role.",
		},
		[]string{"service", "role"},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "juriscli",
			Subsystem: "upload",
			Name:      "documents_total",
			Help:      "Total document uploads by outcome.",
		},
		[]string{"service", "outcome"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		pollsTotal,
		chatMessagesTotal,
		uploadsTotal,
	)

	return &ClientMetrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		pollsTotal:        pollsTotal,
		chatMessagesTotal: chatMessagesTotal,
		uploadsTotal:      uploadsTotal,
	}
}

func (m *ClientMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a request in flight and returns the completion
// callback recording its status and duration.
func (m *ClientMetrics) RequestStarted(service, method, path string) func(status int) {
	if m == nil {
		return func(int) {}
	}

	start := time.Now()
	endpoint := normalizeEndpoint(path)
	m.requestInFlight.Inc()

	return func(status int) {
		m.requestInFlight.Dec()
		m.requestTotal.WithLabelValues(service, method, endpoint, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(service, method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func (m *ClientMetrics) RecordPoll(service string, pending bool) {
	if m == nil {
		return
	}
	outcome := "settled"
	if pending {
		outcome = "pending"
	}
	m.pollsTotal.WithLabelValues(service, outcome).Inc()
}

func (m *ClientMetrics) RecordChatMessage(service, role string) {
	if m == nil {
		return
	}
	m.chatMessagesTotal.WithLabelValues(service, role).Inc()
}

func (m *ClientMetrics) RecordUpload(service string, ok bool) {
	if m == nil {
		return
	}
	outcome := "error"
	if ok {
		outcome = "success"
	}
	m.uploadsTotal.WithLabelValues(service, outcome).Inc()
}

var (
	endpointIDPattern   = regexp.MustCompile(`/\d+(/|$)`)
	endpointCodePattern = regexp.MustCompile(`^/groups/join/[^/]+/`)
)

// normalizeEndpoint collapses identifier path segments so per-document and
// per-group paths share one label value.
func normalizeEndpoint(path string) string {
	path = endpointCodePattern.ReplaceAllString(path, "/groups/join/{code}/")
	return endpointIDPattern.ReplaceAllString(path, "/{id}$1")
}
