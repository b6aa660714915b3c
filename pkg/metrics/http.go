package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics provides observability for the HTTP serving path.
//
// Implementations can collect metrics about requests, connection
// lifecycle, and the worker pool queue. This interface is optional - the
// server falls back to a no-op implementation with zero overhead.
type HTTPMetrics interface {
	// RecordRequest records a completed request with its method, the
	// status code written, and the time from accept to response.
	RecordRequest(method string, code int, duration time.Duration)

	// RecordConnectionAccepted increments the accepted connections
	// counter.
	RecordConnectionAccepted()

	// RecordConnectionRejected increments the rejected connections
	// counter (rate limit exceeded).
	RecordConnectionRejected()

	// RecordConnectionClosed increments the closed connections counter.
	RecordConnectionClosed()

	// SetQueueDepthFunc registers a callback sampled at scrape time to
	// report the worker pool queue depth.
	SetQueueDepthFunc(fn func() int)
}

// httpMetrics is the Prometheus implementation of HTTPMetrics.
type httpMetrics struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	connectionsAccepted prometheus.Counter
	connectionsRejected prometheus.Counter
	connectionsClosed   prometheus.Counter
}

// NewHTTPMetrics creates a Prometheus-backed HTTPMetrics instance.
//
// Returns a no-op implementation if metrics are not enabled
// (InitRegistry not called).
func NewHTTPMetrics() HTTPMetrics {
	if !IsEnabled() {
		return NewNoopHTTPMetrics()
	}

	reg := GetRegistry()

	return &httpMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "staticd_http_requests_total",
				Help: "Total number of HTTP requests by method and status code",
			},
			[]string{"method", "code"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "staticd_http_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
				Buckets: []float64{
					0.001, // 1ms
					0.005, // 5ms
					0.01,  // 10ms
					0.025, // 25ms
					0.05,  // 50ms
					0.1,   // 100ms
					0.25,  // 250ms
					0.5,   // 500ms
					1.0,   // 1s
					2.5,   // 2.5s
				},
			},
			[]string{"method"},
		),
		connectionsAccepted: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "staticd_http_connections_accepted_total",
				Help: "Total number of connections accepted",
			},
		),
		connectionsRejected: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "staticd_http_connections_rejected_total",
				Help: "Total number of connections rejected by the rate limiter",
			},
		),
		connectionsClosed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "staticd_http_connections_closed_total",
				Help: "Total number of connections closed",
			},
		),
	}
}

func (m *httpMetrics) RecordRequest(method string, code int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func (m *httpMetrics) RecordConnectionAccepted() {
	m.connectionsAccepted.Inc()
}

func (m *httpMetrics) RecordConnectionRejected() {
	m.connectionsRejected.Inc()
}

func (m *httpMetrics) RecordConnectionClosed() {
	m.connectionsClosed.Inc()
}

func (m *httpMetrics) SetQueueDepthFunc(fn func() int) {
	promauto.With(GetRegistry()).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "staticd_http_queue_depth",
			Help: "Current number of connections waiting in the worker pool queue",
		},
		func() float64 { return float64(fn()) },
	)
}

// NewNoopHTTPMetrics returns an HTTPMetrics implementation that discards
// every observation.
func NewNoopHTTPMetrics() HTTPMetrics {
	return noopHTTPMetrics{}
}

type noopHTTPMetrics struct{}

func (noopHTTPMetrics) RecordRequest(method string, code int, duration time.Duration) {}
func (noopHTTPMetrics) RecordConnectionAccepted()                                     {}
func (noopHTTPMetrics) RecordConnectionRejected()                                     {}
func (noopHTTPMetrics) RecordConnectionClosed()                                       {}
func (noopHTTPMetrics) SetQueueDepthFunc(fn func() int)                               {}
