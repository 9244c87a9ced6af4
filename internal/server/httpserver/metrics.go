package httpserver

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/weynak/weynak/internal/common"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// Metrics holds the collectors exposed on /metrics.
type Metrics struct {
	registry       *prometheus.Registry
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	flowTotal      *prometheus.CounterVec
}

// NewMetrics builds a private registry so several servers (and tests) can
// coexist in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weynak",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weynak",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		flowTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weynak",
			Subsystem: "auth",
			Name:      "flow_total",
			Help:      "Account flow outcomes by flow and result kind",
		}, []string{"flow", "outcome"}),
	}

	m.registry.MustRegister(
		m.requestTotal,
		m.requestLatency,
		m.flowTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) recordRequest(method, route string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	m.requestTotal.With(labels).Inc()
	m.requestLatency.With(labels).Observe(duration.Seconds())
}

// recordFlow counts one flow invocation as "success" or by its error kind.
func (m *Metrics) recordFlow(flow string, err error) {
	outcome := "success"
	if err != nil {
		outcome = common.KindOf(err).String()
	}
	m.flowTotal.WithLabelValues(flow, outcome).Inc()
}
