package rpc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	bytesIn  *prometheus.CounterVec
	bytesOut *prometheus.CounterVec
	ratio    prometheus.Histogram
	duration *prometheus.HistogramVec
}

func newMetrics(registerer prometheus.Registerer, namespace string) *metrics {
	const subsystem = "rpc"

	m := metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Number of handled requests",
		}, []string{"method", "result"}),
		bytesIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "received_bytes_total",
			Help:      "Payload bytes received",
		}, []string{"method"}),
		bytesOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sent_bytes_total",
			Help:      "Payload bytes sent",
		}, []string{"method"}),
		ratio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "compression_ratio",
			Help:      "Compressed size divided by text size",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 12),
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Duration of codec calls",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"method"}),
	}

	if registerer != nil {
		registerer = prometheus.WrapRegistererWith(
			prometheus.Labels{"component": "lzstring"},
			registerer,
		)
		registerer.MustRegister(
			m.requests,
			m.bytesIn,
			m.bytesOut,
			m.ratio,
			m.duration,
		)
	}

	return &m
}

func (m *metrics) done(method string, in, out int, start time.Time) {
	m.requests.WithLabelValues(method, "ok").Inc()
	m.bytesIn.WithLabelValues(method).Add(float64(in))
	m.bytesOut.WithLabelValues(method).Add(float64(out))
	m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (m *metrics) failed(method string, in int) {
	m.requests.WithLabelValues(method, "error").Inc()
	m.bytesIn.WithLabelValues(method).Add(float64(in))
}
