package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the upstream collectors
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vending_console",
			Name:      "upstream_requests_total",
			Help:      "Upstream API calls by method, endpoint and outcome.",
		}, []string{"method", "endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vending_console",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
	if reg != nil {
		reg.MustRegister(m.UpstreamRequests, m.UpstreamDuration)
	}
	return m
}

// Observe records one upstream call. Its signature matches apiclient.Observer.
func (m *Metrics) Observe(method, endpoint string, statusCode int, elapsed time.Duration, err error) {
	m.UpstreamRequests.WithLabelValues(method, endpoint, outcome(statusCode, err)).Inc()
	m.UpstreamDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

func outcome(statusCode int, err error) string {
	switch {
	case statusCode == 0 && err != nil:
		return "transport_error"
	case err != nil && statusCode >= 200 && statusCode < 300:
		return "decode_error"
	case statusCode == 0:
		return "ok"
	default:
		return strconv.Itoa(statusCode)
	}
}
