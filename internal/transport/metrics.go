package transport

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records transport level request statistics.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
}

// NewMetrics creates the transport metrics and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mondaypro",
				Name:      "api_requests_total",
				Help:      "Total number of monday.com API attempts by credential and status code",
			},
			[]string{"credential", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mondaypro",
				Name:      "api_request_duration_seconds",
				Help:      "Duration of monday.com API attempts",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"credential"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mondaypro",
				Name:      "api_retries_total",
				Help:      "Total number of retried monday.com API attempts",
			},
			[]string{"credential"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.duration, m.retries)
	}
	return m
}

func (m *Metrics) observe(credential string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(credential, label).Inc()
	m.duration.WithLabelValues(credential).Observe(elapsed.Seconds())
}

func (m *Metrics) retried(credential string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(credential).Inc()
}
