package spira

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

type metrics struct {
	fetchTotal      *prometheus.CounterVec
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// newMetrics builds the client's collectors. With a nil Registerer the
// collectors still count but are not exported. Clients sharing a Registerer
// share its collectors.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	fetchTotal, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spira",
		Name:      "fetch_total",
		Help:      "Total number of typed fetch operations.",
	}, []string{"resource", "outcome"}))
	if err != nil {
		return nil, err
	}

	requestTotal, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spira",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests sent to the service.",
	}, []string{"code"}))
	if err != nil {
		return nil, err
	}

	requestDuration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "spira",
		Name:      "http_request_duration_seconds",
		Help:      "Latency distribution for HTTP requests to the service.",
		Buckets: []float64{
			0.01, 0.02, 0.05,
			0.1, 0.2, 0.5,
			1, 2, 5, 10, 30,
		},
	}, []string{"code"}))
	if err != nil {
		return nil, err
	}

	return &metrics{
		fetchTotal:      fetchTotal,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
	}, nil
}

// register adds c to reg, returning the collector already registered under
// the same descriptor when there is one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("failed to register metrics: %w", err)
	}
	return c, nil
}

func (m *metrics) fetch(e Endpoint, outcome string) {
	m.fetchTotal.WithLabelValues(string(e), outcome).Inc()
}
