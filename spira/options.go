package spira

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultTimeout bounds a whole request including reading the body
	DefaultTimeout = 30 * time.Second
	// DefaultConnectTimeout bounds establishing the TCP connection
	DefaultConnectTimeout = 10 * time.Second
	// DefaultConcurrency is the number of projects fetched in parallel
	DefaultConcurrency = 4
	// MaxConcurrency caps WithConcurrency
	MaxConcurrency = 20
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout        time.Duration
	connectTimeout time.Duration
	httpClient     *http.Client
	transport      Transport
	requestsPerSec float64
	burst          int
	registerer     prometheus.Registerer
	insecure       bool
	concurrency    int
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:        DefaultTimeout,
		connectTimeout: DefaultConnectTimeout,
		concurrency:    DefaultConcurrency,
	}
}

// WithTimeout sets the overall request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithConnectTimeout sets the TCP connect timeout.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.connectTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client used by the default transport.
// Timeout and TLS options are ignored when this is set.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithTransport replaces the transport entirely, e.g. with a test double.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) {
		o.transport = t
	}
}

// WithRateLimit throttles outgoing requests. A non-positive rate disables limiting.
func WithRateLimit(requestsPerSec float64, burst int) Option {
	return func(o *clientOptions) {
		o.requestsPerSec = requestsPerSec
		o.burst = max(burst, 1)
	}
}

// WithMetrics registers request and fetch metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *clientOptions) {
		o.registerer = reg
	}
}

// WithInsecureSkipVerify disables certificate verification.
// Use with caution and only for development/testing.
func WithInsecureSkipVerify() Option {
	return func(o *clientOptions) {
		o.insecure = true
	}
}

// WithConcurrency sets how many projects are fetched in parallel by the
// multi-project helpers.
func WithConcurrency(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.concurrency = min(n, MaxConcurrency)
		}
	}
}
