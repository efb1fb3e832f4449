package spira

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Transport performs one authenticated GET against a path relative to the
// service root. It returns the status code and the raw body; err is only
// set when no response was obtained.
type Transport interface {
	Get(ctx context.Context, path string) (status int, body []byte, err error)
}

// HTTPTransport is the default Transport, speaking HTTP to the service.
type HTTPTransport struct {
	root       string
	username   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
	metrics    *metrics
}

func newHTTPTransport(root, username, apiKey string, opts clientOptions, m *metrics, logger zerolog.Logger) *HTTPTransport {
	hc := opts.httpClient
	if hc == nil {
		dialer := &net.Dialer{Timeout: opts.connectTimeout, KeepAlive: 30 * time.Second}
		hc = &http.Client{
			Timeout: opts.timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: opts.connectTimeout,
				MaxIdleConnsPerHost: MaxConcurrency,
				TLSClientConfig:     &tls.Config{InsecureSkipVerify: opts.insecure}, //nolint:gosec // opt-in
			},
		}
	}

	t := &HTTPTransport{
		root:       root,
		username:   username,
		apiKey:     apiKey,
		httpClient: hc,
		logger:     logger,
		metrics:    m,
	}
	if opts.requestsPerSec > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(opts.requestsPerSec), opts.burst)
	}
	return t
}

// Get implements Transport
func (t *HTTPTransport) Get(ctx context.Context, path string) (int, []byte, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.root+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("username", t.username)
	req.Header.Set("api-key", t.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-type", "application/json")

	requestID := uuid.NewString()
	t.logger.Trace().
		Str("request_id", requestID).
		Str("path", path).
		Msg("Sending Spira request")

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.observe("error", start)
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.observe("error", start)
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	t.observe(strconv.Itoa(resp.StatusCode), start)

	t.logger.Trace().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("Received Spira response")

	return resp.StatusCode, body, nil
}

func (t *HTTPTransport) observe(code string, start time.Time) {
	if t.metrics == nil {
		return
	}
	t.metrics.requestTotal.WithLabelValues(code).Inc()
	t.metrics.requestDuration.WithLabelValues(code).Observe(time.Since(start).Seconds())
}
