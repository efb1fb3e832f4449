package spira

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransportHeadersAndPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/Services/v5_0/RestService.svc/projects/5/requirements", r.URL.Path)
		assert.Equal(t, "starting_row=1&number_of_rows=3", r.URL.RawQuery)
		assert.Equal(t, "fredbloggs", r.Header.Get("username"))
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-type"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	client, err := NewClient(server.URL, V5_0, "fredbloggs", "test-key", zerolog.Nop(), WithMetrics(reg))
	require.NoError(t, err)

	status, body, err := client.transport.Get(context.Background(), pagePath("projects/5/requirements", 1, 3))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(body))

	assert.Equal(t, 1.0, testutil.ToFloat64(client.metrics.requestTotal.WithLabelValues("200")))
}

func TestHTTPTransportEndToEnd(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/Services/v5_0/RestService.svc/projects/5":
			_, _ = w.Write([]byte(`{"ProjectId":5,"Name":"Alpha","Description":null,"CreationDate":"/Date(1707863960317-0600)/"}`))
		case "/Services/v5_0/RestService.svc/projects/6":
			_, _ = w.Write([]byte(projectSentinel))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, V5_0, "fredbloggs", "test-key", zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	p, err := client.ProjectByID(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Alpha", p.Name())
	assert.Equal(t, "", p.Description())

	p, err = client.ProjectByID(ctx, 6)
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = client.Projects(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPTransportInsecureTLS(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	strict, err := NewClient(server.URL, V5_0, "u", "k", zerolog.Nop())
	require.NoError(t, err)
	_, err = strict.Projects(context.Background())
	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr), "self-signed certificate is rejected")

	insecure, err := NewClient(server.URL, V5_0, "u", "k", zerolog.Nop(), WithInsecureSkipVerify())
	require.NoError(t, err)
	projects, err := insecure.Projects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestHTTPTransportHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, V5_0, "u", "k", zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Projects(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPTransportRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`0`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, V5_0, "u", "k", zerolog.Nop(), WithRateLimit(0.001, 1))
	require.NoError(t, err)

	_, err = client.RequirementsCount(context.Background(), 1)
	require.NoError(t, err, "burst allows the first request")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.RequirementsCount(ctx, 1)
	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}
