package spira

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Client represents a Spira REST API client. It is read-only after
// construction and safe for concurrent use; decoded entities share it.
type Client struct {
	registry    *Registry
	transport   Transport
	logger      zerolog.Logger
	metrics     *metrics
	concurrency int
}

// NewClient creates a new Spira client. It validates the configuration and
// resolves the API version but does not contact the service.
func NewClient(baseURL string, version Version, username, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	registry, err := NewRegistry(baseURL, version)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	m, err := newMetrics(options.registerer)
	if err != nil {
		return nil, err
	}
	transport := options.transport
	if transport == nil {
		transport = newHTTPTransport(registry.Root(), username, apiKey, options, m, logger)
	}

	return &Client{
		registry:    registry,
		transport:   transport,
		logger:      logger,
		metrics:     m,
		concurrency: options.concurrency,
	}, nil
}

// Version returns the API version the client talks
func (c *Client) Version() Version {
	return c.registry.Version()
}

// Registry returns the endpoint registry the client resolves paths with
func (c *Client) Registry() *Registry {
	return c.registry
}

// TestConnection checks that the service is reachable and accepts the credentials
func (c *Client) TestConnection(ctx context.Context) error {
	path, err := c.registry.Path(EndpointProjects)
	if err != nil {
		return err
	}
	if _, err := c.get(ctx, path); err != nil {
		return fmt.Errorf("failed to connect to Spira: %w", err)
	}
	return nil
}

// get performs one request and maps transport failures and non-success
// statuses to errors.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	status, body, err := c.send(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(path, status, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, path string) (int, []byte, error) {
	c.logger.Trace().Str("url", c.registry.Root()+path).Msg("Requesting Spira resource")

	status, body, err := c.transport.Get(ctx, path)
	if err != nil {
		return 0, nil, &TransportError{Path: path, Err: err}
	}

	c.logger.Trace().Int("status", status).Str("body", truncate(body)).Msg("Spira response")
	return status, body, nil
}

func checkStatus(path string, status int, body []byte) error {
	if status < 200 || status > 299 {
		return &APIError{StatusCode: status, Path: path, Body: truncate(body)}
	}
	return nil
}
