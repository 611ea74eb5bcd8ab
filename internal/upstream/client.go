// Package upstream is the shared outbound HTTP plumbing used by every data provider adapter.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
)

// DefaultTimeout bounds a single outbound request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// UserAgent identifies the service to providers that require contact details.
const UserAgent = "CityScore/1.0 (https://github.com/UnknownOlympus/cityscore)"

// maxErrorBody caps how much of an error response is kept for logs.
const maxErrorBody = 512

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Common errors for upstream providers.
var (
	ErrUnexpectedStatus = errors.New("provider returned unexpected status")
	ErrUnauthorized     = errors.New("provider rejected credentials")
)

// Client performs requests against one provider and records per-provider metrics.
type Client struct {
	provider string
	client   HTTPClient
	header   http.Header
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// NewHTTPClient returns a plain HTTP client with the given timeout, or DefaultTimeout when zero.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NewClient creates a provider client. header is sent with every request and may be nil.
func NewClient(
	provider string,
	client HTTPClient,
	header http.Header,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *Client {
	if header == nil {
		header = http.Header{}
	}
	return &Client{provider: provider, client: client, header: header, log: log, metrics: metrics}
}

// Provider returns the provider name used for metrics and logs.
func (c *Client) Provider() string {
	return c.provider
}

// GetJSON issues a GET to baseURL with query appended and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, baseURL string, query url.Values, out any) error {
	body, err := c.Get(ctx, baseURL, query)
	if err != nil {
		return err
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.provider, err)
	}

	return nil
}

// Get issues a GET to baseURL with query appended and returns the raw body of a 200 response.
func (c *Client) Get(ctx context.Context, baseURL string, query url.Values) ([]byte, error) {
	start := time.Now()
	body, err := c.get(ctx, baseURL, query)
	c.metrics.ObserveRequest(c.provider, time.Since(start).Seconds(), err)

	return body, err
}

func (c *Client) get(ctx context.Context, baseURL string, query url.Values) ([]byte, error) {
	reqURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if len(query) > 0 {
		merged := reqURL.Query()
		for key, values := range query {
			for _, v := range values {
				merged.Add(key, v)
			}
		}
		reqURL.RawQuery = merged.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	// Query strings may carry API keys; only host and path are logged.
	c.log.DebugContext(ctx, "Upstream request", "provider", c.provider, "host", reqURL.Host, "path", reqURL.Path)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s request: %w", c.provider, redactURL(err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnauthorized, c.provider, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.ErrorContext(ctx, "Upstream API error",
			"provider", c.provider, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnexpectedStatus, c.provider, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// redactURL strips the query string from a transport error so API keys stay out of logs.
func redactURL(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	redacted, _, _ := strings.Cut(urlErr.URL, "?")
	return &url.Error{Op: urlErr.Op, URL: redacted, Err: urlErr.Err}
}
