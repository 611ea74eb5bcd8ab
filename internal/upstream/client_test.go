package upstream_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/upstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func respond(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(body))}
}

func TestClient_GetJSON(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("merges query and sends headers", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Equal(t, "json", req.URL.Query().Get("format"))
				assert.Equal(t, "Berlin", req.URL.Query().Get("q"))
				assert.Equal(t, "secret", req.Header.Get("X-Api-Key"))
				return respond(http.StatusOK, `{"name":"Berlin"}`), nil
			},
		}
		header := http.Header{}
		header.Set("X-Api-Key", "secret")
		client := upstream.NewClient("test", mockClient, header, logger, nil)

		var out struct {
			Name string `json:"name"`
		}
		err := client.GetJSON(ctx, "https://example.org/search?format=json", url.Values{"q": {"Berlin"}}, &out)

		require.NoError(t, err)
		assert.Equal(t, "Berlin", out.Name)
		assert.Equal(t, "test", client.Provider())
	})

	t.Run("unauthorized", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return respond(http.StatusForbidden, ``), nil
			},
		}
		client := upstream.NewClient("test", mockClient, nil, logger, nil)

		err := client.GetJSON(ctx, "https://example.org", nil, &struct{}{})

		require.ErrorIs(t, err, upstream.ErrUnauthorized)
	})

	t.Run("unexpected status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return respond(http.StatusTooManyRequests, `{"error":"Rate limit exceeded"}`), nil
			},
		}
		client := upstream.NewClient("test", mockClient, nil, logger, nil)

		err := client.GetJSON(ctx, "https://example.org", nil, &struct{}{})

		require.ErrorIs(t, err, upstream.ErrUnexpectedStatus)
		assert.Contains(t, err.Error(), "status 429")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return respond(http.StatusOK, `invalid json`), nil
			},
		}
		client := upstream.NewClient("test", mockClient, nil, logger, nil)

		err := client.GetJSON(ctx, "https://example.org", nil, &struct{}{})

		require.ErrorContains(t, err, "failed to decode test response")
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}
		client := upstream.NewClient("test", mockClient, nil, logger, nil)

		_, err := client.Get(ctx, "https://example.org", nil)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to execute test request")
	})

	t.Run("transport error hides query string", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := upstream.NewClient("openweathermap_air", upstream.NewHTTPClient(time.Second), nil, logger, nil)

		err := client.GetJSON(ctx, srv.URL+"/data/2.5/air_pollution", url.Values{"appid": {"SECRET123"}}, &struct{}{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute openweathermap_air request")
		assert.Contains(t, err.Error(), "/data/2.5/air_pollution")
		assert.NotContains(t, err.Error(), "SECRET123")
		assert.NotContains(t, err.Error(), "appid")

		var urlErr *url.Error
		require.ErrorAs(t, err, &urlErr)
		assert.Equal(t, srv.URL+"/data/2.5/air_pollution", urlErr.URL)
	})

	t.Run("invalid base URL", func(t *testing.T) {
		client := upstream.NewClient("test", &mockHTTPClient{}, nil, logger, nil)

		_, err := client.Get(ctx, "://bad", nil)

		require.ErrorContains(t, err, "failed to parse base URL")
	})
}

func TestClient_RecordsMetrics(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	calls := 0
	mockClient := &mockHTTPClient{
		doFunc: func(_ *http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return respond(http.StatusOK, `{}`), nil
			}
			return respond(http.StatusInternalServerError, ``), nil
		},
	}
	client := upstream.NewClient("unsplash", mockClient, nil, slog.Default(), m)

	_, err := client.Get(context.Background(), "https://example.org", nil)
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "https://example.org", nil)
	require.Error(t, err)

	assert.InDelta(t, 1.0, testutil.ToFloat64(m.APIErrors.WithLabelValues("unsplash")), 0)
}

func TestNewHTTPClient(t *testing.T) {
	assert.Equal(t, upstream.DefaultTimeout, upstream.NewHTTPClient(0).Timeout)
	assert.Equal(t, upstream.DefaultTimeout*2, upstream.NewHTTPClient(upstream.DefaultTimeout*2).Timeout)
}
