package enrich_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnknownOlympus/cityscore/internal/enrich"
	"github.com/UnknownOlympus/cityscore/internal/models"
)

func TestPopulationClient_Population(t *testing.T) {
	t.Run("most populous match", func(t *testing.T) {
		client := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, enrich.GeoDBHost, req.Header.Get("x-rapidapi-host"))
			assert.Equal(t, "rapid-key", req.Header.Get("x-rapidapi-key"))
			assert.Equal(t, "Vienna", req.URL.Query().Get("namePrefix"))
			assert.Equal(t, "1", req.URL.Query().Get("limit"))
			assert.Equal(t, "-population", req.URL.Query().Get("sort"))
			return jsonResponse(http.StatusOK,
				`{"data":[{"id":1,"name":"Vienna","country":"Austria","population":1897491}]}`), nil
		}}
		populations := enrich.NewPopulationClient(client, "rapid-key", slog.Default(), nil)

		got := populations.Population(context.Background(), "Vienna")

		require.NotNil(t, got)
		assert.Equal(t, &models.Population{Name: "Vienna", Country: "Austria", Population: 1897491}, got)
	})

	t.Run("no match is nil", func(t *testing.T) {
		client := &mockHTTPClient{doFunc: func(_ *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"data":[]}`), nil
		}}
		populations := enrich.NewPopulationClient(client, "rapid-key", slog.Default(), nil)

		assert.Nil(t, populations.Population(context.Background(), "Xyzzy"))
	})

	t.Run("empty city skips request", func(t *testing.T) {
		client := &mockHTTPClient{}
		populations := enrich.NewPopulationClient(client, "rapid-key", slog.Default(), nil)

		assert.Nil(t, populations.Population(context.Background(), " "))
		assert.Zero(t, client.calls)
	})
}
